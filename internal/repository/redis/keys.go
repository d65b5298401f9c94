package redisrepo

import "fmt"

const ns = "busseat:v1"

func KeyTripAvailability(tripID int64) string {
	return fmt.Sprintf("%s:trip:%d:availability", ns, tripID)
}

func KeyTripSeatMap(tripID int64) string {
	return fmt.Sprintf("%s:trip:%d:seatmap", ns, tripID)
}

func KeyVehicleTypeAvailability(vehicleTypeID int64) string {
	return fmt.Sprintf("%s:vtype:%d:availability", ns, vehicleTypeID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func KeyIdemBooking(tripID, buyerID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:book:%d:%d:%s", ns, tripID, buyerID, idemKey)
}

func ChannelTripsChanged() string {
	return ns + ":trips:changed"
}
