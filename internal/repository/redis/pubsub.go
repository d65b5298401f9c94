package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Change kinds carried on the trips channel.
const (
	ChangeTrip        = "trip_changed"
	ChangeVehicleType = "vehicle_type_changed"
)

// TripsPubSub broadcasts inventory changes to every instance of the service.
type TripsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewTripsPubSub(rdb *redis.Client) *TripsPubSub {
	return &TripsPubSub{
		rdb:     rdb,
		channel: ChannelTripsChanged(),
	}
}

type ChangeMsg struct {
	Type   string `json:"type"`
	ID     int64  `json:"id"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *TripsPubSub) PublishTripChanged(ctx context.Context, tripID int64) error {
	return p.publish(ctx, ChangeTrip, tripID)
}

func (p *TripsPubSub) PublishVehicleTypeChanged(ctx context.Context, vehicleTypeID int64) error {
	return p.publish(ctx, ChangeVehicleType, vehicleTypeID)
}

func (p *TripsPubSub) publish(ctx context.Context, kind string, id int64) error {
	if p == nil {
		return nil
	}

	b, err := json.Marshal(ChangeMsg{
		Type:   kind,
		ID:     id,
		TsUnix: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe delivers change messages to handler until ctx is done.
// Malformed messages are skipped.
func (p *TripsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, msg ChangeMsg)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg ChangeMsg
			if err := json.Unmarshal([]byte(m.Payload), &msg); err == nil && msg.ID != 0 {
				handler(ctx, msg)
			}
		}
	}
}
