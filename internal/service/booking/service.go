package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/uow"
)

type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	PaymentTTL   time.Duration
	ReleaseBatch int
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.TripsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
	now     func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.TripsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}

	if cfg.PaymentTTL <= 0 {
		cfg.PaymentTTL = 15 * time.Minute
	}

	if cfg.ReleaseBatch <= 0 {
		cfg.ReleaseBatch = 100
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store).WithMaxRetries(cfg.MaxRetries),
		cfg:     cfg,
		now:     time.Now,
	}
}

type BookRequest struct {
	TripID int64
	// SeatNumber pins a seat; empty takes the lowest free one.
	SeatNumber    string
	Buyer         domain.Buyer
	PickupStopID  int64
	DropoffStopID int64
	// PriceCents of 0 charges the vehicle type's seat price.
	PriceCents     int64
	IdempotencyKey string
	// RateKey identifies the client for rate limiting; empty disables it.
	RateKey string
}

func (r BookRequest) validate() error {
	if r.TripID <= 0 {
		return domain.InvalidInputError{Field: "trip_id", Msg: "must be positive"}
	}

	if r.Buyer.ID <= 0 {
		return domain.InvalidInputError{Field: "buyer_id", Msg: "must be positive"}
	}

	if strings.TrimSpace(r.Buyer.Name) == "" {
		return domain.InvalidInputError{Field: "buyer_name", Msg: "must not be empty"}
	}

	if r.PickupStopID <= 0 || r.DropoffStopID <= 0 {
		return domain.InvalidInputError{Field: "stops", Msg: "pickup and dropoff are required"}
	}

	if r.PickupStopID == r.DropoffStopID {
		return domain.InvalidInputError{Field: "stops", Msg: "pickup and dropoff must differ"}
	}

	if r.PriceCents < 0 {
		return domain.InvalidInputError{Field: "price_cents", Msg: "must not be negative"}
	}

	return nil
}

// Book sells one seat of a trip. Checking that the seat is free, inserting
// the ticket and linking the seat to it happen in one serializable
// transaction, so of several concurrent bookings for a seat exactly one wins.
//
// Parameters:
//   - ctx: request-scoped context.
//   - req: trip, optional seat, buyer, stops, price and idempotency key.
//
// Returns:
//   - *domain.Ticket: the new ticket, or the earlier one on an idempotent replay.
//   - bool: true when the ticket was created by this call.
//   - error: domain.InvalidInputError for a malformed request or route.
//   - error: booking.ErrTripNotFound / ErrSeatNotFound for unknown trip or seat.
//   - error: booking.ErrSeatTaken if the seat is held by an active ticket.
//   - error: booking.ErrSeatDisabled / ErrTripNotBookable for invalid state.
//   - error: booking.ErrBookingTimeout if the deadline passes first.
//   - error: booking.RateLimitedError if the client is over budget.
func (s *Service) Book(ctx context.Context, req BookRequest) (*domain.Ticket, bool, error) {
	const op = "service.booking.Book"

	req.SeatNumber = strings.TrimSpace(req.SeatNumber)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)

	if err := req.validate(); err != nil {
		return nil, false, fmt.Errorf("%s:%w", op, err)
	}

	if s.limiter != nil && req.RateKey != "" {
		d, err := s.limiter.Allow(ctx, req.RateKey, "buyer:"+strconv.FormatInt(req.Buyer.ID, 10))
		if err != nil {
			return nil, false, fmt.Errorf("%s:%w", op, err)
		}
		if !d.Allowed {
			return nil, false, fmt.Errorf("%s:%w", op, RateLimitedError{RetryAfter: d.RetryAfter})
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var (
		ticket  *domain.Ticket
		created bool
	)

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		ticket, created = nil, false

		repo := s.store.Bookings().With(tx)

		if req.IdempotencyKey != "" {
			prev, err := repo.TicketByIdempotencyKey(ctx, req.Buyer.ID, req.IdempotencyKey)
			switch {
			case err == nil:
				if prev.TripID != req.TripID {
					return ErrIdempotencyReuse
				}
				ticket = prev
				return nil
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}
		}

		target, err := repo.Target(ctx, req.TripID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTripNotFound
			}

			return err
		}

		if err := checkRoute(target.Stops, req.PickupStopID, req.DropoffStopID); err != nil {
			return err
		}

		if !target.Status.Bookable() {
			return fmt.Errorf("%w: trip is %s", ErrTripNotBookable, target.Status)
		}

		seat := req.SeatNumber
		if seat == "" {
			seat, err = repo.LowestFreeSeat(ctx, req.TripID)
			if err != nil {
				return mapSeatErr(err)
			}
		} else if err := repo.CheckSeat(ctx, req.TripID, seat); err != nil {
			return mapSeatErr(err)
		}

		price := req.PriceCents
		if price == 0 {
			price = target.PriceCents
		}

		now := s.now().UTC()
		t := domain.Ticket{
			ID:              uuid.New(),
			TripID:          req.TripID,
			SeatNumber:      seat,
			Buyer:           req.Buyer,
			PickupStopID:    req.PickupStopID,
			DropoffStopID:   req.DropoffStopID,
			PriceCents:      price,
			Status:          domain.TicketBooked,
			IdempotencyKey:  req.IdempotencyKey,
			PaymentDeadline: now.Add(s.cfg.PaymentTTL),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := repo.InsertTicket(ctx, t); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrIdempotencyBusy
			}

			return mapSeatErr(err)
		}

		if err := repo.ClaimSeat(ctx, req.TripID, seat, t.ID); err != nil {
			return mapSeatErr(err)
		}

		ticket, created = &t, true

		after(s.tripChanged(req.TripID))

		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s:%w", op, s.mapTxErr(ctx, err, ErrSeatTaken))
	}

	return ticket, created, nil
}

// Cancel cancels a booked ticket and frees its seat. The seat is released
// only if it is still linked to this ticket.
//
// Returns:
//   - *domain.Ticket: the ticket after cancellation.
//   - error: booking.ErrTicketNotFound if the ticket does not exist.
//   - error: booking.TicketStateError if the ticket is not booked.
//   - error: booking.ErrSeatLinkLost if the seat no longer points at the ticket.
func (s *Service) Cancel(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	const op = "service.booking.Cancel"

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var out *domain.Ticket

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		t, err := s.cancelTx(ctx, tx, ticketID)
		if err != nil {
			return err
		}

		out = t

		after(s.tripChanged(t.TripID))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, s.mapTxErr(ctx, err, ErrBookingTimeout))
	}

	return out, nil
}

func (s *Service) cancelTx(ctx context.Context, tx postgresrepo.DB, ticketID uuid.UUID) (*domain.Ticket, error) {
	repo := s.store.Bookings().With(tx)

	t, err := repo.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}

		return nil, err
	}

	if t.Status != domain.TicketBooked {
		return nil, TicketStateError{Op: "cancel", Status: t.Status}
	}

	if err := repo.SetTicketStatus(ctx, t.ID, domain.TicketBooked, domain.TicketCancelled); err != nil {
		if errors.Is(err, repository.ErrStaleTicket) {
			return nil, TicketStateError{Op: "cancel", Status: t.Status}
		}

		return nil, err
	}

	if err := repo.ReleaseSeat(ctx, t.TripID, t.SeatNumber, t.ID); err != nil {
		if errors.Is(err, repository.ErrStaleTicket) {
			return nil, ErrSeatLinkLost
		}

		return nil, err
	}

	t.Status = domain.TicketCancelled
	t.UpdatedAt = s.now().UTC()

	return t, nil
}

// Complete marks a booked and paid ticket as travelled. The seat stays linked.
//
// Returns:
//   - *domain.Ticket: the ticket after the change.
//   - error: booking.ErrTicketNotFound if the ticket does not exist.
//   - error: booking.TicketStateError if the ticket is not booked.
//   - error: booking.ErrTicketUnpaid if no payment was recorded.
func (s *Service) Complete(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	const op = "service.booking.Complete"

	t, err := s.transition(ctx, ticketID, "complete", domain.TicketBooked, domain.TicketCompleted)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return t, nil
}

// Refund moves a completed ticket to refunded. The seat is not reused.
func (s *Service) Refund(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	const op = "service.booking.Refund"

	t, err := s.transition(ctx, ticketID, "refund", domain.TicketCompleted, domain.TicketRefunded)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return t, nil
}

func (s *Service) transition(
	ctx context.Context,
	ticketID uuid.UUID,
	verb string,
	from, to domain.TicketStatus,
) (*domain.Ticket, error) {
	var out *domain.Ticket

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.Bookings().With(tx)

		t, err := repo.GetTicket(ctx, ticketID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTicketNotFound
			}

			return err
		}

		if t.Status != from {
			return TicketStateError{Op: verb, Status: t.Status}
		}

		if to == domain.TicketCompleted {
			paid, err := repo.IsPaid(ctx, t.ID)
			if err != nil {
				return err
			}

			if !paid {
				return ErrTicketUnpaid
			}
		}

		if err := repo.SetTicketStatus(ctx, t.ID, from, to); err != nil {
			if errors.Is(err, repository.ErrStaleTicket) {
				return TicketStateError{Op: verb, Status: t.Status}
			}

			return err
		}

		t.Status = to
		t.UpdatedAt = s.now().UTC()
		out = t

		after(s.tripChanged(t.TripID))

		return nil
	})
	if err != nil {
		return nil, s.mapTxErr(ctx, err, ErrBookingTimeout)
	}

	return out, nil
}

// RecordPayment stores a payment for a booked or completed ticket. Payments
// are append-only; a paid ticket is no longer released by ReleaseUnpaid.
//
// Returns:
//   - *domain.Payment: the stored payment.
//   - error: booking.ErrTicketNotFound if the ticket does not exist.
//   - error: booking.TicketStateError if the ticket is cancelled or refunded.
func (s *Service) RecordPayment(
	ctx context.Context,
	ticketID uuid.UUID,
	amountCents int64,
	method string,
) (*domain.Payment, error) {
	const op = "service.booking.RecordPayment"

	method = strings.TrimSpace(method)

	if amountCents <= 0 {
		return nil, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "amount_cents", Msg: "must be positive"})
	}

	if method == "" {
		return nil, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "method", Msg: "must not be empty"})
	}

	var out *domain.Payment

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.Bookings().With(tx)

		t, err := repo.GetTicket(ctx, ticketID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTicketNotFound
			}

			return err
		}

		if !t.Status.Active() {
			return TicketStateError{Op: "pay for", Status: t.Status}
		}

		p := domain.Payment{
			ID:          uuid.New(),
			TicketID:    t.ID,
			AmountCents: amountCents,
			Method:      method,
			PaidAt:      s.now().UTC(),
		}

		if err := repo.InsertPayment(ctx, p); err != nil {
			return err
		}

		out = &p

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, s.mapTxErr(ctx, err, ErrBookingTimeout))
	}

	return out, nil
}

// ReleaseUnpaid cancels booked tickets whose payment deadline has passed
// without a payment and frees their seats. Each ticket is released in its
// own transaction; a ticket paid or cancelled in the meantime is skipped.
//
// Returns:
//   - int: number of tickets released.
//   - error: the joined errors of tickets that could not be released.
func (s *Service) ReleaseUnpaid(ctx context.Context) (int, error) {
	const op = "service.booking.ReleaseUnpaid"

	now := s.now().UTC()

	ids, err := s.store.Bookings().ExpiredUnpaid(ctx, now, s.cfg.ReleaseBatch)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	var (
		released int
		errs     []error
	)

	for _, id := range ids {
		var done bool

		err := s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			done = false

			repo := s.store.Bookings().With(tx)

			t, err := repo.GetTicket(ctx, id)
			if err != nil {
				return err
			}

			if t.Status != domain.TicketBooked || t.PaymentDeadline.After(now) {
				return nil
			}

			paid, err := repo.IsPaid(ctx, id)
			if err != nil || paid {
				return err
			}

			if _, err := s.cancelTx(ctx, tx, id); err != nil {
				return err
			}

			done = true

			after(s.tripChanged(t.TripID))

			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("ticket %s: %w", id, err))
			continue
		}

		if done {
			released++
		}
	}

	if len(errs) > 0 {
		return released, fmt.Errorf("%s:%w", op, errors.Join(errs...))
	}

	return released, nil
}

// Get returns a ticket by id.
func (s *Service) Get(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	const op = "service.booking.Get"

	t, err := s.store.Bookings().GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTicketNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return t, nil
}

func (s *Service) tripChanged(tripID int64) uow.AfterCommit {
	return func(ctx context.Context) {
		_ = s.cache.InvalidateTrip(ctx, tripID)
		_ = s.pubsub.PublishTripChanged(ctx, tripID)
	}
}

// mapTxErr turns a missed deadline into ErrBookingTimeout and exhausted
// serialization retries into onContention.
func (s *Service) mapTxErr(ctx context.Context, err, onContention error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrBookingTimeout, err)
	}

	if errors.Is(err, repository.ErrRetryExhausted) {
		return fmt.Errorf("%w: %w", onContention, err)
	}

	return err
}

func mapSeatErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrSeatUnavailable):
		return ErrSeatTaken
	case errors.Is(err, repository.ErrSeatDisabled):
		return ErrSeatDisabled
	case errors.Is(err, repository.ErrNotFound):
		return ErrSeatNotFound
	}

	return err
}

// checkRoute verifies both stops belong to the trip and pickup comes first.
func checkRoute(stops []domain.Stop, pickupID, dropoffID int64) error {
	pickup, dropoff := -1, -1
	for _, st := range stops {
		switch st.ID {
		case pickupID:
			pickup = st.Seq
		case dropoffID:
			dropoff = st.Seq
		}
	}

	if pickup < 0 {
		return domain.InvalidInputError{Field: "pickup_stop_id", Msg: "stop does not belong to this trip"}
	}

	if dropoff < 0 {
		return domain.InvalidInputError{Field: "dropoff_stop_id", Msg: "stop does not belong to this trip"}
	}

	if pickup >= dropoff {
		return domain.InvalidInputError{Field: "dropoff_stop_id", Msg: "dropoff must come after pickup"}
	}

	return nil
}
