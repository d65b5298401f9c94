package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/busseat-go/internal/config"
	"github.com/kirinyoku/busseat-go/internal/layout"
	"github.com/kirinyoku/busseat-go/internal/postgres"
	"github.com/kirinyoku/busseat-go/internal/redis"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/service"
	"github.com/kirinyoku/busseat-go/internal/service/availability"
	"github.com/kirinyoku/busseat-go/internal/service/booking"
	httpgin "github.com/kirinyoku/busseat-go/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *postgresrepo.Store
	rdb        *goredis.Client
	cache      *redisrepo.Cache
	pubsub     *redisrepo.TripsPubSub
	services   *service.Services
	httpServer *http.Server
	closeDB    func()
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	catalog := layout.DefaultCatalog
	if cfg.Layout.File != "" {
		c, err := layout.Load(cfg.Layout.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load layout catalog: %w", err)
		}
		catalog = c
		logger.Info("layout catalog loaded", "file", cfg.Layout.File, "templates", len(c.Templates))
	}

	pgxPool, err := postgres.New(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN(),
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewTripsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "book", cfg.Booking.RateLimit, cfg.Booking.RateWindow)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Booking.IdempotencyTTL)

	// Services
	services := service.NewServices(store, cache, pubsub, limiter, service.Config{
		Booking: booking.Config{
			Timeout:    cfg.Booking.Timeout,
			MaxRetries: cfg.Booking.MaxRetries,
			PaymentTTL: cfg.Booking.PaymentTTL,
		},
		Availability: availability.Config{CacheTTL: cfg.Booking.CacheTTL},
		Catalog:      catalog,
	})

	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		rdb:      rdb,
		cache:    cache,
		pubsub:   pubsub,
		services: services,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		closeDB: pgxPool.Close,
	}, nil
}

// Migrate applies the database schema.
func (a *App) Migrate(ctx context.Context) error {
	if err := a.store.Migrate(ctx); err != nil {
		return err
	}
	a.logger.Info("schema applied")
	return nil
}

// Run serves HTTP and runs the background workers until ctx is cancelled or
// the process receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.sweepUnpaid(gCtx)
	})

	g.Go(func() error {
		return a.watchChanges(gCtx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

// sweepUnpaid periodically releases seats of tickets whose payment deadline
// passed without a payment.
func (a *App) sweepUnpaid(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.Booking.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := a.services.Booking.ReleaseUnpaid(ctx)
			if err != nil && ctx.Err() == nil {
				a.logger.Error("release unpaid tickets", "error", err, "released", n)
				continue
			}
			if n > 0 {
				a.logger.Info("released unpaid tickets", "released", n)
			}
		}
	}
}

// watchChanges drops cached projections when another instance reports a
// change. Writes made by this instance are invalidated after commit already.
func (a *App) watchChanges(ctx context.Context) error {
	err := a.pubsub.Subscribe(ctx, func(ctx context.Context, msg redisrepo.ChangeMsg) {
		var err error
		switch msg.Type {
		case redisrepo.ChangeTrip:
			err = a.cache.InvalidateTrip(ctx, msg.ID)
		case redisrepo.ChangeVehicleType:
			err = a.cache.InvalidateVehicleType(ctx, msg.ID)
		default:
			return
		}
		if err != nil {
			a.logger.Warn("cache invalidation failed", "type", msg.Type, "id", msg.ID, "error", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("inventory change subscription: %w", err)
	}
	return nil
}

// Close releases the Redis client and the connection pool.
func (a *App) Close() {
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("closing redis", "error", err)
	}
	a.closeDB()
}
