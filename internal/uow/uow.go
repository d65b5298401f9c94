package uow

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
)

const (
	defaultMaxRetries = 5
	retryBackoff      = 10 * time.Millisecond
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// UoW represents a unit of work.
type UoW struct {
	store      *postgresrepo.Store
	maxRetries int
}

func NewUoW(store *postgresrepo.Store) *UoW {
	return &UoW{store: store, maxRetries: defaultMaxRetries}
}

// WithMaxRetries returns a copy that retries serialization failures up to n
// times. n <= 0 disables retries.
func (u *UoW) WithMaxRetries(n int) *UoW {
	cp := *u
	cp.maxRetries = max(n, 0)
	return &cp
}

// Do runs fn inside the transaction. After a successful commit,
// it executes all after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgresrepo.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts runs fn inside the transaction with the given options. A
// serialization failure or deadlock reruns fn in a fresh transaction, so fn
// must not keep state across calls. After a successful commit, it executes
// all after-commit hooks registered by the attempt that committed.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgresrepo.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	for attempt := 0; ; attempt++ {
		hooks = hooks[:0]

		err := u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgresrepo.DB) error {
			return fn(ctx, tx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil {
			break
		}

		if !postgresrepo.IsRetryable(err) {
			return err
		}

		if attempt >= u.maxRetries {
			return fmt.Errorf("%w: %w", repository.ErrRetryExhausted, err)
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(retryBackoff * time.Duration(attempt+1)):
		}
	}

	hookCtx := context.WithoutCancel(ctx)
	for _, h := range hooks {
		h(hookCtx)
	}

	return nil
}
