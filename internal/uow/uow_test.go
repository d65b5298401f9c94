package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
)

var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}

func newUoW(t *testing.T) (*UoW, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUoW(postgresrepo.NewStore(mock)), mock
}

func touch(ctx context.Context, tx postgresrepo.DB) error {
	_, err := tx.Exec(ctx, "UPDATE trip_seats")
	return err
}

func TestDoRetriesSerializationFailure(t *testing.T) {
	u, mock := newUoW(t)

	mock.ExpectBeginTx(serializable)
	mock.ExpectExec("UPDATE trip_seats").WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBeginTx(serializable)
	mock.ExpectExec("UPDATE trip_seats").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	var attempts, hooks int
	err := u.Do(context.Background(), func(ctx context.Context, tx postgresrepo.DB, after func(AfterCommit)) error {
		attempts++
		after(func(context.Context) { hooks++ })
		return touch(ctx, tx)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, hooks, "hooks of the failed attempt must be dropped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	u, mock := newUoW(t)
	boom := errors.New("boom")

	mock.ExpectBeginTx(serializable)
	mock.ExpectRollback()

	var attempts, hooks int
	err := u.Do(context.Background(), func(ctx context.Context, tx postgresrepo.DB, after func(AfterCommit)) error {
		attempts++
		after(func(context.Context) { hooks++ })
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
	assert.Zero(t, hooks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoRetryExhausted(t *testing.T) {
	u, mock := newUoW(t)
	u = u.WithMaxRetries(1)

	for range 2 {
		mock.ExpectBeginTx(serializable)
		mock.ExpectExec("UPDATE trip_seats").WillReturnError(&pgconn.PgError{Code: "40P01"})
		mock.ExpectRollback()
	}

	err := u.Do(context.Background(), func(ctx context.Context, tx postgresrepo.DB, _ func(AfterCommit)) error {
		return touch(ctx, tx)
	})

	assert.ErrorIs(t, err, repository.ErrRetryExhausted)
	assert.True(t, postgresrepo.IsRetryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoWithOptsReadOnly(t *testing.T) {
	u, mock := newUoW(t)
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly}

	mock.ExpectBeginTx(opts)
	mock.ExpectCommit()

	err := u.DoWithOpts(context.Background(), &opts, func(context.Context, postgresrepo.DB, func(AfterCommit)) error {
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithMaxRetriesCopies(t *testing.T) {
	u, _ := newUoW(t)
	none := u.WithMaxRetries(-3)

	assert.Equal(t, defaultMaxRetries, u.maxRetries)
	assert.Zero(t, none.maxRetries)
}
