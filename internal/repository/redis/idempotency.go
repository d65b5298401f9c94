package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemLock      = "LOCK"
	idemResPrefix = "RES:"
)

// IdempotencyStore remembers the response of a request keyed by a client
// token. A key is either locked (request in flight) or holds the result.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// AcquireLock marks key as in flight. It returns false when the key is
// already locked or already holds a result.
func (s *IdempotencyStore) AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, idemLock, lockTTL).Result()
}

// SaveResult replaces the lock with the HTTP status and body of the response.
func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, status int, jsonPayload string) error {
	val := fmt.Sprintf("%s%d:%s", idemResPrefix, status, jsonPayload)
	return s.rdb.Set(ctx, key, val, s.ttl).Err()
}

// GetResult returns the stored response, if any.
func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (int, string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, err
	}

	rest, ok := strings.CutPrefix(v, idemResPrefix)
	if !ok {
		return 0, "", false, nil
	}

	code, payload, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, "", false, fmt.Errorf("malformed idempotency record %q", key)
	}

	status, err := strconv.Atoi(code)
	if err != nil {
		return 0, "", false, fmt.Errorf("malformed idempotency record %q: %w", key, err)
	}

	return status, payload, true, nil
}

// Release drops the key so the client may retry from scratch.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
