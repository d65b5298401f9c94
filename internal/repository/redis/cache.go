package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a JSON read-through cache over Redis. Concurrent misses on the
// same key are coalesced into one load. Every key carries a generation that
// Del bumps, and a load only stores its result if the generation it saw
// before loading is still current. A commit that invalidates while a reader
// is loading therefore cannot be overwritten by the pre-commit figures.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

// Generations outlive any cached value.
const genTTL = 24 * time.Hour

// KEYS[1] = value key, KEYS[2] = generation key
// ARGV[1] = generation seen before loading, ARGV[2] = value, ARGV[3] = ttl_ms
var fillIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func genKey(key string) string { return key + ":gen" }

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return s, true, nil
}

func (c *Cache) SetString(
	ctx context.Context,
	key string,
	val string,
	ttl time.Duration,
) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

// Del drops keys and bumps their generations in one transaction.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		for _, k := range keys {
			p.Incr(ctx, genKey(k))
			p.Expire(ctx, genKey(k), genTTL)
		}
		return nil
	})

	return err
}

func (c *Cache) generation(ctx context.Context, key string) (string, error) {
	gen, ok, err := c.GetString(ctx, genKey(key))
	if err != nil {
		return "", err
	}

	if !ok {
		return "0", nil
	}

	return gen, nil
}

func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T

	s, ok, err := c.GetString(ctx, key)
	if err != nil || !ok {
		return zero, ok, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return zero, false, err
	}

	return out, true, nil
}

func SetJSON(
	ctx context.Context,
	c *Cache,
	key string,
	val any,
	ttl time.Duration,
) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.SetString(ctx, key, string(b), ttl)
}

// GetOrSetJSON returns the cached value of key, loading and storing it on a
// miss. The database stays the source of truth: a nil cache, an unreachable
// Redis or an undecodable entry all fall through to loader.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if c == nil {
		return loader(ctx)
	}

	v, ok, err := GetJSON[T](ctx, c, key)
	if err != nil {
		return loader(ctx)
	}

	if ok {
		return v, nil
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		gen, genErr := c.generation(ctx, key)

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		if genErr == nil {
			if b, err := json.Marshal(v); err == nil {
				_ = fillIfCurrent.Run(ctx, c.rdb, []string{key, genKey(key)}, gen, string(b), ttl.Milliseconds()).Err()
			}
		}

		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	v, ok = vAny.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("redisrepo.GetOrSetJSON: cached %T for %s", vAny, key)
	}

	return v, nil
}

// InvalidateTrip drops every projection cached for a trip.
func (c *Cache) InvalidateTrip(ctx context.Context, tripID int64) error {
	return c.Del(
		ctx,
		KeyTripAvailability(tripID),
		KeyTripSeatMap(tripID),
	)
}

func (c *Cache) InvalidateVehicleType(ctx context.Context, vehicleTypeID int64) error {
	return c.Del(ctx, KeyVehicleTypeAvailability(vehicleTypeID))
}
