package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// One sorted set per subject, scored by hit time in ms.
// KEYS   = subjects
// ARGV[1] = now_ms
// ARGV[2] = window_ms
// ARGV[3] = limit
// ARGV[4] = member
//
// A hit is recorded on every subject only when all of them have room, so a
// refused attempt never extends the wait.
const luaSlidingWindow = `
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local hits = 0
local wait = 0

for _, key in ipairs(KEYS) do
  redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
  local n = redis.call('ZCARD', key)
  if n > hits then hits = n end
  if n >= limit then
    local w = window
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    if oldest[2] then w = window - (now - tonumber(oldest[2])) end
    if w > wait then wait = w end
  end
end

if wait > 0 then
  return {0, hits, wait}
end

for _, key in ipairs(KEYS) do
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
end
return {1, hits + 1, 0}
`

// RateDecision is the outcome of one Allow call. Hits counts the busiest
// subject's window including this hit when it was allowed.
type RateDecision struct {
	Allowed    bool
	Hits       int64
	RetryAfter time.Duration
}

// SlidingWindowLimiter allows at most limit hits per subject within window.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	script *redis.Script
	now    func() time.Time
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	scope string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		script: redis.NewScript(luaSlidingWindow),
		now:    time.Now,
	}
}

// Allow records one hit against every subject, or none if any of them is
// over budget.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, subjects ...string) (RateDecision, error) {
	const op = "redisrepo.SlidingWindowLimiter.Allow"

	if len(subjects) == 0 {
		return RateDecision{Allowed: true}, nil
	}

	keys := make([]string, len(subjects))
	for i, s := range subjects {
		keys[i] = KeyRateLimit(l.scope, s)
	}

	res, err := l.script.Run(
		ctx,
		l.rdb,
		keys,
		l.now().UnixMilli(), l.window.Milliseconds(), l.limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return RateDecision{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(res) != 3 {
		return RateDecision{}, fmt.Errorf("%s: unexpected script result %v", op, res)
	}

	return RateDecision{
		Allowed:    res[0] == 1,
		Hits:       res[1],
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
