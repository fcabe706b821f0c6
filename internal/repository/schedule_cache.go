package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carservice/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ScheduleSource is the uncached branch schedule lookup.
type ScheduleSource interface {
	GetSchedule(ctx context.Context, branchID int64, dayOfWeek int) (*domain.BranchSchedule, error)
}

// closedMarker is cached for days a branch does not open, so closed days are
// not re-queried on every availability request.
const closedMarker = "closed"

// CachedScheduleLookup serves branch schedules from Redis and falls back to the
// source on a miss. Redis failures are logged and never fail the lookup.
type CachedScheduleLookup struct {
	source ScheduleSource
	rdb    redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedScheduleLookup(source ScheduleSource, rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) *CachedScheduleLookup {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedScheduleLookup{source: source, rdb: rdb, ttl: ttl, log: log}
}

func scheduleKey(branchID int64, dayOfWeek int) string {
	return fmt.Sprintf("branch_schedule:%d:%d", branchID, dayOfWeek)
}

func (c *CachedScheduleLookup) GetSchedule(ctx context.Context, branchID int64, dayOfWeek int) (*domain.BranchSchedule, error) {
	key := scheduleKey(branchID, dayOfWeek)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if raw == closedMarker {
			return nil, nil
		}
		var s domain.BranchSchedule
		if jerr := json.Unmarshal([]byte(raw), &s); jerr == nil {
			return &s, nil
		}
		c.log.Warn("discarding corrupt schedule cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("schedule cache read failed", zap.String("key", key), zap.Error(err))
	}

	s, err := c.source.GetSchedule(ctx, branchID, dayOfWeek)
	if err != nil {
		return nil, err
	}

	value := closedMarker
	if s != nil {
		b, err := json.Marshal(s)
		if err != nil {
			return s, nil
		}
		value = string(b)
	}
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn("schedule cache write failed", zap.String("key", key), zap.Error(err))
	}
	return s, nil
}

// Invalidate drops the cached entry, for use after a schedule edit.
func (c *CachedScheduleLookup) Invalidate(ctx context.Context, branchID int64, dayOfWeek int) error {
	return c.rdb.Del(ctx, scheduleKey(branchID, dayOfWeek)).Err()
}
