// Package cache keeps tour averages in redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"explore_tours/internal/domain/entity"
)

const (
	keyPrefix        = "tour:average:"
	versionKeyPrefix = "tour:average:ver:"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type averageEntry struct {
	Value float64 `json:"value"`
	Count int64   `json:"count"`
}

type redisClient interface {
	redis.Cmdable
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

// AverageCache stores the average under tour:average:<id> and its version
// counter under tour:average:ver:<id>. Version keys never expire.
type AverageCache struct {
	client redisClient
	ttl    time.Duration
}

// NewAverageCache stores entries for ttl. Zero ttl keeps them until invalidated.
func NewAverageCache(client redisClient, ttl time.Duration) *AverageCache {
	return &AverageCache{client: client, ttl: ttl}
}

func (c *AverageCache) Get(ctx context.Context, tourID int64) (entity.Average, bool, error) {
	raw, err := c.client.Get(ctx, key(tourID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Average{}, false, nil
		}

		return entity.Average{}, false, fmt.Errorf("redis.Get: %w", err)
	}

	var e averageEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return entity.Average{}, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return entity.Average{Value: e.Value, Count: e.Count}, true, nil
}

func (c *AverageCache) Version(ctx context.Context, tourID int64) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(tourID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("redis.Get: %w", err)
	}

	return version, nil
}

// Store writes avg in a WATCH transaction on the version key. A version that
// moved on, before or during the transaction, leaves the entry untouched.
func (c *AverageCache) Store(ctx context.Context, tourID, version int64, avg entity.Average) (bool, error) {
	raw, err := json.Marshal(averageEntry{Value: avg.Value, Count: avg.Count})
	if err != nil {
		return false, fmt.Errorf("json.Marshal: %w", err)
	}

	verKey := versionKey(tourID)
	stored := false

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis.Get: %w", err)
		}

		if current != version {
			return nil
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(tourID), raw, c.ttl)
			return nil
		}); err != nil {
			return fmt.Errorf("tx.TxPipelined: %w", err)
		}

		stored = true

		return nil
	}, verKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("redis.Watch: %w", err)
	}

	return stored, nil
}

func (c *AverageCache) Invalidate(ctx context.Context, tourID int64) error {
	if _, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(tourID))
		pipe.Del(ctx, key(tourID))

		return nil
	}); err != nil {
		return fmt.Errorf("redis.TxPipelined: %w", err)
	}

	return nil
}

func key(tourID int64) string {
	return keyPrefix + strconv.FormatInt(tourID, 10)
}

func versionKey(tourID int64) string {
	return versionKeyPrefix + strconv.FormatInt(tourID, 10)
}
