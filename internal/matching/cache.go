// internal/matching/cache.go
// Redis layer in front of the pair score table. Optional: a nil client
// turns every operation into a no-op and reads fall through to postgres.

package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// pairScoreCache is the cache surface the service depends on, so
// tests can substitute a recording implementation.
type pairScoreCache interface {
	Get(ctx context.Context, userA, userB int64) *PairScore
	Set(ctx context.Context, score *PairScore)
	Delete(ctx context.Context, userA, userB int64)
}

type scoreCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// newScoreCache wraps the client. maxAgeDays of zero means cached
// scores never expire.
func newScoreCache(client *redis.Client, maxAgeDays int) *scoreCache {
	var ttl time.Duration
	if maxAgeDays > 0 {
		ttl = time.Duration(maxAgeDays) * 24 * time.Hour
	}
	return &scoreCache{redis: client, ttl: ttl}
}

func pairScoreKey(userA, userB int64) string {
	return fmt.Sprintf("pairscore:%d:%d", userA, userB)
}

func (c *scoreCache) Get(ctx context.Context, userA, userB int64) *PairScore {
	if c.redis == nil {
		return nil
	}

	data, err := c.redis.Get(ctx, pairScoreKey(userA, userB)).Result()
	if err != nil {
		return nil
	}

	var score PairScore
	if err := json.Unmarshal([]byte(data), &score); err != nil {
		return nil
	}
	return &score
}

func (c *scoreCache) Set(ctx context.Context, score *PairScore) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(score)
	if err != nil {
		return
	}
	c.redis.Set(ctx, pairScoreKey(score.UserAID, score.UserBID), data, c.ttl)
}

func (c *scoreCache) Delete(ctx context.Context, userA, userB int64) {
	if c.redis == nil {
		return
	}
	c.redis.Del(ctx, pairScoreKey(userA, userB))
}
