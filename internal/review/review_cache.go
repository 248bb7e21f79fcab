package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/ttlcache"
)

const SummaryTTL = 30 * time.Second

func SummaryKey(companyID string, r Range) string {
	return fmt.Sprintf("review:summary:%s:%d:%d", companyID, r.From.Unix(), r.To.Unix())
}

// SummaryCache keeps category counts in Redis for SummaryTTL. Concurrent
// misses for the same key share one query. When Redis is unreachable (or not
// configured) counts are kept in process for the same TTL instead.
type SummaryCache struct {
	rdb    redis.Cmdable
	repo   Repository
	local  *ttlcache.Store[string, Summary]
	sf     singleflight.Group
	logger *zap.Logger
}

func NewSummaryCache(rdb redis.Cmdable, repo Repository, logger *zap.Logger) *SummaryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryCache{
		rdb:    rdb,
		repo:   repo,
		local:  ttlcache.New[string, Summary](SummaryTTL, nil),
		logger: logger,
	}
}

func (c *SummaryCache) Get(ctx context.Context, companyID string, r Range) (Summary, error) {
	key := SummaryKey(companyID, r)
	load := func(ctx context.Context) (Summary, error) {
		return c.repo.Summary(ctx, companyID, r)
	}

	if c.rdb == nil {
		return c.local.Get(ctx, key, load)
	}

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var s Summary
		if json.Unmarshal([]byte(cached), &s) == nil {
			return s, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("summary cache read failed, using local cache", zap.String("key", key), zap.Error(err))
		return c.local.Get(ctx, key, load)
	}

	ch := c.sf.DoChan(key, func() (interface{}, error) {
		// shared by every waiter, so one caller's cancellation must not end it
		qctx, cancel := contextutil.Bound(context.WithoutCancel(ctx), 0)
		defer cancel()

		s, err := load(qctx)
		if err != nil {
			return nil, err
		}
		if body, err := json.Marshal(s); err == nil {
			if err := c.rdb.Set(qctx, key, string(body), SummaryTTL).Err(); err != nil {
				c.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
				c.local.Set(key, s)
			}
		}
		return s, nil
	})

	select {
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Summary{}, res.Err
		}
		return res.Val.(Summary), nil
	}
}
