package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PaperCache memoises workbook→paper resolution in Redis. The binding is
// immutable once assigned, so cached values never go stale; the TTL only
// bounds memory. All methods are best-effort: a cache failure degrades to a
// catalog lookup, never to a request failure.
type PaperCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewPaperCache wraps a Redis client for paper-binding lookups.
func NewPaperCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *PaperCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaperCache{client: client, ttl: ttl, logger: logger}
}

// GetPaper returns the cached paper id for a workbook, if present.
func (c *PaperCache) GetPaper(ctx context.Context, workbookID string) (string, bool) {
	val, err := c.client.Get(ctx, paperKey(workbookID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("paper cache get failed", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// SetPaper stores the paper binding for a workbook.
func (c *PaperCache) SetPaper(ctx context.Context, workbookID, paperID string) {
	if err := c.client.Set(ctx, paperKey(workbookID), paperID, c.ttl).Err(); err != nil {
		c.logger.Warn("paper cache set failed", zap.Error(err))
	}
}

func paperKey(workbookID string) string {
	return fmt.Sprintf("workbook_paper:%s", workbookID)
}
