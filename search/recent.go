package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	recentKeyPrefix = "search:recent:"
	recentListCap   = 20
	recentTTL       = 30 * 24 * time.Hour
)

// RecentStore keeps per-store recent search terms in Redis, most recent first.
type RecentStore struct {
	redis *redis.Client
}

func NewRecentStore(rdb *redis.Client) *RecentStore {
	return &RecentStore{redis: rdb}
}

func recentKey(storeID string) string {
	return fmt.Sprintf("%s%s", recentKeyPrefix, storeID)
}

// Record pushes term to the front of the store's recent list, de-duplicating
// any earlier occurrence and trimming the list to its cap.
func (rs *RecentStore) Record(ctx context.Context, storeID, term string) {
	term = strings.TrimSpace(term)
	if term == "" || rs.redis == nil {
		return
	}
	key := recentKey(storeID)
	pipe := rs.redis.TxPipeline()
	pipe.LRem(ctx, key, 0, term)
	pipe.LPush(ctx, key, term)
	pipe.LTrim(ctx, key, 0, recentListCap-1)
	pipe.Expire(ctx, key, recentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		zap.L().Warn("failed to record recent search", zap.String("term", term), zap.Error(err))
	}
}

// Fetch returns up to limit recent terms, most recent first. Errors degrade to
// an empty list: recents are a nicety, never a blocker.
func (rs *RecentStore) Fetch(ctx context.Context, storeID string, limit int) []string {
	if rs.redis == nil {
		return nil
	}
	if limit <= 0 || limit > recentListCap {
		limit = recentListCap
	}
	terms, err := rs.redis.LRange(ctx, recentKey(storeID), 0, int64(limit-1)).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("failed to fetch recent searches", zap.Error(err))
		}
		return nil
	}
	return terms
}
