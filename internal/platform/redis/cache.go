package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/murmurhq/murmur-api/internal/domain"
)

// ErrCacheMiss indicates the requested feed is not in the cache.
var ErrCacheMiss = errors.New("feed not found in cache")

// FeedCache caches a user's message feed in Redis. Entries are stored as
// JSON under one key per user and expire after a TTL. The database remains
// the source of truth; cache failures are surfaced to the caller, which
// treats them as misses.
type FeedCache struct {
	cli    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Connect connects to the Redis server and pings it to ensure the
// connection is working.
func Connect(ctx context.Context, addr string, ttl time.Duration, log *slog.Logger) (*FeedCache, error) {
	if log == nil {
		log = slog.Default()
	}

	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &FeedCache{
		cli:    cli,
		ttl:    ttl,
		logger: log.With(slog.String("component", "feed_cache")),
	}, nil
}

// NewFeedCache wraps an existing client. Used by tests with miniredis.
func NewFeedCache(cli *redis.Client, ttl time.Duration, log *slog.Logger) *FeedCache {
	if log == nil {
		log = slog.Default()
	}
	return &FeedCache{
		cli:    cli,
		ttl:    ttl,
		logger: log.With(slog.String("component", "feed_cache")),
	}
}

func feedKey(userID int64) string {
	return fmt.Sprintf("feed:%d", userID)
}

// GetFeed returns the cached feed for the user, or ErrCacheMiss if absent.
func (c *FeedCache) GetFeed(ctx context.Context, userID int64) ([]domain.Message, error) {
	raw, err := c.cli.Get(ctx, feedKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get feed: %w", err)
	}

	var messages []domain.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		// A corrupt entry is unreadable; drop it so the next read repopulates.
		c.logger.Warn("dropping corrupt feed cache entry",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		_ = c.cli.Del(ctx, feedKey(userID)).Err()
		return nil, ErrCacheMiss
	}

	return messages, nil
}

// SetFeed stores the user's feed with the configured TTL.
func (c *FeedCache) SetFeed(ctx context.Context, userID int64, messages []domain.Message) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}

	if err := c.cli.Set(ctx, feedKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set feed: %w", err)
	}
	return nil
}

// Invalidate removes the user's cached feed. Called after any write that
// changes the feed contents (new message, like, comment).
func (c *FeedCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.cli.Del(ctx, feedKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate feed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *FeedCache) Close() error {
	return c.cli.Close()
}
