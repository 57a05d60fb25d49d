// Package cache provides a Redis-backed cache of resolved profile views.
// Entries are keyed per (subject, viewer) pair so redaction never leaks
// between viewers, and every write to a profile invalidates all viewer
// entries for that subject.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"dojohub/internal/profile"
	"dojohub/pkg/domain"
)

const anonymousViewer = "anon"

// Redis caches resolved views as JSON blobs with a TTL. All operations are
// advisory: failures are logged and treated as misses so the resolver never
// fails on cache trouble.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func viewKey(viewer, subject domain.UserID) string {
	v := anonymousViewer
	if !viewer.IsNil() {
		v = viewer.String()
	}
	return fmt.Sprintf("profile:view:%s:%s", subject.String(), v)
}

func (c *Redis) Get(ctx context.Context, viewer, subject domain.UserID) (profile.View, bool) {
	data, err := c.client.Get(ctx, viewKey(viewer, subject)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.ErrorContext(ctx, "view cache get failed", "error", err, "user_id", subject)
		}
		return nil, false
	}
	var view profile.View
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.ErrorContext(ctx, "view cache entry corrupt", "error", err, "user_id", subject)
		return nil, false
	}
	return view, true
}

func (c *Redis) Set(ctx context.Context, viewer, subject domain.UserID, view profile.View) {
	data, err := json.Marshal(view)
	if err != nil {
		c.logger.ErrorContext(ctx, "view cache marshal failed", "error", err, "user_id", subject)
		return
	}
	if err := c.client.Set(ctx, viewKey(viewer, subject), data, c.ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "view cache set failed", "error", err, "user_id", subject)
	}
}

// Invalidate removes every viewer's cached view of the subject. Uses SCAN
// rather than KEYS to stay friendly to shared Redis instances.
func (c *Redis) Invalidate(ctx context.Context, subject domain.UserID) {
	pattern := fmt.Sprintf("profile:view:%s:*", subject.String())
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.ErrorContext(ctx, "view cache invalidate failed", "error", err, "user_id", subject)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.ErrorContext(ctx, "view cache scan failed", "error", err, "user_id", subject)
	}
}
