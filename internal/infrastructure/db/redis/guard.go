package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSubmissionTTL = 10 * time.Minute

// SubmissionGuard remembers create-form submission keys so a form posted
// twice creates one record.
// Key format: submission:<scope>:<key>
type SubmissionGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmissionGuard wraps client. Keys expire after ttl (10 minutes when ttl <= 0).
func NewSubmissionGuard(client *redis.Client, ttl time.Duration) *SubmissionGuard {
	if ttl <= 0 {
		ttl = defaultSubmissionTTL
	}
	return &SubmissionGuard{client: client, ttl: ttl}
}

// Claim reports true when key has not been seen in scope within the TTL.
func (g *SubmissionGuard) Claim(ctx context.Context, scope, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(scope, key), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("submission claim: %w", err)
	}
	return ok, nil
}

// Release forgets key so the same submission can be retried.
func (g *SubmissionGuard) Release(ctx context.Context, scope, key string) error {
	if err := g.client.Del(ctx, g.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("submission release: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (g *SubmissionGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *SubmissionGuard) key(scope, key string) string {
	return fmt.Sprintf("submission:%s:%s", scope, key)
}
