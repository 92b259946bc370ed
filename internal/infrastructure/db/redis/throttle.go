package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultWindow      = 15 * time.Minute
	defaultMaxAttempts = 20
)

// LoginThrottle rate-limits login attempts per (email, client IP) window,
// backed by Redis counters. Key format: throttle:<email>:<ip>
type LoginThrottle struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
// Non-positive window or limit fall back to the defaults.
func NewLoginThrottle(client *redis.Client, window time.Duration, maxAttempts int64) *LoginThrottle {
	if window <= 0 {
		window = defaultWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &LoginThrottle{client: client, window: window, maxAttempts: maxAttempts}
}

// Allow records one attempt and reports whether it is within the window
// limit. The counter expires window after the first attempt.
func (t *LoginThrottle) Allow(ctx context.Context, email, ip string) (bool, error) {
	key := t.key(email, ip)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= t.maxAttempts, nil
}

// Reset clears the counter, called after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email, ip string) error {
	return t.client.Del(ctx, t.key(email, ip)).Err()
}

func (t *LoginThrottle) key(email, ip string) string {
	return fmt.Sprintf("throttle:%s:%s", email, ip)
}
