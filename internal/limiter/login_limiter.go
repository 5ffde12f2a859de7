// Package limiter throttles repeated logins per account using Redis.
package limiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_failures:"

// reserveScript counts an attempt and returns the new count with the
// remaining window in milliseconds. The window starts at the first attempt.
var reserveScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

// Config sets the attempt budget for a window.
type Config struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginLimiter counts login attempts per identifier inside a fixed window.
// A successful login clears the count.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter builds a limiter. It returns nil when the budget is
// disabled (MaxAttempts or Window not positive); a nil limiter allows everything.
func NewLoginLimiter(client *redis.Client, cfg Config) *LoginLimiter {
	if client == nil || cfg.MaxAttempts <= 0 || cfg.Window <= 0 {
		return nil
	}
	return &LoginLimiter{client: client, maxAttempts: int64(cfg.MaxAttempts), window: cfg.Window}
}

// Reserve counts one attempt for identifier and reports whether it fits the
// budget. When it does not, the duration is the time left in the window.
// Counting and checking happen in a single script, so concurrent callers
// never get more than MaxAttempts reservations per window.
func (l *LoginLimiter) Reserve(ctx context.Context, identifier string) (bool, time.Duration, error) {
	if l == nil {
		return true, 0, nil
	}

	res, err := reserveScript.Run(ctx, l.client, []string{l.key(identifier)}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return true, 0, fmt.Errorf("reserve login attempt: %w", err)
	}
	if len(res) != 2 {
		return true, 0, fmt.Errorf("reserve login attempt: unexpected reply %v", res)
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if count <= l.maxAttempts {
		return true, 0, nil
	}
	if ttl <= 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Reset clears the attempt count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) error {
	if l == nil {
		return nil
	}
	if err := l.client.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(identifier string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(identifier))
}
