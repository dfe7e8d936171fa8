package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock keeps overlapping batch triggers from working the same list.
type RunLock struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewRunLock(client redis.Cmdable, key string, ttl time.Duration) *RunLock {
	return &RunLock{client: client, key: key, ttl: ttl}
}

// Acquire takes the lock for owner. When another run holds it, it returns
// false and the holder's id.
func (l *RunLock) Acquire(ctx context.Context, owner string) (bool, string, error) {
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if ok {
		return true, owner, nil
	}
	holder, err := l.client.Get(ctx, l.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, "", fmt.Errorf("failed to read run lock holder: %w", err)
	}
	return false, holder, nil
}

// Release drops the lock if owner still holds it.
func (l *RunLock) Release(ctx context.Context, owner string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, owner).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}
