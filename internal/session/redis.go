package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "lure:session:"
	lockKeyPrefix    = "lure:lock:"
	lockRetryWait    = 50 * time.Millisecond
)

// LockTTL bounds how long a crashed holder can keep a per-id lock. It must
// exceed the worst-case sequential model budget of a full turn, otherwise
// the lock expires mid-turn and a concurrent request for the same id slips
// in.
const LockTTL = 90 * time.Second

// unlockScript releases a lock only if the caller still owns it.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// RedisStore is the shared Store for multi-instance deployments. Sessions
// are JSON values with TTL equal to the idle timeout, so expiry needs no
// sweep. Per-id serialization uses a SET NX lock with an owner token.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisStore(ctx context.Context, addr string, timeout time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, timeout: timeout}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) GetOrCreate(ctx context.Context, id, personaKey string) (*Session, bool, error) {
	s, err := r.Get(ctx, id)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	s = New(id, personaKey, time.Now().UTC())
	if err := r.save(ctx, s); err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	s.LastActiveAt = time.Now().UTC()
	return r.save(ctx, s)
}

func (r *RedisStore) save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.ID, data, r.timeout).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	var count int
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return count, nil
}

// Acquire spins on SET NX until the per-id lock is won or ctx is done. The
// token ensures a crashed holder's expired lock is never released by a
// later owner.
func (r *RedisStore) Acquire(ctx context.Context, id string) (func(), error) {
	key := lockKeyPrefix + id
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, key, token, LockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, r.client, []string{key}, token).Err()
	}
	return release, nil
}
