package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeySession is the Redis key of a session: session:{token} -> user id, or
// "" for an anonymous session.
const KeySession = "session:%s"

// RedisRegistry stores sessions in Redis so they survive restarts and are
// shared between instances.
type RedisRegistry struct {
	rdb *redis.Client
	ttl time.Duration // 0 keeps sessions until logout
}

// NewRedisClient connects to Redis at addr.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// NewRedisRegistry creates a registry backed by rdb.
func NewRedisRegistry(rdb *redis.Client, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{rdb: rdb, ttl: ttl}
}

func (r *RedisRegistry) key(token string) string {
	return fmt.Sprintf(KeySession, token)
}

func (r *RedisRegistry) Resolve(ctx context.Context, token string) (Session, bool, error) {
	if token != "" {
		val, err := r.rdb.Get(ctx, r.key(token)).Result()
		switch {
		case err == nil:
			sess := Session{Token: token}
			if val != "" {
				id, perr := strconv.ParseUint(val, 10, 64)
				if perr != nil {
					return Session{}, false, fmt.Errorf("corrupt session %s: %w", token, perr)
				}
				uid := uint(id)
				sess.UserID = &uid
			}
			if r.ttl > 0 {
				_ = r.rdb.Expire(ctx, r.key(token), r.ttl).Err()
			}
			return sess, false, nil
		case !errors.Is(err, redis.Nil):
			return Session{}, false, fmt.Errorf("failed to resolve session: %w", err)
		}
	}

	sess := Session{Token: NewToken()}
	if err := r.rdb.Set(ctx, r.key(sess.Token), "", r.ttl).Err(); err != nil {
		return Session{}, false, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, true, nil
}

func (r *RedisRegistry) Attach(ctx context.Context, token string, userID uint) error {
	val := strconv.FormatUint(uint64(userID), 10)
	if err := r.rdb.Set(ctx, r.key(token), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to attach user to session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Detach(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *RedisRegistry) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
