package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yeasin2002/marketauth/domain"
)

var _ domain.SessionStore = (*RedisSessionStoreImpl)(nil)

// rotateScript swaps one refresh token id for its successor in a single
// server-side step. A zero reply means the old id was no longer current.
var rotateScript = redis.NewScript(`
if redis.call('ZREM', KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// RedisSessionStoreImpl implements domain.SessionStore using one sorted set
// per account, scored by issue time so the oldest entries evict first.
type RedisSessionStoreImpl struct {
	client      *redis.Client
	prefix      string
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// NewRedisSessionStore creates a session store backed by Redis. The ttl
// bounds how long an idle account keeps its set alive and should be at
// least the refresh token TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, maxPerAccount int) *RedisSessionStoreImpl {
	if maxPerAccount <= 0 {
		maxPerAccount = defaultMaxSessions
	}
	return &RedisSessionStoreImpl{
		client:      client,
		prefix:      "sessions:",
		ttl:         ttl,
		maxSessions: maxPerAccount,
		now:         time.Now,
	}
}

func (s *RedisSessionStoreImpl) key(accountID string) string {
	return s.prefix + accountID
}

// score returns the issue-time score for new members. Microseconds stay
// exactly representable in a redis double.
func (s *RedisSessionStoreImpl) score() int64 {
	return s.now().UnixMicro()
}

// Record implements domain.SessionStore
func (s *RedisSessionStoreImpl) Record(ctx context.Context, accountID, jti string) error {
	key := s.key(accountID)

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(s.score()), Member: jti})
	// Trim to the newest maxSessions members.
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-(s.maxSessions + 1)))
	pipe.PExpire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// IsActive implements domain.SessionStore
func (s *RedisSessionStoreImpl) IsActive(ctx context.Context, accountID, jti string) (bool, error) {
	err := s.client.ZScore(ctx, s.key(accountID), jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Rotate implements domain.SessionStore. The swap runs as a Lua script, so
// of two rotations racing on the same oldJTI exactly one sees the ZREM
// succeed; the other fails with ErrInvalidToken.
func (s *RedisSessionStoreImpl) Rotate(ctx context.Context, accountID, oldJTI, newJTI string) error {
	res, err := rotateScript.Run(ctx, s.client,
		[]string{s.key(accountID)},
		oldJTI, s.score(), newJTI, s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return err
	}
	if res == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

// Revoke implements domain.SessionStore
func (s *RedisSessionStoreImpl) Revoke(ctx context.Context, accountID, jti string) error {
	removed, err := s.client.ZRem(ctx, s.key(accountID), jti).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

// RevokeAll implements domain.SessionStore
func (s *RedisSessionStoreImpl) RevokeAll(ctx context.Context, accountID string) error {
	return s.client.Del(ctx, s.key(accountID)).Err()
}
