package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const deleteSessionScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
  local count = tonumber(redis.call("GET", KEYS[3]) or "0")
  if count > 1 then
    redis.call("DECR", KEYS[3])
  elseif count == 1 then
    redis.call("DEL", KEYS[3])
  end
end
return existed
`

var deleteSessionLua = redis.NewScript(deleteSessionScript)

// Overwriting a live session must not bump the counter.
const saveSessionScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
redis.call("SADD", KEYS[2], ARGV[3])
if existed == 0 then
  redis.call("INCR", KEYS[3])
end
return existed
`

var saveSessionLua = redis.NewScript(saveSessionScript)

// RedisStore keeps sessions in Redis under <prefix>:s:<id>, indexes them per user
// and maintains a live-session counter that never goes negative.
type RedisStore struct {
	redis   redis.UniversalClient
	prefix  string
	sliding bool
}

// NewRedisStore returns a Store on client. With sliding set, every Get pushes the
// key expiry out to the session's own ExpiresAt.
func NewRedisStore(client redis.UniversalClient, prefix string, sliding bool) *RedisStore {
	if prefix == "" {
		prefix = "gob"
	}
	return &RedisStore{redis: client, prefix: prefix, sliding: sliding}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + ":s:" + sessionID
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + ":u:" + userID
}

func (s *RedisStore) countKey() string {
	return s.prefix + ":count"
}

// Save writes sess with ttl and adds it to its user's index.
func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	if err := checkSave(sess, ttl); err != nil {
		return err
	}
	data, err := Encode(sess)
	if err != nil {
		return err
	}

	keys := []string{s.key(sess.SessionID), s.userKey(sess.UserID), s.countKey()}
	if _, err := saveSessionLua.Run(ctx, s.redis, keys, data, ttl.Milliseconds(), sess.SessionID).Result(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get loads a session, dropping it when it is logically expired.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	key := s.key(sessionID)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sess.SessionID = sessionID

	now := time.Now()
	if sess.Expired(now) {
		if err := s.deleteSessionAndIndex(ctx, sess.UserID, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	if s.sliding && sess.ExpiresAt > 0 {
		if err := s.redis.ExpireAt(ctx, key, time.Unix(sess.ExpiresAt, 0)).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return err
	}
	return s.deleteSessionAndIndex(ctx, sess.UserID, sessionID)
}

// ActiveSessionIDs lists the indexed sessions of userID, including ones whose key
// already expired.
func (s *RedisStore) ActiveSessionIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return ids, nil
}

// SessionCount returns the live-session counter.
func (s *RedisStore) SessionCount(ctx context.Context) (int, error) {
	n, err := s.redis.Get(ctx, s.countKey()).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}

// Ping measures one Redis round trip.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *RedisStore) deleteSessionAndIndex(ctx context.Context, userID, sessionID string) error {
	keys := []string{s.key(sessionID), s.userKey(userID), s.countKey()}
	if _, err := deleteSessionLua.Run(ctx, s.redis, keys, sessionID).Result(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
