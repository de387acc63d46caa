package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// RedisStore keeps sessions as JSON values that expire with the session.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore stores keys as prefix+id; prefix defaults to "session:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return oops.Code("SESSION_EXPIRED").With("session_id", sess.ID).Errorf("session already expired")
	}
	body, err := json.Marshal(sess)
	if err != nil {
		return oops.Code("SESSION_ENCODE_FAILED").With("session_id", sess.ID).Wrap(err)
	}
	if err := s.client.Set(ctx, s.prefix+sess.ID, body, ttl).Err(); err != nil {
		return oops.Code("SESSION_SAVE_FAILED").With("session_id", sess.ID).Wrap(err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	body, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("SESSION_LOAD_FAILED").With("session_id", id).Wrap(err)
	}
	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").With("session_id", id).Wrap(err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return oops.Code("SESSION_DELETE_FAILED").With("session_id", id).Wrap(err)
	}
	return nil
}
