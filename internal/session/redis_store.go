package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookstore/pkg/domain"
)

const (
	tokenKey = "bookstore:token"
	userKey  = "bookstore:user"

	redisOpTimeout = 3 * time.Second
)

// RedisStore keeps the session under two fixed keys, mirroring the token/user
// key pair the mobile storage layer uses. Useful when several tools on one
// host should share a login.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a redis-backed session store.
func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (s *RedisStore) Save(sess Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	userJSON := ""
	if sess.User != nil {
		data, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		userJSON = string(data)
	}
	if err := s.client.MSet(ctx, tokenKey, sess.Token, userKey, userJSON).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load() (*Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	vals, err := s.client.MGet(ctx, tokenKey, userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	sess := Session{}
	if token, ok := vals[0].(string); ok {
		sess.Token = token
	}
	if userJSON, ok := vals[1].(string); ok && userJSON != "" {
		var user domain.User
		if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
		sess.User = &user
	}
	if sess.Token == "" && sess.User == nil {
		return nil, nil
	}
	return &sess, nil
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, tokenKey, userKey).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
