package services

import (
	"context"
	"errors"
	"time"

	"github.com/bloolabb/bloolabb_api/gamification"
)

const (
	sessionKeyPrefix = "exercise_session:"
	sessionTTL       = 2 * time.Hour
)

var ErrSessionNotFound = errors.New("exercise session not found")

// SessionStore keeps exercise sessions between requests. Finished sessions
// stay readable until the TTL expires them.
type SessionStore interface {
	Save(ctx context.Context, s *gamification.Session) error
	Load(ctx context.Context, id string) (*gamification.Session, error)
}

// RedisSessionStore holds sessions as JSON with a sliding TTL so an abandoned
// session simply expires.
type RedisSessionStore struct {
	redis *RedisService
	ttl   time.Duration
}

func NewRedisSessionStore(redis *RedisService) *RedisSessionStore {
	return &RedisSessionStore{redis: redis, ttl: sessionTTL}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *gamification.Session) error {
	return s.redis.Set(ctx, sessionKeyPrefix+session.ID, session, s.ttl)
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*gamification.Session, error) {
	var session gamification.Session
	found, err := s.redis.GetJSON(ctx, sessionKeyPrefix+id, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}
