package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nursing-album-service/internal/app"
	"nursing-album-service/internal/domain"
)

// SessionStore keeps login sessions in Redis with a sliding TTL, so any
// instance can resolve a token.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, session app.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.Token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (app.Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if isMiss(err) {
		return app.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return app.Session{}, fmt.Errorf("load session: %w", err)
	}
	var session app.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return app.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.ttl > 0 {
		// best-effort refresh of the sliding expiry
		_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	return "auth:session:" + token
}
