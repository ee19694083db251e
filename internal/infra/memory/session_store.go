package memory

import (
	"context"
	"sync"
	"time"

	"nursing-album-service/internal/app"
	"nursing-album-service/internal/domain"
)

type sessionEntry struct {
	session   app.Session
	expiresAt time.Time
}

// SessionStore is an in-memory implementation of app.SessionRepository.
// A positive ttl expires sessions after that much inactivity, like the
// Redis store; zero keeps them until logout.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	sessions map[string]sessionEntry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *SessionStore) Put(_ context.Context, session app.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = sessionEntry{session: session, expiresAt: s.deadline()}
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return app.Session{}, domain.ErrSessionNotFound
	}
	if s.ttl > 0 && !s.clock().Before(entry.expiresAt) {
		delete(s.sessions, token)
		return app.Session{}, domain.ErrSessionNotFound
	}
	entry.expiresAt = s.deadline()
	s.sessions[token] = entry
	return entry.session, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) deadline() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.clock().Add(s.ttl)
}
