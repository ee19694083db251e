package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/domain"
)

// AccountService handles registration and the login/logout lifecycle.
type AccountService struct {
	store    Store
	sessions SessionRepository
	hub      *LeaderboardHub
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewAccountService(store Store, sessions SessionRepository, hub *LeaderboardHub, log logrus.FieldLogger) *AccountService {
	return &AccountService{store: store, sessions: sessions, hub: hub, log: orDiscard(log), now: time.Now}
}

// Register creates the account and opens a session for it.
func (s *AccountService) Register(ctx context.Context, reg domain.Registration) (Session, domain.UserProfile, error) {
	if err := validateInput(reg); err != nil {
		return Session{}, domain.UserProfile{}, err
	}
	user, err := s.store.CreateAccount(ctx, reg)
	if err != nil {
		return Session{}, domain.UserProfile{}, err
	}
	session, err := s.open(ctx, user.Email)
	if err != nil {
		return Session{}, domain.UserProfile{}, err
	}
	s.log.WithField("email", session.Email).Info("account registered")

	if s.hub != nil {
		if users, err := s.store.Users(ctx); err == nil {
			s.hub.Publish(users)
		}
	}
	return session, user.Public(), nil
}

// Login authenticates and opens a new session.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, domain.UserProfile, error) {
	user, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, domain.UserProfile{}, err
	}
	session, err := s.open(ctx, user.Email)
	if err != nil {
		return Session{}, domain.UserProfile{}, err
	}
	return session, user.Public(), nil
}

// Logout ends the session. Unknown tokens are not an error.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve returns the session for token.
func (s *AccountService) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, domain.ErrSessionNotFound
	}
	return s.sessions.Get(ctx, token)
}

// Me returns the profile behind a session.
func (s *AccountService) Me(ctx context.Context, session Session) (domain.UserProfile, error) {
	user, err := s.store.User(ctx, session.Email)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return user.Public(), nil
}

func (s *AccountService) open(ctx context.Context, email string) (Session, error) {
	session := Session{
		Token:     uuid.NewString(),
		Email:     domain.NormalizeEmail(email),
		CreatedAt: s.now(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}
