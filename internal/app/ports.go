package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/domain"
	"nursing-album-service/internal/logger"
)

// Store is the persistence collaborator. Every write is a full-document upsert
// keyed by a stable id; users are keyed by lower-cased email.
type Store interface {
	Stickers(ctx context.Context) ([]domain.Sticker, error)
	Questions(ctx context.Context) ([]domain.QuizQuestion, error)
	Topics(ctx context.Context) ([]domain.QuizTopic, error)
	Packs(ctx context.Context) ([]domain.StorePack, error)

	// User returns domain.ErrNotFound for unknown emails.
	User(ctx context.Context, email string) (domain.UserProfile, error)
	Users(ctx context.Context) ([]domain.UserProfile, error)
	SaveUser(ctx context.Context, user domain.UserProfile) error

	SaveSticker(ctx context.Context, sticker domain.Sticker) error
	SaveQuestion(ctx context.Context, question domain.QuizQuestion) error
	DeleteQuestion(ctx context.Context, id string) error
	SaveTopic(ctx context.Context, topic domain.QuizTopic) error
	DeleteTopic(ctx context.Context, id string) error
	SavePack(ctx context.Context, pack domain.StorePack) error

	// Authenticate returns domain.ErrAuthFailure for unknown emails and wrong passwords.
	Authenticate(ctx context.Context, email, password string) (domain.UserProfile, error)
	// CreateAccount returns domain.ErrDuplicateEmail when the email is taken in any letter case.
	CreateAccount(ctx context.Context, reg domain.Registration) (domain.UserProfile, error)
}

// CatalogRepository serves the reference data snapshot, usually from a cache.
type CatalogRepository interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
	Invalidate(ctx context.Context) error
}

// SessionRepository stores login sessions.
type SessionRepository interface {
	Put(ctx context.Context, session Session) error
	// Get returns domain.ErrSessionNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// ArtStore persists inline generated art and returns a public URL.
type ArtStore interface {
	UploadArt(ctx context.Context, dataURI string) (string, error)
}

// Session is an authenticated login. It replaces any notion of a global current user.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

var validate = validator.New()

func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logger.Discard()
	}
	return log
}
