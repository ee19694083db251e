package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"nursing-album-service/internal/domain"
)

const (
	tableStickers  = "stickers"
	tableQuestions = "questions"
	tableTopics    = "topics"
	tablePacks     = "packs"
	tableUsers     = "users"
)

// document is the row shape shared by every table: a stable id and the JSON body.
type document struct {
	ID        string    `bun:"id,pk"`
	Data      string    `bun:"data,type:jsonb,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Store is the Postgres implementation of app.Store. Each collection is a
// table of JSONB documents; users are keyed by lower-cased email.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Stickers(ctx context.Context) ([]domain.Sticker, error) {
	var out []domain.Sticker
	err := s.list(ctx, tableStickers, func(raw []byte) error {
		var v domain.Sticker
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (s *Store) Questions(ctx context.Context) ([]domain.QuizQuestion, error) {
	var out []domain.QuizQuestion
	err := s.list(ctx, tableQuestions, func(raw []byte) error {
		var v domain.QuizQuestion
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (s *Store) Topics(ctx context.Context) ([]domain.QuizTopic, error) {
	var out []domain.QuizTopic
	err := s.list(ctx, tableTopics, func(raw []byte) error {
		var v domain.QuizTopic
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (s *Store) Packs(ctx context.Context) ([]domain.StorePack, error) {
	var out []domain.StorePack
	err := s.list(ctx, tablePacks, func(raw []byte) error {
		var v domain.StorePack
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (s *Store) User(ctx context.Context, email string) (domain.UserProfile, error) {
	var doc document
	err := s.db.NewSelect().
		Model(&doc).
		ModelTableExpr("? AS document", bun.Ident(tableUsers)).
		Where("document.id = ?", domain.NormalizeEmail(email)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load user: %w", err)
	}
	var user domain.UserProfile
	if err := json.Unmarshal([]byte(doc.Data), &user); err != nil {
		return domain.UserProfile{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return user, nil
}

func (s *Store) Users(ctx context.Context) ([]domain.UserProfile, error) {
	var out []domain.UserProfile
	err := s.list(ctx, tableUsers, func(raw []byte) error {
		var v domain.UserProfile
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// SaveUser merges onto the stored record: an empty password keeps the old one.
func (s *Store) SaveUser(ctx context.Context, user domain.UserProfile) error {
	if user.Password == "" {
		prev, err := s.User(ctx, user.Email)
		switch {
		case err == nil:
			user.Password = prev.Password
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}
	return s.upsert(ctx, tableUsers, domain.NormalizeEmail(user.Email), user)
}

func (s *Store) SaveSticker(ctx context.Context, sticker domain.Sticker) error {
	return s.upsert(ctx, tableStickers, sticker.ID, sticker)
}

func (s *Store) SaveQuestion(ctx context.Context, q domain.QuizQuestion) error {
	return s.upsert(ctx, tableQuestions, q.ID, q)
}

func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	return s.delete(ctx, tableQuestions, id)
}

func (s *Store) SaveTopic(ctx context.Context, t domain.QuizTopic) error {
	return s.upsert(ctx, tableTopics, t.ID, t)
}

func (s *Store) DeleteTopic(ctx context.Context, id string) error {
	return s.delete(ctx, tableTopics, id)
}

func (s *Store) SavePack(ctx context.Context, p domain.StorePack) error {
	return s.upsert(ctx, tablePacks, p.ID, p)
}

// Authenticate compares passwords in plain text, as stored.
func (s *Store) Authenticate(ctx context.Context, email, password string) (domain.UserProfile, error) {
	user, err := s.User(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UserProfile{}, domain.ErrAuthFailure
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	if user.Password != password {
		return domain.UserProfile{}, domain.ErrAuthFailure
	}
	return user, nil
}

// CreateAccount inserts with ON CONFLICT DO NOTHING so two concurrent
// registrations for the same email cannot both succeed.
func (s *Store) CreateAccount(ctx context.Context, reg domain.Registration) (domain.UserProfile, error) {
	user := domain.NewProfile(reg)
	data, err := json.Marshal(user)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("marshal user: %w", err)
	}
	doc := &document{ID: domain.NormalizeEmail(reg.Email), Data: string(data), UpdatedAt: time.Now().UTC()}
	res, err := s.db.NewInsert().
		Model(doc).
		ModelTableExpr("? AS document", bun.Ident(tableUsers)).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("create account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.UserProfile{}, domain.ErrDuplicateEmail
	}
	return user, nil
}

func (s *Store) upsert(ctx context.Context, table, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", table, id, err)
	}
	doc := &document{ID: id, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.db.NewInsert().
		Model(doc).
		ModelTableExpr("? AS document", bun.Ident(table)).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", table, id, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, table, id string) error {
	res, err := s.db.NewDelete().
		Model((*document)(nil)).
		ModelTableExpr("? AS document", bun.Ident(table)).
		Where("document.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) list(ctx context.Context, table string, each func(raw []byte) error) error {
	var docs []document
	err := s.db.NewSelect().
		Model(&docs).
		ModelTableExpr("? AS document", bun.Ident(table)).
		Order("document.created_at ASC", "document.id ASC").
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	for _, d := range docs {
		if err := each([]byte(d.Data)); err != nil {
			return fmt.Errorf("unmarshal %s/%s: %w", table, d.ID, err)
		}
	}
	return nil
}
