package memory

import (
	"context"
	"sort"
	"sync"

	"nursing-album-service/internal/domain"
)

// Store is an in-process implementation of app.Store. Collections keep
// insertion order; users are keyed by lower-cased email.
type Store struct {
	mu        sync.RWMutex
	stickers  []domain.Sticker
	questions []domain.QuizQuestion
	topics    []domain.QuizTopic
	packs     []domain.StorePack
	users     map[string]domain.UserProfile
}

// NewStore seeds the store with a catalog and accounts.
func NewStore(seed domain.Catalog, users ...domain.UserProfile) *Store {
	s := &Store{
		stickers:  append([]domain.Sticker(nil), seed.Stickers...),
		questions: append([]domain.QuizQuestion(nil), seed.Questions...),
		topics:    append([]domain.QuizTopic(nil), seed.Topics...),
		packs:     append([]domain.StorePack(nil), seed.Packs...),
		users:     make(map[string]domain.UserProfile, len(users)),
	}
	for _, u := range users {
		s.users[domain.NormalizeEmail(u.Email)] = u.Clone()
	}
	return s
}

// LoadCatalog returns all reference data at once, for the catalog caches.
func (s *Store) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Catalog{
		Stickers:  append([]domain.Sticker(nil), s.stickers...),
		Questions: cloneQuestions(s.questions),
		Topics:    append([]domain.QuizTopic(nil), s.topics...),
		Packs:     append([]domain.StorePack(nil), s.packs...),
	}, nil
}

func (s *Store) Stickers(_ context.Context) ([]domain.Sticker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Sticker(nil), s.stickers...), nil
}

func (s *Store) Questions(_ context.Context) ([]domain.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneQuestions(s.questions), nil
}

func (s *Store) Topics(_ context.Context) ([]domain.QuizTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.QuizTopic(nil), s.topics...), nil
}

func (s *Store) Packs(_ context.Context) ([]domain.StorePack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.StorePack(nil), s.packs...), nil
}

func (s *Store) User(_ context.Context, email string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[domain.NormalizeEmail(email)]
	if !ok {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *Store) Users(_ context.Context) ([]domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// SaveUser merges onto the stored record: an empty password keeps the old one.
func (s *Store) SaveUser(_ context.Context, user domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NormalizeEmail(user.Email)
	if prev, ok := s.users[key]; ok && user.Password == "" {
		user.Password = prev.Password
	}
	s.users[key] = user.Clone()
	return nil
}

func (s *Store) SaveSticker(_ context.Context, sticker domain.Sticker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.stickers {
		if s.stickers[i].ID == sticker.ID {
			s.stickers[i] = sticker
			return nil
		}
	}
	s.stickers = append(s.stickers, sticker)
	return nil
}

func (s *Store) SaveQuestion(_ context.Context, q domain.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.Options = append([]string(nil), q.Options...)
	for i := range s.questions {
		if s.questions[i].ID == q.ID {
			s.questions[i] = q
			return nil
		}
	}
	s.questions = append(s.questions, q)
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) SaveTopic(_ context.Context, t domain.QuizTopic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.topics {
		if s.topics[i].ID == t.ID {
			s.topics[i] = t
			return nil
		}
	}
	s.topics = append(s.topics, t)
	return nil
}

func (s *Store) DeleteTopic(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.topics {
		if s.topics[i].ID == id {
			s.topics = append(s.topics[:i], s.topics[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) SavePack(_ context.Context, p domain.StorePack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.packs {
		if s.packs[i].ID == p.ID {
			s.packs[i] = p
			return nil
		}
	}
	s.packs = append(s.packs, p)
	return nil
}

// Authenticate compares passwords in plain text, as stored.
func (s *Store) Authenticate(_ context.Context, email, password string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[domain.NormalizeEmail(email)]
	if !ok || u.Password != password {
		return domain.UserProfile{}, domain.ErrAuthFailure
	}
	return u.Clone(), nil
}

func (s *Store) CreateAccount(_ context.Context, reg domain.Registration) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NormalizeEmail(reg.Email)
	if _, ok := s.users[key]; ok {
		return domain.UserProfile{}, domain.ErrDuplicateEmail
	}
	user := domain.NewProfile(reg)
	s.users[key] = user
	return user.Clone(), nil
}

func cloneQuestions(in []domain.QuizQuestion) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
