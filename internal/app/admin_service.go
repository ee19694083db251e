package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/content"
	"nursing-album-service/internal/domain"
)

// AdminService authors catalog content. Only configured admin emails may call it.
type AdminService struct {
	store     Store
	catalog   CatalogRepository
	generator content.Generator
	art       ArtStore
	admins    map[string]struct{}
	log       logrus.FieldLogger
}

// NewAdminService wires the admin use cases. art may be nil, in which case
// generated images are stored inline.
func NewAdminService(store Store, catalog CatalogRepository, generator content.Generator, art ArtStore, adminEmails []string, log logrus.FieldLogger) *AdminService {
	log = orDiscard(log)
	if generator == nil {
		generator = content.NewFallback(nil, log, nil)
	}
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[domain.NormalizeEmail(e)] = struct{}{}
	}
	return &AdminService{
		store:     store,
		catalog:   catalog,
		generator: generator,
		art:       art,
		admins:    admins,
		log:       log,
	}
}

// StickerDraft is a sticker to save. When ArtPrompt is set and ImageURL is
// empty the art is generated.
type StickerDraft struct {
	domain.Sticker
	ArtPrompt string `json:"artPrompt"`
}

// IsAdmin reports whether email may use the admin surface.
func (s *AdminService) IsAdmin(email string) bool {
	_, ok := s.admins[domain.NormalizeEmail(email)]
	return ok
}

func (s *AdminService) authorize(actor string) error {
	if !s.IsAdmin(actor) {
		return domain.ErrForbidden
	}
	return nil
}

// SaveSticker creates a sticker with the next numeric id, or replaces the
// sticker with the same id.
func (s *AdminService) SaveSticker(ctx context.Context, actor string, draft StickerDraft) (domain.Sticker, error) {
	if err := s.authorize(actor); err != nil {
		return domain.Sticker{}, err
	}
	sticker := draft.Sticker
	if sticker.Description == "" {
		sticker.Description = "Sem descrição."
	}
	if err := validateInput(sticker); err != nil {
		return domain.Sticker{}, err
	}

	if sticker.ImageURL == "" && draft.ArtPrompt != "" {
		ref, err := s.generator.GenerateStickerArt(ctx, draft.ArtPrompt, sticker.Rarity)
		if err != nil {
			ref = content.PlaceholderArtURL()
		}
		sticker.ImageURL = ref
	}
	if sticker.ImageURL == "" {
		return domain.Sticker{}, fmt.Errorf("%w: sticker image is required", domain.ErrInvalidInput)
	}
	if s.art != nil && strings.HasPrefix(sticker.ImageURL, "data:") {
		url, err := s.art.UploadArt(ctx, sticker.ImageURL)
		if err != nil {
			return domain.Sticker{}, err
		}
		sticker.ImageURL = url
	}

	if sticker.ID == "" {
		existing, err := s.store.Stickers(ctx)
		if err != nil {
			return domain.Sticker{}, err
		}
		sticker.ID = nextStickerID(existing)
	}
	if err := s.store.SaveSticker(ctx, sticker); err != nil {
		return domain.Sticker{}, err
	}
	s.invalidate(ctx)
	s.log.WithFields(logrus.Fields{"sticker": sticker.ID, "actor": actor}).Info("sticker saved")
	return sticker, nil
}

// GenerateQuestion drafts a question without saving it.
func (s *AdminService) GenerateQuestion(ctx context.Context, actor, topic string, difficulty domain.Difficulty) (domain.QuizQuestion, error) {
	if err := s.authorize(actor); err != nil {
		return domain.QuizQuestion{}, err
	}
	q, err := s.generator.GenerateQuestion(ctx, topic, difficulty)
	if err != nil {
		return content.PlaceholderQuestion(topic, difficulty), nil
	}
	return q, nil
}

// SaveQuestion stores a question, minting an id when missing.
func (s *AdminService) SaveQuestion(ctx context.Context, actor string, q domain.QuizQuestion) (domain.QuizQuestion, error) {
	if err := s.authorize(actor); err != nil {
		return domain.QuizQuestion{}, err
	}
	if err := validateInput(q); err != nil {
		return domain.QuizQuestion{}, err
	}
	if q.ID == "" {
		q.ID = "manual-" + uuid.NewString()
	}
	if err := s.store.SaveQuestion(ctx, q); err != nil {
		return domain.QuizQuestion{}, err
	}
	s.invalidate(ctx)
	return q, nil
}

func (s *AdminService) DeleteQuestion(ctx context.Context, actor, id string) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *AdminService) SaveTopic(ctx context.Context, actor string, t domain.QuizTopic) (domain.QuizTopic, error) {
	if err := s.authorize(actor); err != nil {
		return domain.QuizTopic{}, err
	}
	if err := validateInput(t); err != nil {
		return domain.QuizTopic{}, err
	}
	if t.ID == "" {
		t.ID = "topic-" + uuid.NewString()
	}
	if err := s.store.SaveTopic(ctx, t); err != nil {
		return domain.QuizTopic{}, err
	}
	s.invalidate(ctx)
	return t, nil
}

func (s *AdminService) DeleteTopic(ctx context.Context, actor, id string) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	if err := s.store.DeleteTopic(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *AdminService) SavePack(ctx context.Context, actor string, p domain.StorePack) (domain.StorePack, error) {
	if err := s.authorize(actor); err != nil {
		return domain.StorePack{}, err
	}
	if err := validateInput(p); err != nil {
		return domain.StorePack{}, err
	}
	if p.ID == "" {
		p.ID = "pack-" + uuid.NewString()
	}
	if err := s.store.SavePack(ctx, p); err != nil {
		return domain.StorePack{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

// Users lists every account without passwords.
func (s *AdminService) Users(ctx context.Context, actor string) ([]domain.UserProfile, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *AdminService) invalidate(ctx context.Context) {
	if err := s.catalog.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("catalog invalidation failed")
	}
}

// nextStickerID is one past the highest numeric id in the catalog.
func nextStickerID(stickers []domain.Sticker) string {
	highest := 0
	for _, st := range stickers {
		if n, err := strconv.Atoi(st.ID); err == nil && n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1)
}
