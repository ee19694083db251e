package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/domain"
	"nursing-album-service/internal/metrics"
)

// Generator is the content-generation collaborator.
type Generator interface {
	GenerateQuestion(ctx context.Context, topic string, difficulty domain.Difficulty) (domain.QuizQuestion, error)
	// GenerateStickerArt returns an image reference: a URL or a data: URI.
	GenerateStickerArt(ctx context.Context, prompt string, rarity domain.Rarity) (string, error)
}

// Fallback wraps a Generator and never fails: errors and malformed output are
// replaced with placeholder content.
type Fallback struct {
	next    Generator
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewFallback wraps next. A nil next always yields placeholders.
func NewFallback(next Generator, log logrus.FieldLogger, m *metrics.Metrics) *Fallback {
	return &Fallback{next: next, log: log, metrics: m}
}

func (f *Fallback) GenerateQuestion(ctx context.Context, topic string, difficulty domain.Difficulty) (domain.QuizQuestion, error) {
	if f.next == nil {
		return f.placeholderQuestion(topic, difficulty, fmt.Errorf("%w: no generator configured", domain.ErrGenerationFailure)), nil
	}
	q, err := f.next.GenerateQuestion(ctx, topic, difficulty)
	if err == nil {
		err = checkQuestion(q)
	}
	if err != nil {
		return f.placeholderQuestion(topic, difficulty, err), nil
	}
	q.Topic = topic
	q.Difficulty = difficulty
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return q, nil
}

func (f *Fallback) GenerateStickerArt(ctx context.Context, prompt string, rarity domain.Rarity) (string, error) {
	if f.next == nil {
		return f.placeholderArt(fmt.Errorf("%w: no generator configured", domain.ErrGenerationFailure)), nil
	}
	ref, err := f.next.GenerateStickerArt(ctx, prompt, rarity)
	if err == nil && strings.TrimSpace(ref) == "" {
		err = fmt.Errorf("%w: empty image reference", domain.ErrGenerationFailure)
	}
	if err != nil {
		return f.placeholderArt(err), nil
	}
	return ref, nil
}

func checkQuestion(q domain.QuizQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: empty question text", domain.ErrGenerationFailure)
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("%w: expected 4 options, got %d", domain.ErrGenerationFailure, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: correct index %d out of range", domain.ErrGenerationFailure, q.CorrectIndex)
	}
	return nil
}

func (f *Fallback) placeholderQuestion(topic string, difficulty domain.Difficulty, cause error) domain.QuizQuestion {
	f.metrics.ObserveFallback("question")
	if f.log != nil {
		f.log.WithError(cause).WithFields(logrus.Fields{"kind": "question", "topic": topic}).Warn("content generator failed, using placeholder")
	}
	return PlaceholderQuestion(topic, difficulty)
}

func (f *Fallback) placeholderArt(cause error) string {
	f.metrics.ObserveFallback("art")
	if f.log != nil {
		f.log.WithError(cause).WithField("kind", "art").Warn("content generator failed, using placeholder")
	}
	return PlaceholderArtURL()
}

// PlaceholderQuestion is the locally synthesized question served when generation fails.
func PlaceholderQuestion(topic string, difficulty domain.Difficulty) domain.QuizQuestion {
	return domain.QuizQuestion{
		ID:       "fallback-" + uuid.NewString(),
		Question: fmt.Sprintf("(Fallback) Qual é a conduta padrão em %s?", topic),
		Options: []string{
			"Verificar sinais vitais",
			"Ignorar sintomas",
			"Alta imediata",
			"Aguardar 24h",
		},
		CorrectIndex: 0,
		Explanation:  "A verificação de sinais vitais é sempre crucial.",
		Difficulty:   difficulty,
		Topic:        topic,
	}
}

// PlaceholderArtURL is a random stock image used when art generation fails.
func PlaceholderArtURL() string {
	return "https://picsum.photos/300/300?random=" + uuid.NewString()[:8]
}
