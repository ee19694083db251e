package app

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/content"
	"nursing-album-service/internal/domain"
	"nursing-album-service/internal/game"
	"nursing-album-service/internal/metrics"
)

// GameService runs the gameplay commands: load the snapshot, apply a pure
// engine, persist the new user, then notify.
type GameService struct {
	store     Store
	catalog   CatalogRepository
	generator content.Generator
	hub       *LeaderboardHub
	rnd       game.Random
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
}

// GameDeps groups the collaborators of GameService.
type GameDeps struct {
	Store     Store
	Catalog   CatalogRepository
	Generator content.Generator
	Hub       *LeaderboardHub
	Random    game.Random
	Log       logrus.FieldLogger
	Metrics   *metrics.Metrics
}

func NewGameService(deps GameDeps) *GameService {
	log := orDiscard(deps.Log)
	rnd := deps.Random
	if rnd == nil {
		rnd = game.NewRandom()
	}
	gen := deps.Generator
	if gen == nil {
		gen = content.NewFallback(nil, log, deps.Metrics)
	}
	hub := deps.Hub
	if hub == nil {
		hub = NewLeaderboardHub()
	}
	return &GameService{
		store:     deps.Store,
		catalog:   deps.Catalog,
		generator: gen,
		hub:       hub,
		rnd:       rnd,
		log:       log,
		metrics:   deps.Metrics,
	}
}

// Round is a question handed to a player. The caller keeps it until answered.
type Round struct {
	Question domain.QuizQuestion `json:"question"`
	Endless  bool                `json:"endless"`
}

// TopicOverview is a topic with the user's progress in it.
type TopicOverview struct {
	Topic   domain.QuizTopic `json:"topic"`
	Stats   game.TopicStats  `json:"stats"`
	Percent int              `json:"percent"`
}

// TopicBoard is what a player sees before a quiz round.
type TopicBoard struct {
	Topics          []TopicOverview `json:"topics"`
	EndlessUnlocked bool            `json:"endlessUnlocked"`
}

// AnswerOutcome is the result of submitting an answer.
type AnswerOutcome struct {
	Correct      bool               `json:"correct"`
	CorrectIndex int                `json:"correctIndex"`
	Explanation  string             `json:"explanation"`
	XPAwarded    int                `json:"xpAwarded"`
	CoinsAwarded int                `json:"coinsAwarded"`
	Streak       int                `json:"streak"`
	LevelUp      *domain.Rank       `json:"levelUp,omitempty"`
	User         domain.UserProfile `json:"user"`
}

// PackOpening is the result of buying a pack.
type PackOpening struct {
	Pack     domain.StorePack   `json:"pack"`
	Stickers []domain.Sticker   `json:"stickers"`
	User     domain.UserProfile `json:"user"`
}

// Sale is the result of selling one duplicate.
type Sale struct {
	StickerID string             `json:"stickerId"`
	Earned    int                `json:"earned"`
	User      domain.UserProfile `json:"user"`
}

// Album summarizes a user's collection against the catalog.
type Album struct {
	Stickers   []domain.Sticker `json:"stickers"`
	Counts     map[string]int   `json:"counts"`
	Owned      int              `json:"owned"`
	Total      int              `json:"total"`
	Completion int              `json:"completion"`
	Duplicates []game.Duplicate `json:"duplicates"`
}

// Topics reports per-topic progress and whether endless mode is open.
func (s *GameService) Topics(ctx context.Context, email string) (TopicBoard, error) {
	user, cat, err := s.load(ctx, email)
	if err != nil {
		return TopicBoard{}, err
	}
	stats := game.StatsByTopic(cat.Topics, cat.Questions, user.AnsweredQuestions)
	board := TopicBoard{
		Topics:          make([]TopicOverview, 0, len(cat.Topics)),
		EndlessUnlocked: game.EndlessModeUnlocked(cat.Topics, stats),
	}
	for _, t := range cat.Topics {
		st := stats[t.Name]
		board.Topics = append(board.Topics, TopicOverview{Topic: t, Stats: st, Percent: st.Percent()})
	}
	return board, nil
}

// NextQuestion selects the next round. Normal rounds come from the bank,
// filtered by level and history; endless rounds are generated.
func (s *GameService) NextQuestion(ctx context.Context, email, topic string, endless bool) (Round, error) {
	user, cat, err := s.load(ctx, email)
	if err != nil {
		return Round{}, err
	}

	if !endless {
		available := game.AvailableQuestions(topic, cat.Questions, user.Level, user.AnsweredQuestions)
		q, err := game.PickQuestion(available, s.rnd)
		if err != nil {
			return Round{}, err
		}
		return Round{Question: q}, nil
	}

	stats := game.StatsByTopic(cat.Topics, cat.Questions, user.AnsweredQuestions)
	if !game.EndlessModeUnlocked(cat.Topics, stats) {
		return Round{}, domain.ErrEndlessLocked
	}
	pick := game.PickEndlessTopic(cat.Topics, s.rnd)
	q, err := s.generator.GenerateQuestion(ctx, pick, domain.DifficultyHard)
	if err != nil {
		q = content.PlaceholderQuestion(pick, domain.DifficultyHard)
	}
	q.ID = "supreme-" + uuid.NewString()
	q.Difficulty = domain.DifficultyHard
	return Round{Question: q, Endless: true}, nil
}

// Answer scores choice for round. A wrong answer resets the streak and leaves
// the user untouched.
func (s *GameService) Answer(ctx context.Context, email string, round Round, choice, streak int) (AnswerOutcome, error) {
	user, err := s.store.User(ctx, email)
	if err != nil {
		return AnswerOutcome{}, err
	}
	q := round.Question
	outcome := AnswerOutcome{CorrectIndex: q.CorrectIndex, Explanation: q.Explanation}

	if !q.IsCorrect(choice) {
		s.metrics.ObserveAnswer(false, 0, 0, false)
		outcome.Streak = game.ApplyWrongAnswer()
		outcome.User = user.Public()
		return outcome, nil
	}

	res := game.ApplyCorrectAnswer(user, q, streak, round.Endless)
	if err := s.store.SaveUser(ctx, res.User); err != nil {
		return AnswerOutcome{}, err
	}
	s.metrics.ObserveAnswer(true, res.Reward.XP, res.Reward.Coins, res.LevelUp != nil)
	if res.LevelUp != nil {
		s.log.WithFields(logrus.Fields{"email": domain.NormalizeEmail(email), "level": res.LevelUp.Level}).Info("level up")
	}
	s.publishLeaderboard(ctx)

	outcome.Correct = true
	outcome.XPAwarded = res.Reward.XP
	outcome.CoinsAwarded = res.Reward.Coins
	outcome.Streak = res.Streak
	outcome.LevelUp = res.LevelUp
	outcome.User = res.User.Public()
	return outcome, nil
}

// Packs lists the store.
func (s *GameService) Packs(ctx context.Context) ([]domain.StorePack, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Packs, nil
}

// BuyPack checks funds, draws, then charges. Nothing is drawn or spent when
// the user cannot afford the pack.
func (s *GameService) BuyPack(ctx context.Context, email, packID string) (PackOpening, error) {
	user, cat, err := s.load(ctx, email)
	if err != nil {
		return PackOpening{}, err
	}
	pack, ok := cat.Pack(packID)
	if !ok {
		return PackOpening{}, domain.ErrNotFound
	}
	if !game.CanAfford(user, pack) {
		return PackOpening{}, domain.ErrInsufficientFunds
	}

	drawn, err := game.DrawPack(pack, cat.Stickers, s.rnd)
	if err != nil {
		return PackOpening{}, err
	}
	updated, err := game.PurchasePack(user, pack, drawn)
	if err != nil {
		return PackOpening{}, err
	}
	if err := s.store.SaveUser(ctx, updated); err != nil {
		return PackOpening{}, err
	}

	rarities := make([]string, 0, len(drawn))
	for _, st := range drawn {
		rarities = append(rarities, string(st.Rarity))
	}
	s.metrics.ObservePack(pack.ID, pack.Price, rarities)
	s.log.WithFields(logrus.Fields{"email": domain.NormalizeEmail(email), "pack": pack.ID}).Debug("pack opened")

	return PackOpening{Pack: pack, Stickers: drawn, User: updated.Public()}, nil
}

// SellDuplicate sells one surplus copy of stickerID.
func (s *GameService) SellDuplicate(ctx context.Context, email, stickerID string) (Sale, error) {
	user, cat, err := s.load(ctx, email)
	if err != nil {
		return Sale{}, err
	}
	updated, earned, err := game.SellDuplicate(user, stickerID, cat.Stickers)
	if err != nil {
		return Sale{}, err
	}
	if err := s.store.SaveUser(ctx, updated); err != nil {
		return Sale{}, err
	}
	rarity := domain.RarityCommon
	if st, ok := cat.Sticker(stickerID); ok {
		rarity = st.Rarity
	}
	s.metrics.ObserveSale(string(rarity))
	return Sale{StickerID: stickerID, Earned: earned, User: updated.Public()}, nil
}

// Album returns the catalog ordered by id with the user's ownership.
func (s *GameService) Album(ctx context.Context, email string) (Album, error) {
	user, cat, err := s.load(ctx, email)
	if err != nil {
		return Album{}, err
	}
	stickers := append([]domain.Sticker(nil), cat.Stickers...)
	sort.SliceStable(stickers, func(i, j int) bool { return lessStickerID(stickers[i].ID, stickers[j].ID) })

	return Album{
		Stickers:   stickers,
		Counts:     game.Counts(user.CollectedStickers),
		Owned:      game.OwnedCount(user),
		Total:      len(stickers),
		Completion: game.CompletionPercentage(user, stickers),
		Duplicates: game.Duplicates(user, stickers),
	}, nil
}

// Leaderboard ranks every user by XP.
func (s *GameService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return s.hub.Publish(users), nil
}

// Hub exposes the live leaderboard for subscribers.
func (s *GameService) Hub() *LeaderboardHub {
	return s.hub
}

func (s *GameService) publishLeaderboard(ctx context.Context) {
	users, err := s.store.Users(ctx)
	if err != nil {
		s.log.WithError(err).Warn("leaderboard refresh failed")
		return
	}
	s.hub.Publish(users)
}

func (s *GameService) load(ctx context.Context, email string) (domain.UserProfile, domain.Catalog, error) {
	user, err := s.store.User(ctx, email)
	if err != nil {
		return domain.UserProfile{}, domain.Catalog{}, err
	}
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return domain.UserProfile{}, domain.Catalog{}, err
	}
	return user, cat, nil
}

// lessStickerID orders numeric ids numerically and everything else after them.
func lessStickerID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
