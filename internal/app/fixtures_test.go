package app_test

import (
	"context"
	"testing"
	"time"

	"nursing-album-service/internal/app"
	"nursing-album-service/internal/domain"
	"nursing-album-service/internal/infra/memory"
)

// fixedRandom always rolls the same values.
type fixedRandom struct {
	f float64
	i int
}

func (r fixedRandom) Float64() float64 { return r.f }
func (r fixedRandom) Intn(n int) int   { return r.i % n }

const (
	adminEmail = "admin@admin.com"
	anaEmail   = "ana@example.com"
)

func testCatalog() domain.Catalog {
	opts := []string{"certa", "errada 1", "errada 2", "errada 3"}
	return domain.Catalog{
		Topics: []domain.QuizTopic{
			{ID: "t1", Name: "Farmacologia", Icon: "💊"},
			{ID: "t7", Name: "Humanização", Icon: "🤝"},
		},
		Questions: []domain.QuizQuestion{
			{ID: "q1", Topic: "Farmacologia", Difficulty: domain.DifficultyEasy, Question: "Q1?", Options: opts, CorrectIndex: 0},
			{ID: "q2", Topic: "Farmacologia", Difficulty: domain.DifficultyMedium, Question: "Q2?", Options: opts, CorrectIndex: 0},
			{ID: "q3", Topic: "Humanização", Difficulty: domain.DifficultyEasy, Question: "Q3?", Options: opts, CorrectIndex: 0},
		},
		Stickers: []domain.Sticker{
			{ID: "10", Name: "Florence", Rarity: domain.RarityLegendary, ImageURL: "https://img/10"},
			{ID: "2", Name: "Coração", Rarity: domain.RarityRare, ImageURL: "https://img/2"},
			{ID: "1", Name: "Estetoscópio", Rarity: domain.RarityCommon, ImageURL: "https://img/1"},
		},
		Packs: []domain.StorePack{
			{ID: "pack-starter", Name: "Pacote Inicial", Price: 50, StickersCount: 3, LegendaryChance: 5, EpicChance: 15, RareChance: 40},
		},
	}
}

type fixture struct {
	store    *memory.Store
	catalog  *memory.CatalogCache
	hub      *app.LeaderboardHub
	accounts *app.AccountService
	game     *app.GameService
	admin    *app.AdminService
}

func newFixture(t *testing.T, rnd fixedRandom) fixture {
	t.Helper()
	store := memory.NewStore(testCatalog(), domain.UserProfile{
		Name: "Administrador", Email: adminEmail, Password: "123", Level: 99, XP: 99999, Coins: 99999,
	})
	catalog := memory.NewCatalogCache(store, time.Minute)
	hub := app.NewLeaderboardHub()
	f := fixture{
		store:    store,
		catalog:  catalog,
		hub:      hub,
		accounts: app.NewAccountService(store, memory.NewSessionStore(time.Hour), hub, nil),
		game: app.NewGameService(app.GameDeps{
			Store:   store,
			Catalog: catalog,
			Hub:     hub,
			Random:  rnd,
		}),
		admin: app.NewAdminService(store, catalog, nil, nil, []string{adminEmail}, nil),
	}
	return f
}

func (f fixture) register(t *testing.T, name, email string) domain.UserProfile {
	t.Helper()
	_, user, err := f.accounts.Register(context.Background(), domain.Registration{Name: name, Email: email, Password: "pw"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func (f fixture) mutate(t *testing.T, email string, fn func(*domain.UserProfile)) {
	t.Helper()
	ctx := context.Background()
	u, err := f.store.User(ctx, email)
	if err != nil {
		t.Fatalf("load %s: %v", email, err)
	}
	fn(&u)
	if err := f.store.SaveUser(ctx, u); err != nil {
		t.Fatalf("save %s: %v", email, err)
	}
}
