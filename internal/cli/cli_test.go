package cli

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"nursing-album-service/internal/config"
	"nursing-album-service/internal/domain"
	"nursing-album-service/internal/infra/memory"
	"nursing-album-service/internal/logger"
	"nursing-album-service/internal/metrics"
)

func TestStarterCatalogIsValid(t *testing.T) {
	v := validator.New()
	cat := starterCatalog()
	for _, q := range cat.Questions {
		if err := v.Struct(q); err != nil {
			t.Fatalf("question %s invalid: %v", q.ID, err)
		}
	}
	for _, p := range cat.Packs {
		if err := v.Struct(p); err != nil {
			t.Fatalf("pack %s invalid: %v", p.ID, err)
		}
	}
	for _, s := range cat.Stickers {
		if err := v.Struct(s); err != nil {
			t.Fatalf("sticker %s invalid: %v", s.ID, err)
		}
	}
	topics := map[string]bool{}
	for _, tp := range cat.Topics {
		topics[tp.Name] = true
	}
	for _, q := range cat.Questions {
		if !topics[q.Topic] {
			t.Fatalf("question %s references unknown topic %q", q.ID, q.Topic)
		}
	}
}

func TestSeedStoreIsIdempotent(t *testing.T) {
	store := memory.NewStore(domain.Catalog{})
	ctx := context.Background()

	if err := seedStore(ctx, store, logger.Discard()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	admin, _ := store.User(ctx, config.DefaultAdminEmail)
	admin.Coins = 5
	_ = store.SaveUser(ctx, admin)

	if err := seedStore(ctx, store, logger.Discard()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	topics, _ := store.Topics(ctx)
	if len(topics) != 7 {
		t.Fatalf("expected 7 topics after reseed, got %d", len(topics))
	}
	packs, _ := store.Packs(ctx)
	if len(packs) != 1 || packs[0].ID != "pack-starter" {
		t.Fatalf("unexpected packs %+v", packs)
	}
	got, _ := store.User(ctx, config.DefaultAdminEmail)
	if got.Coins != 5 || got.Level != 99 {
		t.Fatalf("expected admin progress kept, got %+v", got)
	}
}

func TestBuildServicesInMemory(t *testing.T) {
	var cfg config.Config
	cfg.Admin.Emails = []string{config.DefaultAdminEmail}
	ctx := context.Background()

	svc, cleanup, err := buildServices(ctx, cfg, logger.Discard(), metrics.New(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer cleanup()

	session, user, err := svc.accounts.Login(ctx, "ADMIN@admin.com", "123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if user.Password != "" || user.RankTitle != "Mestre do Sistema" {
		t.Fatalf("unexpected admin profile %+v", user)
	}
	if !svc.admin.IsAdmin(session.Email) {
		t.Fatalf("expected admin rights for %s", session.Email)
	}

	board, err := svc.game.Topics(ctx, session.Email)
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	if len(board.Topics) != 7 || board.EndlessUnlocked {
		t.Fatalf("unexpected board %+v", board)
	}
}

func TestWriteTimeoutOutlastsGenerator(t *testing.T) {
	var cfg config.Config
	if got := writeTimeout(cfg); got <= generatorTimeout(cfg) {
		t.Fatalf("write timeout %v must exceed generator timeout %v", got, generatorTimeout(cfg))
	}

	cfg.Generator.Timeout = "90s"
	if got := writeTimeout(cfg); got != 105*time.Second {
		t.Fatalf("expected 105s, got %v", got)
	}
}
