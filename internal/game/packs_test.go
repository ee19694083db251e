package game

import (
	"errors"
	"math/rand"
	"testing"

	"nursing-album-service/internal/domain"
)

// seqRandom replays fixed values, cycling when exhausted.
type seqRandom struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *seqRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *seqRandom) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

func starterPack() domain.StorePack {
	return domain.StorePack{ID: "pack-starter", Price: 50, StickersCount: 3, LegendaryChance: 5, EpicChance: 15, RareChance: 40}
}

func TestTierForBoundaries(t *testing.T) {
	p := starterPack()
	cases := []struct {
		r    float64
		want domain.Rarity
	}{
		{0, domain.RarityLegendary},
		{5, domain.RarityLegendary},
		{5.0001, domain.RarityEpic},
		{20, domain.RarityEpic},
		{20.5, domain.RarityRare},
		{60, domain.RarityRare},
		{60.01, domain.RarityCommon},
		{99.99, domain.RarityCommon},
	}
	for _, tc := range cases {
		if got := TierFor(p, tc.r); got != tc.want {
			t.Fatalf("r=%v: expected %s, got %s", tc.r, tc.want, got)
		}
	}
}

func TestTierForIsCumulativeNotIndependent(t *testing.T) {
	// Chances that exceed 100 together still resolve in priority order.
	p := domain.StorePack{LegendaryChance: 50, EpicChance: 50, RareChance: 50}
	if got := TierFor(p, 75); got != domain.RarityEpic {
		t.Fatalf("expected epic, got %s", got)
	}
	if got := TierFor(p, 99.9); got != domain.RarityEpic {
		t.Fatalf("expected epic, got %s", got)
	}
}

func sampleCatalog() []domain.Sticker {
	return []domain.Sticker{
		{ID: "1", Rarity: domain.RarityCommon},
		{ID: "2", Rarity: domain.RarityLegendary},
		{ID: "3", Rarity: domain.RarityCommon},
		{ID: "4", Rarity: domain.RarityRare},
	}
}

func TestDrawPackAllLegendary(t *testing.T) {
	p := domain.StorePack{ID: "gold", StickersCount: 1, LegendaryChance: 100}
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		drawn, err := DrawPack(p, sampleCatalog(), rnd)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if drawn[0].Rarity != domain.RarityLegendary {
			t.Fatalf("draw %d returned %s", i, drawn[0].Rarity)
		}
	}
}

func TestDrawPackFallsBackToWholeCatalog(t *testing.T) {
	p := domain.StorePack{ID: "epic", StickersCount: 5, EpicChance: 100}
	drawn, err := DrawPack(p, sampleCatalog(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("expected fallback draw, got %v", err)
	}
	if len(drawn) != 5 {
		t.Fatalf("expected 5 stickers, got %d", len(drawn))
	}
}

func TestDrawPackUsesTierPool(t *testing.T) {
	p := starterPack()
	// rolls: 0.03 -> 3 (legendary), 0.5 -> 50 (rare), 0.9 -> 90 (common)
	rnd := &seqRandom{floats: []float64{0.03, 0.5, 0.9}, ints: []int{0, 0, 1}}
	drawn, err := DrawPack(p, sampleCatalog(), rnd)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	got := []string{drawn[0].ID, drawn[1].ID, drawn[2].ID}
	want := []string{"2", "4", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDrawPackEmptyCatalog(t *testing.T) {
	if _, err := DrawPack(starterPack(), nil, NewRandom()); !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("expected empty catalog error, got %v", err)
	}
}

func TestPurchasePack(t *testing.T) {
	user := newUser()
	drawn := []domain.Sticker{{ID: "1"}, {ID: "1"}, {ID: "4"}}

	out, err := PurchasePack(user, starterPack(), drawn)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if out.Coins != 50 {
		t.Fatalf("expected 50 coins left, got %d", out.Coins)
	}
	if len(out.CollectedStickers) != 3 || out.CollectedStickers[2] != "4" {
		t.Fatalf("unexpected collection %v", out.CollectedStickers)
	}

	poor := newUser()
	poor.Coins = 49
	same, err := PurchasePack(poor, starterPack(), drawn)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if same.Coins != 49 || len(same.CollectedStickers) != 0 {
		t.Fatalf("failed purchase must not change the user: %+v", same)
	}
}
