package game

import (
	"math"

	"nursing-album-service/internal/domain"
)

// SalePrice is the fixed coin value of one duplicate by rarity.
func SalePrice(r domain.Rarity) int {
	switch r {
	case domain.RarityLegendary:
		return 50
	case domain.RarityEpic:
		return 25
	case domain.RarityRare:
		return 10
	default:
		return 5
	}
}

// Counts groups the collection by sticker id.
func Counts(collected []string) map[string]int {
	out := make(map[string]int, len(collected))
	for _, id := range collected {
		out[id]++
	}
	return out
}

// OwnedCount is the number of distinct sticker ids owned.
func OwnedCount(user domain.UserProfile) int {
	return len(Counts(user.CollectedStickers))
}

// CompletionPercentage is round(owned / catalog * 100), 0 for an empty catalog.
// Only owned ids still present in the catalog count, so it stays within 0..100.
func CompletionPercentage(user domain.UserProfile, catalog []domain.Sticker) int {
	if len(catalog) == 0 {
		return 0
	}
	counts := Counts(user.CollectedStickers)
	owned := 0
	seen := make(map[string]struct{}, len(catalog))
	for _, s := range catalog {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		if counts[s.ID] > 0 {
			owned++
		}
	}
	return roundPercent(owned, len(seen))
}

func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Duplicate is a sticker owned more than once.
type Duplicate struct {
	Sticker domain.Sticker `json:"sticker"`
	// ExtraCount is the sellable surplus; one copy is always kept.
	ExtraCount int `json:"extraCount"`
	UnitPrice  int `json:"unitPrice"`
}

// Duplicates lists owned stickers with extra copies, in catalog order.
// Ids missing from the catalog are dropped.
func Duplicates(user domain.UserProfile, catalog []domain.Sticker) []Duplicate {
	counts := Counts(user.CollectedStickers)
	var out []Duplicate
	for _, s := range catalog {
		if n := counts[s.ID]; n > 1 {
			out = append(out, Duplicate{Sticker: s, ExtraCount: n - 1, UnitPrice: SalePrice(s.Rarity)})
			// report each id once even if the catalog repeats it
			delete(counts, s.ID)
		}
	}
	return out
}

// SellDuplicate removes one copy of stickerID and credits its sale price.
// It fails with ErrNotFound unless at least two copies are owned.
func SellDuplicate(user domain.UserProfile, stickerID string, catalog []domain.Sticker) (domain.UserProfile, int, error) {
	if Counts(user.CollectedStickers)[stickerID] < 2 {
		return user, 0, domain.ErrNotFound
	}
	rarity := domain.RarityCommon
	for _, s := range catalog {
		if s.ID == stickerID {
			rarity = s.Rarity
			break
		}
	}
	earned := SalePrice(rarity)

	out := user.Clone()
	for i, id := range out.CollectedStickers {
		if id == stickerID {
			out.CollectedStickers = append(out.CollectedStickers[:i], out.CollectedStickers[i+1:]...)
			break
		}
	}
	out.Coins += earned
	return out, earned, nil
}
