package game

import (
	"fmt"

	"nursing-album-service/internal/domain"
)

type tierThreshold struct {
	upTo   float64
	rarity domain.Rarity
}

// tierTable lists cumulative thresholds in priority order: Legendary, Epic, Rare.
func tierTable(p domain.StorePack) []tierThreshold {
	legendary := p.LegendaryChance
	epic := legendary + p.EpicChance
	rare := epic + p.RareChance
	return []tierThreshold{
		{upTo: legendary, rarity: domain.RarityLegendary},
		{upTo: epic, rarity: domain.RarityEpic},
		{upTo: rare, rarity: domain.RarityRare},
	}
}

// TierFor maps a roll r in [0, 100) to a rarity. A roll equal to a threshold
// belongs to that threshold's tier; anything past the last one is Common.
func TierFor(p domain.StorePack, r float64) domain.Rarity {
	for _, t := range tierTable(p) {
		if r <= t.upTo {
			return t.rarity
		}
	}
	return domain.RarityCommon
}

// DrawPack draws pack.StickersCount stickers independently. When the chosen
// tier has no stickers the whole catalog is used instead.
func DrawPack(p domain.StorePack, catalog []domain.Sticker, rnd Random) ([]domain.Sticker, error) {
	if len(catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	if p.StickersCount <= 0 {
		return nil, fmt.Errorf("%w: pack %q has no stickers to draw", domain.ErrInvalidInput, p.ID)
	}

	byTier := make(map[domain.Rarity][]domain.Sticker)
	for _, s := range catalog {
		byTier[s.Rarity] = append(byTier[s.Rarity], s)
	}

	drawn := make([]domain.Sticker, 0, p.StickersCount)
	for i := 0; i < p.StickersCount; i++ {
		tier := TierFor(p, rnd.Float64()*100)
		pool := byTier[tier]
		if len(pool) == 0 {
			pool = catalog
		}
		drawn = append(drawn, pool[rnd.Intn(len(pool))])
	}
	return drawn, nil
}

// CanAfford reports whether user holds enough coins for pack.
func CanAfford(user domain.UserProfile, p domain.StorePack) bool {
	return user.Coins >= p.Price
}

// PurchasePack deducts the price and appends every drawn sticker in order.
func PurchasePack(user domain.UserProfile, p domain.StorePack, drawn []domain.Sticker) (domain.UserProfile, error) {
	if !CanAfford(user, p) {
		return user, domain.ErrInsufficientFunds
	}
	out := user.Clone()
	out.Coins -= p.Price
	for _, s := range drawn {
		out.CollectedStickers = append(out.CollectedStickers, s.ID)
	}
	return out, nil
}
