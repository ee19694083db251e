package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nursing_album"

// Metrics holds the gameplay counters. A nil *Metrics is a no-op.
type Metrics struct {
	Answers            *prometheus.CounterVec
	XPAwarded          prometheus.Counter
	CoinsAwarded       prometheus.Counter
	LevelUps           prometheus.Counter
	PacksOpened        *prometheus.CounterVec
	StickersDrawn      *prometheus.CounterVec
	CoinsSpent         prometheus.Counter
	DuplicatesSold     *prometheus.CounterVec
	GeneratorFallbacks *prometheus.CounterVec
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Answers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Quiz answers by result",
		}, []string{"result"}),
		XPAwarded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_awarded_total",
			Help:      "Experience granted for correct answers",
		}),
		CoinsAwarded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_awarded_total",
			Help:      "Coins granted for correct answers",
		}),
		LevelUps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Rank transitions",
		}),
		PacksOpened: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packs_opened_total",
			Help:      "Store packs purchased and opened",
		}, []string{"pack"}),
		StickersDrawn: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stickers_drawn_total",
			Help:      "Stickers drawn from packs by rarity",
		}, []string{"rarity"}),
		CoinsSpent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_spent_total",
			Help:      "Coins spent on packs",
		}),
		DuplicatesSold: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_sold_total",
			Help:      "Duplicate stickers sold by rarity",
		}, []string{"rarity"}),
		GeneratorFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_fallbacks_total",
			Help:      "Content generator failures replaced by placeholder content",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveAnswer(correct bool, xp, coins int, levelUp bool) {
	if m == nil {
		return
	}
	if !correct {
		m.Answers.WithLabelValues("wrong").Inc()
		return
	}
	m.Answers.WithLabelValues("correct").Inc()
	m.XPAwarded.Add(float64(xp))
	m.CoinsAwarded.Add(float64(coins))
	if levelUp {
		m.LevelUps.Inc()
	}
}

func (m *Metrics) ObservePack(packID string, price int, rarities []string) {
	if m == nil {
		return
	}
	m.PacksOpened.WithLabelValues(packID).Inc()
	m.CoinsSpent.Add(float64(price))
	for _, r := range rarities {
		m.StickersDrawn.WithLabelValues(r).Inc()
	}
}

func (m *Metrics) ObserveSale(rarity string) {
	if m == nil {
		return
	}
	m.DuplicatesSold.WithLabelValues(rarity).Inc()
}

func (m *Metrics) ObserveFallback(kind string) {
	if m == nil {
		return
	}
	m.GeneratorFallbacks.WithLabelValues(kind).Inc()
}
