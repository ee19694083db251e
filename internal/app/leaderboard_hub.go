package app

import (
	"sort"
	"sync"
	"time"

	"nursing-album-service/internal/domain"
)

// LeaderboardHub keeps the latest leaderboard and fans it out to subscribers.
type LeaderboardHub struct {
	now         func() time.Time
	mu          sync.RWMutex
	current     domain.Leaderboard
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return NewLeaderboardHubWithClock(time.Now)
}

// NewLeaderboardHubWithClock allows deterministic timestamps in tests.
func NewLeaderboardHubWithClock(now func() time.Time) *LeaderboardHub {
	return &LeaderboardHub{
		now:         now,
		current:     domain.Leaderboard{Entries: []domain.LeaderboardEntry{}, UpdatedAt: now()},
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Publish ranks users and broadcasts the result.
func (h *LeaderboardHub) Publish(users []domain.UserProfile) domain.Leaderboard {
	lb := BuildLeaderboard(users, h.now())

	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = lb
	for ch := range h.subscribers {
		select {
		case ch <- lb:
		default:
			// drop the stale snapshot so a slow reader only sees the newest one
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

// Snapshot returns the last published leaderboard.
func (h *LeaderboardHub) Snapshot() domain.Leaderboard {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Subscribe returns a channel primed with the current leaderboard.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	ch <- h.current
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// BuildLeaderboard orders users by XP descending, then name, then email.
// Entries never carry the email, which is the login key.
func BuildLeaderboard(users []domain.UserProfile, at time.Time) domain.Leaderboard {
	ranked := append([]domain.UserProfile(nil), users...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].XP != ranked[j].XP {
			return ranked[i].XP > ranked[j].XP
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return domain.NormalizeEmail(ranked[i].Email) < domain.NormalizeEmail(ranked[j].Email)
	})
	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, u := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Position:  i + 1,
			Name:      u.Name,
			Avatar:    u.Avatar,
			RankTitle: u.RankTitle,
			Level:     u.Level,
			XP:        u.XP,
		})
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: at}
}
