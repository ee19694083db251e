package domain

import "time"

// LeaderboardEntry is the public view of a player.
type LeaderboardEntry struct {
	Position  int    `json:"position"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	RankTitle string `json:"rankTitle"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
}

// Leaderboard is every player ordered by XP, highest first.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
