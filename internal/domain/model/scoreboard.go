package model

import (
	"time"
)

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Score       int    `json:"score"`
	SolvedCount int    `json:"solved_count"`
}

// UserStats is recomputed from the ledger and the catalog on every read.
type UserStats struct {
	TotalScore   int            `json:"total_score"`
	TotalSolved  int            `json:"total_solved"`
	ByCategory   map[string]int `json:"solved_by_category"`
	ByDifficulty map[string]int `json:"solved_by_difficulty"`
}

// SolvedChallengeInfo is one row of a user's solve history on the profile page.
type SolvedChallengeInfo struct {
	ChallengeID string              `json:"id"`
	Title       string              `json:"title"`
	Category    string              `json:"category"`
	Difficulty  ChallengeDifficulty `json:"difficulty"`
	Points      int                 `json:"points"` // Points awarded at solve time
	SolvedAt    time.Time           `json:"solved_at"`
}
