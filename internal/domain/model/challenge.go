package model

import (
	"time"
)

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "Easy"
	DifficultyMedium ChallengeDifficulty = "Medium"
	DifficultyHard   ChallengeDifficulty = "Hard"
)

// Challenge is a scored exercise. FlagHash is the SHA-256 of the secret flag;
// the plaintext flag is accepted on the admin create/update path only and is
// never stored or returned.
type Challenge struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Category      string              `json:"category"` // Wireless, IoT, RF, ...
	Difficulty    ChallengeDifficulty `json:"difficulty"`
	Points        int                 `json:"points"`
	FlagHash      string              `json:"-"`
	IsActive      bool                `json:"is_active"`
	HasAttachment bool                `json:"has_attachment"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`

	SolvedCount int  `json:"solved_count"`        // Derived, for listings
	IsSolved    bool `json:"is_solved,omitempty"` // Per-requesting-user, for listings
}

func (d ChallengeDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
