package model

import (
	"time"
)

// MaxTeamMembers caps team size. Joining a full team is rejected.
const MaxTeamMembers = 5

// Team score is always derived from the members' solves at query time. There
// is deliberately no stored score field to drift out of sync with the ledger.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Members []TeamMember `json:"members,omitempty"`
	Score   int          `json:"score"` // Derived, filled in by the scoreboard service
}

type TeamMember struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}
