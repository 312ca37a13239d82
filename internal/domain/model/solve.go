package model

import (
	"time"
)

// Solve is one ledger entry: user solved challenge at a point in time, for a
// snapshot of the challenge's point value. The ledger is append-only and
// holds at most one Solve per (UserID, ChallengeID); entries are never
// updated or deleted by normal operation.
type Solve struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ChallengeID   string    `json:"challenge_id"`
	PointsAwarded int       `json:"points_awarded"`
	SolvedAt      time.Time `json:"solved_at"`
}

type SubmissionStatus string

const (
	SubmissionCorrect       SubmissionStatus = "Correct"
	SubmissionIncorrect     SubmissionStatus = "IncorrectFlag"
	SubmissionAlreadySolved SubmissionStatus = "AlreadySolved"
	SubmissionUnavailable   SubmissionStatus = "ChallengeUnavailable"
)

// SubmissionResult is the single outcome type for a flag submission. Every
// user-visible outcome is distinguishable here; infrastructure failures are
// reported as errors instead.
type SubmissionResult struct {
	Status        SubmissionStatus `json:"status"`
	PointsAwarded int              `json:"points_awarded,omitempty"` // Set for Correct and AlreadySolved
}
