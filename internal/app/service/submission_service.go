package service

import (
	"context"
	"errors"
	"log"
	"time"

	"airwavectf/internal/common"
	"airwavectf/internal/common/security"
	"airwavectf/internal/domain/model"
	"airwavectf/internal/domain/repository"

	"github.com/google/uuid"
)

// SubmissionService validates candidate flags and appends solves to the
// ledger. The check-then-append race between two identical submissions is
// settled by the ledger's uniqueness constraint: the losing writer gets
// common.ErrSolveExists and reports AlreadySolved, so exactly one solve is
// ever recorded per (user, challenge).
type SubmissionService struct {
	solveRepo     repository.SolveRepository
	challengeRepo repository.ChallengeRepository
	cache         LeaderboardCache // Optional; invalidated after every appended solve
}

func NewSubmissionService(solveRepo repository.SolveRepository, challengeRepo repository.ChallengeRepository, cache LeaderboardCache) *SubmissionService {
	return &SubmissionService{solveRepo: solveRepo, challengeRepo: challengeRepo, cache: cache}
}

type SubmitFlagRequest struct {
	Flag string `json:"flag"`
}

// Submit resolves a flag submission to exactly one of the four outcomes.
// Infrastructure failures come back as errors with no ledger mutation; every
// user-facing outcome is in the result.
func (s *SubmissionService) Submit(ctx context.Context, principal model.Principal, challengeID, candidate string) (*model.SubmissionResult, error) {
	// Inactive and unknown challenges never award points, regardless of the
	// answer. Checked before any flag comparison.
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.SubmissionResult{Status: model.SubmissionUnavailable}, nil
		}
		return nil, common.Errorf("failed to look up challenge: %w", err)
	}
	if !challenge.IsActive {
		return &model.SubmissionResult{Status: model.SubmissionUnavailable}, nil
	}

	// Fast path: the user already solved this one. Echo the originally
	// awarded points, which may differ from the challenge's current value.
	existing, err := s.solveRepo.FindByUserAndChallenge(ctx, principal.UserID, challengeID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.Errorf("failed to check existing solve: %w", err)
	}
	if existing != nil {
		return &model.SubmissionResult{Status: model.SubmissionAlreadySolved, PointsAwarded: existing.PointsAwarded}, nil
	}

	if !security.VerifyFlag(candidate, challenge.FlagHash) {
		return &model.SubmissionResult{Status: model.SubmissionIncorrect}, nil
	}

	solve := &model.Solve{
		ID:            uuid.NewString(),
		UserID:        principal.UserID,
		ChallengeID:   challenge.ID,
		PointsAwarded: challenge.Points, // Snapshot; later point edits don't rewrite history
		SolvedAt:      time.Now().UTC(),
	}

	if err := s.solveRepo.Create(ctx, solve); err != nil {
		if errors.Is(err, common.ErrSolveExists) {
			// Lost a race against an identical concurrent submission. The
			// winner's solve is the record; report it as already solved.
			winner, ferr := s.solveRepo.FindByUserAndChallenge(ctx, principal.UserID, challengeID)
			if ferr != nil {
				return nil, common.Errorf("solve exists but could not be read back: %w", ferr)
			}
			return &model.SubmissionResult{Status: model.SubmissionAlreadySolved, PointsAwarded: winner.PointsAwarded}, nil
		}
		return nil, common.Errorf("failed to append solve: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	log.Printf("User %s solved challenge %s for %d points", principal.UserID, challenge.ID, solve.PointsAwarded)
	return &model.SubmissionResult{Status: model.SubmissionCorrect, PointsAwarded: solve.PointsAwarded}, nil
}
