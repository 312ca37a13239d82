package service

import (
	"context"
	"sort"
	"time"

	"airwavectf/internal/common"
	"airwavectf/internal/domain/model"
	"airwavectf/internal/domain/repository"
)

// LeaderboardCache is an optional side table for leaderboard reads. A miss
// falls through to a cold recomputation from the ledger, which must produce
// the same result; correctness never depends on cache freshness.
type LeaderboardCache interface {
	Get(ctx context.Context, limit int) ([]model.LeaderboardEntry, bool)
	Set(ctx context.Context, limit int, entries []model.LeaderboardEntry)
	Invalidate(ctx context.Context)
}

// ScoreboardService derives every score view from the solve ledger, the
// challenge catalog and current team membership. Nothing here is stored;
// user scores, team scores and the leaderboard are recomputed on read.
type ScoreboardService struct {
	solveRepo     repository.SolveRepository
	challengeRepo repository.ChallengeRepository
	userRepo      repository.UserRepository
	cache         LeaderboardCache // Optional
}

func NewScoreboardService(solveRepo repository.SolveRepository, challengeRepo repository.ChallengeRepository, userRepo repository.UserRepository, cache LeaderboardCache) *ScoreboardService {
	return &ScoreboardService{solveRepo: solveRepo, challengeRepo: challengeRepo, userRepo: userRepo, cache: cache}
}

// UserStats recomputes a user's totals and per-category/per-difficulty solve
// counts. Total score sums the snapshot points of each solve, so edits to a
// challenge's current value do not shift historical scores.
func (s *ScoreboardService) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	solves, err := s.solveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to list solves: %w", err)
	}
	challenges, err := s.challengeIndex(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		ByCategory:   map[string]int{},
		ByDifficulty: map[string]int{},
	}
	for _, solve := range solves {
		stats.TotalScore += solve.PointsAwarded
		stats.TotalSolved++
		if ch, ok := challenges[solve.ChallengeID]; ok {
			stats.ByCategory[ch.Category]++
			stats.ByDifficulty[string(ch.Difficulty)]++
		}
	}
	return stats, nil
}

// SolvedHistory lists a user's solves joined with catalog data, oldest first.
func (s *ScoreboardService) SolvedHistory(ctx context.Context, userID string) ([]model.SolvedChallengeInfo, error) {
	solves, err := s.solveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to list solves: %w", err)
	}
	challenges, err := s.challengeIndex(ctx)
	if err != nil {
		return nil, err
	}

	history := make([]model.SolvedChallengeInfo, 0, len(solves))
	for _, solve := range solves {
		ch, ok := challenges[solve.ChallengeID]
		if !ok {
			continue // Challenge retracted from the catalog; solve still counts toward scores
		}
		history = append(history, model.SolvedChallengeInfo{
			ChallengeID: ch.ID,
			Title:       ch.Title,
			Category:    ch.Category,
			Difficulty:  ch.Difficulty,
			Points:      solve.PointsAwarded,
			SolvedAt:    solve.SolvedAt,
		})
	}
	return history, nil
}

// TeamScore sums the total scores of the team's current members. A user who
// leaves the team takes their contribution with them on the next read.
func (s *ScoreboardService) TeamScore(ctx context.Context, teamID string) (int, error) {
	members, err := s.userRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return 0, common.Errorf("failed to list team members: %w", err)
	}

	total := 0
	for _, member := range members {
		solves, err := s.solveRepo.ListByUser(ctx, member.ID)
		if err != nil {
			return 0, common.Errorf("failed to list solves for member %s: %w", member.ID, err)
		}
		for _, solve := range solves {
			total += solve.PointsAwarded
		}
	}
	return total, nil
}

// Leaderboard ranks all users by score. Ties break on who reached the score
// first (earlier last solve wins), then on user id for determinism.
func (s *ScoreboardService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx, limit); ok {
			return entries, nil
		}
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list users: %w", err)
	}
	solves, err := s.solveRepo.ListAll(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list solves: %w", err)
	}

	entries := ComputeLeaderboard(users, solves, limit)

	if s.cache != nil {
		s.cache.Set(ctx, limit, entries)
	}
	return entries, nil
}

// ComputeLeaderboard is the pure ranking function behind Leaderboard. Exposed
// so the ordering contract is testable without storage.
func ComputeLeaderboard(users []model.User, solves []model.Solve, limit int) []model.LeaderboardEntry {
	type tally struct {
		score     int
		solved    int
		lastSolve time.Time
	}
	tallies := make(map[string]*tally, len(users))
	for _, u := range users {
		tallies[u.ID] = &tally{}
	}
	for _, solve := range solves {
		t, ok := tallies[solve.UserID]
		if !ok {
			continue // Solve by a user no longer listed
		}
		t.score += solve.PointsAwarded
		t.solved++
		if solve.SolvedAt.After(t.lastSolve) {
			t.lastSolve = solve.SolvedAt
		}
	}

	ranked := make([]model.User, len(users))
	copy(ranked, users)
	sort.Slice(ranked, func(i, j int) bool {
		ti, tj := tallies[ranked[i].ID], tallies[ranked[j].ID]
		if ti.score != tj.score {
			return ti.score > tj.score
		}
		if !ti.lastSolve.Equal(tj.lastSolve) {
			return ti.lastSolve.Before(tj.lastSolve)
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	entries := make([]model.LeaderboardEntry, 0, len(ranked))
	for i, u := range ranked {
		t := tallies[u.ID]
		entries = append(entries, model.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			Score:       t.score,
			SolvedCount: t.solved,
		})
	}
	return entries
}

type ProfileResponse struct {
	User   *model.User                 `json:"user"`
	Score  int                         `json:"score"`
	Solved []model.SolvedChallengeInfo `json:"solved_challenges"`
}

// Profile joins a user's account data with their solve history and derived
// total score.
func (s *ScoreboardService) Profile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to find user: %w", err)
	}
	user.HashedPassword = ""

	history, err := s.SolvedHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	solves, err := s.solveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to list solves: %w", err)
	}
	score := 0
	for _, solve := range solves {
		score += solve.PointsAwarded
	}

	return &ProfileResponse{User: user, Score: score, Solved: history}, nil
}

func (s *ScoreboardService) challengeIndex(ctx context.Context) (map[string]model.Challenge, error) {
	challenges, err := s.challengeRepo.List(ctx, repository.ChallengeFilter{})
	if err != nil {
		return nil, common.Errorf("failed to list challenges: %w", err)
	}
	index := make(map[string]model.Challenge, len(challenges))
	for _, ch := range challenges {
		index[ch.ID] = ch
	}
	return index, nil
}
