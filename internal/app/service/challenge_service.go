package service

import (
	"context"
	"errors"
	"log"

	"airwavectf/internal/common"
	"airwavectf/internal/common/security"
	"airwavectf/internal/domain/model"
	"airwavectf/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ChallengeService serves the catalog to users and owns the admin authoring
// path. The plaintext flag only exists inside Create/Update; everywhere else
// the challenge carries its hash.
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	solveRepo     repository.SolveRepository
}

func NewChallengeService(challengeRepo repository.ChallengeRepository, solveRepo repository.SolveRepository) *ChallengeService {
	return &ChallengeService{challengeRepo: challengeRepo, solveRepo: solveRepo}
}

type ListChallengesRequest struct {
	Category   string
	Difficulty string
}

// List returns active challenges with per-user solved markers and solve
// counts. Admin listings go through ListAll instead.
func (s *ChallengeService) List(ctx context.Context, userID string, req ListChallengesRequest) ([]model.Challenge, error) {
	challenges, err := s.challengeRepo.List(ctx, repository.ChallengeFilter{
		Category:   req.Category,
		Difficulty: model.ChallengeDifficulty(req.Difficulty),
		ActiveOnly: true,
	})
	if err != nil {
		return nil, common.Errorf("failed to list challenges: %w", err)
	}

	solved, err := s.solvedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range challenges {
		challenges[i].FlagHash = ""
		challenges[i].IsSolved = solved[challenges[i].ID]
		count, err := s.solveRepo.ListByChallenge(ctx, challenges[i].ID)
		if err != nil {
			return nil, common.Errorf("failed to count solves: %w", err)
		}
		challenges[i].SolvedCount = len(count)
	}
	return challenges, nil
}

// Detail returns an active challenge for users. Inactive challenges are
// reported as not found, same as unknown ids.
func (s *ChallengeService) Detail(ctx context.Context, userID, challengeID string) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, common.Errorf("failed to find challenge: %w", err)
	}
	if !challenge.IsActive {
		return nil, common.ErrNotFound
	}
	challenge.FlagHash = ""

	solves, err := s.solveRepo.ListByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, common.Errorf("failed to count solves: %w", err)
	}
	challenge.SolvedCount = len(solves)

	if userID != "" {
		_, err := s.solveRepo.FindByUserAndChallenge(ctx, userID, challenge.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("failed to check solve: %w", err)
		}
		challenge.IsSolved = err == nil
	}
	return challenge, nil
}

func (s *ChallengeService) Categories(ctx context.Context) ([]string, error) {
	return s.challengeRepo.ListCategories(ctx)
}

func (s *ChallengeService) Difficulties(ctx context.Context) ([]string, error) {
	return s.challengeRepo.ListDifficulties(ctx)
}

type CreateChallengeRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Points        int    `json:"points"`
	Flag          string `json:"flag"`
	IsActive      *bool  `json:"is_active,omitempty"`
	HasAttachment bool   `json:"has_attachment"`
}

func (s *ChallengeService) Create(ctx context.Context, req CreateChallengeRequest) (*model.Challenge, error) {
	if req.Title == "" || req.Description == "" || req.Category == "" || req.Flag == "" {
		return nil, common.Errorf("missing required fields: %w", common.ErrBadRequest)
	}
	difficulty := model.ChallengeDifficulty(req.Difficulty)
	if !difficulty.Valid() {
		return nil, common.Errorf("difficulty must be Easy, Medium or Hard: %w", common.ErrValidation)
	}
	if req.Points <= 0 {
		return nil, common.Errorf("points must be positive: %w", common.ErrValidation)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	challenge := &model.Challenge{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Slug:          slug.Make(req.Title),
		Description:   req.Description,
		Category:      req.Category,
		Difficulty:    difficulty,
		Points:        req.Points,
		FlagHash:      security.HashFlag(req.Flag),
		IsActive:      active,
		HasAttachment: req.HasAttachment,
	}

	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, common.Errorf("failed to create challenge: %w", err)
	}

	log.Printf("Challenge %s (%s) created", challenge.ID, challenge.Title)
	challenge.FlagHash = ""
	return challenge, nil
}

type UpdateChallengeRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Category      *string `json:"category,omitempty"`
	Difficulty    *string `json:"difficulty,omitempty"`
	Points        *int    `json:"points,omitempty"`
	Flag          *string `json:"flag,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	HasAttachment *bool   `json:"has_attachment,omitempty"`
}

// Update edits a challenge in place. Existing solves keep the points they
// were awarded; only future solves see the new value.
func (s *ChallengeService) Update(ctx context.Context, challengeID string, req UpdateChallengeRequest) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, common.Errorf("failed to find challenge: %w", err)
	}

	if req.Title != nil {
		challenge.Title = *req.Title
		challenge.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.Category != nil {
		challenge.Category = *req.Category
	}
	if req.Difficulty != nil {
		difficulty := model.ChallengeDifficulty(*req.Difficulty)
		if !difficulty.Valid() {
			return nil, common.Errorf("difficulty must be Easy, Medium or Hard: %w", common.ErrValidation)
		}
		challenge.Difficulty = difficulty
	}
	if req.Points != nil {
		if *req.Points <= 0 {
			return nil, common.Errorf("points must be positive: %w", common.ErrValidation)
		}
		challenge.Points = *req.Points
	}
	if req.Flag != nil {
		if *req.Flag == "" {
			return nil, common.Errorf("flag must not be empty: %w", common.ErrValidation)
		}
		challenge.FlagHash = security.HashFlag(*req.Flag)
	}
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}
	if req.HasAttachment != nil {
		challenge.HasAttachment = *req.HasAttachment
	}

	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, common.Errorf("failed to update challenge: %w", err)
	}
	challenge.FlagHash = ""
	return challenge, nil
}

func (s *ChallengeService) Delete(ctx context.Context, challengeID string) error {
	if err := s.challengeRepo.Delete(ctx, challengeID); err != nil {
		return common.Errorf("failed to delete challenge: %w", err)
	}
	log.Printf("Challenge %s deleted", challengeID)
	return nil
}

// ListAll is the admin view: every challenge, including inactive ones.
func (s *ChallengeService) ListAll(ctx context.Context) ([]model.Challenge, error) {
	challenges, err := s.challengeRepo.List(ctx, repository.ChallengeFilter{})
	if err != nil {
		return nil, common.Errorf("failed to list challenges: %w", err)
	}
	for i := range challenges {
		challenges[i].FlagHash = ""
	}
	return challenges, nil
}

func (s *ChallengeService) solvedSet(ctx context.Context, userID string) (map[string]bool, error) {
	if userID == "" {
		return map[string]bool{}, nil
	}
	solves, err := s.solveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to list user solves: %w", err)
	}
	solved := make(map[string]bool, len(solves))
	for _, solve := range solves {
		solved[solve.ChallengeID] = true
	}
	return solved, nil
}
