package service

import (
	"context"
	"fmt"

	"airwavectf/internal/common"
	"airwavectf/internal/domain/model"
	"airwavectf/internal/domain/repository"
)

type AdminService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
}

func NewAdminService(userRepo repository.UserRepository, challengeRepo repository.ChallengeRepository) *AdminService {
	return &AdminService{userRepo: userRepo, challengeRepo: challengeRepo}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

type UpdateUserRequest struct {
	Role *string `json:"role,omitempty"`
}

func (s *AdminService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*model.User, error) {
	if req.Role != nil {
		if *req.Role != model.RoleMember && *req.Role != model.RoleAdmin {
			return nil, common.Errorf("role must be member or admin: %w", common.ErrValidation)
		}
		if err := s.userRepo.UpdateRole(ctx, userID, *req.Role); err != nil {
			return nil, fmt.Errorf("failed to update role: %w", err)
		}
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

type PlatformStats struct {
	TotalUsers       int            `json:"total_users"`
	TotalChallenges  int            `json:"total_challenges"`
	ActiveChallenges int            `json:"active_challenges"`
	CategoryStats    map[string]int `json:"category_stats"`
	DifficultyStats  map[string]int `json:"difficulty_stats"`
}

// Stats aggregates the platform counters shown on the admin dashboard.
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	challenges, err := s.challengeRepo.List(ctx, repository.ChallengeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	stats := &PlatformStats{
		TotalUsers:      len(users),
		TotalChallenges: len(challenges),
		CategoryStats:   map[string]int{},
		DifficultyStats: map[string]int{},
	}
	for _, ch := range challenges {
		if ch.IsActive {
			stats.ActiveChallenges++
		}
		stats.CategoryStats[ch.Category]++
		stats.DifficultyStats[string(ch.Difficulty)]++
	}
	return stats, nil
}
