package service

import (
	"context"
	"fmt"
	"log"

	"airwavectf/internal/common"
	"airwavectf/internal/domain/model"
	"airwavectf/internal/domain/repository"

	"github.com/google/uuid"
)

// TeamService manages membership. Scores are never written here; the
// scoreboard derives them from current membership on every read.
type TeamService struct {
	teamRepo   repository.TeamRepository
	userRepo   repository.UserRepository
	scoreboard *ScoreboardService
}

func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, scoreboard *ScoreboardService) *TeamService {
	return &TeamService{teamRepo: teamRepo, userRepo: userRepo, scoreboard: scoreboard}
}

type CreateTeamRequest struct {
	Name string `json:"name"`
}

// Create makes a new team with the creator as its first member.
func (s *TeamService) Create(ctx context.Context, userID string, req CreateTeamRequest) (*model.Team, error) {
	if req.Name == "" {
		return nil, common.Errorf("team name is required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.TeamID != nil {
		return nil, common.ErrAlreadyInTeam
	}

	team := &model.Team{
		ID:   uuid.NewString(),
		Name: req.Name,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	if err := s.userRepo.SetTeam(ctx, userID, &team.ID); err != nil {
		return nil, fmt.Errorf("failed to add creator to team: %w", err)
	}

	log.Printf("Team %s (%s) created by user %s", team.ID, team.Name, userID)
	return s.Get(ctx, team.ID)
}

// Join adds a user to a team. One team per user, at most MaxTeamMembers
// members per team.
func (s *TeamService) Join(ctx context.Context, userID, teamID string) (*model.Team, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.TeamID != nil {
		return nil, common.ErrAlreadyInTeam
	}

	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	members, err := s.userRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	if len(members) >= model.MaxTeamMembers {
		return nil, common.ErrTeamFull
	}

	if err := s.userRepo.SetTeam(ctx, userID, &teamID); err != nil {
		return nil, fmt.Errorf("failed to join team: %w", err)
	}
	return s.Get(ctx, teamID)
}

// Leave removes the user from their team. Their score contribution leaves
// with them, immediately visible on the next team score read.
func (s *TeamService) Leave(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.TeamID == nil {
		return common.ErrNotInTeam
	}
	if err := s.userRepo.SetTeam(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}
	return nil
}

// Get returns a team with members and its derived score.
func (s *TeamService) Get(ctx context.Context, teamID string) (*model.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	if err := s.hydrate(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) List(ctx context.Context) ([]model.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		if err := s.hydrate(ctx, &teams[i]); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

// Score exposes the derived team score on its own, for the scoring API.
func (s *TeamService) Score(ctx context.Context, teamID string) (int, error) {
	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		return 0, fmt.Errorf("failed to find team: %w", err)
	}
	return s.scoreboard.TeamScore(ctx, teamID)
}

func (s *TeamService) hydrate(ctx context.Context, team *model.Team) error {
	members, err := s.userRepo.ListByTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("failed to list members for team %s: %w", team.ID, err)
	}
	team.Members = make([]model.TeamMember, 0, len(members))
	for _, m := range members {
		team.Members = append(team.Members, model.TeamMember{UserID: m.ID, Username: m.Username})
	}

	score, err := s.scoreboard.TeamScore(ctx, team.ID)
	if err != nil {
		return err
	}
	team.Score = score
	return nil
}
