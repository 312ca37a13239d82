package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"airwavectf/internal/common"
	"airwavectf/internal/domain/model"
)

func teamFixture(t *testing.T) (*TeamService, *memTeamRepo, *memUserRepo, *memSolveRepo) {
	t.Helper()
	teams := newMemTeamRepo()
	users := newMemUserRepo()
	solves := newMemSolveRepo()
	challenges := newMemChallengeRepo()
	scoreboard := NewScoreboardService(solves, challenges, users, nil)
	svc := NewTeamService(teams, users, scoreboard)
	return svc, teams, users, solves
}

func TestCreateTeamAddsCreator(t *testing.T) {
	ctx := context.Background()
	svc, _, users, _ := teamFixture(t)
	addUser(t, users, "u1", "alice")

	team, err := svc.Create(ctx, "u1", CreateTeamRequest{Name: "Red Signal"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if team.Name != "Red Signal" {
		t.Errorf("unexpected name %q", team.Name)
	}
	if len(team.Members) != 1 || team.Members[0].UserID != "u1" {
		t.Fatalf("expected creator as sole member, got %+v", team.Members)
	}

	// Creator can't make a second team while in one.
	if _, err := svc.Create(ctx, "u1", CreateTeamRequest{Name: "Another"}); !errors.Is(err, common.ErrAlreadyInTeam) {
		t.Fatalf("expected ErrAlreadyInTeam, got %v", err)
	}
}

func TestCreateTeamDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, _, users, _ := teamFixture(t)
	addUser(t, users, "u1", "alice")
	addUser(t, users, "u2", "bob")

	if _, err := svc.Create(ctx, "u1", CreateTeamRequest{Name: "Red Signal"}); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := svc.Create(ctx, "u2", CreateTeamRequest{Name: "Red Signal"}); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestJoinTeamCapAndSingleMembership(t *testing.T) {
	ctx := context.Background()
	svc, _, users, _ := teamFixture(t)

	addUser(t, users, "u0", "creator")
	team, err := svc.Create(ctx, "u0", CreateTeamRequest{Name: "Full House"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	// Fill the team to its cap.
	for i := 1; i < model.MaxTeamMembers; i++ {
		id := fmt.Sprintf("u%d", i)
		addUser(t, users, id, id)
		if _, err := svc.Join(ctx, id, team.ID); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}

	addUser(t, users, "late", "late")
	if _, err := svc.Join(ctx, "late", team.ID); !errors.Is(err, common.ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull, got %v", err)
	}

	// A member can't join a second team.
	addUser(t, users, "u9", "drifter")
	second, err := svc.Create(ctx, "u9", CreateTeamRequest{Name: "Second"})
	if err != nil {
		t.Fatalf("create second team: %v", err)
	}
	if _, err := svc.Join(ctx, "u1", second.ID); !errors.Is(err, common.ErrAlreadyInTeam) {
		t.Fatalf("expected ErrAlreadyInTeam, got %v", err)
	}
}

func TestJoinUnknownTeam(t *testing.T) {
	ctx := context.Background()
	svc, _, users, _ := teamFixture(t)
	addUser(t, users, "u1", "alice")

	if _, err := svc.Join(ctx, "u1", "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaveTeam(t *testing.T) {
	ctx := context.Background()
	svc, _, users, _ := teamFixture(t)
	addUser(t, users, "u1", "alice")

	if err := svc.Leave(ctx, "u1"); !errors.Is(err, common.ErrNotInTeam) {
		t.Fatalf("expected ErrNotInTeam, got %v", err)
	}

	team, err := svc.Create(ctx, "u1", CreateTeamRequest{Name: "Red Signal"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if err := svc.Leave(ctx, "u1"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	got, err := svc.Get(ctx, team.ID)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if len(got.Members) != 0 {
		t.Fatalf("expected empty team after leave, got %+v", got.Members)
	}
}

func TestTeamScoreDerivedFromMembers(t *testing.T) {
	ctx := context.Background()
	svc, _, users, solves := teamFixture(t)

	addUser(t, users, "u1", "alice")
	addUser(t, users, "u2", "bob")
	team, err := svc.Create(ctx, "u1", CreateTeamRequest{Name: "Red Signal"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := svc.Join(ctx, "u2", team.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	base := time.Now()
	addSolve(t, solves, "u1", "c1", 100, base)
	addSolve(t, solves, "u2", "c2", 250, base.Add(time.Minute))

	score, err := svc.Score(ctx, team.ID)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != 350 {
		t.Fatalf("expected 350, got %d", score)
	}

	// The list view carries the same derived score.
	teams, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(teams) != 1 || teams[0].Score != 350 {
		t.Fatalf("expected listed score 350, got %+v", teams)
	}
}
