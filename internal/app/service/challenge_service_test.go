package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"airwavectf/internal/common"
	"airwavectf/internal/common/security"
	"airwavectf/internal/domain/model"
)

func challengeFixture(t *testing.T) (*ChallengeService, *memChallengeRepo, *memSolveRepo) {
	t.Helper()
	challenges := newMemChallengeRepo()
	solves := newMemSolveRepo()
	return NewChallengeService(challenges, solves), challenges, solves
}

func TestCreateChallengeHashesFlag(t *testing.T) {
	ctx := context.Background()
	svc, challenges, _ := challengeFixture(t)

	created, err := svc.Create(ctx, CreateChallengeRequest{
		Title:       "WiFi Sniffing 101",
		Description: "Capture and analyze WiFi traffic to find the hidden flag.",
		Category:    "Wireless",
		Difficulty:  "Easy",
		Points:      100,
		Flag:        "FLAG{WIFI_SNIFFING_BASICS}",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.FlagHash != "" {
		t.Error("flag hash leaked in the create response")
	}
	if created.Slug != "wifi-sniffing-101" {
		t.Errorf("unexpected slug %q", created.Slug)
	}
	if !created.IsActive {
		t.Error("challenges default to active")
	}

	stored, err := challenges.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.FlagHash == "" || stored.FlagHash == "FLAG{WIFI_SNIFFING_BASICS}" {
		t.Fatal("stored flag is not hashed")
	}
	if !security.VerifyFlag("FLAG{WIFI_SNIFFING_BASICS}", stored.FlagHash) {
		t.Fatal("stored hash does not verify against the original flag")
	}
}

func TestCreateChallengeValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := challengeFixture(t)

	cases := []struct {
		name string
		req  CreateChallengeRequest
	}{
		{"missing flag", CreateChallengeRequest{Title: "t", Description: "d", Category: "c", Difficulty: "Easy", Points: 10}},
		{"bad difficulty", CreateChallengeRequest{Title: "t", Description: "d", Category: "c", Difficulty: "brutal", Points: 10, Flag: "f"}},
		{"zero points", CreateChallengeRequest{Title: "t", Description: "d", Category: "c", Difficulty: "Easy", Points: 0, Flag: "f"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.req); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestListFiltersAndSolvedMarkers(t *testing.T) {
	ctx := context.Background()
	svc, challenges, solves := challengeFixture(t)

	challenges.Create(ctx, newChallenge("w1", "W1", "Wireless", model.DifficultyEasy, 100, "f1", true))
	challenges.Create(ctx, newChallenge("w2", "W2", "Wireless", model.DifficultyHard, 300, "f2", true))
	challenges.Create(ctx, newChallenge("i1", "I1", "IoT", model.DifficultyMedium, 200, "f3", true))
	challenges.Create(ctx, newChallenge("h1", "H1", "Wireless", model.DifficultyEasy, 100, "f4", false)) // Hidden

	addSolve(t, solves, "u1", "w1", 100, time.Now())

	list, err := svc.List(ctx, "u1", ListChallengesRequest{Category: "Wireless"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 active wireless challenges, got %d", len(list))
	}
	for _, ch := range list {
		if ch.FlagHash != "" {
			t.Errorf("flag hash leaked for %s", ch.ID)
		}
		switch ch.ID {
		case "w1":
			if !ch.IsSolved || ch.SolvedCount != 1 {
				t.Errorf("w1 should be marked solved once, got solved=%v count=%d", ch.IsSolved, ch.SolvedCount)
			}
		case "w2":
			if ch.IsSolved || ch.SolvedCount != 0 {
				t.Errorf("w2 should be unsolved, got solved=%v count=%d", ch.IsSolved, ch.SolvedCount)
			}
		}
	}
}

func TestDetailHidesInactive(t *testing.T) {
	ctx := context.Background()
	svc, challenges, _ := challengeFixture(t)
	challenges.Create(ctx, newChallenge("h1", "H1", "RF", model.DifficultyEasy, 100, "f", false))

	if _, err := svc.Detail(ctx, "u1", "h1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive challenge, got %v", err)
	}
	if _, err := svc.Detail(ctx, "u1", "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown challenge, got %v", err)
	}
}

func TestUpdateChallengeRotatesFlag(t *testing.T) {
	ctx := context.Background()
	svc, challenges, _ := challengeFixture(t)
	challenges.Create(ctx, newChallenge("c1", "C1", "RF", model.DifficultyEasy, 100, "FLAG{old}", true))

	newFlag := "FLAG{new}"
	if _, err := svc.Update(ctx, "c1", UpdateChallengeRequest{Flag: &newFlag}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := challenges.FindByID(ctx, "c1")
	if security.VerifyFlag("FLAG{old}", stored.FlagHash) {
		t.Error("old flag still verifies after rotation")
	}
	if !security.VerifyFlag("FLAG{new}", stored.FlagHash) {
		t.Error("new flag does not verify after rotation")
	}
}

func TestCategoriesAndDifficulties(t *testing.T) {
	ctx := context.Background()
	svc, challenges, _ := challengeFixture(t)
	challenges.Create(ctx, newChallenge("w1", "W1", "Wireless", model.DifficultyEasy, 100, "f1", true))
	challenges.Create(ctx, newChallenge("i1", "I1", "IoT", model.DifficultyMedium, 200, "f2", true))
	challenges.Create(ctx, newChallenge("w2", "W2", "Wireless", model.DifficultyHard, 300, "f3", true))

	categories, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", categories)
	}

	difficulties, err := svc.Difficulties(ctx)
	if err != nil {
		t.Fatalf("difficulties: %v", err)
	}
	if len(difficulties) != 3 {
		t.Fatalf("expected 3 difficulties, got %v", difficulties)
	}
}
