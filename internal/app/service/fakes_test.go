package service

import (
	"context"
	"sort"
	"sync"

	"airwavectf/internal/common"
	"airwavectf/internal/domain/model"
	"airwavectf/internal/domain/repository"
)

// In-memory repository fakes for service tests. The solve fake enforces the
// same (user_id, challenge_id) uniqueness under lock that the unique index
// enforces in Postgres, so race behavior matches the real ledger.

type memSolveRepo struct {
	mu     sync.Mutex
	byKey  map[[2]string]*model.Solve
	solves []model.Solve
}

func newMemSolveRepo() *memSolveRepo {
	return &memSolveRepo{byKey: map[[2]string]*model.Solve{}}
}

func (r *memSolveRepo) Create(ctx context.Context, solve *model.Solve) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{solve.UserID, solve.ChallengeID}
	if _, exists := r.byKey[key]; exists {
		return common.ErrSolveExists
	}
	copied := *solve
	r.byKey[key] = &copied
	r.solves = append(r.solves, copied)
	return nil
}

func (r *memSolveRepo) FindByUserAndChallenge(ctx context.Context, userID, challengeID string) (*model.Solve, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byKey[[2]string{userID, challengeID}]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *memSolveRepo) ListByUser(ctx context.Context, userID string) ([]model.Solve, error) {
	return r.filtered(func(s model.Solve) bool { return s.UserID == userID }), nil
}

func (r *memSolveRepo) ListByChallenge(ctx context.Context, challengeID string) ([]model.Solve, error) {
	return r.filtered(func(s model.Solve) bool { return s.ChallengeID == challengeID }), nil
}

func (r *memSolveRepo) ListAll(ctx context.Context) ([]model.Solve, error) {
	return r.filtered(func(model.Solve) bool { return true }), nil
}

func (r *memSolveRepo) filtered(keep func(model.Solve) bool) []model.Solve {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Solve{}
	for _, s := range r.solves {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolvedAt.Before(out[j].SolvedAt) })
	return out
}

type memChallengeRepo struct {
	mu         sync.Mutex
	challenges map[string]*model.Challenge
}

func newMemChallengeRepo() *memChallengeRepo {
	return &memChallengeRepo{challenges: map[string]*model.Challenge{}}
}

func (r *memChallengeRepo) Create(ctx context.Context, c *model.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	r.challenges[c.ID] = &copied
	return nil
}

func (r *memChallengeRepo) Update(ctx context.Context, c *model.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.challenges[c.ID]; !ok {
		return common.ErrNotFound
	}
	copied := *c
	r.challenges[c.ID] = &copied
	return nil
}

func (r *memChallengeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.challenges[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.challenges, id)
	return nil
}

func (r *memChallengeRepo) FindByID(ctx context.Context, id string) (*model.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.challenges[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *memChallengeRepo) List(ctx context.Context, filter repository.ChallengeFilter) ([]model.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Challenge{}
	for _, c := range r.challenges {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && c.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memChallengeRepo) ListCategories(ctx context.Context) ([]string, error) {
	return r.distinct(func(c *model.Challenge) string { return c.Category }), nil
}

func (r *memChallengeRepo) ListDifficulties(ctx context.Context) ([]string, error) {
	return r.distinct(func(c *model.Challenge) string { return string(c.Difficulty) }), nil
}

func (r *memChallengeRepo) distinct(get func(*model.Challenge) string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, c := range r.challenges {
		if v := get(c); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.ErrConflict
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Email == email })
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Username == username })
}

func (r *memUserRepo) findBy(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) List(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) ListByTeam(ctx context.Context, teamID string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.User{}
	for _, u := range r.users {
		if u.TeamID != nil && *u.TeamID == teamID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) UpdateEmail(ctx context.Context, userID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return common.ErrNotFound
	}
	u.Email = email
	return nil
}

func (r *memUserRepo) UpdateRole(ctx context.Context, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return common.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *memUserRepo) SetTeam(ctx context.Context, userID string, teamID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return common.ErrNotFound
	}
	u.TeamID = teamID
	return nil
}

type memTeamRepo struct {
	mu    sync.Mutex
	teams map[string]*model.Team
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{teams: map[string]*model.Team{}}
}

func (r *memTeamRepo) Create(ctx context.Context, team *model.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.Name == team.Name {
			return common.ErrConflict
		}
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *memTeamRepo) FindByID(ctx context.Context, id string) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.teams[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *memTeamRepo) List(ctx context.Context) ([]model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Team{}
	for _, t := range r.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memLeaderboardCache records cache traffic so tests can assert invalidation
// happens on every appended solve.
type memLeaderboardCache struct {
	mu          sync.Mutex
	entries     map[int][]model.LeaderboardEntry
	invalidated int
	hits        int
}

func newMemLeaderboardCache() *memLeaderboardCache {
	return &memLeaderboardCache{entries: map[int][]model.LeaderboardEntry{}}
}

func (c *memLeaderboardCache) Get(ctx context.Context, limit int) ([]model.LeaderboardEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, ok := c.entries[limit]
	if ok {
		c.hits++
	}
	return entries, ok
}

func (c *memLeaderboardCache) Set(ctx context.Context, limit int, entries []model.LeaderboardEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[limit] = entries
}

func (c *memLeaderboardCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[int][]model.LeaderboardEntry{}
	c.invalidated++
}
