package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"airwavectf/internal/common"
	"airwavectf/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// SolveRepository is the scoring ledger: an append-only record of successful
// solves. The storage layer enforces at most one solve per (user, challenge)
// via a unique constraint; Create surfaces a violation as common.ErrSolveExists
// so a racing writer can convert it into the already-solved outcome. No update
// or delete is exposed.
type SolveRepository interface {
	Create(ctx context.Context, solve *model.Solve) error
	FindByUserAndChallenge(ctx context.Context, userID, challengeID string) (*model.Solve, error)
	ListByUser(ctx context.Context, userID string) ([]model.Solve, error)
	ListByChallenge(ctx context.Context, challengeID string) ([]model.Solve, error)
	ListAll(ctx context.Context) ([]model.Solve, error)
}

type pgSolveRepository struct {
	db *sql.DB
}

func NewPgSolveRepository(db *sql.DB) SolveRepository {
	return &pgSolveRepository{db: db}
}

func (r *pgSolveRepository) Create(ctx context.Context, solve *model.Solve) error {
	query := `INSERT INTO solves (id, user_id, challenge_id, points_awarded, solved_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, solve.ID, solve.UserID, solve.ChallengeID, solve.PointsAwarded, solve.SolvedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return common.ErrSolveExists
		}
		return fmt.Errorf("pgSolveRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSolveRepository) FindByUserAndChallenge(ctx context.Context, userID, challengeID string) (*model.Solve, error) {
	query := `SELECT id, user_id, challenge_id, points_awarded, solved_at
	          FROM solves WHERE user_id = $1 AND challenge_id = $2`
	solve := &model.Solve{}
	err := r.db.QueryRowContext(ctx, query, userID, challengeID).Scan(
		&solve.ID, &solve.UserID, &solve.ChallengeID, &solve.PointsAwarded, &solve.SolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSolveRepository.FindByUserAndChallenge: %w", err)
	}
	return solve, nil
}

func (r *pgSolveRepository) ListByUser(ctx context.Context, userID string) ([]model.Solve, error) {
	query := `SELECT id, user_id, challenge_id, points_awarded, solved_at
	          FROM solves WHERE user_id = $1 ORDER BY solved_at ASC`
	return r.list(ctx, query, userID)
}

func (r *pgSolveRepository) ListByChallenge(ctx context.Context, challengeID string) ([]model.Solve, error) {
	query := `SELECT id, user_id, challenge_id, points_awarded, solved_at
	          FROM solves WHERE challenge_id = $1 ORDER BY solved_at ASC`
	return r.list(ctx, query, challengeID)
}

func (r *pgSolveRepository) ListAll(ctx context.Context) ([]model.Solve, error) {
	query := `SELECT id, user_id, challenge_id, points_awarded, solved_at
	          FROM solves ORDER BY solved_at ASC`
	return r.list(ctx, query)
}

func (r *pgSolveRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Solve, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgSolveRepository.list query: %w", err)
	}
	defer rows.Close()

	solves := []model.Solve{}
	for rows.Next() {
		var s model.Solve
		if err := rows.Scan(&s.ID, &s.UserID, &s.ChallengeID, &s.PointsAwarded, &s.SolvedAt); err != nil {
			return nil, fmt.Errorf("pgSolveRepository.list scan: %w", err)
		}
		solves = append(solves, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolveRepository.list rows.Err: %w", err)
	}
	return solves, nil
}
