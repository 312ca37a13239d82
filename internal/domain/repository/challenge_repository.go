package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"airwavectf/internal/common"
	"airwavectf/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// ChallengeFilter narrows challenge listings. Zero values mean "no filter".
type ChallengeFilter struct {
	Category   string
	Difficulty model.ChallengeDifficulty
	ActiveOnly bool
}

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge) error
	Update(ctx context.Context, challenge *model.Challenge) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Challenge, error)
	List(ctx context.Context, filter ChallengeFilter) ([]model.Challenge, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListDifficulties(ctx context.Context) ([]string, error)
}

type pgChallengeRepository struct {
	db *sql.DB
}

func NewPgChallengeRepository(db *sql.DB) ChallengeRepository {
	return &pgChallengeRepository{db: db}
}

const challengeColumns = `id, title, slug, description, category, difficulty, points, flag_hash, is_active, has_attachment, created_at, updated_at`

func (r *pgChallengeRepository) Create(ctx context.Context, c *model.Challenge) error {
	query := `INSERT INTO challenges (id, title, slug, description, category, difficulty, points, flag_hash, is_active, has_attachment)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Slug, c.Description, c.Category, c.Difficulty, c.Points, c.FlagHash, c.IsActive, c.HasAttachment)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("challenge with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgChallengeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgChallengeRepository) Update(ctx context.Context, c *model.Challenge) error {
	query := `UPDATE challenges SET
	            title = $1, slug = $2, description = $3, category = $4, difficulty = $5,
	            points = $6, flag_hash = $7, is_active = $8, has_attachment = $9,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $10`
	res, err := r.db.ExecContext(ctx, query, c.Title, c.Slug, c.Description, c.Category, c.Difficulty, c.Points, c.FlagHash, c.IsActive, c.HasAttachment, c.ID)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Update: %w", err)
	}
	return requireRowAffected(res, "pgChallengeRepository.Update")
}

func (r *pgChallengeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Delete: %w", err)
	}
	return requireRowAffected(res, "pgChallengeRepository.Delete")
}

func (r *pgChallengeRepository) FindByID(ctx context.Context, id string) (*model.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges WHERE id = $1`, challengeColumns)
	c := &model.Challenge{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.Category, &c.Difficulty, &c.Points,
		&c.FlagHash, &c.IsActive, &c.HasAttachment, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgChallengeRepository) List(ctx context.Context, filter ChallengeFilter) ([]model.Challenge, error) {
	var query strings.Builder
	query.WriteString(fmt.Sprintf(`SELECT %s FROM challenges`, challengeColumns))

	var conditions []string
	var args []interface{}
	argID := 1

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", argID))
		args = append(args, filter.Difficulty)
		argID++
	}

	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY created_at ASC")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.List query: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.Category, &c.Difficulty, &c.Points,
			&c.FlagHash, &c.IsActive, &c.HasAttachment, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.List scan: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.List rows.Err: %w", err)
	}
	return challenges, nil
}

func (r *pgChallengeRepository) ListCategories(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, `SELECT DISTINCT category FROM challenges ORDER BY category ASC`)
}

func (r *pgChallengeRepository) ListDifficulties(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, `SELECT DISTINCT difficulty FROM challenges ORDER BY difficulty ASC`)
}

func (r *pgChallengeRepository) listDistinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.listDistinct query: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.listDistinct scan: %w", err)
		}
		values = append(values, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.listDistinct rows.Err: %w", err)
	}
	return values, nil
}
