package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fantasyfrc/draft-system/models"
)

var ErrTeamNotFound = errors.New("team not found")

type ListTeamsFilter struct {
	Search string
	Limit  int
	Offset int
}

type TeamRepository interface {
	Upsert(ctx context.Context, team *models.Team) error
	GetByKey(ctx context.Context, key string) (*models.Team, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, filter ListTeamsFilter) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

// Upsert inserts or refreshes one catalog row. The catalog is fed by the
// periodic sync from the external stats API, so existing rows are updated
// in place.
func (r *postgresTeamRepository) Upsert(ctx context.Context, t *models.Team) error {
	query := `
		INSERT INTO teams (key, number, name, city, country, synced_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (key) DO UPDATE SET
			number = EXCLUDED.number,
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			synced_at = now()
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Key, t.Number, t.Name, t.City, t.Country,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", t.Key, err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByKey(ctx context.Context, key string) (*models.Team, error) {
	query := `
		SELECT key, number, name, city, country, synced_at, created_at
		FROM teams
		WHERE key = $1`

	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&t.Key, &t.Number, &t.Name, &t.City, &t.Country, &t.SyncedAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team %s: %w", key, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team existence: %w", err)
	}
	return exists, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, filter ListTeamsFilter) ([]models.Team, error) {
	query := `
		SELECT key, number, name, city, country, synced_at, created_at
		FROM teams
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR key ILIKE $%d)", argID, argID)
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	query += " ORDER BY number ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.Key, &t.Number, &t.Name, &t.City, &t.Country, &t.SyncedAt, &t.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}
