package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fantasyfrc/draft-system/models"
)

type MatchupRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matchups []*models.Matchup) error
	ListByRoom(ctx context.Context, roomID int, week *int) ([]*models.Matchup, error)
	ExistsForRoom(ctx context.Context, roomID int) (bool, error)
}

type postgresMatchupRepository struct {
	db *sql.DB
}

func NewPostgresMatchupRepository(db *sql.DB) MatchupRepository {
	return &postgresMatchupRepository{db: db}
}

func (r *postgresMatchupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchupRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matchups []*models.Matchup) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matchups (room_id, week, home_participant_id, away_participant_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	for _, m := range matchups {
		err := executor.QueryRowContext(ctx, query,
			m.RoomID, m.Week, m.HomeParticipantID, m.AwayParticipantID,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create matchup (room %d, week %d): %w", m.RoomID, m.Week, err)
		}
	}
	return nil
}

func (r *postgresMatchupRepository) ListByRoom(ctx context.Context, roomID int, week *int) ([]*models.Matchup, error) {
	query := `
		SELECT id, room_id, week, home_participant_id, away_participant_id, created_at
		FROM matchups
		WHERE room_id = $1`
	args := []interface{}{roomID}
	if week != nil {
		query += ` AND week = $2`
		args = append(args, *week)
	}
	query += ` ORDER BY week ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matchups for room %d: %w", roomID, err)
	}
	defer rows.Close()

	matchups := make([]*models.Matchup, 0)
	for rows.Next() {
		var m models.Matchup
		if scanErr := rows.Scan(&m.ID, &m.RoomID, &m.Week, &m.HomeParticipantID, &m.AwayParticipantID, &m.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan matchup row: %w", scanErr)
		}
		matchups = append(matchups, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matchup rows: %w", err)
	}
	return matchups, nil
}

func (r *postgresMatchupRepository) ExistsForRoom(ctx context.Context, roomID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matchups WHERE room_id = $1)`, roomID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check matchups for room %d: %w", roomID, err)
	}
	return exists, nil
}
