package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fantasyfrc/draft-system/models"
)

var ErrRosterEntryNotFound = errors.New("roster entry not found")

type RosterRepository interface {
	// Insert adds a drafted team to a user's roster. The insert has
	// set semantics: re-adding an existing (room, user, team) triple is a
	// no-op, which makes the post-commit roster registration safe to retry.
	Insert(ctx context.Context, entry *models.RosterEntry) error
	ListByUserAndRoom(ctx context.Context, userID, roomID int) ([]*models.RosterEntry, error)
	CountStarting(ctx context.Context, userID, roomID int) (int, error)
	SetStarting(ctx context.Context, userID, roomID int, teamKey string, starting bool) error
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) Insert(ctx context.Context, e *models.RosterEntry) error {
	query := `
		INSERT INTO roster_entries (room_id, user_id, team_key, starting)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, user_id, team_key) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, e.RoomID, e.UserID, e.TeamKey, e.Starting); err != nil {
		return fmt.Errorf("failed to insert roster entry: %w", err)
	}
	return nil
}

func (r *postgresRosterRepository) ListByUserAndRoom(ctx context.Context, userID, roomID int) ([]*models.RosterEntry, error) {
	query := `
		SELECT
			re.id, re.room_id, re.user_id, re.team_key, re.starting, re.created_at,
			t.key, t.number, t.name, t.city, t.country, t.synced_at, t.created_at
		FROM roster_entries re
		JOIN teams t ON re.team_key = t.key
		WHERE re.user_id = $1 AND re.room_id = $2
		ORDER BY re.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for user %d in room %d: %w", userID, roomID, err)
	}
	defer rows.Close()

	entries := make([]*models.RosterEntry, 0)
	for rows.Next() {
		var e models.RosterEntry
		var t models.Team
		if scanErr := rows.Scan(
			&e.ID, &e.RoomID, &e.UserID, &e.TeamKey, &e.Starting, &e.CreatedAt,
			&t.Key, &t.Number, &t.Name, &t.City, &t.Country, &t.SyncedAt, &t.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", scanErr)
		}
		e.Team = &t
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster rows: %w", err)
	}
	return entries, nil
}

func (r *postgresRosterRepository) CountStarting(ctx context.Context, userID, roomID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM roster_entries WHERE user_id = $1 AND room_id = $2 AND starting`,
		userID, roomID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count starting teams: %w", err)
	}
	return count, nil
}

func (r *postgresRosterRepository) SetStarting(ctx context.Context, userID, roomID int, teamKey string, starting bool) error {
	query := `
		UPDATE roster_entries SET starting = $1
		WHERE user_id = $2 AND room_id = $3 AND team_key = $4`
	result, err := r.db.ExecContext(ctx, query, starting, userID, roomID, teamKey)
	if err != nil {
		return fmt.Errorf("failed to update roster entry: %w", err)
	}
	return checkAffectedRows(result, ErrRosterEntryNotFound)
}
