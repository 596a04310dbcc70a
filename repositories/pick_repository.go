package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fantasyfrc/draft-system/models"
	"github.com/lib/pq"
)

var (
	ErrPickTeamConflict    = errors.New("pick conflict: team already drafted in this room")
	ErrPickOverallConflict = errors.New("pick conflict: overall pick number already taken")
	ErrPickTeamInvalid     = errors.New("pick team reference invalid")
)

type PickRepository interface {
	Create(ctx context.Context, exec SQLExecutor, pick *models.Pick) error
	CountByRoom(ctx context.Context, exec SQLExecutor, roomID int) (int, error)
	TeamDrafted(ctx context.Context, exec SQLExecutor, roomID int, teamKey string) (bool, error)
	// ListByRoom returns picks in commit order, enriched with the drafted
	// team and the picking participant.
	ListByRoom(ctx context.Context, roomID int) ([]*models.Pick, error)
	// DraftedTeamKeys returns the set of team keys already taken in a room.
	DraftedTeamKeys(ctx context.Context, roomID int) (map[string]bool, error)
	LastPickTime(ctx context.Context, roomID int) (*time.Time, error)
}

type postgresPickRepository struct {
	db *sql.DB
}

func NewPostgresPickRepository(db *sql.DB) PickRepository {
	return &postgresPickRepository{db: db}
}

func (r *postgresPickRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPickRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Pick) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO picks (room_id, participant_id, team_key, overall_pick, round)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.RoomID, p.ParticipantID, p.TeamKey, p.OverallPick, p.Round,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				switch pqErr.Constraint {
				case "picks_room_id_team_key_key":
					return ErrPickTeamConflict
				case "picks_room_id_overall_pick_key":
					return ErrPickOverallConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "picks_team_key_fkey" {
					return ErrPickTeamInvalid
				}
			}
		}
		return fmt.Errorf("failed to create pick: %w", err)
	}
	return nil
}

func (r *postgresPickRepository) CountByRoom(ctx context.Context, exec SQLExecutor, roomID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM picks WHERE room_id = $1`, roomID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count picks for room %d: %w", roomID, err)
	}
	return count, nil
}

func (r *postgresPickRepository) TeamDrafted(ctx context.Context, exec SQLExecutor, roomID int, teamKey string) (bool, error) {
	executor := r.getExecutor(exec)
	var drafted bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM picks WHERE room_id = $1 AND team_key = $2)`,
		roomID, teamKey,
	).Scan(&drafted)
	if err != nil {
		return false, fmt.Errorf("failed to check drafted team for room %d: %w", roomID, err)
	}
	return drafted, nil
}

func (r *postgresPickRepository) ListByRoom(ctx context.Context, roomID int) ([]*models.Pick, error) {
	query := `
		SELECT
			pk.id, pk.room_id, pk.participant_id, pk.team_key, pk.overall_pick, pk.round, pk.created_at,
			t.key, t.number, t.name, t.city, t.country, t.synced_at, t.created_at,
			p.id, p.user_id, p.room_id, p.draft_position, p.ready, p.created_at
		FROM picks pk
		JOIN teams t ON pk.team_key = t.key
		JOIN participants p ON pk.participant_id = p.id
		WHERE pk.room_id = $1
		ORDER BY pk.overall_pick ASC`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks for room %d: %w", roomID, err)
	}
	defer rows.Close()

	picks := make([]*models.Pick, 0)
	for rows.Next() {
		var pk models.Pick
		var t models.Team
		var p models.Participant
		if scanErr := rows.Scan(
			&pk.ID, &pk.RoomID, &pk.ParticipantID, &pk.TeamKey, &pk.OverallPick, &pk.Round, &pk.CreatedAt,
			&t.Key, &t.Number, &t.Name, &t.City, &t.Country, &t.SyncedAt, &t.CreatedAt,
			&p.ID, &p.UserID, &p.RoomID, &p.DraftPosition, &p.Ready, &p.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pick row: %w", scanErr)
		}
		pk.Team = &t
		pk.Participant = &p
		picks = append(picks, &pk)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pick rows: %w", err)
	}
	return picks, nil
}

func (r *postgresPickRepository) DraftedTeamKeys(ctx context.Context, roomID int) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT team_key FROM picks WHERE room_id = $1`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load drafted team keys for room %d: %w", roomID, err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if scanErr := rows.Scan(&key); scanErr != nil {
			return nil, fmt.Errorf("failed to scan drafted team key: %w", scanErr)
		}
		keys[key] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drafted team keys: %w", err)
	}
	return keys, nil
}

// LastPickTime returns nil when no picks exist yet; the caller falls back
// to the room's start time for the turn clock.
func (r *postgresPickRepository) LastPickTime(ctx context.Context, roomID int) (*time.Time, error) {
	var last time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM picks WHERE room_id = $1 ORDER BY overall_pick DESC LIMIT 1`,
		roomID,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last pick time for room %d: %w", roomID, err)
	}
	return &last, nil
}
