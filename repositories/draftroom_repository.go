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
	ErrDraftRoomNotFound     = errors.New("draft room not found")
	ErrDraftRoomInvalidOwner = errors.New("invalid draft room owner reference")
)

type ListDraftRoomsFilter struct {
	Status  *models.DraftRoomStatus
	Privacy *models.RoomPrivacy
	OwnerID *int
	Limit   int
	Offset  int
}

type DraftRoomRepository interface {
	Create(ctx context.Context, exec SQLExecutor, room *models.DraftRoom) error
	GetByID(ctx context.Context, id int) (*models.DraftRoom, error)
	// GetByIDForUpdate locks the room row for the duration of the caller's
	// transaction. Every per-room critical section (join, pick commit)
	// serializes on this lock.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.DraftRoom, error)
	List(ctx context.Context, filter ListDraftRoomsFilter) ([]models.DraftRoom, error)
	// ClaimNextDraftPosition atomically increments the room's position
	// counter and returns the claimed value.
	ClaimNextDraftPosition(ctx context.Context, exec SQLExecutor, id int) (int, error)
	MarkStarted(ctx context.Context, exec SQLExecutor, id int, startedAt time.Time) error
	MarkCompleted(ctx context.Context, exec SQLExecutor, id int, endedAt time.Time) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresDraftRoomRepository struct {
	db *sql.DB
}

func NewPostgresDraftRoomRepository(db *sql.DB) DraftRoomRepository {
	return &postgresDraftRoomRepository{db: db}
}

func (r *postgresDraftRoomRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const draftRoomColumns = `
	id, name, description, owner_id, capacity, turn_time_sec, snake_format,
	rounds, teams_to_start, privacy, status, started_at, ended_at,
	next_draft_position, logo_key, created_at, updated_at`

func (r *postgresDraftRoomRepository) scanRoom(row *sql.Row) (*models.DraftRoom, error) {
	room := &models.DraftRoom{}
	err := row.Scan(
		&room.ID, &room.Name, &room.Description, &room.OwnerID, &room.Capacity,
		&room.TurnTimeSec, &room.SnakeFormat, &room.Rounds, &room.TeamsToStart,
		&room.Privacy, &room.Status, &room.StartedAt, &room.EndedAt,
		&room.NextDraftPosition, &room.LogoKey, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftRoomNotFound
		}
		return nil, fmt.Errorf("failed to scan draft room: %w", err)
	}
	return room, nil
}

func (r *postgresDraftRoomRepository) Create(ctx context.Context, exec SQLExecutor, room *models.DraftRoom) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO draft_rooms (
			name, description, owner_id, capacity, turn_time_sec, snake_format,
			rounds, teams_to_start, privacy, status, next_draft_position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		room.Name, room.Description, room.OwnerID, room.Capacity, room.TurnTimeSec,
		room.SnakeFormat, room.Rounds, room.TeamsToStart, room.Privacy, room.Status,
		room.NextDraftPosition,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "draft_rooms_owner_id_fkey" {
				return ErrDraftRoomInvalidOwner
			}
		}
		return fmt.Errorf("failed to create draft room: %w", err)
	}
	return nil
}

func (r *postgresDraftRoomRepository) GetByID(ctx context.Context, id int) (*models.DraftRoom, error) {
	query := `SELECT` + draftRoomColumns + ` FROM draft_rooms WHERE id = $1`
	return r.scanRoom(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresDraftRoomRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.DraftRoom, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + draftRoomColumns + ` FROM draft_rooms WHERE id = $1 FOR UPDATE`
	return r.scanRoom(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresDraftRoomRepository) List(ctx context.Context, filter ListDraftRoomsFilter) ([]models.DraftRoom, error) {
	query := `SELECT` + draftRoomColumns + ` FROM draft_rooms WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Privacy != nil {
		query += fmt.Sprintf(" AND privacy = $%d", argID)
		args = append(args, *filter.Privacy)
		argID++
	}
	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argID)
		args = append(args, *filter.OwnerID)
		argID++
	}

	query += " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("failed to list draft rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]models.DraftRoom, 0)
	for rows.Next() {
		var room models.DraftRoom
		if scanErr := rows.Scan(
			&room.ID, &room.Name, &room.Description, &room.OwnerID, &room.Capacity,
			&room.TurnTimeSec, &room.SnakeFormat, &room.Rounds, &room.TeamsToStart,
			&room.Privacy, &room.Status, &room.StartedAt, &room.EndedAt,
			&room.NextDraftPosition, &room.LogoKey, &room.CreatedAt, &room.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan draft room row: %w", scanErr)
		}
		rooms = append(rooms, room)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft room rows: %w", err)
	}
	return rooms, nil
}

// ClaimNextDraftPosition bumps the counter and the room's updated
// timestamp in one statement, so concurrent joiners can never observe the
// same position even if their participant-count reads race.
func (r *postgresDraftRoomRepository) ClaimNextDraftPosition(ctx context.Context, exec SQLExecutor, id int) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		UPDATE draft_rooms
		SET next_draft_position = next_draft_position + 1, updated_at = now()
		WHERE id = $1
		RETURNING next_draft_position - 1`

	var position int
	err := executor.QueryRowContext(ctx, query, id).Scan(&position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrDraftRoomNotFound
		}
		return 0, fmt.Errorf("failed to claim draft position for room %d: %w", id, err)
	}
	return position, nil
}

func (r *postgresDraftRoomRepository) MarkStarted(ctx context.Context, exec SQLExecutor, id int, startedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE draft_rooms
		SET status = $1, started_at = $2, updated_at = now()
		WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, models.RoomStatusActive, startedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark draft room %d started: %w", id, err)
	}
	return checkAffectedRows(result, ErrDraftRoomNotFound)
}

func (r *postgresDraftRoomRepository) MarkCompleted(ctx context.Context, exec SQLExecutor, id int, endedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE draft_rooms
		SET status = $1, ended_at = $2, updated_at = now()
		WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, models.RoomStatusCompleted, endedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark draft room %d completed: %w", id, err)
	}
	return checkAffectedRows(result, ErrDraftRoomNotFound)
}

func (r *postgresDraftRoomRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE draft_rooms SET logo_key = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update draft room logo key: %w", err)
	}
	return checkAffectedRows(result, ErrDraftRoomNotFound)
}

// Delete removes the room; participants, picks, roster entries and
// matchups go with it via ON DELETE CASCADE.
func (r *postgresDraftRoomRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM draft_rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft room: %w", err)
	}
	return checkAffectedRows(result, ErrDraftRoomNotFound)
}
