package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fantasyfrc/draft-system/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound         = errors.New("participant not found")
	ErrParticipantConflict         = errors.New("participant conflict: user already joined this room")
	ErrParticipantPositionConflict = errors.New("participant conflict: draft position already taken")
	ErrParticipantUserInvalid      = errors.New("participant user reference invalid")
	ErrParticipantRoomInvalid      = errors.New("participant room reference invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	FindByUserAndRoom(ctx context.Context, exec SQLExecutor, userID, roomID int) (*models.Participant, error)
	// ListByRoom returns participants ordered by draft position, the order
	// the turn engine indexes into.
	ListByRoom(ctx context.Context, exec SQLExecutor, roomID int, includeUser bool) ([]*models.Participant, error)
	CountByRoom(ctx context.Context, exec SQLExecutor, roomID int) (int, error)
	PositionTaken(ctx context.Context, exec SQLExecutor, roomID, position int) (bool, error)
	SetReady(ctx context.Context, id int, ready bool) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO participants (user_id, room_id, draft_position, ready)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.UserID, p.RoomID, p.DraftPosition, p.Ready,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				switch pqErr.Constraint {
				case "participants_room_id_user_id_key":
					return ErrParticipantConflict
				case "participants_room_id_draft_position_key":
					return ErrParticipantPositionConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "participants_room_id_fkey":
					return ErrParticipantRoomInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByUserAndRoom(ctx context.Context, exec SQLExecutor, userID, roomID int) (*models.Participant, error) {
	query := `
		SELECT id, user_id, room_id, draft_position, ready, created_at
		FROM participants
		WHERE user_id = $1 AND room_id = $2`
	return r.findOne(ctx, r.getExecutor(exec), query, userID, roomID)
}

func (r *postgresParticipantRepository) findOne(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) (*models.Participant, error) {
	p := &models.Participant{}
	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &p.RoomID, &p.DraftPosition, &p.Ready, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByRoom(ctx context.Context, exec SQLExecutor, roomID int, includeUser bool) ([]*models.Participant, error) {
	executor := r.getExecutor(exec)

	query := `
		SELECT p.id, p.user_id, p.room_id, p.draft_position, p.ready, p.created_at`
	if includeUser {
		query += `,
			u.id, u.first_name, u.last_name, u.nickname, u.email, u.role, u.created_at`
	}
	query += `
		FROM participants p`
	if includeUser {
		query += `
		JOIN users u ON p.user_id = u.id`
	}
	query += `
		WHERE p.room_id = $1
		ORDER BY p.draft_position ASC`

	rows, err := executor.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for room %d: %w", roomID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		scanDest := []interface{}{&p.ID, &p.UserID, &p.RoomID, &p.DraftPosition, &p.Ready, &p.CreatedAt}
		var u models.User
		if includeUser {
			scanDest = append(scanDest, &u.ID, &u.FirstName, &u.LastName, &u.Nickname, &u.Email, &u.Role, &u.CreatedAt)
		}
		if scanErr := rows.Scan(scanDest...); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		if includeUser {
			p.User = &u
		}
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) CountByRoom(ctx context.Context, exec SQLExecutor, roomID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE room_id = $1`, roomID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants for room %d: %w", roomID, err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) PositionTaken(ctx context.Context, exec SQLExecutor, roomID, position int) (bool, error) {
	executor := r.getExecutor(exec)
	var taken bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM participants WHERE room_id = $1 AND draft_position = $2)`,
		roomID, position,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check draft position for room %d: %w", roomID, err)
	}
	return taken, nil
}

func (r *postgresParticipantRepository) SetReady(ctx context.Context, id int, ready bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET ready = $1 WHERE id = $2`, ready, id)
	if err != nil {
		return fmt.Errorf("failed to update participant ready flag: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
