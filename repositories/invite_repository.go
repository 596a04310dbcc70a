package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fantasyfrc/draft-system/models"
)

var ErrInviteNotFound = errors.New("invite not found")

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	FindByToken(ctx context.Context, token string) (*models.Invite, error)
	DeleteByRoom(ctx context.Context, roomID int) error
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) Create(ctx context.Context, inv *models.Invite) error {
	query := `
		INSERT INTO invites (room_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, inv.RoomID, inv.Token, inv.ExpiresAt).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *postgresInviteRepository) FindByToken(ctx context.Context, token string) (*models.Invite, error) {
	query := `
		SELECT id, room_id, token, expires_at, created_at
		FROM invites
		WHERE token = $1`

	inv := &models.Invite{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&inv.ID, &inv.RoomID, &inv.Token, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}
	return inv, nil
}

func (r *postgresInviteRepository) DeleteByRoom(ctx context.Context, roomID int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM invites WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("failed to delete invites for room %d: %w", roomID, err)
	}
	return nil
}
