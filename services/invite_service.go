package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
)

const inviteTTL = 72 * time.Hour

type InviteService interface {
	CreateInvite(ctx context.Context, roomID, requesterID int) (*models.Invite, error)
}

type inviteService struct {
	inviteRepo repositories.InviteRepository
	roomRepo   repositories.DraftRoomRepository
}

func NewInviteService(inviteRepo repositories.InviteRepository, roomRepo repositories.DraftRoomRepository) InviteService {
	return &inviteService{inviteRepo: inviteRepo, roomRepo: roomRepo}
}

// CreateInvite mints a join token for a room. Owner only; useful for any
// room but required for private ones.
func (s *inviteService) CreateInvite(ctx context.Context, roomID, requesterID int) (*models.Invite, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.OwnerID != requesterID {
		return nil, ErrNotRoomOwner
	}
	if room.Status != models.RoomStatusPending {
		return nil, ErrDraftNotPending
	}

	inv := &models.Invite{
		RoomID:    roomID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(inviteTTL),
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
