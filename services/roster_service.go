package services

import (
	"context"
	"errors"

	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
)

type RosterService interface {
	// AddToRoster records a drafted team on a user's roster. Inserts are
	// idempotent, so the post-pick registration can be retried safely.
	AddToRoster(ctx context.Context, userID, roomID int, teamKey string) error
	GetRoster(ctx context.Context, userID, roomID int) ([]*models.RosterEntry, error)
	SetStarting(ctx context.Context, userID, roomID int, teamKey string, starting bool) error
}

type rosterService struct {
	rosterRepo repositories.RosterRepository
	roomRepo   repositories.DraftRoomRepository
}

func NewRosterService(rosterRepo repositories.RosterRepository, roomRepo repositories.DraftRoomRepository) RosterService {
	return &rosterService{rosterRepo: rosterRepo, roomRepo: roomRepo}
}

func (s *rosterService) AddToRoster(ctx context.Context, userID, roomID int, teamKey string) error {
	entry := &models.RosterEntry{
		RoomID:  roomID,
		UserID:  userID,
		TeamKey: teamKey,
	}
	return s.rosterRepo.Insert(ctx, entry)
}

func (s *rosterService) GetRoster(ctx context.Context, userID, roomID int) ([]*models.RosterEntry, error) {
	return s.rosterRepo.ListByUserAndRoom(ctx, userID, roomID)
}

// SetStarting toggles a roster slot. Promotions are capped by the room's
// teams-to-start setting; demotions are always allowed.
func (s *rosterService) SetStarting(ctx context.Context, userID, roomID int, teamKey string, starting bool) error {
	if starting {
		room, err := s.roomRepo.GetByID(ctx, roomID)
		if err != nil {
			if errors.Is(err, repositories.ErrDraftRoomNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		count, err := s.rosterRepo.CountStarting(ctx, userID, roomID)
		if err != nil {
			return err
		}
		if count >= room.TeamsToStart {
			return ErrStartingLineupFull
		}
	}

	if err := s.rosterRepo.SetStarting(ctx, userID, roomID, teamKey, starting); err != nil {
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			return ErrRosterEntryNotFound
		}
		return err
	}
	return nil
}
