package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
	"github.com/fantasyfrc/draft-system/schedule"
)

type ScheduleService interface {
	// GenerateSeasonSchedule builds the round-robin matchups for a
	// completed draft. Calling it again for a room that already has a
	// schedule is a no-op, so retries after a failed post-pick trigger
	// never duplicate weeks.
	GenerateSeasonSchedule(ctx context.Context, roomID int) error
	ListMatchups(ctx context.Context, roomID int, week *int) ([]*models.Matchup, error)
}

type scheduleService struct {
	tx              repositories.TxRunner
	roomRepo        repositories.DraftRoomRepository
	participantRepo repositories.ParticipantRepository
	matchupRepo     repositories.MatchupRepository
	seasonWeeks     int
	logger          *slog.Logger
}

func NewScheduleService(
	tx repositories.TxRunner,
	roomRepo repositories.DraftRoomRepository,
	participantRepo repositories.ParticipantRepository,
	matchupRepo repositories.MatchupRepository,
	seasonWeeks int,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		tx:              tx,
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		matchupRepo:     matchupRepo,
		seasonWeeks:     seasonWeeks,
		logger:          logger,
	}
}

func (s *scheduleService) GenerateSeasonSchedule(ctx context.Context, roomID int) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if room.Status != models.RoomStatusCompleted {
		return ErrDraftNotActive
	}

	exists, err := s.matchupRepo.ExistsForRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("season schedule already exists, skipping", "room_id", roomID)
		return nil
	}

	participants, err := s.participantRepo.ListByRoom(ctx, nil, roomID, false)
	if err != nil {
		return err
	}

	matchups, err := schedule.GenerateSeason(participants, s.seasonWeeks)
	if err != nil {
		return err
	}
	for _, m := range matchups {
		m.RoomID = roomID
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchupRepo.CreateBatch(ctx, exec, matchups)
	})
	if err != nil {
		return err
	}

	s.logger.Info("season schedule generated", "room_id", roomID, "weeks", s.seasonWeeks, "matchups", len(matchups))
	return nil
}

func (s *scheduleService) ListMatchups(ctx context.Context, roomID int, week *int) ([]*models.Matchup, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repositories.ErrDraftRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.matchupRepo.ListByRoom(ctx, roomID, week)
}
