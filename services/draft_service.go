package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fantasyfrc/draft-system/draftorder"
	"github.com/fantasyfrc/draft-system/live"
	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
	"github.com/fantasyfrc/draft-system/storage"
)

const (
	minCapacity = 2
	maxCapacity = 32
	minTurnTime = 30
	maxTurnTime = 300
	minRounds   = 1
	maxRounds   = 20
	minStarters = 1
	maxStarters = 15

	// availableTeamsLimit caps the team pool embedded in a state response.
	availableTeamsLimit = 500
)

type CreateDraftRoomInput struct {
	Name         string
	Description  *string
	Capacity     int
	TurnTimeSec  int
	SnakeFormat  bool
	Rounds       int
	TeamsToStart int
	Privacy      models.RoomPrivacy
}

// CurrentTurn describes whose pick is next in an active draft.
type CurrentTurn struct {
	ParticipantID int `json:"participant_id"`
	UserID        int `json:"user_id"`
	DraftPosition int `json:"draft_position"`
	Round         int `json:"round"`
	PickNumber    int `json:"pick_number"`
}

// DraftState is the full reconstructed view of a room: enough for a client
// that missed every live event to render the draft board from scratch.
type DraftState struct {
	Room             *models.DraftRoom     `json:"room"`
	Participants     []*models.Participant `json:"participants"`
	Picks            []*models.Pick        `json:"picks"`
	AvailableTeams   []models.Team         `json:"available_teams"`
	CurrentTurn      *CurrentTurn          `json:"current_turn,omitempty"`
	TimeRemainingSec int                   `json:"time_remaining_sec"`
}

// PickResult is what MakePick returns and what PICK_MADE events carry.
type PickResult struct {
	Pick      *models.Pick `json:"pick"`
	Completed bool         `json:"completed"`
}

// RosterRegistrar records a drafted team on the picking user's roster.
type RosterRegistrar interface {
	AddToRoster(ctx context.Context, userID, roomID int, teamKey string) error
}

// ScheduleGenerator builds the post-draft season schedule for a room.
type ScheduleGenerator interface {
	GenerateSeasonSchedule(ctx context.Context, roomID int) error
}

// Broadcaster pushes room events to live watchers.
type Broadcaster interface {
	BroadcastToRoom(roomID int, eventType string, payload interface{})
}

type DraftService interface {
	CreateRoom(ctx context.Context, ownerID int, input CreateDraftRoomInput) (*models.DraftRoom, error)
	ListRooms(ctx context.Context, filter repositories.ListDraftRoomsFilter) ([]models.DraftRoom, error)
	GetRoom(ctx context.Context, roomID int) (*models.DraftRoom, error)
	JoinRoom(ctx context.Context, roomID, userID int, inviteToken string) (*models.Participant, error)
	SetReady(ctx context.Context, roomID, userID int, ready bool) (*models.Participant, error)
	StartDraft(ctx context.Context, roomID, requesterID int) (*models.DraftRoom, error)
	MakePick(ctx context.Context, roomID, requesterID int, teamKey string) (*PickResult, error)
	GetState(ctx context.Context, roomID int) (*DraftState, error)
	DeleteRoom(ctx context.Context, roomID, requesterID int) error
	UploadRoomLogo(ctx context.Context, roomID, requesterID int, file io.Reader, contentType string) (string, error)
}

type draftService struct {
	tx              repositories.TxRunner
	roomRepo        repositories.DraftRoomRepository
	participantRepo repositories.ParticipantRepository
	pickRepo        repositories.PickRepository
	teamRepo        repositories.TeamRepository
	inviteRepo      repositories.InviteRepository
	roster          RosterRegistrar
	schedule        ScheduleGenerator
	hub             Broadcaster
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewDraftService(
	tx repositories.TxRunner,
	roomRepo repositories.DraftRoomRepository,
	participantRepo repositories.ParticipantRepository,
	pickRepo repositories.PickRepository,
	teamRepo repositories.TeamRepository,
	inviteRepo repositories.InviteRepository,
	roster RosterRegistrar,
	schedule ScheduleGenerator,
	hub Broadcaster,
	uploader storage.FileUploader,
	logger *slog.Logger,
) DraftService {
	return &draftService{
		tx:              tx,
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		pickRepo:        pickRepo,
		teamRepo:        teamRepo,
		inviteRepo:      inviteRepo,
		roster:          roster,
		schedule:        schedule,
		hub:             hub,
		uploader:        uploader,
		logger:          logger,
	}
}

func validateCreateInput(input CreateDraftRoomInput) error {
	if input.Name == "" {
		return ErrRoomNameRequired
	}
	if input.Capacity < minCapacity || input.Capacity > maxCapacity || input.Capacity%2 != 0 {
		return ErrRoomInvalidCapacity
	}
	if input.TurnTimeSec < minTurnTime || input.TurnTimeSec > maxTurnTime {
		return ErrRoomInvalidTurnTime
	}
	if input.Rounds < minRounds || input.Rounds > maxRounds {
		return ErrRoomInvalidRounds
	}
	if input.TeamsToStart < minStarters || input.TeamsToStart > maxStarters {
		return ErrRoomInvalidTeamsToStart
	}
	if input.Privacy != models.PrivacyPublic && input.Privacy != models.PrivacyPrivate {
		return ErrRoomInvalidPrivacy
	}
	return nil
}

// CreateRoom creates a pending room and enrolls the owner as the first
// participant in the same transaction, so a room can never exist without
// its owner on the board.
func (s *draftService) CreateRoom(ctx context.Context, ownerID int, input CreateDraftRoomInput) (*models.DraftRoom, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	room := &models.DraftRoom{
		Name:         input.Name,
		Description:  input.Description,
		OwnerID:      ownerID,
		Capacity:     input.Capacity,
		TurnTimeSec:  input.TurnTimeSec,
		SnakeFormat:  input.SnakeFormat,
		Rounds:       input.Rounds,
		TeamsToStart: input.TeamsToStart,
		Privacy:      input.Privacy,
		Status:       models.RoomStatusPending,
		// Owner takes position 1 below, so the counter starts at 2.
		NextDraftPosition: 2,
	}

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.roomRepo.Create(ctx, exec, room); err != nil {
			if errors.Is(err, repositories.ErrDraftRoomInvalidOwner) {
				return ErrUserNotFound
			}
			return err
		}

		owner := &models.Participant{
			UserID:        ownerID,
			RoomID:        room.ID,
			DraftPosition: 1,
		}
		if err := s.participantRepo.Create(ctx, exec, owner); err != nil {
			return fmt.Errorf("failed to enroll owner in room %d: %w", room.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft room created", "room_id", room.ID, "owner_id", ownerID, "capacity", room.Capacity)
	return room, nil
}

func (s *draftService) ListRooms(ctx context.Context, filter repositories.ListDraftRoomsFilter) ([]models.DraftRoom, error) {
	rooms, err := s.roomRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		s.enrichLogoURL(&rooms[i])
	}
	return rooms, nil
}

func (s *draftService) GetRoom(ctx context.Context, roomID int) (*models.DraftRoom, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	s.enrichLogoURL(room)
	return room, nil
}

// JoinRoom adds a user to a pending room. The whole check-and-claim
// sequence runs under the room's row lock: capacity check, position claim
// and participant insert either all commit or all roll back.
func (s *draftService) JoinRoom(ctx context.Context, roomID, userID int, inviteToken string) (*models.Participant, error) {
	participant := &models.Participant{UserID: userID, RoomID: roomID}

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, exec, roomID)
		if err != nil {
			if errors.Is(err, repositories.ErrDraftRoomNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		if room.Status != models.RoomStatusPending {
			return ErrDraftNotPending
		}

		if room.Privacy == models.PrivacyPrivate && userID != room.OwnerID {
			if err := s.checkInvite(ctx, roomID, inviteToken); err != nil {
				return err
			}
		}

		if _, err := s.participantRepo.FindByUserAndRoom(ctx, exec, userID, roomID); err == nil {
			return ErrAlreadyJoined
		} else if !errors.Is(err, repositories.ErrParticipantNotFound) {
			return err
		}

		count, err := s.participantRepo.CountByRoom(ctx, exec, roomID)
		if err != nil {
			return err
		}
		if count >= room.Capacity {
			return ErrRoomFull
		}

		position, err := s.roomRepo.ClaimNextDraftPosition(ctx, exec, roomID)
		if err != nil {
			return err
		}

		// The counter is authoritative, but a stale counter after manual
		// data surgery would corrupt the order. Refuse rather than reuse.
		taken, err := s.participantRepo.PositionTaken(ctx, exec, roomID, position)
		if err != nil {
			return err
		}
		if taken {
			return ErrPositionConflict
		}

		participant.DraftPosition = position
		if err := s.participantRepo.Create(ctx, exec, participant); err != nil {
			switch {
			case errors.Is(err, repositories.ErrParticipantConflict):
				return ErrAlreadyJoined
			case errors.Is(err, repositories.ErrParticipantPositionConflict):
				return ErrPositionConflict
			case errors.Is(err, repositories.ErrParticipantUserInvalid):
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("participant joined", "room_id", roomID, "user_id", userID, "draft_position", participant.DraftPosition)
	s.hub.BroadcastToRoom(roomID, live.EventParticipantJoined, participant)
	return participant, nil
}

func (s *draftService) checkInvite(ctx context.Context, roomID int, token string) error {
	if token == "" {
		return ErrPrivateRoom
	}
	inv, err := s.inviteRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrPrivateRoom
		}
		return err
	}
	if inv.RoomID != roomID {
		return ErrPrivateRoom
	}
	if time.Now().After(inv.ExpiresAt) {
		return ErrInviteExpired
	}
	return nil
}

// SetReady toggles a participant's ready flag while the room is still
// pending. The flag is advisory: starting the draft does not require
// everyone to be ready.
func (s *draftService) SetReady(ctx context.Context, roomID, userID int, ready bool) (*models.Participant, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Status != models.RoomStatusPending {
		return nil, ErrDraftNotPending
	}

	participant, err := s.participantRepo.FindByUserAndRoom(ctx, nil, userID, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}

	if err := s.participantRepo.SetReady(ctx, participant.ID, ready); err != nil {
		return nil, err
	}
	participant.Ready = ready

	s.hub.BroadcastToRoom(roomID, live.EventParticipantReady, participant)
	return participant, nil
}

// StartDraft transitions a pending room to active. Only the owner may
// start, and at least two participants must be on the board.
func (s *draftService) StartDraft(ctx context.Context, roomID, requesterID int) (*models.DraftRoom, error) {
	var room *models.DraftRoom

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		room, err = s.roomRepo.GetByIDForUpdate(ctx, exec, roomID)
		if err != nil {
			if errors.Is(err, repositories.ErrDraftRoomNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		if room.OwnerID != requesterID {
			return ErrNotRoomOwner
		}
		if room.Status != models.RoomStatusPending {
			return ErrDraftNotPending
		}

		count, err := s.participantRepo.CountByRoom(ctx, exec, roomID)
		if err != nil {
			return err
		}
		if count < 2 {
			return ErrInsufficientParticipants
		}

		now := time.Now()
		if err := s.roomRepo.MarkStarted(ctx, exec, roomID, now); err != nil {
			return err
		}
		room.Status = models.RoomStatusActive
		room.StartedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft started", "room_id", roomID)
	s.hub.BroadcastToRoom(roomID, live.EventDraftStarted, room)
	return room, nil
}

// MakePick commits one pick. The precondition chain runs in order under
// the room lock: room active, requester is a participant, it is their
// turn, the team is undrafted, the team exists in the catalog. The last
// pick of the last round also flips the room to completed in the same
// transaction.
func (s *draftService) MakePick(ctx context.Context, roomID, requesterID int, teamKey string) (*PickResult, error) {
	result := &PickResult{}

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, exec, roomID)
		if err != nil {
			if errors.Is(err, repositories.ErrDraftRoomNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		if room.Status != models.RoomStatusActive {
			return ErrDraftNotActive
		}

		participant, err := s.participantRepo.FindByUserAndRoom(ctx, exec, requesterID, roomID)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return ErrNotParticipant
			}
			return err
		}

		participants, err := s.participantRepo.ListByRoom(ctx, exec, roomID, false)
		if err != nil {
			return err
		}
		pickCount, err := s.pickRepo.CountByRoom(ctx, exec, roomID)
		if err != nil {
			return err
		}

		turn, err := draftorder.Resolve(len(participants), pickCount, room.SnakeFormat)
		if err != nil {
			return err
		}
		if participants[turn.Index].ID != participant.ID {
			return ErrNotYourTurn
		}

		drafted, err := s.pickRepo.TeamDrafted(ctx, exec, roomID, teamKey)
		if err != nil {
			return err
		}
		if drafted {
			return ErrTeamAlreadyDrafted
		}

		exists, err := s.teamRepo.Exists(ctx, teamKey)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTeamNotFound
		}

		pick := &models.Pick{
			RoomID:        roomID,
			ParticipantID: participant.ID,
			TeamKey:       teamKey,
			OverallPick:   turn.PickNumber,
			Round:         turn.Round,
		}
		if err := s.pickRepo.Create(ctx, exec, pick); err != nil {
			switch {
			case errors.Is(err, repositories.ErrPickTeamConflict):
				return ErrTeamAlreadyDrafted
			case errors.Is(err, repositories.ErrPickOverallConflict):
				return ErrPickSlotConflict
			case errors.Is(err, repositories.ErrPickTeamInvalid):
				return ErrTeamNotFound
			}
			return err
		}
		pick.Participant = participant
		result.Pick = pick

		if turn.PickNumber == draftorder.TotalPicks(len(participants), room.Rounds) {
			if err := s.roomRepo.MarkCompleted(ctx, exec, roomID, time.Now()); err != nil {
				return err
			}
			result.Completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pick committed",
		"room_id", roomID, "user_id", requesterID, "team_key", teamKey,
		"overall_pick", result.Pick.OverallPick, "round", result.Pick.Round)

	// Downstream effects run after commit: the pick already stands, so
	// failures here are logged and never unwind the ledger.
	if err := s.roster.AddToRoster(ctx, requesterID, roomID, teamKey); err != nil {
		s.logger.Error("roster registration failed", "room_id", roomID, "user_id", requesterID, "team_key", teamKey, "error", err)
	}

	s.hub.BroadcastToRoom(roomID, live.EventPickMade, result)

	if result.Completed {
		s.logger.Info("draft completed", "room_id", roomID)
		s.hub.BroadcastToRoom(roomID, live.EventDraftCompleted, map[string]int{"room_id": roomID})
		if err := s.schedule.GenerateSeasonSchedule(ctx, roomID); err != nil {
			s.logger.Error("season schedule generation failed", "room_id", roomID, "error", err)
		}
	}
	return result, nil
}

// GetState rebuilds the complete room view from persistent state. Reads
// run outside any transaction and never mutate anything, so the endpoint
// is safe to poll.
func (s *draftService) GetState(ctx context.Context, roomID int) (*DraftState, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.ListByRoom(ctx, nil, roomID, true)
	if err != nil {
		return nil, err
	}
	picks, err := s.pickRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	available, err := s.availableTeams(ctx, roomID)
	if err != nil {
		return nil, err
	}

	state := &DraftState{
		Room:           room,
		Participants:   participants,
		Picks:          picks,
		AvailableTeams: available,
	}

	if room.Status == models.RoomStatusActive && len(participants) > 0 {
		turn, err := draftorder.Resolve(len(participants), len(picks), room.SnakeFormat)
		if err != nil {
			return nil, err
		}
		onClock := participants[turn.Index]
		state.CurrentTurn = &CurrentTurn{
			ParticipantID: onClock.ID,
			UserID:        onClock.UserID,
			DraftPosition: onClock.DraftPosition,
			Round:         turn.Round,
			PickNumber:    turn.PickNumber,
		}

		remaining, err := s.timeRemaining(ctx, room)
		if err != nil {
			return nil, err
		}
		state.TimeRemainingSec = remaining
	}

	return state, nil
}

func (s *draftService) availableTeams(ctx context.Context, roomID int) ([]models.Team, error) {
	drafted, err := s.pickRepo.DraftedTeamKeys(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// Fetch enough rows that the cap still holds after filtering out
	// drafted teams.
	teams, err := s.teamRepo.List(ctx, repositories.ListTeamsFilter{Limit: availableTeamsLimit + len(drafted)})
	if err != nil {
		return nil, err
	}

	available := make([]models.Team, 0, availableTeamsLimit)
	for _, t := range teams {
		if drafted[t.Key] {
			continue
		}
		available = append(available, t)
		if len(available) == availableTeamsLimit {
			break
		}
	}
	return available, nil
}

// timeRemaining is advisory only; the server never auto-skips a turn when
// the clock hits zero.
func (s *draftService) timeRemaining(ctx context.Context, room *models.DraftRoom) (int, error) {
	last, err := s.pickRepo.LastPickTime(ctx, room.ID)
	if err != nil {
		return 0, err
	}

	turnStart := room.StartedAt
	if last != nil {
		turnStart = last
	}
	if turnStart == nil {
		return room.TurnTimeSec, nil
	}

	remaining := room.TurnTimeSec - int(time.Since(*turnStart).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// DeleteRoom removes a room and everything hanging off it. Allowed in any
// lifecycle state, owner only.
func (s *draftService) DeleteRoom(ctx context.Context, roomID, requesterID int) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if room.OwnerID != requesterID {
		return ErrNotRoomOwner
	}

	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		if errors.Is(err, repositories.ErrDraftRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	// Outstanding invite tokens must not outlive the room.
	if err := s.inviteRepo.DeleteByRoom(ctx, roomID); err != nil {
		s.logger.Error("failed to delete invites for room", "room_id", roomID, "error", err)
	}

	if room.LogoKey != nil && s.uploader != nil {
		if err := s.uploader.DeleteFile(ctx, *room.LogoKey); err != nil {
			s.logger.Error("failed to delete room logo", "room_id", roomID, "logo_key", *room.LogoKey, "error", err)
		}
	}

	s.logger.Info("draft room deleted", "room_id", roomID, "owner_id", requesterID)
	return nil
}

func (s *draftService) UploadRoomLogo(ctx context.Context, roomID, requesterID int, file io.Reader, contentType string) (string, error) {
	if s.uploader == nil {
		return "", errors.New("file storage is not configured")
	}

	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return "", err
	}
	if room.OwnerID != requesterID {
		return "", ErrNotRoomOwner
	}

	key := fmt.Sprintf("rooms/%d/logo-%s", roomID, uuid.NewString())
	if err := s.uploader.UploadFile(ctx, file, key, contentType); err != nil {
		return "", fmt.Errorf("failed to upload room logo: %w", err)
	}

	if err := s.roomRepo.UpdateLogoKey(ctx, roomID, &key); err != nil {
		return "", err
	}

	if room.LogoKey != nil {
		if delErr := s.uploader.DeleteFile(ctx, *room.LogoKey); delErr != nil {
			s.logger.Error("failed to delete previous room logo", "room_id", roomID, "logo_key", *room.LogoKey, "error", delErr)
		}
	}

	return s.uploader.GetPublicURL(key), nil
}

func (s *draftService) enrichLogoURL(room *models.DraftRoom) {
	if room.LogoKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*room.LogoKey)
		room.LogoURL = &url
	}
}
