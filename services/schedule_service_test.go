package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasyfrc/draft-system/models"
)

type scheduleFixture struct {
	service      ScheduleService
	rooms        *fakeRoomRepo
	participants *fakeParticipantRepo
	matchups     *fakeMatchupRepo
}

func newScheduleFixture(seasonWeeks int) *scheduleFixture {
	f := &scheduleFixture{
		rooms:        newFakeRoomRepo(),
		participants: newFakeParticipantRepo(),
		matchups:     newFakeMatchupRepo(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewScheduleService(&fakeTxRunner{}, f.rooms, f.participants, f.matchups, seasonWeeks, logger)
	return f
}

func (f *scheduleFixture) seedCompletedRoom(t *testing.T, participantCount int) *models.DraftRoom {
	t.Helper()
	ctx := context.Background()

	room := &models.DraftRoom{
		Name: "Finished League", OwnerID: 1, Capacity: 8, TurnTimeSec: 60,
		Rounds: 2, TeamsToStart: 2, Privacy: models.PrivacyPublic,
		Status: models.RoomStatusPending, NextDraftPosition: participantCount + 1,
	}
	require.NoError(t, f.rooms.Create(ctx, nil, room))
	for i := 1; i <= participantCount; i++ {
		p := &models.Participant{UserID: i, RoomID: room.ID, DraftPosition: i}
		require.NoError(t, f.participants.Create(ctx, nil, p))
	}
	require.NoError(t, f.rooms.MarkCompleted(ctx, nil, room.ID, time.Now()))
	return room
}

func TestGenerateSeasonSchedule(t *testing.T) {
	f := newScheduleFixture(3)
	room := f.seedCompletedRoom(t, 4)

	require.NoError(t, f.service.GenerateSeasonSchedule(context.Background(), room.ID))

	matchups, err := f.service.ListMatchups(context.Background(), room.ID, nil)
	require.NoError(t, err)
	// 4 participants over 3 weeks: 2 matchups per week.
	require.Len(t, matchups, 6)

	week := 1
	firstWeek, err := f.service.ListMatchups(context.Background(), room.ID, &week)
	require.NoError(t, err)
	assert.Len(t, firstWeek, 2)
}

func TestGenerateSeasonScheduleIsIdempotent(t *testing.T) {
	f := newScheduleFixture(3)
	room := f.seedCompletedRoom(t, 4)

	require.NoError(t, f.service.GenerateSeasonSchedule(context.Background(), room.ID))
	require.NoError(t, f.service.GenerateSeasonSchedule(context.Background(), room.ID))

	matchups, err := f.service.ListMatchups(context.Background(), room.ID, nil)
	require.NoError(t, err)
	assert.Len(t, matchups, 6)
}

func TestGenerateSeasonScheduleRequiresCompletedDraft(t *testing.T) {
	f := newScheduleFixture(3)
	ctx := context.Background()

	room := &models.DraftRoom{
		Name: "Open League", OwnerID: 1, Capacity: 4, TurnTimeSec: 60,
		Rounds: 1, TeamsToStart: 1, Privacy: models.PrivacyPublic,
		Status: models.RoomStatusPending, NextDraftPosition: 1,
	}
	require.NoError(t, f.rooms.Create(ctx, nil, room))

	err := f.service.GenerateSeasonSchedule(ctx, room.ID)
	assert.ErrorIs(t, err, ErrDraftNotActive)

	err = f.service.GenerateSeasonSchedule(ctx, 99)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
