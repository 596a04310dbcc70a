package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasyfrc/draft-system/models"
)

func newRosterFixture(t *testing.T, teamsToStart int) (RosterService, *fakeRosterRepo, *models.DraftRoom) {
	t.Helper()
	rooms := newFakeRoomRepo()
	rosterRepo := newFakeRosterRepo()

	room := &models.DraftRoom{
		Name: "League", OwnerID: 1, Capacity: 4, TurnTimeSec: 60,
		Rounds: 3, TeamsToStart: teamsToStart, Privacy: models.PrivacyPublic,
		Status: models.RoomStatusPending, NextDraftPosition: 1,
	}
	require.NoError(t, rooms.Create(context.Background(), nil, room))
	require.NoError(t, rooms.MarkCompleted(context.Background(), nil, room.ID, time.Now()))

	return NewRosterService(rosterRepo, rooms), rosterRepo, room
}

func TestAddToRosterIsIdempotent(t *testing.T) {
	service, _, room := newRosterFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, service.AddToRoster(ctx, 1, room.ID, "frc254"))
	require.NoError(t, service.AddToRoster(ctx, 1, room.ID, "frc254"))

	roster, err := service.GetRoster(ctx, 1, room.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestSetStartingHonorsLineupLimit(t *testing.T) {
	service, _, room := newRosterFixture(t, 2)
	ctx := context.Background()

	for _, key := range []string{"frc254", "frc1114", "frc118"} {
		require.NoError(t, service.AddToRoster(ctx, 1, room.ID, key))
	}

	require.NoError(t, service.SetStarting(ctx, 1, room.ID, "frc254", true))
	require.NoError(t, service.SetStarting(ctx, 1, room.ID, "frc1114", true))

	err := service.SetStarting(ctx, 1, room.ID, "frc118", true)
	assert.ErrorIs(t, err, ErrStartingLineupFull)

	// Demoting frees a slot.
	require.NoError(t, service.SetStarting(ctx, 1, room.ID, "frc254", false))
	require.NoError(t, service.SetStarting(ctx, 1, room.ID, "frc118", true))
}

func TestSetStartingUnknownEntry(t *testing.T) {
	service, _, room := newRosterFixture(t, 2)
	err := service.SetStarting(context.Background(), 1, room.ID, "frc999", true)
	assert.ErrorIs(t, err, ErrRosterEntryNotFound)
}
