package services

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses in
// the handlers package.
var (
	// Not found
	ErrRoomNotFound        = errors.New("draft room not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRosterEntryNotFound = errors.New("roster entry not found")

	// Validation
	ErrRoomNameRequired        = errors.New("room name is required")
	ErrRoomInvalidCapacity     = errors.New("capacity must be an even number between 2 and 32")
	ErrRoomInvalidTurnTime     = errors.New("turn time must be between 30 and 300 seconds")
	ErrRoomInvalidRounds       = errors.New("round count must be between 1 and 20")
	ErrRoomInvalidTeamsToStart = errors.New("teams to start must be between 1 and 15")
	ErrRoomInvalidPrivacy      = errors.New("privacy must be public or private")

	// Invalid lifecycle state
	ErrDraftNotPending = errors.New("draft room is no longer accepting changes")
	ErrDraftNotActive  = errors.New("draft is not active")

	// Forbidden
	ErrNotRoomOwner   = errors.New("only the room owner can perform this action")
	ErrNotParticipant = errors.New("user is not a participant in this draft")
	ErrNotYourTurn    = errors.New("not your turn to pick")
	ErrPrivateRoom    = errors.New("room is private: a valid invite is required")

	// Conflicts
	ErrAlreadyJoined      = errors.New("user already joined this room")
	ErrPositionConflict   = errors.New("draft position already assigned")
	ErrTeamAlreadyDrafted = errors.New("team already drafted in this room")
	ErrPickSlotConflict   = errors.New("pick number already committed in this room")

	// Draft start / join limits
	ErrInsufficientParticipants = errors.New("at least 2 participants are required to start the draft")
	ErrRoomFull                 = errors.New("draft room is full")

	// Invites
	ErrInviteExpired = errors.New("invite has expired")

	// Roster
	ErrStartingLineupFull = errors.New("starting lineup is full")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")
)
