package models

import "time"

// DraftRoomStatus represents room lifecycle statuses, matching the ENUM in the DB.
// Transitions only go forward: pending -> active -> completed.
type DraftRoomStatus string

const (
	RoomStatusPending   DraftRoomStatus = "pending"
	RoomStatusActive    DraftRoomStatus = "active"
	RoomStatusCompleted DraftRoomStatus = "completed"
)

type RoomPrivacy string

const (
	PrivacyPublic  RoomPrivacy = "public"
	PrivacyPrivate RoomPrivacy = "private"
)

// DraftRoom is a single draft event with fixed capacity and format.
// NextDraftPosition is a per-room monotonic counter claimed at join time;
// it only ever moves forward, even if the counter drifts ahead of the
// actual participant rows.
type DraftRoom struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	OwnerID           int             `json:"owner_id"`
	Capacity          int             `json:"capacity"`
	TurnTimeSec       int             `json:"turn_time_sec"`
	SnakeFormat       bool            `json:"snake_format"`
	Rounds            int             `json:"rounds"`
	TeamsToStart      int             `json:"teams_to_start"`
	Privacy           RoomPrivacy     `json:"privacy"`
	Status            DraftRoomStatus `json:"status"`
	StartedAt         *time.Time      `json:"started_at,omitempty"`
	EndedAt           *time.Time      `json:"ended_at,omitempty"`
	NextDraftPosition int             `json:"-"`
	LogoKey           *string         `json:"-"`
	LogoURL           *string         `json:"logo_url,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Owner        *User         `json:"owner,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}
