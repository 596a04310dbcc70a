package models

import "time"

// Participant is a user enrolled in a draft room. DraftPosition is
// assigned once at join time and never reused within the room.
type Participant struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	RoomID        int       `json:"room_id"`
	DraftPosition int       `json:"draft_position"`
	Ready         bool      `json:"ready"`
	CreatedAt     time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}
