package models

import "time"

// RosterEntry binds a drafted team to a user's fantasy roster for one
// room. Entries are created in a non-starting state after a pick commits.
type RosterEntry struct {
	ID        int       `json:"id"`
	RoomID    int       `json:"room_id"`
	UserID    int       `json:"user_id"`
	TeamKey   string    `json:"team_key"`
	Starting  bool      `json:"starting"`
	CreatedAt time.Time `json:"created_at"`

	Team *Team `json:"team,omitempty"`
}
