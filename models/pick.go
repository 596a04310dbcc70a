package models

import "time"

// Pick is an immutable ledger row: one participant claiming one team at
// one sequence point. OverallPick is 1-based and gap-free within a room.
type Pick struct {
	ID            int       `json:"id"`
	RoomID        int       `json:"room_id"`
	ParticipantID int       `json:"participant_id"`
	TeamKey       string    `json:"team_key"`
	OverallPick   int       `json:"overall_pick"`
	Round         int       `json:"round"`
	CreatedAt     time.Time `json:"created_at"`

	Team        *Team        `json:"team,omitempty"`
	Participant *Participant `json:"participant,omitempty"`
}
