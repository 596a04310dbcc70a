package models

import "time"

// Matchup is one head-to-head pairing in the generated season schedule.
type Matchup struct {
	ID                int       `json:"id"`
	RoomID            int       `json:"room_id"`
	Week              int       `json:"week"`
	HomeParticipantID int       `json:"home_participant_id"`
	AwayParticipantID int       `json:"away_participant_id"`
	CreatedAt         time.Time `json:"created_at"`

	Home *Participant `json:"home,omitempty"`
	Away *Participant `json:"away,omitempty"`
}
