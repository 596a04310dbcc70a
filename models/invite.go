package models

import "time"

// Invite grants access to a private draft room by token.
type Invite struct {
	ID        int       `json:"id"`
	RoomID    int       `json:"room_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
