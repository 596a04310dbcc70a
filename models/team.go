package models

import "time"

// Team is one draftable FRC team from the catalog. Key follows the
// statistics API convention ("frc254"), Number is the display number.
type Team struct {
	Key       string    `json:"key"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	City      *string   `json:"city,omitempty"`
	Country   *string   `json:"country,omitempty"`
	SyncedAt  time.Time `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
