package draftorder

import (
	"errors"
	"fmt"
)

var ErrNoParticipants = errors.New("draftorder: at least one participant required")

// Turn identifies whose turn the upcoming pick is. Index is 0-based into
// the participant list ordered by draft position; Round and PickNumber are
// 1-based.
type Turn struct {
	Index      int `json:"index"`
	Round      int `json:"round"`
	PickNumber int `json:"pick_number"`
}

// Resolve computes the turn for the pick that follows pickCount committed
// picks. It is the single source of truth for turn order: both the pick
// commit path and the state read path go through it, so snake math can
// never diverge between the two.
//
// Linear order walks positions ascending every round. Snake order reverses
// on even rounds: 1..n, n..1, 1..n, ...
func Resolve(numParticipants, pickCount int, snakeFormat bool) (Turn, error) {
	if numParticipants < 1 {
		return Turn{}, ErrNoParticipants
	}
	if pickCount < 0 {
		return Turn{}, fmt.Errorf("draftorder: negative pick count %d", pickCount)
	}

	n := numParticipants
	pickNumber := pickCount + 1
	round := (pickNumber-1)/n + 1
	index := (pickNumber - 1) % n

	if snakeFormat && round%2 == 0 {
		index = (n - 1) - index
	}

	return Turn{Index: index, Round: round, PickNumber: pickNumber}, nil
}

// TotalPicks is the ledger size at which a draft is complete.
func TotalPicks(numParticipants, rounds int) int {
	return numParticipants * rounds
}
