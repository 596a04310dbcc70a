package schedule

import (
	"fmt"
	"sort"

	"github.com/fantasyfrc/draft-system/models"
)

// GenerateSeason builds weekly head-to-head matchups for a completed draft
// using the circle method: fix the first participant, rotate the rest each
// week. With an odd participant count a bye slot is inserted and pairings
// against it are skipped. If totalWeeks exceeds one full rotation the
// rotation repeats.
func GenerateSeason(participants []*models.Participant, totalWeeks int) ([]*models.Matchup, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("schedule: not enough participants (found %d, min 2 required)", len(participants))
	}
	if totalWeeks < 1 {
		return nil, fmt.Errorf("schedule: total weeks must be positive, got %d", totalWeeks)
	}

	// Rotation order follows draft position for determinism.
	ordered := make([]*models.Participant, len(participants))
	copy(ordered, participants)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].DraftPosition < ordered[j].DraftPosition
	})

	ids := make([]int, 0, len(ordered)+1)
	for _, p := range ordered {
		ids = append(ids, p.ID)
	}
	const bye = 0
	if len(ids)%2 != 0 {
		ids = append(ids, bye)
	}

	n := len(ids)
	rotationLen := n - 1

	matchups := make([]*models.Matchup, 0, totalWeeks*n/2)
	for week := 1; week <= totalWeeks; week++ {
		rotation := (week - 1) % rotationLen
		for i := 0; i < n/2; i++ {
			home := ids[pairSlot(i, rotation, n)]
			away := ids[pairSlot(n-1-i, rotation, n)]
			if home == bye || away == bye {
				continue
			}
			// Alternate home/away across rotations so rematches swap sides.
			if week%2 == 0 {
				home, away = away, home
			}
			matchups = append(matchups, &models.Matchup{
				Week:              week,
				HomeParticipantID: home,
				AwayParticipantID: away,
			})
		}
	}

	return matchups, nil
}

// pairSlot maps a fixed pairing slot to the index in the rotated circle.
// Slot 0 is pinned; all others shift by the rotation amount.
func pairSlot(slot, rotation, n int) int {
	if slot == 0 {
		return 0
	}
	idx := slot + rotation
	if idx >= n {
		idx = idx - (n - 1)
	}
	return idx
}
