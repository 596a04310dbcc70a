package schedule

import (
	"fmt"
	"testing"

	"github.com/fantasyfrc/draft-system/models"
)

func testParticipants(n int) []*models.Participant {
	ps := make([]*models.Participant, 0, n)
	for i := 1; i <= n; i++ {
		ps = append(ps, &models.Participant{ID: 100 + i, DraftPosition: i})
	}
	return ps
}

func TestGenerateSeasonEveryoneEveryWeek(t *testing.T) {
	// With an even participant count, every participant plays exactly once
	// per week.
	matchups, err := GenerateSeason(testParticipants(4), 6)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	byWeek := map[int]map[int]bool{}
	for _, m := range matchups {
		if m.HomeParticipantID == m.AwayParticipantID {
			t.Fatalf("week %d: participant %d scheduled against itself", m.Week, m.HomeParticipantID)
		}
		if byWeek[m.Week] == nil {
			byWeek[m.Week] = map[int]bool{}
		}
		for _, id := range []int{m.HomeParticipantID, m.AwayParticipantID} {
			if byWeek[m.Week][id] {
				t.Fatalf("week %d: participant %d scheduled twice", m.Week, id)
			}
			byWeek[m.Week][id] = true
		}
	}

	for week := 1; week <= 6; week++ {
		if len(byWeek[week]) != 4 {
			t.Errorf("week %d: %d participants scheduled, want 4", week, len(byWeek[week]))
		}
	}
}

func TestGenerateSeasonFullRotationCoversAllPairs(t *testing.T) {
	// One full rotation of n participants is n-1 weeks and must contain
	// every unordered pair exactly once.
	const n = 6
	matchups, err := GenerateSeason(testParticipants(n), n-1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	seen := map[string]bool{}
	for _, m := range matchups {
		a, b := m.HomeParticipantID, m.AwayParticipantID
		if a > b {
			a, b = b, a
		}
		key := fmt.Sprintf("%d-%d", a, b)
		if seen[key] {
			t.Fatalf("pair %s scheduled twice within one rotation", key)
		}
		seen[key] = true
	}
	if want := n * (n - 1) / 2; len(seen) != want {
		t.Errorf("got %d distinct pairs, want %d", len(seen), want)
	}
}

func TestGenerateSeasonOddCountGetsByes(t *testing.T) {
	matchups, err := GenerateSeason(testParticipants(5), 5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// 5 participants: two matchups per week, one participant sits out.
	perWeek := map[int]int{}
	for _, m := range matchups {
		perWeek[m.Week]++
	}
	for week := 1; week <= 5; week++ {
		if perWeek[week] != 2 {
			t.Errorf("week %d: %d matchups, want 2", week, perWeek[week])
		}
	}
}

func TestGenerateSeasonRejectsBadInput(t *testing.T) {
	if _, err := GenerateSeason(testParticipants(1), 4); err == nil {
		t.Error("expected error for a single participant")
	}
	if _, err := GenerateSeason(testParticipants(4), 0); err == nil {
		t.Error("expected error for zero weeks")
	}
}
