package draftorder

import (
	"errors"
	"testing"
)

func TestResolveLinearOrder(t *testing.T) {
	// n=4, linear: indices repeat 0,1,2,3 every round
	want := []int{0, 1, 2, 3, 0, 1, 2, 3}
	for pickCount, wantIndex := range want {
		turn, err := Resolve(4, pickCount, false)
		if err != nil {
			t.Fatalf("Resolve(4, %d, false): unexpected err: %v", pickCount, err)
		}
		if turn.Index != wantIndex {
			t.Errorf("pickCount=%d: got index %d, want %d", pickCount, turn.Index, wantIndex)
		}
	}
}

func TestResolveSnakeOrder(t *testing.T) {
	// n=4, snake: 0,1,2,3 then reversed 3,2,1,0
	want := []int{0, 1, 2, 3, 3, 2, 1, 0}
	for pickCount, wantIndex := range want {
		turn, err := Resolve(4, pickCount, true)
		if err != nil {
			t.Fatalf("Resolve(4, %d, true): unexpected err: %v", pickCount, err)
		}
		if turn.Index != wantIndex {
			t.Errorf("pickCount=%d: got index %d, want %d", pickCount, turn.Index, wantIndex)
		}
	}
}

func TestResolveRoundAndPickNumber(t *testing.T) {
	cases := []struct {
		name      string
		n         int
		pickCount int
		snake     bool
		wantRound int
		wantPick  int
		wantIndex int
	}{
		{name: "first pick", n: 4, pickCount: 0, snake: true, wantRound: 1, wantPick: 1, wantIndex: 0},
		{name: "last pick of round one", n: 4, pickCount: 3, snake: true, wantRound: 1, wantPick: 4, wantIndex: 3},
		{name: "snake turnaround repeats drafter", n: 4, pickCount: 4, snake: true, wantRound: 2, wantPick: 5, wantIndex: 3},
		{name: "third round goes forward again", n: 4, pickCount: 8, snake: true, wantRound: 3, wantPick: 9, wantIndex: 0},
		{name: "two participants snake", n: 2, pickCount: 2, snake: true, wantRound: 2, wantPick: 3, wantIndex: 1},
		{name: "single participant", n: 1, pickCount: 6, snake: true, wantRound: 7, wantPick: 7, wantIndex: 0},
		{name: "linear ignores round parity", n: 3, pickCount: 4, snake: false, wantRound: 2, wantPick: 5, wantIndex: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			turn, err := Resolve(tc.n, tc.pickCount, tc.snake)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if turn.Round != tc.wantRound || turn.PickNumber != tc.wantPick || turn.Index != tc.wantIndex {
				t.Errorf("got %+v, want round=%d pick=%d index=%d", turn, tc.wantRound, tc.wantPick, tc.wantIndex)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for pickCount := 0; pickCount < 40; pickCount++ {
		a, err := Resolve(6, pickCount, true)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		b, _ := Resolve(6, pickCount, true)
		if a != b {
			t.Fatalf("pickCount=%d: two calls disagree: %+v vs %+v", pickCount, a, b)
		}
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	if _, err := Resolve(0, 0, true); !errors.Is(err, ErrNoParticipants) {
		t.Errorf("n=0: got %v, want ErrNoParticipants", err)
	}
	if _, err := Resolve(4, -1, false); err == nil {
		t.Error("negative pickCount: expected error")
	}
}

func TestTotalPicks(t *testing.T) {
	if got := TotalPicks(4, 2); got != 8 {
		t.Errorf("TotalPicks(4, 2) = %d, want 8", got)
	}
	if got := TotalPicks(2, 1); got != 2 {
		t.Errorf("TotalPicks(2, 1) = %d, want 2", got)
	}
}
