package polls

import (
	"testing"
	"time"
)

func times(base time.Time, offsets ...int) []time.Time {
	ts := make([]time.Time, len(offsets))
	for i, off := range offsets {
		ts[i] = base.Add(time.Duration(off) * time.Second)
	}
	return ts
}

func TestResolveWinner(t *testing.T) {
	base := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		tallies        []OptionTally
		distinctVoters int
		goingCount     int
		wantWinner     bool
		wantOptionID   string
		wantThreshold  int
		wantQuorum     int
	}{
		{
			name: "tie broken by who reached the count first",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 5, VoteTimes: times(base, 1, 2, 3, 4, 5)},
				{OptionID: "b", Votes: 5, VoteTimes: times(base, 1, 2, 3, 4, 9)},
			},
			distinctVoters: 7,
			goingCount:     10,
			wantWinner:     true,
			wantOptionID:   "a",
			wantThreshold:  5,
			wantQuorum:     3,
		},
		{
			name: "no winner below quorum regardless of tallies",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 2, VoteTimes: times(base, 1, 2)},
			},
			distinctVoters: 2,
			goingCount:     10,
			wantWinner:     false,
			wantThreshold:  4,
			wantQuorum:     3,
		},
		{
			name: "single candidate over threshold wins",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 4, VoteTimes: times(base, 1, 2, 3, 4)},
				{OptionID: "b", Votes: 1, VoteTimes: times(base, 2)},
			},
			distinctVoters: 5,
			goingCount:     6,
			wantWinner:     true,
			wantOptionID:   "a",
			wantThreshold:  4,
			wantQuorum:     3,
		},
		{
			name: "nobody reaches the threshold",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 2, VoteTimes: times(base, 1, 2)},
				{OptionID: "b", Votes: 2, VoteTimes: times(base, 3, 4)},
			},
			distinctVoters: 4,
			goingCount:     10,
			wantWinner:     false,
			wantThreshold:  4,
			wantQuorum:     3,
		},
		{
			name: "unique maximum among several candidates wins without tie-break",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 5, VoteTimes: times(base, 1, 2, 3, 4, 5)},
				{OptionID: "b", Votes: 4, VoteTimes: times(base, 1, 2, 3, 4)},
			},
			distinctVoters: 5,
			goingCount:     5,
			wantWinner:     true,
			wantOptionID:   "a",
			wantThreshold:  4,
			wantQuorum:     3,
		},
		{
			name: "tied candidate with missing timestamps is excluded",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 4, VoteTimes: times(base, 1)},
				{OptionID: "b", Votes: 4, VoteTimes: times(base, 2, 3, 4, 9)},
			},
			distinctVoters: 5,
			goingCount:     5,
			wantWinner:     true,
			wantOptionID:   "b",
			wantThreshold:  4,
			wantQuorum:     3,
		},
		{
			name: "all tied candidates inconsistent means no winner",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 4, VoteTimes: times(base, 1)},
				{OptionID: "b", Votes: 4, VoteTimes: times(base, 2)},
			},
			distinctVoters: 5,
			goingCount:     5,
			wantWinner:     false,
			wantThreshold:  4,
			wantQuorum:     3,
		},
		{
			name: "small plan uses the going count as quorum",
			tallies: []OptionTally{
				{OptionID: "a", Votes: 2, VoteTimes: times(base, 1, 2)},
			},
			distinctVoters: 2,
			goingCount:     2,
			wantWinner:     true,
			wantOptionID:   "a",
			wantThreshold:  2,
			wantQuorum:     2,
		},
		{
			name:           "no votes at all",
			tallies:        []OptionTally{{OptionID: "a"}, {OptionID: "b"}},
			distinctVoters: 0,
			goingCount:     4,
			wantWinner:     false,
			wantThreshold:  3,
			wantQuorum:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWinner(tt.tallies, tt.distinctVoters, tt.goingCount)
			if got.Threshold != tt.wantThreshold {
				t.Errorf("Threshold = %d; want %d", got.Threshold, tt.wantThreshold)
			}
			if got.Quorum != tt.wantQuorum {
				t.Errorf("Quorum = %d; want %d", got.Quorum, tt.wantQuorum)
			}
			if got.HasWinner != tt.wantWinner {
				t.Fatalf("HasWinner = %v; want %v", got.HasWinner, tt.wantWinner)
			}
			if tt.wantWinner && got.WinnerOptionID != tt.wantOptionID {
				t.Errorf("WinnerOptionID = %q; want %q", got.WinnerOptionID, tt.wantOptionID)
			}
		})
	}
}

func TestResolveWinnerIsDeterministic(t *testing.T) {
	base := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	tallies := []OptionTally{
		{OptionID: "a", Votes: 5, VoteTimes: times(base, 1, 2, 3, 4, 5)},
		{OptionID: "b", Votes: 5, VoteTimes: times(base, 1, 2, 3, 4, 6)},
	}

	first := ResolveWinner(tallies, 7, 10)
	for i := 0; i < 50; i++ {
		again := ResolveWinner(tallies, 7, 10)
		if again != first {
			t.Fatalf("run %d returned %+v; first run returned %+v", i, again, first)
		}
	}
}
