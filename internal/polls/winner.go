package polls

import (
	"math"
	"sort"
	"time"
)

// OptionTally is one option's vote standing. VoteTimes must be the
// creation timestamps of the option's votes in ascending order.
type OptionTally struct {
	OptionID  string
	Text      string
	Votes     int
	VoteTimes []time.Time
}

// WinnerResult is the resolver's verdict for a poll
type WinnerResult struct {
	HasWinner      bool
	WinnerOptionID string
	WinnerText     string
	Threshold      int
	Quorum         int
}

// ResolveWinner decides whether a poll has settled on an option, from the
// current tallies, the number of distinct voters on the poll and the number
// of going participants on the plan.
//
// An option needs at least max(40% of going participants, 70% of distinct
// voters, min(3, going)) votes to qualify, and the poll needs min(3, going)
// distinct voters before any winner is declared. Among qualified options the
// highest count wins; a tie at count M goes to the option whose M-th vote
// landed first.
func ResolveWinner(tallies []OptionTally, distinctVoters, goingCount int) WinnerResult {
	threshold := int(math.Ceil(0.4 * float64(goingCount)))
	if byVoters := int(math.Ceil(0.7 * float64(distinctVoters))); byVoters > threshold {
		threshold = byVoters
	}
	quorum := goingCount
	if quorum > 3 {
		quorum = 3
	}
	if quorum > threshold {
		threshold = quorum
	}

	result := WinnerResult{Threshold: threshold, Quorum: quorum}

	if distinctVoters < quorum {
		return result
	}

	var candidates []OptionTally
	maxVotes := 0
	for _, t := range tallies {
		if t.Votes > 0 && t.Votes >= threshold {
			candidates = append(candidates, t)
			if t.Votes > maxVotes {
				maxVotes = t.Votes
			}
		}
	}

	switch len(candidates) {
	case 0:
		return result
	case 1:
		result.HasWinner = true
		result.WinnerOptionID = candidates[0].OptionID
		result.WinnerText = candidates[0].Text
		return result
	}

	var leaders []OptionTally
	for _, c := range candidates {
		if c.Votes == maxVotes {
			leaders = append(leaders, c)
		}
	}

	if len(leaders) == 1 {
		result.HasWinner = true
		result.WinnerOptionID = leaders[0].OptionID
		result.WinnerText = leaders[0].Text
		return result
	}

	// Tie at maxVotes: the option that first reached the tying count wins.
	// An option without enough recorded timestamps is dropped from the
	// tie-break rather than guessed at.
	winnerIdx := -1
	var winnerReached time.Time
	for i, l := range leaders {
		if len(l.VoteTimes) < maxVotes {
			continue
		}
		reached := l.VoteTimes[maxVotes-1]
		if winnerIdx == -1 || reached.Before(winnerReached) {
			winnerIdx = i
			winnerReached = reached
		}
	}

	if winnerIdx >= 0 {
		result.HasWinner = true
		result.WinnerOptionID = leaders[winnerIdx].OptionID
		result.WinnerText = leaders[winnerIdx].Text
	}
	return result
}

// sortByVotesDesc returns a copy of tallies ordered by vote count descending.
// The sort is stable so equal counts keep their incoming (position) order.
func sortByVotesDesc(tallies []OptionTally) []OptionTally {
	sorted := make([]OptionTally, len(tallies))
	copy(sorted, tallies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})
	return sorted
}
