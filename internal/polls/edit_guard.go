package polls

// ProtectedTexts returns the option texts the creator may not rewrite:
// the two highest-voted options when the poll has two or more, the single
// option when it is the only one and has votes, nothing otherwise.
// Participants who committed votes to an option should not find its text
// quietly swapped out from under them.
func ProtectedTexts(tallies []OptionTally) []string {
	if len(tallies) == 0 {
		return nil
	}

	sorted := sortByVotesDesc(tallies)
	if len(sorted) == 1 {
		if sorted[0].Votes > 0 {
			return []string{sorted[0].Text}
		}
		return nil
	}
	return []string{sorted[0].Text, sorted[1].Text}
}

// EditConflicts compares proposed texts against the current ordered options
// and reports which protected texts the edit would rewrite. Texts correspond
// by position; a proposed text equal to the current one is never a conflict.
// Surplus proposed texts beyond the existing options are ignored.
func EditConflicts(current []OptionTally, proposed []string) []string {
	protected := make(map[string]bool, 2)
	for _, text := range ProtectedTexts(current) {
		protected[text] = true
	}

	var conflicts []string
	for i, opt := range current {
		if i >= len(proposed) {
			break
		}
		if proposed[i] != opt.Text && protected[opt.Text] {
			conflicts = append(conflicts, opt.Text)
		}
	}
	return conflicts
}
