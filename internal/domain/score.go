package domain

// ScoreEntry is one component of a priority score, kept for auditability.
// Every component the scorer applies appears in the breakdown, including
// zero-valued ones.
type ScoreEntry struct {
	Category      string
	Points        int
	MaxPoints     int
	Justification string
}

// ScoreBreakdown pairs the ordered component list with the final clamped
// total. The breakdown is produced alongside the score and never silently
// discarded.
type ScoreBreakdown struct {
	Entries []ScoreEntry
	Total   int
}

// Sum adds the raw component points before clamping.
func (b ScoreBreakdown) Sum() int {
	total := 0
	for _, e := range b.Entries {
		total += e.Points
	}
	return total
}
