package timetable

import "github.com/acadops/timetable-api/internal/models"

// MinGapSlots is the minimum separation between the starts of two distinct
// same-faculty session blocks on one day: 6 slots, i.e. three hours.
const MinGapSlots = 6

// GapChecker decides whether a candidate span is admissible next to the
// blocks a faculty member already holds that day.
type GapChecker struct {
	ledger *Ledger
}

// NewGapChecker wraps the shared ledger.
func NewGapChecker(ledger *Ledger) *GapChecker {
	return &GapChecker{ledger: ledger}
}

// Admissible applies the same-day block rules:
//   - no existing blocks: admit;
//   - back-to-back with an existing block: admit only under the lab
//     exception (a LAB touching a LEC or TUT, in either time order);
//   - otherwise the starts of the two blocks must be at least MinGapSlots
//     apart.
func (g *GapChecker) Admissible(faculty, day string, start, duration int, t models.SessionType) bool {
	blocks := g.ledger.Blocks(faculty, day)
	if len(blocks) == 0 {
		return true
	}

	end := start + duration
	for _, b := range blocks {
		blockEnd := b.Start + b.Duration
		if start == blockEnd || b.Start == end {
			if labAdjacency(t, b.Type) {
				continue
			}
			return false
		}
		if absInt(start-b.Start) < MinGapSlots {
			return false
		}
	}
	return true
}

// labAdjacency holds when exactly one of the two blocks is a lab and the
// other is a lecture or tutorial.
func labAdjacency(a, b models.SessionType) bool {
	if a == models.SessionLab {
		return b == models.SessionLecture || b == models.SessionTutorial
	}
	if b == models.SessionLab {
		return a == models.SessionLecture || a == models.SessionTutorial
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
