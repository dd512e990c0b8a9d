package timetable

import (
	"fmt"

	"github.com/acadops/timetable-api/internal/models"
)

// The working day runs 09:00 to 18:30 at half-hour granularity.
const (
	SlotMinutes    = 30
	DayStartMinute = 9 * 60
	DayEndMinute   = 18*60 + 30
)

// Days is the ordered working week.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// SlotsPerSession fixes the span of each component type in slots.
var SlotsPerSession = map[models.SessionType]int{
	models.SessionLecture:  3,
	models.SessionTutorial: 2,
	models.SessionLab:      4,
}

// HoursPerSession is the contact-hour credit one committed session earns.
// A tutorial spans two slots but counts as a single contact hour.
var HoursPerSession = map[models.SessionType]float64{
	models.SessionLecture:  1.5,
	models.SessionTutorial: 1.0,
	models.SessionLab:      2.0,
}

// Slot is one half-hour interval of the working day.
type Slot struct {
	Index       int
	StartMinute int
	Break       bool
}

// Calendar enumerates the fixed slot sequence shared by every section in a
// run. Break classification depends only on the slot's start time.
type Calendar struct {
	slots []Slot
}

// NewCalendar builds the slot sequence for the working day.
func NewCalendar() *Calendar {
	count := (DayEndMinute - DayStartMinute) / SlotMinutes
	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		start := DayStartMinute + i*SlotMinutes
		slots = append(slots, Slot{
			Index:       i,
			StartMinute: start,
			Break:       isBreakMinute(start),
		})
	}
	return &Calendar{slots: slots}
}

// Morning break covers [10:30, 10:45), lunch covers [13:00, 13:45).
func isBreakMinute(start int) bool {
	if start >= 10*60+30 && start < 10*60+45 {
		return true
	}
	if start >= 13*60 && start < 13*60+45 {
		return true
	}
	return false
}

// SlotCount returns the number of slots in a working day.
func (c *Calendar) SlotCount() int {
	return len(c.slots)
}

// IsBreak reports whether the slot at index i is break-flagged.
func (c *Calendar) IsBreak(i int) bool {
	if i < 0 || i >= len(c.slots) {
		return true
	}
	return c.slots[i].Break
}

// SpanFits reports whether a session of the given duration starting at
// start stays inside the working day.
func (c *Calendar) SpanFits(start, duration int) bool {
	return start >= 0 && duration > 0 && start+duration <= len(c.slots)
}

// SpanClearOfBreaks reports whether no slot in [start, start+duration) is
// break-flagged. All session types validate their full span.
func (c *Calendar) SpanClearOfBreaks(start, duration int) bool {
	if !c.SpanFits(start, duration) {
		return false
	}
	for i := start; i < start+duration; i++ {
		if c.slots[i].Break {
			return false
		}
	}
	return true
}

// Label renders the slot interval as "HH:MM-HH:MM".
func (c *Calendar) Label(i int) string {
	if i < 0 || i >= len(c.slots) {
		return ""
	}
	start := c.slots[i].StartMinute
	end := start + SlotMinutes
	return fmt.Sprintf("%02d:%02d-%02d:%02d", start/60, start%60, end/60, end%60)
}

// SpanLabel renders the interval covered by a whole session.
func (c *Calendar) SpanLabel(start, duration int) string {
	if !c.SpanFits(start, duration) {
		return ""
	}
	from := c.slots[start].StartMinute
	to := c.slots[start+duration-1].StartMinute + SlotMinutes
	return fmt.Sprintf("%02d:%02d-%02d:%02d", from/60, from%60, to/60, to%60)
}
