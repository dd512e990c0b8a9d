package timetable

import "github.com/acadops/timetable-api/internal/models"

// SessionBlock records one committed span for gap checking.
type SessionBlock struct {
	Start    int
	Duration int
	Type     models.SessionType
}

// Ledger tracks occupied slots per faculty member and per room, keyed by
// day. It is shared across every section of a run, so sections must be
// scheduled sequentially against a single instance.
type Ledger struct {
	faculty map[string]map[string]map[int]bool
	rooms   map[string]map[string]map[int]bool
	blocks  map[string]map[string][]SessionBlock
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		faculty: make(map[string]map[string]map[int]bool),
		rooms:   make(map[string]map[string]map[int]bool),
		blocks:  make(map[string]map[string][]SessionBlock),
	}
}

// RegisterRoom ensures the room exists as a ledger key. Sentinel room
// identifiers are registered up front so conflict checks against them
// behave exactly like checks against real rooms.
func (l *Ledger) RegisterRoom(id string) {
	if _, ok := l.rooms[id]; !ok {
		l.rooms[id] = make(map[string]map[int]bool)
	}
}

// FacultyFree reports whether the faculty member has no occupied slot in
// [start, start+duration) on the given day.
func (l *Ledger) FacultyFree(faculty, day string, start, duration int) bool {
	occupied := l.faculty[faculty][day]
	for i := start; i < start+duration; i++ {
		if occupied[i] {
			return false
		}
	}
	return true
}

// RoomFree reports whether the room has no occupied slot in the span.
func (l *Ledger) RoomFree(room, day string, start, duration int) bool {
	occupied := l.rooms[room][day]
	for i := start; i < start+duration; i++ {
		if occupied[i] {
			return false
		}
	}
	return true
}

// Blocks returns the committed session blocks for a faculty member's day.
func (l *Ledger) Blocks(faculty, day string) []SessionBlock {
	return l.blocks[faculty][day]
}

// Reserve commits a span for the faculty member and each room. Callers run
// every admissibility check first; there is no rollback.
func (l *Ledger) Reserve(faculty string, rooms []string, day string, start, duration int, t models.SessionType) {
	l.reserveFaculty(faculty, day, start, duration)
	seen := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		if seen[room] {
			continue
		}
		seen[room] = true
		l.reserveRoom(room, day, start, duration)
	}

	if l.blocks[faculty] == nil {
		l.blocks[faculty] = make(map[string][]SessionBlock)
	}
	l.blocks[faculty][day] = append(l.blocks[faculty][day], SessionBlock{Start: start, Duration: duration, Type: t})
}

func (l *Ledger) reserveFaculty(faculty, day string, start, duration int) {
	if l.faculty[faculty] == nil {
		l.faculty[faculty] = make(map[string]map[int]bool)
	}
	if l.faculty[faculty][day] == nil {
		l.faculty[faculty][day] = make(map[int]bool)
	}
	for i := start; i < start+duration; i++ {
		l.faculty[faculty][day][i] = true
	}
}

func (l *Ledger) reserveRoom(room, day string, start, duration int) {
	l.RegisterRoom(room)
	if l.rooms[room][day] == nil {
		l.rooms[room][day] = make(map[int]bool)
	}
	for i := start; i < start+duration; i++ {
		l.rooms[room][day][i] = true
	}
}
