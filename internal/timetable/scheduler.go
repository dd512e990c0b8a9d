package timetable

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/acadops/timetable-api/internal/models"
)

// DefaultAttemptBudget bounds the randomized search per session instance.
const DefaultAttemptBudget = 1000

// Candidate is a proposed day/slot pair for one placement attempt.
type Candidate struct {
	Day  string
	Slot int
}

// CandidateStrategy proposes placement candidates. The allocator checks
// admissibility separately, so a strategy can be swapped for a systematic
// search without touching the conflict contracts.
type CandidateStrategy interface {
	Propose(preferred, all []string, attempt, budget, maxStart int) Candidate
}

// RandomStrategy draws uniformly random candidates, favouring days the
// course has not touched yet for the first half of the budget.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy seeds the generator; a zero seed falls back to the
// clock so repeated runs differ.
func NewRandomStrategy(seed int64) *RandomStrategy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

// Propose picks a day and a start slot that keeps the span inside the day.
func (s *RandomStrategy) Propose(preferred, all []string, attempt, budget, maxStart int) Candidate {
	days := all
	if attempt < budget/2 && len(preferred) > 0 {
		days = preferred
	}
	return Candidate{
		Day:  days[s.rng.Intn(len(days))],
		Slot: s.rng.Intn(maxStart + 1),
	}
}

// Scheduler places course sessions onto section grids while keeping the
// shared ledger consistent. One instance serves a whole run; sections are
// scheduled sequentially because faculty availability crosses sections.
type Scheduler struct {
	calendar *Calendar
	ledger   *Ledger
	gaps     *GapChecker
	strategy CandidateStrategy
	budget   int
	logger   *zap.Logger
}

// SchedulerConfig assembles the scheduler collaborators.
type SchedulerConfig struct {
	Calendar      *Calendar
	Ledger        *Ledger
	Strategy      CandidateStrategy
	AttemptBudget int
	Logger        *zap.Logger
}

// NewScheduler wires a scheduler with sensible defaults for any collaborator
// left nil.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Calendar == nil {
		cfg.Calendar = NewCalendar()
	}
	if cfg.Ledger == nil {
		cfg.Ledger = NewLedger()
	}
	if cfg.Strategy == nil {
		cfg.Strategy = NewRandomStrategy(0)
	}
	if cfg.AttemptBudget <= 0 {
		cfg.AttemptBudget = DefaultAttemptBudget
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Scheduler{
		calendar: cfg.Calendar,
		ledger:   cfg.Ledger,
		gaps:     NewGapChecker(cfg.Ledger),
		strategy: cfg.Strategy,
		budget:   cfg.AttemptBudget,
		logger:   cfg.Logger,
	}
}

// Ledger exposes the shared ledger for auditing and verification.
func (s *Scheduler) Ledger() *Ledger {
	return s.ledger
}

// Calendar exposes the run calendar.
func (s *Scheduler) Calendar() *Calendar {
	return s.calendar
}

// NewGrid allocates an empty day-by-slot matrix for a section.
func NewGrid(section models.SectionKey, slotCount int) *models.ScheduleGrid {
	cells := make(map[string][]*models.GridCell, len(Days))
	for _, day := range Days {
		cells[day] = make([]*models.GridCell, slotCount)
	}
	return &models.ScheduleGrid{Section: section, Cells: cells}
}

// SessionCounts decomposes an hour requirement into sessions per component.
func SessionCounts(hours models.HourRequirement) map[models.SessionType]int {
	return map[models.SessionType]int{
		models.SessionLecture:  ceilSessions(hours.Lecture, HoursPerSession[models.SessionLecture]),
		models.SessionTutorial: ceilSessions(hours.Tutorial, HoursPerSession[models.SessionTutorial]),
		models.SessionLab:      ceilSessions(hours.Practical, HoursPerSession[models.SessionLab]),
	}
}

func ceilSessions(required, perSession float64) int {
	if required <= 0 {
		return 0
	}
	return int(math.Ceil(required / perSession))
}

// Labs first: the dual-room requirement makes them hardest to place.
var componentOrder = []models.SessionType{
	models.SessionLab,
	models.SessionLecture,
	models.SessionTutorial,
}

// ScheduleSection places every session of every course in the section and
// returns the effort stats. Placement failures are silent here; the auditor
// is the sole detector of under-scheduling.
func (s *Scheduler) ScheduleSection(section *models.Section, grid *models.ScheduleGrid) models.RunStats {
	stats := models.RunStats{SectionsProcessed: 1}

	for _, course := range section.Courses {
		counts := SessionCounts(course.Hours)
		usedDays := make(map[string]bool, len(Days))

		for _, component := range componentOrder {
			for i := 0; i < counts[component]; i++ {
				stats.SessionsRequested++
				placed, attempts := s.placeSession(course, section, grid, component, usedDays)
				stats.AttemptsTotal += attempts
				if placed {
					stats.SessionsPlaced++
				} else {
					stats.SessionsAbandoned++
					s.logger.Debug("session abandoned",
						zap.String("course", course.Code),
						zap.String("component", string(component)),
						zap.String("department", section.Key.Department),
						zap.Int("semester", section.Key.Semester),
					)
				}
			}
		}
	}

	return stats
}

func (s *Scheduler) placeSession(course models.Course, section *models.Section, grid *models.ScheduleGrid, t models.SessionType, usedDays map[string]bool) (bool, int) {
	duration := SlotsPerSession[t]
	maxStart := s.calendar.SlotCount() - duration
	if maxStart < 0 {
		return false, 0
	}

	rooms := sessionRooms(section, t)
	preferred := make([]string, 0, len(Days))
	for _, day := range Days {
		if !usedDays[day] {
			preferred = append(preferred, day)
		}
	}

	for attempt := 0; attempt < s.budget; attempt++ {
		cand := s.strategy.Propose(preferred, Days, attempt, s.budget, maxStart)
		if !s.admissible(course.Faculty, rooms, grid, cand, duration, t) {
			continue
		}

		s.commit(course, rooms, grid, cand, duration, t)
		usedDays[cand.Day] = true
		return true, attempt + 1
	}

	return false, s.budget
}

func (s *Scheduler) admissible(faculty string, rooms []string, grid *models.ScheduleGrid, cand Candidate, duration int, t models.SessionType) bool {
	if !s.calendar.SpanClearOfBreaks(cand.Slot, duration) {
		return false
	}
	if !s.ledger.FacultyFree(faculty, cand.Day, cand.Slot, duration) {
		return false
	}
	for _, room := range rooms {
		if !s.ledger.RoomFree(room, cand.Day, cand.Slot, duration) {
			return false
		}
	}

	cells := grid.Cells[cand.Day]
	for i := cand.Slot; i < cand.Slot+duration; i++ {
		if cells[i] != nil {
			return false
		}
	}

	return s.gaps.Admissible(faculty, cand.Day, cand.Slot, duration, t)
}

// commit runs only after every admissibility check passed, so no rollback
// path exists and the grid never holds a partially-committed session.
func (s *Scheduler) commit(course models.Course, rooms []string, grid *models.ScheduleGrid, cand Candidate, duration int, t models.SessionType) {
	s.ledger.Reserve(course.Faculty, rooms, cand.Day, cand.Slot, duration, t)

	session := &models.Session{
		Type:       t,
		CourseCode: course.Code,
		CourseName: course.Name,
		Faculty:    course.Faculty,
		Day:        cand.Day,
		StartSlot:  cand.Slot,
		Duration:   duration,
		Rooms:      rooms,
	}

	cells := grid.Cells[cand.Day]
	cells[cand.Slot] = &models.GridCell{Session: session, Anchor: true}
	for i := cand.Slot + 1; i < cand.Slot+duration; i++ {
		cells[i] = &models.GridCell{Session: session}
	}
}

func sessionRooms(section *models.Section, t models.SessionType) []string {
	if t == models.SessionLab {
		if section.LabRooms[0] == section.LabRooms[1] {
			return []string{section.LabRooms[0]}
		}
		return []string{section.LabRooms[0], section.LabRooms[1]}
	}
	return []string{section.LectureRoom}
}

// Anchors walks every grid and returns the committed anchor sessions.
func Anchors(grids []*models.ScheduleGrid) []*models.Session {
	sessions := make([]*models.Session, 0)
	for _, grid := range grids {
		for _, day := range Days {
			for _, cell := range grid.Cells[day] {
				if cell != nil && cell.Anchor {
					sessions = append(sessions, cell.Session)
				}
			}
		}
	}
	return sessions
}
