package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadops/timetable-api/internal/models"
)

// scriptedStrategy cycles through a fixed candidate list, regardless of
// attempt number, so tests can force the allocator into specific corners.
type scriptedStrategy struct {
	candidates []Candidate
	next       int
}

func (s *scriptedStrategy) Propose(_, _ []string, _, _, _ int) Candidate {
	c := s.candidates[s.next%len(s.candidates)]
	s.next++
	return c
}

func newTestSection(courses ...models.Course) *models.Section {
	return &models.Section{
		Key:         models.SectionKey{Department: "CSE", Semester: 3},
		LectureRoom: "LR1",
		LabRooms:    [2]string{"LAB1", "LAB2"},
		Courses:     courses,
	}
}

func TestSessionCounts(t *testing.T) {
	counts := SessionCounts(models.HourRequirement{Lecture: 3, Tutorial: 1, Practical: 2})

	assert.Equal(t, 2, counts[models.SessionLecture], "3 lecture hours need two 1.5h sessions")
	assert.Equal(t, 1, counts[models.SessionTutorial])
	assert.Equal(t, 1, counts[models.SessionLab], "2 practical hours fit one 2h session")

	zero := SessionCounts(models.HourRequirement{})
	assert.Equal(t, 0, zero[models.SessionLecture])
	assert.Equal(t, 0, zero[models.SessionTutorial])
	assert.Equal(t, 0, zero[models.SessionLab])
}

func TestSchedulerPlacesFullCourseLoad(t *testing.T) {
	course := models.Course{
		Department: "CSE", Semester: 3,
		Code: "CS301", Name: "Operating Systems", Faculty: "Dr. Rao",
		Hours: models.HourRequirement{Lecture: 3, Tutorial: 1, Practical: 2},
	}
	section := newTestSection(course)

	scheduler := NewScheduler(SchedulerConfig{Strategy: NewRandomStrategy(42)})
	grid := NewGrid(section.Key, scheduler.Calendar().SlotCount())
	stats := scheduler.ScheduleSection(section, grid)

	require.Equal(t, 4, stats.SessionsRequested)
	require.Equal(t, 4, stats.SessionsPlaced, "an empty week must fit one course")
	require.Zero(t, stats.SessionsAbandoned)

	sessions := Anchors([]*models.ScheduleGrid{grid})
	require.Len(t, sessions, 4)
	assertScheduleInvariants(t, scheduler.Calendar(), sessions)

	rows := Reconcile(AuditInput{
		Courses:          []models.Course{course},
		Grids:            []*models.ScheduleGrid{grid},
		Sections:         []models.Section{*section},
		LectureRoomCount: 1,
		LabRoomCount:     2,
	})
	assert.Empty(t, rows, "fully placed course must report no shortfall")
}

func TestSchedulerSessionSpansMatchType(t *testing.T) {
	course := models.Course{
		Code: "CS301", Name: "Operating Systems", Faculty: "Dr. Rao",
		Department: "CSE", Semester: 3,
		Hours: models.HourRequirement{Lecture: 1.5, Tutorial: 1, Practical: 2},
	}
	section := newTestSection(course)

	scheduler := NewScheduler(SchedulerConfig{Strategy: NewRandomStrategy(7)})
	grid := NewGrid(section.Key, scheduler.Calendar().SlotCount())
	scheduler.ScheduleSection(section, grid)

	for _, session := range Anchors([]*models.ScheduleGrid{grid}) {
		assert.Equal(t, SlotsPerSession[session.Type], session.Duration)

		// Continuation cells reference the anchor's session.
		cells := grid.Cells[session.Day]
		for i := session.StartSlot + 1; i < session.StartSlot+session.Duration; i++ {
			require.NotNil(t, cells[i])
			assert.False(t, cells[i].Anchor)
			assert.Same(t, session, cells[i].Session)
		}
	}
}

func TestSchedulerSentinelLabRoomStillConflictChecked(t *testing.T) {
	courseA := models.Course{
		Code: "CS301", Faculty: "Dr. Rao", Department: "CSE", Semester: 3,
		Hours: models.HourRequirement{Practical: 2},
	}
	courseB := models.Course{
		Code: "EC302", Faculty: "Dr. Iyer", Department: "ECE", Semester: 3,
		Hours: models.HourRequirement{Practical: 2},
	}

	ledger := NewLedger()
	ledger.RegisterRoom(models.RoomUnassignedLab)
	scheduler := NewScheduler(SchedulerConfig{Ledger: ledger, Strategy: NewRandomStrategy(11)})

	sectionA := &models.Section{
		Key:         models.SectionKey{Department: "CSE", Semester: 3},
		LectureRoom: "LR1",
		LabRooms:    [2]string{models.RoomUnassignedLab, models.RoomUnassignedLab},
		Courses:     []models.Course{courseA},
	}
	sectionB := &models.Section{
		Key:         models.SectionKey{Department: "ECE", Semester: 3},
		LectureRoom: "LR2",
		LabRooms:    [2]string{models.RoomUnassignedLab, models.RoomUnassignedLab},
		Courses:     []models.Course{courseB},
	}

	gridA := NewGrid(sectionA.Key, scheduler.Calendar().SlotCount())
	gridB := NewGrid(sectionB.Key, scheduler.Calendar().SlotCount())
	scheduler.ScheduleSection(sectionA, gridA)
	scheduler.ScheduleSection(sectionB, gridB)

	sessions := Anchors([]*models.ScheduleGrid{gridA, gridB})
	assertScheduleInvariants(t, scheduler.Calendar(), sessions)
}

func TestSchedulerAbandonsWhenOnlyCloseSlotsExist(t *testing.T) {
	courseA := models.Course{
		Code: "CS301", Faculty: "Dr. Rao", Department: "CSE", Semester: 3,
		Hours: models.HourRequirement{Lecture: 1.5},
	}
	courseB := models.Course{
		Code: "CS305", Faculty: "Dr. Rao", Department: "CSE", Semester: 3,
		Hours: models.HourRequirement{Lecture: 1.5},
	}
	section := newTestSection(courseA, courseB)

	// Only Monday 09:00 and Monday 10:30 are ever proposed; the second
	// lecture cannot sit within three hours of the first.
	strategy := &scriptedStrategy{candidates: []Candidate{
		{Day: "Monday", Slot: 0},
		{Day: "Monday", Slot: 4},
	}}
	scheduler := NewScheduler(SchedulerConfig{Strategy: strategy, AttemptBudget: 50})
	grid := NewGrid(section.Key, scheduler.Calendar().SlotCount())
	stats := scheduler.ScheduleSection(section, grid)

	require.Equal(t, 1, stats.SessionsPlaced)
	require.Equal(t, 1, stats.SessionsAbandoned, "second lecture has no admissible slot")

	rows := Reconcile(AuditInput{
		Courses:          []models.Course{courseA, courseB},
		Grids:            []*models.ScheduleGrid{grid},
		Sections:         []models.Section{*section},
		LectureRoomCount: 5,
		LabRoomCount:     2,
	})
	require.Len(t, rows, 1)
	assert.InDelta(t, 1.5, rows[0].Missing.Lecture, 0.001)
	assert.Contains(t, rows[0].Reasons, models.ReasonFacultyContention)
}

// assertScheduleInvariants checks the committed sessions against the
// no-overlap, break-exclusion, and gap rules.
func assertScheduleInvariants(t *testing.T, cal *Calendar, sessions []*models.Session) {
	t.Helper()

	type span struct {
		start, end int
		typ        models.SessionType
	}
	facultySpans := make(map[string][]span)
	roomSpans := make(map[string][]span)

	for _, s := range sessions {
		for i := s.StartSlot; i < s.StartSlot+s.Duration; i++ {
			assert.False(t, cal.IsBreak(i), "session %s %s overlaps a break slot", s.CourseCode, s.Type)
		}

		sp := span{start: s.StartSlot, end: s.StartSlot + s.Duration, typ: s.Type}
		fkey := s.Faculty + "|" + s.Day
		facultySpans[fkey] = append(facultySpans[fkey], sp)
		for _, room := range s.Rooms {
			rkey := room + "|" + s.Day
			roomSpans[rkey] = append(roomSpans[rkey], sp)
		}
	}

	for key, spans := range facultySpans {
		for i := 0; i < len(spans); i++ {
			for j := i + 1; j < len(spans); j++ {
				a, b := spans[i], spans[j]
				assert.False(t, a.start < b.end && b.start < a.end, "faculty overlap on %s", key)
				if a.end == b.start || b.end == a.start {
					assert.True(t, labAdjacency(a.typ, b.typ), "non-lab adjacency on %s", key)
				} else {
					assert.GreaterOrEqual(t, absInt(a.start-b.start), MinGapSlots, "gap rule violated on %s", key)
				}
			}
		}
	}

	for key, spans := range roomSpans {
		for i := 0; i < len(spans); i++ {
			for j := i + 1; j < len(spans); j++ {
				a, b := spans[i], spans[j]
				assert.False(t, a.start < b.end && b.start < a.end, "room overlap on %s", key)
			}
		}
	}
}
