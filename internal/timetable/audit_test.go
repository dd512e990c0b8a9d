package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadops/timetable-api/internal/models"
)

func anchorGrid(section models.SectionKey, sessions ...*models.Session) *models.ScheduleGrid {
	grid := NewGrid(section, NewCalendar().SlotCount())
	for _, s := range sessions {
		cells := grid.Cells[s.Day]
		cells[s.StartSlot] = &models.GridCell{Session: s, Anchor: true}
		for i := s.StartSlot + 1; i < s.StartSlot+s.Duration; i++ {
			cells[i] = &models.GridCell{Session: s}
		}
	}
	return grid
}

func TestReconcileNoShortfallForSatisfiedCourse(t *testing.T) {
	course := models.Course{
		Code: "CS301", Name: "Operating Systems", Faculty: "Dr. Rao",
		Department: "CSE", Semester: 3,
		Hours: models.HourRequirement{Lecture: 3, Tutorial: 1, Practical: 2},
	}
	key := models.SectionKey{Department: "CSE", Semester: 3}
	grid := anchorGrid(key,
		&models.Session{Type: models.SessionLecture, CourseCode: "CS301", Faculty: "Dr. Rao", Day: "Monday", StartSlot: 0, Duration: 3},
		&models.Session{Type: models.SessionLecture, CourseCode: "CS301", Faculty: "Dr. Rao", Day: "Tuesday", StartSlot: 0, Duration: 3},
		&models.Session{Type: models.SessionTutorial, CourseCode: "CS301", Faculty: "Dr. Rao", Day: "Wednesday", StartSlot: 0, Duration: 2},
		&models.Session{Type: models.SessionLab, CourseCode: "CS301", Faculty: "Dr. Rao", Day: "Thursday", StartSlot: 0, Duration: 4},
	)

	rows := Reconcile(AuditInput{
		Courses:          []models.Course{course},
		Grids:            []*models.ScheduleGrid{grid},
		Sections:         []models.Section{{Key: key, Courses: []models.Course{course}}},
		LectureRoomCount: 1,
		LabRoomCount:     2,
	})

	assert.Empty(t, rows)
}

func TestReconcileMergesAliasVariants(t *testing.T) {
	course := models.Course{
		Code: "CS201 / EC201", Name: "Signals", Faculty: "Dr. Iyer",
		Department: "ECE", Semester: 4,
		Hours: models.HourRequirement{Lecture: 3},
	}
	key := models.SectionKey{Department: "ECE", Semester: 4}

	// One session committed under each variant code.
	grid := anchorGrid(key,
		&models.Session{Type: models.SessionLecture, CourseCode: "CS201", Faculty: "Dr. Iyer", Day: "Monday", StartSlot: 0, Duration: 3},
		&models.Session{Type: models.SessionLecture, CourseCode: "EC201", Faculty: "Dr. Iyer", Day: "Tuesday", StartSlot: 0, Duration: 3},
	)

	rows := Reconcile(AuditInput{
		Courses:          []models.Course{course},
		Grids:            []*models.ScheduleGrid{grid},
		Sections:         []models.Section{{Key: key, Courses: []models.Course{course}}},
		LectureRoomCount: 1,
		LabRoomCount:     2,
	})

	assert.Empty(t, rows, "variant hours must merge onto the primary code")
}

func TestReconcileReportsShortfallWithReasons(t *testing.T) {
	courses := []models.Course{
		{
			Code: "CS301", Name: "Operating Systems", Faculty: "Dr. Rao",
			Department: "CSE", Semester: 3,
			Hours: models.HourRequirement{Lecture: 3, Practical: 2},
		},
		{
			Code: "CS305", Name: "Networks", Faculty: "Dr. Rao",
			Department: "CSE", Semester: 3,
			Hours: models.HourRequirement{Lecture: 1.5},
		},
	}
	key := models.SectionKey{Department: "CSE", Semester: 3}

	// CS301 got one of two lectures and no lab; CS305 is absent entirely.
	grid := anchorGrid(key,
		&models.Session{Type: models.SessionLecture, CourseCode: "CS301", Faculty: "Dr. Rao", Day: "Monday", StartSlot: 0, Duration: 3},
	)

	rows := Reconcile(AuditInput{
		Courses:          courses,
		Grids:            []*models.ScheduleGrid{grid},
		Sections:         []models.Section{{Key: key, Courses: courses}},
		LectureRoomCount: 0,
		LabRoomCount:     0,
	})
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "CS301", first.CourseCode)
	assert.True(t, first.VariantFound)
	assert.InDelta(t, 1.5, first.Missing.Lecture, 0.001)
	assert.InDelta(t, 2.0, first.Missing.Practical, 0.001)
	assert.Zero(t, first.Missing.Tutorial)
	assert.Contains(t, first.Reasons, models.ReasonCourseShort)
	assert.Contains(t, first.Reasons, models.ReasonFacultyContention)
	assert.Contains(t, first.Reasons, models.ReasonLectureRoomsShort)
	assert.Contains(t, first.Reasons, models.ReasonLabRoomsShort)

	second := rows[1]
	assert.Equal(t, "CS305", second.CourseCode)
	assert.False(t, second.VariantFound)
	assert.Contains(t, second.Reasons, models.ReasonCourseAbsent)
}

func TestReconcileReportsSelfStudyShortfall(t *testing.T) {
	course := models.Course{
		Code: "HS102", Name: "Professional Ethics", Faculty: "Dr. Menon",
		Department: "CSE", Semester: 2,
		Hours: models.HourRequirement{Lecture: 1.5, SelfStudy: 2},
	}
	key := models.SectionKey{Department: "CSE", Semester: 2}

	// The lecture requirement is fully met; no session type delivers
	// self-study, so those hours must still surface as missing.
	grid := anchorGrid(key,
		&models.Session{Type: models.SessionLecture, CourseCode: "HS102", Faculty: "Dr. Menon", Day: "Monday", StartSlot: 0, Duration: 3},
	)

	rows := Reconcile(AuditInput{
		Courses:          []models.Course{course},
		Grids:            []*models.ScheduleGrid{grid},
		Sections:         []models.Section{{Key: key, Courses: []models.Course{course}}},
		LectureRoomCount: 1,
		LabRoomCount:     2,
	})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.True(t, row.VariantFound)
	assert.Zero(t, row.Missing.Lecture)
	assert.InDelta(t, 2.0, row.Missing.SelfStudy, 0.001)
	assert.Contains(t, row.Reasons, models.ReasonCourseShort)
}

func TestReconcileToleratesRoundingNoise(t *testing.T) {
	course := models.Course{
		Code: "MA101", Faculty: "Dr. Nair", Department: "CSE", Semester: 1,
		Hours: models.HourRequirement{Lecture: 1.505},
	}
	key := models.SectionKey{Department: "CSE", Semester: 1}
	grid := anchorGrid(key,
		&models.Session{Type: models.SessionLecture, CourseCode: "MA101", Faculty: "Dr. Nair", Day: "Monday", StartSlot: 0, Duration: 3},
	)

	rows := Reconcile(AuditInput{
		Courses:          []models.Course{course},
		Grids:            []*models.ScheduleGrid{grid},
		Sections:         []models.Section{{Key: key, Courses: []models.Course{course}}},
		LectureRoomCount: 1,
		LabRoomCount:     2,
	})

	assert.Empty(t, rows, "a 0.005h gap sits inside tolerance")
}

func TestReconcileFlagsOverloadedSection(t *testing.T) {
	courses := make([]models.Course, 0, 7)
	for _, code := range []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7"} {
		courses = append(courses, models.Course{
			Code: code, Faculty: "F-" + code, Department: "CSE", Semester: 5,
			Hours: models.HourRequirement{Lecture: 1.5},
		})
	}
	key := models.SectionKey{Department: "CSE", Semester: 5}

	rows := Reconcile(AuditInput{
		Courses:          courses,
		Grids:            []*models.ScheduleGrid{NewGrid(key, NewCalendar().SlotCount())},
		Sections:         []models.Section{{Key: key, Courses: courses}},
		LectureRoomCount: 10,
		LabRoomCount:     2,
	})

	require.Len(t, rows, 7)
	for _, row := range rows {
		assert.Contains(t, row.Reasons, models.ReasonSectionOverloaded)
		assert.NotContains(t, row.Reasons, models.ReasonFacultyContention)
	}
}
