package timetable

import "github.com/acadops/timetable-api/internal/models"

// HourTolerance absorbs floating point noise when comparing scheduled
// against required hours.
const HourTolerance = 0.01

// sectionOverloadThreshold is the course count above which a section is
// flagged as a likely cause of placement failures.
const sectionOverloadThreshold = 6

// AuditInput carries everything the reconciliation needs. The auditor is
// pure given these inputs; it never re-parses rendered output.
type AuditInput struct {
	Courses          []models.Course
	Grids            []*models.ScheduleGrid
	Sections         []models.Section
	LectureRoomCount int
	LabRoomCount     int
}

// Reconcile re-derives scheduled hours per course from the committed anchor
// sessions, resolves alias variants onto primary codes, and reports every
// course whose requirement is not met within tolerance.
func Reconcile(in AuditInput) []models.AuditRow {
	aliases := BuildAliasMap(in.Courses)
	scheduled := scheduledHoursByPrimary(aliases, in.Grids)

	facultyLoad := make(map[string]int, len(in.Courses))
	for _, course := range in.Courses {
		facultyLoad[course.Faculty]++
	}

	sectionLoad := make(map[models.SectionKey]int, len(in.Sections))
	for _, section := range in.Sections {
		sectionLoad[section.Key] = len(section.Courses)
	}

	rows := make([]models.AuditRow, 0)
	for _, course := range in.Courses {
		primary := ResolveAlias(aliases, course.Code)
		got, found := scheduled[primary]

		// No session type delivers self-study, so its scheduled share is
		// always zero and the requirement carries straight through.
		missing := models.HourRequirement{
			Lecture:   shortfall(course.Hours.Lecture, got.Lecture),
			Tutorial:  shortfall(course.Hours.Tutorial, got.Tutorial),
			Practical: shortfall(course.Hours.Practical, got.Practical),
			SelfStudy: shortfall(course.Hours.SelfStudy, got.SelfStudy),
		}

		row := models.AuditRow{
			CourseCode:   course.Code,
			PrimaryCode:  primary,
			CourseName:   course.Name,
			Faculty:      course.Faculty,
			Department:   course.Department,
			Semester:     course.Semester,
			Required:     course.Hours,
			Scheduled:    got,
			Missing:      missing,
			VariantFound: found,
		}
		if !row.HasShortfall() {
			continue
		}

		row.Reasons = diagnose(row, facultyLoad, sectionLoad, in)
		rows = append(rows, row)
	}

	return rows
}

func scheduledHoursByPrimary(aliases map[string]string, grids []*models.ScheduleGrid) map[string]models.HourRequirement {
	merged := make(map[string]models.HourRequirement)
	for _, session := range Anchors(grids) {
		primary := ResolveAlias(aliases, session.CourseCode)
		hours := merged[primary]
		switch session.Type {
		case models.SessionLecture:
			hours.Lecture += HoursPerSession[models.SessionLecture]
		case models.SessionTutorial:
			hours.Tutorial += HoursPerSession[models.SessionTutorial]
		case models.SessionLab:
			hours.Practical += HoursPerSession[models.SessionLab]
		}
		merged[primary] = hours
	}
	return merged
}

func shortfall(required, scheduled float64) float64 {
	missing := required - scheduled
	if missing <= HourTolerance {
		return 0
	}
	return missing
}

// diagnose attaches advisory reasons to a shortfall row. These are
// heuristics drawn from the run shape, not proofs of causation.
func diagnose(row models.AuditRow, facultyLoad map[string]int, sectionLoad map[models.SectionKey]int, in AuditInput) []models.AuditReason {
	reasons := make([]models.AuditReason, 0, 4)

	if row.VariantFound {
		reasons = append(reasons, models.ReasonCourseShort)
	} else {
		reasons = append(reasons, models.ReasonCourseAbsent)
	}

	if facultyLoad[row.Faculty] > 1 {
		reasons = append(reasons, models.ReasonFacultyContention)
	}

	if (row.Missing.Lecture > 0 || row.Missing.Tutorial > 0) && in.LectureRoomCount < len(in.Sections) {
		reasons = append(reasons, models.ReasonLectureRoomsShort)
	}
	if row.Missing.Practical > 0 && in.LabRoomCount < 2 {
		reasons = append(reasons, models.ReasonLabRoomsShort)
	}

	key := models.SectionKey{Department: row.Department, Semester: row.Semester}
	if sectionLoad[key] > sectionOverloadThreshold {
		reasons = append(reasons, models.ReasonSectionOverloaded)
	}

	return reasons
}
