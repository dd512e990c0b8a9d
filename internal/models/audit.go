package models

// AuditReason enumerates the advisory diagnostics the auditor attaches to a
// shortfall. They are heuristics, not proofs of causation.
type AuditReason string

const (
	ReasonCourseAbsent      AuditReason = "COURSE_NOT_IN_SCHEDULE"
	ReasonCourseShort       AuditReason = "COURSE_UNDER_SCHEDULED"
	ReasonFacultyContention AuditReason = "FACULTY_TEACHES_MULTIPLE_COURSES"
	ReasonLectureRoomsShort AuditReason = "INSUFFICIENT_LECTURE_ROOMS"
	ReasonLabRoomsShort     AuditReason = "INSUFFICIENT_LAB_ROOMS"
	ReasonSectionOverloaded AuditReason = "SECTION_COURSE_COUNT_HIGH"
)

// AuditRow reports the hour reconciliation outcome for one course.
type AuditRow struct {
	CourseCode   string          `json:"course_code"`
	PrimaryCode  string          `json:"primary_code"`
	CourseName   string          `json:"course_name"`
	Faculty      string          `json:"faculty"`
	Department   string          `json:"department"`
	Semester     int             `json:"semester"`
	Required     HourRequirement `json:"required"`
	Scheduled    HourRequirement `json:"scheduled"`
	Missing      HourRequirement `json:"missing"`
	VariantFound bool            `json:"variant_found"`
	Reasons      []AuditReason   `json:"reasons,omitempty"`
}

// HasShortfall reports whether any component is missing hours.
func (r AuditRow) HasShortfall() bool {
	return r.Missing.Lecture > 0 || r.Missing.Tutorial > 0 ||
		r.Missing.Practical > 0 || r.Missing.SelfStudy > 0
}
