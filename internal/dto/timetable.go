package dto

import "github.com/acadops/timetable-api/internal/models"

// CourseInput is one row of the course table in a generation request.
// Hour fields are pointers so a missing or malformed value degrades to
// zero instead of rejecting the whole request.
type CourseInput struct {
	Department string   `json:"department" binding:"required"`
	Semester   int      `json:"semester" binding:"required,min=1,max=12"`
	Code       string   `json:"code" binding:"required"`
	Name       string   `json:"name"`
	Faculty    string   `json:"faculty" binding:"required"`
	Lecture    *float64 `json:"lecture" binding:"omitempty,min=0"`
	Tutorial   *float64 `json:"tutorial" binding:"omitempty,min=0"`
	Practical  *float64 `json:"practical" binding:"omitempty,min=0"`
	SelfStudy  *float64 `json:"self_study" binding:"omitempty,min=0"`
}

// RoomInput is one row of the room table in a generation request.
type RoomInput struct {
	ID   string          `json:"id" binding:"required"`
	Type models.RoomType `json:"type" binding:"required,oneof=LECTURE_ROOM COMPUTER_LAB SEATER_120"`
}

// GenerateOptions tunes a single run.
type GenerateOptions struct {
	Seed          int64 `json:"seed"`
	AttemptBudget int   `json:"attempt_budget" binding:"omitempty,min=1,max=100000"`
}

// GenerateTimetableRequest is the POST /timetables/generate payload.
type GenerateTimetableRequest struct {
	Courses []CourseInput   `json:"courses" binding:"required,min=1,dive"`
	Rooms   []RoomInput     `json:"rooms" binding:"omitempty,dive"`
	Options GenerateOptions `json:"options"`
}

// Hours folds the nullable hour fields into a requirement tuple, treating
// absent values as zero.
func (c CourseInput) Hours() models.HourRequirement {
	return models.HourRequirement{
		Lecture:   deref(c.Lecture),
		Tutorial:  deref(c.Tutorial),
		Practical: deref(c.Practical),
		SelfStudy: deref(c.SelfStudy),
	}
}

func deref(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

// SessionView is one committed session in API responses.
type SessionView struct {
	Type       models.SessionType `json:"type"`
	CourseCode string             `json:"course_code"`
	CourseName string             `json:"course_name,omitempty"`
	Faculty    string             `json:"faculty"`
	Day        string             `json:"day"`
	StartSlot  int                `json:"start_slot"`
	Duration   int                `json:"duration"`
	Time       string             `json:"time"`
	Rooms      []string           `json:"rooms"`
}

// SectionScheduleView is one section's placed sessions plus room bindings.
type SectionScheduleView struct {
	Department  string        `json:"department"`
	Semester    int           `json:"semester"`
	LectureRoom string        `json:"lecture_room"`
	LabRooms    []string      `json:"lab_rooms"`
	Sessions    []SessionView `json:"sessions"`
}

// TimetableRunResponse is the full run artifact returned by the API.
type TimetableRunResponse struct {
	ID        string                `json:"id"`
	Status    models.RunStatus      `json:"status"`
	Seed      int64                 `json:"seed"`
	Stats     models.RunStats       `json:"stats"`
	Sections  []SectionScheduleView `json:"sections"`
	Audit     []models.AuditRow     `json:"audit"`
	CreatedAt string                `json:"created_at"`
}

// FacultyScheduleResponse is the per-faculty view of a run.
type FacultyScheduleResponse struct {
	RunID    string        `json:"run_id"`
	Faculty  string        `json:"faculty"`
	Sessions []SessionView `json:"sessions"`
}
