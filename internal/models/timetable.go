package models

import "time"

// SessionType enumerates the schedulable course components.
type SessionType string

const (
	SessionLecture  SessionType = "LEC"
	SessionTutorial SessionType = "TUT"
	SessionLab      SessionType = "LAB"
)

// RoomType enumerates the room categories a campus offers.
type RoomType string

const (
	RoomTypeLecture     RoomType = "LECTURE_ROOM"
	RoomTypeComputerLab RoomType = "COMPUTER_LAB"
	RoomTypeLargeSeater RoomType = "SEATER_120"
)

// RoomUnassigned is the sentinel identifier used when a room pool is empty.
// It is registered in the occupancy ledger like any real room so conflict
// checks still apply to sessions that fall back to it.
const (
	RoomUnassignedLecture = "No Lecture Room"
	RoomUnassignedLab     = "No Lab Room"
)

// HourRequirement is the weekly LTPS contact-hour contract of a course.
type HourRequirement struct {
	Lecture   float64 `json:"lecture"`
	Tutorial  float64 `json:"tutorial"`
	Practical float64 `json:"practical"`
	SelfStudy float64 `json:"self_study"`
}

// Course is an immutable input record. Code may carry alias notation:
// slash-joined cross-listed codes ("CS201 / EC201") or a parenthesized
// elective group ("B1(ASD151/HS151/New)").
type Course struct {
	Department string          `json:"department"`
	Semester   int             `json:"semester"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Faculty    string          `json:"faculty"`
	Hours      HourRequirement `json:"hours"`
}

// Room is an immutable input record.
type Room struct {
	ID   string   `json:"id"`
	Type RoomType `json:"type"`
}

// SectionKey identifies a (department, semester) section.
type SectionKey struct {
	Department string `json:"department"`
	Semester   int    `json:"semester"`
}

// Section groups the courses of one (department, semester) pair together
// with the rooms assigned to it for the run.
type Section struct {
	Key         SectionKey `json:"key"`
	LectureRoom string     `json:"lecture_room"`
	LabRooms    [2]string  `json:"lab_rooms"`
	Courses     []Course   `json:"courses"`
}

// Session is one committed occurrence of a course component. It occupies
// Duration contiguous slots starting at StartSlot; the anchor slot carries
// this record, continuation slots reference it.
type Session struct {
	Type       SessionType `json:"type"`
	CourseCode string      `json:"course_code"`
	CourseName string      `json:"course_name"`
	Faculty    string      `json:"faculty"`
	Day        string      `json:"day"`
	StartSlot  int         `json:"start_slot"`
	Duration   int         `json:"duration"`
	Rooms      []string    `json:"rooms"`
}

// GridCell is one day/slot entry of a schedule grid. Anchor is true on the
// first slot of a session; continuation cells point at the same Session.
type GridCell struct {
	Session *Session `json:"session,omitempty"`
	Anchor  bool     `json:"anchor"`
}

// ScheduleGrid is the day-by-slot matrix for a single section.
type ScheduleGrid struct {
	Section SectionKey             `json:"section"`
	Cells   map[string][]*GridCell `json:"cells"`
}

// RunStatus captures the lifecycle of a generation run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusSaved     RunStatus = "SAVED"
)

// RunStats summarises allocator effort for one run.
type RunStats struct {
	SectionsProcessed int `json:"sections_processed"`
	SessionsRequested int `json:"sessions_requested"`
	SessionsPlaced    int `json:"sessions_placed"`
	SessionsAbandoned int `json:"sessions_abandoned"`
	AttemptsTotal     int `json:"attempts_total"`
}

// TimetableRun is the root artifact of a generation request.
type TimetableRun struct {
	ID        string          `json:"id"`
	Status    RunStatus       `json:"status"`
	Seed      int64           `json:"seed"`
	Grids     []*ScheduleGrid `json:"grids"`
	Sections  []Section       `json:"sections"`
	Courses   []Course        `json:"courses"`
	Audit     []AuditRow      `json:"audit"`
	Stats     RunStats        `json:"stats"`
	CreatedAt time.Time       `json:"created_at"`
}
