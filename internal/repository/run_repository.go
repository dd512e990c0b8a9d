package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadops/timetable-api/internal/models"
	"github.com/acadops/timetable-api/internal/timetable"
)

// RunRepository persists saved timetable runs with their sessions and audit
// rows in one transaction.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository constructs the repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

type runRow struct {
	ID        string    `db:"id"`
	Status    string    `db:"status"`
	Seed      int64     `db:"seed"`
	Stats     []byte    `db:"stats"`
	CreatedAt time.Time `db:"created_at"`
	SavedAt   time.Time `db:"saved_at"`
}

type sessionRow struct {
	ID         string `db:"id"`
	RunID      string `db:"run_id"`
	Department string `db:"department"`
	Semester   int    `db:"semester"`
	Type       string `db:"type"`
	CourseCode string `db:"course_code"`
	CourseName string `db:"course_name"`
	Faculty    string `db:"faculty"`
	Day        string `db:"day"`
	StartSlot  int    `db:"start_slot"`
	Duration   int    `db:"duration"`
	Rooms      string `db:"rooms"`
}

type auditRow struct {
	ID           string  `db:"id"`
	RunID        string  `db:"run_id"`
	CourseCode   string  `db:"course_code"`
	PrimaryCode  string  `db:"primary_code"`
	Faculty      string  `db:"faculty"`
	Department   string  `db:"department"`
	Semester     int     `db:"semester"`
	MissingLec   float64 `db:"missing_lecture"`
	MissingTut   float64 `db:"missing_tutorial"`
	MissingPrac  float64 `db:"missing_practical"`
	MissingSelf  float64 `db:"missing_self_study"`
	VariantFound bool    `db:"variant_found"`
	Reasons      string  `db:"reasons"`
}

// SaveRun writes the run header, every committed session, and every audit
// row; the whole write is atomic.
func (r *RunRepository) SaveRun(ctx context.Context, run *models.TimetableRun) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("marshal run stats: %w", err)
	}

	const runQuery = `INSERT INTO timetable_runs (id, status, seed, stats, created_at, saved_at)
VALUES (:id, :status, :seed, :stats, :created_at, :saved_at)
ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, saved_at = EXCLUDED.saved_at`
	row := runRow{
		ID:        run.ID,
		Status:    string(models.RunStatusSaved),
		Seed:      run.Seed,
		Stats:     stats,
		CreatedAt: run.CreatedAt,
		SavedAt:   time.Now().UTC(),
	}
	if _, err := tx.NamedExecContext(ctx, runQuery, row); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	const sessionQuery = `INSERT INTO timetable_sessions (id, run_id, department, semester, type, course_code, course_name, faculty, day, start_slot, duration, rooms)
VALUES (:id, :run_id, :department, :semester, :type, :course_code, :course_name, :faculty, :day, :start_slot, :duration, :rooms)`
	for _, grid := range run.Grids {
		for _, session := range timetable.Anchors([]*models.ScheduleGrid{grid}) {
			s := sessionRow{
				ID:         uuid.NewString(),
				RunID:      run.ID,
				Department: grid.Section.Department,
				Semester:   grid.Section.Semester,
				Type:       string(session.Type),
				CourseCode: session.CourseCode,
				CourseName: session.CourseName,
				Faculty:    session.Faculty,
				Day:        session.Day,
				StartSlot:  session.StartSlot,
				Duration:   session.Duration,
				Rooms:      strings.Join(session.Rooms, ","),
			}
			if _, err := tx.NamedExecContext(ctx, sessionQuery, s); err != nil {
				return fmt.Errorf("insert session: %w", err)
			}
		}
	}

	const auditQuery = `INSERT INTO timetable_audit_rows (id, run_id, course_code, primary_code, faculty, department, semester, missing_lecture, missing_tutorial, missing_practical, missing_self_study, variant_found, reasons)
VALUES (:id, :run_id, :course_code, :primary_code, :faculty, :department, :semester, :missing_lecture, :missing_tutorial, :missing_practical, :missing_self_study, :variant_found, :reasons)`
	for _, item := range run.Audit {
		reasons := make([]string, 0, len(item.Reasons))
		for _, reason := range item.Reasons {
			reasons = append(reasons, string(reason))
		}
		a := auditRow{
			ID:           uuid.NewString(),
			RunID:        run.ID,
			CourseCode:   item.CourseCode,
			PrimaryCode:  item.PrimaryCode,
			Faculty:      item.Faculty,
			Department:   item.Department,
			Semester:     item.Semester,
			MissingLec:   item.Missing.Lecture,
			MissingTut:   item.Missing.Tutorial,
			MissingPrac:  item.Missing.Practical,
			MissingSelf:  item.Missing.SelfStudy,
			VariantFound: item.VariantFound,
			Reasons:      strings.Join(reasons, ";"),
		}
		if _, err := tx.NamedExecContext(ctx, auditQuery, a); err != nil {
			return fmt.Errorf("insert audit row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	return nil
}
