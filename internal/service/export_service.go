package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acadops/timetable-api/internal/models"
	"github.com/acadops/timetable-api/internal/timetable"
	"github.com/acadops/timetable-api/pkg/export"
	"github.com/acadops/timetable-api/pkg/storage"
)

type runSource interface {
	RunByID(id string) (*models.TimetableRun, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders run artifacts into downloadable files.
type ExportService struct {
	runs     runSource
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	calendar *timetable.Calendar
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(runs runSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		runs:     runs,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		calendar: timetable.NewCalendar(),
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(_ context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	run, err := s.runs.RunByID(job.Params.RunID)
	if err != nil {
		return nil, fmt.Errorf("resolve run %s: %w", job.Params.RunID, err)
	}

	dataset, title, err := s.buildDataset(run, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/reports/download/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	runPart := sanitizeFilename(job.Params.RunID)
	if len(runPart) > 8 {
		runPart = runPart[:8]
	}
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), runPart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(run *models.TimetableRun, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeTimetable:
		return s.buildTimetableDataset(run), fmt.Sprintf("Timetable %s", shortID(run.ID)), nil
	case models.ReportTypeAudit:
		return buildAuditDataset(run), fmt.Sprintf("Hour Audit %s", shortID(run.ID)), nil
	case models.ReportTypeFaculty:
		if job.Params.Faculty == "" {
			return export.Dataset{}, "", fmt.Errorf("faculty report requires a faculty name")
		}
		return s.buildFacultyDataset(run, job.Params.Faculty), fmt.Sprintf("Faculty Schedule %s", job.Params.Faculty), nil
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildTimetableDataset(run *models.TimetableRun) export.Dataset {
	rows := make([][]string, 0)
	for _, grid := range run.Grids {
		sessions := timetable.Anchors([]*models.ScheduleGrid{grid})
		sortSessions(sessions)
		for _, session := range sessions {
			rows = append(rows, []string{
				grid.Section.Department,
				fmt.Sprintf("%d", grid.Section.Semester),
				session.Day,
				s.calendar.SpanLabel(session.StartSlot, session.Duration),
				string(session.Type),
				session.CourseCode,
				session.CourseName,
				session.Faculty,
				strings.Join(session.Rooms, " + "),
			})
		}
	}
	return export.Dataset{
		Headers: []string{"Department", "Semester", "Day", "Time", "Type", "Course Code", "Course Name", "Faculty", "Rooms"},
		Rows:    rows,
		Wide:    true,
	}
}

func buildAuditDataset(run *models.TimetableRun) export.Dataset {
	rows := make([][]string, 0, len(run.Audit))
	for _, row := range run.Audit {
		reasons := make([]string, 0, len(row.Reasons))
		for _, reason := range row.Reasons {
			reasons = append(reasons, string(reason))
		}
		rows = append(rows, []string{
			row.CourseCode,
			row.PrimaryCode,
			row.Faculty,
			row.Department,
			fmt.Sprintf("%d", row.Semester),
			formatHours(row.Required),
			formatHours(row.Scheduled),
			formatHours(row.Missing),
			fmt.Sprintf("%t", row.VariantFound),
			strings.Join(reasons, "; "),
		})
	}
	return export.Dataset{
		Headers: []string{"Course Code", "Primary Code", "Faculty", "Department", "Semester", "Required (L/T/P/S)", "Scheduled (L/T/P/S)", "Missing (L/T/P/S)", "Found", "Reasons"},
		Rows:    rows,
		Wide:    true,
	}
}

func (s *ExportService) buildFacultyDataset(run *models.TimetableRun, faculty string) export.Dataset {
	sessions := make([]*models.Session, 0)
	for _, session := range timetable.Anchors(run.Grids) {
		if session.Faculty == faculty {
			sessions = append(sessions, session)
		}
	}
	sortSessions(sessions)

	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, []string{
			session.Day,
			s.calendar.SpanLabel(session.StartSlot, session.Duration),
			string(session.Type),
			session.CourseCode,
			session.CourseName,
			strings.Join(session.Rooms, " + "),
		})
	}
	return export.Dataset{
		Headers: []string{"Day", "Time", "Type", "Course Code", "Course Name", "Rooms"},
		Rows:    rows,
	}
}

func formatHours(h models.HourRequirement) string {
	return fmt.Sprintf("%.1f/%.1f/%.1f/%.1f", h.Lecture, h.Tutorial, h.Practical, h.SelfStudy)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sortSessions(sessions []*models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if dayOrder[sessions[i].Day] != dayOrder[sessions[j].Day] {
			return dayOrder[sessions[i].Day] < dayOrder[sessions[j].Day]
		}
		return sessions[i].StartSlot < sessions[j].StartSlot
	})
}
