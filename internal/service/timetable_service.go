package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadops/timetable-api/internal/dto"
	"github.com/acadops/timetable-api/internal/models"
	"github.com/acadops/timetable-api/internal/timetable"
	appErrors "github.com/acadops/timetable-api/pkg/errors"
)

type runPersister interface {
	SaveRun(ctx context.Context, run *models.TimetableRun) error
}

type runObserver interface {
	ObserveRun(stats models.RunStats, duration time.Duration)
}

// TimetableServiceConfig governs allocator defaults and run retention.
type TimetableServiceConfig struct {
	AttemptBudget int
	RunTTL        time.Duration
	Seed          int64
}

// TimetableService orchestrates generation runs: it normalises the course
// table, schedules each section sequentially against a shared ledger,
// reconciles the result, and keeps the run available until it expires or is
// explicitly saved.
type TimetableService struct {
	store     *runStore
	repo      runPersister
	validator *validator.Validate
	metrics   runObserver
	logger    *zap.Logger
	calendar  *timetable.Calendar
	cfg       TimetableServiceConfig
}

// NewTimetableService wires the generation pipeline.
func NewTimetableService(repo runPersister, metrics runObserver, validate *validator.Validate, logger *zap.Logger, cfg TimetableServiceConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AttemptBudget <= 0 {
		cfg.AttemptBudget = timetable.DefaultAttemptBudget
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 30 * time.Minute
	}
	return &TimetableService{
		store:     newRunStore(cfg.RunTTL),
		repo:      repo,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		calendar:  timetable.NewCalendar(),
		cfg:       cfg,
	}
}

// Generate runs the allocator over the submitted course and room tables.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableRunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	if len(req.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courses must contain at least one entry")
	}

	started := time.Now()

	courses, sections := buildSections(req.Courses)
	rooms := make([]models.Room, 0, len(req.Rooms))
	for _, r := range req.Rooms {
		rooms = append(rooms, models.Room{ID: r.ID, Type: r.Type})
	}

	seed := req.Options.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	budget := req.Options.AttemptBudget
	if budget <= 0 {
		budget = s.cfg.AttemptBudget
	}

	assigner := timetable.NewRoomAssigner(rooms)
	ledger := timetable.NewLedger()
	for _, room := range rooms {
		ledger.RegisterRoom(room.ID)
	}
	ledger.RegisterRoom(models.RoomUnassignedLecture)
	ledger.RegisterRoom(models.RoomUnassignedLab)

	scheduler := timetable.NewScheduler(timetable.SchedulerConfig{
		Calendar:      s.calendar,
		Ledger:        ledger,
		Strategy:      timetable.NewRandomStrategy(seed),
		AttemptBudget: budget,
		Logger:        s.logger,
	})

	var stats models.RunStats
	grids := make([]*models.ScheduleGrid, 0, len(sections))
	for i := range sections {
		lecture, labs := assigner.Assign()
		sections[i].LectureRoom = lecture
		sections[i].LabRooms = labs

		grid := timetable.NewGrid(sections[i].Key, s.calendar.SlotCount())
		sectionStats := scheduler.ScheduleSection(&sections[i], grid)
		grids = append(grids, grid)

		stats.SectionsProcessed += sectionStats.SectionsProcessed
		stats.SessionsRequested += sectionStats.SessionsRequested
		stats.SessionsPlaced += sectionStats.SessionsPlaced
		stats.SessionsAbandoned += sectionStats.SessionsAbandoned
		stats.AttemptsTotal += sectionStats.AttemptsTotal
	}

	audit := timetable.Reconcile(timetable.AuditInput{
		Courses:          courses,
		Grids:            grids,
		Sections:         sections,
		LectureRoomCount: assigner.LectureRoomCount(),
		LabRoomCount:     assigner.LabRoomCount(),
	})

	run := &models.TimetableRun{
		ID:        uuid.NewString(),
		Status:    models.RunStatusCompleted,
		Seed:      seed,
		Grids:     grids,
		Sections:  sections,
		Courses:   courses,
		Audit:     audit,
		Stats:     stats,
		CreatedAt: time.Now().UTC(),
	}
	s.store.Save(run)

	if s.metrics != nil {
		s.metrics.ObserveRun(stats, time.Since(started))
	}
	s.logger.Sugar().Infow("timetable run generated",
		"run_id", run.ID,
		"sections", stats.SectionsProcessed,
		"placed", stats.SessionsPlaced,
		"abandoned", stats.SessionsAbandoned,
		"shortfalls", len(audit),
	)

	return s.toRunResponse(run), nil
}

// GetRun returns a run that has not expired yet.
func (s *TimetableService) GetRun(_ context.Context, id string) (*dto.TimetableRunResponse, error) {
	run, err := s.runByID(id)
	if err != nil {
		return nil, err
	}
	return s.toRunResponse(run), nil
}

// GetAudit returns the shortfall report of a run.
func (s *TimetableService) GetAudit(_ context.Context, id string) ([]models.AuditRow, error) {
	run, err := s.runByID(id)
	if err != nil {
		return nil, err
	}
	return run.Audit, nil
}

// FacultySchedule filters a run down to one faculty member's sessions.
func (s *TimetableService) FacultySchedule(_ context.Context, id, faculty string) (*dto.FacultyScheduleResponse, error) {
	if faculty == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "faculty is required")
	}
	run, err := s.runByID(id)
	if err != nil {
		return nil, err
	}

	sessions := make([]dto.SessionView, 0)
	for _, session := range timetable.Anchors(run.Grids) {
		if session.Faculty == faculty {
			sessions = append(sessions, s.toSessionView(session))
		}
	}
	sortSessionViews(sessions)

	return &dto.FacultyScheduleResponse{
		RunID:    run.ID,
		Faculty:  faculty,
		Sessions: sessions,
	}, nil
}

// SaveRun persists an in-memory run and marks it SAVED.
func (s *TimetableService) SaveRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error) {
	run, err := s.runByID(id)
	if err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "run persistence is not configured")
	}
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save run")
	}

	run.Status = models.RunStatusSaved
	s.store.Save(run)
	return s.toRunResponse(run), nil
}

// RunByID exposes the raw run model for report generation.
func (s *TimetableService) RunByID(id string) (*models.TimetableRun, error) {
	return s.runByID(id)
}

func (s *TimetableService) runByID(id string) (*models.TimetableRun, error) {
	run, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found or expired")
	}
	return run, nil
}

// buildSections normalises course inputs and groups them into sections in
// first-appearance order. Missing hour values degrade to zero.
func buildSections(inputs []dto.CourseInput) ([]models.Course, []models.Section) {
	courses := make([]models.Course, 0, len(inputs))
	index := make(map[models.SectionKey]int)
	sections := make([]models.Section, 0)

	for _, in := range inputs {
		course := models.Course{
			Department: in.Department,
			Semester:   in.Semester,
			Code:       in.Code,
			Name:       in.Name,
			Faculty:    in.Faculty,
			Hours:      in.Hours(),
		}
		courses = append(courses, course)

		key := models.SectionKey{Department: in.Department, Semester: in.Semester}
		pos, ok := index[key]
		if !ok {
			pos = len(sections)
			index[key] = pos
			sections = append(sections, models.Section{Key: key})
		}
		sections[pos].Courses = append(sections[pos].Courses, course)
	}

	return courses, sections
}

func (s *TimetableService) toRunResponse(run *models.TimetableRun) *dto.TimetableRunResponse {
	views := make([]dto.SectionScheduleView, 0, len(run.Grids))
	sectionByKey := make(map[models.SectionKey]models.Section, len(run.Sections))
	for _, section := range run.Sections {
		sectionByKey[section.Key] = section
	}

	for _, grid := range run.Grids {
		section := sectionByKey[grid.Section]
		view := dto.SectionScheduleView{
			Department:  grid.Section.Department,
			Semester:    grid.Section.Semester,
			LectureRoom: section.LectureRoom,
			LabRooms:    []string{section.LabRooms[0], section.LabRooms[1]},
			Sessions:    make([]dto.SessionView, 0),
		}
		for _, session := range timetable.Anchors([]*models.ScheduleGrid{grid}) {
			view.Sessions = append(view.Sessions, s.toSessionView(session))
		}
		sortSessionViews(view.Sessions)
		views = append(views, view)
	}

	return &dto.TimetableRunResponse{
		ID:        run.ID,
		Status:    run.Status,
		Seed:      run.Seed,
		Stats:     run.Stats,
		Sections:  views,
		Audit:     run.Audit,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	}
}

func (s *TimetableService) toSessionView(session *models.Session) dto.SessionView {
	return dto.SessionView{
		Type:       session.Type,
		CourseCode: session.CourseCode,
		CourseName: session.CourseName,
		Faculty:    session.Faculty,
		Day:        session.Day,
		StartSlot:  session.StartSlot,
		Duration:   session.Duration,
		Time:       s.calendar.SpanLabel(session.StartSlot, session.Duration),
		Rooms:      session.Rooms,
	}
}

var dayOrder = func() map[string]int {
	order := make(map[string]int, len(timetable.Days))
	for i, day := range timetable.Days {
		order[day] = i
	}
	return order
}()

func sortSessionViews(views []dto.SessionView) {
	sort.SliceStable(views, func(i, j int) bool {
		if dayOrder[views[i].Day] != dayOrder[views[j].Day] {
			return dayOrder[views[i].Day] < dayOrder[views[j].Day]
		}
		return views[i].StartSlot < views[j].StartSlot
	})
}
