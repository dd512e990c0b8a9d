package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadops/timetable-api/internal/dto"
	"github.com/acadops/timetable-api/internal/models"
	appErrors "github.com/acadops/timetable-api/pkg/errors"
)

type runPersisterMock struct {
	saved *models.TimetableRun
	err   error
}

func (m *runPersisterMock) SaveRun(_ context.Context, run *models.TimetableRun) error {
	m.saved = run
	return m.err
}

func floatPtr(v float64) *float64 { return &v }

func sampleGenerateRequest() dto.GenerateTimetableRequest {
	return dto.GenerateTimetableRequest{
		Courses: []dto.CourseInput{{
			Department: "CSE",
			Semester:   3,
			Code:       "CS301",
			Name:       "Operating Systems",
			Faculty:    "Dr. Rao",
			Lecture:    floatPtr(3),
			Tutorial:   floatPtr(1),
			Practical:  floatPtr(2),
		}},
		Rooms: []dto.RoomInput{
			{ID: "LR1", Type: models.RoomTypeLecture},
			{ID: "LAB1", Type: models.RoomTypeComputerLab},
			{ID: "LAB2", Type: models.RoomTypeComputerLab},
		},
		Options: dto.GenerateOptions{Seed: 42},
	}
}

func newTestTimetableService(repo runPersister) *TimetableService {
	return NewTimetableService(repo, nil, nil, zap.NewNop(), TimetableServiceConfig{
		AttemptBudget: 1000,
		RunTTL:        time.Minute,
	})
}

func TestTimetableServiceGenerate(t *testing.T) {
	svc := newTestTimetableService(nil)

	run, err := svc.Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	require.Equal(t, models.RunStatusCompleted, run.Status)
	require.Equal(t, int64(42), run.Seed)

	require.Len(t, run.Sections, 1)
	section := run.Sections[0]
	assert.Equal(t, "CSE", section.Department)
	assert.Equal(t, 3, section.Semester)
	assert.Equal(t, "LR1", section.LectureRoom)
	assert.Equal(t, []string{"LAB1", "LAB2"}, section.LabRooms)

	// L=3 T=1 P=2 decomposes into two lectures, one tutorial, one lab.
	assert.Equal(t, 4, run.Stats.SessionsRequested)
	assert.Equal(t, 4, run.Stats.SessionsPlaced)
	assert.Len(t, section.Sessions, 4)
	assert.Empty(t, run.Audit)

	fetched, err := svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, fetched.ID)
}

func TestTimetableServiceGenerateIsSeedReproducible(t *testing.T) {
	first, err := newTestTimetableService(nil).Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)
	second, err := newTestTimetableService(nil).Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)

	require.Len(t, second.Sections, len(first.Sections))
	assert.Equal(t, first.Sections[0].Sessions, second.Sections[0].Sessions)
}

func TestTimetableServiceGenerateRequiresCourses(t *testing.T) {
	svc := newTestTimetableService(nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTimetableServiceMissingHoursDegradeToZero(t *testing.T) {
	svc := newTestTimetableService(nil)

	req := dto.GenerateTimetableRequest{
		Courses: []dto.CourseInput{{
			Department: "CSE",
			Semester:   3,
			Code:       "CS999",
			Faculty:    "Dr. Rao",
			// no hour fields at all
		}},
	}
	run, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, run.Stats.SessionsRequested)
	assert.Empty(t, run.Audit, "a zero-hour course has nothing missing")
}

func TestTimetableServiceFacultySchedule(t *testing.T) {
	svc := newTestTimetableService(nil)
	run, err := svc.Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)

	schedule, err := svc.FacultySchedule(context.Background(), run.ID, "Dr. Rao")
	require.NoError(t, err)
	assert.Len(t, schedule.Sessions, 4)

	empty, err := svc.FacultySchedule(context.Background(), run.ID, "Dr. Nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.Sessions)

	_, err = svc.FacultySchedule(context.Background(), "missing-run", "Dr. Rao")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceSaveRun(t *testing.T) {
	repo := &runPersisterMock{}
	svc := newTestTimetableService(repo)
	run, err := svc.Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)

	saved, err := svc.SaveRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSaved, saved.Status)
	require.NotNil(t, repo.saved)
	assert.Equal(t, run.ID, repo.saved.ID)
}

func TestTimetableServiceSaveRunPersistenceFailure(t *testing.T) {
	repo := &runPersisterMock{err: errors.New("db down")}
	svc := newTestTimetableService(repo)
	run, err := svc.Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)

	_, err = svc.SaveRun(context.Background(), run.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceSaveRunWithoutPersistence(t *testing.T) {
	svc := newTestTimetableService(nil)
	run, err := svc.Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)

	_, err = svc.SaveRun(context.Background(), run.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestRunStoreExpiry(t *testing.T) {
	store := newRunStore(10 * time.Millisecond)
	run := &models.TimetableRun{ID: "run-1", CreatedAt: time.Now().UTC()}
	store.Save(run)

	got, ok := store.Get("run-1")
	require.True(t, ok)
	require.Equal(t, run.ID, got.ID)

	time.Sleep(20 * time.Millisecond)
	_, ok = store.Get("run-1")
	require.False(t, ok)
}
