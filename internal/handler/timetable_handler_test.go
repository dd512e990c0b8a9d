package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/acadops/timetable-api/internal/dto"
	"github.com/acadops/timetable-api/internal/models"
	appErrors "github.com/acadops/timetable-api/pkg/errors"
)

type timetableServiceMock struct {
	generateResp *dto.TimetableRunResponse
	generateErr  error
	runResp      *dto.TimetableRunResponse
	runErr       error
	auditResp    []models.AuditRow
	auditErr     error
	facultyResp  *dto.FacultyScheduleResponse
	facultyErr   error
	captured     dto.GenerateTimetableRequest
}

func (m *timetableServiceMock) Generate(_ context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableRunResponse, error) {
	m.captured = req
	return m.generateResp, m.generateErr
}

func (m *timetableServiceMock) GetRun(_ context.Context, _ string) (*dto.TimetableRunResponse, error) {
	return m.runResp, m.runErr
}

func (m *timetableServiceMock) GetAudit(_ context.Context, _ string) ([]models.AuditRow, error) {
	return m.auditResp, m.auditErr
}

func (m *timetableServiceMock) FacultySchedule(_ context.Context, _, _ string) (*dto.FacultyScheduleResponse, error) {
	return m.facultyResp, m.facultyErr
}

func (m *timetableServiceMock) SaveRun(_ context.Context, _ string) (*dto.TimetableRunResponse, error) {
	return m.runResp, m.runErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func validGeneratePayload() []byte {
	lecture := 3.0
	tutorial := 1.0
	practical := 2.0
	payload, _ := json.Marshal(dto.GenerateTimetableRequest{
		Courses: []dto.CourseInput{{
			Department: "CSE",
			Semester:   3,
			Code:       "CS301",
			Name:       "Operating Systems",
			Faculty:    "Dr. Rao",
			Lecture:    &lecture,
			Tutorial:   &tutorial,
			Practical:  &practical,
		}},
		Rooms: []dto.RoomInput{
			{ID: "LR1", Type: models.RoomTypeLecture},
			{ID: "LAB1", Type: models.RoomTypeComputerLab},
		},
	})
	return payload
}

func TestTimetableHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{
		generateResp: &dto.TimetableRunResponse{ID: "run-1", Status: models.RunStatusCompleted},
	}
	handler := NewTimetableHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/timetables/generate", validGeneratePayload())
	handler.Generate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "CS301", mockSvc.captured.Courses[0].Code)
}

func TestTimetableHandlerGenerateRejectsBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{})

	c, w := newGinContext(http.MethodPost, "/timetables/generate", []byte(`{"courses":`))
	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerGetRunNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{runErr: appErrors.ErrNotFound}
	handler := NewTimetableHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/timetables/runs/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.GetRun(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerGetAudit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{
		auditResp: []models.AuditRow{{CourseCode: "CS305", Missing: models.HourRequirement{Lecture: 1.5}}},
	}
	handler := NewTimetableHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/timetables/runs/run-1/audit", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	handler.GetAudit(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "CS305")
}

func TestTimetableHandlerFacultyScheduleRequiresQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{})

	c, w := newGinContext(http.MethodGet, "/timetables/runs/run-1/faculty", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	handler.FacultySchedule(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerSaveRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableServiceMock{
		runResp: &dto.TimetableRunResponse{ID: "run-1", Status: models.RunStatusSaved},
	}
	handler := NewTimetableHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/timetables/runs/run-1/save", nil)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	handler.SaveRun(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "SAVED")
}
