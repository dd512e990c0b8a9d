package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/timetable-api/internal/dto"
	"github.com/acadops/timetable-api/internal/models"
	appErrors "github.com/acadops/timetable-api/pkg/errors"
	"github.com/acadops/timetable-api/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableRunResponse, error)
	GetRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error)
	GetAudit(ctx context.Context, id string) ([]models.AuditRow, error)
	FacultySchedule(ctx context.Context, id, faculty string) (*dto.FacultyScheduleResponse, error)
	SaveRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error)
}

// TimetableHandler exposes the generation and audit endpoints.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service timetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// Generate godoc
// @Summary Generate a weekly timetable for the submitted course and room tables
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Course and room tables"
// @Success 201 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload"))
		return
	}
	run, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, run)
}

// GetRun godoc
// @Summary Fetch a generation run by ID
// @Tags Timetables
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/runs/{id} [get]
func (h *TimetableHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// GetAudit godoc
// @Summary Fetch the hour-reconciliation report of a run
// @Tags Timetables
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/runs/{id}/audit [get]
func (h *TimetableHandler) GetAudit(c *gin.Context) {
	rows, err := h.service.GetAudit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// FacultySchedule godoc
// @Summary Fetch one faculty member's schedule within a run
// @Tags Timetables
// @Produce json
// @Param id path string true "Run ID"
// @Param faculty query string true "Faculty name"
// @Success 200 {object} response.Envelope
// @Router /timetables/runs/{id}/faculty [get]
func (h *TimetableHandler) FacultySchedule(c *gin.Context) {
	faculty := c.Query("faculty")
	if faculty == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "faculty query parameter required"))
		return
	}
	schedule, err := h.service.FacultySchedule(c.Request.Context(), c.Param("id"), faculty)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// SaveRun godoc
// @Summary Persist a generation run
// @Tags Timetables
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/runs/{id}/save [post]
func (h *TimetableHandler) SaveRun(c *gin.Context) {
	run, err := h.service.SaveRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}
