package dto

import "github.com/acadops/timetable-api/internal/models"

// ReportRequest captures the POST /reports payload.
type ReportRequest struct {
	Type    models.ReportType   `json:"type" binding:"required,oneof=timetable audit faculty"`
	RunID   string              `json:"runId" binding:"required"`
	Faculty string              `json:"faculty,omitempty"`
	Format  models.ReportFormat `json:"format" binding:"required,oneof=csv pdf"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
