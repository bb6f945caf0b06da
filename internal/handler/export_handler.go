package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/service"
	"github.com/noah-isme/result-magic-api/pkg/export"
	"github.com/noah-isme/result-magic-api/pkg/response"
)

type exportService interface {
	ClassSummary(ctx context.Context, actor *models.JWTClaims, id string, format export.Format) (*service.ExportFile, error)
	StudentSheet(ctx context.Context, actor *models.JWTClaims, id, studentID string, format export.Format) (*service.ExportFile, error)
}

// ExportHandler streams printable class summaries and result sheets.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ClassSummary godoc
// @Summary Export class summary
// @Description Download the class ranking as CSV, PDF or XLSX
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Result set ID"
// @Param format query string false "csv, pdf or xlsx (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /results/{id}/export [get]
func (h *ExportHandler) ClassSummary(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.ClassSummary(c.Request.Context(), claims, c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// StudentSheet godoc
// @Summary Export student result sheet
// @Description Download one student's result sheet as CSV, PDF or XLSX
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Result set ID"
// @Param studentId path string true "Student ID"
// @Param format query string false "csv, pdf or xlsx (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{id}/students/{studentId}/export [get]
func (h *ExportHandler) StudentSheet(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.StudentSheet(c.Request.Context(), claims, c.Param("id"), c.Param("studentId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
