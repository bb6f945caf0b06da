package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-magic-api/internal/dto"
	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/service"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
	"github.com/noah-isme/result-magic-api/pkg/response"
)

type historyService interface {
	Students(ctx context.Context, actor *models.JWTClaims) ([]dto.StudentSummary, error)
	StudentHistory(ctx context.Context, actor *models.JWTClaims, admissionNumber string, threshold *float64) (*dto.StudentHistory, error)
	Export(ctx context.Context, actor *models.JWTClaims, admissionNumber string, threshold *float64) (*service.ExportFile, error)
}

// HistoryHandler exposes student records across terms.
type HistoryHandler struct {
	service historyService
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(svc historyService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// Students godoc
// @Summary List students
// @Description Every student found in saved result sets, sorted by admission number
// @Tags History
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /history/students [get]
func (h *HistoryHandler) Students(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	students, err := h.service.Students(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// StudentHistory godoc
// @Summary Student history
// @Description Chronological term records, cumulative average and promotion decision
// @Tags History
// @Produce json
// @Param admissionNumber path string true "Admission number"
// @Param threshold query number false "Promotion threshold override"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /history/students/{admissionNumber} [get]
func (h *HistoryHandler) StudentHistory(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	threshold, ok := thresholdQuery(c)
	if !ok {
		return
	}
	history, err := h.service.StudentHistory(c.Request.Context(), claims, c.Param("admissionNumber"), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// Export godoc
// @Summary Export student history
// @Description Download a student's history as JSON
// @Tags History
// @Produce json
// @Param admissionNumber path string true "Admission number"
// @Param threshold query number false "Promotion threshold override"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /history/students/{admissionNumber}/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	threshold, ok := thresholdQuery(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), claims, c.Param("admissionNumber"), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func thresholdQuery(c *gin.Context) (*float64, bool) {
	raw := c.Query("threshold")
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 100 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "threshold must be a number between 0 and 100"))
		return nil, false
	}
	return &value, true
}
