package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-magic-api/internal/dto"
	"github.com/noah-isme/result-magic-api/internal/middleware"
	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/service"
	"github.com/noah-isme/result-magic-api/pkg/response"
)

type scoreEntryService interface {
	Preview(req service.PreviewRequest) (*models.StudentRecord, error)
	SaveResultSet(ctx context.Context, actor *models.JWTClaims, req service.SaveResultSetRequest) (*models.ResultSet, error)
	List(ctx context.Context, actor *models.JWTClaims, filter models.ResultSetFilter) ([]models.ResultSet, *models.Pagination, error)
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.ResultSet, error)
	Delete(ctx context.Context, actor *models.JWTClaims, id string) error
}

type resultService interface {
	RankingsCached(ctx context.Context, actor *models.JWTClaims, id string) (*dto.ResultRankings, bool, error)
	SubjectRanking(ctx context.Context, actor *models.JWTClaims, id, subject string) (*dto.SubjectRanking, error)
	StudentResult(ctx context.Context, actor *models.JWTClaims, id, studentID string) (*dto.StudentResultSheet, error)
}

// ResultHandler exposes score entry and the ranking views computed from saved result sets.
type ResultHandler struct {
	entries scoreEntryService
	results resultService
}

// NewResultHandler constructs a ResultHandler.
func NewResultHandler(entries scoreEntryService, results resultService) *ResultHandler {
	return &ResultHandler{entries: entries, results: results}
}

// Preview godoc
// @Summary Preview student totals
// @Description Compute one student's subject totals, overall total and average without saving
// @Tags Grading
// @Accept json
// @Produce json
// @Param payload body service.PreviewRequest true "Preview payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grading/preview [post]
func (h *ResultHandler) Preview(c *gin.Context) {
	var req service.PreviewRequest
	if !bindJSON(c, &req, "invalid preview payload") {
		return
	}
	record, err := h.entries.Preview(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Save results
// @Description Save a class configuration and all of its scored students as one result set
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.SaveResultSetRequest true "Result set payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /results [post]
func (h *ResultHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req service.SaveResultSetRequest
	if !bindJSON(c, &req, "invalid result set payload") {
		return
	}
	set, err := h.entries.SaveResultSet(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, set)
}

// List godoc
// @Summary List results
// @Description List saved result sets, newest first. Teachers only see their assigned classes.
// @Tags Results
// @Produce json
// @Param class query string false "Class name"
// @Param term query string false "Term"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	filter := models.ResultSetFilter{
		ClassName: c.Query("class"),
		Term:      c.Query("term"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
	}
	sets, pagination, err := h.entries.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sets, pagination)
}

// Get godoc
// @Summary Get result set
// @Tags Results
// @Produce json
// @Param id path string true "Result set ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{id} [get]
func (h *ResultHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	set, err := h.entries.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, set, nil)
}

// Delete godoc
// @Summary Delete result set
// @Tags Results
// @Param id path string true "Result set ID"
// @Success 204 {string} string "No Content"
// @Failure 404 {object} response.Envelope
// @Router /results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	if err := h.entries.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Rankings godoc
// @Summary Class rankings
// @Description Class ranking by average, every subject ranking and the class summaries
// @Tags Results
// @Produce json
// @Param id path string true "Result set ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{id}/rankings [get]
func (h *ResultHandler) Rankings(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	view, hit, err := h.results.RankingsCached(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}

// SubjectRanking godoc
// @Summary Subject ranking
// @Tags Results
// @Produce json
// @Param id path string true "Result set ID"
// @Param subject path string true "Subject name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{id}/rankings/{subject} [get]
func (h *ResultHandler) SubjectRanking(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	view, err := h.results.SubjectRanking(c.Request.Context(), claims, c.Param("id"), c.Param("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// StudentResult godoc
// @Summary Student result sheet
// @Description Per-subject breakdown, grade, position and performance level of one student
// @Tags Results
// @Produce json
// @Param id path string true "Result set ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{id}/students/{studentId} [get]
func (h *ResultHandler) StudentResult(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	sheet, err := h.results.StudentResult(c.Request.Context(), claims, c.Param("id"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}
