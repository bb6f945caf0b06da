package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/service"
	"github.com/noah-isme/result-magic-api/pkg/response"
)

type schoolService interface {
	Get(ctx context.Context, id string) (*models.School, error)
	Update(ctx context.Context, id string, req service.UpdateSchoolRequest) (*models.School, error)
	Delete(ctx context.Context, id string) error
}

// SchoolHandler exposes the profile of the caller's school.
type SchoolHandler struct {
	service schoolService
}

// NewSchoolHandler constructs a SchoolHandler.
func NewSchoolHandler(svc schoolService) *SchoolHandler {
	return &SchoolHandler{service: svc}
}

// Get godoc
// @Summary Get school
// @Description Get the profile of the authenticated user's school
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /school [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	school, err := h.service.Get(c.Request.Context(), claims.SchoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Update godoc
// @Summary Update school
// @Description Update school name, head position and logo
// @Tags School
// @Accept json
// @Produce json
// @Param payload body service.UpdateSchoolRequest true "School payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /school [put]
func (h *SchoolHandler) Update(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req service.UpdateSchoolRequest
	if !bindJSON(c, &req, "invalid school payload") {
		return
	}
	school, err := h.service.Update(c.Request.Context(), claims.SchoolID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school, nil)
}

// Delete godoc
// @Summary Delete school
// @Description Delete the school with all of its users, templates, result sets and dispatch history
// @Tags School
// @Success 204 {string} string "No Content"
// @Failure 404 {object} response.Envelope
// @Router /school [delete]
func (h *SchoolHandler) Delete(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.SchoolID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
