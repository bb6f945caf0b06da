package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/service"
	"github.com/noah-isme/result-magic-api/pkg/response"
)

type dispatchService interface {
	Preview(ctx context.Context, actor *models.JWTClaims, req service.DispatchRequest) (*service.DispatchResult, error)
	Dispatch(ctx context.Context, actor *models.JWTClaims, req service.DispatchRequest) (*service.DispatchResult, error)
	History(ctx context.Context, actor *models.JWTClaims, limit int) ([]models.DispatchRecord, error)
}

// DispatchHandler generates parent notification links.
type DispatchHandler struct {
	service dispatchService
}

// NewDispatchHandler constructs a DispatchHandler.
func NewDispatchHandler(svc dispatchService) *DispatchHandler {
	return &DispatchHandler{service: svc}
}

// Preview godoc
// @Summary Preview dispatch
// @Description Generate the mailto or WhatsApp links for the selected students without recording them
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param payload body service.DispatchRequest true "Dispatch payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dispatch/preview [post]
func (h *DispatchHandler) Preview(c *gin.Context) {
	h.handle(c, h.service.Preview, http.StatusOK)
}

// Dispatch godoc
// @Summary Dispatch results
// @Description Generate the links for the selected students and record the dispatch
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param payload body service.DispatchRequest true "Dispatch payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dispatch [post]
func (h *DispatchHandler) Dispatch(c *gin.Context) {
	h.handle(c, h.service.Dispatch, http.StatusCreated)
}

func (h *DispatchHandler) handle(c *gin.Context, run func(context.Context, *models.JWTClaims, service.DispatchRequest) (*service.DispatchResult, error), status int) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req service.DispatchRequest
	if !bindJSON(c, &req, "invalid dispatch payload") {
		return
	}
	result, err := run(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, status, result, nil)
}

// History godoc
// @Summary Dispatch history
// @Tags Dispatch
// @Produce json
// @Param limit query int false "Maximum records (default 50)"
// @Success 200 {object} response.Envelope
// @Router /dispatch/history [get]
func (h *DispatchHandler) History(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	records, err := h.service.History(c.Request.Context(), claims, queryInt(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
