package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/service"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
	"github.com/esn-apps/scholarship-review-api/pkg/response"
)

type sessionService interface {
	Start(ctx context.Context, reviewerID string, role models.ReviewerRole, editionID string) (*models.ReviewSession, error)
	Current(ctx context.Context, reviewerID string) (*models.ReviewSession, error)
	Next(ctx context.Context, reviewerID string) (*service.SessionStep, error)
	Previous(ctx context.Context, reviewerID string) (*service.SessionStep, error)
	Jump(ctx context.Context, reviewerID string, index int) (*service.SessionStep, error)
	Resume(ctx context.Context, reviewerID string) (*service.SessionStep, error)
	End(ctx context.Context, reviewerID string) (*models.ReviewSession, error)
}

// SessionHandler exposes the reviewer's queue-walk session. The
// reviewer identity and evaluator role always come from the token, not
// the payload.
type SessionHandler struct {
	service sessionService
	metrics *service.MetricsService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(svc sessionService, metrics *service.MetricsService) *SessionHandler {
	return &SessionHandler{service: svc, metrics: metrics}
}

// Start godoc
// @Summary Start a review session over an edition's pending queue
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.StartSessionRequest true "Edition to review"
// @Success 201 {object} response.Envelope
// @Router /session [post]
func (h *SessionHandler) Start(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	role, ok := models.ReviewerRoleFor(claims.Role)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "account has no evaluator role"))
		return
	}
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.service.Start(c.Request.Context(), claims.UserID, role, req.EditionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.SessionStarted()
	response.Created(c, session)
}

// Current godoc
// @Summary Get the active session
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	session, err := h.service.Current(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Next godoc
// @Summary Advance to the next queue entry
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/next [post]
func (h *SessionHandler) Next(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	step, err := h.service.Next(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, step, nil)
}

// Previous godoc
// @Summary Step back one queue entry
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/previous [post]
func (h *SessionHandler) Previous(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	step, err := h.service.Previous(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, step, nil)
}

// Jump godoc
// @Summary Jump to a queue position
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.JumpRequest true "Target index"
// @Success 200 {object} response.Envelope
// @Router /session/jump [post]
func (h *SessionHandler) Jump(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req dto.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid jump payload"))
		return
	}
	step, err := h.service.Jump(c.Request.Context(), claims.UserID, req.Index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, step, nil)
}

// Resume godoc
// @Summary Resume the session, skipping work completed meanwhile
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/resume [post]
func (h *SessionHandler) Resume(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	step, err := h.service.Resume(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, step, nil)
}

// End godoc
// @Summary End the active session
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [delete]
func (h *SessionHandler) End(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	session, err := h.service.End(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.SessionEnded()
	response.JSON(c, http.StatusOK, session, nil)
}
