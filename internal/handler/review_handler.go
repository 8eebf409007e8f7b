package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/service"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
	"github.com/esn-apps/scholarship-review-api/pkg/response"
)

type reviewService interface {
	Get(ctx context.Context, editionID, applicationID string) (*models.Review, error)
	MapByEdition(ctx context.Context, editionID string) (map[string]*models.Review, error)
	Save(ctx context.Context, editionID, applicationID string, req dto.SaveReviewRequest, actor *models.JWTClaims) (*models.Review, error)
	Discard(ctx context.Context, editionID, applicationID string, actor *models.JWTClaims) (*models.Review, error)
	Restore(ctx context.Context, editionID, applicationID string, actor *models.JWTClaims) (*models.Review, error)
	Stream(ctx context.Context, editionID string) (<-chan models.ReviewEvent, func(), error)
}

// ReviewHandler exposes review read/write endpoints and the live
// edition feed.
type ReviewHandler struct {
	service reviewService
	metrics *service.MetricsService
}

// NewReviewHandler builds a new handler.
func NewReviewHandler(svc reviewService, metrics *service.MetricsService) *ReviewHandler {
	return &ReviewHandler{service: svc, metrics: metrics}
}

// List godoc
// @Summary Map of stored reviews for an edition keyed by application ID
// @Tags Reviews
// @Produce json
// @Param editionId path string true "Edition ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.service.MapByEdition(c.Request.Context(), c.Param("editionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, nil)
}

// Get godoc
// @Summary Get the review of one application
// @Tags Reviews
// @Produce json
// @Param editionId path string true "Edition ID"
// @Param applicationId path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/applications/{applicationId}/review [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.service.Get(c.Request.Context(), c.Param("editionId"), c.Param("applicationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Save godoc
// @Summary Merge a partial review update
// @Tags Reviews
// @Accept json
// @Produce json
// @Param editionId path string true "Edition ID"
// @Param applicationId path string true "Application ID"
// @Param payload body dto.SaveReviewRequest true "Partial review"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/applications/{applicationId}/review [put]
func (h *ReviewHandler) Save(c *gin.Context) {
	var req dto.SaveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	review, err := h.service.Save(c.Request.Context(), c.Param("editionId"), c.Param("applicationId"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordReviewSave()
	response.JSON(c, http.StatusOK, review, nil)
}

// Discard godoc
// @Summary Discard an application from queues and rankings
// @Tags Reviews
// @Produce json
// @Param editionId path string true "Edition ID"
// @Param applicationId path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/applications/{applicationId}/discard [post]
func (h *ReviewHandler) Discard(c *gin.Context) {
	review, err := h.service.Discard(c.Request.Context(), c.Param("editionId"), c.Param("applicationId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Restore godoc
// @Summary Lift a discard
// @Tags Reviews
// @Produce json
// @Param editionId path string true "Edition ID"
// @Param applicationId path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/applications/{applicationId}/restore [post]
func (h *ReviewHandler) Restore(c *gin.Context) {
	review, err := h.service.Restore(c.Request.Context(), c.Param("editionId"), c.Param("applicationId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review, nil)
}

// Stream godoc
// @Summary Server-sent events feed of review changes in an edition
// @Tags Reviews
// @Produce text/event-stream
// @Param editionId path string true "Edition ID"
// @Router /editions/{editionId}/reviews/stream [get]
func (h *ReviewHandler) Stream(c *gin.Context) {
	events, stop, err := h.service.Stream(c.Request.Context(), c.Param("editionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: review\ndata: %s\n\n", payload)
			c.Writer.Flush()
		}
	}
}
