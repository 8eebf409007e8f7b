package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/pkg/response"
)

type applicationService interface {
	List(ctx context.Context, editionID string) ([]models.Application, error)
	Get(ctx context.Context, editionID, id string) (*models.Application, error)
}

// ApplicationHandler exposes read access to imported applications.
type ApplicationHandler struct {
	service applicationService
}

// NewApplicationHandler builds a new handler.
func NewApplicationHandler(service applicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// List godoc
// @Summary List an edition's applications in import order
// @Tags Applications
// @Produce json
// @Param editionId path string true "Edition ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	applications, err := h.service.List(c.Request.Context(), c.Param("editionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applications, nil)
}

// Get godoc
// @Summary Get one application
// @Tags Applications
// @Produce json
// @Param editionId path string true "Edition ID"
// @Param applicationId path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/applications/{applicationId} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	application, err := h.service.Get(c.Request.Context(), c.Param("editionId"), c.Param("applicationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}
