package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
	"github.com/esn-apps/scholarship-review-api/pkg/response"
)

type editionService interface {
	List(ctx context.Context) ([]dto.EditionSummary, error)
	Get(ctx context.Context, id string) (*models.Edition, error)
	Create(ctx context.Context, req dto.CreateEditionRequest) (*models.Edition, error)
	Update(ctx context.Context, id string, req dto.UpdateEditionRequest) (*models.Edition, error)
	Delete(ctx context.Context, id string) error
}

// EditionHandler exposes edition management endpoints.
type EditionHandler struct {
	service editionService
}

// NewEditionHandler builds a new handler.
func NewEditionHandler(service editionService) *EditionHandler {
	return &EditionHandler{service: service}
}

// List godoc
// @Summary List editions with applicant counts
// @Tags Editions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /editions [get]
func (h *EditionHandler) List(c *gin.Context) {
	editions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, editions, nil)
}

// Get godoc
// @Summary Get a single edition
// @Tags Editions
// @Produce json
// @Param editionId path string true "Edition ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId} [get]
func (h *EditionHandler) Get(c *gin.Context) {
	edition, err := h.service.Get(c.Request.Context(), c.Param("editionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, edition, nil)
}

// Create godoc
// @Summary Create an edition
// @Tags Editions
// @Accept json
// @Produce json
// @Param payload body dto.CreateEditionRequest true "Edition payload"
// @Success 201 {object} response.Envelope
// @Router /editions [post]
func (h *EditionHandler) Create(c *gin.Context) {
	var req dto.CreateEditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid edition payload"))
		return
	}
	edition, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, edition)
}

// Update godoc
// @Summary Update edition metadata
// @Tags Editions
// @Accept json
// @Produce json
// @Param editionId path string true "Edition ID"
// @Param payload body dto.UpdateEditionRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId} [patch]
func (h *EditionHandler) Update(c *gin.Context) {
	var req dto.UpdateEditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid edition payload"))
		return
	}
	edition, err := h.service.Update(c.Request.Context(), c.Param("editionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, edition, nil)
}

// Delete godoc
// @Summary Delete an edition
// @Tags Editions
// @Param editionId path string true "Edition ID"
// @Success 204
// @Router /editions/{editionId} [delete]
func (h *EditionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("editionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
