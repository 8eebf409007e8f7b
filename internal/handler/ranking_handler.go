package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/pkg/response"
)

type rankingService interface {
	Ranking(ctx context.Context, editionID string) ([]dto.RankingEntry, error)
	ExportCSV(ctx context.Context, editionID string) ([]byte, error)
	ExportPDF(ctx context.Context, editionID string) ([]byte, error)
}

// RankingHandler exposes the live ranking and its downloads.
type RankingHandler struct {
	service rankingService
}

// NewRankingHandler builds a new handler.
func NewRankingHandler(service rankingService) *RankingHandler {
	return &RankingHandler{service: service}
}

// Get godoc
// @Summary Live ranking of an edition, highest total first
// @Tags Ranking
// @Produce json
// @Param editionId path string true "Edition ID"
// @Success 200 {object} response.Envelope
// @Router /editions/{editionId}/ranking [get]
func (h *RankingHandler) Get(c *gin.Context) {
	entries, err := h.service.Ranking(c.Request.Context(), c.Param("editionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ExportCSV godoc
// @Summary Download the ranking as CSV
// @Tags Ranking
// @Produce text/csv
// @Param editionId path string true "Edition ID"
// @Router /editions/{editionId}/ranking/export.csv [get]
func (h *RankingHandler) ExportCSV(c *gin.Context) {
	editionID := c.Param("editionId")
	data, err := h.service.ExportCSV(c.Request.Context(), editionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("ranking-%s.csv", editionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Download the ranking as PDF
// @Tags Ranking
// @Produce application/pdf
// @Param editionId path string true "Edition ID"
// @Router /editions/{editionId}/ranking/export.pdf [get]
func (h *RankingHandler) ExportPDF(c *gin.Context) {
	editionID := c.Param("editionId")
	data, err := h.service.ExportPDF(c.Request.Context(), editionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("ranking-%s.pdf", editionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
