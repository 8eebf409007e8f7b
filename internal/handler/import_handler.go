package handler

import (
	"context"
	"encoding/csv"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/service"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
	"github.com/esn-apps/scholarship-review-api/pkg/response"
)

type importService interface {
	Import(ctx context.Context, editionID string, req dto.ImportRequest) (*models.ImportRun, error)
	GetRun(runID string) (*models.ImportRun, error)
}

// ImportHandler accepts CSV uploads for an edition.
type ImportHandler struct {
	service importService
	metrics *service.MetricsService
}

// NewImportHandler builds a new handler.
func NewImportHandler(svc importService, metrics *service.MetricsService) *ImportHandler {
	return &ImportHandler{service: svc, metrics: metrics}
}

// Upload godoc
// @Summary Import a CSV of applicants into an edition
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param editionId path string true "Edition ID"
// @Param file formData file true "CSV file with a header row"
// @Param async query bool false "Run in the background"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /editions/{editionId}/import [post]
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing csv file upload"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open upload"))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "malformed csv"))
		return
	}
	if len(records) < 2 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "csv needs a header row and at least one data row"))
		return
	}

	run, err := h.service.Import(c.Request.Context(), c.Param("editionId"), dto.ImportRequest{
		Header: records[0],
		Rows:   records[1:],
		Async:  c.Query("async") == "true",
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if run.Status == models.ImportQueued {
		response.JSON(c, http.StatusAccepted, run, nil)
		return
	}
	h.recordMetrics(run)
	response.JSON(c, http.StatusOK, run, nil)
}

// Run godoc
// @Summary Get the state of an import run
// @Tags Import
// @Produce json
// @Param runId path string true "Import run ID"
// @Success 200 {object} response.Envelope
// @Router /imports/{runId} [get]
func (h *ImportHandler) Run(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

func (h *ImportHandler) recordMetrics(run *models.ImportRun) {
	if run.Summary == nil {
		return
	}
	batch := run.Summary.Batch
	okChunks := batch.Chunks
	failedChunks := 0
	if batch.FailedChunk > 0 {
		okChunks = batch.FailedChunk - 1
		failedChunks = 1
	}
	h.metrics.RecordImport(batch.Upserted, okChunks, failedChunks)
}
