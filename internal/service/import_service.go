package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
	"github.com/esn-apps/scholarship-review-api/pkg/jobs"
)

// Application fields resolvable from a CSV header. Aliases cover the
// header variants the registration form exports have used over the
// years.
var columnAliases = map[string][]string{
	"name":                {"name", "full name", "applicant", "student name"},
	"email":               {"email", "e-mail", "mail", "email address"},
	"university":          {"university", "institution", "home university"},
	"course":              {"course", "degree", "study programme", "program"},
	"destination_city":    {"destination city", "city", "host city", "destination"},
	"destination_country": {"destination country", "country", "host country"},
	"semester":            {"semester", "term"},
	"academic_year":       {"academic year", "year"},
}

// Document link columns are matched by prefix so "doc: iban" and
// "doc: motivation letter" both resolve.
const documentColumnPrefix = "doc:"

type importApplicationWriter interface {
	BatchUpsert(ctx context.Context, editionID string, apps []models.Application) (models.BatchResult, error)
}

type importEditionReader interface {
	FindByID(ctx context.Context, id string) (*models.Edition, error)
}

// ImportService turns parsed CSV content into application rows and
// writes them through the chunked batch upsert. Runs can execute
// inline or on the background queue; either way the run record tracks
// the outcome, including partial batch failures.
type ImportService struct {
	applications importApplicationWriter
	editions     importEditionReader
	queue        *jobs.Queue
	validator    *validator.Validate
	logger       *zap.Logger

	mu   sync.RWMutex
	runs map[string]*models.ImportRun
}

type importJobPayload struct {
	runID     string
	editionID string
	header    []string
	rows      [][]string
}

// NewImportService builds an ImportService. Call StartWorkers before
// accepting async imports.
func NewImportService(
	applications importApplicationWriter,
	editions importEditionReader,
	validate *validator.Validate,
	logger *zap.Logger,
	queueCfg jobs.QueueConfig,
) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ImportService{
		applications: applications,
		editions:     editions,
		validator:    validate,
		logger:       logger,
		runs:         map[string]*models.ImportRun{},
	}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("csv-import", s.handleJob, queueCfg)
	return s
}

// StartWorkers launches the background import workers.
func (s *ImportService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains and stops the background import workers.
func (s *ImportService) StopWorkers() {
	s.queue.Stop()
}

// Import processes a parsed CSV for an edition. Synchronous runs return
// with the final summary; async runs return immediately in the queued
// state and are tracked via GetRun.
func (s *ImportService) Import(ctx context.Context, editionID string, req dto.ImportRequest) (*models.ImportRun, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}
	if editionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "editionId is required")
	}
	if _, err := s.editions.FindByID(ctx, editionID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "edition not found")
	}
	mapping := AutoMapColumns(req.Header)
	if _, ok := mapping["name"]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "could not locate a name column in the header")
	}

	run := &models.ImportRun{
		ID:        uuid.NewString(),
		EditionID: editionID,
		Status:    models.ImportQueued,
		StartedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	if req.Async {
		err := s.queue.Enqueue(jobs.Job{
			ID:   run.ID,
			Type: "csv-import",
			Payload: importJobPayload{
				runID:     run.ID,
				editionID: editionID,
				header:    req.Header,
				rows:      req.Rows,
			},
		})
		if err != nil {
			s.finishRun(run.ID, nil, err)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue import")
		}
		return s.GetRun(run.ID)
	}

	s.execute(ctx, run.ID, editionID, req.Header, req.Rows)
	return s.GetRun(run.ID)
}

// GetRun returns a snapshot of one import run.
func (s *ImportService) GetRun(runID string) (*models.ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "import run not found")
	}
	copied := *run
	return &copied, nil
}

func (s *ImportService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(importJobPayload)
	if !ok {
		s.logger.Error("unexpected import job payload", zap.String("job_id", job.ID))
		return nil
	}
	s.execute(ctx, payload.runID, payload.editionID, payload.header, payload.rows)
	return nil
}

func (s *ImportService) execute(ctx context.Context, runID, editionID string, header []string, rows [][]string) {
	s.setStatus(runID, models.ImportRunning)

	mapping := AutoMapColumns(header)
	applications, skipped := MapRows(editionID, mapping, header, rows)

	result, err := s.applications.BatchUpsert(ctx, editionID, applications)
	summary := &models.ImportSummary{
		Mapped:  len(applications),
		Skipped: skipped,
		Batch:   result,
	}
	s.finishRun(runID, summary, err)

	if err != nil {
		s.logger.Error("import batch failed",
			zap.String("run_id", runID),
			zap.String("edition_id", editionID),
			zap.Int("upserted", result.Upserted),
			zap.Int("failed_chunk", result.FailedChunk),
			zap.Error(err))
		return
	}
	s.logger.Info("import completed",
		zap.String("run_id", runID),
		zap.String("edition_id", editionID),
		zap.Int("mapped", summary.Mapped),
		zap.Int("skipped", summary.Skipped),
		zap.Int("chunks", result.Chunks))
}

func (s *ImportService) setStatus(runID string, status models.ImportRunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[runID]; ok {
		run.Status = status
	}
}

func (s *ImportService) finishRun(runID string, summary *models.ImportSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Summary = summary
	switch {
	case err == nil:
		run.Status = models.ImportCompleted
	case summary != nil && summary.Batch.Partial():
		run.Status = models.ImportPartial
		run.Error = err.Error()
	default:
		run.Status = models.ImportFailed
		run.Error = err.Error()
	}
}

// AutoMapColumns resolves application fields to header positions by
// normalised alias matching. The first matching column wins; unmatched
// fields are simply absent.
func AutoMapColumns(header []string) dto.ColumnMapping {
	mapping := dto.ColumnMapping{}
	for index, column := range header {
		normalised := normaliseHeader(column)
		if normalised == "" {
			continue
		}
		for field, aliases := range columnAliases {
			if _, taken := mapping[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalised == alias {
					mapping[field] = index
					break
				}
			}
		}
	}
	return mapping
}

// MapRows converts CSV data rows to applications using the resolved
// mapping. Row identity is the zero-based data row index, so re-imports
// of the same sheet update in place. Rows with neither name nor email
// are skipped.
func MapRows(editionID string, mapping dto.ColumnMapping, header []string, rows [][]string) ([]models.Application, int) {
	applications := make([]models.Application, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		app := models.Application{
			ID:                 strconv.Itoa(i),
			EditionID:          editionID,
			RowIndex:           i,
			Name:               cell(row, mapping, "name"),
			Email:              cell(row, mapping, "email"),
			University:         cell(row, mapping, "university"),
			Course:             cell(row, mapping, "course"),
			DestinationCity:    cell(row, mapping, "destination_city"),
			DestinationCountry: cell(row, mapping, "destination_country"),
			Semester:           cell(row, mapping, "semester"),
			AcademicYear:       cell(row, mapping, "academic_year"),
			Documents:          documentLinks(header, row),
		}
		if app.Name == "" && app.Email == "" {
			skipped++
			continue
		}
		applications = append(applications, app)
	}
	return applications, skipped
}

func cell(row []string, mapping dto.ColumnMapping, field string) string {
	index, ok := mapping[field]
	if !ok || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func documentLinks(header []string, row []string) models.DocumentLinks {
	var links models.DocumentLinks
	for index, column := range header {
		normalised := normaliseHeader(column)
		if !strings.HasPrefix(normalised, documentColumnPrefix) {
			continue
		}
		if index >= len(row) {
			continue
		}
		url := strings.TrimSpace(row[index])
		if url == "" {
			continue
		}
		if links == nil {
			links = models.DocumentLinks{}
		}
		name := strings.TrimSpace(strings.TrimPrefix(normalised, documentColumnPrefix))
		links[name] = url
	}
	return links
}

func normaliseHeader(column string) string {
	return strings.ToLower(strings.TrimSpace(column))
}
