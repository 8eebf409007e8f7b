package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type editionStore interface {
	List(ctx context.Context) ([]models.Edition, error)
	FindByID(ctx context.Context, id string) (*models.Edition, error)
	Create(ctx context.Context, edition *models.Edition) error
	Update(ctx context.Context, edition *models.Edition) error
	Delete(ctx context.Context, id string) error
}

type editionApplicationCounter interface {
	CountByEdition(ctx context.Context, editionID string) (int, error)
}

// EditionService manages edition lifecycle.
type EditionService struct {
	editions     editionStore
	applications editionApplicationCounter
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewEditionService builds an EditionService with sane defaults.
func NewEditionService(editions editionStore, applications editionApplicationCounter, validate *validator.Validate, logger *zap.Logger) *EditionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditionService{editions: editions, applications: applications, validator: validate, logger: logger}
}

// List returns all editions, newest first, with applicant counts.
func (s *EditionService) List(ctx context.Context) ([]dto.EditionSummary, error) {
	editions, err := s.editions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list editions")
	}
	summaries := make([]dto.EditionSummary, 0, len(editions))
	for _, edition := range editions {
		count, err := s.applications.CountByEdition(ctx, edition.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count applications")
		}
		summaries = append(summaries, dto.EditionSummary{
			ID:               edition.ID,
			Name:             edition.Name,
			AcademicYear:     edition.AcademicYear,
			Semester:         edition.Semester,
			Active:           edition.Active,
			ApplicationCount: count,
		})
	}
	return summaries, nil
}

// Get returns one edition.
func (s *EditionService) Get(ctx context.Context, id string) (*models.Edition, error) {
	edition, err := s.editions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "edition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load edition")
	}
	return edition, nil
}

// Create registers a new edition.
func (s *EditionService) Create(ctx context.Context, req dto.CreateEditionRequest) (*models.Edition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edition payload")
	}
	edition := &models.Edition{
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Active:       req.Active,
	}
	if err := s.editions.Create(ctx, edition); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create edition")
	}
	s.logger.Info("edition created", zap.String("edition_id", edition.ID), zap.String("name", edition.Name))
	return edition, nil
}

// Update patches edition metadata.
func (s *EditionService) Update(ctx context.Context, id string, req dto.UpdateEditionRequest) (*models.Edition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edition payload")
	}
	edition, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		edition.Name = *req.Name
	}
	if req.AcademicYear != nil {
		edition.AcademicYear = *req.AcademicYear
	}
	if req.Semester != nil {
		edition.Semester = *req.Semester
	}
	if req.Active != nil {
		edition.Active = *req.Active
	}
	if err := s.editions.Update(ctx, edition); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update edition")
	}
	return edition, nil
}

// Delete removes an edition record. Applications and reviews stay in
// place for retention; they become unreachable through the API once the
// edition is gone.
func (s *EditionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.editions.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete edition")
	}
	s.logger.Info("edition deleted", zap.String("edition_id", id))
	return nil
}
