package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type applicationStore interface {
	ListByEdition(ctx context.Context, editionID string) ([]models.Application, error)
	FindByID(ctx context.Context, editionID, id string) (*models.Application, error)
	CountByEdition(ctx context.Context, editionID string) (int, error)
}

type applicationEditionReader interface {
	FindByID(ctx context.Context, id string) (*models.Edition, error)
}

// ApplicationService exposes read access to imported applications.
// Writes only happen through the import pipeline.
type ApplicationService struct {
	applications applicationStore
	editions     applicationEditionReader
	logger       *zap.Logger
}

// NewApplicationService builds an ApplicationService.
func NewApplicationService(applications applicationStore, editions applicationEditionReader, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{applications: applications, editions: editions, logger: logger}
}

// List returns the edition's applications in import order.
func (s *ApplicationService) List(ctx context.Context, editionID string) ([]models.Application, error) {
	if err := s.ensureEdition(ctx, editionID); err != nil {
		return nil, err
	}
	applications, err := s.applications.ListByEdition(ctx, editionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return applications, nil
}

// Get returns one application.
func (s *ApplicationService) Get(ctx context.Context, editionID, id string) (*models.Application, error) {
	if err := s.ensureEdition(ctx, editionID); err != nil {
		return nil, err
	}
	application, err := s.applications.FindByID(ctx, editionID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return application, nil
}

func (s *ApplicationService) ensureEdition(ctx context.Context, editionID string) error {
	if editionID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "editionId is required")
	}
	if _, err := s.editions.FindByID(ctx, editionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "edition not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load edition")
	}
	return nil
}
