package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/scoring"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type reviewStore interface {
	MapByEdition(ctx context.Context, editionID string) (map[string]*models.Review, error)
	Find(ctx context.Context, editionID, applicationID string) (*models.Review, error)
	Upsert(ctx context.Context, review *models.Review) error
}

type reviewApplicationFinder interface {
	FindByID(ctx context.Context, editionID, id string) (*models.Application, error)
}

type reviewFeed interface {
	Publish(ctx context.Context, event models.ReviewEvent) error
	Subscribe(ctx context.Context, editionID string) (<-chan models.ReviewEvent, func(), error)
}

type rankingInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ReviewService applies partial review updates with merge semantics and
// resolves the explicit review status. Concurrent saves are
// last-write-wins at field granularity: each save merges into the
// stored review before writing it back.
type ReviewService struct {
	reviews      reviewStore
	applications reviewApplicationFinder
	feed         reviewFeed
	cache        rankingInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewReviewService builds a ReviewService with sane defaults.
func NewReviewService(
	reviews reviewStore,
	applications reviewApplicationFinder,
	feed reviewFeed,
	cache rankingInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:      reviews,
		applications: applications,
		feed:         feed,
		cache:        cache,
		validator:    validate,
		logger:       logger,
	}
}

// Get returns the review for one application. An application nobody has
// touched yet gets the canonical empty review rather than a not-found
// error.
func (s *ReviewService) Get(ctx context.Context, editionID, applicationID string) (*models.Review, error) {
	if err := s.ensureApplication(ctx, editionID, applicationID); err != nil {
		return nil, err
	}
	review, err := s.reviews.Find(ctx, editionID, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emptyReview(editionID, applicationID), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	return review, nil
}

// MapByEdition returns every stored review of an edition keyed by
// application ID. Untouched applications are simply absent.
func (s *ReviewService) MapByEdition(ctx context.Context, editionID string) (map[string]*models.Review, error) {
	reviews, err := s.reviews.MapByEdition(ctx, editionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviews")
	}
	return reviews, nil
}

// Save merges a partial update into the stored review and persists the
// result. Submitted scores replace the same criterion/role slot only;
// checklist keys are merged; a comment is appended with the actor's
// identity. The saved review is published on the edition feed and the
// edition's ranking cache is invalidated.
func (s *ReviewService) Save(ctx context.Context, editionID, applicationID string, req dto.SaveReviewRequest, actor *models.JWTClaims) (*models.Review, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if req.Status != nil && !models.ValidReviewStatus(*req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown review status")
	}
	if err := s.ensureApplication(ctx, editionID, applicationID); err != nil {
		return nil, err
	}

	review, err := s.reviews.Find(ctx, editionID, applicationID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
		}
		review = emptyReview(editionID, applicationID)
	}

	review.Scores = review.Scores.Merge(req.Scores)
	if len(req.VerifiedDocs) > 0 {
		if review.VerifiedDocs == nil {
			review.VerifiedDocs = models.DocChecklist{}
		}
		for doc, verified := range req.VerifiedDocs {
			review.VerifiedDocs[doc] = verified
		}
	}
	if req.Comment != nil {
		review.Comments = append(review.Comments, models.Comment{
			Text:      req.Comment.Text,
			Author:    actor.FullName,
			AuthorID:  actor.UserID,
			Timestamp: time.Now().UTC(),
		})
	}
	review.Status = resolveStatus(review, req.Status)
	review.LastUpdated = time.Now().UTC()

	if err := s.reviews.Upsert(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save review")
	}

	s.afterWrite(ctx, review)
	return review, nil
}

// Discard marks an application as discarded, removing it from queues
// and rankings while keeping its data.
func (s *ReviewService) Discard(ctx context.Context, editionID, applicationID string, actor *models.JWTClaims) (*models.Review, error) {
	status := models.ReviewDiscarded
	return s.Save(ctx, editionID, applicationID, dto.SaveReviewRequest{Status: &status}, actor)
}

// Restore lifts a discard. The review drops back to the status its
// contents justify.
func (s *ReviewService) Restore(ctx context.Context, editionID, applicationID string, actor *models.JWTClaims) (*models.Review, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	review, err := s.Get(ctx, editionID, applicationID)
	if err != nil {
		return nil, err
	}
	if review.Status != models.ReviewDiscarded {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "review is not discarded")
	}

	review.Status = models.ReviewNotStarted
	review.Status = resolveStatus(review, nil)
	review.LastUpdated = time.Now().UTC()
	if err := s.reviews.Upsert(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save review")
	}

	s.afterWrite(ctx, review)
	return review, nil
}

// Stream subscribes to the edition's live review feed.
func (s *ReviewService) Stream(ctx context.Context, editionID string) (<-chan models.ReviewEvent, func(), error) {
	events, stop, err := s.feed.Subscribe(ctx, editionID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to subscribe to review feed")
	}
	return events, stop, nil
}

func (s *ReviewService) ensureApplication(ctx context.Context, editionID, applicationID string) error {
	if editionID == "" || applicationID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "editionId and applicationId are required")
	}
	if _, err := s.applications.FindByID(ctx, editionID, applicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return nil
}

func (s *ReviewService) afterWrite(ctx context.Context, review *models.Review) {
	if s.cache != nil {
		pattern := fmt.Sprintf("ranking:%s*", review.EditionID)
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("failed to invalidate ranking cache",
				zap.String("edition_id", review.EditionID), zap.Error(err))
		}
	}
	if s.feed != nil {
		event := models.ReviewEvent{
			EditionID:     review.EditionID,
			ApplicationID: review.ApplicationID,
			Review:        review,
			OccurredAt:    time.Now().UTC(),
		}
		if err := s.feed.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish review event",
				zap.String("application_id", review.ApplicationID), zap.Error(err))
		}
	}
}

// resolveStatus applies the status rules: an explicit status always
// wins; a discarded review stays discarded until restored; any activity
// promotes not_started to in_progress; a fully verified document
// checklist promotes to reviewed.
func resolveStatus(review *models.Review, explicit *models.ReviewStatus) models.ReviewStatus {
	if explicit != nil {
		return *explicit
	}
	status := review.Status
	if status == "" {
		status = models.ReviewNotStarted
	}
	if status == models.ReviewDiscarded {
		return status
	}
	if status == models.ReviewNotStarted && scoring.Touched(review) {
		status = models.ReviewInProgress
	}
	if review.VerifiedDocs.VerifiedCount() >= models.RequiredVerifiedDocs {
		status = models.ReviewReviewed
	}
	return status
}

func emptyReview(editionID, applicationID string) *models.Review {
	return &models.Review{
		ApplicationID: applicationID,
		EditionID:     editionID,
		Status:        models.ReviewNotStarted,
		Scores:        models.ScoreSet{},
		VerifiedDocs:  models.DocChecklist{},
		Comments:      models.CommentList{},
	}
}
