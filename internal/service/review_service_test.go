package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type stubReviewStore struct {
	reviews map[string]*models.Review
	saved   []*models.Review
}

func newStubReviewStore() *stubReviewStore {
	return &stubReviewStore{reviews: map[string]*models.Review{}}
}

func (s *stubReviewStore) MapByEdition(context.Context, string) (map[string]*models.Review, error) {
	return s.reviews, nil
}

func (s *stubReviewStore) Find(_ context.Context, _, applicationID string) (*models.Review, error) {
	review, ok := s.reviews[applicationID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *review
	return &copied, nil
}

func (s *stubReviewStore) Upsert(_ context.Context, review *models.Review) error {
	copied := *review
	s.reviews[review.ApplicationID] = &copied
	s.saved = append(s.saved, &copied)
	return nil
}

type stubApplicationFinder struct {
	known map[string]bool
}

func (s *stubApplicationFinder) FindByID(_ context.Context, editionID, id string) (*models.Application, error) {
	if !s.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Application{ID: id, EditionID: editionID}, nil
}

type stubFeed struct {
	events []models.ReviewEvent
}

func (s *stubFeed) Publish(_ context.Context, event models.ReviewEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubFeed) Subscribe(context.Context, string) (<-chan models.ReviewEvent, func(), error) {
	ch := make(chan models.ReviewEvent)
	close(ch)
	return ch, func() {}, nil
}

type stubInvalidator struct {
	patterns []string
}

func (s *stubInvalidator) DeleteByPattern(_ context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return nil
}

func reviewerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-1", FullName: "Ana Silva", Role: models.RoleReviewerPresident}
}

func newTestReviewService(store *stubReviewStore, feed *stubFeed, cache *stubInvalidator) *ReviewService {
	apps := &stubApplicationFinder{known: map[string]bool{"app-1": true, "app-2": true}}
	return NewReviewService(store, apps, feed, cache, nil, nil)
}

func TestReviewGetUntouchedReturnsEmptyReview(t *testing.T) {
	svc := newTestReviewService(newStubReviewStore(), &stubFeed{}, &stubInvalidator{})

	review, err := svc.Get(context.Background(), "ed-1", "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewNotStarted, review.Status)
	assert.Empty(t, review.Scores)
	assert.Empty(t, review.Comments)
}

func TestReviewGetUnknownApplication(t *testing.T) {
	svc := newTestReviewService(newStubReviewStore(), &stubFeed{}, &stubInvalidator{})

	_, err := svc.Get(context.Background(), "ed-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReviewSaveFirstScorePromotesToInProgress(t *testing.T) {
	store := newStubReviewStore()
	feed := &stubFeed{}
	cache := &stubInvalidator{}
	svc := newTestReviewService(store, feed, cache)

	req := dto.SaveReviewRequest{
		Scores: models.ScoreSet{
			models.CriterionMotivation: {models.RolePresident: {Value: 18, Set: true}},
		},
	}
	review, err := svc.Save(context.Background(), "ed-1", "app-1", req, reviewerClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewInProgress, review.Status)
	assert.False(t, review.LastUpdated.IsZero())

	require.Len(t, feed.events, 1)
	assert.Equal(t, "app-1", feed.events[0].ApplicationID)
	assert.Equal(t, []string{"ranking:ed-1*"}, cache.patterns)
}

func TestReviewSaveMergesWithoutClobbering(t *testing.T) {
	store := newStubReviewStore()
	store.reviews["app-1"] = &models.Review{
		ApplicationID: "app-1",
		EditionID:     "ed-1",
		Status:        models.ReviewInProgress,
		Scores: models.ScoreSet{
			models.CriterionMotivation: {models.RoleEO: {Value: 20, Set: true}},
		},
		VerifiedDocs: models.DocChecklist{"iban": true},
	}
	svc := newTestReviewService(store, &stubFeed{}, &stubInvalidator{})

	req := dto.SaveReviewRequest{
		Scores: models.ScoreSet{
			models.CriterionMotivation: {models.RolePresident: {Value: 15, Set: true}},
		},
		VerifiedDocs: map[string]bool{"transcript": true},
	}
	review, err := svc.Save(context.Background(), "ed-1", "app-1", req, reviewerClaims())
	require.NoError(t, err)

	// The other role's slot and the earlier checklist entry survive.
	assert.Equal(t, 20.0, review.Scores.Get(models.CriterionMotivation, models.RoleEO).Value)
	assert.Equal(t, 15.0, review.Scores.Get(models.CriterionMotivation, models.RolePresident).Value)
	assert.True(t, review.VerifiedDocs["iban"])
	assert.True(t, review.VerifiedDocs["transcript"])
}

func TestReviewSaveAppendsCommentWithActor(t *testing.T) {
	store := newStubReviewStore()
	svc := newTestReviewService(store, &stubFeed{}, &stubInvalidator{})

	req := dto.SaveReviewRequest{Comment: &dto.CommentInput{Text: "strong motivation letter"}}
	review, err := svc.Save(context.Background(), "ed-1", "app-1", req, reviewerClaims())
	require.NoError(t, err)
	require.Len(t, review.Comments, 1)
	assert.Equal(t, "strong motivation letter", review.Comments[0].Text)
	assert.Equal(t, "Ana Silva", review.Comments[0].Author)
	assert.Equal(t, "u-1", review.Comments[0].AuthorID)
	assert.Equal(t, models.ReviewInProgress, review.Status)
}

func TestReviewSaveFullChecklistPromotesToReviewed(t *testing.T) {
	store := newStubReviewStore()
	svc := newTestReviewService(store, &stubFeed{}, &stubInvalidator{})

	docs := map[string]bool{
		"iban": true, "transcript": true, "enrollment": true,
		"insurance": true, "acceptance": true, "id_card": true,
	}
	review, err := svc.Save(context.Background(), "ed-1", "app-1",
		dto.SaveReviewRequest{VerifiedDocs: docs}, reviewerClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewReviewed, review.Status)
}

func TestReviewSaveExplicitStatusWins(t *testing.T) {
	store := newStubReviewStore()
	svc := newTestReviewService(store, &stubFeed{}, &stubInvalidator{})

	status := models.ReviewInProgress
	docs := map[string]bool{
		"iban": true, "transcript": true, "enrollment": true,
		"insurance": true, "acceptance": true, "id_card": true,
	}
	review, err := svc.Save(context.Background(), "ed-1", "app-1",
		dto.SaveReviewRequest{VerifiedDocs: docs, Status: &status}, reviewerClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewInProgress, review.Status)
}

func TestReviewSaveRejectsUnknownStatus(t *testing.T) {
	svc := newTestReviewService(newStubReviewStore(), &stubFeed{}, &stubInvalidator{})

	status := models.ReviewStatus("archived")
	_, err := svc.Save(context.Background(), "ed-1", "app-1",
		dto.SaveReviewRequest{Status: &status}, reviewerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewSaveRequiresActor(t *testing.T) {
	svc := newTestReviewService(newStubReviewStore(), &stubFeed{}, &stubInvalidator{})

	_, err := svc.Save(context.Background(), "ed-1", "app-1", dto.SaveReviewRequest{}, nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestReviewDiscardAndRestore(t *testing.T) {
	store := newStubReviewStore()
	svc := newTestReviewService(store, &stubFeed{}, &stubInvalidator{})

	// Some prior work so restore lands on in_progress, not not_started.
	_, err := svc.Save(context.Background(), "ed-1", "app-1", dto.SaveReviewRequest{
		Scores: models.ScoreSet{models.CriterionFit: {models.RoleCF: {Value: 9, Set: true}}},
	}, reviewerClaims())
	require.NoError(t, err)

	discarded, err := svc.Discard(context.Background(), "ed-1", "app-1", reviewerClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewDiscarded, discarded.Status)

	restored, err := svc.Restore(context.Background(), "ed-1", "app-1", reviewerClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewInProgress, restored.Status)
	assert.Equal(t, 9.0, restored.Scores.Get(models.CriterionFit, models.RoleCF).Value)
}

func TestReviewRestoreRequiresDiscardedState(t *testing.T) {
	store := newStubReviewStore()
	svc := newTestReviewService(store, &stubFeed{}, &stubInvalidator{})

	_, err := svc.Restore(context.Background(), "ed-1", "app-1", reviewerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}
