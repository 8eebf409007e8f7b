package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/middleware"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/service"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type reviewServiceMock struct {
	review    *models.Review
	reviews   map[string]*models.Review
	err       error
	lastSave  dto.SaveReviewRequest
	saveCalls int
}

func (m *reviewServiceMock) Get(context.Context, string, string) (*models.Review, error) {
	return m.review, m.err
}

func (m *reviewServiceMock) MapByEdition(context.Context, string) (map[string]*models.Review, error) {
	return m.reviews, m.err
}

func (m *reviewServiceMock) Save(_ context.Context, _, _ string, req dto.SaveReviewRequest, _ *models.JWTClaims) (*models.Review, error) {
	m.saveCalls++
	m.lastSave = req
	return m.review, m.err
}

func (m *reviewServiceMock) Discard(context.Context, string, string, *models.JWTClaims) (*models.Review, error) {
	return m.review, m.err
}

func (m *reviewServiceMock) Restore(context.Context, string, string, *models.JWTClaims) (*models.Review, error) {
	return m.review, m.err
}

func (m *reviewServiceMock) Stream(context.Context, string) (<-chan models.ReviewEvent, func(), error) {
	ch := make(chan models.ReviewEvent)
	close(ch)
	return ch, func() {}, m.err
}

func reviewTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{
		{Key: "editionId", Value: "ed-1"},
		{Key: "applicationId", Value: "app-1"},
	}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "rev-1", Role: models.RoleReviewerPresident})
	return c, w
}

func TestReviewHandlerSaveCoercesScores(t *testing.T) {
	mockSvc := &reviewServiceMock{review: &models.Review{ApplicationID: "app-1", Status: models.ReviewInProgress}}
	handler := NewReviewHandler(mockSvc, service.NewMetricsService())

	// Numeric strings count as set; empty strings do not.
	body := []byte(`{"scores":{"motivation":{"president":"17"},"fit":{"president":""}}}`)
	c, w := reviewTestContext(t, http.MethodPut, "/editions/ed-1/applications/app-1/review", body)

	handler.Save(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, mockSvc.saveCalls)

	score := mockSvc.lastSave.Scores.Get(models.CriterionMotivation, models.RolePresident)
	assert.True(t, score.Set)
	assert.Equal(t, 17.0, score.Value)
	assert.False(t, mockSvc.lastSave.Scores.Get(models.CriterionFit, models.RolePresident).Set)
}

func TestReviewHandlerSaveMalformedBody(t *testing.T) {
	mockSvc := &reviewServiceMock{}
	handler := NewReviewHandler(mockSvc, service.NewMetricsService())

	c, w := reviewTestContext(t, http.MethodPut, "/editions/ed-1/applications/app-1/review", []byte(`{"scores":`))

	handler.Save(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, mockSvc.saveCalls)
}

func TestReviewHandlerGetServiceError(t *testing.T) {
	mockSvc := &reviewServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "application not found")}
	handler := NewReviewHandler(mockSvc, service.NewMetricsService())

	c, w := reviewTestContext(t, http.MethodGet, "/editions/ed-1/applications/app-1/review", nil)

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewHandlerListReturnsMap(t *testing.T) {
	mockSvc := &reviewServiceMock{reviews: map[string]*models.Review{
		"app-1": {ApplicationID: "app-1", Status: models.ReviewReviewed},
	}}
	handler := NewReviewHandler(mockSvc, service.NewMetricsService())

	c, w := reviewTestContext(t, http.MethodGet, "/editions/ed-1/reviews", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"reviewed"`)
}

func TestReviewHandlerDiscard(t *testing.T) {
	mockSvc := &reviewServiceMock{review: &models.Review{ApplicationID: "app-1", Status: models.ReviewDiscarded}}
	handler := NewReviewHandler(mockSvc, service.NewMetricsService())

	c, w := reviewTestContext(t, http.MethodPost, "/editions/ed-1/applications/app-1/discard", nil)

	handler.Discard(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"discarded"`)
}
