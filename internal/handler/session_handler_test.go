package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/middleware"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/service"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type sessionServiceMock struct {
	session   *models.ReviewSession
	step      *service.SessionStep
	err       error
	startRole models.ReviewerRole
	started   bool
	ended     bool
}

func (m *sessionServiceMock) Start(_ context.Context, _ string, role models.ReviewerRole, _ string) (*models.ReviewSession, error) {
	m.started = true
	m.startRole = role
	return m.session, m.err
}

func (m *sessionServiceMock) Current(context.Context, string) (*models.ReviewSession, error) {
	return m.session, m.err
}

func (m *sessionServiceMock) Next(context.Context, string) (*service.SessionStep, error) {
	return m.step, m.err
}

func (m *sessionServiceMock) Previous(context.Context, string) (*service.SessionStep, error) {
	return m.step, m.err
}

func (m *sessionServiceMock) Jump(context.Context, string, int) (*service.SessionStep, error) {
	return m.step, m.err
}

func (m *sessionServiceMock) Resume(context.Context, string) (*service.SessionStep, error) {
	return m.step, m.err
}

func (m *sessionServiceMock) End(context.Context, string) (*models.ReviewSession, error) {
	m.ended = true
	return m.session, m.err
}

func sessionTestContext(t *testing.T, method, target string, body []byte, role models.UserRole) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "rev-1", Role: role, FullName: "Ana Silva"})
	return c, w
}

func TestSessionHandlerStartUsesTokenRole(t *testing.T) {
	mockSvc := &sessionServiceMock{session: &models.ReviewSession{ReviewerID: "rev-1", IsActive: true}}
	handler := NewSessionHandler(mockSvc, service.NewMetricsService())

	body, _ := json.Marshal(map[string]string{"edition_id": "ed-1"})
	c, w := sessionTestContext(t, http.MethodPost, "/session", body, models.RoleReviewerCF)

	handler.Start(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.started)
	assert.Equal(t, models.RoleCF, mockSvc.startRole)
}

func TestSessionHandlerStartRejectsAdmin(t *testing.T) {
	mockSvc := &sessionServiceMock{}
	handler := NewSessionHandler(mockSvc, service.NewMetricsService())

	body, _ := json.Marshal(map[string]string{"edition_id": "ed-1"})
	c, w := sessionTestContext(t, http.MethodPost, "/session", body, models.RoleAdmin)

	handler.Start(c)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, mockSvc.started)
}

func TestSessionHandlerStartNoPendingWork(t *testing.T) {
	mockSvc := &sessionServiceMock{err: appErrors.ErrNoPendingWork}
	handler := NewSessionHandler(mockSvc, service.NewMetricsService())

	body, _ := json.Marshal(map[string]string{"edition_id": "ed-1"})
	c, w := sessionTestContext(t, http.MethodPost, "/session", body, models.RoleReviewerEO)

	handler.Start(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "NO_PENDING_WORK")
}

func TestSessionHandlerNextReturnsStep(t *testing.T) {
	mockSvc := &sessionServiceMock{step: &service.SessionStep{ApplicationID: "app-2", Index: 1, Moved: true}}
	handler := NewSessionHandler(mockSvc, service.NewMetricsService())

	c, w := sessionTestContext(t, http.MethodPost, "/session/next", nil, models.RoleReviewerPresident)

	handler.Next(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"application_id":"app-2"`)
}

func TestSessionHandlerJumpBindsIndex(t *testing.T) {
	mockSvc := &sessionServiceMock{step: &service.SessionStep{Index: 3, Moved: true}}
	handler := NewSessionHandler(mockSvc, service.NewMetricsService())

	body, _ := json.Marshal(map[string]int{"index": 3})
	c, w := sessionTestContext(t, http.MethodPost, "/session/jump", body, models.RoleReviewerPresident)

	handler.Jump(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSessionHandlerEnd(t *testing.T) {
	mockSvc := &sessionServiceMock{session: models.IdleSession("rev-1")}
	handler := NewSessionHandler(mockSvc, service.NewMetricsService())

	c, w := sessionTestContext(t, http.MethodDelete, "/session", nil, models.RoleReviewerEO)

	handler.End(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.ended)
	assert.Contains(t, w.Body.String(), `"is_active":false`)
}
