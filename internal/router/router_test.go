package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub-backend/internal/handlers"
	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/models"
	"studyhub-backend/internal/websocket"
)

type stubStats struct{}

func (stubStats) GetStats(_ context.Context, _ uuid.UUID) (*models.StudyStats, error) {
	return &models.StudyStats{Weekly: []models.DayBucket{}, Monthly: []models.WeekBucket{}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *middleware.JWTAuth) {
	t.Helper()
	jwtAuth := middleware.NewJWTAuth("router-secret")
	r := New(
		jwtAuth,
		handlers.NewStatsHandler(stubStats{}),
		handlers.NewActivityHandler(nil),
		handlers.NewGroupHandler(nil),
		handlers.NewStudyLogHandler(nil),
		websocket.NewHub(nil, jwtAuth),
		Options{FrontendURL: "http://localhost:3000"},
	)
	return r, jwtAuth
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_APIRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/stats", "/api/v1/activity", "/api/v1/groups/" + uuid.NewString() + "/rank"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRouter_StatsWithToken(t *testing.T) {
	r, jwtAuth := newTestRouter(t)
	token, err := jwtAuth.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
