package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/config"
	pipeerrors "github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type stubSubmissions struct {
	created *models.Submission
	get     *models.Submission
	getErr  error
}

func (s *stubSubmissions) Create(ctx context.Context, name, email, propertyURL string, platform models.Platform) (*models.Submission, error) {
	s.created = &models.Submission{
		ID: "sub-1", Name: name, Email: email, PropertyURL: propertyURL,
		Platform: platform, Status: models.StatusPending,
	}
	return s.created, nil
}

func (s *stubSubmissions) Get(ctx context.Context, id string) (*models.Submission, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.get, nil
}

type stubPipeline struct {
	runResult *models.RunResult
	reviewErr error
	ranID     string
}

func (s *stubPipeline) Run(ctx context.Context, id string) *models.RunResult {
	s.ranID = id
	return s.runResult
}

func (s *stubPipeline) RequestReview(ctx context.Context, id string) error {
	return s.reviewErr
}

type stubKPIs struct {
	daily     []models.DailyKPI
	sentiment []models.SentimentTopic
}

func (s *stubKPIs) DailyRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.DailyKPI, error) {
	return s.daily, nil
}

func (s *stubKPIs) SentimentRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.SentimentTopic, error) {
	return s.sentiment, nil
}

func newTestServer(subs *stubSubmissions, pipe *stubPipeline, kpis *stubKPIs) http.Handler {
	if subs == nil {
		subs = &stubSubmissions{}
	}
	if pipe == nil {
		pipe = &stubPipeline{runResult: &models.RunResult{Success: true}}
	}
	if kpis == nil {
		kpis = &stubKPIs{}
	}
	return New(config.ServerConfig{Port: 0}, subs, pipe, kpis, logger.NewNoOpLogger()).Routes()
}

func TestCreateSubmission(t *testing.T) {
	subs := &stubSubmissions{}
	handler := newTestServer(subs, nil, nil)

	body := `{"name":"Ana","email":"ana@example.com","propertyUrl":"https://www.booking.com/hotel/pt/casa.html","platform":"Booking"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, subs.created)
	assert.Equal(t, models.PlatformBooking, subs.created.Platform)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "warning")
}

func TestCreateSubmissionFlagsShortenedURL(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	body := `{"name":"Ana","email":"ana@example.com","propertyUrl":"https://www.booking.com/Share-abc","platform":"booking"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "warning")
}

func TestCreateSubmissionValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@b.pt","propertyUrl":"https://x.com/1","platform":"booking"}`},
		{"bad email", `{"name":"Ana","email":"nope","propertyUrl":"https://x.com/1","platform":"booking"}`},
		{"bad url", `{"name":"Ana","email":"a@b.pt","propertyUrl":"ftp:nope","platform":"booking"}`},
		{"not json", `###`},
	}
	handler := newTestServer(nil, nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateSubmissionUnknownPlatform(t *testing.T) {
	handler := newTestServer(nil, nil, nil)
	body := `{"name":"Ana","email":"a@b.pt","propertyUrl":"https://x.com/1","platform":"couchsurfing"}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(pipeerrors.ErrCodeInvalidPlatform), resp["code"])
	assert.Equal(t, "INPUT", resp["category"])
}

func TestProcessSubmissionAlways200(t *testing.T) {
	pipe := &stubPipeline{runResult: &models.RunResult{
		Success: true,
		Message: "routed to manual review: provider kept failing",
		Status:  models.StatusPendingManualReview,
	}}
	handler := newTestServer(nil, pipe, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions/sub-1/process", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sub-1", pipe.ranID)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, models.StatusPendingManualReview, result.Status)
}

func TestGetSubmission(t *testing.T) {
	subs := &stubSubmissions{get: &models.Submission{ID: "sub-1", Status: models.StatusCompleted}}
	handler := newTestServer(subs, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/sub-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var sub models.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, models.StatusCompleted, sub.Status)
}

func TestGetSubmissionNotFound(t *testing.T) {
	subs := &stubSubmissions{getErr: pipeerrors.NewSubmissionMissingError("missing")}
	handler := newTestServer(subs, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewRejection(t *testing.T) {
	pipe := &stubPipeline{reviewErr: &pipeerrors.PipelineError{
		Code:    pipeerrors.ErrCodeInputRejected,
		Message: "submission is not awaiting manual review",
	}}
	handler := newTestServer(nil, pipe, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submissions/sub-1/review", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetKPIs(t *testing.T) {
	kpis := &stubKPIs{daily: []models.DailyKPI{
		{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Revenue: 100, Bookings: 1, OccupancyRate: 50, ADR: 100, RevPAR: 50},
	}}
	handler := newTestServer(nil, nil, kpis)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/p1/kpis?from=2026-03-01&to=2026-03-31", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Summary models.KPISummary `json:"summary"`
		Trends  models.KPITrends  `json:"trends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 100.0, resp.Summary.TotalRevenue, 0.001)
}

func TestGetKPIsBadRange(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/p1/kpis?from=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSentiment(t *testing.T) {
	kpis := &stubKPIs{sentiment: []models.SentimentTopic{
		{Topic: "cleanliness", Score: -0.6, Mentions: 4},
	}}
	handler := newTestServer(nil, nil, kpis)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/p1/sentiment", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var insight models.SentimentInsight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insight))
	assert.True(t, insight.RequiresImmediateAttention)
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
