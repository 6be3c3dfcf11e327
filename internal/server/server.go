// Package server exposes the diagnostic pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/config"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/validation"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/kpi"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// SubmissionService is the store surface the handlers need.
type SubmissionService interface {
	Create(ctx context.Context, name, email, propertyURL string, platform models.Platform) (*models.Submission, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
}

// PipelineService runs and promotes submissions.
type PipelineService interface {
	Run(ctx context.Context, id string) *models.RunResult
	RequestReview(ctx context.Context, id string) error
}

// KPIService reads KPI and sentiment fact rows.
type KPIService interface {
	DailyRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.DailyKPI, error)
	SentimentRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.SentimentTopic, error)
}

// Server wires the HTTP surface.
type Server struct {
	cfg      config.ServerConfig
	subs     SubmissionService
	pipeline PipelineService
	kpis     KPIService
	logger   logger.Logger
	http     *http.Server
}

func New(cfg config.ServerConfig, subs SubmissionService, pipe PipelineService, kpis KPIService, log logger.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		subs:     subs,
		pipeline: pipe,
		kpis:     kpis,
		logger:   log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}
	return s
}

// Routes builds the handler mux. Exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/submissions", s.handleSubmissions)
	mux.HandleFunc("/api/submissions/", s.handleSubmissionByID)
	mux.HandleFunc("/api/properties/", s.handlePropertyData)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.http.Addr})
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type createSubmissionRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PropertyURL string `json:"propertyUrl"`
	Platform    string `json:"platform"`
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.ValidateSubmissionInput(req.Name, req.Email, req.PropertyURL, req.Platform); !result.Valid {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": result.Errors,
		})
		return
	}

	platform, ok := models.ParsePlatform(req.Platform)
	if !ok {
		writePipelineError(w, errors.NewInvalidPlatformError(req.Platform))
		return
	}

	sub, err := s.subs.Create(r.Context(), req.Name, req.Email, req.PropertyURL, platform)
	if err != nil {
		s.logger.Error("submission create failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "could not persist submission")
		return
	}

	// flagged at creation so the client can warn the user immediately
	response := map[string]interface{}{"submission": sub}
	if models.IsShortenedURL(platform, req.PropertyURL) {
		response["warning"] = "URL looks like a shortened share link and will be routed to manual review"
	}
	writeJSON(w, http.StatusCreated, response)
}

// handleSubmissionByID serves /api/submissions/{id}[/process|/review].
func (s *Server) handleSubmissionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/submissions/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.getSubmission(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "process" && r.Method == http.MethodPost:
		s.processSubmission(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "review" && r.Method == http.MethodPost:
		s.reviewSubmission(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) getSubmission(w http.ResponseWriter, r *http.Request, id string) {
	sub, err := s.subs.Get(r.Context(), id)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) processSubmission(w http.ResponseWriter, r *http.Request, id string) {
	// run always answers 200; logical failure lives in the body and the
	// persisted submission
	result := s.pipeline.Run(r.Context(), id)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) reviewSubmission(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.pipeline.RequestReview(r.Context(), id); err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": string(models.StatusManualReviewRequested),
	})
}

// handlePropertyData serves /api/properties/{id}/kpis and /sentiment.
func (s *Server) handlePropertyData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/properties/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	propertyID := parts[0]

	from, to, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch parts[1] {
	case "kpis":
		s.getKPIs(w, r, propertyID, from, to)
	case "sentiment":
		s.getSentiment(w, r, propertyID, from, to)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) getKPIs(w http.ResponseWriter, r *http.Request, propertyID string, from, to time.Time) {
	rows, err := s.kpis.DailyRange(r.Context(), propertyID, from, to)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	current := kpi.Summarize(propertyID, rows)
	current.From, current.To = from, to

	// previous period of equal length, ending where this one starts
	period := to.Sub(from)
	prevRows, err := s.kpis.DailyRange(r.Context(), propertyID, from.Add(-period-24*time.Hour), from.Add(-24*time.Hour))
	if err != nil {
		writePipelineError(w, err)
		return
	}
	previous := kpi.Summarize(propertyID, prevRows)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": current,
		"trends":  kpi.Trends(current, previous),
	})
}

func (s *Server) getSentiment(w http.ResponseWriter, r *http.Request, propertyID string, from, to time.Time) {
	rows, err := s.kpis.SentimentRange(r.Context(), propertyID, from, to)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kpi.AnalyzeSentiment(propertyID, rows))
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	var err error
	if v := q.Get("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", v)
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", v)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to date precedes from date")
	}
	return from, to, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writePipelineError maps structured pipeline errors onto HTTP statuses.
func writePipelineError(w http.ResponseWriter, err error) {
	pe := errors.AsPipelineError(err)
	status := http.StatusInternalServerError
	switch pe.Code {
	case errors.ErrCodeSubmissionMissing:
		status = http.StatusNotFound
	case errors.ErrCodeInputRejected, errors.ErrCodeIncompatibleURL, errors.ErrCodeInvalidPlatform:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]interface{}{
		"error":    pe.Message,
		"code":     pe.Code,
		"category": errors.GetErrorCategory(pe.Code),
	})
}
