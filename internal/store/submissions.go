// Package store persists submissions, KPI facts and generated reports
// in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// SubmissionStore owns all reads and writes on the submissions table.
type SubmissionStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSubmissionStore(db *sql.DB, log logger.Logger) *SubmissionStore {
	return &SubmissionStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "submission-store"}),
	}
}

// Create inserts a new submission in pending state and returns it with
// its generated ID.
func (s *SubmissionStore) Create(ctx context.Context, name, email, propertyURL string, platform models.Platform) (*models.Submission, error) {
	sub := &models.Submission{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		PropertyURL: propertyURL,
		Platform:    platform,
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, name, email, property_url, platform, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		sub.ID, sub.Name, sub.Email, sub.PropertyURL, sub.Platform, sub.Status, 0, sub.CreatedAt,
	)
	if err != nil {
		return nil, errors.NewPersistenceError("insert submission", err)
	}

	s.logger.Info("submission created", map[string]interface{}{
		"submissionId": sub.ID,
		"platform":     sub.Platform,
	})
	return sub, nil
}

// Get loads one submission by ID.
func (s *SubmissionStore) Get(ctx context.Context, id string) (*models.Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, property_url, platform, status, retry_count,
		       COALESCE(review_reason, ''), COALESCE(error_message, ''),
		       raw_payload, property_data, analysis_result, COALESCE(report_id, ''),
		       created_at, updated_at
		FROM submissions WHERE id = $1`, id)

	var sub models.Submission
	var rawPayload, propertyData, analysisResult []byte
	err := row.Scan(
		&sub.ID, &sub.Name, &sub.Email, &sub.PropertyURL, &sub.Platform,
		&sub.Status, &sub.RetryCount, &sub.ReviewReason, &sub.ErrorMessage,
		&rawPayload, &propertyData, &analysisResult, &sub.ReportID,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewSubmissionMissingError(id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("load submission %s", id), err)
	}

	sub.RawPayload = rawPayload
	sub.AnalysisResult = analysisResult
	if len(propertyData) > 0 {
		var pd models.ProcessedPropertyData
		if err := json.Unmarshal(propertyData, &pd); err != nil {
			return nil, errors.NewPersistenceError(fmt.Sprintf("decode property data for %s", id), err)
		}
		sub.PropertyData = &pd
	}
	return &sub, nil
}

// UpdateStatus transitions a submission to a new status, optionally
// recording a review reason and error message.
func (s *SubmissionStore) UpdateStatus(ctx context.Context, id string, status models.Status, reason models.ReviewReason, errorMessage string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET status = $2, review_reason = NULLIF($3, ''), error_message = NULLIF($4, ''), updated_at = $5
		WHERE id = $1`,
		id, status, string(reason), errorMessage, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("update status for %s", id), err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewSubmissionMissingError(id)
	}

	s.logger.Info("submission status updated", map[string]interface{}{
		"submissionId": id,
		"status":       status,
		"reviewReason": reason,
	})
	return nil
}

// IncrementRetry bumps the retry counter and records the last retrieval
// error while moving the submission into scraping_retry.
func (s *SubmissionStore) IncrementRetry(ctx context.Context, id string, lastError string) (int, error) {
	var retryCount int
	err := s.db.QueryRowContext(ctx, `
		UPDATE submissions
		SET status = $2, retry_count = retry_count + 1, error_message = $3, updated_at = $4
		WHERE id = $1
		RETURNING retry_count`,
		id, models.StatusScrapingRetry, lastError, time.Now().UTC(),
	).Scan(&retryCount)
	if err == sql.ErrNoRows {
		return 0, errors.NewSubmissionMissingError(id)
	}
	if err != nil {
		return 0, errors.NewPersistenceError(fmt.Sprintf("increment retry for %s", id), err)
	}
	return retryCount, nil
}

// SaveScrapeResult stores the raw provider payload and the normalized
// property data produced from it.
func (s *SubmissionStore) SaveScrapeResult(ctx context.Context, id string, rawPayload json.RawMessage, data *models.ProcessedPropertyData) error {
	propertyJSON, err := json.Marshal(data)
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("encode property data for %s", id), err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET raw_payload = $2, property_data = $3, updated_at = $4
		WHERE id = $1`,
		id, []byte(rawPayload), propertyJSON, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("save scrape result for %s", id), err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewSubmissionMissingError(id)
	}
	return nil
}

// SaveAnalysisResult stores the validated analysis document and marks
// the submission completed.
func (s *SubmissionStore) SaveAnalysisResult(ctx context.Context, id string, analysis json.RawMessage) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET analysis_result = $2, status = $3, updated_at = $4
		WHERE id = $1`,
		id, []byte(analysis), models.StatusCompleted, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("save analysis for %s", id), err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewSubmissionMissingError(id)
	}
	return nil
}

// AttachReport links a generated report to its submission.
func (s *SubmissionStore) AttachReport(ctx context.Context, id, reportID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET report_id = $2, updated_at = $3 WHERE id = $1`,
		id, reportID, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("attach report for %s", id), err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewSubmissionMissingError(id)
	}
	return nil
}
