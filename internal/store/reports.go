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
)

// ReportStore persists generated report documents. Reports are written
// once per submission; regenerating overwrites the previous document so
// queue retries stay idempotent.
type ReportStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewReportStore(db *sql.DB, log logger.Logger) *ReportStore {
	return &ReportStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "report-store"}),
	}
}

// Save upserts the report document for a submission and returns the
// report ID. An existing report for the same submission keeps its ID.
func (s *ReportStore) Save(ctx context.Context, submissionID string, document json.RawMessage) (string, error) {
	reportID := uuid.New().String()
	now := time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reports (id, submission_id, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (submission_id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
		RETURNING id`,
		reportID, submissionID, []byte(document), now,
	).Scan(&reportID)
	if err != nil {
		return "", errors.NewPersistenceError(fmt.Sprintf("save report for %s", submissionID), err)
	}

	s.logger.Info("report saved", map[string]interface{}{
		"submissionId": submissionID,
		"reportId":     reportID,
	})
	return reportID, nil
}

// Get loads the report document for a submission.
func (s *ReportStore) Get(ctx context.Context, submissionID string) (json.RawMessage, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM reports WHERE submission_id = $1`, submissionID,
	).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, errors.NewSubmissionMissingError(submissionID)
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("load report for %s", submissionID), err)
	}
	return document, nil
}
