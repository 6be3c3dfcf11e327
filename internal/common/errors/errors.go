// Package errors provides standardized error handling for the diagnostic pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input rejection: known-bad or malformed URLs, never retried.
	ErrCodeInputRejected   ErrorCode = "INPUT_REJECTED"
	ErrCodeIncompatibleURL ErrorCode = "INCOMPATIBLE_URL"
	ErrCodeInvalidPlatform ErrorCode = "INVALID_PLATFORM"

	// Transient provider failures: retried up to the fixed cap.
	ErrCodeScrapeFailed    ErrorCode = "SCRAPE_FAILED"
	ErrCodeScrapeTimeout   ErrorCode = "SCRAPE_TIMEOUT"
	ErrCodeAnalysisFailed  ErrorCode = "ANALYSIS_FAILED"
	ErrCodeAnalysisTimeout ErrorCode = "ANALYSIS_TIMEOUT"

	// Hard failures after a nominally successful call, never retried.
	ErrCodeDataQualityFailed   ErrorCode = "DATA_QUALITY_FAILED"
	ErrCodeAnalysisParseFailed ErrorCode = "ANALYSIS_PARSE_FAILED"

	// Persistence.
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeSubmissionMissing ErrorCode = "SUBMISSION_NOT_FOUND"

	// Downstream continuation.
	ErrCodeReportFailed       ErrorCode = "REPORT_GENERATION_FAILED"
	ErrCodeKPIIngestionFailed ErrorCode = "KPI_INGESTION_FAILED"
	ErrCodeNotificationFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// PipelineError represents a structured application error.
type PipelineError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// AsPipelineError normalizes any error to a *PipelineError.
func AsPipelineError(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return &PipelineError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewIncompatibleURLError creates a non-retryable error for degraded URL patterns.
func NewIncompatibleURLError(url string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeIncompatibleURL,
		Message:   "URL pattern is incompatible with automated retrieval",
		Details:   fmt.Sprintf("url: %s", url),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPlatformError creates a non-retryable error for unknown platforms.
func NewInvalidPlatformError(platform string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeInvalidPlatform,
		Message:   "Platform is not one of the supported sources",
		Details:   fmt.Sprintf("platform: %s", platform),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScrapeFailedError creates a retryable retrieval error.
func NewScrapeFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeScrapeFailed,
		Message:   "Scraping provider call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScrapeTimeoutError creates a retryable retrieval timeout error.
func NewScrapeTimeoutError() *PipelineError {
	return &PipelineError{
		Code:      ErrCodeScrapeTimeout,
		Message:   "Scraping provider call timed out",
		Details:   "call exceeded the configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataQualityError creates a non-retryable quality-gate error.
func NewDataQualityError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeDataQualityFailed,
		Message:   "Retrieved data failed the quality gate",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisFailedError creates a retryable analysis provider error.
func NewAnalysisFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "Analysis provider call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisTimeoutError creates a retryable analysis timeout error.
func NewAnalysisTimeoutError() *PipelineError {
	return &PipelineError{
		Code:      ErrCodeAnalysisTimeout,
		Message:   "Analysis provider call timed out",
		Details:   "call exceeded the configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisParseError creates a non-retryable parse error for analysis output.
func NewAnalysisParseError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeAnalysisParseFailed,
		Message:   "Analysis response could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError creates a retryable persistence error.
func NewPersistenceError(operation string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Persistent store operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionMissingError creates a non-retryable lookup error.
func NewSubmissionMissingError(id string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeSubmissionMissing,
		Message:   "Submission not found",
		Details:   fmt.Sprintf("submissionId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportFailedError creates a retryable report generation error.
func NewReportFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeReportFailed,
		Message:   "Report generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewKPIIngestionError creates a retryable KPI ingestion error.
func NewKPIIngestionError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeKPIIngestionFailed,
		Message:   "KPI ingestion failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationError creates a retryable notification error.
func NewNotificationError(channel string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the retry budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeScrapeFailed,
		ErrCodeScrapeTimeout:
		return 2 // Fixed retrieval retry cap

	case ErrCodeReportFailed,
		ErrCodeKPIIngestionFailed,
		ErrCodeNotificationFailed,
		ErrCodePersistenceFailed:
		return 3 // Queue-side retries for downstream jobs

	default:
		return 0 // Quality, parse and input errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "URL") || strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "PLATFORM"):
		return "INPUT"
	case strings.Contains(codeStr, "SCRAPE"):
		return "RETRIEVAL"
	case strings.Contains(codeStr, "ANALYSIS"):
		return "ANALYSIS"
	case strings.Contains(codeStr, "QUALITY"):
		return "QUALITY"
	case strings.Contains(codeStr, "PERSISTENCE") || strings.Contains(codeStr, "SUBMISSION"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "REPORT") || strings.Contains(codeStr, "KPI") || strings.Contains(codeStr, "NOTIFICATION"):
		return "DOWNSTREAM"
	default:
		return "OTHER"
	}
}
