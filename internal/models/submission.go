package models

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a submission.
type Status string

const (
	StatusPending                Status = "pending"
	StatusProcessing             Status = "processing"
	StatusScrapingRetry          Status = "scraping_retry"
	StatusAnalyzing              Status = "analyzing"
	StatusCompleted              Status = "completed"
	StatusFailed                 Status = "failed"
	StatusPendingManualReview    Status = "pending_manual_review"
	StatusManualReviewRequested  Status = "manual_review_requested"
)

// IsTerminal reports whether the status ends automated processing.
// pending_manual_review is terminal for the pipeline but promotable by a
// human action.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusPendingManualReview:
		return true
	}
	return false
}

// ReviewReason is the machine-checkable cause written with every
// manual-review transition.
type ReviewReason string

const (
	ReasonIncompatibleURL         ReviewReason = "incompatible_url"
	ReasonProviderFailure         ReviewReason = "provider_failure"
	ReasonInsufficientDataQuality ReviewReason = "insufficient_data_quality"
	ReasonAnalysisFailure         ReviewReason = "analysis_failure"
)

// Submission is the root entity: one user-initiated request to diagnose a
// property listing. Owned exclusively by the orchestrator and mutated only
// through state transitions.
type Submission struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	PropertyURL    string                 `json:"propertyUrl"`
	Platform       Platform               `json:"platform"`
	Status         Status                 `json:"status"`
	RetryCount     int                    `json:"retryCount"`
	ReviewReason   ReviewReason           `json:"reviewReason,omitempty"`
	ErrorMessage   string                 `json:"errorMessage,omitempty"`
	RawPayload     json.RawMessage        `json:"rawPayload,omitempty"`
	PropertyData   *ProcessedPropertyData `json:"propertyData,omitempty"`
	AnalysisResult json.RawMessage        `json:"analysisResult,omitempty"`
	ReportID       string                 `json:"reportId,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// RunResult is the transport-level outcome of a pipeline run. The entry
// point always returns one at a success status; internal failure lives in
// the persisted submission.
type RunResult struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	Status         Status  `json:"status"`
	ProcessingTime float64 `json:"processingTime,omitempty"` // seconds
	DataQuality    string  `json:"dataQuality,omitempty"`
}
