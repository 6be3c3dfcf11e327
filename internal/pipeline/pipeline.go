// Package pipeline drives a submission through retrieval, normalization,
// scoring and analysis, persisting every state transition.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/adapters"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/metrics"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/observability"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/normalize"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/scoring"
)

// SubmissionRepo is the persistence surface the orchestrator mutates
// submissions through.
type SubmissionRepo interface {
	Get(ctx context.Context, id string) (*models.Submission, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, reason models.ReviewReason, errorMessage string) error
	IncrementRetry(ctx context.Context, id string, lastError string) (int, error)
	SaveScrapeResult(ctx context.Context, id string, rawPayload json.RawMessage, data *models.ProcessedPropertyData) error
	SaveAnalysisResult(ctx context.Context, id string, analysis json.RawMessage) error
}

// Scraper retrieves the raw listing payload.
type Scraper interface {
	Scrape(ctx context.Context, propertyURL string, platform models.Platform) (json.RawMessage, error)
}

// Analyzer produces the validated analysis document.
type Analyzer interface {
	Analyze(ctx context.Context, data *models.ProcessedPropertyData, score models.HealthScore, insight models.MarketInsight) (json.RawMessage, error)
}

// MarketAnalyzer benchmarks the property; it never fails.
type MarketAnalyzer interface {
	AnalyzeMarket(ctx context.Context, property models.CompProperty, photoCount int, lastAnalyzed time.Time) models.MarketInsight
}

// Notifier alerts operations about manual-review transitions. Delivery
// failures stay inside the notifier.
type Notifier interface {
	ManualReviewAlert(ctx context.Context, sub *models.Submission, reason models.ReviewReason, message string)
}

// Enqueuer hands completed submissions to the downstream queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}

// Options carries the orchestrator's fixed retry policy.
type Options struct {
	MaxRetries int           // retrieval retries after the first attempt
	RetryDelay time.Duration // fixed, not exponential
}

// Orchestrator owns the submission state machine. One Run call per
// submission at a time, enforced by the claim lease.
type Orchestrator struct {
	subs       SubmissionRepo
	scraper    Scraper
	analyzer   Analyzer
	market     MarketAnalyzer
	notifier   Notifier
	queue      Enqueuer
	claims     *Claimer
	normalizer *normalize.Engine
	obs        *observability.Observability
	opts       Options
	logger     logger.Logger
}

func NewOrchestrator(
	subs SubmissionRepo,
	scraper Scraper,
	analyzer Analyzer,
	market MarketAnalyzer,
	notifier Notifier,
	queue Enqueuer,
	claims *Claimer,
	obs *observability.Observability,
	opts Options,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		subs:       subs,
		scraper:    scraper,
		analyzer:   analyzer,
		market:     market,
		notifier:   notifier,
		queue:      queue,
		claims:     claims,
		normalizer: normalize.NewEngine(),
		obs:        obs,
		opts:       opts,
		logger:     log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// Run drives one submission through the pipeline. It always returns a
// result rather than an error: logical failure is written onto the
// persisted submission, and the result only reports what happened.
func (o *Orchestrator) Run(ctx context.Context, id string) *models.RunResult {
	started := time.Now()
	result := o.run(ctx, id)
	result.ProcessingTime = time.Since(started).Seconds()

	metrics.PipelineRunsCompleted.WithLabelValues(string(result.Status)).Inc()
	if o.obs != nil {
		o.obs.RecordRunProcessed(ctx, string(result.Status))
		o.obs.RecordRunDuration(ctx, time.Since(started), string(result.Status))
	}
	return result
}

func (o *Orchestrator) run(ctx context.Context, id string) *models.RunResult {
	sub, err := o.subs.Get(ctx, id)
	if err != nil {
		return &models.RunResult{
			Success: false,
			Message: fmt.Sprintf("submission %s not found", id),
		}
	}

	if sub.Status == models.StatusCompleted {
		return &models.RunResult{Success: true, Message: "submission already completed", Status: sub.Status}
	}
	if sub.Status == models.StatusFailed {
		return &models.RunResult{Success: false, Message: "submission already failed", Status: sub.Status}
	}
	if sub.Status == models.StatusPendingManualReview {
		return &models.RunResult{Success: true, Message: "submission awaiting manual review", Status: sub.Status}
	}

	release, acquired, err := o.claims.Acquire(ctx, id)
	if err != nil {
		o.logger.Error("claim acquisition failed", map[string]interface{}{
			"submissionId": id,
			"error":        err.Error(),
		})
		return &models.RunResult{Success: false, Message: "claim store unavailable", Status: sub.Status}
	}
	if !acquired {
		return &models.RunResult{Success: true, Message: "submission is already being processed", Status: sub.Status}
	}
	defer release()

	// Shortened share links never reach the retrieval provider.
	if models.IsShortenedURL(sub.Platform, sub.PropertyURL) {
		return o.manualReview(ctx, sub, models.ReasonIncompatibleURL,
			"shortened share link cannot be scraped, expand it to the full listing URL")
	}

	if err := o.subs.UpdateStatus(ctx, id, models.StatusProcessing, "", ""); err != nil {
		return o.persistenceFailure(ctx, sub, err)
	}

	payload, outcome := o.scrapeWithRetries(ctx, sub)
	if outcome != nil {
		return outcome
	}

	data := o.normalizeStage(sub, payload)
	if err := o.subs.SaveScrapeResult(ctx, id, payload, data); err != nil {
		return o.persistenceFailure(ctx, sub, err)
	}

	if qerr := validateScrapedData(data); qerr != nil {
		return o.manualReview(ctx, sub, models.ReasonInsufficientDataQuality, qerr.Details)
	}

	if err := o.subs.UpdateStatus(ctx, id, models.StatusAnalyzing, "", ""); err != nil {
		return o.persistenceFailure(ctx, sub, err)
	}

	insight := o.market.AnalyzeMarket(ctx, compFromData(id, data), len(data.Photos), time.Time{})
	score := o.scoreStage(data, insight)

	analysis, err := o.analyzer.Analyze(ctx, data, score, insight)
	if err != nil {
		pe := errors.AsPipelineError(err)
		return o.manualReview(ctx, sub, models.ReasonAnalysisFailure, pe.Details)
	}

	if err := o.subs.SaveAnalysisResult(ctx, id, analysis); err != nil {
		return o.persistenceFailure(ctx, sub, err)
	}

	o.enqueueDownstream(ctx, id)

	o.logger.Info("pipeline run completed", map[string]interface{}{
		"submissionId": id,
		"platform":     sub.Platform,
		"healthScore":  score.Total,
		"category":     score.Category,
	})
	return &models.RunResult{
		Success:     true,
		Message:     "analysis completed",
		Status:      models.StatusCompleted,
		DataQuality: "sufficient",
	}
}

// scrapeWithRetries calls the retrieval provider with the fixed retry
// policy. A nil outcome means payload is usable; a non-nil outcome is
// the terminal result of the run.
func (o *Orchestrator) scrapeWithRetries(ctx context.Context, sub *models.Submission) (json.RawMessage, *models.RunResult) {
	stageStart := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues("scrape").Observe(time.Since(stageStart).Seconds())
	}()

	var lastErr *errors.PipelineError
	for attempt := 0; attempt <= o.opts.MaxRetries; attempt++ {
		payload, err := o.scraper.Scrape(ctx, sub.PropertyURL, sub.Platform)
		if err == nil {
			return payload, nil
		}

		lastErr = errors.AsPipelineError(err)
		if !lastErr.Retryable || attempt == o.opts.MaxRetries {
			break
		}

		if _, rerr := o.subs.IncrementRetry(ctx, sub.ID, lastErr.Error()); rerr != nil {
			return nil, o.persistenceFailure(ctx, sub, rerr)
		}
		metrics.ScrapeRetries.WithLabelValues(string(sub.Platform)).Inc()
		o.logger.Warn("retrieval failed, retrying", map[string]interface{}{
			"submissionId": sub.ID,
			"attempt":      attempt + 1,
			"error":        lastErr.Error(),
		})

		select {
		case <-time.After(o.opts.RetryDelay):
		case <-ctx.Done():
			return nil, o.manualReview(ctx, sub, models.ReasonProviderFailure, "run cancelled while waiting to retry retrieval")
		}
	}

	return nil, o.manualReview(ctx, sub, models.ReasonProviderFailure, lastErr.Details)
}

func (o *Orchestrator) normalizeStage(sub *models.Submission, payload json.RawMessage) *models.ProcessedPropertyData {
	stageStart := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues("normalize").Observe(time.Since(stageStart).Seconds())
	}()

	intermediate := adapters.Adapt(sub.Platform, payload)
	if intermediate.Error != "" {
		o.logger.Warn("adapter reported parse trouble", map[string]interface{}{
			"submissionId": sub.ID,
			"detail":       intermediate.Error,
		})
	}
	data := o.normalizer.Normalize(string(sub.Platform), intermediate)
	return &data
}

func (o *Orchestrator) scoreStage(data *models.ProcessedPropertyData, insight models.MarketInsight) models.HealthScore {
	return scoring.CalculateHealthScore(
		data.Performance.Rating,
		data.Performance.ReviewCount,
		len(data.Photos) > 0,
		data.BasicInfo.Description != "",
		priceCompetitiveness(data.Pricing.BasePrice, insight.SuggestedPrice),
	)
}

// validateScrapedData is the quality gate: a usable record needs a
// non-placeholder identity plus at least one substantive signal.
func validateScrapedData(data *models.ProcessedPropertyData) *errors.PipelineError {
	if data.HasPlaceholderIdentity() {
		return errors.NewDataQualityError("property name or location could not be extracted")
	}
	hasSignal := data.Performance.Rating > 0 ||
		data.Performance.ReviewCount > 0 ||
		len(data.Amenities) > 0
	if !hasSignal {
		return errors.NewDataQualityError("no rating, reviews or amenities extracted")
	}
	return nil
}

// priceCompetitiveness maps the listing price against the suggested
// market price into 0..1. An unknown price scores neutral.
func priceCompetitiveness(basePrice string, suggested float64) float64 {
	price, ok := normalize.ExtractPrice(basePrice)
	if !ok || price <= 0 || suggested <= 0 {
		return 0.5
	}
	if price <= suggested {
		return 1.0
	}
	return suggested / price
}

func compFromData(id string, data *models.ProcessedPropertyData) models.CompProperty {
	return models.CompProperty{
		ID:           id,
		PropertyType: data.BasicInfo.Type,
		Location:     data.BasicInfo.Location,
		Amenities:    data.Amenities,
	}
}

// manualReview routes the submission to a human and still reports a
// successful run: the pipeline did its job, the listing needs eyes.
func (o *Orchestrator) manualReview(ctx context.Context, sub *models.Submission, reason models.ReviewReason, message string) *models.RunResult {
	if err := o.subs.UpdateStatus(ctx, sub.ID, models.StatusPendingManualReview, reason, message); err != nil {
		return o.persistenceFailure(ctx, sub, err)
	}
	metrics.PipelineRunsFailed.WithLabelValues(string(reason)).Inc()
	o.logger.Warn("submission routed to manual review", map[string]interface{}{
		"submissionId": sub.ID,
		"reason":       reason,
		"detail":       message,
	})
	if o.notifier != nil {
		o.notifier.ManualReviewAlert(ctx, sub, reason, message)
	}

	quality := ""
	if reason == models.ReasonInsufficientDataQuality {
		quality = "insufficient"
	}
	return &models.RunResult{
		Success:     true,
		Message:     fmt.Sprintf("routed to manual review: %s", message),
		Status:      models.StatusPendingManualReview,
		DataQuality: quality,
	}
}

// persistenceFailure is the one failure mode Run surfaces as a hard
// failed status: without the store there is nowhere to record anything
// softer.
func (o *Orchestrator) persistenceFailure(ctx context.Context, sub *models.Submission, err error) *models.RunResult {
	pe := errors.AsPipelineError(err)
	o.logger.Error("persistence failure during run", map[string]interface{}{
		"submissionId": sub.ID,
		"error":        pe.Error(),
	})
	// Best effort; the store may be entirely gone.
	_ = o.subs.UpdateStatus(ctx, sub.ID, models.StatusFailed, "", pe.Details)
	return &models.RunResult{
		Success: false,
		Message: "persistent store operation failed",
		Status:  models.StatusFailed,
	}
}

func (o *Orchestrator) enqueueDownstream(ctx context.Context, id string) {
	for _, kind := range []JobKind{JobReportAssembly, JobKPIIngestion} {
		job := Job{Kind: kind, SubmissionID: id}
		if err := o.queue.Enqueue(ctx, job); err != nil {
			o.logger.Error("downstream enqueue failed", map[string]interface{}{
				"submissionId": id,
				"kind":         kind,
				"error":        err.Error(),
			})
		}
	}
}

// RequestReview promotes a submission out of pending_manual_review after
// a human decision.
func (o *Orchestrator) RequestReview(ctx context.Context, id string) error {
	sub, err := o.subs.Get(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status != models.StatusPendingManualReview {
		return &errors.PipelineError{
			Code:      errors.ErrCodeInputRejected,
			Message:   "submission is not awaiting manual review",
			Details:   fmt.Sprintf("submissionId: %s, status: %s", id, sub.Status),
			Timestamp: time.Now().UTC(),
		}
	}
	return o.subs.UpdateStatus(ctx, id, models.StatusManualReviewRequested, "", "")
}
