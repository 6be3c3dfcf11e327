package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/normalize"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/pipeline"
)

// SubmissionSource loads a submission for ingestion.
type SubmissionSource interface {
	Get(ctx context.Context, id string) (*models.Submission, error)
}

// FactSink appends daily KPI fact rows.
type FactSink interface {
	InsertDaily(ctx context.Context, row models.DailyKPI) error
}

// Ingestor converts a completed analysis into one daily KPI fact row so
// trend queries have a data point for the day the diagnosis ran.
type Ingestor struct {
	subs   SubmissionSource
	facts  FactSink
	logger logger.Logger
	now    func() time.Time
}

func NewIngestor(subs SubmissionSource, facts FactSink, log logger.Logger) *Ingestor {
	return &Ingestor{
		subs:   subs,
		facts:  facts,
		logger: log.WithFields(map[string]interface{}{"component": "kpi-ingestor"}),
		now:    time.Now,
	}
}

// HandleJob is the queue handler for KPI ingestion jobs.
func (i *Ingestor) HandleJob(ctx context.Context, job pipeline.Job) error {
	sub, err := i.subs.Get(ctx, job.SubmissionID)
	if err != nil {
		return err
	}
	if sub.Status != models.StatusCompleted {
		i.logger.Warn("skipping kpi ingestion for non-completed submission", map[string]interface{}{
			"submissionId": sub.ID,
			"status":       sub.Status,
		})
		return nil
	}
	if sub.PropertyData == nil {
		return errors.NewKPIIngestionError(fmt.Errorf("submission %s has no property data", sub.ID))
	}

	row := i.FactRow(sub)
	if err := i.facts.InsertDaily(ctx, row); err != nil {
		return err
	}

	i.logger.Info("kpi fact row ingested", map[string]interface{}{
		"submissionId": sub.ID,
		"date":         row.Date.Format("2006-01-02"),
	})
	return nil
}

// FactRow derives the daily fact row from the submission's normalized
// property data. Revenue and booking counts are not observable from a
// listing snapshot and stay zero.
func (i *Ingestor) FactRow(sub *models.Submission) models.DailyKPI {
	perf := sub.PropertyData.Performance

	adr := perf.AverageDailyRate
	if adr == 0 {
		if price, ok := normalize.ExtractPrice(sub.PropertyData.Pricing.BasePrice); ok {
			adr = price
		}
	}

	return models.DailyKPI{
		PropertyID:    sub.ID,
		Date:          i.now().UTC().Truncate(24 * time.Hour),
		OccupancyRate: perf.OccupancyRate,
		ADR:           adr,
		RevPAR:        adr * perf.OccupancyRate / 100,
	}
}
