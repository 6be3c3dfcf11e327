// Package report turns a completed submission into a persisted report
// document with actionable recommendations.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/pipeline"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/scoring"
)

// SubmissionSource loads submissions and records the generated report
// reference.
type SubmissionSource interface {
	Get(ctx context.Context, id string) (*models.Submission, error)
	AttachReport(ctx context.Context, id, reportID string) error
}

// DocumentSink persists report documents. Save must be idempotent per
// submission because the queue can deliver a job more than once.
type DocumentSink interface {
	Save(ctx context.Context, submissionID string, document json.RawMessage) (string, error)
}

// Document is the generated report payload.
type Document struct {
	SubmissionID    string             `json:"submissionId"`
	PropertyName    string             `json:"propertyName"`
	Location        string             `json:"location"`
	GeneratedAt     time.Time          `json:"generatedAt"`
	HealthScore     models.HealthScore `json:"healthScore"`
	Recommendations []Recommendation   `json:"recommendations"`
	Analysis        json.RawMessage    `json:"analysis,omitempty"`
}

// Recommendation flags a score component running well under its weight.
type Recommendation struct {
	Component  string  `json:"component"`
	Score      float64 `json:"score"`
	Cap        float64 `json:"cap"`
	Suggestion string  `json:"suggestion"`
}

// Assembler builds and persists report documents off the downstream
// queue.
type Assembler struct {
	subs    SubmissionSource
	reports DocumentSink
	logger  logger.Logger
}

func NewAssembler(subs SubmissionSource, reports DocumentSink, log logger.Logger) *Assembler {
	return &Assembler{
		subs:    subs,
		reports: reports,
		logger:  log.WithFields(map[string]interface{}{"component": "report-assembler"}),
	}
}

// HandleJob is the queue handler for report assembly jobs.
func (a *Assembler) HandleJob(ctx context.Context, job pipeline.Job) error {
	sub, err := a.subs.Get(ctx, job.SubmissionID)
	if err != nil {
		return err
	}
	if sub.Status != models.StatusCompleted {
		// Completed is a terminal status; anything else means the job
		// raced a state change and there is nothing to report on.
		a.logger.Warn("skipping report for non-completed submission", map[string]interface{}{
			"submissionId": sub.ID,
			"status":       sub.Status,
		})
		return nil
	}
	if sub.PropertyData == nil {
		return errors.NewReportFailedError(fmt.Errorf("submission %s has no property data", sub.ID))
	}

	document, err := json.Marshal(a.Assemble(sub))
	if err != nil {
		return errors.NewReportFailedError(fmt.Errorf("encode report for %s: %w", sub.ID, err))
	}

	reportID, err := a.reports.Save(ctx, sub.ID, document)
	if err != nil {
		return err
	}
	if err := a.subs.AttachReport(ctx, sub.ID, reportID); err != nil {
		return err
	}

	a.logger.Info("report assembled", map[string]interface{}{
		"submissionId": sub.ID,
		"reportId":     reportID,
	})
	return nil
}

// Assemble builds the report document for a completed submission.
func (a *Assembler) Assemble(sub *models.Submission) Document {
	data := sub.PropertyData
	score := scoring.CalculateHealthScore(
		data.Performance.Rating,
		data.Performance.ReviewCount,
		len(data.Photos) > 0,
		data.BasicInfo.Description != "",
		0.5, // market context is not persisted, score pricing neutrally
	)

	return Document{
		SubmissionID:    sub.ID,
		PropertyName:    data.BasicInfo.Name,
		Location:        data.BasicInfo.Location,
		GeneratedAt:     time.Now().UTC(),
		HealthScore:     score,
		Recommendations: recommendations(score.Breakdown),
		Analysis:        sub.AnalysisResult,
	}
}

// underperformThreshold marks a component as needing attention when it
// earns less than this share of its weight.
const underperformThreshold = 0.6

var componentAdvice = map[string]string{
	"classificacao":          "Improve guest satisfaction drivers; the average rating is holding the score down.",
	"presenca_digital":       "Grow the review base and complete the listing content to strengthen digital presence.",
	"performance_financeira": "Revisit pricing against the local market to improve financial performance.",
	"infraestrutura":         "Address recurring complaints about the property's condition and facilities.",
	"experiencia_hospede":    "Add photos and a fuller description so guests know what to expect.",
	"gestao_reputacao":       "Collect more reviews; a thin review history limits reputation management.",
}

func recommendations(b models.ScoreBreakdown) []Recommendation {
	components := []struct {
		name  string
		score float64
		cap   float64
	}{
		{"classificacao", b.Classificacao, scoring.CapClassificacao},
		{"presenca_digital", b.PresencaDigital, scoring.CapPresencaDigital},
		{"performance_financeira", b.PerformanceFinanceira, scoring.CapPerformanceFinanceira},
		{"infraestrutura", b.Infraestrutura, scoring.CapInfraestrutura},
		{"experiencia_hospede", b.ExperienciaHospede, scoring.CapExperienciaHospede},
		{"gestao_reputacao", b.GestaoReputacao, scoring.CapGestaoReputacao},
	}

	var out []Recommendation
	for _, c := range components {
		if c.score < c.cap*underperformThreshold {
			out = append(out, Recommendation{
				Component:  c.name,
				Score:      c.score,
				Cap:        c.cap,
				Suggestion: componentAdvice[c.name],
			})
		}
	}
	return out
}
