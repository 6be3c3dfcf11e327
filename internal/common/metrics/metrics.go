package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_completed_total",
			Help: "Total number of pipeline runs by terminal status",
		},
		[]string{"status"},
	)

	PipelineRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_failed_total",
			Help: "Total number of pipeline runs routed to manual review",
		},
		[]string{"reason"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stage processing in seconds",
		},
		[]string{"stage"},
	)

	ScrapeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_scrape_retries_total",
			Help: "Total number of retrieval retry attempts",
		},
		[]string{"platform"},
	)

	QueueJobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_queue_jobs_total",
			Help: "Downstream queue jobs processed by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)
