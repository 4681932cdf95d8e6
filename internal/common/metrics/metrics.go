// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_turns_total",
			Help: "Total number of code hook turns by intent and resulting action",
		},
		[]string{"intent", "action"},
	)

	DialogErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_errors_total",
			Help: "Total number of turns that resolved to an error close",
		},
		[]string{"error_code"},
	)

	WorkItemsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "work_items_enqueued_total",
			Help: "Total number of fulfillment requests submitted to the queue",
		},
		[]string{"status"},
	)

	PipelineOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_outcomes_total",
			Help: "Total number of ProcessOne runs by outcome",
		},
		[]string{"outcome", "error_code"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	SuggestionsDelivered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_suggestions_per_message",
			Help:    "Number of enriched suggestions per delivered message",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)
