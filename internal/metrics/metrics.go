// Package metrics declares the prometheus collectors for the recommendation
// pipeline and the realtime feed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotpot_pipeline_runs_total",
			Help: "Recommendation pipeline runs by mode and outcome",
		},
		[]string{"mode", "result"}, // mode: batch|lucky, result: ok|error
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotpot_pipeline_duration_seconds",
			Help:    "Wall time of one recommendation pipeline run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"mode"},
	)

	ModelRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotpot_model_requests_total",
			Help: "Language model completions by outcome",
		},
		[]string{"result"}, // ok|network|invalid
	)

	ScrapeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotpot_scrape_requests_total",
			Help: "Product scrapes by outcome",
		},
		[]string{"result"}, // hit|miss|error
	)

	IngredientsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotpot_ingredients_appended_total",
			Help: "Ingredient entries appended to rooms by merges",
		},
	)

	RevisionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotpot_room_revision_conflicts_total",
			Help: "Compare-and-set conflicts on room writes",
		},
		[]string{"op"},
	)

	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hotpot_realtime_subscribers",
			Help: "Active ingredient feed subscriptions",
		},
	)
)
