package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for pipeline runs.
type Metrics struct {
	StageDuration     *prometheus.HistogramVec
	EntitiesGenerated *prometheus.CounterVec
	EventsPublished   prometheus.Counter
	RunsTotal         *prometheus.CounterVec
}

// NewMetrics registers the pipeline instruments on reg, or on the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 15.0, 60.0},
		}, []string{"stage"}),

		EntitiesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_entities_generated_total",
			Help: "Synthetic entities generated, by entity type",
		}, []string{"entity"}),

		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_events_published_total",
			Help: "Viewing events published to the firehose",
		}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Completed pipeline runs, by outcome",
		}, []string{"status"}),
	}
}
