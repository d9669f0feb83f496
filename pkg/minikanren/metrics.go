package minikanren

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query outcomes recorded by Metrics.
const (
	outcomeAnswers    = "answers"
	outcomeNoAnswers  = "no_answers"
	outcomeUnresolved = "unresolvable"
	outcomeCancelled  = "cancelled"
	outcomeError      = "error"
)

// Metrics records solver activity as Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	queries  *prometheus.CounterVec
	answers  prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics creates the solver collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gokanterm_queries_total",
				Help: "Total number of solved queries by outcome",
			},
			[]string{"outcome"},
		),
		answers: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gokanterm_answers_total",
				Help: "Total number of distinct reified answers returned",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gokanterm_solve_duration_seconds",
				Help:    "Duration of query evaluation",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
	}
	reg.MustRegister(m.queries, m.answers, m.duration)
	return m
}

func (m *Metrics) observe(outcome string, answers int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome).Inc()
	m.answers.Add(float64(answers))
	m.duration.Observe(elapsed.Seconds())
}
