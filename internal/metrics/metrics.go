// Package metrics exposes bot counters to prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qnabot"

// Outcome labels for processed updates
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the bot's collectors
type Metrics struct {
	questionsAnswered *prometheus.CounterVec
	updates           *prometheus.CounterVec
	updateDuration    prometheus.Histogram
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		questionsAnswered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "questions_answered_total",
				Help:      "Number of answers sent per category and question.",
			},
			[]string{"category", "question"},
		),
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Processed updates by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		updateDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "update_duration_seconds",
				Help:      "Time spent processing one update.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.questionsAnswered, m.updates, m.updateDuration)
	return m
}

// IncQuestionAnswered counts one answer sent
func (m *Metrics) IncQuestionAnswered(category, question string) {
	if m == nil {
		return
	}
	m.questionsAnswered.WithLabelValues(category, question).Inc()
}

// ObserveUpdate records one processed update. An empty endpoint means the default handler ran.
func (m *Metrics) ObserveUpdate(endpoint string, err error, took time.Duration) {
	if m == nil {
		return
	}
	if endpoint == "" {
		endpoint = "default"
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.updates.WithLabelValues(endpoint, outcome).Inc()
	m.updateDuration.Observe(took.Seconds())
}
