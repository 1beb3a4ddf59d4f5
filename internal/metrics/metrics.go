// Package metrics defines the Prometheus metrics of the bot and the HTTP server
// that exposes them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by command and autosave metrics.
const (
	OutcomeSuccess = "success"
	OutcomeWarning = "warning"
	OutcomeError   = "error"
)

var (
	// CommandsTotal counts handled commands by name and outcome.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textbot_commands_total",
			Help: "Total number of bot commands handled",
		},
		[]string{"command", "outcome"},
	)

	// TransformDuration measures how long a text transform takes.
	TransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textbot_transform_duration_seconds",
			Help:    "Duration of text transforms in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"operation"},
	)

	// AutosaveTotal counts session flushes to the store by status.
	AutosaveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textbot_autosave_total",
			Help: "Total number of document autosaves",
		},
		[]string{"status"},
	)

	// ActiveSessions tracks the sessions held in memory.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "textbot_sessions_active",
			Help: "Number of user sessions loaded in memory",
		},
	)

	// DocumentSize observes the size in characters of documents after each edit.
	DocumentSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textbot_document_characters",
			Help:    "Size of the working document in characters",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)
)

// RecordCommand increments the command counter.
func RecordCommand(command, outcome string) {
	CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// ObserveTransform records the duration of one transform.
func ObserveTransform(operation string, d time.Duration) {
	TransformDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordAutosave counts one flush attempt.
func RecordAutosave(err error) {
	if err != nil {
		AutosaveTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	AutosaveTotal.WithLabelValues(OutcomeSuccess).Inc()
}
