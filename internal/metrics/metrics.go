// Package metrics exposes Prometheus metrics for the interview service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter

	turnsTotal          *prometheus.CounterVec
	streamErrorsTotal   *prometheus.CounterVec
	streamDuration      prometheus.Histogram
	contextUploadsTotal *prometheus.CounterVec
	archivedTotal       prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			activeSessions: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "interview_active_sessions",
					Help: "Current active session count.",
				},
			),
			sessionsTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "interview_sessions_total",
					Help: "Total sessions created.",
				},
			),
			turnsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interview_turns_total",
					Help: "Total conversation turns appended by role.",
				},
				[]string{"role"},
			),
			streamErrorsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interview_stream_errors_total",
					Help: "Total chat completion failures by provider.",
				},
				[]string{"provider"},
			),
			streamDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "interview_stream_duration_seconds",
					Help:    "Assistant turn streaming duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			contextUploadsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interview_context_uploads_total",
					Help: "Total context image uploads by status.",
				},
				[]string{"status"},
			),
			archivedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "interview_transcripts_archived_total",
					Help: "Total transcripts written to the archive.",
				},
			),
		}

		prometheus.MustRegister(
			m.activeSessions,
			m.sessionsTotal,
			m.turnsTotal,
			m.streamErrorsTotal,
			m.streamDuration,
			m.contextUploadsTotal,
			m.archivedTotal,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

// SetActiveSessions sets the active session gauge.
func SetActiveSessions(n int) {
	getMetrics().activeSessions.Set(float64(n))
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	getMetrics().sessionsTotal.Inc()
}

// RecordTurn counts one appended conversation turn.
func RecordTurn(role string) {
	getMetrics().turnsTotal.WithLabelValues(role).Inc()
}

// RecordStreamError counts one failed chat completion.
func RecordStreamError(provider string) {
	getMetrics().streamErrorsTotal.WithLabelValues(provider).Inc()
}

// ObserveStreamDuration records how long one assistant turn took to stream.
func ObserveStreamDuration(d time.Duration) {
	getMetrics().streamDuration.Observe(d.Seconds())
}

// RecordContextUpload counts one context upload attempt.
func RecordContextUpload(ok bool) {
	status := "error"
	if ok {
		status = "success"
	}
	getMetrics().contextUploadsTotal.WithLabelValues(status).Inc()
}

// RecordArchive counts one archived transcript.
func RecordArchive() {
	getMetrics().archivedTotal.Inc()
}
