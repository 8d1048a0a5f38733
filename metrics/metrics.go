package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported on /metrics. A nil *Metrics records nothing.
type Metrics struct {
	TournamentsRecorded prometheus.Counter
	RecordFailures      *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TournamentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beachcup",
			Name:      "tournaments_recorded_total",
			Help:      "Tournaments whose results and season points were committed.",
		}),
		RecordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beachcup",
			Name:      "tournament_record_failures_total",
			Help:      "Tournament submissions that did not commit, by reason.",
		}, []string{"reason"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beachcup",
			Name:      "active_sessions",
			Help:      "Tournaments currently being played.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beachcup",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beachcup",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.TournamentsRecorded, m.RecordFailures, m.ActiveSessions, m.HTTPRequests, m.HTTPDuration)
	return m
}

func (m *Metrics) TournamentRecorded() {
	if m == nil {
		return
	}
	m.TournamentsRecorded.Inc()
}

func (m *Metrics) RecordFailed(reason string) {
	if m == nil {
		return
	}
	m.RecordFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
