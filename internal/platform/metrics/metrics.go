package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the registry. Every method is
// safe on a nil receiver so services can run without metrics in tests.
type Metrics struct {
	HTTPRequestDuration    *prometheus.HistogramVec
	LandRegistrations      prometheus.Counter
	TransfersInitiated     prometheus.Counter
	TransferStepsCompleted *prometheus.CounterVec
	TransfersCompleted     prometheus.Counter
	SubdivisionsSubmitted  prometheus.Counter
	Searches               *prometheus.CounterVec
	ValidationFailures     *prometheus.CounterVec
	SignIns                *prometheus.CounterVec
	RateLimited            *prometheus.CounterVec
}

// New creates and registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "land_registry_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
		LandRegistrations: f.NewCounter(prometheus.CounterOpts{
			Name: "land_registry_registrations_total",
			Help: "Total number of land records registered",
		}),
		TransfersInitiated: f.NewCounter(prometheus.CounterOpts{
			Name: "land_registry_transfers_initiated_total",
			Help: "Total number of ownership transfers initiated",
		}),
		TransferStepsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "land_registry_transfer_steps_completed_total",
			Help: "Transfer workflow steps completed, by step",
		}, []string{"step"}),
		TransfersCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "land_registry_transfers_completed_total",
			Help: "Total number of ownership transfers that finished every step",
		}),
		SubdivisionsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "land_registry_subdivisions_submitted_total",
			Help: "Total number of accepted subdivision requests",
		}),
		Searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "land_registry_searches_total",
			Help: "Record searches by field and whether anything matched",
		}, []string{"field", "outcome"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "land_registry_validation_failures_total",
			Help: "Rejected submissions by error code",
		}, []string{"code"}),
		SignIns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "land_registry_sign_ins_total",
			Help: "Demo sign-ins by role",
		}, []string{"role"}),
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "land_registry_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter, by endpoint class",
		}, []string{"class"}),
	}
}

func (m *Metrics) ObserveHTTPRequest(route, method, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementLandRegistrations() {
	if m == nil {
		return
	}
	m.LandRegistrations.Inc()
}

func (m *Metrics) IncrementTransfersInitiated() {
	if m == nil {
		return
	}
	m.TransfersInitiated.Inc()
}

func (m *Metrics) IncrementTransferStepCompleted(step string) {
	if m == nil {
		return
	}
	m.TransferStepsCompleted.WithLabelValues(step).Inc()
}

func (m *Metrics) IncrementTransfersCompleted() {
	if m == nil {
		return
	}
	m.TransfersCompleted.Inc()
}

func (m *Metrics) IncrementSubdivisionsSubmitted() {
	if m == nil {
		return
	}
	m.SubdivisionsSubmitted.Inc()
}

// RecordSearch counts a completed search; outcome is "found" or "empty".
func (m *Metrics) RecordSearch(field string, matches int) {
	if m == nil {
		return
	}
	outcome := "found"
	if matches == 0 {
		outcome = "empty"
	}
	m.Searches.WithLabelValues(field, outcome).Inc()
}

func (m *Metrics) IncrementValidationFailure(code string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(code).Inc()
}

func (m *Metrics) IncrementSignIn(role string) {
	if m == nil {
		return
	}
	m.SignIns.WithLabelValues(role).Inc()
}

func (m *Metrics) IncrementRateLimited(class string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(class).Inc()
}
