package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "famledger"

// Metrics holds all Prometheus metrics. It implements usecase.MetricsRecorder.
type Metrics struct {
	// Engine metrics
	InstallmentGroupsCreated prometheus.Counter
	InstallmentsCreated      prometheus.Counter
	InstallmentResizes       *prometheus.CounterVec
	RecurrenceEntries        prometheus.Counter
	RulesRetired             prometheus.Counter
	RetiredEntriesDeleted    prometheus.Counter
	PrunedDuplicates         prometheus.Counter
	BatchesCommitted         *prometheus.CounterVec
	BatchFailures            *prometheus.CounterVec
	BatchSize                *prometheus.HistogramVec

	// Worker metrics
	SweepRuns     *prometheus.CounterVec
	SweepDuration prometheus.Histogram

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		InstallmentGroupsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installment_groups_created_total",
			Help:      "Total number of installment groups expanded",
		}),
		InstallmentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installments_created_total",
			Help:      "Total number of installment entries written by expansion",
		}),
		InstallmentResizes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "installment_resize_entries_total",
				Help:      "Entries touched by installment resizes by action",
			},
			[]string{"action"},
		),
		RecurrenceEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurrence_entries_generated_total",
			Help:      "Total number of recurring entries generated",
		}),
		RulesRetired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurrence_rules_retired_total",
			Help:      "Total number of recurrence rules retired",
		}),
		RetiredEntriesDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurrence_retired_entries_deleted_total",
			Help:      "Future entries deleted by rule retirement",
		}),
		PrunedDuplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_pruned_total",
			Help:      "Total number of rule-based duplicate entries removed",
		}),
		BatchesCommitted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_committed_total",
				Help:      "Committed write batches by operation",
			},
			[]string{"op"},
		),
		BatchFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_failures_total",
				Help:      "Failed write batches by operation",
			},
			[]string{"op"},
		),
		BatchSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_size",
				Help:      "Records written per committed batch",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
			},
			[]string{"op"},
		),

		SweepRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recurring_sweep_runs_total",
				Help:      "Recurring sweep passes by result",
			},
			[]string{"result"},
		),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recurring_sweep_duration_seconds",
			Help:      "Duration of recurring sweep passes",
			Buckets:   prometheus.DefBuckets,
		}),

		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_published_total",
			Help:      "Total number of outbox events published",
		}),
		OutboxFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_publish_failures_total",
			Help:      "Total number of outbox publish attempts that failed",
		}),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),
	}
}

func (m *Metrics) InstallmentGroupCreated(installments int) {
	m.InstallmentGroupsCreated.Inc()
	m.InstallmentsCreated.Add(float64(installments))
}

func (m *Metrics) InstallmentGroupResized(updated, created, deleted int) {
	m.InstallmentResizes.WithLabelValues("updated").Add(float64(updated))
	m.InstallmentResizes.WithLabelValues("created").Add(float64(created))
	m.InstallmentResizes.WithLabelValues("deleted").Add(float64(deleted))
}

func (m *Metrics) RecurrenceEntriesGenerated(count int) {
	m.RecurrenceEntries.Add(float64(count))
}

func (m *Metrics) RecurrenceRuleRetired(deleted int) {
	m.RulesRetired.Inc()
	m.RetiredEntriesDeleted.Add(float64(deleted))
}

func (m *Metrics) DuplicatesPruned(count int) {
	m.PrunedDuplicates.Add(float64(count))
}

func (m *Metrics) BatchCommitted(op string, size int) {
	m.BatchesCommitted.WithLabelValues(op).Inc()
	m.BatchSize.WithLabelValues(op).Observe(float64(size))
}

func (m *Metrics) BatchFailed(op string) {
	m.BatchFailures.WithLabelValues(op).Inc()
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RequestStarted increments the in-flight gauge.
func (m *Metrics) RequestStarted() {
	m.HTTPInFlight.Inc()
}

// RequestFinished decrements the in-flight gauge.
func (m *Metrics) RequestFinished() {
	m.HTTPInFlight.Dec()
}

// RateLimited counts one request rejected by the rate limiter.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}

// ObserveSweep records one recurring sweep pass.
func (m *Metrics) ObserveSweep(failed bool, elapsed time.Duration) {
	result := "ok"
	if failed {
		result = "failed"
	}
	m.SweepRuns.WithLabelValues(result).Inc()
	m.SweepDuration.Observe(elapsed.Seconds())
}

// EventPublished counts one outbox event sent.
func (m *Metrics) EventPublished() {
	m.OutboxPublished.Inc()
}

// EventFailed counts one failed outbox publish attempt.
func (m *Metrics) EventFailed() {
	m.OutboxFailures.Inc()
}
