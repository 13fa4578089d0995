// Package metrics provides Prometheus metrics for roster runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the roster's Prometheus collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	registrations      prometheus.Counter
	duplicateNames     prometheus.Counter
	scoreOverwrites    prometheus.Counter
	rejected           prometheus.Counter
	uniqueParticipants prometheus.Gauge
	logLength          prometheus.Gauge
	ingestDuration     prometheus.Histogram
	reportDuration     prometheus.Histogram
	reportErrors       *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "roster",
		subsystem:        "ingest",
		histogramBuckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		constLabels:      map[string]string{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.registrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registrations_total",
		Help:        "Total number of registrations recorded",
		ConstLabels: m.constLabels,
	})

	m.duplicateNames = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duplicate_names_total",
		Help:        "Registrations whose name was already in the unique set",
		ConstLabels: m.constLabels,
	})

	m.scoreOverwrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_overwrites_total",
		Help:        "Upserts that replaced an earlier score",
		ConstLabels: m.constLabels,
	})

	m.rejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registrations_rejected_total",
		Help:        "Registrations rejected by validation",
		ConstLabels: m.constLabels,
	})

	m.uniqueParticipants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unique_participants",
		Help:        "Current size of the unique-name set",
		ConstLabels: m.constLabels,
	})

	m.logLength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registration_log_length",
		Help:        "Current length of the registration log",
		ConstLabels: m.constLabels,
	})

	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_seconds",
		Help:        "Wall time of a full ingest pass",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.reportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "report",
		Name:        "duration_seconds",
		Help:        "Wall time of rendering the report",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.reportErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "report",
		Name:        "errors_total",
		Help:        "Report rendering failures by format",
		ConstLabels: m.constLabels,
	}, []string{"format"})
}

// RecordRegistration counts one recorded registration.
func (m *Manager) RecordRegistration() { m.registrations.Inc() }

// RecordDuplicateName counts a name that was already in the unique set.
func (m *Manager) RecordDuplicateName() { m.duplicateNames.Inc() }

// RecordScoreOverwrite counts an upsert that replaced an earlier score.
func (m *Manager) RecordScoreOverwrite() { m.scoreOverwrites.Inc() }

// RecordRejected counts a registration rejected by validation.
func (m *Manager) RecordRejected() { m.rejected.Inc() }

// UpdateUniqueParticipants sets the unique-name set size.
func (m *Manager) UpdateUniqueParticipants(n int) { m.uniqueParticipants.Set(float64(n)) }

// UpdateLogLength sets the registration log length.
func (m *Manager) UpdateLogLength(n int) { m.logLength.Set(float64(n)) }

// ObserveIngest records the duration of an ingest pass.
func (m *Manager) ObserveIngest(d time.Duration) { m.ingestDuration.Observe(d.Seconds()) }

// ObserveReport records the duration of a report render.
func (m *Manager) ObserveReport(d time.Duration) { m.reportDuration.Observe(d.Seconds()) }

// RecordReportError counts a failed render for format.
func (m *Manager) RecordReportError(format string) { m.reportErrors.WithLabelValues(format).Inc() }

// Registry returns the registry the manager's collectors live in.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the manager's metrics to path in the text exposition
// format, for pickup by node_exporter's textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrExport)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
