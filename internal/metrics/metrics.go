// Package metrics exposes Prometheus collectors for the series cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "argo_daily"

// SeriesCacheMetrics counts how the series cache serves lookups. A nil
// *SeriesCacheMetrics is valid and records nothing.
type SeriesCacheMetrics struct {
	Loads        *prometheus.CounterVec
	Hits         *prometheus.CounterVec
	LoadFailures *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	Instruments  prometheus.Gauge
}

// NewSeriesCacheMetrics creates the collectors and registers them on reg.
// reg may be nil, in which case the collectors are created but not registered.
func NewSeriesCacheMetrics(reg prometheus.Registerer) (*SeriesCacheMetrics, error) {
	m := &SeriesCacheMetrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "series_cache",
			Name:      "loads_total",
			Help:      "Backing store reads performed to populate a series.",
		}, []string{"instrument_type"}),
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "series_cache",
			Name:      "hits_total",
			Help:      "Series lookups served from memory.",
		}, []string{"variant"}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "series_cache",
			Name:      "load_failures_total",
			Help:      "Backing store reads that returned an error.",
		}, []string{"instrument_type"}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "series_cache",
			Name:      "load_duration_seconds",
			Help:      "Time spent loading a series from the backing store.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"instrument_type"}),
		Instruments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "series_cache",
			Name:      "instruments",
			Help:      "Instruments whose series are held in memory.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.Loads, m.Hits, m.LoadFailures, m.LoadDuration, m.Instruments} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveLoad records a successful backing read.
func (m *SeriesCacheMetrics) ObserveLoad(instrumentType string, seconds float64) {
	if m == nil {
		return
	}

	m.Loads.WithLabelValues(instrumentType).Inc()
	m.LoadDuration.WithLabelValues(instrumentType).Observe(seconds)
	m.Instruments.Inc()
}

// ObserveFailure records a failed backing read.
func (m *SeriesCacheMetrics) ObserveFailure(instrumentType string) {
	if m == nil {
		return
	}

	m.LoadFailures.WithLabelValues(instrumentType).Inc()
}

// ObserveHit records a lookup served from memory. variant is raw or filtered.
func (m *SeriesCacheMetrics) ObserveHit(variant string) {
	if m == nil {
		return
	}

	m.Hits.WithLabelValues(variant).Inc()
}
