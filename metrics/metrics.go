// Package metrics exposes Prometheus collectors for catalog activity.
// Collectors are created unregistered; callers that want them scraped
// pass a registerer to Register once at startup.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mycatalog"

var (
	lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "lookups_total",
			Help:      "Name resolutions by object kind and result.",
		},
		[]string{"kind", "result"},
	)

	suggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "suggestions_total",
			Help:      "Suggestion searches by object kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	entries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "entries",
			Help:      "Registered entries per catalog and object kind.",
		},
		[]string{"catalog", "kind"},
	)

	serializeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "serialize_seconds",
			Help:      "Wall time spent serializing catalog trees.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	registerOnce sync.Once
)

// Register installs all collectors on r. Calling it more than once is a
// no-op so tests and embedders cannot double-register.
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(lookupsTotal, suggestionsTotal, entries, serializeSeconds)
	})
}

func Lookup(kind string, found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	lookupsTotal.WithLabelValues(kind, result).Inc()
}

func Suggestion(kind string, found bool) {
	outcome := "none"
	if found {
		outcome = "found"
	}
	suggestionsTotal.WithLabelValues(kind, outcome).Inc()
}

func SetEntries(catalog, kind string, n int) {
	entries.WithLabelValues(catalog, kind).Set(float64(n))
}

func ObserveSerialize(seconds float64) {
	serializeSeconds.Observe(seconds)
}
