package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type eventMetrics struct {
	logged      *prometheus.CounterVec
	subscribers prometheus.Gauge
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking the event log.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			logged: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "moviewrite",
				Subsystem: "events",
				Name:      "logged_total",
				Help:      "Count of event log entries segmented by event type.",
			}, []string{"type"}),
			subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "moviewrite",
				Subsystem: "events",
				Name:      "subscribers",
				Help:      "Number of live event stream subscribers.",
			}),
		}
		prometheus.MustRegister(eventRegistry.logged, eventRegistry.subscribers)
	})
	return eventRegistry
}

// RecordLogged increments the counter for the supplied event type.
func (m *eventMetrics) RecordLogged(eventType string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(strings.ToLower(eventType))
	if normalized == "" {
		normalized = "unknown"
	}
	m.logged.WithLabelValues(normalized).Inc()
}

// SetSubscribers publishes the number of live subscribers.
func (m *eventMetrics) SetSubscribers(count int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(count))
}
