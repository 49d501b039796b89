package observability

import (
	"math"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type ledgerMetrics struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	tokenSupply prometheus.Gauge
	logHeight   prometheus.Gauge
}

type moduleMetrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	throttles *prometheus.CounterVec
}

var (
	ledgerMetricsOnce sync.Once
	ledgerRegistry    *ledgerMetrics

	moduleMetricsOnce sync.Once
	moduleRegistry    *moduleMetrics
)

// LedgerMetrics returns the lazily-initialised registry tracking ledger
// operations applied by the node.
func LedgerMetrics() *ledgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerRegistry = &ledgerMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "moviewrite",
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Ledger operations segmented by module, operation and outcome (ok or error kind).",
			}, []string{"module", "operation", "outcome"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "moviewrite",
				Subsystem: "ledger",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for applying ledger operations, including commit.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"module", "operation"}),
			tokenSupply: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "moviewrite",
				Subsystem: "token",
				Name:      "total_supply",
				Help:      "Reward token total supply in base units.",
			}),
			logHeight: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "moviewrite",
				Subsystem: "events",
				Name:      "log_height",
				Help:      "Sequence number of the newest event log entry.",
			}),
		}
		prometheus.MustRegister(
			ledgerRegistry.operations,
			ledgerRegistry.duration,
			ledgerRegistry.tokenSupply,
			ledgerRegistry.logHeight,
		)
	})
	return ledgerRegistry
}

// Observe records the outcome of one ledger operation. outcome is "ok" or the
// lower-case error kind.
func (m *ledgerMetrics) Observe(module, operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	module = labelOrUnknown(module)
	operation = labelOrUnknown(operation)
	m.operations.WithLabelValues(module, operation, labelOrUnknown(outcome)).Inc()
	m.duration.WithLabelValues(module, operation).Observe(duration.Seconds())
}

// SetTokenSupply publishes the current reward token supply.
func (m *ledgerMetrics) SetTokenSupply(supply *big.Int) {
	if m == nil {
		return
	}
	m.tokenSupply.Set(bigToFloat(supply))
}

// SetLogHeight publishes the newest event log sequence number.
func (m *ledgerMetrics) SetLogHeight(seq uint64) {
	if m == nil {
		return
	}
	m.logHeight.Set(float64(seq))
}

// ModuleMetrics returns the lazily-initialised registry used to record
// JSON-RPC activity.
func ModuleMetrics() *moduleMetrics {
	moduleMetricsOnce.Do(func() {
		moduleRegistry = &moduleMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "moviewrite",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total JSON-RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "moviewrite",
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for JSON-RPC handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "moviewrite",
				Subsystem: "rpc",
				Name:      "throttles_total",
				Help:      "Count of requests rejected due to throttling or authentication.",
			}, []string{"reason"}),
		}
		prometheus.MustRegister(
			moduleRegistry.requests,
			moduleRegistry.latency,
			moduleRegistry.throttles,
		)
	})
	return moduleRegistry
}

// Observe records the outcome of a JSON-RPC call.
func (m *moduleMetrics) Observe(method string, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	method = labelOrUnknown(method)
	outcome := "success"
	if failed {
		outcome = "error"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordThrottle increments the throttle counter. Reasons should be stable
// strings such as "rate_limit" or "unauthorized".
func (m *moduleMetrics) RecordThrottle(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unspecified"
	}
	m.throttles.WithLabelValues(reason).Inc()
}

func labelOrUnknown(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}

func bigToFloat(value *big.Int) float64 {
	if value == nil {
		return 0
	}
	floatVal, acc := new(big.Float).SetInt(value).Float64()
	if acc != big.Exact {
		if math.IsNaN(floatVal) || math.IsInf(floatVal, 0) {
			return 0
		}
	}
	return floatVal
}
