// Package metrics provides the Prometheus-backed wallet metrics collector
// and the side HTTP listener that exposes /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements wallet.MetricsCollector on Prometheus counters.
type Collector struct {
	operationDuration *prometheus.HistogramVec
	operations        *prometheus.CounterVec
	balanceChanges    *prometheus.CounterVec
	errors            *prometheus.CounterVec
}

// NewCollector registers the ledger metric families on the default registry.
func NewCollector() *Collector {
	return &Collector{
		operationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "handy",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of wallet operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "handy",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Wallet operations by result.",
		}, []string{"operation", "result"}),
		balanceChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "handy",
			Subsystem: "ledger",
			Name:      "balance_moved_total",
			Help:      "Total amount moved through wallet operations.",
		}, []string{"operation"}),
		errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "handy",
			Subsystem: "ledger",
			Name:      "errors_total",
			Help:      "Wallet operation errors by type.",
		}, []string{"operation", "type"}),
	}
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordOperation(operation, result string) {
	c.operations.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordBalanceChange(operation string, amount float64) {
	c.balanceChanges.WithLabelValues(operation).Add(amount)
}

func (c *Collector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

// Serve exposes /metrics on its own listener, separate from the API port.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
