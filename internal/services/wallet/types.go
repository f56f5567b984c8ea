package wallet

import "time"

// Balance names which balance field an operation targets.
type Balance string

const (
	BalanceAvailable Balance = "available"
	BalancePending   Balance = "pending"
)

// Valid reports whether b names a known balance field.
func (b Balance) Valid() bool {
	return b == BalanceAvailable || b == BalancePending
}

// MetricsCollector receives wallet operation metrics. A nil collector is
// replaced with the no-op implementation.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperation(operation, result string)
	RecordBalanceChange(operation string, amount float64)
	RecordError(operation, errType string)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopMetricsCollector) RecordOperation(string, string)                {}
func (NoopMetricsCollector) RecordBalanceChange(string, float64)           {}
func (NoopMetricsCollector) RecordError(string, string)                    {}
