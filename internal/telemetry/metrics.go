// Package telemetry provides Prometheus metrics for the HRDesk service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hrdesk"

// Leave request outcomes
const (
	LeaveSubmitted           = "submitted"
	LeaveApproved            = "approved"
	LeaveCancelled           = "cancelled"
	LeaveRejectedBalance     = "rejected_insufficient_balance"
	LeaveRejectedProcessed   = "rejected_processed"
	LeaveRejectedNotFound    = "rejected_not_found"
	LeaveRejectedInvalidDays = "rejected_invalid_days"
)

// Meeting outcomes
const (
	MeetingScheduled = "scheduled"
	MeetingCancelled = "cancelled"
	MeetingInvited   = "invited"
	MeetingNotFound  = "not_found"
)

// Metrics holds the service collectors. Every method is safe to call on a nil
// *Metrics, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	leaveRequests *prometheus.CounterVec
	meetings      *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	storeErrors   prometheus.Counter
	employees     prometheus.Gauge
}

// NewMetrics creates the collectors on a dedicated registry so the default Go
// runtime collectors are not exported.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		leaveRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leave_requests_total",
			Help:      "Leave request operations by outcome",
		}, []string{"outcome"}),
		meetings: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_total",
			Help:      "Meeting operations by outcome",
		}, []string{"outcome"}),
		toolCalls: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool and result status",
		}, []string{"tool", "status"}),
		toolDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "MCP tool call latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"tool"}),
		storeErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed write-through operations against the persistent store",
		}),
		employees: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "employees",
			Help:      "Employees loaded into the directory",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LeaveRequest counts a leave operation outcome.
func (m *Metrics) LeaveRequest(outcome string) {
	if m == nil {
		return
	}
	m.leaveRequests.WithLabelValues(outcome).Inc()
}

// Meeting counts a meeting operation outcome.
func (m *Metrics) Meeting(outcome string) {
	if m == nil {
		return
	}
	m.meetings.WithLabelValues(outcome).Inc()
}

// ToolCall records one tool invocation.
func (m *Metrics) ToolCall(tool, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// StoreError counts a failed store write.
func (m *Metrics) StoreError() {
	if m == nil {
		return
	}
	m.storeErrors.Inc()
}

// SetEmployees records the directory size.
func (m *Metrics) SetEmployees(n int) {
	if m == nil {
		return
	}
	m.employees.Set(float64(n))
}
