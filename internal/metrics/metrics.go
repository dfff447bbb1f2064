// Package metrics defines the Prometheus metrics of the tracker and the RPC layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	EntriesTotal      prometheus.Counter
	RejectedTotal     *prometheus.CounterVec
	GoalsReached      prometheus.Counter
	ResetsTotal       prometheus.Counter
	TargetsComputed   prometheus.Counter
	PersistenceErrors *prometheus.CounterVec
	LoggedLiters      prometheus.Gauge
	CapacityLiters    prometheus.Gauge
	RPCDuration       *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EntriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aquabalance_entries_total",
			Help: "Total number of accepted intake entries",
		}),

		RejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquabalance_rejected_inputs_total",
			Help: "Total number of rejected inputs by reason",
		}, []string{"reason"}),

		GoalsReached: factory.NewCounter(prometheus.CounterOpts{
			Name: "aquabalance_goals_reached_total",
			Help: "Number of times the logged amount reached the target",
		}),

		ResetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aquabalance_resets_total",
			Help: "Total number of progress resets",
		}),

		TargetsComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "aquabalance_targets_computed_total",
			Help: "Total number of computed intake targets",
		}),

		PersistenceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquabalance_persistence_errors_total",
			Help: "Failed store operations by operation",
		}, []string{"op"}),

		LoggedLiters: factory.NewGauge(prometheus.GaugeOpts{
			Name: "aquabalance_logged_liters",
			Help: "Currently logged amount in liters",
		}),

		CapacityLiters: factory.NewGauge(prometheus.GaugeOpts{
			Name: "aquabalance_capacity_liters",
			Help: "Current daily target in liters",
		}),

		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aquabalance_rpc_duration_seconds",
			Help:    "Duration of RPC handling",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

func (m *Metrics) EntryAccepted(logged float64) {
	if m == nil {
		return
	}
	m.EntriesTotal.Inc()
	m.LoggedLiters.Set(logged)
}

func (m *Metrics) InputRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) GoalReached() {
	if m == nil {
		return
	}
	m.GoalsReached.Inc()
}

func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.ResetsTotal.Inc()
	m.LoggedLiters.Set(0)
}

func (m *Metrics) TargetComputed(capacity float64) {
	if m == nil {
		return
	}
	m.TargetsComputed.Inc()
	m.CapacityLiters.Set(capacity)
}

// Progress sets both gauges, e.g. after loading state.
func (m *Metrics) Progress(logged, capacity float64) {
	if m == nil {
		return
	}
	m.LoggedLiters.Set(logged)
	m.CapacityLiters.Set(capacity)
}

func (m *Metrics) PersistenceFailed(op string) {
	if m == nil {
		return
	}
	m.PersistenceErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(seconds)
}
