package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerMetrics tracks inventory movement outcomes and reconciliation drift.
type LedgerMetrics struct {
	movements         *prometheus.CounterVec
	insufficientStock prometheus.Counter
	driftItems        prometheus.Gauge
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sims",
		Name:      "ledger_movements_total",
		Help:      "Applied inventory movements by kind.",
	}, []string{"kind"})
	insufficient := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sims",
		Name:      "ledger_insufficient_stock_total",
		Help:      "Stock-out attempts rejected for insufficient stock.",
	})
	drift := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sims",
		Name:      "ledger_drift_items",
		Help:      "Spare parts whose on-hand quantity disagrees with movement history, as of the last reconciliation run.",
	})
	reg.MustRegister(movements, insufficient, drift)
	return &LedgerMetrics{
		movements:         movements,
		insufficientStock: insufficient,
		driftItems:        drift,
	}
}

// IncMovement counts an applied movement. Kind is one of
// stock_in, stock_out, stock_out_amend, stock_out_delete.
func (m *LedgerMetrics) IncMovement(kind string) {
	if m == nil || m.movements == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.movements.WithLabelValues(kind).Inc()
}

// IncInsufficientStock counts a rejected stock-out.
func (m *LedgerMetrics) IncInsufficientStock() {
	if m == nil || m.insufficientStock == nil {
		return
	}
	m.insufficientStock.Inc()
}

// SetDriftItems publishes the number of drifted parts found by reconciliation.
func (m *LedgerMetrics) SetDriftItems(count int) {
	if m == nil || m.driftItems == nil {
		return
	}
	m.driftItems.Set(float64(count))
}
