package handlers

import "github.com/prometheus/client_golang/prometheus"

// Metrics the API updates per backtest run, served at /metrics:
//   - backtest_runs_total{status}   runs by outcome (ok|error)
//   - backtest_orders_total{action} orders executed across runs
var (
	mtxRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_runs_total",
			Help: "Backtest runs by outcome",
		},
		[]string{"status"},
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_orders_total",
			Help: "Orders executed across all runs",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(mtxRuns, mtxOrders)
}
