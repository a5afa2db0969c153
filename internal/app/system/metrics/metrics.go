// Package metrics exposes Prometheus counters for the list tables and the
// provider request workflow, and the /metrics handler that serves them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// bulkRowsTotal counts rows touched by bulk actions, by table, action and
	// outcome (applied, skipped or failed).
	bulkRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flicapp_table_bulk_rows_total",
		Help: "Rows processed by table bulk actions by table, action and outcome",
	}, []string{"table", "action", "outcome"})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flicapp_table_exports_total",
		Help: "Table exports by table and format",
	}, []string{"table", "format"})

	// exportRows tracks how many rows each export wrote.
	exportRows = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flicapp_table_export_rows",
		Help:    "Number of rows written per export by table and format",
		Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
	}, []string{"table", "format"})

	loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flicapp_table_load_duration_seconds",
		Help:    "Time spent loading a table's data set by table",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"table"})

	requestTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flicapp_provider_request_transitions_total",
		Help: "Provider request status transitions by target status and outcome",
	}, []string{"status", "outcome"})
)

// Outcome labels.
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
	OutcomeOK      = "ok"
	OutcomeError   = "error"
)

// BulkResult records the per-row outcome counts of one bulk dispatch.
func BulkResult(table, action string, applied, skipped, failed int) {
	bulkRowsTotal.WithLabelValues(table, action, OutcomeApplied).Add(float64(applied))
	bulkRowsTotal.WithLabelValues(table, action, OutcomeSkipped).Add(float64(skipped))
	bulkRowsTotal.WithLabelValues(table, action, OutcomeFailed).Add(float64(failed))
}

// Export records one export of n rows in format ("csv" or "json").
func Export(table, format string, n int) {
	exportsTotal.WithLabelValues(table, format).Inc()
	exportRows.WithLabelValues(table, format).Observe(float64(n))
}

// ObserveLoad records the time since start as a data-set load for table.
func ObserveLoad(table string, start time.Time) {
	loadDuration.WithLabelValues(table).Observe(time.Since(start).Seconds())
}

// RequestTransition records a provider request moving to status.
func RequestTransition(status string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	requestTransitionsTotal.WithLabelValues(status, outcome).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
