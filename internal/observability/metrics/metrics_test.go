package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mulphico/inventory-valuation/internal/observability/metrics"
)

// Los colectores son globales: un solo test recorre todos los contadores.
func TestMetrics_Contadores(t *testing.T) {
	// antes de Init no fallan ni cuentan
	metrics.ObserveReport("json", metrics.ResultSuccess, time.Millisecond)
	metrics.AddDiscrepancies(1)

	metrics.Init(nil)
	metrics.Init(nil)

	metrics.ObserveReport("xlsx", "", 20*time.Millisecond)
	metrics.ObserveReport("xlsx", metrics.ResultError, 5*time.Millisecond)
	metrics.AddReportLines(3)
	metrics.AddReportLines(0)
	metrics.AddDiscrepancies(2)
	metrics.IncCache(metrics.CacheHit)

	const expected = `
# HELP valuation_report_runs_total Ejecuciones del reporte de valorización por formato y resultado
# TYPE valuation_report_runs_total counter
valuation_report_runs_total{format="xlsx",result="error"} 1
valuation_report_runs_total{format="xlsx",result="success"} 1
# HELP valuation_report_lines_total Líneas de producto generadas
# TYPE valuation_report_lines_total counter
valuation_report_lines_total 3
# HELP valuation_reconciliation_discrepancies_total Líneas cuyo cierre no coincide con apertura más movimientos
# TYPE valuation_reconciliation_discrepancies_total counter
valuation_reconciliation_discrepancies_total 2
# HELP valuation_report_cache_total Consultas a la caché de reportes por resultado
# TYPE valuation_report_cache_total counter
valuation_report_cache_total{result="hit"} 1
`
	err := testutil.GatherAndCompare(prometheus.DefaultGatherer, strings.NewReader(expected),
		"valuation_report_runs_total",
		"valuation_report_lines_total",
		"valuation_reconciliation_discrepancies_total",
		"valuation_report_cache_total",
	)
	assert.NoError(t, err)
}
