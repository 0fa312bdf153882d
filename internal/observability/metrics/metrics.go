package metrics

import (
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "valuation_"

	ResultSuccess = "success"
	ResultError   = "error"

	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheDisabled = "disabled"
)

var (
	registerOnce sync.Once

	reportRuns        *prometheus.CounterVec
	reportLatency     *prometheus.HistogramVec
	reportLines       prometheus.Counter
	discrepancies     prometheus.Counter
	reportCacheLookup *prometheus.CounterVec
)

// Init registra los colectores del reporte y, si hay pool, los gauges de conexiones.
// Llamadas repetidas no hacen nada.
func Init(pool *pgxpool.Pool) {
	registerOnce.Do(func() {
		reportRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_runs_total",
				Help: "Ejecuciones del reporte de valorización por formato y resultado",
			},
			[]string{"format", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_latency_seconds",
				Help:    "Duración del reporte de valorización en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)
		reportLines = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_lines_total",
				Help: "Líneas de producto generadas",
			},
		)
		discrepancies = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconciliation_discrepancies_total",
				Help: "Líneas cuyo cierre no coincide con apertura más movimientos",
			},
		)
		reportCacheLookup = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_cache_total",
				Help: "Consultas a la caché de reportes por resultado",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(reportRuns, reportLatency, reportLines, discrepancies, reportCacheLookup)
		if pool != nil {
			registerPoolMetrics(pool)
		}
	})
}

func registerPoolMetrics(pool *pgxpool.Pool) {
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "db_pool_acquired_conns",
				Help: "Conexiones del pool en uso",
			},
			func() float64 { return float64(pool.Stat().AcquiredConns()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "db_pool_total_conns",
				Help: "Conexiones abiertas en el pool",
			},
			func() float64 { return float64(pool.Stat().TotalConns()) },
		),
	)
}

// ObserveReport registra una ejecución: formato (json, pdf, xlsx), resultado y duración.
func ObserveReport(format, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if reportRuns != nil {
		reportRuns.WithLabelValues(format, result).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// AddReportLines suma las líneas generadas.
func AddReportLines(n int) {
	if n <= 0 || reportLines == nil {
		return
	}
	reportLines.Add(float64(n))
}

// AddDiscrepancies suma líneas que no concilian.
func AddDiscrepancies(n int) {
	if n <= 0 || discrepancies == nil {
		return
	}
	discrepancies.Add(float64(n))
}

// IncCache cuenta un acceso a la caché (hit, miss, disabled).
func IncCache(result string) {
	if reportCacheLookup != nil {
		reportCacheLookup.WithLabelValues(result).Inc()
	}
}
