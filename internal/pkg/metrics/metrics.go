package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "solarcalc_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	calculationsTotal   *prometheus.CounterVec
	calculationsLatency *prometheus.HistogramVec

	billsTotal *prometheus.CounterVec

	rateImportsTotal *prometheus.CounterVec

	exportsTotal   *prometheus.CounterVec
	exportsLatency *prometheus.HistogramVec
)

// Init registers metrics with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		calculationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculations_total",
				Help: "Total calculations by rate mode and result",
			},
			[]string{"mode", "result"},
		)
		calculationsLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "calculation_latency_seconds",
				Help:    "Calculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		)

		billsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bills_total",
				Help: "Total bill estimates by result",
			},
			[]string{"result"},
		)

		rateImportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rate_imports_total",
				Help: "Total tariff imports by result",
			},
			[]string{"result"},
		)

		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total calculation exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportsLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)

		prometheus.MustRegister(
			calculationsTotal,
			calculationsLatency,
			billsTotal,
			rateImportsTotal,
			exportsTotal,
			exportsLatency,
		)
	})
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

func label(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// ObserveCalculation records a calculation's latency and result.
func ObserveCalculation(mode string, err error, duration time.Duration) {
	mode = label(mode)
	if calculationsTotal != nil {
		calculationsTotal.WithLabelValues(mode, result(err)).Inc()
	}
	if calculationsLatency != nil && err == nil {
		calculationsLatency.WithLabelValues(mode).Observe(duration.Seconds())
	}
}

func ObserveBill(err error) {
	if billsTotal != nil {
		billsTotal.WithLabelValues(result(err)).Inc()
	}
}

func ObserveRateImport(err error) {
	if rateImportsTotal != nil {
		rateImportsTotal.WithLabelValues(result(err)).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format string, err error, duration time.Duration) {
	format = label(format)
	if exportsTotal != nil {
		exportsTotal.WithLabelValues(format, result(err)).Inc()
	}
	if exportsLatency != nil {
		exportsLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}
