package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "indoornet_imports_total",
		Help: "Network import runs by final status",
	}, []string{"status"})
	ImportDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "indoornet_import_duration_seconds",
		Help:    "Network import run duration in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	})
	StagingRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indoornet_staging_rows_total",
		Help: "Holding-area rows read by successful imports",
	})
	RowsUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indoornet_rows_upserted_total",
		Help: "Rows upserted into the published network table",
	})
	ConverterFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "indoornet_converter_failures_total",
		Help: "Failed converter invocations by operation",
	}, []string{"operation"})
	PedestrianRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "indoornet_pedestrian_rows_total",
		Help: "Pedestrian route rows changed by reconciliation",
	}, []string{"action"})
	FloorPolySkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "indoornet_floorpoly_skipped_total",
		Help: "Levels skipped by the cross-reference sync by reason",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(ImportsTotal)
	prometheus.MustRegister(ImportDurationSeconds)
	prometheus.MustRegister(StagingRowsTotal)
	prometheus.MustRegister(RowsUpsertedTotal)
	prometheus.MustRegister(ConverterFailuresTotal)
	prometheus.MustRegister(PedestrianRowsTotal)
	prometheus.MustRegister(FloorPolySkippedTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
