// file: internal/metrics/metrics.go
// version: 1.1.0
// guid: 0c8e4a6d-3f1b-4a9c-b572-6e0d8f2a4c91

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	analysisStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "poweramp_helper",
		Name:      "analyses_started_total",
		Help:      "Total number of analysis runs started",
	})
	analysisCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "poweramp_helper",
		Name:      "analyses_completed_total",
		Help:      "Total number of analysis runs completed successfully",
	})
	analysisFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "poweramp_helper",
		Name:      "analyses_failed_total",
		Help:      "Total number of analysis runs aborted by an error",
	})
	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "poweramp_helper",
		Name:      "analysis_duration_seconds",
		Help:      "Histogram of analysis run durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
	})

	foldersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "poweramp_helper",
		Name:      "catalog_folders_total",
		Help:      "Current number of catalogued music folders",
	})
	autoResetGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "poweramp_helper",
		Name:      "catalog_folders_auto_reset",
		Help:      "Folders whose done mark was invalidated by the last run",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent).
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(analysisStarted, analysisCompleted, analysisFailed,
			analysisDuration, foldersGauge, autoResetGauge)
	})
}

func IncAnalysisStarted()   { analysisStarted.Inc() }
func IncAnalysisCompleted() { analysisCompleted.Inc() }
func IncAnalysisFailed()    { analysisFailed.Inc() }
func ObserveAnalysisDuration(d time.Duration) {
	analysisDuration.Observe(d.Seconds())
}

func SetFolders(n int)    { foldersGauge.Set(float64(n)) }
func SetAutoResets(n int) { autoResetGauge.Set(float64(n)) }
