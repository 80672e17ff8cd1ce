// Package metrics exposes acquisition counters to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tyler180/nba-stats-backends/internal/collector"
	"github.com/tyler180/nba-stats-backends/internal/pipeline"
)

// Recorder counts resolutions and finished runs. It is both a collector
// observer and a pipeline run hook.
type Recorder struct {
	resolutions *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runSteps    prometheus.Summary
	lastRun     *prometheus.GaugeVec
	gatherer    prometheus.Gatherer
}

func NewRecorder(reg *prometheus.Registry) *Recorder {
	r := &Recorder{gatherer: reg}
	r.resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_acquisition",
		Name:      "resolutions_total",
		Help:      "Collector resolutions by resource, source and remote outcome",
	}, []string{"resource", "source", "outcome"})
	r.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_acquisition",
		Name:      "pipeline_runs_total",
		Help:      "Finished pipeline runs by run type and status",
	}, []string{"pipeline", "status"})
	r.runSteps = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "nba_acquisition",
		Name:      "pipeline_run_steps",
		Help:      "Collector steps per finished run",
	})
	r.lastRun = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nba_acquisition",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last finished run",
	}, []string{"pipeline"})

	reg.MustRegister(r.resolutions, r.runs, r.runSteps, r.lastRun)
	return r
}

func (r *Recorder) Observe(_ context.Context, res collector.Resolution) {
	outcome := res.Outcome
	if outcome == "" {
		outcome = "none"
	}
	r.resolutions.WithLabelValues(string(res.Kind), string(res.Source), outcome).Inc()
}

func (r *Recorder) RunFinished(_ context.Context, rep pipeline.Report, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	r.runs.WithLabelValues(rep.Run, status).Inc()
	r.runSteps.Observe(float64(rep.Steps))
	r.lastRun.WithLabelValues(rep.Run).Set(float64(time.Now().Unix()))
}

// Handler serves /metrics and /healthz.
func (r *Recorder) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
