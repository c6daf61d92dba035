// Package jobmetrics instruments the asynq tasks run by cmd/worker.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the job collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs       *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	queueDepth *prometheus.GaugeVec
	warmed     *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the collectors on registerer, or once on the default
// registerer when it is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer != nil {
		return register(registerer)
	}
	defaultOnce.Do(func() { defaultMetrics = register(prometheus.DefaultRegisterer) })
	return defaultMetrics
}

func register(registerer prometheus.Registerer) *Metrics {
	f := promauto.With(registerer)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_jobs_total",
			Help: "Total job executions partitioned by job name and status.",
		}, []string{"job", "status"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_jobs_failures_total",
			Help: "Total failures observed for background jobs.",
		}, []string{"job"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_job_duration_seconds",
			Help:    "Duration in seconds of background job executions.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"job"}),
		queueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portal_job_queue_depth",
			Help: "Pending tasks per asynq queue at the last health check.",
		}, []string{"queue"}),
		warmed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_weather_warmup_cities_total",
			Help: "Cities processed by the weather warmup job, by result.",
		}, []string{"result"}),
	}
}

// Run measures one task execution.
type Run struct {
	m     *Metrics
	job   string
	start time.Time
}

// Track starts measuring a run of job.
func (m *Metrics) Track(job string) *Run {
	return &Run{m: m, job: job, start: time.Now()}
}

// End records the outcome of the run and returns err unchanged, so handlers
// can write `defer func() { err = run.End(err) }()`.
func (r *Run) End(err error) error {
	if r == nil || r.m == nil {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
		r.m.failures.WithLabelValues(r.job).Inc()
	}
	r.m.runs.WithLabelValues(r.job, status).Inc()
	r.m.duration.WithLabelValues(r.job).Observe(time.Since(r.start).Seconds())
	return err
}

// SetQueueDepth records the pending task count of queue.
func (m *Metrics) SetQueueDepth(queue string, pending int) {
	if m != nil {
		m.queueDepth.WithLabelValues(queue).Set(float64(pending))
	}
}

// CitiesWarmed counts the cities one warmup run refreshed and failed on.
func (m *Metrics) CitiesWarmed(ok, failed int) {
	if m == nil {
		return
	}
	m.warmed.WithLabelValues("ok").Add(float64(ok))
	m.warmed.WithLabelValues("failed").Add(float64(failed))
}
