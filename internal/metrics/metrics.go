package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the engine's collectors. A nil *Recorder records nothing.
type Recorder struct {
	executions  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	verdicts    *prometheus.CounterVec
	rateLimited prometheus.Counter
	registerer  prometheus.Registerer
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		executions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_executions_total",
				Help: "Total number of code executions",
			},
			[]string{"language", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judge_execution_duration_seconds",
				Help:    "Wall time of an execution including the build step",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"language"},
		),
		verdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_verdicts_total",
				Help: "Total number of judged submissions by verdict",
			},
			[]string{"verdict"},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "judge_rate_limit_waits_total",
				Help: "Requests that had to wait for the rate limiter",
			},
		),
		registerer: reg,
	}
}

func (r *Recorder) ObserveExecution(language, outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.executions.WithLabelValues(language, outcome).Inc()
	r.duration.WithLabelValues(language).Observe(took.Seconds())
}

func (r *Recorder) ObserveVerdict(verdict string) {
	if r == nil {
		return
	}
	r.verdicts.WithLabelValues(verdict).Inc()
}

func (r *Recorder) RateLimited() {
	if r == nil {
		return
	}
	r.rateLimited.Inc()
}

// TrackLiveArtifacts exposes the number of open work directories.
func (r *Recorder) TrackLiveArtifacts(live func() int) {
	if r == nil {
		return
	}
	promauto.With(r.registerer).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "judge_work_artifacts_live",
			Help: "Work directories that have not been removed yet",
		},
		func() float64 { return float64(live()) },
	)
}
