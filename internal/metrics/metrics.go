package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registerOnce       sync.Once
	workflowStepsTotal *prometheus.CounterVec
	submissionsTotal   *prometheus.CounterVec
	submitDurationHist *prometheus.HistogramVec
)

func ensureCollectors() {
	registerOnce.Do(func() {
		workflowStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "anchor",
			Subsystem: "workflow",
			Name:      "steps_total",
			Help:      "Workflow steps by workflow, step and outcome",
		}, []string{"workflow", "step", "outcome"})

		submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "anchor",
			Subsystem: "ledger",
			Name:      "submissions_total",
			Help:      "Signed transaction submissions by kind and outcome",
		}, []string{"kind", "outcome"})

		submitDurationHist = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "anchor",
			Subsystem: "ledger",
			Name:      "submit_duration_seconds",
			Help:      "Latency of ledger submissions including receipt wait",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"kind"})
	})
}

// Service exposes the workflow and submission collectors. All methods are
// nil-safe so tests can pass a nil service.
type Service struct{}

func New() *Service {
	ensureCollectors()
	return &Service{}
}

func (s *Service) ObserveWorkflowStep(workflow, step, outcome string) {
	if s == nil || workflowStepsTotal == nil {
		return
	}
	workflowStepsTotal.WithLabelValues(workflow, step, outcome).Inc()
}

func (s *Service) ObserveSubmission(kind, outcome string, duration time.Duration) {
	if s == nil || submissionsTotal == nil {
		return
	}
	submissionsTotal.WithLabelValues(kind, outcome).Inc()
	submitDurationHist.WithLabelValues(kind).Observe(duration.Seconds())
}
