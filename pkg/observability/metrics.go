package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by the executor.
type Metrics struct {
	Runs            *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
	Steps           *prometheus.CounterVec
	Attempts        *prometheus.CounterVec
	AttemptDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agendev_runs_total",
				Help: "Finished runs by workflow and status.",
			},
			[]string{"workflow", "status"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agendev_run_duration_seconds",
				Help:    "Wall-clock duration of runs.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"workflow"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agendev_steps_total",
				Help: "Finished steps by step name and outcome.",
			},
			[]string{"step", "outcome"},
		),
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agendev_attempts_total",
				Help: "Agent invocations by agent and verdict.",
			},
			[]string{"agent", "verdict"},
		),
		AttemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agendev_attempt_duration_seconds",
				Help:    "Duration of agent invocations including validation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"agent"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.RunDuration, m.Steps, m.Attempts, m.AttemptDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(e.Workflow, string(e.Status)).Inc()
			m.RunDuration.WithLabelValues(e.Workflow).Observe(e.Duration.Seconds())
		},
		OnStepFinish: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Step, string(e.Outcome)).Inc()
		},
		OnAttemptFinish: func(_ context.Context, e *domain.AttemptEvent) {
			verdict := "rejected"
			switch {
			case e.Err != nil:
				verdict = "error"
			case e.Valid:
				verdict = "accepted"
			}
			m.Attempts.WithLabelValues(e.Agent, verdict).Inc()
			m.AttemptDuration.WithLabelValues(e.Agent).Observe(e.Elapsed.Seconds())
		},
	}
}
