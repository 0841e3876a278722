// Package metrics exposes pipeline measurements to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elC0mpa/cloud-doctor/model"
)

// PrometheusMetrics records run, stage and action counters on its own
// registry.
type PrometheusMetrics struct {
	registry          *prometheus.Registry
	runs              *prometheus.CounterVec
	stageTransitions  *prometheus.CounterVec
	actionsProposed   *prometheus.CounterVec
	actionsExecuted   *prometheus.CounterVec
	negotiationRounds prometheus.Histogram
	potentialSavings  prometheus.Gauge
}

func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clouddoctor_runs_total",
		Help: "Finished runs by outcome",
	}, []string{"outcome"})

	stages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clouddoctor_stage_transitions_total",
		Help: "Pipeline stage transitions",
	}, []string{"from", "to"})

	proposed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clouddoctor_actions_proposed_total",
		Help: "Planned actions proposed by the reasoning agent",
	}, []string{"type"})

	executed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clouddoctor_actions_executed_total",
		Help: "Planned actions executed",
	}, []string{"type"})

	rounds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clouddoctor_negotiation_rounds",
		Help:    "Reasoning service calls per negotiation",
		Buckets: prometheus.LinearBuckets(1, 1, 9),
	})

	savings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "clouddoctor_last_run_potential_savings_monthly",
		Help: "Potential monthly savings found by the last finished run",
	})

	reg.MustRegister(runs, stages, proposed, executed, rounds, savings)

	return &PrometheusMetrics{
		registry:          reg,
		runs:              runs,
		stageTransitions:  stages,
		actionsProposed:   proposed,
		actionsExecuted:   executed,
		negotiationRounds: rounds,
		potentialSavings:  savings,
	}
}

// Handler returns the HTTP handler for /metrics
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) StageTransition(from, to model.Stage) {
	m.stageTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *PrometheusMetrics) RunFinished(outcome string, potentialSavings float64) {
	m.runs.WithLabelValues(outcome).Inc()
	if outcome != "failed" {
		m.potentialSavings.Set(potentialSavings)
	}
}

func (m *PrometheusMetrics) ActionsProposed(actions []model.PlannedAction) {
	for _, a := range actions {
		m.actionsProposed.WithLabelValues(string(a.Type)).Inc()
	}
}

func (m *PrometheusMetrics) ActionExecuted(actionType model.ActionType) {
	m.actionsExecuted.WithLabelValues(string(actionType)).Inc()
}

func (m *PrometheusMetrics) NegotiationRounds(rounds int) {
	m.negotiationRounds.Observe(float64(rounds))
}

// Nop discards every measurement
type Nop struct{}

func (Nop) StageTransition(model.Stage, model.Stage) {}
func (Nop) RunFinished(string, float64)              {}
func (Nop) ActionsProposed([]model.PlannedAction)    {}
func (Nop) ActionExecuted(model.ActionType)          {}
func (Nop) NegotiationRounds(int)                    {}
