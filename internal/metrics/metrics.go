// Package metrics exposes plan statistics in the Prometheus format, either
// scraped from `remedy serve` or written to a node-exporter textfile.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

const namespace = "remedy"

// Collector holds the plan gauges and HTTP request metrics on a private
// registry, so several collectors can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	// tasks is the number of tasks per phase.
	// Labels: phase (phase name)
	tasks *prometheus.GaugeVec

	highRiskTasks prometheus.Gauge
	estimatedDays prometheus.Gauge

	// overallRisk is 1 for the plan's overall risk level and 0 for the others.
	// Labels: level
	overallRisk *prometheus.GaugeVec

	// diagnostics counts the last plan's diagnostics.
	// Labels: severity (info, warning, error)
	diagnostics *prometheus.GaugeVec

	plansTotal prometheus.Counter

	// requests counts HTTP requests.
	// Labels: route, code
	requests *prometheus.CounterVec

	// requestDuration measures HTTP request latency.
	// Labels: route
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		tasks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "tasks",
			Help:      "Number of tasks in each phase of the last plan",
		}, []string{"phase"}),
		highRiskTasks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "high_risk_tasks",
			Help:      "Number of high or critical risk tasks in the last plan",
		}),
		estimatedDays: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "estimated_days",
			Help:      "Estimated working days for the last plan, review buffer included",
		}),
		overallRisk: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "overall_risk",
			Help:      "Overall risk of the last plan, one-hot by level",
		}, []string{"level"}),
		diagnostics: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "diagnostics",
			Help:      "Number of diagnostics on the last plan by severity",
		}, []string{"severity"}),
		plansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_generated_total",
			Help:      "Total plans generated",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}
}

// Observe records plan as the last plan generated.
func (c *Collector) Observe(plan *cleanup.CleanupPlan) {
	counts := make(map[int]int, cleanup.NumPhases)
	for _, phase := range plan.Phases {
		counts[phase.PhaseNumber] = len(phase.Tasks)
	}
	// Every phase is set so empty phases read 0 instead of going stale.
	for n := 1; n <= cleanup.NumPhases; n++ {
		c.tasks.WithLabelValues(cleanup.PhaseName(n)).Set(float64(counts[n]))
	}

	c.highRiskTasks.Set(float64(len(plan.RiskAssessment.HighRiskTasks)))
	c.estimatedDays.Set(cleanup.EstimateDays(plan.Tasks))

	for _, level := range cleanup.ValidRiskLevels() {
		v := 0.0
		if level == plan.RiskAssessment.OverallRisk {
			v = 1
		}
		c.overallRisk.WithLabelValues(string(level)).Set(v)
	}

	bySeverity := map[cleanup.DiagnosticSeverity]int{}
	for _, d := range plan.Diagnostics {
		bySeverity[d.Severity]++
	}
	for _, sev := range []cleanup.DiagnosticSeverity{cleanup.DiagnosticInfo, cleanup.DiagnosticWarning, cleanup.DiagnosticError} {
		c.diagnostics.WithLabelValues(string(sev)).Set(float64(bySeverity[sev]))
	}

	c.plansTotal.Inc()
}

// ObserveRequest records one HTTP request.
func (c *Collector) ObserveRequest(route string, code int, elapsed time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Registry returns the registry holding this collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an http.Handler serving the metrics in the Prometheus
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// WriteTextfile writes the gauges for plan to path for the node-exporter
// textfile collector. The file is replaced atomically.
func WriteTextfile(path string, plan *cleanup.CleanupPlan) error {
	c := NewCollector()
	c.Observe(plan)
	return prometheus.WriteToTextfile(path, c.registry)
}
