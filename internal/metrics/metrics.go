package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assembly outcomes
const (
	OutcomeOK    = "ok"
	OutcomeDemo  = "demo"
	OutcomeEmpty = "empty"
)

// Registry holds the power map metrics. A nil *Registry is valid and records nothing.
type Registry struct {
	AssembliesTotal        *prometheus.CounterVec
	AssemblyDuration       prometheus.Histogram
	AssembledNodes         prometheus.Histogram
	AttributeDefaultsTotal *prometheus.CounterVec
	SchemaLookupsTotal     *prometheus.CounterVec
	MetricFailuresTotal    *prometheus.CounterVec
	AnalysisDuration       prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric registered
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}
	f := promauto.With(reg)

	r.AssembliesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powermap_assemblies_total",
			Help: "Graph assemblies by outcome",
		},
		[]string{"outcome"},
	)
	r.AssemblyDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "powermap_assembly_duration_seconds",
		Help:    "Graph assembly duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	r.AssembledNodes = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "powermap_assembled_nodes",
		Help:    "Number of stakeholders per assembled graph",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
	})
	r.AttributeDefaultsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powermap_attribute_defaults_total",
			Help: "Attribute lookups that fell back to the default value",
		},
		[]string{"attribute"},
	)
	r.SchemaLookupsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powermap_schema_lookups_total",
			Help: "Attribute schema lookups by cache result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)
	r.MetricFailuresTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powermap_metric_failures_total",
			Help: "Analytics sections that failed and were returned empty",
		},
		[]string{"metric"},
	)
	r.AnalysisDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "powermap_analysis_duration_seconds",
		Help:    "Full network analysis duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
	})
	return r
}

// WriteTextfile writes the current metric values in text exposition format
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// RecordAssembly records one finished assembly
func (r *Registry) RecordAssembly(outcome string, nodes int, d time.Duration) {
	if r == nil {
		return
	}
	r.AssembliesTotal.WithLabelValues(outcome).Inc()
	r.AssemblyDuration.Observe(d.Seconds())
	r.AssembledNodes.Observe(float64(nodes))
}

// RecordAttributeDefault counts an attribute that resolved to its default
func (r *Registry) RecordAttributeDefault(attribute string) {
	if r == nil {
		return
	}
	r.AttributeDefaultsTotal.WithLabelValues(attribute).Inc()
}

// RecordSchemaLookup counts a schema cache access
func (r *Registry) RecordSchemaLookup(result string) {
	if r == nil {
		return
	}
	r.SchemaLookupsTotal.WithLabelValues(result).Inc()
}

// RecordMetricFailure counts an analytics section that was dropped
func (r *Registry) RecordMetricFailure(metric string) {
	if r == nil {
		return
	}
	r.MetricFailuresTotal.WithLabelValues(metric).Inc()
}

// RecordAnalysis records one full analysis run
func (r *Registry) RecordAnalysis(d time.Duration) {
	if r == nil {
		return
	}
	r.AnalysisDuration.Observe(d.Seconds())
}
