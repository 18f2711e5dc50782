// Package metrics holds the prometheus collectors recorded while signing and verifying
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a set of collectors registered on their own registry, so that several runs
// (or tests) in one process do not collide on the global one
type Metrics struct {
	Registry *prometheus.Registry

	// Verifications counts successful verifications
	Verifications prometheus.Counter
	// VerificationFailures counts verifications that hit an invariant violation
	VerificationFailures prometheus.Counter
	// StageDuration observes the time spent in each pipeline stage, labeled by stage
	StageDuration *prometheus.HistogramVec
}

// New builds and registers a fresh set of collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Verifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rw_verifications_total",
			Help: "Number of compressed signature verifications that succeeded",
		}),
		VerificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rw_verification_failures_total",
			Help: "Number of compressed signature verifications that failed",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rw_stage_duration_seconds",
			Help:    "Time spent in each stage of key generation, signing and verification",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 10),
		}, []string{"stage"}),
	}

	m.Registry.MustRegister(m.Verifications, m.VerificationFailures, m.StageDuration)
	return m
}

// Summary gathers every collector and returns a flat name -> value map.
// Counters report their value, histograms their sample sum, keyed as name{stage}
func (m *Metrics) Summary() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range metric.GetLabel() {
				name += "{" + l.GetValue() + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				out[name] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				out[name] = metric.GetHistogram().GetSampleSum()
			}
		}
	}
	return out, nil
}
