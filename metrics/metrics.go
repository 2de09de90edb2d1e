// Package metrics exports Prometheus counters for the counseling pipeline.
// All metrics are registered with the default registry at package init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CounselingCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "counseling_cache_hits_total",
			Help: "Counseling requests served from the durable store or memo",
		},
	)

	CounselingCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "counseling_cache_misses_total",
			Help: "Counseling requests that required provider generation",
		},
	)

	ProviderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_failures_total",
			Help: "Generative provider call failures by kind",
		},
		[]string{"kind"},
	)

	AudioGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audio_generated_total",
			Help: "Audio assets synthesized and persisted",
		},
	)
)

func init() {
	prometheus.MustRegister(CounselingCacheHits)
	prometheus.MustRegister(CounselingCacheMisses)
	prometheus.MustRegister(ProviderFailures)
	prometheus.MustRegister(AudioGenerated)
}
