package ogsite

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics are the app's own Prometheus collectors. They live in a registry
// per App so several Apps (as in tests) never collide.
type Metrics struct {
	Registry *prometheus.Registry

	Renders          *prometheus.CounterVec
	RenderDuration   *prometheus.HistogramVec
	ImageCacheHits   prometheus.Counter
	ImageCacheMisses prometheus.Counter
	RenderRejected   prometheus.Counter
	CardFetches      *prometheus.CounterVec
	ContentReloads   *prometheus.CounterVec
	Posts            prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with a fresh
// registry, together with the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ogsite",
				Name:      "og_renders_total",
				Help:      "Preview card renders by card kind and result",
			},
			[]string{"kind", "result"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ogsite",
				Name:      "og_render_duration_seconds",
				Help:      "Duration of preview card renders in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
		ImageCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ogsite",
			Name:      "og_cache_hits_total",
			Help:      "Preview cards served from memory",
		}),
		ImageCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ogsite",
			Name:      "og_cache_misses_total",
			Help:      "Preview card lookups that required a render",
		}),
		RenderRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ogsite",
			Name:      "og_render_rejected_total",
			Help:      "Renders refused by the per-IP limiter",
		}),
		CardFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ogsite",
				Name:      "og_card_fetches_total",
				Help:      "Preview card responses by card kind and fetching client",
			},
			[]string{"kind", "client"},
		),
		ContentReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ogsite",
				Name:      "content_reloads_total",
				Help:      "Content reloads by result",
			},
			[]string{"result"},
		),
		Posts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ogsite",
			Name:      "posts",
			Help:      "Number of published posts",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Renders, m.RenderDuration, m.ImageCacheHits, m.ImageCacheMisses,
		m.RenderRejected, m.CardFetches, m.ContentReloads, m.Posts,
	)
	return m
}
