package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all Prometheus metrics for a sync run. The job is a batch
// process with no scrape surface, so metrics live in their own registry and
// are pushed to a Pushgateway when one is configured.
type Metrics struct {
	registry *prometheus.Registry

	Lookups    prometheus.Counter
	CacheHits  prometheus.Counter
	Tagged     prometheus.Counter
	NotFound   prometheus.Counter
	Created    prometheus.Counter
	Failures   *prometheus.CounterVec
}

// New creates and registers all metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Lookups: factory.NewCounter(prometheus.CounterOpts{
			Name: "rostersync_lookups_total",
			Help: "Total subscriber lookups issued against the chat platform",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "rostersync_lookup_cache_hits_total",
			Help: "Subscriber lookups answered from the cache",
		}),
		Tagged: factory.NewCounter(prometheus.CounterOpts{
			Name: "rostersync_subscribers_tagged_total",
			Help: "Subscribers that received a tag",
		}),
		NotFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "rostersync_subscribers_not_found_total",
			Help: "Professionals with no matching subscriber",
		}),
		Created: factory.NewCounter(prometheus.CounterOpts{
			Name: "rostersync_subscribers_created_total",
			Help: "Subscribers created during onboarding",
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rostersync_record_failures_total",
			Help: "Records that failed processing, by flow",
		}, []string{"flow"}),
	}
}

// Push sends the run's metrics to a Pushgateway. A nil receiver or empty URL
// is a no-op so callers do not have to guard the optional dependency.
func (m *Metrics) Push(url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	return push.New(url, job).Gatherer(m.registry).Push()
}
