package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the URL resolution cache and the job poller. Registered on the
// default registry; the server exposes them on /metrics.
var (
	// URLCacheHits counts batch resolutions served from cache.
	URLCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "refsync",
		Subsystem: "urlcache",
		Name:      "hits_total",
		Help:      "Number of URL batch resolutions served from cache.",
	})

	// URLCacheMisses counts batch resolutions that required issuing.
	URLCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "refsync",
		Subsystem: "urlcache",
		Name:      "misses_total",
		Help:      "Number of URL batch resolutions that missed the cache.",
	})

	// URLIssueErrors counts failed calls to the URL issuing service.
	URLIssueErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "refsync",
		Subsystem: "urlcache",
		Name:      "issue_errors_total",
		Help:      "Number of failed URL issuing calls.",
	})

	// PollTicks counts job poller iterations.
	PollTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "refsync",
		Subsystem: "jobs",
		Name:      "poll_ticks_total",
		Help:      "Number of job poll iterations.",
	})

	// JobTransitions counts observed job status transitions by target status.
	JobTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "refsync",
		Subsystem: "jobs",
		Name:      "transitions_total",
		Help:      "Number of observed job status transitions.",
	}, []string{"status"})
)
