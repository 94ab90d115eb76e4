package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherbot_upstream_calls_total",
			Help: "Total calls to upstream APIs and search pages",
		},
		[]string{"provider", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherbot_upstream_latency_seconds",
			Help:    "Upstream call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherbot_replies_total",
			Help: "Total replies by outcome",
		},
		[]string{"outcome"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherbot_stage_failures_total",
			Help: "Reply stages that failed",
		},
		[]string{"stage"},
	)

	PoemFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherbot_poem_fallbacks_total",
			Help: "Poem searches retried with the default query",
		},
	)
)
