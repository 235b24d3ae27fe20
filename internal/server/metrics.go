package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_runs_total",
		Help: "Coverage pipeline runs by outcome.",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coverage_run_duration_seconds",
		Help:    "End-to-end duration of coverage pipeline runs.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	runFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_run_failures_total",
		Help: "Coverage pipeline failures by stage.",
	}, []string{"stage"})
)
