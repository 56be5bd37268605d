// Package metrics holds the Prometheus collectors of the generation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "surveygen"

var (
	// LLMRequests counts model calls by backend and outcome ("success", "error", "timeout").
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_requests_total",
		Help:      "Language model calls by backend and outcome.",
	}, []string{"backend", "outcome"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Latency of language model calls.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
	}, []string{"backend"})

	LLMTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_tokens_total",
		Help:      "Estimated tokens sent and received.",
	}, []string{"backend", "direction"})

	// GenerationAttempts counts extraction attempts of the survey step by outcome.
	GenerationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_attempts_total",
		Help:      "Survey generation attempts by step and outcome.",
	}, []string{"step", "outcome"})

	ConsistencyIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consistency_issues_total",
		Help:      "Consistency issues reported by kind.",
	}, []string{"kind"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Survey cache lookups by result.",
	}, []string{"result"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Survey exports by format.",
	}, []string{"format"})
)
