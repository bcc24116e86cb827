// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the responder's Prometheus collectors. Each Server owns its
// own registry.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	rateLimited prometheus.Counter
	answerTime  prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "code"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatbot_cache_hits_total",
			Help: "Queries answered from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatbot_cache_misses_total",
			Help: "Queries that required an answer.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatbot_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		answerTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatbot_answer_duration_seconds",
			Help:    "Time spent producing uncached answers.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.cacheHits,
		m.cacheMisses,
		m.rateLimited,
		m.answerTime,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeRequest(method, path string, code int) {
	m.requests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
}

func (m *Metrics) observeAnswer(d time.Duration) {
	m.answerTime.Observe(d.Seconds())
}
