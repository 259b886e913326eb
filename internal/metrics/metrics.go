// Package metrics exposes Prometheus collectors for the audit service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysesTotal              *prometheus.CounterVec
	analysisDurationSeconds    prometheus.Histogram
	fetchBytesTotal            prometheus.Counter
	pagespeedRequestsTotal     *prometheus.CounterVec
	quotaDecisionsTotal        *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times; every Observe
// helper calls it lazily.
func Init() {
	once.Do(func() {
		analysesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_analyses_total",
				Help: "Total number of analyses, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		analysisDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "audit_analysis_duration_seconds",
				Help:    "Histogram of end-to-end analysis latencies.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 45},
			},
		)

		fetchBytesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "audit_fetch_bytes_total",
				Help: "Total number of bytes downloaded from audited pages.",
			},
		)

		pagespeedRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_pagespeed_requests_total",
				Help: "Total performance API calls, labeled by strategy and outcome.",
			},
			[]string{"strategy", "outcome"},
		)

		quotaDecisionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_quota_decisions_total",
				Help: "Total usage limiter decisions, labeled allowed or denied.",
			},
			[]string{"decision"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 45},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(outcome string, duration time.Duration, fetchedBytes int) {
	Init()
	analysesTotal.WithLabelValues(outcome).Inc()
	analysisDurationSeconds.Observe(duration.Seconds())
	if fetchedBytes > 0 {
		fetchBytesTotal.Add(float64(fetchedBytes))
	}
}

// ObservePageSpeed records one performance API call.
func ObservePageSpeed(strategy, outcome string) {
	Init()
	pagespeedRequestsTotal.WithLabelValues(strategy, outcome).Inc()
}

// ObserveQuota records a usage limiter decision.
func ObserveQuota(allowed bool) {
	Init()
	decision := "allowed"
	if !allowed {
		decision = "denied"
	}
	quotaDecisionsTotal.WithLabelValues(decision).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
