// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Content
	ContentMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_content_mutations_total",
			Help: "Successful content mutations by domain and action",
		},
		[]string{"domain", "action"},
	)

	// Auth
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_login_attempts_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"}, // "success", "failure", "error"
	)

	// Feed
	FeedSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_feed_subscribers",
			Help: "Connected /events subscribers",
		},
	)

	// Mail
	MailSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_mail_sent_total",
			Help: "Contact form messages by result",
		},
		[]string{"result"},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordMutation counts one successful content mutation.
func RecordMutation(domain, action string) {
	ContentMutations.WithLabelValues(domain, action).Inc()
}

// RecordLogin counts one login attempt.
func RecordLogin(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}
