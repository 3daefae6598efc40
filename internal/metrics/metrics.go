// Package metrics holds the Prometheus collectors exported on the metrics port.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)

	// InteractionsTotal counts committed interactions by content kind and action
	// (like, unlike, upvote, downvote, comment, bookmark).
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_interactions_total",
			Help: "Committed user interactions",
		},
		[]string{"kind", "action"},
	)

	// FeedPagesTotal counts assembled feed pages by kind and order.
	FeedPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pages_total",
			Help: "Feed pages assembled",
		},
		[]string{"kind", "order"},
	)

	// NotificationFailuresTotal counts notifications that could not be stored.
	NotificationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Notifications dropped because the store rejected them",
		},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
