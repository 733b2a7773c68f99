package middleware

import "github.com/prometheus/client_golang/prometheus"

var (
	RLAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_allowed_total",
			Help: "API requests admitted through the Redis rate limiter",
		},
		[]string{"endpoint"},
	)
	RLThrottled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_throttled_total",
			Help: "API requests rejected with 429 by the Redis rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(RLAllowed, RLThrottled)
}
