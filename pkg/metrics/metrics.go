package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "authapi"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// AuthEvents counts auth flow outcomes, e.g. flow="login" outcome="invalid_credentials".
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "auth_events_total", Help: "Auth flow outcomes by flow and outcome."},
		[]string{"flow", "outcome"},
	)
)

// Auth records one outcome of flow.
func Auth(flow, outcome string) {
	AuthEvents.WithLabelValues(flow, outcome).Inc()
}

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(AuthEvents)
}
