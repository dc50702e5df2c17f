package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LoginAttempts counts login outcomes per flow (callback|token):
	// success, no_code, auth_failed, store_failed.
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ieltsauth", Name: "logins_total", Help: "Number of login attempts by flow and outcome."},
		[]string{"flow", "outcome"},
	)
	UsersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "ieltsauth", Name: "users_created_total", Help: "Number of user rows created on first login."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ieltsauth", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ieltsauth", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(UsersCreated)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
