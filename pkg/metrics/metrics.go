package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "website_registrations_total",
			Help: "Public registrations by outcome",
		},
		[]string{"outcome"}, // ok|duplicate|invalid|error
	)

	PasswordSetupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "website_password_setups_total",
			Help: "Password setup completions by outcome",
		},
		[]string{"outcome"}, // ok|mismatch|invalid_token|orphan|weak|error
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "website_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // ok|invalid_credentials|inactive|error
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "website_http_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "website_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

const (
	OutcomeOK                 = "ok"
	OutcomeDuplicate          = "duplicate"
	OutcomeInvalid            = "invalid"
	OutcomeMismatch           = "mismatch"
	OutcomeInvalidToken       = "invalid_token"
	OutcomeOrphan             = "orphan"
	OutcomeWeak               = "weak"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeInactive           = "inactive"
	OutcomeError              = "error"
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RegistrationsTotal,
		PasswordSetupsTotal,
		LoginsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
