package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BusinessesRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "businesses_registered_total",
		Help: "Total number of businesses registered",
	})

	RegistrationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_failed_total",
		Help: "Total number of failed registrations",
	}, []string{"reason"})

	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Total number of successful logins",
	})

	LoginsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logins_failed_total",
		Help: "Total number of failed login attempts",
	})

	PurchasesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchases_recorded_total",
		Help: "Total number of purchases recorded",
	})

	PointsEarnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "points_earned_total",
		Help: "Total green points earned across all purchases",
	})

	RedemptionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redemptions_total",
		Help: "Total number of successful point redemptions",
	})

	RedemptionsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redemptions_rejected_total",
		Help: "Total number of redemptions rejected for insufficient balance",
	})

	PointsRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "points_redeemed_total",
		Help: "Total green points redeemed for credit",
	})

	StatementsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "statements_generated_total",
		Help: "Total number of statements generated",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
