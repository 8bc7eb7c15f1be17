// Package handlers provides the HTTP handler functions for the café
// ordering API: the public ordering flow (menu, cart, checkout, live
// queue) and the guarded admin flow (catalog management, order status
// workflow, notifications, spreadsheet export). Handlers talk to MongoDB
// collections directly and integrate with Prometheus for metrics and
// OpenTelemetry for tracing.
package handlers

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

type DB struct {
	AdminCollection          *mongo.Collection
	MenuCollection           *mongo.Collection
	OrdersCollection         *mongo.Collection
	NotificationCollection   *mongo.Collection
	RefreshTokenCollection   *mongo.Collection
	TokenBlacklistCollection *mongo.Collection
	AuditLogCollection       *mongo.Collection

	// Carts live in memory only, scoped to a browsing session. They are
	// never written to the database.
	Carts *CartStore
}

var secretKey = []byte(os.Getenv("session_secret"))

type Response struct {
	AccessToken  string `json:"token" bson:"token"`
	RefreshToken string `json:"refresh_token" bson:"refresh_token"`
}

// Define Prometheus metrics
var (
	// Counter for the number of checkout requests
	checkoutCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_requests_total",
			Help: "Total number of checkout requests",
		},
		[]string{"status"}, // Label for status (e.g., success, error)
	)

	// Histogram for checkout duration
	checkoutDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Histogram of request durations for checkout",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// Counter for the number of login requests
	loginRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_requests_total",
		Help: "Total number of admin login requests",
	})

	loginRequestsbyStatus = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_requests_by_status_total",
		Help: "Total number of admin login requests by status",
	},
		[]string{"status"})
)

func Init() {
	// Register metrics with Prometheus
	prometheus.MustRegister(checkoutCount)
	prometheus.MustRegister(checkoutDuration)
	prometheus.MustRegister(loginRequests)
	prometheus.MustRegister(loginRequestsbyStatus)
}
