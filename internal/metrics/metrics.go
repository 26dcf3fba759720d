package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	UsersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total successful sign-ups",
		},
	)

	TaskOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_operations_total",
			Help: "Total successful task operations",
		},
		[]string{"op"}, // create|update|delete
	)

	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Account e-mails by kind and outcome",
		},
		[]string{"kind", "status"}, // welcome|farewell, sent|failed
	)

	// worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(UsersRegistered)
		prometheus.MustRegister(TaskOperations)
		prometheus.MustRegister(Notifications)
		prometheus.MustRegister(WorkerQueueDepth)
	})
}
