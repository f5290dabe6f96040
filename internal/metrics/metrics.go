package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AppointmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "headspa_appointments_created_total",
		Help: "Appointments successfully booked.",
	})

	AppointmentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "headspa_appointment_conflicts_total",
		Help: "Bookings or edits rejected because the slot was taken.",
	})

	AppointmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "headspa_appointment_transitions_total",
		Help: "Status transitions by target status.",
	}, []string{"status"})

	LockWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "headspa_booking_lock_wait_seconds",
		Help:    "Time spent waiting for the per-date booking lock.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "headspa_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "headspa_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Middleware registra contagem e latência por rota (template, não path real).
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
