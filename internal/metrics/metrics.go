package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scheduling counters. Registered on the default registry; /metrics serves it.
var (
	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_reservations_created_total",
		Help: "Holds successfully acquired.",
	})

	ReservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_reservation_conflicts_total",
		Help: "Reserve attempts lost to an overlapping booking.",
	})

	PolicyRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_policy_rejections_total",
		Help: "Bookings rejected by a salon rule, labelled by rule kind.",
	}, []string{"kind"})

	ExpiredHolds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_expired_holds_total",
		Help: "Reserved holds released by the sweep.",
	})

	WaitlistMatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_waitlist_matches_total",
		Help: "Waitlist entries notified about a freed slot.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// Handler serves the default registry for the /metrics route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records per-route request counts and latency. The route label
// uses gin's pattern (":id" stays a placeholder) to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
