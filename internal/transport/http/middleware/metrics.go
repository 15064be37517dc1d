package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatchedRoute = "unmatched"

var (
	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route template, method and status",
		},
		[]string{"route", "method", "status"},
	)
	latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route template",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)
	inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "crm",
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Requests currently being served",
	})
	// reason: rate_limited / overloaded / body_too_large / timeout
	rejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "http",
			Name:      "rejected_total",
			Help:      "Requests rejected by protective middleware",
		},
		[]string{"reason"},
	)
	// reason: missing_token / invalid_token / forbidden / bad_credentials
	authFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "auth_failures_total",
			Help:      "Rejected authentication attempts",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(requests, latency, inFlight, rejected, authFailures)
}

func CountAuthFailure(reason string) { authFailures.WithLabelValues(reason).Inc() }

func countRejected(reason string) { rejected.WithLabelValues(reason).Inc() }

// Metrics 按路由模板（/api/leads/:id）而不是原始路径打点
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		inFlight.Inc()
		start := time.Now()
		defer inFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler GET /metrics
func MetricsHandler() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
