package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smarttrip",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smarttrip",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 180},
	}, []string{"method", "path"})

	OptimizerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smarttrip",
		Subsystem: "optimizer",
		Name:      "requests_total",
		Help:      "Calls to the remote optimizer by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	OptimizerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smarttrip",
		Subsystem: "optimizer",
		Name:      "request_duration_seconds",
		Help:      "Latency of remote optimizer calls",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 180},
	}, []string{"endpoint"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smarttrip",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Optimizer answers served from cache",
	}, []string{"endpoint"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smarttrip",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Optimizer answers not found in cache",
	}, []string{"endpoint"})

	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smarttrip",
		Subsystem: "search",
		Name:      "total",
		Help:      "Trip searches by mode and outcome",
	}, []string{"mode", "outcome"})

	StaleResultsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "smarttrip",
		Subsystem: "search",
		Name:      "stale_results_discarded_total",
		Help:      "Optimizer answers dropped because a newer search superseded them",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "smarttrip",
		Subsystem: "session",
		Name:      "active",
		Help:      "Sessions currently held in memory",
	})
)

// Middleware records request metrics under the matched route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// Handler serves the Prometheus exposition format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
