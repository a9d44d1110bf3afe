package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsMiddleware records a request counter and a latency histogram for
// every request. Paths are labeled with the matched route pattern rather than
// the raw URL, so parameterized routes stay at one series each.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requests, counterErr := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	latencies, histoErr := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)

	if counterErr != nil || histoErr != nil {
		// A broken instrument must not take request handling down with it.
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", routeLabel(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)

		requests.Add(c.Request.Context(), 1, attrs)
		latencies.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}

// routeLabel falls back to "unknown" for requests that matched no route, so
// scans of arbitrary URLs collapse into a single series.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}

	return fullPath
}
