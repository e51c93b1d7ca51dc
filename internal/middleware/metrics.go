package middleware

import (
	"strconv"
	"time"

	appmetrics "go-pantry-api/prometheus"

	"github.com/gofiber/fiber/v2"
)

// Metrics records a counter and latency histogram per route and status.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		method := c.Method()
		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())

		appmetrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		appmetrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)

		return err
	}
}
