package middleware

import (
	"time"

	"coown-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RouteLogger logs each request entry and exit with status, duration and trace ID.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := GetTraceID(c)
		if traceID == "" {
			traceID = "no-trace-id"
		}
		start := time.Now()
		log.Debug().Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// Same mapping the error handler uses to write the response.
			status = response.StatusFor(err)
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("trace_id", traceID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("ms", time.Since(start).Milliseconds()).
			Msg("Exiting request")
		return err
	}
}
