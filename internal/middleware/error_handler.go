package middleware

import (
	"errors"

	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Returns the standard error format.
// Domain errors keep their message; anything unexpected is reported as a
// generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := response.StatusFor(err)
	message := "Internal Server Error"
	details := map[string]interface{}{}

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		message = fe.Message
	case domain.KindOf(err) != "":
		message = err.Error()
		details["kind"] = domain.KindOf(err)
	default:
		log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("unhandled error")
	}
	return response.Error(c, message, code, details)
}
