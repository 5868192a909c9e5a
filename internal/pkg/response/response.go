package response

import (
	"errors"

	"coown-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusOK, message, data, metadata)
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusCreated, message, data, metadata)
}

func send(c *fiber.Ctx, code int, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(code).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

// StatusFor maps an error's domain kind to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// DomainError sends err in the standard error format. The details carry the
// error kind so clients can branch without parsing the message.
func DomainError(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	details := map[string]interface{}{}
	if kind := domain.KindOf(err); kind != "" {
		details["kind"] = kind
	}
	return Error(c, err.Error(), code, details)
}

// Forbidden sends 403 with the same shape as other errors.
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusForbidden, nil)
}
