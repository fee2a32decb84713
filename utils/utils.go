package utils

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LogEvent logs an event with structured data
func LogEvent(eventType string, data map[string]interface{}) {
	logrus.WithFields(logrus.Fields(data)).Info(eventType)
}

// CaptureError logs an infrastructure failure with full detail and ships
// it to Sentry when a DSN is configured. Callers still return a generic
// message to the client.
func CaptureError(err error, context map[string]interface{}) {
	logrus.WithFields(logrus.Fields(context)).WithError(err).Error("infrastructure error")
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for k, v := range context {
				scope.SetExtra(k, v)
			}
			hub.CaptureException(err)
		})
	}
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	return c.Status(status).JSON(response)
}

// SuccessResponse creates a standardized success response
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// ParseUint safely parses a string to uint
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}
