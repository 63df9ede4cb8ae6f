package utils

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"pipecrm/apperrors"
)

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

// AppErrorResponse translates a taxonomy error into a transport response.
// Internal errors are logged and reported, the rest map straight to a status.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindConflict:
		return ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	case apperrors.KindNotFound:
		return ErrorResponse(c, fiber.StatusNotFound, err.Error(), nil)
	case apperrors.KindNotMember, apperrors.KindPermissionDenied, apperrors.KindForbidden:
		return ErrorResponse(c, fiber.StatusForbidden, err.Error(), nil)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("internal error")
		sentry.CaptureException(err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}
}

// SuccessResponse creates a standardized success response
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}

// ParseUint safely parses a string to uint
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}

// PaginatedResponse structure for paginated results
type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
