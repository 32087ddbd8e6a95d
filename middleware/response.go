package middleware

import (
	"errors"

	"learnhub/apperror"
	"learnhub/logger"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	body := fiber.Map{
		"success": success,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(statusCode).JSON(body)
}

func ValidationErrorResponse(c *fiber.Ctx, fields map[string]string) error {
	return JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", fields)
}

// NewErrorHandler maps returned errors to the JSON error shape. Causes of
// storage failures are logged and only sent to the client when exposeDetail is set.
func NewErrorHandler(exposeDetail bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			status := appErr.Status()
			if status < fiber.StatusInternalServerError {
				return JsonResponse(c, status, false, appErr.Message, nil)
			}

			logger.Log.Error(appErr.Message,
				"error", appErr.Err,
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals("requestid"),
			)
			if exposeDetail && appErr.Err != nil {
				return c.Status(status).JSON(fiber.Map{
					"success": false,
					"message": appErr.Message,
					"error":   appErr.Err.Error(),
				})
			}
			return JsonResponse(c, status, false, appErr.Message, nil)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return JsonResponse(c, fiberErr.Code, false, fiberErr.Message, nil)
		}

		logger.Log.Error("Unhandled error", "error", err, "method", c.Method(), "path", c.Path())
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}
}
