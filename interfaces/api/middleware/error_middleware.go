package middleware

import (
	"github.com/gofiber/fiber/v2"

	"filestore/pkg/logger"
	"filestore/pkg/utils"
)

// ErrorHandler catches errors that escape handlers (panics recovered by
// fiber, unknown routes) and wraps them in the standard envelope
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := "Internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
			switch code {
			case fiber.StatusBadRequest:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			}
		}

		logger.ErrorContext(c.UserContext(), "Unhandled request error", "error", err, "path", c.Path())

		return utils.ErrorResponse(c, code, errCode, message, nil)
	}
}
