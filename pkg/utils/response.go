package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ========== Response Structures ==========

// Response คือ envelope มาตรฐานของทุก endpoint:
// success -> {status: "success", payload: {...}}
// error   -> {status: "error", errors: [...]}
type Response struct {
	Status  string      `json:"status"`
	Payload any         `json:"payload,omitempty"`
	Errors  []ErrorInfo `json:"errors,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ========== Error Code Constants ==========

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnsupportedBackend = "UNSUPPORTED_BACKEND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Status:  StatusSuccess,
		Payload: payload,
	})
}

func CreatedResponse(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Status:  StatusSuccess,
		Payload: payload,
	})
}

func NewMeta(total int64, page, limit int) Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return Meta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, code, message string, details any) error {
	return c.Status(statusCode).JSON(Response{
		Status: StatusError,
		Errors: []ErrorInfo{
			{
				Code:    code,
				Message: message,
				Details: details,
			},
		},
	})
}

func ValidationErrorResponse(c *fiber.Ctx, details any) error {
	return ErrorResponse(
		c,
		fiber.StatusBadRequest,
		ErrCodeValidation,
		"Validation failed",
		details,
	)
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(
		c,
		fiber.StatusBadRequest,
		ErrCodeBadRequest,
		message,
		nil,
	)
}

func UnsupportedBackendResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "The configured storage backend does not support this operation"
	}
	return ErrorResponse(
		c,
		fiber.StatusBadRequest,
		ErrCodeUnsupportedBackend,
		message,
		nil,
	)
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse(
		c,
		fiber.StatusNotFound,
		ErrCodeNotFound,
		message,
		nil,
	)
}

func InternalServerErrorResponse(c *fiber.Ctx) error {
	return ErrorResponse(
		c,
		fiber.StatusInternalServerError,
		ErrCodeInternalError,
		"Internal server error",
		nil,
	)
}
