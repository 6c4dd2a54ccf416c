package webapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/clarobank/bankcore/pkg/domain"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ErrorResponseJSON writes a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAmountNotPositive):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrSameAccountTransfer):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns the populated struct, or writes an
// error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
