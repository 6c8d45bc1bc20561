package presenters

import (
	"Foodgram-Backend/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the error envelope. Validation failures also carry
// their per-field messages.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			res.Errors = verr.Fields
		}
	}
	return c.Status(statusCode).JSON(res)
}
