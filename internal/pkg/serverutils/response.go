// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// SuccessResponse is the uniform success envelope for REST endpoints.
func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	}
}

// ValidateRequest runs struct validation on a parsed request body and
// returns a fiber error ready to hand back to the client.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			first := validationErrs[0]
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed on field '"+first.Field()+"' ("+first.Tag()+")")
		}
		return fiber.NewError(fiber.StatusBadRequest, "Validation failed")
	}
	return nil
}

// ErrorHandlerMiddleware turns errors returned down the chain into the
// uniform error envelope. Fiber errors keep their status; everything else
// is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
