// file: internals/helpers/response.go
package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"timetable_backend/internals/apperr"
)

// ✅ Success response without custom code (default 200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// ✅ Success response with custom code (e.g. 201 for created)
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// ✅ Simple error response
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// ✅ Error response with field/violation details
func ErrorWithDetails(c *fiber.Ctx, code int, message string, errors interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
		"errors":  errors,
	})
}

// ✅ validator.v10 errors → field map
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	errorsMap := make(map[string]string)
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	return ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", errorsMap)
}

// FromAppError maps the apperr taxonomy (and *fiber.Error) onto the
// JSON envelope. Anything unrecognized falls back to 500.
func FromAppError(c *fiber.Ctx, err error) error {
	if e, ok := apperr.AsNotFound(err); ok {
		return Error(c, fiber.StatusNotFound, e.Error())
	}
	if e, ok := apperr.AsValidation(err); ok {
		return ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", e.Violations)
	}
	if e, ok := apperr.AsConflict(err); ok {
		return ErrorWithDetails(c, fiber.StatusConflict, "Name conflict", e.Conflicts)
	}
	if e, ok := apperr.AsSolverExecution(err); ok {
		return ErrorWithDetails(c, fiber.StatusInternalServerError, "Solver execution failed", fiber.Map{
			"exit_code": e.ExitCode,
			"stderr":    e.Stderr,
		})
	}
	if fe, ok := err.(*fiber.Error); ok {
		return Error(c, fe.Code, fe.Message)
	}
	return Error(c, fiber.StatusInternalServerError, err.Error())
}
