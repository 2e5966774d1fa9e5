package shared

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is an error that knows how it should be rendered to the client.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, message string, data interface{}, err error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, message, nil, err)
}

// NewValidationError renders as 400 with the "validation" keyword and details as data.
func NewValidationError(err error, details interface{}) *AppError {
	return NewAppError(fiber.StatusBadRequest, ErrKeywordValidation, details, err)
}

func NewUnauthorizedError(err error, message string) *AppError {
	if message == "" {
		message = ErrKeywordUnauthorized
	}
	return NewAppError(fiber.StatusUnauthorized, message, nil, err)
}

func NewForbiddenError(err error, message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(fiber.StatusForbidden, message, nil, err)
}

func NewNotFoundError(err error, message string) *AppError {
	if message == "" {
		message = "Not Found"
	}
	return NewAppError(fiber.StatusNotFound, message, nil, err)
}

func NewConflictError(err error, message string) *AppError {
	return NewAppError(fiber.StatusConflict, message, nil, err)
}

func NewTooManyRequestsError(message string, data interface{}) *AppError {
	return NewAppError(fiber.StatusTooManyRequests, message, data, nil)
}

func NewInternalError(err error, message string) *AppError {
	if message == "" {
		message = "Internal Server Error"
	}
	return NewAppError(fiber.StatusInternalServerError, message, nil, err)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
