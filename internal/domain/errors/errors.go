package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrTokenExpired    = errors.New("token expired")
	ErrPaymentRequired = errors.New("payment not completed")
	ErrPaymentFailed   = errors.New("payment failed")
)

// Error codes returned to clients
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodePaymentRequired  = "PAYMENT_REQUIRED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// ValidationFailed joins every collected message into one response.
func ValidationFailed(messages []string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidationFailed, strings.Join(messages, ", "), ErrValidation)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func PaymentRequired(message string) *AppError {
	return NewAppError(http.StatusPaymentRequired, CodePaymentRequired, message, ErrPaymentRequired)
}

// InternalError hides the cause from clients; the cause stays in Err for logging.
func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "Something went wrong, please try again later", err)
}
