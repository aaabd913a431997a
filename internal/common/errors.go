package common

import (
	"errors"
	"net/http"
)

// Error codes shared across the API.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeGateway    = "GATEWAY_ERROR"
	CodeStorage    = "STORAGE_ERROR"
	CodeInternal   = "INTERNAL"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// ValidationError flags caller-supplied input as malformed or mismatched.
func ValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, http.StatusBadRequest, nil)
}

// NotFoundError flags a referenced entity as absent.
func NotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, nil)
}

// GatewayError wraps an upstream payment gateway failure.
func GatewayError(message string, err error) *AppError {
	return NewAppError(CodeGateway, message, http.StatusInternalServerError, err)
}

// StorageError wraps an underlying store failure. The cause is logged by the
// caller, never exposed to the client.
func StorageError(err error) *AppError {
	return NewAppError(CodeStorage, "storage failure", http.StatusInternalServerError, err)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
