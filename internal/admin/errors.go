package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

// Code identifies the category of a failed admin operation.
type Code string

const (
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeWriteDisabled    Code = "WRITE_DISABLED"
	CodeOperationFailed  Code = "OPERATION_FAILED"
)

// HTTPStatus returns the HTTP status code for a code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeWriteDisabled:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is the uniform failure returned by the gateway.
type Error struct {
	Code    Code                `json:"code"`
	Message string              `json:"error"`
	Fields  []models.FieldError `json:"fields,omitempty"`
	Hint    string              `json:"hint,omitempty"`
	Cause   error               `json:"-"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func unauthorized() *Error {
	return &Error{Code: CodeUnauthorized, Message: "invalid admin credential"}
}

func invalidPayload(msg string, cause error) *Error {
	return &Error{Code: CodeValidationFailed, Message: msg, Cause: cause}
}

// Normalize maps any error from the content layer onto an *Error.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return &Error{Code: CodeValidationFailed, Message: ve.Error(), Fields: ve.Fields, Cause: err}
	}

	if errors.Is(err, repository.ErrWriteDisabled) {
		msg := "content writes are disabled in this environment"
		var wd *repository.WriteDisabledError
		if errors.As(err, &wd) && wd.Reason != "" {
			msg += " (" + wd.Reason + ")"
		}
		return &Error{Code: CodeWriteDisabled, Message: msg, Hint: repository.WriteDisabledHint, Cause: err}
	}

	msg := err.Error()
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if !strings.Contains(msg, "not found") {
			msg = "not found: " + msg
		}
	case errors.Is(err, context.DeadlineExceeded):
		msg = "operation timed out"
	}
	return &Error{Code: CodeOperationFailed, Message: msg, Cause: err}
}
