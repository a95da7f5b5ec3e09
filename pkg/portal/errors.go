package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/linskybing/scan2cad/internal/domain/validation"
	"github.com/linskybing/scan2cad/pkg/response"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindServer       ErrorKind = "server"
	KindNetwork      ErrorKind = "network"
)

// APIError is a failed call, carrying a message fit for display.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details map[string]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same call may succeed.
func (e *APIError) Retryable() bool {
	return e.Kind == KindServer || e.Kind == KindNetwork
}

const retryMessage = "Something went wrong. Please try again."

// ValidationError is a local failure raised before any request is sent.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

func IsValidation(err error) bool {
	var v *ValidationError
	if errors.As(err, &v) {
		return true
	}
	var api *APIError
	return errors.As(err, &api) && api.Kind == KindValidation
}

func networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: retryMessage, Err: err}
}

func kindFor(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	}
	return KindServer
}

// decodeError builds an APIError from a non-2xx response.
func decodeError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var env response.ErrorResponse
	_ = json.Unmarshal(body, &env)

	e := &APIError{
		Kind:    kindFor(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: env.Error,
		Details: env.Details,
	}
	switch e.Kind {
	case KindServer:
		e.Message = retryMessage
	case KindUnauthorized:
		if e.Message == "" {
			e.Message = "Incorrect credentials"
		}
	case KindNotFound:
		if e.Message == "" {
			e.Message = "Resource not found"
		}
	case KindConflict:
		if e.Message == "" {
			e.Message = "Already exists"
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
