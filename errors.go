package gosonar

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by errors.Is against an *APIError.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication failed")
	ErrPermission     = errors.New("permission denied")
	ErrNotFound       = errors.New("resource not found")
)

// ErrorMessage is a single entry of the "errors" array returned by SonarQube
type ErrorMessage struct {
	Msg string `json:"msg"`
}

// ErrorResponse is the body SonarQube sends along with a non 2xx status
type ErrorResponse struct {
	Errors []ErrorMessage `json:"errors"`
}

// APIError is returned when the server answers with a non 2xx status code.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []ErrorMessage
	// Details holds the raw response body
	Details []byte
}

// NewAPIError builds an APIError. An empty message is replaced by the
// default message of the status code.
func NewAPIError(statusCode int, message string, errs []ErrorMessage, body []byte) *APIError {
	if message == "" {
		message = unknownError
		if def, ok := defaultMessages[statusCode]; ok {
			message = def
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
		Details:    body,
	}
}

const unknownError = "Unknown error"

var defaultMessages = map[int]string{
	400: "Validation error",
	401: "Authentication failed",
	403: "Permission denied",
	404: "Resource not found",
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	// the first entry usually is the message itself
	msgs := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		if m.Msg != "" && m.Msg != e.Message {
			msgs = append(msgs, m.Msg)
		}
	}
	if len(msgs) > 0 {
		msg += ": " + strings.Join(msgs, "; ")
	}
	return msg
}

// Unwrap exposes the sentinel matching the status code, if any
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 400:
		return ErrValidation
	case 401:
		return ErrAuthentication
	case 403:
		return ErrPermission
	case 404:
		return ErrNotFound
	}
	return nil
}

// ConnectionError is returned when the request never got a response:
// DNS or dial failures, timeouts, TLS errors and so on.
type ConnectionError struct {
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a successful response cannot be turned into
// the expected model.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response of %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 answer
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthenticationError reports whether err is a 401 answer
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsPermissionError reports whether err is a 403 answer
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsValidationError reports whether err is a 400 answer
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConnectionError reports whether err is a transport failure
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// AsAPIError extracts the *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
