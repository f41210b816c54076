package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors
var (
	// ErrUnauthorized is returned when the API rejects the session token.
	// The session has already been cleared when this is returned.
	ErrUnauthorized = errors.New("session expired or invalid")

	// ErrLoginRequired is returned when an authenticated call is made without
	// a stored session.
	ErrLoginRequired = errors.New("login required")

	// ErrConnection wraps transport failures reaching the API.
	ErrConnection = errors.New("unable to reach the API")

	// ErrNoData is returned by Get when a successful response carries no
	// record.
	ErrNoData = errors.New("response carried no data")
)

// FieldError is a validation message attached to a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UnmarshalJSON accepts plain strings as well as objects keyed by
// field/path/param and message/msg.
func (f *FieldError) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FieldError{Message: s}
		return nil
	}

	var raw struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Param   string `json:"param"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Field = firstNonEmpty(raw.Field, raw.Path, raw.Param)
	f.Message = firstNonEmpty(raw.Message, raw.Msg)
	return nil
}

// APIError is a structured rejection returned by the API: a validation
// failure or a business rule violation. Message is the server text verbatim.
type APIError struct {
	Status      int
	Message     string
	FieldErrors []FieldError
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.FieldErrors) == 0 {
		return msg
	}

	parts := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("%s (%s)", msg, strings.Join(parts, "; "))
}

// IsNotFound returns true if err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidation returns true if err is an APIError carrying field errors or a
// 400/422 status.
func IsValidation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return len(apiErr.FieldErrors) > 0 ||
		apiErr.Status == http.StatusBadRequest ||
		apiErr.Status == http.StatusUnprocessableEntity
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
