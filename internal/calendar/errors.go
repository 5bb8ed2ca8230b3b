package calendar

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"google.golang.org/api/googleapi"
)

var (
	// ErrNoCredentials is returned by a CredentialStore holding no token yet.
	ErrNoCredentials = errors.New("calendar: no stored credentials")

	ErrUnauthorized = errors.New("calendar: unauthorized (invalid credentials)")
	ErrForbidden    = errors.New("calendar: forbidden (insufficient permissions)")
	ErrNotFound     = errors.New("calendar: calendar not found")
	ErrRateLimited  = errors.New("calendar: rate limit exceeded")
)

// CredentialError covers the client secrets file, the interactive login,
// token refresh and the credential store.
type CredentialError struct {
	Operation string
	Message   string
	Err       error
}

func NewCredentialError(operation, message string) *CredentialError {
	return &CredentialError{
		Operation: operation,
		Message:   message,
	}
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("credential %s failed: %s", e.Operation, e.Message)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

func (e *CredentialError) WithCause(err error) *CredentialError {
	e.Err = err
	return e
}

// QueryError wraps a failed Calendar API call. Kind is one of the
// Err* sentinels when the status code is recognised.
type QueryError struct {
	Operation  string
	CalendarID string
	Kind       error
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("calendar %s on %q failed: %v", e.Operation, e.CalendarID, e.Err)
}

func (e *QueryError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Err}
}

func newQueryError(operation, calendarID string, err error) *QueryError {
	return &QueryError{
		Operation:  operation,
		CalendarID: calendarID,
		Kind:       classify(err),
		Err:        err,
	}
}

func classify(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return nil
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

// retryAfterSeconds reads the Retry-After header of a googleapi error, 0 if absent.
func retryAfterSeconds(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil {
		return 0
	}
	return secs
}

// MalformedEventError reports an event missing fields the reminder needs.
type MalformedEventError struct {
	EventID string
	Field   string
	Message string
	Err     error
}

func (e *MalformedEventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed event %q: %s %s: %v", e.EventID, e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("malformed event %q: %s %s", e.EventID, e.Field, e.Message)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}
