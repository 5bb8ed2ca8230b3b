package config

import (
	"errors"
	"fmt"
	"strconv"
)

// maxPageSize is the largest maxResults the Calendar API accepts.
const maxPageSize = 2500

// ValidationError represents an invalid configuration value
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config validation failed for %s=%s: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) WithCause(err error) *ValidationError {
	e.Err = err
	return e
}

// Validate checks every field the poll loop depends on and joins all failures.
func (c *Config) Validate() error {
	var errs []error

	if c.Calendar.ID == "" {
		errs = append(errs, NewValidationError("calendar.id", "", "must not be empty"))
	}
	if _, err := c.Calendar.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Calendar.PageSize < 1 || c.Calendar.PageSize > maxPageSize {
		errs = append(errs, NewValidationError("calendar.page_size", strconv.FormatInt(c.Calendar.PageSize, 10),
			fmt.Sprintf("must be between 1 and %d", maxPageSize)))
	}

	if c.Reminder.LeadTimeSeconds < 0 {
		errs = append(errs, NewValidationError("reminder.lead_time_seconds", strconv.Itoa(c.Reminder.LeadTimeSeconds), "must not be negative"))
	}
	if c.Reminder.PollIntervalSeconds <= 0 {
		errs = append(errs, NewValidationError("reminder.poll_interval_seconds", strconv.Itoa(c.Reminder.PollIntervalSeconds), "must be positive"))
	}
	if c.Reminder.CacheTTLSeconds < 0 {
		errs = append(errs, NewValidationError("reminder.cache_ttl_seconds", strconv.Itoa(c.Reminder.CacheTTLSeconds), "must not be negative"))
	}

	if c.Browser.Path == "" {
		errs = append(errs, NewValidationError("browser.path", "", "must not be empty"))
	}

	if c.Auth.ClientSecretsFile == "" {
		errs = append(errs, NewValidationError("auth.client_secrets_file", "", "must not be empty"))
	}
	if c.Auth.TokenFile == "" {
		errs = append(errs, NewValidationError("auth.token_file", "", "must not be empty"))
	}
	switch c.Auth.Flow {
	case FlowLoopback, FlowDevice:
	default:
		errs = append(errs, NewValidationError("auth.flow", c.Auth.Flow, "must be loopback or device"))
	}
	if len(c.Auth.Scopes) == 0 {
		errs = append(errs, NewValidationError("auth.scopes", "", "at least one scope is required"))
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, NewValidationError("ratelimit.requests_per_second",
			strconv.FormatFloat(c.RateLimit.RequestsPerSecond, 'f', -1, 64), "must be positive"))
	}
	if c.RateLimit.Burst < 1 {
		errs = append(errs, NewValidationError("ratelimit.burst", strconv.Itoa(c.RateLimit.Burst), "must be at least 1"))
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, NewValidationError("log.format", c.Log.Format, "must be text or json"))
	}

	return errors.Join(errs...)
}
