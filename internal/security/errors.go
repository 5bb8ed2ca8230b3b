package security

import (
	"fmt"
)

// CryptoError represents errors from cryptographic operations on the credential file
type CryptoError struct {
	Operation string
	Message   string
	Err       error
}

func NewCryptoError(operation, message string) *CryptoError {
	return &CryptoError{
		Operation: operation,
		Message:   message,
	}
}

func (e *CryptoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("crypto %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("crypto %s failed: %s", e.Operation, e.Message)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

func (e *CryptoError) WithCause(err error) *CryptoError {
	e.Err = err
	return e
}

// HostError is returned by the transport when a request targets a host
// outside the allowlist.
type HostError struct {
	Host string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("request to host %q is not allowed", e.Host)
}
