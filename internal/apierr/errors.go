// Package apierr defines the error taxonomy shared by every pipesctl operation.
//
// Three kinds of failure are distinguished:
//   - ConfigurationError: an invalid combination of flags or selectors, detected
//     before any network call is made.
//   - TransportError: the SDK call failed without a service response (DNS, TLS,
//     connection reset, credential resolution).
//   - ServiceError: the service answered with an error code (validation,
//     throttling, not found). The SDK error is carried unmodified.
package apierr

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid flag or selector combination.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Configf creates a ConfigurationError with a formatted message.
func Configf(format string, args ...any) error {
	return &ConfigurationError{Err: fmt.Errorf(format, args...)}
}

// ConfigWrap wraps an existing error as a ConfigurationError.
func ConfigWrap(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigurationError{Err: err}
}

// TransportError reports a failed RPC that never produced a service response.
type TransportError struct {
	// Operation is the API operation name, e.g. "ListPipes".
	Operation string
	// Endpoint is the service host the call was addressed to.
	Endpoint string
	// Detail is an optional diagnostic appended to the message.
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("calling %s: %v", e.Operation, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a rejection returned by the service.
// Error returns the SDK message verbatim.
type ServiceError struct {
	Operation string
	// Code is the service error code, e.g. "ValidationException".
	Code string
	Err  error
}

func (e *ServiceError) Error() string {
	return e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsService reports whether err is, or wraps, a ServiceError.
func IsService(err error) bool {
	var sErr *ServiceError
	return errors.As(err, &sErr)
}
