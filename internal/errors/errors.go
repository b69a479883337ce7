// Package errors defines custom error types for better error handling and
// debugging. StreamError provides context-aware error reporting with type
// classification.
package errors

import (
	"fmt"
)

// StreamError represents errors that occur during stream resolution.
type StreamError struct {
	Type    string
	Message string
	Cause   error
}

func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *StreamError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeConfigurationInvalid = "CONFIGURATION_INVALID"
	ErrorTypeMetadataUnresolved   = "METADATA_UNRESOLVED"
	ErrorTypeProviderFailure      = "PROVIDER_FAILURE"
	ErrorTypeDebridAuth           = "DEBRID_AUTH"
	ErrorTypeDebridRateLimited    = "DEBRID_RATE_LIMITED"
	ErrorTypeDebridUnavailable    = "DEBRID_UNAVAILABLE"
	ErrorTypeTimeout              = "TIMEOUT"
	ErrorTypeInvalidID            = "INVALID_ID"
)

// NewStreamError creates a new StreamError.
func NewStreamError(errorType, message string, cause error) *StreamError {
	return &StreamError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError creates a configuration-related error.
func NewConfigurationError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeConfigurationInvalid, message, cause)
}

// NewMetadataError marks a request whose identifier could not be resolved
// to metadata. No pipeline run happens without metadata.
func NewMetadataError(id string, cause error) *StreamError {
	return NewStreamError(ErrorTypeMetadataUnresolved, fmt.Sprintf("no metadata for %s", id), cause)
}

// NewProviderError wraps a per-provider search failure. These are absorbed
// at the fan-out boundary and only surface in logs.
func NewProviderError(provider string, cause error) *StreamError {
	return NewStreamError(ErrorTypeProviderFailure, fmt.Sprintf("provider %s failed", provider), cause)
}

// NewDebridAuthError creates an invalid-credentials error. This one is
// user-facing and surfaced once per request.
func NewDebridAuthError(cause error) *StreamError {
	return NewStreamError(ErrorTypeDebridAuth, "debrid credentials rejected", cause)
}

// NewInvalidIDError creates an invalid ID error.
func NewInvalidIDError(id string) *StreamError {
	return NewStreamError(ErrorTypeInvalidID, fmt.Sprintf("invalid ID format: %s", id), nil)
}
