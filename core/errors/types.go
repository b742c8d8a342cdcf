// ABOUTME: Custom error types for the preview engine
// ABOUTME: Every failure carries a kind, a human-readable message and the raw cause

package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a preview failure
type Kind string

const (
	KindResolution          Kind = "resolution"
	KindIdentifierNotFound  Kind = "identifier_not_found"
	KindUpstreamTimeout     Kind = "upstream_timeout"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamShape       Kind = "upstream_shape"
	KindNotFound            Kind = "not_found"
	KindTimeout             Kind = "timeout"
	KindUnreachable         Kind = "unreachable"
	KindFetch               Kind = "fetch"
)

var messages = map[Kind]string{
	KindResolution:          "failed to resolve short link",
	KindIdentifierNotFound:  "could not extract product id from URL",
	KindUpstreamTimeout:     "marketplace API timed out",
	KindUpstreamUnavailable: "marketplace API unavailable",
	KindUpstreamShape:       "invalid marketplace API response",
	KindNotFound:            "page not found",
	KindTimeout:             "request timed out",
	KindUnreachable:         "could not reach host",
	KindFetch:               "failed to fetch page",
}

// PreviewError is returned by every component of the preview engine
type PreviewError struct {
	Kind    Kind
	Message string
	Cause   error
}

// New creates a PreviewError of the given kind with its standard message
func New(kind Kind, cause error) *PreviewError {
	msg, ok := messages[kind]
	if !ok {
		msg = string(kind)
	}
	return &PreviewError{Kind: kind, Message: msg, Cause: cause}
}

// Error implements the error interface
func (e *PreviewError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap exposes the underlying cause
func (e *PreviewError) Unwrap() error {
	return e.Cause
}

// Details returns the raw underlying cause for diagnostics, or "" if none
func (e *PreviewError) Details() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// KindOf returns the kind of the first PreviewError in err's chain
func KindOf(err error) (Kind, bool) {
	var previewErr *PreviewError
	if errors.As(err, &previewErr) {
		return previewErr.Kind, true
	}
	return "", false
}

// IsKind checks if err is a PreviewError of the given kind
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
