// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts preview errors into the {error, details} response body

package handlers

import (
	"errors"
	"net/http"

	errs "github.com/wofihansamu/mini-ecommerce-affiliate/core/errors"
)

// ErrorResponse is the body of every failed preview request.
// It implements huma.StatusError so huma writes it verbatim.
type ErrorResponse struct {
	Status  int    `json:"-"`
	Message string `json:"error" doc:"Human-readable failure"`
	Details string `json:"details,omitempty" doc:"Underlying cause"`
}

// Error implements the error interface
func (e *ErrorResponse) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError
func (e *ErrorResponse) GetStatus() int {
	return e.Status
}

// toPreviewError converts core errors to their HTTP representation
func toPreviewError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return &ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid request",
			Details: validationErr.Error(),
		}
	}

	var previewErr *errs.PreviewError
	if errors.As(err, &previewErr) {
		return &ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: previewErr.Message,
			Details: previewErr.Details(),
		}
	}

	return &ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Details: err.Error(),
	}
}
