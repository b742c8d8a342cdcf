package interfaces

import (
	"context"
	"io"
)

// HTTPClient defines the interface for making outbound HTTP requests.
// This abstraction allows for easy mocking in tests. Implementations must
// not retry: a single failed call fails the whole preview request.
type HTTPClient interface {
	// Get performs an HTTP GET request, following redirects.
	// Non-2xx statuses are returned as responses, not errors.
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)

	// Head performs an HTTP HEAD request without following redirects, so
	// 3xx responses and their Location header reach the caller.
	Head(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Returns an empty string if the header is not present.
	// Header names are case-insensitive.
	Header(key string) string
}
