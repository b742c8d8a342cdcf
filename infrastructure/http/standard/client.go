// ABOUTME: Standard HTTP client implementation with timeout support and no retries
// ABOUTME: GET follows redirects while HEAD hands 3xx responses back to the caller

package standard

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
)

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client     *http.Client
	noRedirect *http.Client
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout.
// transport may be nil to use http.DefaultTransport.
func NewStandardHTTPClient(timeout time.Duration, transport http.RoundTripper) *StandardHTTPClient {
	return &StandardHTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		noRedirect: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
	return c.do(ctx, c.client, http.MethodGet, url, headers)
}

// Head performs an HTTP HEAD request without following redirects
func (c *StandardHTTPClient) Head(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
	return c.do(ctx, c.noRedirect, http.MethodHead, url, headers)
}

func (c *StandardHTTPClient) do(ctx context.Context, client *http.Client, method, url string, headers map[string]string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
