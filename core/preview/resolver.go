// ABOUTME: Redirect resolver that follows exactly one hop of HTTP redirection
// ABOUTME: Accepts Location from 2xx/3xx responses and from error responses that still carry one

package preview

import (
	"context"
	"fmt"
	"net/url"
	"time"

	errs "github.com/wofihansamu/mini-ecommerce-affiliate/core/errors"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
)

// Resolver turns a short link into the URL it redirects to
type Resolver struct {
	client  interfaces.HTTPClient
	timeout time.Duration
}

// NewResolver creates a resolver bounded by timeout per call
func NewResolver(client interfaces.HTTPClient, timeout time.Duration) *Resolver {
	return &Resolver{client: client, timeout: timeout}
}

// redirectOutcome is either redirected (location set) or failed (cause set)
type redirectOutcome struct {
	location string
	cause    error
}

func redirected(location string) redirectOutcome {
	return redirectOutcome{location: location}
}

func failed(cause error) redirectOutcome {
	return redirectOutcome{cause: cause}
}

// Resolve issues a single HEAD request and returns the redirect target.
// Failures are returned as a resolution PreviewError.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	outcome := r.probe(ctx, rawURL)
	if outcome.cause != nil {
		return "", errs.New(errs.KindResolution, outcome.cause)
	}
	return outcome.location, nil
}

func (r *Resolver) probe(ctx context.Context, rawURL string) redirectOutcome {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Head(ctx, rawURL, nil)
	if err != nil {
		return failed(err)
	}
	if body := resp.Body(); body != nil {
		defer body.Close()
	}

	status := resp.StatusCode()
	location := resp.Header("Location")

	switch {
	case status >= 200 && status < 400:
		if location == "" {
			return failed(fmt.Errorf("status %d response has no Location header", status))
		}
	default:
		// Some origins answer the redirect with an error status
		if location == "" {
			return failed(fmt.Errorf("server returned status %d", status))
		}
	}

	return redirected(absoluteLocation(rawURL, location))
}

// absoluteLocation resolves a relative Location against the requested URL
func absoluteLocation(requested, location string) string {
	loc, err := url.Parse(location)
	if err != nil || loc.IsAbs() {
		return location
	}
	base, err := url.Parse(requested)
	if err != nil {
		return location
	}
	return base.ResolveReference(loc).String()
}
