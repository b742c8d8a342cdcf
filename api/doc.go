// Package api provides the HTTP API layer for the link preview service.
// It uses the Huma framework on a chi router for OpenAPI documentation
// and request validation.
//
// # Layout
//
// - server.go: Huma API configuration, CORS, logging, rate limiting and /metrics
// - handlers/: preview and health handlers
// - middleware/: request logging with request IDs, per-IP rate limiting
//
// The OpenAPI document is served at /openapi.json and the interactive docs at /docs.
//
// # Errors
//
// Preview failures are returned as
//
//	{
//	    "error": "failed to resolve short link",
//	    "details": "dial tcp: lookup shp.ee: no such host"
//	}
//
// with status 500, or 400 for an invalid request.
package api
