// Package infrastructure holds the concrete implementations of the core
// interfaces.
//
// - cache/memory, cache/redis, cache/sqlite: preview caches
// - http/standard: net/http client with redirect-free HEAD
// - logger/logrus: structured logging with optional file rotation
// - metrics/prometheus: preview and HTTP metrics
package infrastructure
