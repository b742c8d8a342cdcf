// Package core contains the link preview engine. It does not depend on
// any web framework or concrete infrastructure.
//
// - domain: preview records and the resolved marketplace identity
// - errors: the preview error taxonomy
// - interfaces: contracts for caches, HTTP clients, loggers and metrics
// - preview: the resolver, identity extraction, marketplace fetcher, generic
//   extractor and the Service facade that ties them together
package core
