// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for services used by the API layer

package interfaces

import (
	"context"
	"time"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/domain"
)

// PreviewService builds link previews
type PreviewService interface {
	// GetPreview picks the marketplace or generic path from the URL's shape
	GetPreview(ctx context.Context, url string) (*domain.PreviewResult, error)

	// Marketplace always runs the marketplace path
	Marketplace(ctx context.Context, url string) (*domain.ProductPreview, error)

	// Generic always runs the generic metadata path
	Generic(ctx context.Context, url string) (*domain.GenericPreview, error)
}

// Metrics records preview outcomes
type Metrics interface {
	// ObservePreview records one finished preview. outcome is "ok" or an error kind.
	ObservePreview(path string, outcome string, duration time.Duration)

	// ObserveCache records a cache lookup
	ObserveCache(hit bool)
}
