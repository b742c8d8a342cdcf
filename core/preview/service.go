// ABOUTME: Preview service facade choosing between the marketplace and generic paths
// ABOUTME: Runs resolver, extractor and fetcher in sequence, with optional caching and metrics

package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/domain"
	errs "github.com/wofihansamu/mini-ecommerce-affiliate/core/errors"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
)

const (
	pathMarketplace = "marketplace"
	pathGeneric     = "generic"
)

// Options configures the preview service
type Options struct {
	// Timeout bounds every outbound call
	Timeout     time.Duration
	Marketplace MarketplaceConfig
	Generic     GenericConfig
	// CacheTTL is how long successful previews stay cached; 0 disables caching
	CacheTTL time.Duration
}

// Service is the entry point of the preview engine
type Service struct {
	deps        interfaces.Dependencies
	resolver    *Resolver
	marketplace *MarketplaceFetcher
	generic     *GenericExtractor
	cacheTTL    time.Duration
}

// NewService creates a preview service from its dependencies
func NewService(deps interfaces.Dependencies, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Marketplace.Timeout <= 0 {
		opts.Marketplace.Timeout = opts.Timeout
	}
	if opts.Generic.Timeout <= 0 {
		opts.Generic.Timeout = opts.Timeout
	}

	return &Service{
		deps:        deps,
		resolver:    NewResolver(deps.HTTPClient, opts.Timeout),
		marketplace: NewMarketplaceFetcher(deps.HTTPClient, opts.Marketplace, deps.Logger),
		generic:     NewGenericExtractor(opts.Generic, deps.Logger),
		cacheTTL:    opts.CacheTTL,
	}
}

// GetPreview selects the extraction path from the URL's shape
func (s *Service) GetPreview(ctx context.Context, rawURL string) (*domain.PreviewResult, error) {
	if IsMarketplaceURL(rawURL) {
		product, err := s.Marketplace(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return &domain.PreviewResult{Kind: domain.KindProduct, Product: product}, nil
	}

	generic, err := s.Generic(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return &domain.PreviewResult{Kind: domain.KindGeneric, Generic: generic}, nil
}

// Marketplace runs resolver, identifier extraction and product fetch in order.
// Full product URLs skip the redirect hop. It never falls back to the generic path.
func (s *Service) Marketplace(ctx context.Context, rawURL string) (*domain.ProductPreview, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	return observe(s, pathMarketplace, func() (*domain.ProductPreview, error) {
		return cached(ctx, s, "preview:product:"+rawURL, func() (*domain.ProductPreview, error) {
			target := rawURL
			if !isMarketplaceHost(rawURL) {
				location, err := s.resolver.Resolve(ctx, rawURL)
				if err != nil {
					return nil, err
				}
				target = location
			}

			identity, ok := ExtractIdentity(target)
			if !ok {
				return nil, errs.New(errs.KindIdentifierNotFound, fmt.Errorf("no product id in %s", target))
			}

			s.logDebug("Fetching marketplace product", map[string]interface{}{
				"url":     rawURL,
				"target":  target,
				"shop_id": identity.ShopID(),
				"item_id": identity.ItemID(),
			})
			return s.marketplace.Fetch(ctx, identity, target)
		})
	})
}

// Generic extracts page metadata from rawURL
func (s *Service) Generic(ctx context.Context, rawURL string) (*domain.GenericPreview, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	return observe(s, pathGeneric, func() (*domain.GenericPreview, error) {
		return cached(ctx, s, "preview:generic:"+rawURL, func() (*domain.GenericPreview, error) {
			return s.generic.Extract(ctx, rawURL)
		})
	})
}

func validateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &errs.ValidationError{Field: "url", Message: "must not be empty"}
	}
	if _, err := url.Parse(rawURL); err != nil {
		return &errs.ValidationError{Field: "url", Message: err.Error()}
	}
	return nil
}

// cached serves build's result from the cache when possible and stores
// successful results. Failures are never cached.
func cached[T any](ctx context.Context, s *Service, key string, build func() (*T, error)) (*T, error) {
	if s.deps.Cache == nil || s.cacheTTL <= 0 {
		return build()
	}

	if data, err := s.deps.Cache.Get(ctx, key); err == nil && data != nil {
		var result T
		if err := json.Unmarshal(data, &result); err == nil {
			s.observeCache(true)
			return &result, nil
		}
	}
	s.observeCache(false)

	result, err := build()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := s.deps.Cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logDebug("Failed to cache preview", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return result, nil
}

// observe records the outcome of one preview path
func observe[T any](s *Service, path string, run func() (*T, error)) (*T, error) {
	start := time.Now()
	result, err := run()

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if kind, ok := errs.KindOf(err); ok {
			outcome = string(kind)
		}
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("Preview failed", map[string]interface{}{
				"path":  path,
				"kind":  outcome,
				"error": err.Error(),
			})
		}
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObservePreview(path, outcome, time.Since(start))
	}
	return result, err
}

func (s *Service) observeCache(hit bool) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveCache(hit)
	}
}

func (s *Service) logDebug(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, fields)
	}
}

// IsMarketplaceURL reports whether rawURL is a marketplace short link or product URL
func IsMarketplaceURL(rawURL string) bool {
	return isShortLinkHost(rawURL) || isMarketplaceHost(rawURL)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// isShortLinkHost matches shp.ee, its subdomains and s.shopee.<tld>
func isShortLinkHost(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	if host == "shp.ee" || strings.HasSuffix(host, ".shp.ee") {
		return true
	}
	return strings.HasPrefix(host, "s.") && isMarketplaceDomain(host)
}

// isMarketplaceHost matches full marketplace product URLs that need no redirect hop
func isMarketplaceHost(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" || strings.HasPrefix(host, "s.") {
		return false
	}
	return isMarketplaceDomain(host)
}

func isMarketplaceDomain(host string) bool {
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	return strings.HasPrefix(domain, "shopee.")
}
