// ABOUTME: Marketplace product fetcher calling the product-data endpoint with browser headers
// ABOUTME: Normalizes the upstream item into a ProductPreview behind a circuit breaker

package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/domain"
	errs "github.com/wofihansamu/mini-ecommerce-affiliate/core/errors"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
)

const (
	// DefaultMarketplaceAPIURL is the product-data endpoint
	DefaultMarketplaceAPIURL = "https://shopee.co.id/api/v4/item/get"

	// DefaultCDNPrefix is prepended verbatim to upstream image ids
	DefaultCDNPrefix = "https://cf.shopee.co.id/file/"

	// priceScale converts the upstream integer price into currency units
	priceScale = 100000

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	acceptLanguage   = "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7"

	maxUpstreamBody = 5 * 1024 * 1024
)

// MarketplaceConfig configures the marketplace fetcher
type MarketplaceConfig struct {
	APIURL    string
	CDNPrefix string
	Timeout   time.Duration

	// BreakerFailures consecutive transport failures open the breaker
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open
	BreakerCooldown time.Duration
}

// DefaultMarketplaceConfig returns the production endpoint settings
func DefaultMarketplaceConfig() MarketplaceConfig {
	return MarketplaceConfig{
		APIURL:          DefaultMarketplaceAPIURL,
		CDNPrefix:       DefaultCDNPrefix,
		Timeout:         5 * time.Second,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// upstreamEnvelope mirrors the endpoint's response; only data is used
type upstreamEnvelope struct {
	Data *upstreamItem `json:"data"`
}

type upstreamItem struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Images      []string    `json:"images"`
	Price       json.Number `json:"price"`
	ItemRating  *struct {
		RatingStar *float64 `json:"rating_star"`
	} `json:"item_rating"`
	ShopName *string `json:"shop_name"`
}

// MarketplaceFetcher loads product data for a resolved identity
type MarketplaceFetcher struct {
	client  interfaces.HTTPClient
	cfg     MarketplaceConfig
	breaker *gobreaker.CircuitBreaker[*upstreamItem]
}

// NewMarketplaceFetcher creates a fetcher; zero config fields take defaults
func NewMarketplaceFetcher(client interfaces.HTTPClient, cfg MarketplaceConfig, logger interfaces.Logger) *MarketplaceFetcher {
	defaults := DefaultMarketplaceConfig()
	if cfg.APIURL == "" {
		cfg.APIURL = defaults.APIURL
	}
	if cfg.CDNPrefix == "" {
		cfg.CDNPrefix = defaults.CDNPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaults.BreakerFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = defaults.BreakerCooldown
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker[*upstreamItem](gobreaker.Settings{
		Name:        "marketplace",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Shape errors mean the upstream answered; they must not open the breaker
		IsSuccessful: func(err error) bool {
			return err == nil || !(errs.IsKind(err, errs.KindUpstreamTimeout) || errs.IsKind(err, errs.KindUpstreamUnavailable))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Circuit breaker state changed", map[string]interface{}{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			}
		},
	})

	return &MarketplaceFetcher{
		client:  client,
		cfg:     cfg,
		breaker: breaker,
	}
}

// Fetch retrieves and normalizes the product identified by identity.
// referer is the resolved product URL and is sent as the Referer header.
func (f *MarketplaceFetcher) Fetch(ctx context.Context, identity domain.ResolvedIdentity, referer string) (*domain.ProductPreview, error) {
	item, err := f.breaker.Execute(func() (*upstreamItem, error) {
		return f.request(ctx, identity, referer)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errs.New(errs.KindUpstreamUnavailable, err)
		}
		return nil, err
	}
	return f.normalize(item), nil
}

func (f *MarketplaceFetcher) request(ctx context.Context, identity domain.ResolvedIdentity, referer string) (*upstreamItem, error) {
	endpoint, err := url.Parse(f.cfg.APIURL)
	if err != nil {
		return nil, errs.New(errs.KindUpstreamUnavailable, err)
	}
	query := endpoint.Query()
	query.Set("itemid", identity.ItemID())
	query.Set("shopid", identity.ShopID())
	endpoint.RawQuery = query.Encode()

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	resp, err := f.client.Get(ctx, endpoint.String(), map[string]string{
		"User-Agent":      browserUserAgent,
		"Referer":         referer,
		"Accept":          "application/json",
		"Accept-Language": acceptLanguage,
	})
	if err != nil {
		return nil, upstreamTransportError(err)
	}
	body := resp.Body()
	if body == nil {
		return nil, errs.New(errs.KindUpstreamShape, errors.New("empty response body"))
	}
	defer body.Close()

	if resp.StatusCode() >= 500 {
		return nil, errs.New(errs.KindUpstreamUnavailable, fmt.Errorf("upstream returned status %d", resp.StatusCode()))
	}

	var envelope upstreamEnvelope
	decoder := json.NewDecoder(io.LimitReader(body, maxUpstreamBody))
	decoder.UseNumber()
	if err := decoder.Decode(&envelope); err != nil {
		if isTimeout(err) {
			return nil, errs.New(errs.KindUpstreamTimeout, err)
		}
		return nil, errs.New(errs.KindUpstreamShape, err)
	}
	if envelope.Data == nil {
		return nil, errs.New(errs.KindUpstreamShape, fmt.Errorf("response has no data payload (status %d)", resp.StatusCode()))
	}

	return envelope.Data, nil
}

func upstreamTransportError(err error) error {
	if isTimeout(err) {
		return errs.New(errs.KindUpstreamTimeout, err)
	}
	return errs.New(errs.KindUpstreamUnavailable, err)
}

// normalize applies the upstream contract: CDN prefixing, price scale and defaults
func (f *MarketplaceFetcher) normalize(item *upstreamItem) *domain.ProductPreview {
	images := make([]string, 0, len(item.Images))
	for _, img := range item.Images {
		images = append(images, f.cfg.CDNPrefix+img)
	}

	preview := &domain.ProductPreview{
		Name:        item.Name,
		Description: item.Description,
		MainImage:   f.cfg.CDNPrefix + item.Image,
		Images:      images,
		Price:       scalePrice(item.Price),
	}
	if item.ItemRating != nil && item.ItemRating.RatingStar != nil {
		preview.Rating = *item.ItemRating.RatingStar
	}
	if item.ShopName != nil {
		preview.ShopName = *item.ShopName
	}
	return preview
}

// scalePrice divides the raw upstream price by priceScale
func scalePrice(raw json.Number) float64 {
	if raw == "" {
		return 0
	}
	if n, err := raw.Int64(); err == nil {
		return float64(n) / priceScale
	}
	if f, err := raw.Float64(); err == nil {
		return f / priceScale
	}
	return 0
}
