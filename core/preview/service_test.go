package preview

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/domain"
	errs "github.com/wofihansamu/mini-ecommerce-affiliate/core/errors"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
)

// scenarioClient redirects shp.ee/abc123 to a product URL and serves the upstream item
func scenarioClient(t *testing.T, location string) *mockHTTPClient {
	return &mockHTTPClient{
		headFunc: func(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
			assert.Equal(t, "https://shp.ee/abc123", url)
			return &mockResponse{statusCode: http.StatusMovedPermanently, headers: map[string]string{"Location": location}}, nil
		},
		getFunc: func(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
			assert.True(t, strings.HasPrefix(url, DefaultMarketplaceAPIURL+"?"), "unexpected GET %s", url)
			assert.Equal(t, location, headers["Referer"])
			return &mockResponse{statusCode: http.StatusOK, body: scenarioUpstream}, nil
		},
	}
}

func newTestService(client interfaces.HTTPClient, cache interfaces.Cache, metrics interfaces.Metrics) *Service {
	return NewService(interfaces.Dependencies{
		HTTPClient: client,
		Cache:      cache,
		Logger:     nopLogger{},
		Metrics:    metrics,
	}, Options{Timeout: time.Second, CacheTTL: time.Minute})
}

func TestService_ShortLinkScenario(t *testing.T) {
	svc := newTestService(scenarioClient(t, "https://shopee.co.id/product-i.111.222?x=1"), nil, nil)

	result, err := svc.GetPreview(context.Background(), "https://shp.ee/abc123")
	require.NoError(t, err)
	require.Equal(t, domain.KindProduct, result.Kind)

	assert.Equal(t, &domain.ProductPreview{
		Name:      "X",
		MainImage: "https://cf.shopee.co.id/file/img1",
		Images:    []string{"https://cf.shopee.co.id/file/img1", "https://cf.shopee.co.id/file/img2"},
		Price:     2.5,
		Rating:    4.5,
		ShopName:  "S",
	}, result.Product)
	assert.Empty(t, result.Product.Description)
}

func TestService_UnmatchedTargetFailsWithoutGenericFallback(t *testing.T) {
	client := &mockHTTPClient{
		headFunc: func(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
			return &mockResponse{statusCode: http.StatusFound, headers: map[string]string{"Location": "https://shopee.co.id/flash_sale"}}, nil
		},
		getFunc: func(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
			t.Errorf("no GET expected, got %s", url)
			return nil, nil
		},
	}
	svc := newTestService(client, nil, nil)

	_, err := svc.GetPreview(context.Background(), "https://shp.ee/abc123")
	assert.True(t, errs.IsKind(err, errs.KindIdentifierNotFound), "got %v", err)
}

func TestService_ResolutionFailureShortCircuits(t *testing.T) {
	client := &mockHTTPClient{
		headFunc: func(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
			return &mockResponse{statusCode: http.StatusOK}, nil
		},
	}
	svc := newTestService(client, nil, nil)

	_, err := svc.Marketplace(context.Background(), "https://shp.ee/abc123")
	assert.True(t, errs.IsKind(err, errs.KindResolution), "got %v", err)
}

func TestService_FullProductURLSkipsRedirect(t *testing.T) {
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
			assert.Contains(t, url, "itemid=222")
			assert.Contains(t, url, "shopid=111")
			return &mockResponse{statusCode: http.StatusOK, body: scenarioUpstream}, nil
		},
	}
	svc := newTestService(client, nil, nil)

	result, err := svc.GetPreview(context.Background(), "https://shopee.co.id/product-i.111.222?x=1")
	require.NoError(t, err)
	assert.Equal(t, domain.KindProduct, result.Kind)
}

func TestService_GenericPath(t *testing.T) {
	server := htmlServer(t, http.StatusOK, `<html><head><title>Hello</title><link rel="icon" href="/fav.ico"></head></html>`)
	svc := newTestService(&mockHTTPClient{}, nil, nil)

	result, err := svc.GetPreview(context.Background(), server.URL+"/a/b")
	require.NoError(t, err)
	require.Equal(t, domain.KindGeneric, result.Kind)
	assert.Equal(t, "Hello", result.Generic.Title)
	assert.Equal(t, server.URL+"/fav.ico", result.Generic.Favicon)
}

func TestService_EmptyURL(t *testing.T) {
	svc := newTestService(&mockHTTPClient{}, nil, nil)

	_, err := svc.GetPreview(context.Background(), "  ")
	assert.True(t, errs.IsValidation(err), "got %v", err)
}

func TestService_CachesSuccessOnly(t *testing.T) {
	cache := newMemoryCache()
	metrics := &recordingMetrics{}
	calls := 0
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string, headers map[string]string) (interfaces.Response, error) {
			calls++
			return &mockResponse{statusCode: http.StatusOK, body: scenarioUpstream}, nil
		},
	}
	svc := newTestService(client, cache, metrics)
	productURL := "https://shopee.co.id/product-i.111.222"

	first, err := svc.Marketplace(context.Background(), productURL)
	require.NoError(t, err)
	second, err := svc.Marketplace(context.Background(), productURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second call should be served from cache")
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, []string{"marketplace:ok", "marketplace:ok"}, metrics.outcomes)

	_, err = svc.Marketplace(context.Background(), "https://shopee.co.id/flash_sale")
	require.Error(t, err)
	assert.Equal(t, 1, cache.sets, "failures must not be cached")
	assert.Equal(t, "marketplace:identifier_not_found", metrics.outcomes[2])
}

func TestIsMarketplaceURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://shp.ee/abc123", true},
		{"https://id.shp.ee/xyz", true},
		{"https://s.shopee.co.id/abc", true},
		{"https://shopee.co.id/product-i.1.2", true},
		{"https://shopee.com.my/item/1/2", true},
		{"https://example.com/page", false},
		{"https://notshopee.co.id/x", false},
		{"/relative/path", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarketplaceURL(tt.url))
		})
	}
}
