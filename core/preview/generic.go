// ABOUTME: Generic metadata extractor for arbitrary web pages
// ABOUTME: Uses colly to fetch the page and ordered goquery fallback chains to pick each field

package preview

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/domain"
	errs "github.com/wofihansamu/mini-ecommerce-affiliate/core/errors"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
)

const (
	genericUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	maxPageBody      = 5 * 1024 * 1024
)

// GenericConfig configures the generic extractor
type GenericConfig struct {
	Timeout   time.Duration
	UserAgent string
	// Transport is the base round tripper; nil uses http.DefaultTransport
	Transport http.RoundTripper
}

// fieldSource reads one candidate value from the parsed document
type fieldSource func(doc *goquery.Selection) string

// Fallback chains, highest priority first
var (
	titleChain = []fieldSource{
		elementText("title"),
		metaContent("og:title"),
		metaContent("twitter:title"),
	}
	descriptionChain = []fieldSource{
		metaContent("og:description"),
		metaContent("description"),
		metaContent("twitter:description"),
	}
	imageChain = []fieldSource{
		metaContent("og:image"),
		metaContent("twitter:image"),
	}
	siteNameChain = []fieldSource{
		metaContent("og:site_name"),
	}
	faviconChain = []fieldSource{
		linkHref("icon"),
		linkHref("shortcut icon"),
	}
)

// GenericExtractor builds previews from a page's own metadata
type GenericExtractor struct {
	cfg    GenericConfig
	logger interfaces.Logger
}

// NewGenericExtractor creates a generic extractor
func NewGenericExtractor(cfg GenericConfig, logger interfaces.Logger) *GenericExtractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = genericUserAgent
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	return &GenericExtractor{cfg: cfg, logger: logger}
}

// Extract fetches pageURL and fills a GenericPreview from its metadata
func (g *GenericExtractor) Extract(ctx context.Context, pageURL string) (*domain.GenericPreview, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, errs.New(errs.KindFetch, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	c := colly.NewCollector(
		colly.UserAgent(g.cfg.UserAgent),
		colly.MaxBodySize(maxPageBody),
		colly.AllowURLRevisit(),
	)
	c.WithTransport(&contextTransport{ctx: ctx, base: g.cfg.Transport})

	preview := &domain.GenericPreview{OriginalURL: pageURL}

	c.OnHTML("html", func(e *colly.HTMLElement) {
		doc := e.DOM
		preview.Title = firstNonEmpty(doc, titleChain)
		preview.Description = firstNonEmpty(doc, descriptionChain)
		preview.ImageURL = resolveAgainst(base, firstNonEmpty(doc, imageChain))
		preview.SiteName = firstNonEmpty(doc, siteNameChain)
		preview.Favicon = resolveAgainst(base, firstNonEmpty(doc, faviconChain))
	})

	status := 0
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(pageURL); err != nil {
		if g.logger != nil {
			g.logger.Debug("Failed to visit URL for preview", map[string]interface{}{
				"url":    pageURL,
				"status": status,
				"error":  err.Error(),
			})
		}
		return nil, classifyPageError(status, err)
	}

	return preview, nil
}

func classifyPageError(status int, err error) error {
	switch {
	case status == http.StatusNotFound:
		return errs.New(errs.KindNotFound, err)
	case isTimeout(err):
		return errs.New(errs.KindTimeout, err)
	case isUnreachable(err):
		return errs.New(errs.KindUnreachable, err)
	default:
		return errs.New(errs.KindFetch, err)
	}
}

// firstNonEmpty evaluates chain left to right and returns the first trimmed non-empty value
func firstNonEmpty(doc *goquery.Selection, chain []fieldSource) string {
	for _, source := range chain {
		if v := strings.TrimSpace(source(doc)); v != "" {
			return v
		}
	}
	return ""
}

func elementText(selector string) fieldSource {
	return func(doc *goquery.Selection) string {
		return doc.Find(selector).First().Text()
	}
}

// metaContent matches <meta> by either property or name
func metaContent(key string) fieldSource {
	selector := `meta[property="` + key + `"], meta[name="` + key + `"]`
	return func(doc *goquery.Selection) string {
		var content string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			content = strings.TrimSpace(s.AttrOr("content", ""))
			return content == ""
		})
		return content
	}
}

func linkHref(rel string) fieldSource {
	selector := `link[rel="` + rel + `"]`
	return func(doc *goquery.Selection) string {
		var href string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href = strings.TrimSpace(s.AttrOr("href", ""))
			return href == ""
		})
		return href
	}
}

// resolveAgainst makes raw absolute relative to base, keeping raw when it cannot be parsed
func resolveAgainst(base *url.URL, raw string) string {
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if ref.IsAbs() {
		return raw
	}
	return base.ResolveReference(ref).String()
}

// contextTransport binds colly's requests to the per-call context, which
// carries the timeout and the caller's cancellation
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
