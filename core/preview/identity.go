package preview

import (
	"regexp"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/domain"
)

// identityPatterns are tried in order; each captures shop id then item id.
// The first pattern also matches everything the second does, so the second
// only documents the newer URL shape.
var identityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`i\.(\d+)\.(\d+)`),
	regexp.MustCompile(`-i\.(\d+)\.(\d+)\?`),
	regexp.MustCompile(`product/(\d+)/(\d+)`),
	regexp.MustCompile(`item/(\d+)/(\d+)`),
}

// ExtractIdentity pulls the shop and item ids out of a resolved product URL.
// The first matching pattern wins.
func ExtractIdentity(resolvedURL string) (domain.ResolvedIdentity, bool) {
	for _, pattern := range identityPatterns {
		if m := pattern.FindStringSubmatch(resolvedURL); m != nil {
			return domain.NewResolvedIdentity(m[1], m[2]), true
		}
	}
	return domain.ResolvedIdentity{}, false
}
