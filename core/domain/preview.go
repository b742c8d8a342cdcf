// ABOUTME: Domain models for link previews: marketplace products and generic web pages
// ABOUTME: Records are built fresh per request and carry no persistence concerns

package domain

// PreviewRequest is the only input accepted by the preview service
type PreviewRequest struct {
	URL string `json:"url"`
}

// ResolvedIdentity identifies a marketplace product. Both ids are non-empty
// numeric strings; the value cannot be changed after construction.
type ResolvedIdentity struct {
	shopID string
	itemID string
}

// NewResolvedIdentity creates an identity from captured shop and item ids
func NewResolvedIdentity(shopID, itemID string) ResolvedIdentity {
	return ResolvedIdentity{shopID: shopID, itemID: itemID}
}

// ShopID returns the shop id
func (r ResolvedIdentity) ShopID() string {
	return r.shopID
}

// ItemID returns the item id
func (r ResolvedIdentity) ItemID() string {
	return r.itemID
}

// IsZero reports whether the identity is empty
func (r ResolvedIdentity) IsZero() bool {
	return r.shopID == "" || r.itemID == ""
}

// ProductPreview is the normalized marketplace product card
type ProductPreview struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MainImage   string   `json:"mainImage"`
	Images      []string `json:"images"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	ShopName    string   `json:"shopName"`
}

// GenericPreview is the card built from a page's own metadata
type GenericPreview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	SiteName    string `json:"siteName"`
	Favicon     string `json:"favicon"`
	OriginalURL string `json:"originalUrl"`
}

// PreviewKind tells which extraction path produced a result
type PreviewKind string

const (
	// KindProduct marks a marketplace product preview
	KindProduct PreviewKind = "product"
	// KindGeneric marks a generic page preview
	KindGeneric PreviewKind = "generic"
)

// PreviewResult holds exactly one of Product or Generic, selected by Kind
type PreviewResult struct {
	Kind    PreviewKind     `json:"kind"`
	Product *ProductPreview `json:"product,omitempty"`
	Generic *GenericPreview `json:"generic,omitempty"`
}

// Body returns the record that should be serialized as the response body
func (r *PreviewResult) Body() interface{} {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case KindProduct:
		return r.Product
	case KindGeneric:
		return r.Generic
	}
	return nil
}
