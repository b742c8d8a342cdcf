// ABOUTME: Preview handlers exposing the auto, marketplace and generic preview paths
// ABOUTME: Also serves the liveness probe

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wofihansamu/mini-ecommerce-affiliate/core/domain"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
)

// PreviewHandler handles preview requests
type PreviewHandler struct {
	service interfaces.PreviewService
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(service interfaces.PreviewService) *PreviewHandler {
	return &PreviewHandler{service: service}
}

// URLQueryInput carries the target URL as a query parameter
type URLQueryInput struct {
	URL string `query:"url" required:"true" minLength:"1" doc:"Link to preview" example:"https://shp.ee/abc123"`
}

// URLBodyInput carries the target URL in a JSON body; a blank url is rejected by the service
type URLBodyInput struct {
	Body domain.PreviewRequest
}

// PreviewOutput is either a product or a generic preview
type PreviewOutput struct {
	Body interface{}
}

// ProductOutput wraps a product preview
type ProductOutput struct {
	Body *domain.ProductPreview
}

// GenericOutput wraps a generic page preview
type GenericOutput struct {
	Body *domain.GenericPreview
}

// HealthOutput reports liveness
type HealthOutput struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

// RegisterRoutes registers preview routes
func (h *PreviewHandler) RegisterRoutes(api huma.API) {
	errorStatuses := []int{http.StatusBadRequest, http.StatusInternalServerError}

	huma.Register(api, huma.Operation{
		OperationID: "getPreview",
		Method:      http.MethodGet,
		Path:        "/api/preview",
		Summary:     "Preview a link",
		Description: "Returns a product preview for marketplace links and page metadata for everything else",
		Tags:        []string{"Preview"},
		Errors:      errorStatuses,
	}, h.GetPreview)

	huma.Register(api, huma.Operation{
		OperationID: "postPreview",
		Method:      http.MethodPost,
		Path:        "/api/preview",
		Summary:     "Preview a link from a JSON body",
		Tags:        []string{"Preview"},
		Errors:      errorStatuses,
	}, h.PostPreview)

	huma.Register(api, huma.Operation{
		OperationID: "getMarketplacePreview",
		Method:      http.MethodGet,
		Path:        "/api/shopee-preview",
		Summary:     "Preview a marketplace product link",
		Description: "Resolves short links, extracts the shop and item ids and loads the product",
		Tags:        []string{"Preview"},
		Errors:      errorStatuses,
	}, h.GetMarketplacePreview)

	huma.Register(api, huma.Operation{
		OperationID: "getLinkPreview",
		Method:      http.MethodGet,
		Path:        "/api/preview-link",
		Summary:     "Preview any web page from its metadata",
		Tags:        []string{"Preview"},
		Errors:      errorStatuses,
	}, h.GetLinkPreview)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness probe",
		Tags:        []string{"Health"},
	}, h.Health)
}

// GetPreview handles GET /api/preview
func (h *PreviewHandler) GetPreview(ctx context.Context, input *URLQueryInput) (*PreviewOutput, error) {
	return h.preview(ctx, input.URL)
}

// PostPreview handles POST /api/preview
func (h *PreviewHandler) PostPreview(ctx context.Context, input *URLBodyInput) (*PreviewOutput, error) {
	return h.preview(ctx, input.Body.URL)
}

func (h *PreviewHandler) preview(ctx context.Context, url string) (*PreviewOutput, error) {
	result, err := h.service.GetPreview(ctx, url)
	if err != nil {
		return nil, toPreviewError(err)
	}
	return &PreviewOutput{Body: result.Body()}, nil
}

// GetMarketplacePreview handles GET /api/shopee-preview
func (h *PreviewHandler) GetMarketplacePreview(ctx context.Context, input *URLQueryInput) (*ProductOutput, error) {
	product, err := h.service.Marketplace(ctx, input.URL)
	if err != nil {
		return nil, toPreviewError(err)
	}
	return &ProductOutput{Body: product}, nil
}

// GetLinkPreview handles GET /api/preview-link
func (h *PreviewHandler) GetLinkPreview(ctx context.Context, input *URLQueryInput) (*GenericOutput, error) {
	generic, err := h.service.Generic(ctx, input.URL)
	if err != nil {
		return nil, toPreviewError(err)
	}
	return &GenericOutput{Body: generic}, nil
}

// Health handles GET /health
func (h *PreviewHandler) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	return out, nil
}
