// Package handler exposes the storefront JSON API backed by the catalog
// cache and the upstream client.
//
// Responses reuse the upstream envelope dialect ({"success": ..., "data":
// ...}) extended with per-collection loading and error state, so a frontend
// can render spinners and retry affordances from the payload alone.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/optika-storefront/internal/cache"
	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

// CatalogClient is the slice of the upstream client the handler needs for
// cache pass-through reads.
type CatalogClient interface {
	ProductByID(ctx context.Context, id catalog.ID) (*catalog.Product, error)
	SearchProducts(ctx context.Context, query string) ([]catalog.Product, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in responses. When
	// empty, image paths pass through unchanged.
	ImageBaseURL string
}

// Handler serves the storefront API.
type Handler struct {
	store        *cache.Store
	client       CatalogClient
	imageBaseURL string
}

// New constructs a Handler.
func New(cfg Config, store *cache.Store, client CatalogClient) *Handler {
	return &Handler{
		store:        store,
		client:       client,
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
	}
}

// Register mounts all storefront routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/search", h.SearchProducts)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/categories/{slug}/subcategories", h.ListSubcategories)
	mux.HandleFunc("GET /api/brands", h.ListBrands)
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("POST /api/refresh", h.Refresh)
}

// absURL prefixes relative image paths with the configured base URL.
func (h *Handler) absURL(path string) string {
	if path == "" || h.imageBaseURL == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return h.imageBaseURL + "/" + strings.TrimLeft(path, "/")
}

// response is the common envelope for all storefront endpoints.
type response struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Loading    bool                `json:"loading,omitempty"`
	Error      string              `json:"error,omitempty"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("Encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, response{Success: false, Error: msg})
}
