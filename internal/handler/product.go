package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/optika-storefront/internal/domain/catalog"
	"github.com/xenking/optika-storefront/internal/domain/listing"
)

// productDTO is the wire shape of a product in storefront responses. Decimal
// fields serialize as strings, matching the upstream dialect.
type productDTO struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Brand         string              `json:"brand,omitempty"`
	Description   string              `json:"description,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice *decimal.Decimal    `json:"discount_price,omitempty"`
	FinalPrice    decimal.Decimal     `json:"final_price"`
	Type          catalog.TypeBucket  `json:"type"`
	Rating        float64             `json:"rating,omitempty"`
	ImageURL      string              `json:"primary_image_url,omitempty"`
	Images        []string            `json:"images,omitempty"`
	Specs         []catalog.SpecGroup `json:"specifications,omitempty"`
	CreatedAt     string              `json:"created_at,omitempty"`
}

func (h *Handler) toProductDTO(p catalog.Product) productDTO {
	dto := productDTO{
		ID:          int64(p.ID),
		Name:        p.Name,
		Slug:        p.Slug,
		Brand:       p.Brand,
		Description: p.Description,
		Price:       p.Price,
		FinalPrice:  p.FinalPrice(),
		Type:        p.Type,
		Rating:      p.Rating,
		ImageURL:    h.absURL(p.ImageURL),
		Specs:       p.Specs,
	}
	if p.Discounted() {
		d := p.Discount
		dto.DiscountPrice = &d
	}
	for _, img := range p.Gallery {
		dto.Images = append(dto.Images, h.absURL(img))
	}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func (h *Handler) toProductDTOs(products []catalog.Product) []productDTO {
	out := make([]productDTO, len(products))
	for i, p := range products {
		out[i] = h.toProductDTO(p)
	}
	return out
}

// ListProducts serves the combined product list through the filter/sort
// pipeline. Query params: type, q, sort.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := listing.Query{
		Type:   listing.ParseTypeFilter(r.URL.Query().Get("type")),
		Search: r.URL.Query().Get("q"),
		Sort:   listing.ParseSortKey(r.URL.Query().Get("sort")),
	}
	products := listing.Apply(h.store.AllProducts(), q)

	latest := h.store.LatestProducts()
	video := h.store.VideoProducts()
	photo := h.store.PhotoProducts()

	writeJSON(w, r, http.StatusOK, response{
		Success: true,
		Data:    h.toProductDTOs(products),
		Loading: latest.Loading || video.Loading || photo.Loading,
		Error:   firstError(latest.Err, video.Err, photo.Err),
	})
}

// GetProduct serves a single product: cached copy when available, upstream
// fetch otherwise. The upstream path mirrors direct navigation where no
// cached state exists yet.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid product id")
		return
	}

	for _, p := range h.store.AllProducts() {
		if p.ID == catalog.ID(id) {
			writeJSON(w, r, http.StatusOK, response{Success: true, Data: h.toProductDTO(p)})
			return
		}
	}

	p, err := h.client.ProductByID(r.Context(), catalog.ID(id))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	if !p.Active {
		writeError(w, r, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, r, http.StatusOK, response{Success: true, Data: h.toProductDTO(*p)})
}

// SearchProducts proxies a free-text search upstream, falling back to the
// local pipeline over cached products when upstream is unavailable.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, r, http.StatusBadRequest, "missing query parameter q")
		return
	}

	products, err := h.client.SearchProducts(r.Context(), query)
	if err != nil {
		local := listing.Apply(h.store.AllProducts(), listing.Query{
			Type:   listing.FilterAll,
			Search: query,
			Sort:   listing.SortName,
		})
		writeJSON(w, r, http.StatusOK, response{
			Success: true,
			Data:    h.toProductDTOs(local),
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, r, http.StatusOK, response{
		Success: true,
		Data:    h.toProductDTOs(catalog.ActiveOnly(products)),
	})
}

func firstError(errs ...string) string {
	for _, e := range errs {
		if e != "" {
			return e
		}
	}
	return ""
}
