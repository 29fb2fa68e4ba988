package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

// categoryDTO is the wire shape of a category with its subcategories.
type categoryDTO struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	Subcategories []subcategoryDTO `json:"subcategories,omitempty"`
}

type subcategoryDTO struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	CategoryID   int64              `json:"category_id,omitempty"`
	Type         catalog.TypeBucket `json:"type"`
	ImageURL     string             `json:"image_url,omitempty"`
	ProductCount int                `json:"product_count,omitempty"`
	Products     []productDTO       `json:"products,omitempty"`
}

type brandDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	LogoURL string `json:"logo_url,omitempty"`
}

func (h *Handler) toCategoryDTO(c catalog.Category) categoryDTO {
	dto := categoryDTO{
		ID:          int64(c.ID),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    h.absURL(c.ImageURL),
	}
	for _, s := range c.Subcategories {
		if !s.Active {
			continue
		}
		dto.Subcategories = append(dto.Subcategories, h.toSubcategoryDTO(s))
	}
	return dto
}

func (h *Handler) toSubcategoryDTO(s catalog.Subcategory) subcategoryDTO {
	return subcategoryDTO{
		ID:           int64(s.ID),
		Name:         s.Name,
		Slug:         s.Slug,
		CategoryID:   int64(s.CategoryID),
		Type:         s.Type,
		ImageURL:     h.absURL(s.ImageURL),
		ProductCount: s.ProductCount,
		Products:     h.toProductDTOs(catalog.ActiveOnly(s.Products)),
	}
}

// ListCategories serves the cached category tree, active only.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	col := h.store.Categories()

	data := make([]categoryDTO, 0, len(col.Items))
	for _, c := range col.Items {
		if !c.Active {
			continue
		}
		data = append(data, h.toCategoryDTO(c))
	}

	writeJSON(w, r, http.StatusOK, response{
		Success: true,
		Data:    data,
		Loading: col.Loading,
		Error:   col.Err,
	})
}

// subcategoryGroups is the hover-menu friendly bucket split of one category's
// subcategories.
type subcategoryGroups struct {
	Photography []subcategoryDTO `json:"photography"`
	Videography []subcategoryDTO `json:"videography"`
	Both        []subcategoryDTO `json:"both"`
}

// ListSubcategories serves one category's subcategories grouped by type
// bucket, optionally narrowed with ?type=.
func (h *Handler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	col := h.store.Categories()

	var found *catalog.Category
	for i := range col.Items {
		if col.Items[i].Slug == slug && col.Items[i].Active {
			found = &col.Items[i]
			break
		}
	}
	if found == nil {
		writeError(w, r, http.StatusNotFound, "category not found")
		return
	}

	subs := make([]catalog.Subcategory, 0, len(found.Subcategories))
	for _, s := range found.Subcategories {
		if s.Active {
			subs = append(subs, s)
		}
	}

	if t := r.URL.Query().Get("type"); t != "" {
		bucket := catalog.ParseTypeBucket(t)
		kept := subs[:0]
		for _, s := range subs {
			// A "both" subcategory belongs to every bucket view.
			if s.Type == bucket || s.Type == catalog.TypeBoth {
				kept = append(kept, s)
			}
		}
		subs = kept
	}

	groups := catalog.GroupByType(subs)
	data := subcategoryGroups{
		Photography: h.toSubcategoryDTOs(groups[catalog.TypePhotography]),
		Videography: h.toSubcategoryDTOs(groups[catalog.TypeVideography]),
		Both:        h.toSubcategoryDTOs(groups[catalog.TypeBoth]),
	}

	writeJSON(w, r, http.StatusOK, response{
		Success: true,
		Data:    data,
		Loading: col.Loading,
		Error:   col.Err,
	})
}

func (h *Handler) toSubcategoryDTOs(subs []catalog.Subcategory) []subcategoryDTO {
	out := make([]subcategoryDTO, len(subs))
	for i, s := range subs {
		out[i] = h.toSubcategoryDTO(s)
	}
	return out
}

// ListBrands serves the cached brand collection.
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	col, pg := h.store.Brands()

	data := make([]brandDTO, 0, len(col.Items))
	for _, b := range col.Items {
		if !b.Active {
			continue
		}
		data = append(data, brandDTO{
			ID:      int64(b.ID),
			Name:    b.Name,
			Slug:    b.Slug,
			LogoURL: h.absURL(b.LogoURL),
		})
	}

	resp := response{
		Success: true,
		Data:    data,
		Loading: col.Loading,
		Error:   col.Err,
	}
	if pg != (catalog.Pagination{}) {
		resp.Pagination = &pg
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Stats serves the cached collection counts.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, response{Success: true, Data: h.store.Stats()})
}

// Refresh drops all cached state and refetches every collection. Collection
// errors are non-fatal; the response reports the refreshed stats either way.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	if err := h.store.Refresh(r.Context()); err != nil {
		zctx.From(r.Context()).Warn("Cache refresh incomplete", zap.Error(err))
	}
	writeJSON(w, r, http.StatusOK, response{Success: true, Data: h.store.Stats()})
}
