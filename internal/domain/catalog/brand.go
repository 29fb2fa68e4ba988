package catalog

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// Brand is a manufacturer listed in the catalog.
type Brand struct {
	ID      ID
	Name    string
	Slug    string
	LogoURL string
	Active  bool
}

type brandJSON struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	LogoURL  ImageRef `json:"logo_url"`
	Status   string   `json:"status"`
	IsActive Flag     `json:"is_active"`
}

func (b *Brand) UnmarshalJSON(data []byte) error {
	var raw brandJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode brand")
	}
	*b = Brand{
		ID:      raw.ID,
		Name:    raw.Name,
		Slug:    raw.Slug,
		LogoURL: string(raw.LogoURL),
		Active:  isActive(raw.Status, raw.IsActive),
	}
	return nil
}

// BrandList is a page of brands together with its pagination window.
type BrandList struct {
	Brands     []Brand
	Pagination Pagination
}
