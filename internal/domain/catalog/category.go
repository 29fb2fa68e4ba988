package catalog

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// Category is a top-level catalog section, optionally carrying its
// subcategories when fetched nested.
type Category struct {
	ID            ID
	Name          string
	Slug          string
	Description   string
	ImageURL      string
	Active        bool
	Subcategories []Subcategory
}

type categoryJSON struct {
	ID            ID            `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description"`
	ImageURL      ImageRef      `json:"image_url"`
	Status        string        `json:"status"`
	IsActive      Flag          `json:"is_active"`
	Subcategories []Subcategory `json:"subcategories"`
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var raw categoryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode category")
	}
	*c = Category{
		ID:            raw.ID,
		Name:          raw.Name,
		Slug:          raw.Slug,
		Description:   raw.Description,
		ImageURL:      string(raw.ImageURL),
		Active:        isActive(raw.Status, raw.IsActive),
		Subcategories: raw.Subcategories,
	}
	return nil
}

// Subcategory belongs to a Category and is classified into one of the three
// type buckets. Products are present only on nested fetches.
type Subcategory struct {
	ID           ID
	Name         string
	Slug         string
	CategoryID   ID
	Type         TypeBucket
	ImageURL     string
	ProductCount int
	Active       bool
	Products     []Product
}

type subcategoryJSON struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CategoryID   ID        `json:"category_id"`
	Type         string    `json:"type"`
	ImageURL     ImageRef  `json:"image_url"`
	ProductCount Number    `json:"product_count"`
	Status       string    `json:"status"`
	IsActive     Flag      `json:"is_active"`
	Products     []Product `json:"products"`
}

func (s *Subcategory) UnmarshalJSON(data []byte) error {
	var raw subcategoryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode subcategory")
	}
	*s = Subcategory{
		ID:           raw.ID,
		Name:         raw.Name,
		Slug:         raw.Slug,
		CategoryID:   raw.CategoryID,
		Type:         ParseTypeBucket(raw.Type),
		ImageURL:     string(raw.ImageURL),
		ProductCount: int(raw.ProductCount),
		Active:       isActive(raw.Status, raw.IsActive),
		Products:     raw.Products,
	}
	return nil
}

// GroupByType splits subcategories into the three display buckets. Types are
// already normalized at decode time, so every subcategory lands in exactly
// one bucket.
func GroupByType(subs []Subcategory) map[TypeBucket][]Subcategory {
	groups := make(map[TypeBucket][]Subcategory, 3)
	for _, s := range subs {
		groups[s.Type] = append(groups[s.Type], s)
	}
	return groups
}
