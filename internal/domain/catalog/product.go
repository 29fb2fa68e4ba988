package catalog

import (
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested catalog entity does not exist
// upstream.
var ErrNotFound = errors.New("not found")

// Product is a catalog item. Active and Type are normalized during decoding;
// an inactive product must never reach a derived list.
type Product struct {
	ID          ID
	Name        string
	Slug        string
	Brand       string
	Description string

	// Price is the list price. Discount is an absolute amount off the list
	// price; the effective price is FinalPrice.
	Price    decimal.Decimal
	Discount decimal.Decimal

	Type   TypeBucket
	Active bool
	Rating float64

	ImageURL string
	Gallery  []string
	Specs    []SpecGroup

	CreatedAt time.Time
}

// SpecGroup holds a named group of product specifications with its display
// order.
type SpecGroup struct {
	Group string     `json:"group"`
	Order int        `json:"display_order"`
	Items []SpecItem `json:"items"`
}

// SpecItem is a single specification row.
type SpecItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// productJSON mirrors the upstream wire shape before normalization.
type productJSON struct {
	ID            ID          `json:"id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Brand         string      `json:"brand"`
	Description   string      `json:"description"`
	Price         Money       `json:"price"`
	DiscountPrice Money       `json:"discount_price"`
	Type          string      `json:"type"`
	Status        string      `json:"status"`
	IsActive      Flag        `json:"is_active"`
	Rating        Number      `json:"rating"`
	PrimaryImage  ImageRef    `json:"primary_image_url"`
	ImageURL      ImageRef    `json:"image_url"`
	Images        []ImageRef  `json:"images"`
	Specs         []SpecGroup `json:"specifications"`
	CreatedAt     Time        `json:"created_at"`
}

// UnmarshalJSON decodes the upstream wire shape and normalizes it in one
// place: the active flag collapses to a strict bool, the type to a known
// bucket, and flexible scalars to their Go counterparts.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode product")
	}

	image := string(raw.PrimaryImage)
	if image == "" {
		image = string(raw.ImageURL)
	}
	gallery := make([]string, 0, len(raw.Images))
	for _, ref := range raw.Images {
		if ref != "" {
			gallery = append(gallery, string(ref))
		}
	}
	if len(gallery) == 0 {
		gallery = nil
	}

	*p = Product{
		ID:          raw.ID,
		Name:        raw.Name,
		Slug:        raw.Slug,
		Brand:       raw.Brand,
		Description: raw.Description,
		Price:       raw.Price.Decimal,
		Discount:    raw.DiscountPrice.Decimal,
		Type:        ParseTypeBucket(raw.Type),
		Active:      isActive(raw.Status, raw.IsActive),
		Rating:      float64(raw.Rating),
		ImageURL:    image,
		Gallery:     gallery,
		Specs:       raw.Specs,
		CreatedAt:   raw.CreatedAt.Time,
	}
	return nil
}

// FinalPrice returns the list price minus the discount, floored at zero.
func (p Product) FinalPrice() decimal.Decimal {
	final := p.Price.Sub(p.Discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// Discounted reports whether the product carries a positive discount.
func (p Product) Discounted() bool {
	return p.Discount.IsPositive()
}

// isActive is the single place the upstream status/is_active variants collapse
// to a boolean. "active" as status, or any truthy is_active, count.
func isActive(status string, flag Flag) bool {
	return status == "active" || bool(flag)
}

// ActiveOnly returns the active products of in, preserving order. The input
// is not modified.
func ActiveOnly(in []Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}
