package catalogapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

// CategoryQuery filters the category listing.
type CategoryQuery struct {
	// Nested requests subcategories (with their products) embedded in each
	// category.
	Nested     bool
	ActiveOnly bool
	Search     string
}

// Categories lists categories.
func (c *Client) Categories(ctx context.Context, q CategoryQuery) ([]catalog.Category, error) {
	params := url.Values{}
	if q.Nested {
		params.Set("include", "subcategories,products")
	}
	if q.ActiveOnly {
		params.Set("is_active", "1")
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	var out []catalog.Category
	if _, err := c.get(ctx, "categories", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubcategoryQuery filters the subcategory listing.
type SubcategoryQuery struct {
	CategoryID   catalog.ID
	Type         catalog.TypeBucket
	ActiveOnly   bool
	WithProducts bool
	Search       string
}

// Subcategories lists subcategories.
func (c *Client) Subcategories(ctx context.Context, q SubcategoryQuery) ([]catalog.Subcategory, error) {
	params := url.Values{}
	if q.CategoryID != 0 {
		params.Set("category_id", q.CategoryID.String())
	}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.ActiveOnly {
		params.Set("is_active", "1")
	}
	if q.WithProducts {
		params.Set("include", "products")
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	var out []catalog.Subcategory
	if _, err := c.get(ctx, "subcategories", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductQuery filters and orders the product listing.
type ProductQuery struct {
	Type          catalog.TypeBucket
	SubcategoryID catalog.ID
	Sort          string
	Order         string
	Limit         int
	ActiveOnly    bool
}

// Products lists products.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]catalog.Product, error) {
	params := url.Values{}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.SubcategoryID != 0 {
		params.Set("subcategory_id", q.SubcategoryID.String())
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.ActiveOnly {
		params.Set("is_active", "1")
	}
	var out []catalog.Product
	if _, err := c.get(ctx, "products", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductByID fetches a single active product. Returns catalog.ErrNotFound
// when the product does not exist.
func (c *Client) ProductByID(ctx context.Context, id catalog.ID) (*catalog.Product, error) {
	params := url.Values{}
	params.Set("id", id.String())
	params.Set("is_active", "1")

	env, _, err := c.do(ctx, "products", params)
	if err != nil {
		return nil, err
	}
	var p catalog.Product
	if err := decodeOne(env, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts runs an upstream free-text product search.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]catalog.Product, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("is_active", "1")
	var out []catalog.Product
	if _, err := c.get(ctx, "products/search", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Brands lists active brands with pagination. limit and page are optional;
// zero leaves the upstream defaults in place.
func (c *Client) Brands(ctx context.Context, limit, page int) (catalog.BrandList, error) {
	params := url.Values{}
	params.Set("is_active", "1")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var brands []catalog.Brand
	pg, err := c.get(ctx, "brands", params, &brands)
	if err != nil {
		return catalog.BrandList{}, err
	}
	return catalog.BrandList{Brands: brands, Pagination: pg}, nil
}

// The convenience calls below freeze the defaults the storefront uses when
// warming its cache: newest first, active only, the configured list limit.

// NestedCategories fetches active categories with embedded subcategories and
// products.
func (c *Client) NestedCategories(ctx context.Context) ([]catalog.Category, error) {
	return c.Categories(ctx, CategoryQuery{Nested: true, ActiveOnly: true})
}

// ActiveSubcategories fetches all active subcategories.
func (c *Client) ActiveSubcategories(ctx context.Context) ([]catalog.Subcategory, error) {
	return c.Subcategories(ctx, SubcategoryQuery{ActiveOnly: true})
}

// LatestProducts fetches the newest active products across all types.
func (c *Client) LatestProducts(ctx context.Context) ([]catalog.Product, error) {
	return c.Products(ctx, c.latestQuery(""))
}

// VideoProducts fetches the newest active videography products.
func (c *Client) VideoProducts(ctx context.Context) ([]catalog.Product, error) {
	return c.Products(ctx, c.latestQuery(catalog.TypeVideography))
}

// PhotoProducts fetches the newest active photography products.
func (c *Client) PhotoProducts(ctx context.Context) ([]catalog.Product, error) {
	return c.Products(ctx, c.latestQuery(catalog.TypePhotography))
}

func (c *Client) latestQuery(t catalog.TypeBucket) ProductQuery {
	return ProductQuery{
		Type:       t,
		Sort:       "created_at",
		Order:      "DESC",
		Limit:      c.limit,
		ActiveOnly: true,
	}
}

// Ping performs a minimal request to verify the Catalog API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Brands(ctx, 1, 0)
	return err
}
