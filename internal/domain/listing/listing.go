// Package listing derives displayable product lists from raw catalog data.
//
// The pipeline is a pure function: type filter, then text filter, then a
// stable sort. It never mutates its input and performs no I/O, so identical
// inputs always produce identical output.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

// TypeFilter selects which type bucket to keep. FilterAll keeps everything.
type TypeFilter string

const (
	FilterAll         TypeFilter = "all"
	FilterPhotography TypeFilter = TypeFilter(catalog.TypePhotography)
	FilterVideography TypeFilter = TypeFilter(catalog.TypeVideography)
	FilterBoth        TypeFilter = TypeFilter(catalog.TypeBoth)
)

// ParseTypeFilter maps a query-string value to a TypeFilter. Unknown and
// empty values fall back to FilterAll.
func ParseTypeFilter(s string) TypeFilter {
	switch TypeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterPhotography:
		return FilterPhotography
	case FilterVideography:
		return FilterVideography
	case FilterBoth:
		return FilterBoth
	default:
		return FilterAll
	}
}

// SortKey selects the ordering of the derived list.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps a query-string value to a SortKey, defaulting to SortName.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortRating:
		return SortRating
	default:
		return SortName
	}
}

// Query is one pass through the pipeline.
type Query struct {
	Type   TypeFilter
	Search string
	Sort   SortKey
}

// Apply runs the pipeline over products and returns a new slice. Filters
// compose as a conjunction; the sort always runs last and is stable, so ties
// keep their input order.
func Apply(products []catalog.Product, q Query) []catalog.Product {
	out := filterType(products, q.Type)
	out = filterSearch(out, q.Search)
	sortProducts(out, q.Sort)
	return out
}

// filterType returns a fresh slice so later stages never touch the caller's
// backing array.
func filterType(products []catalog.Product, f TypeFilter) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if f == FilterAll || f == "" || TypeFilter(p.Type) == f {
			out = append(out, p)
		}
	}
	return out
}

// filterSearch keeps products whose name or description contains the query,
// case-insensitively. A blank query keeps everything. Mutates out in place;
// callers pass the slice owned by the pipeline.
func filterSearch(out []catalog.Product, query string) []catalog.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return out
	}
	kept := out[:0]
	for _, p := range out {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			kept = append(kept, p)
		}
	}
	return kept
}

func sortProducts(products []catalog.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Cmp(products[j].Price) < 0
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Cmp(products[j].Price) > 0
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default:
		// Collators are not safe for concurrent use, so each sort gets its own.
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Name, products[j].Name) < 0
		})
	}
}
