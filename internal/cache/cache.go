// Package cache holds the last-known state of each remote catalog collection.
//
// The store is an explicit dependency injected at wiring time, never a
// package-level singleton. Each collection carries its own loading flag and
// error string so the serving layer can render spinners and retry affordances
// without consulting anything else. A failed fetch never partially updates a
// collection: either the whole fetched slice replaces the items or nothing
// does, and the most recently settled fetch wins.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

// Source is the remote catalog the store fetches from. Implemented by
// *catalogapi.Client.
type Source interface {
	NestedCategories(ctx context.Context) ([]catalog.Category, error)
	ActiveSubcategories(ctx context.Context) ([]catalog.Subcategory, error)
	LatestProducts(ctx context.Context) ([]catalog.Product, error)
	VideoProducts(ctx context.Context) ([]catalog.Product, error)
	PhotoProducts(ctx context.Context) ([]catalog.Product, error)
	Brands(ctx context.Context, limit, page int) (catalog.BrandList, error)
}

// Collection is the per-collection cache state. Err holds the verbatim
// message of the last failed fetch, or "" after a success.
type Collection[T any] struct {
	Items   []T
	Loading bool
	Err     string
}

// BrandFilter narrows a brand fetch.
type BrandFilter struct {
	Limit int
	Page  int
}

// Stats mirrors the summary block the storefront renders on its home page.
type Stats struct {
	ProductsTotal  int `json:"products_total"`
	ProductsActive int `json:"products_active"`
	Categories     int `json:"categories"`
	Subcategories  int `json:"subcategories"`
	Brands         int `json:"brands"`
}

// Store caches one copy of each catalog collection in memory.
type Store struct {
	src Source

	mu            sync.Mutex
	categories    Collection[catalog.Category]
	subcategories Collection[catalog.Subcategory]
	latest        Collection[catalog.Product]
	video         Collection[catalog.Product]
	photo         Collection[catalog.Product]
	brands        Collection[catalog.Brand]
	brandPages    catalog.Pagination
}

// New creates an empty Store reading from src.
func New(src Source) *Store {
	return &Store{src: src}
}

// fetchInto runs one fetch against a collection: loading on dispatch, items
// or error on settlement. The collection keeps its previous items on failure.
func fetchInto[T any](ctx context.Context, s *Store, col *Collection[T], get func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	col.Loading = true
	col.Err = ""
	s.mu.Unlock()

	items, err := get(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	col.Loading = false
	if err != nil {
		col.Err = err.Error()
		return err
	}
	col.Items = items
	return nil
}

// FetchCategories refreshes the nested category tree.
func (s *Store) FetchCategories(ctx context.Context) error {
	return fetchInto(ctx, s, &s.categories, s.src.NestedCategories)
}

// FetchSubcategories refreshes the flat subcategory list.
func (s *Store) FetchSubcategories(ctx context.Context) error {
	return fetchInto(ctx, s, &s.subcategories, s.src.ActiveSubcategories)
}

// FetchLatestProducts refreshes the newest-products collection.
func (s *Store) FetchLatestProducts(ctx context.Context) error {
	return fetchInto(ctx, s, &s.latest, s.activeProducts(s.src.LatestProducts))
}

// FetchVideoProducts refreshes the videography collection.
func (s *Store) FetchVideoProducts(ctx context.Context) error {
	return fetchInto(ctx, s, &s.video, s.activeProducts(s.src.VideoProducts))
}

// FetchPhotoProducts refreshes the photography collection.
func (s *Store) FetchPhotoProducts(ctx context.Context) error {
	return fetchInto(ctx, s, &s.photo, s.activeProducts(s.src.PhotoProducts))
}

// FetchBrands refreshes the brand collection with the given filter.
func (s *Store) FetchBrands(ctx context.Context, f BrandFilter) error {
	return fetchInto(ctx, s, &s.brands, func(ctx context.Context) ([]catalog.Brand, error) {
		list, err := s.src.Brands(ctx, f.Limit, f.Page)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.brandPages = list.Pagination
		s.mu.Unlock()
		return list.Brands, nil
	})
}

// activeProducts drops inactive rows at the ingestion boundary. The upstream
// filter is also requested, but the invariant that inactive products never
// reach a derived list is enforced here.
func (s *Store) activeProducts(get func(context.Context) ([]catalog.Product, error)) func(context.Context) ([]catalog.Product, error) {
	return func(ctx context.Context) ([]catalog.Product, error) {
		items, err := get(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.ActiveOnly(items), nil
	}
}

// Refresh fetches every collection concurrently. Each collection settles
// independently; the first error is returned but does not stop the others.
func (s *Store) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.FetchCategories(ctx) })
	g.Go(func() error { return s.FetchSubcategories(ctx) })
	g.Go(func() error { return s.FetchLatestProducts(ctx) })
	g.Go(func() error { return s.FetchVideoProducts(ctx) })
	g.Go(func() error { return s.FetchPhotoProducts(ctx) })
	g.Go(func() error { return s.FetchBrands(ctx, BrandFilter{}) })
	return g.Wait()
}

// Reset drops all cached state. In-flight fetches still settle afterwards;
// last write wins, matching the no-fencing contract.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = Collection[catalog.Category]{}
	s.subcategories = Collection[catalog.Subcategory]{}
	s.latest = Collection[catalog.Product]{}
	s.video = Collection[catalog.Product]{}
	s.photo = Collection[catalog.Product]{}
	s.brands = Collection[catalog.Brand]{}
	s.brandPages = catalog.Pagination{}
}

// snapshot copies a collection so callers can never alias cache-owned slices.
func snapshot[T any](c Collection[T]) Collection[T] {
	c.Items = append([]T(nil), c.Items...)
	return c
}

// Categories returns the cached category tree.
func (s *Store) Categories() Collection[catalog.Category] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.categories)
}

// Subcategories returns the cached subcategory list.
func (s *Store) Subcategories() Collection[catalog.Subcategory] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.subcategories)
}

// LatestProducts returns the cached newest-products collection.
func (s *Store) LatestProducts() Collection[catalog.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.latest)
}

// VideoProducts returns the cached videography collection.
func (s *Store) VideoProducts() Collection[catalog.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.video)
}

// PhotoProducts returns the cached photography collection.
func (s *Store) PhotoProducts() Collection[catalog.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.photo)
}

// Brands returns the cached brand collection and its pagination window.
func (s *Store) Brands() (Collection[catalog.Brand], catalog.Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.brands), s.brandPages
}

// AllProducts returns the union of the three product collections,
// de-duplicated by identifier with the first occurrence winning, active only,
// in concatenation order.
func (s *Store) AllProducts() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[catalog.ID]struct{})
	out := make([]catalog.Product, 0, len(s.latest.Items)+len(s.video.Items)+len(s.photo.Items))
	for _, items := range [][]catalog.Product{s.latest.Items, s.video.Items, s.photo.Items} {
		for _, p := range items {
			if !p.Active {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Stats summarizes the cached collections.
func (s *Store) Stats() Stats {
	products := s.AllProducts()

	s.mu.Lock()
	defer s.mu.Unlock()
	subs := len(s.subcategories.Items)
	if subs == 0 {
		for _, c := range s.categories.Items {
			subs += len(c.Subcategories)
		}
	}
	return Stats{
		ProductsTotal:  len(products),
		ProductsActive: len(products),
		Categories:     len(s.categories.Items),
		Subcategories:  subs,
		Brands:         len(s.brands.Items),
	}
}
