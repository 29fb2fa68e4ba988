package cache

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

// --- Mock source ---

type mockSource struct {
	categories    []catalog.Category
	subcategories []catalog.Subcategory
	latest        []catalog.Product
	video         []catalog.Product
	photo         []catalog.Product
	brands        catalog.BrandList

	err error

	brandCalls []int // limits passed to Brands
}

func (m *mockSource) NestedCategories(context.Context) ([]catalog.Category, error) {
	return m.categories, m.err
}

func (m *mockSource) ActiveSubcategories(context.Context) ([]catalog.Subcategory, error) {
	return m.subcategories, m.err
}

func (m *mockSource) LatestProducts(context.Context) ([]catalog.Product, error) {
	return m.latest, m.err
}

func (m *mockSource) VideoProducts(context.Context) ([]catalog.Product, error) {
	return m.video, m.err
}

func (m *mockSource) PhotoProducts(context.Context) ([]catalog.Product, error) {
	return m.photo, m.err
}

func (m *mockSource) Brands(_ context.Context, limit, _ int) (catalog.BrandList, error) {
	m.brandCalls = append(m.brandCalls, limit)
	return m.brands, m.err
}

func active(id catalog.ID) catalog.Product {
	return catalog.Product{ID: id, Active: true}
}

// --- Tests ---

func TestFetchLatestProducts_ReplacesItems(t *testing.T) {
	src := &mockSource{latest: []catalog.Product{active(1), active(2)}}
	store := New(src)

	require.NoError(t, store.FetchLatestProducts(context.Background()))

	col := store.LatestProducts()
	assert.False(t, col.Loading)
	assert.Empty(t, col.Err)
	require.Len(t, col.Items, 2)
}

func TestFetchLatestProducts_DropsInactiveAtIngestion(t *testing.T) {
	src := &mockSource{latest: []catalog.Product{
		active(1),
		{ID: 2, Active: false},
		active(3),
	}}
	store := New(src)

	require.NoError(t, store.FetchLatestProducts(context.Background()))

	col := store.LatestProducts()
	require.Len(t, col.Items, 2)
	assert.Equal(t, catalog.ID(1), col.Items[0].ID)
	assert.Equal(t, catalog.ID(3), col.Items[1].ID)
}

func TestFetch_FailureKeepsPreviousItems(t *testing.T) {
	src := &mockSource{latest: []catalog.Product{active(1)}}
	store := New(src)
	require.NoError(t, store.FetchLatestProducts(context.Background()))

	src.err = errors.New("upstream exploded")
	err := store.FetchLatestProducts(context.Background())
	require.Error(t, err)

	col := store.LatestProducts()
	assert.False(t, col.Loading)
	assert.Equal(t, "upstream exploded", col.Err)
	// Previous items survive the failed refresh.
	require.Len(t, col.Items, 1)
	assert.Equal(t, catalog.ID(1), col.Items[0].ID)
}

func TestFetch_SuccessClearsError(t *testing.T) {
	src := &mockSource{err: errors.New("boom")}
	store := New(src)
	require.Error(t, store.FetchLatestProducts(context.Background()))
	require.Equal(t, "boom", store.LatestProducts().Err)

	src.err = nil
	src.latest = []catalog.Product{active(1)}
	require.NoError(t, store.FetchLatestProducts(context.Background()))

	col := store.LatestProducts()
	assert.Empty(t, col.Err)
	assert.Len(t, col.Items, 1)
}

func TestFetchBrands_StoresPagination(t *testing.T) {
	src := &mockSource{brands: catalog.BrandList{
		Brands:     []catalog.Brand{{ID: 1, Name: "Canon"}},
		Pagination: catalog.Pagination{Page: 1, Limit: 24, Total: 31, Pages: 2},
	}}
	store := New(src)

	require.NoError(t, store.FetchBrands(context.Background(), BrandFilter{Limit: 24}))

	brands, pg := store.Brands()
	require.Len(t, brands.Items, 1)
	assert.Equal(t, 31, pg.Total)
	assert.Equal(t, []int{24}, src.brandCalls)
}

func TestRefresh_PopulatesEverything(t *testing.T) {
	src := &mockSource{
		categories:    []catalog.Category{{ID: 1, Active: true}},
		subcategories: []catalog.Subcategory{{ID: 10}, {ID: 11}},
		latest:        []catalog.Product{active(1)},
		video:         []catalog.Product{active(2)},
		photo:         []catalog.Product{active(3)},
		brands:        catalog.BrandList{Brands: []catalog.Brand{{ID: 1}}},
	}
	store := New(src)

	require.NoError(t, store.Refresh(context.Background()))

	assert.Len(t, store.Categories().Items, 1)
	assert.Len(t, store.Subcategories().Items, 2)
	assert.Len(t, store.LatestProducts().Items, 1)
	assert.Len(t, store.VideoProducts().Items, 1)
	assert.Len(t, store.PhotoProducts().Items, 1)
}

func TestRefresh_ReturnsFirstError(t *testing.T) {
	src := &mockSource{err: errors.New("offline")}
	store := New(src)

	err := store.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, "offline", store.Categories().Err)
	assert.Equal(t, "offline", store.LatestProducts().Err)
}

func TestReset_DropsState(t *testing.T) {
	src := &mockSource{latest: []catalog.Product{active(1)}}
	store := New(src)
	require.NoError(t, store.FetchLatestProducts(context.Background()))

	store.Reset()

	col := store.LatestProducts()
	assert.Empty(t, col.Items)
	assert.Empty(t, col.Err)
	assert.False(t, col.Loading)
}

func TestAllProducts_DedupeFirstWins(t *testing.T) {
	shared := catalog.Product{ID: 2, Active: true, Name: "from latest"}
	src := &mockSource{
		latest: []catalog.Product{active(1), shared},
		video:  []catalog.Product{{ID: 2, Active: true, Name: "from video"}, active(3)},
		photo:  []catalog.Product{active(4)},
	}
	store := New(src)
	require.NoError(t, store.Refresh(context.Background()))

	all := store.AllProducts()

	require.Len(t, all, 4)
	assert.Equal(t, catalog.ID(1), all[0].ID)
	assert.Equal(t, "from latest", all[1].Name)
	assert.Equal(t, catalog.ID(3), all[2].ID)
	assert.Equal(t, catalog.ID(4), all[3].ID)
}

func TestSnapshot_CallerCannotMutateCache(t *testing.T) {
	src := &mockSource{latest: []catalog.Product{active(1)}}
	store := New(src)
	require.NoError(t, store.FetchLatestProducts(context.Background()))

	col := store.LatestProducts()
	col.Items[0].Name = "mutated"

	assert.Empty(t, store.LatestProducts().Items[0].Name)
}

func TestStats(t *testing.T) {
	src := &mockSource{
		categories: []catalog.Category{
			{ID: 1, Subcategories: []catalog.Subcategory{{ID: 10}, {ID: 11}}},
		},
		latest: []catalog.Product{active(1), active(2)},
		photo:  []catalog.Product{active(2), active(3)},
		brands: catalog.BrandList{Brands: []catalog.Brand{{ID: 1}}},
	}
	store := New(src)
	require.NoError(t, store.Refresh(context.Background()))

	stats := store.Stats()

	assert.Equal(t, 3, stats.ProductsTotal)
	assert.Equal(t, 3, stats.ProductsActive)
	assert.Equal(t, 1, stats.Categories)
	// No flat subcategory list cached; falls back to counting nested ones.
	assert.Equal(t, 2, stats.Subcategories)
	assert.Equal(t, 1, stats.Brands)
}
