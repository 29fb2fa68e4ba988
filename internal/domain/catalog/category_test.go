package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUnmarshal_Nested(t *testing.T) {
	var c Category
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "3",
		"name": "Cameras",
		"slug": "cameras",
		"status": "active",
		"subcategories": [
			{"id": 10, "name": "Mirrorless", "category_id": "3", "type": "photography", "product_count": "12", "is_active": 1},
			{"id": 11, "name": "Cinema", "category_id": 3, "type": "videography", "is_active": 0}
		]
	}`), &c))

	assert.Equal(t, ID(3), c.ID)
	assert.True(t, c.Active)
	require.Len(t, c.Subcategories, 2)

	sub := c.Subcategories[0]
	assert.Equal(t, ID(10), sub.ID)
	assert.Equal(t, ID(3), sub.CategoryID)
	assert.Equal(t, TypePhotography, sub.Type)
	assert.Equal(t, 12, sub.ProductCount)
	assert.True(t, sub.Active)

	assert.False(t, c.Subcategories[1].Active)
}

func TestGroupByType(t *testing.T) {
	subs := []Subcategory{
		{ID: 1, Type: TypePhotography},
		{ID: 2, Type: TypeVideography},
		{ID: 3, Type: TypePhotography},
		{ID: 4, Type: TypeBoth},
	}

	groups := GroupByType(subs)

	require.Len(t, groups[TypePhotography], 2)
	assert.Equal(t, ID(1), groups[TypePhotography][0].ID)
	assert.Equal(t, ID(3), groups[TypePhotography][1].ID)
	assert.Len(t, groups[TypeVideography], 1)
	assert.Len(t, groups[TypeBoth], 1)
}
