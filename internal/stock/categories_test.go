package stock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryPredicates(t *testing.T) {
	consumable := Product{Code: "100", Tags: []string{tagConsumption}}
	service := Product{Code: "7001"}
	blank := Product{Code: "200", Tags: []string{""}}

	require.True(t, CategoryPredicate(CategoryConsumption)(consumable))
	require.False(t, CategoryPredicate(CategoryConsumption)(service))
	require.True(t, CategoryPredicate(CategoryServices)(service))
	require.True(t, CategoryPredicate(CategoryBlankTags)(blank))
	require.True(t, CategoryPredicate(CategoryBlankTags)(Product{Code: "300"}))
	require.False(t, CategoryPredicate(Category("unknown"))(consumable))
}

func TestCategoryCounts(t *testing.T) {
	products := []Product{
		{Code: "100", Tags: []string{tagConsumption}},
		{Code: "101", Tags: []string{tagConsumption, tagFactory}},
		{Code: "7002"},
	}
	counts := CategoryCounts(products)
	require.Equal(t, 2, counts[CategoryConsumption])
	require.Equal(t, 1, counts[CategoryFactory])
	require.Equal(t, 1, counts[CategoryServices])
	require.Equal(t, 1, counts[CategoryBlankTags]) // the service item has no tags
}
