package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededFilter() FilterState {
	var f FilterState
	f = reduceFilter(f, FilterPending{Source: SourceCategories})
	f = reduceFilter(f, FilterFulfilled{Source: SourceCategories, Options: []FilterOption{
		{ID: "1", Name: "Clothes"}, {ID: "2", Name: "Shoes"},
	}})
	f = reduceFilter(f, FilterPending{Source: SourceBrands})
	f = reduceFilter(f, FilterFulfilled{Source: SourceBrands, Options: []FilterOption{
		{ID: "b1", Name: "Cocola"}, {ID: "b2", Name: "Ifad"},
	}})
	return f
}

func TestFilter_FetchReplacesWithUnselectedOptions(t *testing.T) {
	f := seededFilter()
	f = reduceFilter(f, ToggleCategory{ID: "1"})
	require.Equal(t, []string{"1"}, f.SelectedCategories())

	f = reduceFilter(f, FilterPending{Source: SourceCategories})
	assert.True(t, f.Loading)
	f = reduceFilter(f, FilterFulfilled{Source: SourceCategories, Options: []FilterOption{
		{ID: "1", Name: "Clothes", IsSelected: true}, {ID: "3", Name: "Toys"},
	}})

	assert.False(t, f.Loading)
	assert.Equal(t, []FilterOption{{ID: "1", Name: "Clothes"}, {ID: "3", Name: "Toys"}}, f.Categories)
	assert.Len(t, f.Brands, 2, "brands are untouched")
}

func TestFilter_ToggleFlipsOnlyMatchingOption(t *testing.T) {
	f := seededFilter()
	before := f

	f = reduceFilter(f, ToggleCategory{ID: "2"})
	f = reduceFilter(f, ToggleBrand{ID: "b1"})
	f = reduceFilter(f, ToggleBrand{ID: "missing"})

	assert.Equal(t, []string{"2"}, f.SelectedCategories())
	assert.Equal(t, []string{"b1"}, f.SelectedBrands())
	assert.Empty(t, before.SelectedCategories(), "input state must not change")

	f = reduceFilter(f, ToggleCategory{ID: "2"})
	assert.Empty(t, f.SelectedCategories())
}

func TestFilter_ResetClearsFlagsKeepsMembership(t *testing.T) {
	f := seededFilter()
	f = reduceFilter(f, ToggleCategory{ID: "1"})
	f = reduceFilter(f, ToggleCategory{ID: "2"})
	f = reduceFilter(f, ToggleBrand{ID: "b2"})

	reset := reduceFilter(f, ResetFilters{})

	require.Len(t, reset.Categories, len(f.Categories))
	require.Len(t, reset.Brands, len(f.Brands))
	for i, o := range reset.Categories {
		assert.False(t, o.IsSelected)
		assert.Equal(t, f.Categories[i].ID, o.ID)
	}
	for i, o := range reset.Brands {
		assert.False(t, o.IsSelected)
		assert.Equal(t, f.Brands[i].ID, o.ID)
	}

	empty := reduceFilter(FilterState{}, ResetFilters{})
	assert.Empty(t, empty.Categories)
}

func TestFilter_SharedLoadingWaitsForBothSources(t *testing.T) {
	var f FilterState
	f = reduceFilter(f, FilterPending{Source: SourceCategories})
	f = reduceFilter(f, FilterPending{Source: SourceBrands})

	f = reduceFilter(f, FilterFulfilled{Source: SourceBrands, Options: []FilterOption{{ID: "b"}}})
	assert.True(t, f.Loading, "categories still in flight")

	f = reduceFilter(f, FilterRejected{Source: SourceCategories, Message: "boom"})
	assert.False(t, f.Loading)
	assert.Equal(t, "boom", f.Error)

	f = reduceFilter(f, FilterPending{Source: SourceCategories})
	assert.Equal(t, "", f.Error, "pending clears the error")
}

func TestFilter_StraySettleDoesNotUnderflow(t *testing.T) {
	f := reduceFilter(FilterState{}, FilterRejected{Source: SourceBrands, Message: "x"})
	f = reduceFilter(f, FilterPending{Source: SourceBrands})
	assert.True(t, f.Loading)
}
