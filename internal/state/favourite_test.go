package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFavourite_AddIsIdempotent(t *testing.T) {
	var fav FavouriteState
	fav = reduceFavourite(fav, AddToFavourites{Item: FavouriteItem{ID: "1", Name: "first"}})
	fav = reduceFavourite(fav, AddToFavourites{Item: FavouriteItem{ID: "1", Name: "second"}})

	assert.Equal(t, []FavouriteItem{{ID: "1", Name: "first"}}, fav.Items)
	assert.True(t, fav.Contains("1"))
}

func TestFavourite_RemoveAbsentIsNoop(t *testing.T) {
	fav := FavouriteState{Items: []FavouriteItem{{ID: "1"}}}

	assert.Equal(t, fav, reduceFavourite(fav, RemoveFromFavourites{ID: "nope"}))
	assert.Empty(t, reduceFavourite(fav, RemoveFromFavourites{ID: "1"}).Items)
}

func TestFavourite_ToggleTwiceRestoresCollection(t *testing.T) {
	start := FavouriteState{Items: []FavouriteItem{{ID: "a"}, {ID: "b"}}}

	absent := FavouriteItem{ID: "c"}
	once := reduceFavourite(start, ToggleFavourite{Item: absent})
	assert.True(t, once.Contains("c"))
	assert.Equal(t, start, reduceFavourite(once, ToggleFavourite{Item: absent}))

	present := FavouriteItem{ID: "a"}
	once = reduceFavourite(start, ToggleFavourite{Item: present})
	assert.False(t, once.Contains("a"))
	twice := reduceFavourite(once, ToggleFavourite{Item: present})
	assert.ElementsMatch(t, start.Items, twice.Items)
	assert.Len(t, start.Items, 2, "input state must not change")
}

func TestFavourite_Clear(t *testing.T) {
	fav := FavouriteState{Items: []FavouriteItem{{ID: "1"}, {ID: "2"}}}
	assert.Empty(t, reduceFavourite(fav, ClearFavourites{}).Items)
}
