package state

// FavouriteItem is a saved product.
type FavouriteItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// FavouriteState holds saved products with set semantics on ID.
type FavouriteState struct {
	Items []FavouriteItem `json:"items"`
}

// Contains reports whether id is saved.
func (f FavouriteState) Contains(id string) bool {
	return f.index(id) >= 0
}

func (f FavouriteState) index(id string) int {
	for i, item := range f.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (f FavouriteState) with(item FavouriteItem) FavouriteState {
	items := make([]FavouriteItem, len(f.Items), len(f.Items)+1)
	copy(items, f.Items)
	return FavouriteState{Items: append(items, item)}
}

func (f FavouriteState) without(i int) FavouriteState {
	if len(f.Items) == 1 {
		return FavouriteState{}
	}
	items := make([]FavouriteItem, 0, len(f.Items)-1)
	items = append(items, f.Items[:i]...)
	return FavouriteState{Items: append(items, f.Items[i+1:]...)}
}

func reduceFavourite(s FavouriteState, a FavouriteAction) FavouriteState {
	switch a := a.(type) {
	case AddToFavourites:
		if s.Contains(a.Item.ID) {
			return s
		}
		return s.with(a.Item)

	case RemoveFromFavourites:
		if i := s.index(a.ID); i >= 0 {
			return s.without(i)
		}
		return s

	case ToggleFavourite:
		if i := s.index(a.Item.ID); i >= 0 {
			return s.without(i)
		}
		return s.with(a.Item)

	case ClearFavourites:
		return FavouriteState{}
	}
	return s
}
