package state

// FilterOption is a selectable facet value.
type FilterOption struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsSelected bool   `json:"isSelected"`
}

// FilterState holds the category and brand facets. Both fetches share one
// Lifecycle; Loading stays true while either is in flight.
type FilterState struct {
	Categories []FilterOption `json:"categories"`
	Brands     []FilterOption `json:"brands"`
	Lifecycle

	inFlight int
}

// SelectedCategories returns the ids of selected category options.
func (f FilterState) SelectedCategories() []string {
	return selectedIDs(f.Categories)
}

// SelectedBrands returns the ids of selected brand options.
func (f FilterState) SelectedBrands() []string {
	return selectedIDs(f.Brands)
}

func selectedIDs(options []FilterOption) []string {
	var ids []string
	for _, o := range options {
		if o.IsSelected {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func reduceFilter(s FilterState, a FilterAction) FilterState {
	switch a := a.(type) {
	case FilterPending:
		s.inFlight++
		s.Lifecycle = s.Lifecycle.pending()

	case FilterFulfilled:
		s.settle()
		s.Lifecycle = s.Lifecycle.fulfilled()
		options := freshOptions(a.Options)
		switch a.Source {
		case SourceCategories:
			s.Categories = options
		case SourceBrands:
			s.Brands = options
		}

	case FilterRejected:
		s.settle()
		s.Lifecycle = s.Lifecycle.rejected(a.Message)

	case ToggleCategory:
		s.Categories = toggleOption(s.Categories, a.ID)

	case ToggleBrand:
		s.Brands = toggleOption(s.Brands, a.ID)

	case ResetFilters:
		s.Categories = clearSelection(s.Categories)
		s.Brands = clearSelection(s.Brands)
	}
	s.Loading = s.inFlight > 0
	return s
}

func (s *FilterState) settle() {
	if s.inFlight > 0 {
		s.inFlight--
	}
}

// freshOptions copies options with every flag cleared; a refetch drops
// previous selections.
func freshOptions(options []FilterOption) []FilterOption {
	if len(options) == 0 {
		return nil
	}
	out := make([]FilterOption, len(options))
	for i, o := range options {
		o.IsSelected = false
		out[i] = o
	}
	return out
}

func toggleOption(options []FilterOption, id string) []FilterOption {
	for i, o := range options {
		if o.ID != id {
			continue
		}
		out := make([]FilterOption, len(options))
		copy(out, options)
		out[i].IsSelected = !o.IsSelected
		return out
	}
	return options
}

func clearSelection(options []FilterOption) []FilterOption {
	if len(options) == 0 {
		return options
	}
	out := make([]FilterOption, len(options))
	for i, o := range options {
		o.IsSelected = false
		out[i] = o
	}
	return out
}
