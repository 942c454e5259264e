package state

import "github.com/buzmarkt/storefront/internal/catalog"

// ProductsState holds the last fetched catalog data.
type ProductsState struct {
	Products         []catalog.Product  `json:"products"`
	Categories       []catalog.Category `json:"categories"`
	SelectedCategory *catalog.Category  `json:"selectedCategory"`
	Lifecycle
}

// FindProduct looks a product up by its string key.
func (p ProductsState) FindProduct(key string) (catalog.Product, bool) {
	for _, product := range p.Products {
		if product.Key() == key {
			return product, true
		}
	}
	return catalog.Product{}, false
}

func reduceProducts(s ProductsState, a ProductsAction) ProductsState {
	switch a := a.(type) {
	case CatalogPending:
		s.Lifecycle = s.Lifecycle.pending()

	case ProductsFulfilled:
		s.Lifecycle = s.Lifecycle.fulfilled()
		s.Products = cloneProducts(a.Products)

	case CategoriesFulfilled:
		s.Lifecycle = s.Lifecycle.fulfilled()
		s.Categories = cloneCategories(a.Categories)

	case CatalogRejected:
		s.Lifecycle = s.Lifecycle.rejected(a.Message)

	case SelectCategory:
		if a.Category == nil {
			s.SelectedCategory = nil
		} else {
			selected := *a.Category
			s.SelectedCategory = &selected
		}
	}
	return s
}

func cloneProducts(products []catalog.Product) []catalog.Product {
	if len(products) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(products))
	for i, p := range products {
		if p.Images != nil {
			p.Images = append([]string(nil), p.Images...)
		}
		dup[i] = p
	}
	return dup
}

func cloneCategories(categories []catalog.Category) []catalog.Category {
	if len(categories) == 0 {
		return nil
	}
	dup := make([]catalog.Category, len(categories))
	copy(dup, categories)
	return dup
}
