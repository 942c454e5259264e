package state

import (
	"strconv"
	"strings"

	"github.com/buzmarkt/storefront/internal/catalog"
)

// LineItemFromProduct builds the cart entry for p.
func LineItemFromProduct(p catalog.Product, quantity int) LineItem {
	return LineItem{
		ID:       p.Key(),
		Name:     p.Title,
		Price:    p.Price,
		Quantity: quantity,
		Image:    p.Thumbnail(),
	}
}

// FavouriteFromProduct builds the favourites entry for p.
func FavouriteFromProduct(p catalog.Product) FavouriteItem {
	return FavouriteItem{
		ID:    p.Key(),
		Name:  p.Title,
		Price: p.Price,
		Image: p.Thumbnail(),
	}
}

// SearchProducts keeps products whose title contains query (case
// insensitive) and, when categoryIDs is non-empty, whose category is listed.
func SearchProducts(products []catalog.Product, query string, categoryIDs []string) []catalog.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	allowed := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		allowed[id] = true
	}

	var out []catalog.Product
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if len(allowed) > 0 && !allowed[strconv.Itoa(p.Category.ID)] {
			continue
		}
		out = append(out, p)
	}
	return out
}
