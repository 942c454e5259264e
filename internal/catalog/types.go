package catalog

import "strconv"

// Category mirrors the catalog's category payload.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Product mirrors the catalog's product payload.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Images      []string `json:"images"`
}

// Key returns the product id in the string form used by cart and
// favourites.
func (p Product) Key() string {
	return strconv.Itoa(p.ID)
}

// Thumbnail returns the first image, or "" when the product has none.
func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Brand is a selectable brand facet.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// defaultBrands is served by FetchBrands; the demo catalog has no brand
// endpoint.
var defaultBrands = []Brand{
	{ID: "1", Name: "Individual Collection"},
	{ID: "2", Name: "Cocola"},
	{ID: "3", Name: "Ifad"},
	{ID: "4", Name: "Kazi Farmas"},
}
