package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	clothes := Category{ID: 1, Name: "Clothes", Image: "https://img/c1"}
	shoes := Category{ID: 4, Name: "Shoes", Image: "https://img/c4"}
	products := []Product{
		{ID: 10, Title: "Shirt", Price: 12.5, Category: clothes, Images: []string{"https://img/p10"}},
		{ID: 11, Title: "Boots", Price: 80, Category: shoes, Images: []string{"https://img/p11", "https://img/p11b"}},
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(products)
	}).Methods(http.MethodGet)
	api.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Category{clothes, shoes})
	}).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}/products", func(w http.ResponseWriter, r *http.Request) {
		var out []Product
		for _, p := range products {
			if mux.Vars(r)["id"] == strconv.Itoa(p.Category.ID) {
				out = append(out, p)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	}).Methods(http.MethodGet)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchesEndpoints(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)
	c, err := NewClient(server.URL + "/api/v1")
	require.NoError(t, err)
	ctx := context.Background()

	products, err := c.FetchProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Shirt", products[0].Title)
	assert.Equal(t, "Clothes", products[0].Category.Name)

	categories, err := c.FetchCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, 4, categories[1].ID)

	byCategory, err := c.FetchProductsByCategory(ctx, 4)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, 11, byCategory[0].ID)

	brands, err := c.FetchBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, len(defaultBrands))
	brands[0].Name = "mutated"
	assert.Equal(t, "Individual Collection", defaultBrands[0].Name)
}

func TestClient_MalformedAndStatusErrors(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	})
	r.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = c.FetchProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))

	_, err = c.FetchCategories(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedResponse))
	assert.Contains(t, err.Error(), "returned status 500")
}

func TestClient_FetchBrandsHonoursContext(t *testing.T) {
	c, err := NewClient("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.FetchBrands(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProduct_KeyAndThumbnail(t *testing.T) {
	p := Product{ID: 42, Images: []string{"first", "second"}}
	assert.Equal(t, "42", p.Key())
	assert.Equal(t, "first", p.Thumbnail())
	assert.Equal(t, "", Product{}.Thumbnail())
}
