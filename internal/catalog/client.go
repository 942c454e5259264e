package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/buzmarkt/storefront/internal/remote"
)

// DefaultBaseURL is the public demo catalog.
const DefaultBaseURL = "https://api.escuelajs.co/api/v1"

// ErrMalformedResponse is returned when a payload cannot be decoded.
var ErrMalformedResponse = remote.ErrMalformedResponse

// Fetcher defines the read-only catalog operations. It is implemented by
// *Client and can be faked in tests.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchCategories(ctx context.Context) ([]Category, error)
	FetchProductsByCategory(ctx context.Context, categoryID int) ([]Product, error)
	FetchBrands(ctx context.Context) ([]Brand, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the remote catalog API.
type Client struct {
	api *remote.Client
}

// NewClient builds a Client for baseURL, falling back to DefaultBaseURL.
func NewClient(baseURL string, opts ...remote.Option) (*Client, error) {
	api, err := remote.New(baseURL, DefaultBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	return &Client{api: api}, nil
}

// FetchProducts retrieves the full product list.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Product
	if err := c.api.Get(ctx, "/products", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchCategories retrieves every category.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Category
	if err := c.api.Get(ctx, "/categories", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchProductsByCategory retrieves the products of one category.
func (c *Client) FetchProductsByCategory(ctx context.Context, categoryID int) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Product
	path := "/categories/" + strconv.Itoa(categoryID) + "/products"
	if err := c.api.Get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchBrands returns the built-in brand list. It honours ctx so callers
// can treat it like the other fetches.
func (c *Client) FetchBrands(ctx context.Context) ([]Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Brand, len(defaultBrands))
	copy(out, defaultBrands)
	return out, nil
}
