// Package catalog provides an HTTP client for the remote product catalog.
//
// # Overview
//
// The catalog is a read-only demo API (api.escuelajs.co by default). The
// client fetches products and categories and hands them to the state core,
// which keeps read-only copies. No pagination, caching or retry happens here;
// a failed fetch is simply returned to the caller.
//
// # API Endpoints
//
//   - GET /products: every product
//   - GET /categories: every category
//   - GET /categories/{id}/products: products of one category
//
// Brands are not served by the catalog. FetchBrands returns a fixed list so
// the filter store can treat both facets the same way.
//
// # Error Handling
//
//   - Transport failures and non-2xx statuses are returned wrapped
//     (see remote.StatusError)
//   - Undecodable bodies wrap ErrMalformedResponse so callers can substitute
//     a generic message
//
// # Usage Example
//
//	client, err := catalog.NewClient("")
//	if err != nil {
//		return err
//	}
//	products, err := client.FetchProducts(ctx)
package catalog
