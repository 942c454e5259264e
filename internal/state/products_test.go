package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buzmarkt/storefront/internal/auth"
	"github.com/buzmarkt/storefront/internal/catalog"
)

func TestProducts_SelectCategoryCopiesValue(t *testing.T) {
	c := &catalog.Category{ID: 1, Name: "Clothes"}
	s := reduceProducts(ProductsState{}, SelectCategory{Category: c})
	c.Name = "mutated"

	require.NotNil(t, s.SelectedCategory)
	assert.Equal(t, "Clothes", s.SelectedCategory.Name)

	s = reduceProducts(s, SelectCategory{})
	assert.Nil(t, s.SelectedCategory)
}

func TestProducts_FulfilledReplacesWholesale(t *testing.T) {
	s := ProductsState{Products: sampleProducts}
	s = reduceProducts(s, CatalogPending{Op: OpFetchProductsByCategory})
	s = reduceProducts(s, ProductsFulfilled{Op: OpFetchProductsByCategory})

	assert.Empty(t, s.Products)
	assert.False(t, s.Loading)
}

func TestProducts_FindProduct(t *testing.T) {
	s := ProductsState{Products: sampleProducts}

	p, ok := s.FindProduct("2")
	require.True(t, ok)
	assert.Equal(t, "Runner", p.Title)

	_, ok = s.FindProduct("3")
	assert.False(t, ok)
}

func TestAuth_LogoutAndClearError(t *testing.T) {
	s := reduceAuth(AuthState{}, AuthFulfilled{Op: OpLogin, User: auth.User{ID: 1}, Token: "t"})
	require.True(t, s.Authenticated())

	s = reduceAuth(s, AuthRejected{Op: OpLogin, Message: "nope"})
	assert.True(t, s.Authenticated(), "a failed retry keeps the existing session")
	assert.Equal(t, "nope", s.Error)

	cleared := reduceAuth(s, ClearAuthError{})
	assert.Empty(t, cleared.Error)
	assert.True(t, cleared.Authenticated())

	out := reduceAuth(s, Logout{})
	assert.Nil(t, out.User)
	assert.Empty(t, out.Token)
	assert.Empty(t, out.Error)
}

func TestSelectors(t *testing.T) {
	item := LineItemFromProduct(sampleProducts[0], 2)
	assert.Equal(t, LineItem{ID: "1", Name: "Classic Tee", Price: 20, Quantity: 2, Image: "tee.png"}, item)

	fav := FavouriteFromProduct(sampleProducts[1])
	assert.Equal(t, FavouriteItem{ID: "2", Name: "Runner", Price: 80}, fav)

	assert.Len(t, SearchProducts(sampleProducts, "", nil), 2)
	assert.Equal(t, sampleProducts[:1], SearchProducts(sampleProducts, "  TEE ", nil))
	assert.Equal(t, sampleProducts[1:], SearchProducts(sampleProducts, "", []string{"2"}))
	assert.Empty(t, SearchProducts(sampleProducts, "tee", []string{"2"}))
}

func TestActionTypes(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{AddToCart{}, "cart/addToCart"},
		{CheckoutCart{}, "cart/checkout"},
		{ToggleFavourite{}, "favourite/toggleFavourite"},
		{CatalogPending{Op: OpFetchProducts}, "products/fetchProducts/pending"},
		{CategoriesFulfilled{}, "products/fetchCategories/fulfilled"},
		{FilterRejected{Source: SourceBrands}, "filter/fetchBrands/rejected"},
		{AuthFulfilled{Op: OpRegister}, "auth/register/fulfilled"},
		{PersistControl{Kind: PersistResume}, "persist/PERSIST"},
		{Rehydrate{}, "persist/REHYDRATE"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.action.Type())
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "pending", PhasePending.String())
	assert.Equal(t, "rejected", PhaseRejected.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())

	assert.Equal(t, "FLUSH", PersistFlush.String())
	assert.Equal(t, "PERSIST", PersistResume.String())
	assert.Equal(t, "REGISTER", PersistRegister.String())
	assert.Equal(t, "PersistKind(-1)", PersistKind(-1).String())
}
