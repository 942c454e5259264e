package state

import (
	"github.com/buzmarkt/storefront/internal/auth"
	"github.com/buzmarkt/storefront/internal/catalog"
)

// Namespace names the slice of the root state an action belongs to.
type Namespace string

const (
	NamespaceCart      Namespace = "cart"
	NamespaceFavourite Namespace = "favourite"
	NamespaceProducts  Namespace = "products"
	NamespaceFilter    Namespace = "filter"
	NamespaceAuth      Namespace = "auth"
	NamespacePersist   Namespace = "persist"
)

// Action is a state transition request. The set of actions is closed: only
// types declared in this package satisfy it.
type Action interface {
	Namespace() Namespace
	Type() string
	action()
}

//go:generate go tool stringer -type=Phase -linecomment -output=phase_string.go

// Phase is the stage of an asynchronous operation.
type Phase int

const (
	PhasePending   Phase = iota // pending
	PhaseFulfilled              // fulfilled
	PhaseRejected               // rejected
)

// AsyncAction is implemented by the lifecycle actions emitted by tasks.
type AsyncAction interface {
	Action
	Operation() string
	Phase() Phase
}

// Per-namespace markers. Embedding one of these is what admits a type to a
// namespace's reducer.

type cartMsg struct{}

func (cartMsg) Namespace() Namespace { return NamespaceCart }
func (cartMsg) action()              {}
func (cartMsg) cartAction()          {}

type favouriteMsg struct{}

func (favouriteMsg) Namespace() Namespace { return NamespaceFavourite }
func (favouriteMsg) action()              {}
func (favouriteMsg) favouriteAction()     {}

type productsMsg struct{}

func (productsMsg) Namespace() Namespace { return NamespaceProducts }
func (productsMsg) action()              {}
func (productsMsg) productsAction()      {}

type filterMsg struct{}

func (filterMsg) Namespace() Namespace { return NamespaceFilter }
func (filterMsg) action()              {}
func (filterMsg) filterAction()        {}

type authMsg struct{}

func (authMsg) Namespace() Namespace { return NamespaceAuth }
func (authMsg) action()              {}
func (authMsg) authAction()          {}

type persistMsg struct{}

func (persistMsg) Namespace() Namespace { return NamespacePersist }
func (persistMsg) action()              {}

// CartAction is routed to the cart reducer.
type CartAction interface {
	Action
	cartAction()
}

// FavouriteAction is routed to the favourites reducer.
type FavouriteAction interface {
	Action
	favouriteAction()
}

// ProductsAction is routed to the product catalog reducer.
type ProductsAction interface {
	Action
	productsAction()
}

// FilterAction is routed to the filter reducer.
type FilterAction interface {
	Action
	filterAction()
}

// AuthAction is routed to the auth reducer.
type AuthAction interface {
	Action
	authAction()
}

// Cart

// AddToCart merges Item into the cart.
type AddToCart struct {
	cartMsg
	Item LineItem
}

func (AddToCart) Type() string { return "cart/addToCart" }

// UpdateQuantity sets the quantity of an existing line item.
type UpdateQuantity struct {
	cartMsg
	ID       string
	Quantity int
}

func (UpdateQuantity) Type() string { return "cart/updateQuantity" }

// RemoveFromCart deletes a line item.
type RemoveFromCart struct {
	cartMsg
	ID string
}

func (RemoveFromCart) Type() string { return "cart/removeFromCart" }

// ClearCart empties the cart.
type ClearCart struct{ cartMsg }

func (ClearCart) Type() string { return "cart/clearCart" }

// CheckoutCart empties the cart after its items were turned into an order.
type CheckoutCart struct{ cartMsg }

func (CheckoutCart) Type() string { return "cart/checkout" }

// Favourites

// AddToFavourites saves Item unless it is already saved.
type AddToFavourites struct {
	favouriteMsg
	Item FavouriteItem
}

func (AddToFavourites) Type() string { return "favourite/addToFavourites" }

// RemoveFromFavourites deletes a saved item.
type RemoveFromFavourites struct {
	favouriteMsg
	ID string
}

func (RemoveFromFavourites) Type() string { return "favourite/removeFromFavourites" }

// ToggleFavourite saves Item when absent and removes it when present.
type ToggleFavourite struct {
	favouriteMsg
	Item FavouriteItem
}

func (ToggleFavourite) Type() string { return "favourite/toggleFavourite" }

// ClearFavourites empties the favourites.
type ClearFavourites struct{ favouriteMsg }

func (ClearFavourites) Type() string { return "favourite/clearFavourites" }

// Product catalog

// CatalogOp identifies a catalog fetch.
type CatalogOp string

const (
	OpFetchProducts           CatalogOp = "products/fetchProducts"
	OpFetchCategories         CatalogOp = "products/fetchCategories"
	OpFetchProductsByCategory CatalogOp = "products/fetchProductsByCategory"
)

// CatalogPending marks the start of a catalog fetch.
type CatalogPending struct {
	productsMsg
	Op CatalogOp
}

func (a CatalogPending) Type() string      { return string(a.Op) + "/pending" }
func (a CatalogPending) Operation() string { return string(a.Op) }
func (CatalogPending) Phase() Phase        { return PhasePending }

// ProductsFulfilled carries the product list of a completed fetch.
type ProductsFulfilled struct {
	productsMsg
	Op       CatalogOp
	Products []catalog.Product
}

func (a ProductsFulfilled) Type() string      { return string(a.Op) + "/fulfilled" }
func (a ProductsFulfilled) Operation() string { return string(a.Op) }
func (ProductsFulfilled) Phase() Phase        { return PhaseFulfilled }

// CategoriesFulfilled carries the category list of a completed fetch.
type CategoriesFulfilled struct {
	productsMsg
	Categories []catalog.Category
}

func (CategoriesFulfilled) Type() string      { return string(OpFetchCategories) + "/fulfilled" }
func (CategoriesFulfilled) Operation() string { return string(OpFetchCategories) }
func (CategoriesFulfilled) Phase() Phase      { return PhaseFulfilled }

// CatalogRejected reports a failed catalog fetch.
type CatalogRejected struct {
	productsMsg
	Op      CatalogOp
	Message string
}

func (a CatalogRejected) Type() string      { return string(a.Op) + "/rejected" }
func (a CatalogRejected) Operation() string { return string(a.Op) }
func (CatalogRejected) Phase() Phase        { return PhaseRejected }

// SelectCategory sets or clears (nil) the selected category.
type SelectCategory struct {
	productsMsg
	Category *catalog.Category
}

func (SelectCategory) Type() string { return "products/setSelectedCategory" }

// Filters

// FilterSource identifies which option list a filter fetch populates.
type FilterSource string

const (
	SourceCategories FilterSource = "filter/fetchCategories"
	SourceBrands     FilterSource = "filter/fetchBrands"
)

// FilterPending marks the start of a filter fetch.
type FilterPending struct {
	filterMsg
	Source FilterSource
}

func (a FilterPending) Type() string      { return string(a.Source) + "/pending" }
func (a FilterPending) Operation() string { return string(a.Source) }
func (FilterPending) Phase() Phase        { return PhasePending }

// FilterFulfilled replaces one option list.
type FilterFulfilled struct {
	filterMsg
	Source  FilterSource
	Options []FilterOption
}

func (a FilterFulfilled) Type() string      { return string(a.Source) + "/fulfilled" }
func (a FilterFulfilled) Operation() string { return string(a.Source) }
func (FilterFulfilled) Phase() Phase        { return PhaseFulfilled }

// FilterRejected reports a failed filter fetch.
type FilterRejected struct {
	filterMsg
	Source  FilterSource
	Message string
}

func (a FilterRejected) Type() string      { return string(a.Source) + "/rejected" }
func (a FilterRejected) Operation() string { return string(a.Source) }
func (FilterRejected) Phase() Phase        { return PhaseRejected }

// ToggleCategory flips a category option.
type ToggleCategory struct {
	filterMsg
	ID string
}

func (ToggleCategory) Type() string { return "filter/toggleCategory" }

// ToggleBrand flips a brand option.
type ToggleBrand struct {
	filterMsg
	ID string
}

func (ToggleBrand) Type() string { return "filter/toggleBrand" }

// ResetFilters deselects every option.
type ResetFilters struct{ filterMsg }

func (ResetFilters) Type() string { return "filter/resetFilters" }

// Auth

// AuthOp identifies a credential exchange.
type AuthOp string

const (
	OpLogin    AuthOp = "auth/login"
	OpRegister AuthOp = "auth/register"
)

// AuthPending marks the start of a credential exchange.
type AuthPending struct {
	authMsg
	Op AuthOp
}

func (a AuthPending) Type() string      { return string(a.Op) + "/pending" }
func (a AuthPending) Operation() string { return string(a.Op) }
func (AuthPending) Phase() Phase        { return PhasePending }

// AuthFulfilled commits token and profile together.
type AuthFulfilled struct {
	authMsg
	Op    AuthOp
	User  auth.User
	Token string
}

func (a AuthFulfilled) Type() string      { return string(a.Op) + "/fulfilled" }
func (a AuthFulfilled) Operation() string { return string(a.Op) }
func (AuthFulfilled) Phase() Phase        { return PhaseFulfilled }

// AuthRejected reports a failed credential exchange.
type AuthRejected struct {
	authMsg
	Op      AuthOp
	Message string
}

func (a AuthRejected) Type() string      { return string(a.Op) + "/rejected" }
func (a AuthRejected) Operation() string { return string(a.Op) }
func (AuthRejected) Phase() Phase        { return PhaseRejected }

// Logout forgets the signed-in user.
type Logout struct{ authMsg }

func (Logout) Type() string { return "auth/logout" }

// ClearAuthError drops the last auth error.
type ClearAuthError struct{ authMsg }

func (ClearAuthError) Type() string { return "auth/clearError" }

// Persistence coordination. No slice reducer handles these.

//go:generate go tool stringer -type=PersistKind -linecomment -output=persistkind_string.go

// PersistKind enumerates the persistence control signals.
type PersistKind int

const (
	PersistFlush    PersistKind = iota // FLUSH
	PersistPause                       // PAUSE
	PersistResume                      // PERSIST
	PersistPurge                       // PURGE
	PersistRegister                    // REGISTER
)

// PersistControl is a signal for the persistence gateway.
type PersistControl struct {
	persistMsg
	Kind PersistKind
}

func (a PersistControl) Type() string { return "persist/" + a.Kind.String() }

// Rehydrate replaces the persisted slices with State.
type Rehydrate struct {
	persistMsg
	State PersistedState
}

func (Rehydrate) Type() string { return "persist/REHYDRATE" }
