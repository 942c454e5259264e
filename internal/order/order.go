// Package order turns the current cart into a receipt.
package order

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/buzmarkt/storefront/internal/state"
)

// ErrEmptyCart is returned by Place when there is nothing to check out.
var ErrEmptyCart = errors.New("cart is empty")

// Receipt is the record of a placed order.
type Receipt struct {
	ID       uuid.UUID        `json:"id"`
	Items    []state.LineItem `json:"items"`
	Total    float64          `json:"total"`
	PlacedAt time.Time        `json:"placedAt"`
}

// Count sums the quantities on the receipt.
func (r Receipt) Count() int {
	return state.CartState{Items: r.Items}.Count()
}

// Place turns the cart into a receipt and empties it in a single dispatch,
// so items added concurrently land either on the receipt or in the next
// cart. now is injectable for tests; nil uses time.Now.
func Place(store *state.Store, now func() time.Time) (Receipt, error) {
	if now == nil {
		now = time.Now
	}
	cart := store.DispatchFrom(func(st state.RootState) state.Action {
		if len(st.Cart.Items) == 0 {
			return nil
		}
		return state.CheckoutCart{}
	}).Cart
	if len(cart.Items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	return Receipt{
		ID:       uuid.New(),
		Items:    cart.Items,
		Total:    cart.Total(),
		PlacedAt: now().UTC(),
	}, nil
}
