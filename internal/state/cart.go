package state

// LineItem is one product in the cart.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// Subtotal is price times quantity.
func (i LineItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartState holds at most one line item per product id, in insertion order.
type CartState struct {
	Items []LineItem `json:"items"`
}

// Total sums price times quantity over every line item.
func (c CartState) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Count sums the quantities.
func (c CartState) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Find returns the line item with id.
func (c CartState) Find(id string) (LineItem, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

func (c CartState) index(id string) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// reduceCart never writes to s.Items; every change builds a new slice.
func reduceCart(s CartState, a CartAction) CartState {
	switch a := a.(type) {
	case AddToCart:
		item := a.Item
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if i := s.index(item.ID); i >= 0 {
			items := cloneItems(s.Items)
			items[i].Quantity += item.Quantity
			return CartState{Items: items}
		}
		items := make([]LineItem, len(s.Items), len(s.Items)+1)
		copy(items, s.Items)
		return CartState{Items: append(items, item)}

	case UpdateQuantity:
		i := s.index(a.ID)
		if i < 0 {
			return s
		}
		if a.Quantity < 1 {
			return CartState{Items: removeItemAt(s.Items, i)}
		}
		items := cloneItems(s.Items)
		items[i].Quantity = a.Quantity
		return CartState{Items: items}

	case RemoveFromCart:
		i := s.index(a.ID)
		if i < 0 {
			return s
		}
		return CartState{Items: removeItemAt(s.Items, i)}

	case ClearCart, CheckoutCart:
		return CartState{}
	}
	return s
}

func cloneItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	dup := make([]LineItem, len(items))
	copy(dup, items)
	return dup
}

func removeItemAt(items []LineItem, i int) []LineItem {
	if len(items) == 1 {
		return nil
	}
	out := make([]LineItem, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
