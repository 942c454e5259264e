package state

import (
	"slices"
	"sync"

	"go.uber.org/zap"
)

// RootState is one immutable snapshot of every slice. Revision increases
// with each committed reducer pass, so two snapshots with the same Revision
// are equal.
type RootState struct {
	Cart      CartState      `json:"cart"`
	Favourite FavouriteState `json:"favourite"`
	Products  ProductsState  `json:"products"`
	Filter    FilterState    `json:"filter"`
	Auth      AuthState      `json:"auth"`
	Revision  uint64         `json:"-"`
}

// PersistedState is the whitelisted subset mirrored to durable storage.
type PersistedState struct {
	Cart      CartState      `json:"cart"`
	Favourite FavouriteState `json:"favourite"`
	Auth      AuthState      `json:"auth"`
}

// Persisted extracts the whitelisted slices.
func (r RootState) Persisted() PersistedState {
	return PersistedState{Cart: r.Cart, Favourite: r.Favourite, Auth: r.Auth}
}

// Normalize repairs a decoded blob so it satisfies the slice invariants:
// unique ids, positive quantities, no in-flight auth request.
func (p PersistedState) Normalize() PersistedState {
	var cart []LineItem
	seen := make(map[string]int)
	for _, item := range p.Cart.Items {
		if item.Quantity < 1 {
			continue
		}
		if i, ok := seen[item.ID]; ok {
			cart[i].Quantity += item.Quantity
			continue
		}
		seen[item.ID] = len(cart)
		cart = append(cart, item)
	}
	p.Cart = CartState{Items: cart}

	var favourites []FavouriteItem
	saved := make(map[string]bool)
	for _, item := range p.Favourite.Items {
		if saved[item.ID] {
			continue
		}
		saved[item.ID] = true
		favourites = append(favourites, item)
	}
	p.Favourite = FavouriteState{Items: favourites}

	p.Auth.Loading = false
	if p.Auth.User == nil || p.Auth.Token == "" {
		p.Auth.User = nil
		p.Auth.Token = ""
	} else {
		user := *p.Auth.User
		p.Auth.User = &user
	}
	return p
}

// Listener observes every dispatched action together with the state it
// produced. Listeners run while the dispatch lock is held and must not call
// Dispatch.
type Listener func(RootState, Action)

// DispatchFunc hands an action to the next dispatch stage.
type DispatchFunc func(Action)

// Middleware wraps the dispatch chain.
type Middleware func(next DispatchFunc) DispatchFunc

// Option configures a Store.
type Option func(*Store)

// WithMiddleware appends dispatch middleware. The first one added is the
// outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Store) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithLogger logs every action at debug level and rejected operations at
// warn level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.middleware = append(s.middleware, loggingMiddleware(logger))
		}
	}
}

// Store is the root state container. The zero value is not usable; call
// New.
type Store struct {
	dispatchMu sync.Mutex

	mu    sync.RWMutex
	state RootState

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int

	middleware []Middleware
	dispatch   DispatchFunc
}

// New builds an empty store.
func New(opts ...Option) *Store {
	s := &Store{listeners: make(map[int]Listener)}
	for _, opt := range opts {
		opt(s)
	}
	chain := DispatchFunc(s.commit)
	for i := len(s.middleware) - 1; i >= 0; i-- {
		chain = s.middleware[i](chain)
	}
	s.dispatch = chain
	return s
}

// Dispatch runs a through the middleware chain and the owning reducer, then
// notifies listeners. Dispatches are serialized.
func (s *Store) Dispatch(a Action) {
	if a == nil {
		return
	}
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.dispatch(a)
}

// DispatchFrom calls build with the current state and dispatches the action
// it returns, holding the dispatch lock across both so no other action lands
// in between. A nil action dispatches nothing. It returns the state build
// saw. build must not call Dispatch.
func (s *Store) DispatchFrom(build func(RootState) Action) RootState {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	current := s.State()
	if a := build(current); a != nil {
		s.dispatch(a)
	}
	return current
}

// State returns a copy of the current snapshot that callers may modify.
func (s *Store) State() RootState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Store) commit(a Action) {
	s.mu.Lock()
	next, changed := reduce(s.state, a)
	if changed {
		next.Revision = s.state.Revision + 1
		s.state = next
	}
	snapshot := s.state
	s.mu.Unlock()

	s.listenersMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(snapshot, a)
	}
}

// reduce routes a to the reducer of its namespace. Persistence control
// signals leave the state untouched.
func reduce(s RootState, a Action) (RootState, bool) {
	switch a := a.(type) {
	case CartAction:
		s.Cart = reduceCart(s.Cart, a)
	case FavouriteAction:
		s.Favourite = reduceFavourite(s.Favourite, a)
	case ProductsAction:
		s.Products = reduceProducts(s.Products, a)
	case FilterAction:
		s.Filter = reduceFilter(s.Filter, a)
	case AuthAction:
		s.Auth = reduceAuth(s.Auth, a)
	case Rehydrate:
		p := a.State.Normalize()
		s.Cart = p.Cart
		s.Favourite = p.Favourite
		s.Auth = p.Auth
	default:
		return s, false
	}
	return s, true
}

func (r RootState) clone() RootState {
	out := r
	out.Cart.Items = cloneItems(r.Cart.Items)
	if r.Favourite.Items != nil {
		out.Favourite.Items = append([]FavouriteItem(nil), r.Favourite.Items...)
	}
	out.Products.Products = cloneProducts(r.Products.Products)
	out.Products.Categories = cloneCategories(r.Products.Categories)
	if r.Products.SelectedCategory != nil {
		selected := *r.Products.SelectedCategory
		out.Products.SelectedCategory = &selected
	}
	if r.Filter.Categories != nil {
		out.Filter.Categories = append([]FilterOption(nil), r.Filter.Categories...)
	}
	if r.Filter.Brands != nil {
		out.Filter.Brands = append([]FilterOption(nil), r.Filter.Brands...)
	}
	if r.Auth.User != nil {
		user := *r.Auth.User
		out.Auth.User = &user
	}
	return out
}
