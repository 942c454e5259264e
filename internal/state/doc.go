// Package state provides the storefront's client-side state core.
//
// # Overview
//
// The package holds five slices (cart, favourites, filter, product catalog,
// auth) under one RootState and mutates them only through reducers. It is
// the coordination point between remote fetches, persistence and whatever
// consumer renders the data.
//
// # Architecture
//
//	Consumer                 Store                         Listeners
//	┌──────────────┐        ┌────────────────────────┐    ┌──────────────┐
//	│ Dispatch(a)  │───────→│ middleware chain       │    │ persist      │
//	│              │        │   ↓                    │    │ gateway      │
//	│ Effects.X()  │──┐     │ reduce: route by       │───→│ metrics      │
//	│              │  │     │ namespace to one slice │    │ consumers    │
//	│ State()      │←─┼─────│ commit new snapshot    │    └──────────────┘
//	└──────────────┘  │     └────────────────────────┘
//	                  │ pending (sync), then fulfilled|rejected (goroutine)
//	                  └──────────────→ Dispatch
//
// # Actions
//
// Action is a closed set: every action embeds an unexported namespace
// marker, so only this package can declare new ones. The root reducer
// type-switches on the namespace interfaces (CartAction, FavouriteAction,
// ProductsAction, FilterAction, AuthAction) and each slice reducer
// type-switches on its concrete actions. Rehydrate and PersistControl belong
// to the persist namespace; PersistControl never reaches a slice reducer.
//
// # Asynchronous Operations
//
// Effects methods (FetchProducts, FetchCategories, FetchProductsByCategory,
// FetchFilterCategories, FetchBrands, LoginUser, RegisterUser) dispatch
// their pending action before returning and hand back a *Task. The remote
// call runs on its own goroutine and dispatches exactly one fulfilled or
// rejected action. Two overlapping tasks on the same slice settle in
// completion order; the later one wins.
//
// Lifecycle semantics:
//
//	pending   → Loading = true,  Error = ""
//	fulfilled → Loading = false, data replaced wholesale
//	rejected  → Loading = false, Error = message (or a generic fallback)
//
// The filter slice shares one Lifecycle between its two sources and keeps
// Loading true until both in-flight fetches settle.
//
// # Concurrency Model
//
// Dispatch is serialized by a mutex, so reducers never interleave. Each
// committed pass stores a fresh RootState and bumps Revision; nothing is
// mutated after commit. State() returns a defensive copy. Listeners receive
// the committed snapshot by value and run under the dispatch lock, so they
// must not call Dispatch themselves.
//
// # Persistence
//
// RootState.Persisted extracts the whitelisted slices (cart, favourite,
// auth). Rehydrate swaps them back in after PersistedState.Normalize has
// repaired duplicate ids, non-positive quantities and half-written auth.
//
// # Usage Example
//
//	store := state.New(state.WithLogger(logger))
//	effects := state.NewEffects(store, catalogClient, authClient, 4)
//
//	store.Dispatch(state.AddToCart{Item: state.LineItem{ID: "1", Price: 10, Quantity: 1}})
//	if err := effects.FetchProducts(ctx).Wait(ctx); err != nil {
//		// store.State().Products.Error holds the display message
//	}
//	total := store.State().Cart.Total()
package state
