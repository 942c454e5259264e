package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/buzmarkt/storefront/internal/auth"
	"github.com/buzmarkt/storefront/internal/catalog"
)

// Task is the handle of an asynchronous operation. Its terminal action has
// been dispatched by the time Done is closed.
type Task struct {
	done chan struct{}
	err  error
}

// Done is closed once the operation settled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the operation's error. It is only meaningful after Done.
func (t *Task) Err() error { return t.err }

// Wait blocks until the task settles or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runTask dispatches pending on the caller's goroutine, then runs call on a
// new goroutine and dispatches exactly one of fulfilled or rejected.
func runTask[T any](
	ctx context.Context,
	store *Store,
	pending Action,
	call func(context.Context) (T, error),
	fulfilled func(T) Action,
	rejected func(error) Action,
) *Task {
	t := &Task{done: make(chan struct{})}
	store.Dispatch(pending)
	go func() {
		defer close(t.done)
		value, err := call(ctx)
		if err != nil {
			t.err = err
			store.Dispatch(rejected(err))
			return
		}
		store.Dispatch(fulfilled(value))
	}()
	return t
}

// Effects binds the asynchronous operations to a store and its remote
// services.
type Effects struct {
	store     *Store
	catalog   catalog.Fetcher
	auth      auth.Authenticator
	profileID int
}

// NewEffects wires the asynchronous operations. profileID is the account
// whose profile is loaded after a credential exchange.
func NewEffects(store *Store, catalogAPI catalog.Fetcher, authAPI auth.Authenticator, profileID int) *Effects {
	return &Effects{store: store, catalog: catalogAPI, auth: authAPI, profileID: profileID}
}

// Store returns the store the effects dispatch to.
func (e *Effects) Store() *Store { return e.store }

// FetchProducts replaces the product list.
func (e *Effects) FetchProducts(ctx context.Context) *Task {
	return e.fetchProducts(ctx, OpFetchProducts, e.catalog.FetchProducts)
}

// FetchProductsByCategory replaces the product list with one category's
// products.
func (e *Effects) FetchProductsByCategory(ctx context.Context, categoryID int) *Task {
	return e.fetchProducts(ctx, OpFetchProductsByCategory, func(ctx context.Context) ([]catalog.Product, error) {
		return e.catalog.FetchProductsByCategory(ctx, categoryID)
	})
}

func (e *Effects) fetchProducts(ctx context.Context, op CatalogOp, call func(context.Context) ([]catalog.Product, error)) *Task {
	return runTask(ctx, e.store, CatalogPending{Op: op}, call,
		func(products []catalog.Product) Action {
			return ProductsFulfilled{Op: op, Products: products}
		},
		func(err error) Action {
			return CatalogRejected{Op: op, Message: failureMessage(err, msgCatalogFailed)}
		})
}

// FetchCategories replaces the catalog's category list.
func (e *Effects) FetchCategories(ctx context.Context) *Task {
	return runTask(ctx, e.store, CatalogPending{Op: OpFetchCategories}, e.catalog.FetchCategories,
		func(categories []catalog.Category) Action {
			return CategoriesFulfilled{Categories: categories}
		},
		func(err error) Action {
			return CatalogRejected{Op: OpFetchCategories, Message: failureMessage(err, msgCatalogFailed)}
		})
}

// FetchFilterCategories repopulates the category facet.
func (e *Effects) FetchFilterCategories(ctx context.Context) *Task {
	return runTask(ctx, e.store, FilterPending{Source: SourceCategories},
		func(ctx context.Context) ([]FilterOption, error) {
			categories, err := e.catalog.FetchCategories(ctx)
			if err != nil {
				return nil, err
			}
			options := make([]FilterOption, 0, len(categories))
			for _, c := range categories {
				options = append(options, FilterOption{ID: strconv.Itoa(c.ID), Name: c.Name})
			}
			return options, nil
		},
		func(options []FilterOption) Action {
			return FilterFulfilled{Source: SourceCategories, Options: options}
		},
		func(err error) Action {
			return FilterRejected{Source: SourceCategories, Message: failureMessage(err, msgCategoriesFailed)}
		})
}

// FetchBrands repopulates the brand facet.
func (e *Effects) FetchBrands(ctx context.Context) *Task {
	return runTask(ctx, e.store, FilterPending{Source: SourceBrands},
		func(ctx context.Context) ([]FilterOption, error) {
			brands, err := e.catalog.FetchBrands(ctx)
			if err != nil {
				return nil, err
			}
			options := make([]FilterOption, 0, len(brands))
			for _, b := range brands {
				options = append(options, FilterOption{ID: b.ID, Name: b.Name})
			}
			return options, nil
		},
		func(options []FilterOption) Action {
			return FilterFulfilled{Source: SourceBrands, Options: options}
		},
		func(err error) Action {
			return FilterRejected{Source: SourceBrands, Message: failureMessage(err, msgBrandsFailed)}
		})
}

type signIn struct {
	user  auth.User
	token string
}

// LoginUser exchanges credentials and loads the profile. Token and profile
// are committed together; if either call fails nothing is stored.
func (e *Effects) LoginUser(ctx context.Context, creds auth.Credentials) *Task {
	return e.signIn(ctx, OpLogin, msgLoginFailed, creds, e.auth.Login)
}

// RegisterUser creates an account and signs in with the same guarantees as
// LoginUser.
func (e *Effects) RegisterUser(ctx context.Context, creds auth.Credentials) *Task {
	return e.signIn(ctx, OpRegister, msgRegisterFailed, creds, e.auth.Register)
}

func (e *Effects) signIn(
	ctx context.Context,
	op AuthOp,
	fallback string,
	creds auth.Credentials,
	exchange func(context.Context, auth.Credentials) (auth.Session, error),
) *Task {
	return runTask(ctx, e.store, AuthPending{Op: op},
		func(ctx context.Context) (signIn, error) {
			session, err := exchange(ctx, creds)
			if err != nil {
				return signIn{}, err
			}
			user, err := e.auth.FetchUser(ctx, e.profileID)
			if err != nil {
				return signIn{}, fmt.Errorf("fetch profile: %w", err)
			}
			return signIn{user: user, token: session.Token}, nil
		},
		func(result signIn) Action {
			return AuthFulfilled{Op: op, User: result.user, Token: result.token}
		},
		func(err error) Action {
			return AuthRejected{Op: op, Message: authFailureMessage(err, fallback)}
		})
}
