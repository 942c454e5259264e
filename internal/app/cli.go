package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/buzmarkt/storefront/internal/auth"
	"github.com/buzmarkt/storefront/internal/catalog"
	"github.com/buzmarkt/storefront/internal/order"
	"github.com/buzmarkt/storefront/internal/state"
)

// ErrUsage reports an unknown command or malformed arguments.
var ErrUsage = errors.New("usage")

type command struct {
	name    string
	args    string
	summary string
	run     func(ctx context.Context, e *Env, out *output, args []string) error
}

func commandTable() []command {
	return []command{
		{"products", "[-category ID] [-q TEXT]", "list products", runProducts},
		{"categories", "", "list categories", runCategories},
		{"filters", "[-category IDS] [-brand IDS]", "show filter facets and matching products", runFilters},
		{"cart", "[add ID [QTY] | set ID QTY | rm ID | clear]", "show or change the cart", runCart},
		{"fav", "[add ID | rm ID | toggle ID | clear]", "show or change favourites", runFavourites},
		{"login", "EMAIL PASSWORD", "sign in", runSignIn(false)},
		{"register", "EMAIL PASSWORD", "create an account and sign in", runSignIn(true)},
		{"logout", "", "sign out", runLogout},
		{"whoami", "", "show the signed-in user", runWhoami},
		{"checkout", "", "place an order for the cart", runCheckout},
		{"state", "", "dump the full state tree", runState},
		{"purge", "", "delete persisted state", runPurge},
		{"watch", "", "refresh products periodically and serve /metrics", runWatch},
	}
}

// Exec runs one command with args, writing its output to w.
func (e *Env) Exec(ctx context.Context, w io.Writer, args []string) error {
	out := newOutput(w)
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		out.usage()
		return nil
	}
	for _, c := range commandTable() {
		if c.name == args[0] {
			e.Logger.Debug("run command", zap.String("command", c.name))
			return c.run(ctx, e, out, args[1:])
		}
	}
	out.usage()
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}

type output struct {
	w  io.Writer
	st styles
}

func newOutput(w io.Writer) *output {
	return &output{w: w, st: newStyles(w)}
}

func (o *output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *output) heading(text string) {
	o.printf("%s\n", o.st.Heading.Render(text))
}

func (o *output) usage() {
	o.heading("storefront <command> [args]")
	for _, c := range commandTable() {
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		o.printf("  %-52s %s\n", usage, o.st.Muted.Render(c.summary))
	}
}

func formatPrice(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// settle waits for task and maps a failure to the message the slice
// recorded.
func settle(ctx context.Context, task *state.Task, lifecycle func(state.RootState) state.Lifecycle, store *state.Store) error {
	if err := task.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		if msg := lifecycle(store.State()).Error; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

func productsLifecycle(st state.RootState) state.Lifecycle { return st.Products.Lifecycle }
func filterLifecycle(st state.RootState) state.Lifecycle   { return st.Filter.Lifecycle }
func authLifecycle(st state.RootState) state.Lifecycle     { return st.Auth.Lifecycle }

func newFlagSet(name string, out *output) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out.w)
	return fs
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func runProducts(ctx context.Context, e *Env, out *output, args []string) error {
	fs := newFlagSet("products", out)
	categoryID := fs.Int("category", 0, "only list products of this category id")
	query := fs.String("q", "", "case-insensitive title search")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var task *state.Task
	if *categoryID > 0 {
		task = e.Effects.FetchProductsByCategory(ctx, *categoryID)
	} else {
		task = e.Effects.FetchProducts(ctx)
	}
	if err := settle(ctx, task, productsLifecycle, e.Store); err != nil {
		return err
	}

	st := e.Store.State()
	if *categoryID > 0 {
		category := resolveCategory(st.Products, *categoryID)
		e.Store.Dispatch(state.SelectCategory{Category: category})
		if category != nil {
			out.heading("Products in " + category.Name)
		} else {
			out.heading(fmt.Sprintf("Products in category %d", *categoryID))
		}
	} else {
		out.heading("Products")
	}
	out.productList(state.SearchProducts(st.Products.Products, *query, nil), st)
	return nil
}

// resolveCategory looks id up in the loaded categories, then in the
// categories embedded in the loaded products. It returns nil when neither
// knows it.
func resolveCategory(p state.ProductsState, id int) *catalog.Category {
	for _, c := range p.Categories {
		if c.ID == id {
			return &c
		}
	}
	for _, product := range p.Products {
		if product.Category.ID == id {
			category := product.Category
			return &category
		}
	}
	return nil
}

func (o *output) productList(products []catalog.Product, st state.RootState) {
	if len(products) == 0 {
		o.printf("%s\n", o.st.Muted.Render("no products"))
		return
	}
	for _, p := range products {
		marks := ""
		if st.Favourite.Contains(p.Key()) {
			marks += " " + o.st.Accent.Render("*")
		}
		if item, ok := st.Cart.Find(p.Key()); ok {
			marks += " " + o.st.Muted.Render(fmt.Sprintf("(%d in cart)", item.Quantity))
		}
		o.printf("  %5s  %-40s %10s%s\n", p.Key(), p.Title, o.st.Price.Render(formatPrice(p.Price)), marks)
	}
}

func runCategories(ctx context.Context, e *Env, out *output, _ []string) error {
	if err := settle(ctx, e.Effects.FetchCategories(ctx), productsLifecycle, e.Store); err != nil {
		return err
	}
	out.heading("Categories")
	for _, c := range e.Store.State().Products.Categories {
		out.printf("  %5d  %s\n", c.ID, c.Name)
	}
	return nil
}

func runFilters(ctx context.Context, e *Env, out *output, args []string) error {
	fs := newFlagSet("filters", out)
	categories := fs.String("category", "", "comma separated category ids to select")
	brands := fs.String("brand", "", "comma separated brand ids to select")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	categoryTask := e.Effects.FetchFilterCategories(ctx)
	brandTask := e.Effects.FetchBrands(ctx)
	categoryErr := settle(ctx, categoryTask, filterLifecycle, e.Store)
	brandErr := settle(ctx, brandTask, filterLifecycle, e.Store)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	for _, err := range []error{categoryErr, brandErr} {
		if err != nil {
			out.printf("%s\n", out.st.Warning.Render(err.Error()))
		}
	}

	for _, id := range splitIDs(*categories) {
		e.Store.Dispatch(state.ToggleCategory{ID: id})
	}
	for _, id := range splitIDs(*brands) {
		e.Store.Dispatch(state.ToggleBrand{ID: id})
	}

	filter := e.Store.State().Filter
	out.facet("Categories", filter.Categories)
	out.facet("Brands", filter.Brands)

	selected := filter.SelectedCategories()
	if len(selected) == 0 {
		return nil
	}
	if err := settle(ctx, e.Effects.FetchProducts(ctx), productsLifecycle, e.Store); err != nil {
		return err
	}
	st := e.Store.State()
	out.heading("Matching products")
	out.productList(state.SearchProducts(st.Products.Products, "", selected), st)
	return nil
}

func (o *output) facet(title string, options []state.FilterOption) {
	o.heading(title)
	if len(options) == 0 {
		o.printf("%s\n", o.st.Muted.Render("  none"))
		return
	}
	for _, opt := range options {
		box := "[ ]"
		if opt.IsSelected {
			box = o.st.Accent.Render("[x]")
		}
		o.printf("  %s %5s  %s\n", box, opt.ID, opt.Name)
	}
}

// lookupProduct resolves id against the loaded catalog, fetching it first
// when needed.
func lookupProduct(ctx context.Context, e *Env, id string) (catalog.Product, error) {
	if p, ok := e.Store.State().Products.FindProduct(id); ok {
		return p, nil
	}
	if err := settle(ctx, e.Effects.FetchProducts(ctx), productsLifecycle, e.Store); err != nil {
		return catalog.Product{}, err
	}
	if p, ok := e.Store.State().Products.FindProduct(id); ok {
		return p, nil
	}
	return catalog.Product{}, fmt.Errorf("product %s not found", id)
}

func parseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not a number", ErrUsage, raw)
	}
	return qty, nil
}

func runCart(ctx context.Context, e *Env, out *output, args []string) error {
	if len(args) > 0 {
		if err := changeCart(ctx, e, args); err != nil {
			return err
		}
	}
	cart := e.Store.State().Cart
	out.heading("Cart")
	if len(cart.Items) == 0 {
		out.printf("%s\n", out.st.Muted.Render("  empty"))
		return nil
	}
	for _, item := range cart.Items {
		out.printf("  %5s  %-36s %3d x %10s = %s\n",
			item.ID, item.Name, item.Quantity, formatPrice(item.Price), out.st.Price.Render(formatPrice(item.Subtotal())))
	}
	out.printf("  %d items, total %s\n", cart.Count(), out.st.Price.Render(formatPrice(cart.Total())))
	return nil
}

func changeCart(ctx context.Context, e *Env, args []string) error {
	switch {
	case args[0] == "add" && (len(args) == 2 || len(args) == 3):
		qty := 1
		if len(args) == 3 {
			var err error
			if qty, err = parseQuantity(args[2]); err != nil {
				return err
			}
		}
		p, err := lookupProduct(ctx, e, args[1])
		if err != nil {
			return err
		}
		e.Store.Dispatch(state.AddToCart{Item: state.LineItemFromProduct(p, qty)})
	case args[0] == "set" && len(args) == 3:
		qty, err := parseQuantity(args[2])
		if err != nil {
			return err
		}
		if _, ok := e.Store.State().Cart.Find(args[1]); !ok {
			return fmt.Errorf("item %s is not in the cart", args[1])
		}
		e.Store.Dispatch(state.UpdateQuantity{ID: args[1], Quantity: qty})
	case args[0] == "rm" && len(args) == 2:
		e.Store.Dispatch(state.RemoveFromCart{ID: args[1]})
	case args[0] == "clear" && len(args) == 1:
		e.Store.Dispatch(state.ClearCart{})
	default:
		return fmt.Errorf("%w: cart %s", ErrUsage, strings.Join(args, " "))
	}
	return nil
}

func runFavourites(ctx context.Context, e *Env, out *output, args []string) error {
	if len(args) > 0 {
		if err := changeFavourites(ctx, e, args); err != nil {
			return err
		}
	}
	favourites := e.Store.State().Favourite
	out.heading("Favourites")
	if len(favourites.Items) == 0 {
		out.printf("%s\n", out.st.Muted.Render("  none"))
		return nil
	}
	for _, item := range favourites.Items {
		out.printf("  %5s  %-40s %10s\n", item.ID, item.Name, out.st.Price.Render(formatPrice(item.Price)))
	}
	return nil
}

func changeFavourites(ctx context.Context, e *Env, args []string) error {
	switch {
	case (args[0] == "add" || args[0] == "toggle") && len(args) == 2:
		p, err := lookupProduct(ctx, e, args[1])
		if err != nil {
			return err
		}
		item := state.FavouriteFromProduct(p)
		if args[0] == "add" {
			e.Store.Dispatch(state.AddToFavourites{Item: item})
		} else {
			e.Store.Dispatch(state.ToggleFavourite{Item: item})
		}
	case args[0] == "rm" && len(args) == 2:
		e.Store.Dispatch(state.RemoveFromFavourites{ID: args[1]})
	case args[0] == "clear" && len(args) == 1:
		e.Store.Dispatch(state.ClearFavourites{})
	default:
		return fmt.Errorf("%w: fav %s", ErrUsage, strings.Join(args, " "))
	}
	return nil
}

func runSignIn(register bool) func(context.Context, *Env, *output, []string) error {
	return func(ctx context.Context, e *Env, out *output, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("%w: expected EMAIL PASSWORD", ErrUsage)
		}
		creds := auth.Credentials{Email: strings.TrimSpace(args[0]), Password: args[1]}
		if err := creds.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}

		e.Store.Dispatch(state.ClearAuthError{})
		var task *state.Task
		if register {
			task = e.Effects.RegisterUser(ctx, creds)
		} else {
			task = e.Effects.LoginUser(ctx, creds)
		}
		if err := settle(ctx, task, authLifecycle, e.Store); err != nil {
			return err
		}
		user := e.Store.State().Auth.User
		out.printf("Signed in as %s\n", out.st.Accent.Render(user.DisplayName()))
		return nil
	}
}

func runLogout(_ context.Context, e *Env, out *output, _ []string) error {
	e.Store.Dispatch(state.Logout{})
	out.printf("Signed out\n")
	return nil
}

func runWhoami(_ context.Context, e *Env, out *output, _ []string) error {
	a := e.Store.State().Auth
	if !a.Authenticated() {
		out.printf("%s\n", out.st.Muted.Render("not signed in"))
		return nil
	}
	out.printf("%s <%s>\n", out.st.Accent.Render(a.User.DisplayName()), a.User.Email)
	return nil
}

func runCheckout(_ context.Context, e *Env, out *output, _ []string) error {
	receipt, err := order.Place(e.Store, e.now)
	if err != nil {
		return err
	}
	out.heading("Order " + receipt.ID.String())
	for _, item := range receipt.Items {
		out.printf("  %3d x %-40s %s\n", item.Quantity, item.Name, formatPrice(item.Subtotal()))
	}
	out.printf("  total %s, placed %s\n", out.st.Price.Render(formatPrice(receipt.Total)), receipt.PlacedAt.Format(time.RFC3339))
	return nil
}

func runState(_ context.Context, e *Env, out *output, _ []string) error {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(out.w, e.Store.State())
	return nil
}

func runPurge(ctx context.Context, e *Env, out *output, _ []string) error {
	if err := e.Gateway.Purge(ctx); err != nil {
		return err
	}
	out.printf("Persisted state removed\n")
	return nil
}

func runWatch(ctx context.Context, e *Env, out *output, _ []string) error {
	router := mux.NewRouter()
	router.Handle("/metrics", e.Metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	ln, err := net.Listen("tcp", e.Config.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", e.Config.MetricsAddr, err)
	}
	srv := &http.Server{Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	out.printf("serving metrics on http://%s/metrics\n", ln.Addr())

	done := StartRefresher(ctx, e.Effects, e.Config.RefreshInterval, e.Logger)
	<-ctx.Done()
	<-done

	shutdownCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	return nil
}
