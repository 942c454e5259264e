package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buzmarkt/storefront/internal/auth"
	"github.com/buzmarkt/storefront/internal/catalog"
	"github.com/buzmarkt/storefront/internal/config"
	"github.com/buzmarkt/storefront/internal/order"
	"github.com/buzmarkt/storefront/internal/persist"
	"github.com/buzmarkt/storefront/internal/state"
)

var fixtureProducts = []catalog.Product{
	{ID: 1, Title: "Classic Tee", Price: 20, Category: catalog.Category{ID: 1, Name: "Clothes"}, Images: []string{"https://img/tee.png"}},
	{ID: 2, Title: "Trail Runner", Price: 80, Category: catalog.Category{ID: 2, Name: "Shoes"}},
	{ID: 3, Title: "Denim Jacket", Price: 65.5, Category: catalog.Category{ID: 1, Name: "Clothes"}},
}

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	r := mux.NewRouter()
	r.HandleFunc("/catalog/products", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, fixtureProducts)
	}).Methods(http.MethodGet)
	r.HandleFunc("/catalog/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []catalog.Category{{ID: 1, Name: "Clothes"}, {ID: 2, Name: "Shoes"}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/catalog/categories/{id}/products", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		var out []catalog.Product
		for _, p := range fixtureProducts {
			if p.Category.ID == id {
				out = append(out, p)
			}
		}
		writeJSON(w, out)
	}).Methods(http.MethodGet)

	exchange := func(w http.ResponseWriter, r *http.Request) {
		var creds auth.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "cityslicka" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"error": "user not found"})
			return
		}
		writeJSON(w, map[string]string{"token": "QpwL5tke4Pnpja7X4"})
	}
	r.HandleFunc("/auth/login", exchange).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", exchange).Methods(http.MethodPost)
	r.HandleFunc("/auth/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		writeJSON(w, map[string]auth.User{"data": {ID: id, Email: "eve.holt@reqres.in", FirstName: "Eve", LastName: "Holt"}})
	}).Methods(http.MethodGet)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

type harness struct {
	t       *testing.T
	server  *httptest.Server
	storage persist.Storage
	cfg     config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.RefreshInterval = 20 * time.Millisecond
	return &harness{t: t, server: newFakeAPI(t), storage: persist.NewMemoryStorage(), cfg: cfg}
}

func (h *harness) env() *Env {
	h.t.Helper()
	catalogClient, err := catalog.NewClient(h.server.URL + "/catalog")
	require.NoError(h.t, err)
	authClient, err := auth.NewClient(h.server.URL + "/auth")
	require.NoError(h.t, err)

	env, err := NewEnv(context.Background(), Deps{
		Config:  h.cfg,
		Storage: h.storage,
		Catalog: catalogClient,
		Auth:    authClient,
		Now:     func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	})
	require.NoError(h.t, err)
	return env
}

// run executes one command in a fresh Env, the way each CLI invocation
// does, and returns its output.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	env := h.env()
	var buf bytes.Buffer
	err := env.Exec(context.Background(), &buf, args)
	require.NoError(h.t, env.Close(context.Background()))
	return buf.String(), err
}

func TestExec_UsageAndUnknownCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run()
	require.NoError(t, err)
	assert.Contains(t, out, "storefront <command>")
	assert.Contains(t, out, "checkout")

	_, err = h.run("teleport")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestExec_ProductsAndSearch(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("products")
	require.NoError(t, err)
	assert.Contains(t, out, "Classic Tee")
	assert.Contains(t, out, "$65.50")

	out, err = h.run("products", "-q", "runner")
	require.NoError(t, err)
	assert.Contains(t, out, "Trail Runner")
	assert.NotContains(t, out, "Classic Tee")

	out, err = h.run("products", "-category", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Products in Clothes")
	assert.Contains(t, out, "Denim Jacket")
	assert.NotContains(t, out, "Trail Runner")
}

func TestExec_ProductsCategorySelection(t *testing.T) {
	h := newHarness(t)
	env := h.env()
	t.Cleanup(func() { _ = env.Close(context.Background()) })
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, env.Exec(ctx, &buf, []string{"products", "-category", "2"}))
	selected := env.Store.State().Products.SelectedCategory
	require.NotNil(t, selected)
	assert.Equal(t, catalog.Category{ID: 2, Name: "Shoes"}, *selected)

	buf.Reset()
	require.NoError(t, env.Exec(ctx, &buf, []string{"products", "-category", "9"}))
	assert.Nil(t, env.Store.State().Products.SelectedCategory, "an unknown category clears the selection")
	assert.Contains(t, buf.String(), "Products in category 9")
	assert.Contains(t, buf.String(), "no products")
}

func TestResolveCategory(t *testing.T) {
	p := state.ProductsState{
		Categories: []catalog.Category{{ID: 3, Name: "Furniture"}},
		Products:   fixtureProducts,
	}

	assert.Equal(t, &catalog.Category{ID: 3, Name: "Furniture"}, resolveCategory(p, 3), "known category without products")
	assert.Equal(t, &catalog.Category{ID: 2, Name: "Shoes"}, resolveCategory(p, 2))
	assert.Nil(t, resolveCategory(p, 9))
	assert.Nil(t, resolveCategory(state.ProductsState{}, 1))
}

func TestExec_Categories(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Clothes")
	assert.Contains(t, out, "Shoes")
}

func TestExec_FiltersSelectAndMatch(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("filters", "-category", "2", "-brand", "1,3")
	require.NoError(t, err)
	assert.Contains(t, out, "Individual Collection")
	assert.Contains(t, out, "[x]     2  Shoes")
	assert.Contains(t, out, "[ ]     1  Clothes")
	assert.Contains(t, out, "Matching products")
	assert.Contains(t, out, "Trail Runner")
	assert.NotContains(t, out, "Denim Jacket")
}

func TestExec_CartSurvivesAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("cart", "add", "1", "2")
	require.NoError(t, err)
	_, err = h.run("cart", "add", "1")
	require.NoError(t, err)
	_, err = h.run("cart", "add", "3")
	require.NoError(t, err)

	out, err := h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Classic Tee")
	assert.Contains(t, out, "4 items, total $125.50")

	_, err = h.run("cart", "set", "1", "0")
	require.NoError(t, err)
	out, err = h.run("cart")
	require.NoError(t, err)
	assert.NotContains(t, out, "Classic Tee")

	_, err = h.run("cart", "set", "99", "1")
	assert.ErrorContains(t, err, "not in the cart")
	_, err = h.run("cart", "add", "99")
	assert.ErrorContains(t, err, "product 99 not found")
	_, err = h.run("cart", "add", "1", "many")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = h.run("cart", "clear")
	require.NoError(t, err)
	out, err = h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")
}

func TestExec_Favourites(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("fav", "add", "2")
	require.NoError(t, err)
	_, err = h.run("fav", "toggle", "3")
	require.NoError(t, err)
	_, err = h.run("fav", "toggle", "2")
	require.NoError(t, err)

	out, err := h.run("fav")
	require.NoError(t, err)
	assert.Contains(t, out, "Denim Jacket")
	assert.NotContains(t, out, "Trail Runner")

	out, err = h.run("products")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`Denim Jacket\s+\$65\.50 \*`), out)

	_, err = h.run("fav", "rm", "3")
	require.NoError(t, err)
	out, err = h.run("fav")
	require.NoError(t, err)
	assert.Contains(t, out, "none")
}

func TestExec_LoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not signed in")

	_, err = h.run("login", "eve.holt@reqres.in", "wrong")
	assert.EqualError(t, err, "user not found")

	_, err = h.run("login", "eve.holt@reqres.in", "")
	assert.ErrorIs(t, err, ErrUsage)

	out, err = h.run("login", "eve.holt@reqres.in", "cityslicka")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Eve Holt")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Eve Holt <eve.holt@reqres.in>")

	_, err = h.run("logout")
	require.NoError(t, err)
	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not signed in")
}

func TestExec_Register(t *testing.T) {
	h := newHarness(t)
	h.cfg.ProfileID = 2

	out, err := h.run("register", "eve.holt@reqres.in", "cityslicka")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Eve Holt")

	env := h.env()
	defer env.Close(context.Background())
	assert.Equal(t, 2, env.Store.State().Auth.User.ID)
}

func TestExec_Checkout(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("checkout")
	assert.ErrorIs(t, err, order.ErrEmptyCart)

	_, err = h.run("cart", "add", "2", "2")
	require.NoError(t, err)
	out, err := h.run("checkout")
	require.NoError(t, err)
	assert.Regexp(t, `Order [0-9a-f-]{36}`, out)
	assert.Contains(t, out, "total $160.00, placed 2024-05-01T10:00:00Z")

	out, err = h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")
}

func TestExec_StateDump(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("fav", "add", "1")
	require.NoError(t, err)

	out, err := h.run("state")
	require.NoError(t, err)
	assert.Contains(t, out, "state.RootState")
	assert.Contains(t, out, `ID: (string) (len=1) "1"`)
}

func TestExec_PurgeClearsStorage(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("cart", "add", "1")
	require.NoError(t, err)

	out, err := h.run("purge")
	require.NoError(t, err)
	assert.Contains(t, out, "Persisted state removed")

	_, err = h.storage.Load(context.Background(), persist.RootKey)
	assert.ErrorIs(t, err, persist.ErrNotFound)

	out, err = h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestExec_WatchServesMetrics(t *testing.T) {
	h := newHarness(t)
	env := h.env()
	defer env.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	errCh := make(chan error, 1)
	go func() { errCh <- env.Exec(ctx, out, []string{"watch"}) }()

	addr := regexp.MustCompile(`http://(\S+)/metrics`)
	require.Eventually(t, func() bool { return addr.MatchString(out.String()) }, 2*time.Second, 10*time.Millisecond)
	url := "http://" + addr.FindStringSubmatch(out.String())[1]

	require.Eventually(t, func() bool {
		return len(env.Store.State().Products.Products) == len(fixtureProducts)
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(url + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `storefront_async_operations_total{operation="products/fetchProducts",phase="fulfilled"}`)

	resp, err = http.Get(url + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestRun_UsesConfigAndFileStorage(t *testing.T) {
	server := newFakeAPI(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	stateDir := filepath.Join(home, "state")

	configPath := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"catalog_url = \""+server.URL+"/catalog\"\n"+
			"auth_url = \""+server.URL+"/auth\"\n"+
			"state_dir = \""+stateDir+"\"\n"), 0o600))

	var out bytes.Buffer
	err := Run(context.Background(), Options{ConfigPath: configPath, LogLevel: "error", Args: []string{"cart", "add", "3"}, Stdout: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Denim Jacket")

	data, err := os.ReadFile(filepath.Join(stateDir, "root.json"))
	require.NoError(t, err)
	p, err := persist.Decode(data)
	require.NoError(t, err)
	require.Len(t, p.Cart.Items, 1)
	assert.Equal(t, "3", p.Cart.Items[0].ID)
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("storage = \"tape\""), 0o600))

	err := Run(context.Background(), Options{ConfigPath: path, Stdout: io.Discard})
	assert.ErrorContains(t, err, "load config")
}
