package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/buzmarkt/storefront/internal/state"
)

// RootKey is the storage key of the persisted blob.
const RootKey = "root"

// Encode serializes the whitelisted slices.
func Encode(p state.PersistedState) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode persisted state: %w", err)
	}
	return data, nil
}

// Decode parses a blob over the default (zero) shape of each slice, so
// missing fields keep their defaults, and normalizes the result.
func Decode(data []byte) (state.PersistedState, error) {
	var p state.PersistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return state.PersistedState{}, fmt.Errorf("decode persisted state: %w", err)
	}
	return p.Normalize(), nil
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger for write and decode failures.
func WithLogger(logger *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithKey overrides RootKey.
func WithKey(key string) GatewayOption {
	return func(g *Gateway) {
		if key != "" {
			g.key = key
		}
	}
}

// WithWriteObserver registers fn to be called after every write attempt
// with its result.
func WithWriteObserver(fn func(error)) GatewayOption {
	return func(g *Gateway) {
		g.observe = fn
	}
}

type snapshot struct {
	revision uint64
	state    state.PersistedState
}

// Gateway mirrors a store's whitelisted slices to a Storage.
type Gateway struct {
	storage Storage
	key     string
	logger  *zap.Logger
	observe func(error)

	mu      sync.Mutex
	seen    uint64
	pending *snapshot
	paused  bool
	purge   bool

	writeMu sync.Mutex
	written uint64

	wake        chan struct{}
	stop        chan struct{}
	done        chan struct{}
	unsubscribe func()
	attachOnce  sync.Once
	closeOnce   sync.Once
}

// NewGateway returns a gateway writing to storage.
func NewGateway(storage Storage, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		storage: storage,
		key:     RootKey,
		logger:  zap.NewNop(),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Rehydrate loads the stored blob and dispatches state.Rehydrate. A missing
// blob leaves the store untouched. An unreadable blob is logged and ignored;
// the next write replaces it.
func (g *Gateway) Rehydrate(ctx context.Context, store *state.Store) error {
	data, err := g.storage.Load(ctx, g.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load persisted state: %w", err)
	}
	p, err := Decode(data)
	if err != nil {
		g.logger.Warn("discarding unreadable persisted state", zap.String("key", g.key), zap.Error(err))
		return nil
	}
	store.Dispatch(state.Rehydrate{State: p})
	return nil
}

// Attach subscribes to store and starts the background writer. Writes use
// ctx; Close stops the writer. Attach is effective once per gateway.
func (g *Gateway) Attach(ctx context.Context, store *state.Store) {
	g.attachOnce.Do(func() {
		g.mu.Lock()
		g.seen = store.State().Revision
		g.mu.Unlock()
		g.unsubscribe = store.Subscribe(g.observeAction)
		go g.run(ctx)
	})
}

// observeAction runs under the store's dispatch lock and must not block.
func (g *Gateway) observeAction(st state.RootState, a state.Action) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ctl, ok := a.(state.PersistControl); ok {
		switch ctl.Kind {
		case state.PersistPause:
			g.paused = true
			return
		case state.PersistResume:
			g.paused = false
		case state.PersistPurge:
			g.purge = true
			g.pending = nil
		case state.PersistFlush, state.PersistRegister:
		}
		g.signal()
		return
	}

	if st.Revision == g.seen {
		return
	}
	g.seen = st.Revision
	g.pending = &snapshot{revision: st.Revision, state: st.Persisted()}
	if !g.paused {
		g.signal()
	}
}

func (g *Gateway) signal() {
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

func (g *Gateway) run(ctx context.Context) {
	defer close(g.done)
	for {
		select {
		case <-g.wake:
			g.drain(ctx)
		case <-g.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// drain performs a requested purge, then writes the latest pending
// snapshot unless paused.
func (g *Gateway) drain(ctx context.Context) {
	g.mu.Lock()
	purge := g.purge
	g.purge = false
	g.mu.Unlock()

	if purge {
		if err := g.remove(ctx); err != nil {
			g.logger.Warn("purge persisted state", zap.String("key", g.key), zap.Error(err))
		}
	}

	snap, ok := g.takePending()
	if !ok {
		return
	}
	if err := g.write(ctx, snap); err != nil {
		g.logger.Warn("persist state", zap.String("key", g.key), zap.Uint64("revision", snap.revision), zap.Error(err))
		g.requeue(snap)
	}
}

// requeue keeps a failed snapshot for the next flush unless something
// newer or a purge superseded it.
func (g *Gateway) requeue(snap snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil && !g.purge {
		g.pending = &snap
	}
}

func (g *Gateway) takePending() (snapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused || g.pending == nil {
		return snapshot{}, false
	}
	snap := *g.pending
	g.pending = nil
	return snap, true
}

// write saves snap unless a newer revision has already been written.
func (g *Gateway) write(ctx context.Context, snap snapshot) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if snap.revision <= g.written {
		return nil
	}
	data, err := Encode(snap.state)
	if err == nil {
		err = g.storage.Save(ctx, g.key, data)
	}
	if g.observe != nil {
		g.observe(err)
	}
	if err != nil {
		return err
	}
	g.written = snap.revision
	return nil
}

func (g *Gateway) remove(ctx context.Context) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := g.storage.Remove(ctx, g.key); err != nil {
		return err
	}
	g.mu.Lock()
	g.written = g.seen
	g.mu.Unlock()
	return nil
}

// Flush writes the latest unsaved snapshot on the caller's goroutine. It
// does nothing while paused.
func (g *Gateway) Flush(ctx context.Context) error {
	snap, ok := g.takePending()
	if !ok {
		return nil
	}
	if err := g.write(ctx, snap); err != nil {
		return fmt.Errorf("flush persisted state: %w", err)
	}
	return nil
}

// Purge drops any unsaved snapshot and deletes the stored blob.
func (g *Gateway) Purge(ctx context.Context) error {
	g.mu.Lock()
	g.pending = nil
	g.purge = false
	g.mu.Unlock()
	if err := g.remove(ctx); err != nil {
		return fmt.Errorf("purge persisted state: %w", err)
	}
	return nil
}

// Close stops the background writer and flushes what it left behind.
func (g *Gateway) Close(ctx context.Context) error {
	var err error
	g.closeOnce.Do(func() {
		if g.unsubscribe != nil {
			g.unsubscribe()
		}
		close(g.stop)
		attached := g.unsubscribe != nil
		if attached {
			select {
			case <-g.done:
			case <-ctx.Done():
				err = ctx.Err()
				return
			}
		}
		g.mu.Lock()
		purge := g.purge
		g.purge = false
		g.mu.Unlock()
		if purge {
			if perr := g.remove(ctx); perr != nil {
				err = fmt.Errorf("purge persisted state: %w", perr)
				return
			}
		}
		err = g.Flush(ctx)
	})
	return err
}
