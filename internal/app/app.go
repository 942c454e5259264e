package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/buzmarkt/storefront/internal/auth"
	"github.com/buzmarkt/storefront/internal/catalog"
	"github.com/buzmarkt/storefront/internal/config"
	"github.com/buzmarkt/storefront/internal/logging"
	"github.com/buzmarkt/storefront/internal/metrics"
	"github.com/buzmarkt/storefront/internal/persist"
	"github.com/buzmarkt/storefront/internal/remote"
	"github.com/buzmarkt/storefront/internal/state"
)

const (
	apiKeyHeader = "x-api-key"
	closeTimeout = 5 * time.Second
)

// Options configure one storefront invocation.
type Options struct {
	ConfigPath string
	LogLevel   string // overrides log_level when set
	Args       []string
	Stdout     io.Writer
}

// Run loads configuration, wires the storefront and executes one command
// until it completes or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	storage, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	clientOpts := []remote.Option{remote.WithTimeout(cfg.RequestTimeout)}
	catalogClient, err := catalog.NewClient(cfg.CatalogURL, clientOpts...)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}
	authClient, err := auth.NewClient(cfg.AuthURL, append(clientOpts, remote.WithHeader(apiKeyHeader, cfg.AuthAPIKey))...)
	if err != nil {
		return fmt.Errorf("init auth client: %w", err)
	}

	env, err := NewEnv(ctx, Deps{
		Config:  cfg,
		Logger:  logger,
		Storage: storage,
		Catalog: catalogClient,
		Auth:    authClient,
	})
	if err != nil {
		return err
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	runErr := env.Exec(ctx, stdout, opts.Args)

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := env.Close(closeCtx); err != nil {
		logger.Warn("persist state on exit", zap.Error(err))
	}
	return runErr
}

func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (persist.Storage, func(), error) {
	switch cfg.Storage {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Debug("using redis storage", zap.String("redis_addr", cfg.RedisAddr), zap.Int("redis_db", cfg.RedisDB))
		return persist.NewRedisStorage(client, persist.DefaultRedisPrefix), func() { _ = client.Close() }, nil
	default:
		storage, err := persist.NewFileStorage(cfg.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init file storage: %w", err)
		}
		logger.Debug("using file storage", zap.String("state_dir", storage.Dir()))
		return storage, func() {}, nil
	}
}

// Deps are the collaborators NewEnv wires together.
type Deps struct {
	Config  config.Config
	Logger  *zap.Logger
	Storage persist.Storage
	Catalog catalog.Fetcher
	Auth    auth.Authenticator
	Now     func() time.Time
}

// Env is the wired storefront for one invocation.
type Env struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Store   *state.Store
	Effects *state.Effects
	Gateway *persist.Gateway

	now func() time.Time
}

// NewEnv builds the store, restores persisted state and starts mirroring
// changes back to storage.
func NewEnv(ctx context.Context, deps Deps) (*Env, error) {
	if deps.Storage == nil || deps.Catalog == nil || deps.Auth == nil {
		return nil, errors.New("storage, catalog and auth are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	profileID := deps.Config.ProfileID
	if profileID <= 0 {
		profileID = config.Default().ProfileID
	}

	m := metrics.New(nil)
	store := state.New(
		state.WithLogger(logger.Named("store")),
		state.WithMiddleware(m.Middleware()),
	)
	store.Subscribe(m.Observe)

	gateway := persist.NewGateway(deps.Storage,
		persist.WithLogger(logger.Named("persist")),
		persist.WithWriteObserver(m.ObservePersistWrite),
	)
	if err := gateway.Rehydrate(ctx, store); err != nil {
		return nil, fmt.Errorf("rehydrate: %w", err)
	}
	gateway.Attach(ctx, store)

	return &Env{
		Config:  deps.Config,
		Logger:  logger,
		Metrics: m,
		Store:   store,
		Effects: state.NewEffects(store, deps.Catalog, deps.Auth, profileID),
		Gateway: gateway,
		now:     now,
	}, nil
}

// Close stops the persistence writer after a final flush.
func (e *Env) Close(ctx context.Context) error {
	return e.Gateway.Close(ctx)
}
