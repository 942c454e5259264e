// Package app is the composition root of the storefront command.
//
// # Overview
//
// Run loads configuration, builds the logger, storage backend and remote
// clients, then hands them to NewEnv, which wires the state store, its
// middleware (logging, metrics), the persistence gateway and the async
// effects. Each invocation executes one command against that Env and flushes
// persisted state before returning.
//
// # Components
//
//   - app.go: Run, NewEnv and storage selection (file or redis)
//   - cli.go: subcommands rendered with lipgloss styles
//   - poller.go: StartRefresher, the periodic product refresh used by watch
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read ~/.config/storefront/config.toml
//	       ├─────> logging.New()        zap logger on stderr
//	       ├─────> openStorage()        FileStorage or RedisStorage
//	       ├─────> catalog/auth clients JSON over HTTP
//	       └─────> NewEnv()
//	                ├─> state.New()          store + middleware
//	                ├─> Gateway.Rehydrate()  restore cart, favourites, auth
//	                ├─> Gateway.Attach()     mirror every change
//	                └─> state.NewEffects()   async operations
//
// # Error Handling
//
// Configuration, storage and client construction errors are returned from
// Run. Failed remote operations surface as the owning slice's error message.
// Persistence failures on exit are logged, never returned.
//
// # Usage Example
//
//	err := app.Run(ctx, app.Options{Args: []string{"cart", "add", "12", "2"}})
package app
