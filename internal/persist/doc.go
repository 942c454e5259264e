// Package persist mirrors the whitelisted state slices (cart, favourite,
// auth) to durable storage and restores them on start.
//
// The Gateway subscribes to a state.Store and hands every committed change
// to a background writer that coalesces bursts into one write of the latest
// snapshot. Writes are best effort: failures are logged and never reach the
// dispatcher. PersistControl actions pause, resume, flush and purge the
// mirror; Rehydrate loads the stored blob and dispatches state.Rehydrate.
//
// The blob lives under a single key ("root") in a Storage. FileStorage keeps
// one JSON file per key, RedisStorage one Redis string per key and
// MemoryStorage is an in-process map.
package persist
