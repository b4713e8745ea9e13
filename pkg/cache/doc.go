// Package cache stores generated documents so that repeated runs over an
// unchanged input skip parsing and building.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under $XDG_CACHE_HOME/sbomgen
//   - [MemoryCache]: bounded in-process LRU
//   - [RedisCache]: shared across machines
//   - [NullCache]: stores nothing (--no-cache)
//
// [Open] picks one from a [Config].
//
// # Keys
//
// A [Keyer] derives the key from the SHA-256 of the input file ([Hash]) and
// every option that affects the output ([DocumentKeyOpts]). Generation is
// deterministic, so a hit is byte-identical to what a fresh run would
// produce.
//
// # Retries
//
// Only Redis I/O is retried. Transient network errors are wrapped with
// [Retryable] and retried by [RetryWithBackoff].
package cache
