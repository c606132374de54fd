// Package async implements the pub/sub trigger engine backing the
// after/every/upon timing modes: a bounded worker pool, a scheduler for
// one-shot and repeating timers, and a subscriber registry keyed by
// trigger handler.Key.
//
// Broadcasts enumerate subscribers in insertion order; each subscription
// owns a single-writer task queue so writes to any one response are always
// applied in the order they were enqueued, even though the underlying body
// writes themselves run on the engine's shared worker pool.
package async
