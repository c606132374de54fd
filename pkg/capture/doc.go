// Package capture implements the bounded FIFO of observed requests that
// every request is snapshotted into before route resolution.
//
// A Ring holds CapturedRequest snapshots up to a configurable capacity; once
// full, inserting a new entry evicts the oldest until the ring is back at
// or under capacity. A capacity of -1 means unbounded. Callers may also
// Subscribe to receive new captures as they arrive, independent of the
// ring's own retention.
package capture
