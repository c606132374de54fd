// Package id provides unique identifier generation utilities.
//
// This is the canonical source for ID generation across fixd. It provides
// two ID formats:
//
//   - SessionID: 128 bits of crypto/rand entropy, URL-safe base64, for the
//     opaque session cookie value
//   - Short: 16-character hex IDs for user-facing contexts where brevity
//     matters (subscription bookkeeping)
//
// Handler registration IDs and broadcast correlation IDs use
// github.com/google/uuid instead, since those are meant to be compared
// against external log lines and fixture files in a standard format.
//
// All ID generation functions use crypto/rand for secure randomness.
package id
