// Package session implements the per-client key/value store keyed by the
// Fixd-Session cookie.
//
// A Session holds a valid flag and a string-to-string attribute map. It is
// created by a handler's session hook, persisted in a Store under a fresh
// opaque ID, and handed back to the client as the value of the Fixd-Session
// cookie. On later requests the dispatcher looks the cookie value up in the
// Store: if the session is still valid its attributes are made available to
// response interpolation, otherwise the session is evicted and no session
// is attached.
package session
