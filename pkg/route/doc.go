// Package route compiles route patterns into matchers that bind path
// parameters, and keeps them in an ordered table so a request path can be
// resolved to the first pattern that matches it.
//
// Pattern syntax:
//
//	/literal/:name/:name<regex>
//
// A plain segment matches byte-for-byte. A ":name" segment matches exactly
// one path segment and binds it to name. A ":name<regex>" segment does the
// same but additionally requires the captured segment to match regex,
// anchored to that segment.
//
// Splat ("*") segments are not supported: Compile rejects any pattern that
// contains one.
package route
