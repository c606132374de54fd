package route

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentKind identifies how a single path segment is matched.
type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentNamed
	segmentNamedRegex
)

type segment struct {
	kind    segmentKind
	literal string         // segmentLiteral
	name    string         // segmentNamed, segmentNamedRegex
	re      *regexp.Regexp // segmentNamedRegex, anchored
}

// Route is a compiled path pattern. Two Routes are equal in the sense
// spec'd by this package iff their original Pattern strings are equal;
// callers that need Route identity as a map key should key on Pattern
// directly, since Route itself holds uncomparable fields (compiled regexps).
type Route struct {
	Pattern  string
	segments []segment
}

// namedSegment matches ":name" or ":name<regex>".
var namedSegment = regexp.MustCompile(`^:([A-Za-z_][A-Za-z0-9_]*)(?:<(.+)>)?$`)

// Compile parses pattern into a Route. Returns an error if a ":name<regex>"
// segment's regex fails to compile — this is a registration-time error,
// not a silent non-match at request time.
func Compile(pattern string) (*Route, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, fmt.Errorf("route: pattern %q must start with /", pattern)
	}

	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	if pattern == "/" {
		parts = nil
	}

	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "*" {
			return nil, fmt.Errorf("route: splat segments are not supported (pattern %q)", pattern)
		}

		if strings.HasPrefix(part, ":") {
			m := namedSegment.FindStringSubmatch(part)
			if m == nil {
				return nil, fmt.Errorf("route: invalid named segment %q in pattern %q", part, pattern)
			}
			if m[2] == "" {
				segs = append(segs, segment{kind: segmentNamed, name: m[1]})
				continue
			}
			re, err := regexp.Compile("^(?:" + m[2] + ")$")
			if err != nil {
				return nil, fmt.Errorf("route: invalid regex %q for parameter %q in pattern %q: %w", m[2], m[1], pattern, err)
			}
			segs = append(segs, segment{kind: segmentNamedRegex, name: m[1], re: re})
			continue
		}

		segs = append(segs, segment{kind: segmentLiteral, literal: part})
	}

	return &Route{Pattern: pattern, segments: segs}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level route tables built from string literals.
func MustCompile(pattern string) *Route {
	r, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Match checks path against the route's segments. On success it returns a
// binding of every named parameter to its captured substring; on failure
// it returns (nil, false). Matching the same path twice yields equal
// bindings — Match has no side effects.
func (r *Route) Match(path string) (map[string]string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if path == "/" {
		parts = nil
	}

	if len(parts) != len(r.segments) {
		return nil, false
	}

	bindings := make(map[string]string, len(r.segments))
	for i, seg := range r.segments {
		value := parts[i]
		switch seg.kind {
		case segmentLiteral:
			if seg.literal != value {
				return nil, false
			}
		case segmentNamed:
			bindings[seg.name] = value
		case segmentNamedRegex:
			if !seg.re.MatchString(value) {
				return nil, false
			}
			bindings[seg.name] = value
		}
	}

	return bindings, true
}

// Equal reports whether two routes were compiled from the same pattern
// string.
func (r *Route) Equal(other *Route) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Pattern == other.Pattern
}

// String returns the route's original pattern.
func (r *Route) String() string {
	return r.Pattern
}
