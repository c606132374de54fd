package interpolate

import (
	"regexp"
	"strconv"
	"strings"
)

// token matches every token form in a single alternation so the scanner
// makes one left-to-right pass over the body; whichever named group is
// non-empty identifies which kind of token matched.
var token = regexp.MustCompile(
	`:(?P<param>[A-Za-z_][A-Za-z0-9_]*)` +
		`|\[request\.(?P<reqattr>body|method|path|query|time|major|minor|target)\]` +
		`|\[request\?(?P<reqparam>[A-Za-z_][A-Za-z0-9_]*)\]` +
		`|\[request\$(?P<reqheader>[A-Za-z0-9!#$%&'*+.^_`+"`"+`|~-]+)\]` +
		`|\{(?P<session>[A-Za-z_][A-Za-z0-9_]*)\}`,
)

var groupNames = token.SubexpNames()

// Expand replaces every recognized token in body with its expansion
// against ctx. Replacement is single-pass: text produced by expanding one
// token is never itself re-scanned for further tokens.
func Expand(body string, ctx *Context) string {
	return token.ReplaceAllStringFunc(body, func(match string) string {
		groups := token.FindStringSubmatch(match)
		for i, name := range groupNames {
			if name == "" || groups[i] == "" {
				continue
			}
			switch name {
			case "param":
				return expandParam(ctx, groups[i])
			case "reqattr":
				return expandRequestAttr(ctx, groups[i])
			case "reqparam":
				return expandRequestParam(ctx, groups[i])
			case "reqheader":
				return expandRequestHeader(ctx, groups[i])
			case "session":
				return expandSession(ctx, groups[i], match)
			}
		}
		return match
	})
}

func expandParam(ctx *Context, name string) string {
	return ctx.PathParams[name]
}

func expandRequestAttr(ctx *Context, attr string) string {
	switch attr {
	case "body":
		return ctx.Body
	case "method":
		return ctx.Method
	case "path":
		return ctx.Path
	case "query":
		return ctx.Query
	case "time":
		return strconv.FormatInt(ctx.NowMillis, 10)
	case "major":
		return strconv.Itoa(ctx.Major)
	case "minor":
		return strconv.Itoa(ctx.Minor)
	case "target":
		return ctx.Target()
	default:
		return ""
	}
}

func expandRequestParam(ctx *Context, name string) string {
	return ctx.RequestParams[name]
}

func expandRequestHeader(ctx *Context, name string) string {
	if ctx.Headers == nil {
		return ""
	}
	return ctx.Headers.Get(strings.TrimSpace(name))
}

// expandSession expands a {name} token. When no valid session is attached,
// the literal token text is preserved rather than collapsed to empty —
// the one documented exception to the "missing token expands to empty
// string" rule, so a scripted body stays diagnosable when a session was
// never installed.
func expandSession(ctx *Context, name, original string) string {
	if ctx.Session == nil || !ctx.Session.Valid() {
		return original
	}
	v, _ := ctx.Session.Get(name)
	return v
}
