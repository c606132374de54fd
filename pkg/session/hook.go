package session

// HookContext carries the per-request values a Hook may copy into a
// session: the path parameters bound by route matching, and the request's
// query and form parameters.
type HookContext struct {
	PathParams    map[string]string
	RequestParams map[string]string
}

// Hook runs on every request that resolves to the handler it is attached
// to. It is given a freshly allocated, empty session to populate; the
// dispatcher keeps that session (and sets its cookie) only if the hook
// leaves at least one attribute set, and discards it otherwise.
type Hook func(ctx *HookContext, s *Session)

// PathParamHook copies every path-parameter binding from the request into
// the session.
func PathParamHook(ctx *HookContext, s *Session) {
	s.SetAll(ctx.PathParams)
}

// RequestParamHook copies every request parameter — query string and form
// body — into the session.
func RequestParamHook(ctx *HookContext, s *Session) {
	s.SetAll(ctx.RequestParams)
}
