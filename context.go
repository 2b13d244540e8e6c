package routing

import (
	"context"
	"net/http"

	"github.com/lopn/routing/router"
)

// Context carries the state of one dispatch: the request, the matched route,
// its raw and bound parameters and, for after filters, the response.
// A Context is never shared between dispatches.
type Context struct {
	Request *http.Request

	router   *Router
	route    *Route
	params   router.Params
	bound    map[string]any
	response *Response
	values   map[string]any
}

func newContext(req *http.Request, r *Router) *Context {
	return &Context{
		Request: req,
		router:  r,
		params:  router.Params{},
		bound:   make(map[string]any),
		values:  make(map[string]any),
	}
}

// Context returns the request context.
func (c *Context) Context() context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// Route returns the matched route, or nil before matching.
func (c *Context) Route() *Route {
	return c.route
}

// Response returns the prepared response; nil before the action has run.
func (c *Context) Response() *Response {
	return c.response
}

// Param returns the raw value of a route parameter.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// Parameter returns the bound value of a route parameter, falling back to
// its raw string. It returns nil for absent parameters.
func (c *Context) Parameter(name string) any {
	if value, ok := c.bound[name]; ok {
		return value
	}
	if value, ok := c.params[name]; ok {
		return value
	}
	return nil
}

// Parameters returns every present parameter, bound values replacing raw ones.
func (c *Context) Parameters() map[string]any {
	out := make(map[string]any, len(c.params))
	for key, value := range c.params {
		out[key] = value
	}
	for key, value := range c.bound {
		out[key] = value
	}
	return out
}

// Query returns a query param.
func (c *Context) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// Set stores a value in the context.
func (c *Context) Set(key string, value any) {
	c.values[key] = value
}

// Get retrieves a stored value.
func (c *Context) Get(key string) (any, bool) {
	value, ok := c.values[key]
	return value, ok
}
