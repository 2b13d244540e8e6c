package router

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
)

// RouteID identifies a route.
type RouteID int

// ErrNotFound indicates no route matches the request path.
var ErrNotFound = errors.New("route not found")

// MethodNotAllowedError indicates the path matched under other methods only.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s (allowed: %s)", e.Method, e.Path, strings.Join(e.Allowed, ", "))
}

type entry struct {
	id      RouteID
	methods []string
	domain  *Pattern
	path    *Pattern
}

// Collection holds compiled routes in registration order, indexed by method.
type Collection struct {
	routes   []*entry
	byMethod map[string][]*entry
	nextID   RouteID
}

// New creates a Collection.
func New() *Collection {
	return &Collection{byMethod: make(map[string][]*entry)}
}

// NormalizeMethods uppercases and deduplicates methods. GET implies HEAD.
func NormalizeMethods(methods []string) ([]string, error) {
	out := make([]string, 0, len(methods)+1)
	seen := make(map[string]bool, len(methods)+1)
	add := func(method string) {
		if !seen[method] {
			seen[method] = true
			out = append(out, method)
		}
	}

	for _, method := range methods {
		method = strings.ToUpper(strings.TrimSpace(method))
		if method == "" {
			return nil, errors.New("method required")
		}
		add(method)
		if method == "GET" {
			add("HEAD")
		}
	}
	if len(out) == 0 {
		return nil, errors.New("method required")
	}
	return out, nil
}

// Add registers a compiled path (and optional domain) pattern and returns its id.
func (c *Collection) Add(methods []string, domain, path *Pattern) (RouteID, error) {
	if path == nil {
		return 0, errors.New("path pattern required")
	}
	normalized, err := NormalizeMethods(methods)
	if err != nil {
		return 0, err
	}

	e := &entry{id: c.nextID, methods: normalized, domain: domain, path: path}
	c.nextID++
	c.routes = append(c.routes, e)
	for _, method := range normalized {
		c.byMethod[method] = append(c.byMethod[method], e)
	}
	return e.id, nil
}

// Len returns the number of registered routes.
func (c *Collection) Len() int {
	return len(c.routes)
}

// Match finds the first route registered under method whose domain and path match.
// It returns ErrNotFound or *MethodNotAllowedError when nothing matches.
func (c *Collection) Match(method, host, path string) (RouteID, Params, error) {
	method = strings.ToUpper(method)

	for _, e := range c.byMethod[method] {
		if params, ok := e.match(host, path); ok {
			return e.id, params, nil
		}
	}

	if allowed := c.Allowed(host, path); len(allowed) > 0 {
		return 0, nil, &MethodNotAllowedError{Method: method, Path: path, Allowed: allowed}
	}
	return 0, nil, ErrNotFound
}

// Allowed lists the methods of every route matching host and path.
func (c *Collection) Allowed(host, path string) []string {
	seen := make(map[string]bool)
	var allowed []string
	for _, e := range c.routes {
		if _, ok := e.match(host, path); !ok {
			continue
		}
		for _, method := range e.methods {
			if !seen[method] {
				seen[method] = true
				allowed = append(allowed, method)
			}
		}
	}
	sort.Strings(allowed)
	return allowed
}

func (e *entry) match(host, path string) (Params, bool) {
	var hostParams Params
	if e.domain != nil {
		var ok bool
		hostParams, ok = e.domain.Match(stripPort(host))
		if !ok {
			return nil, false
		}
	}

	params, ok := e.path.Match(path)
	if !ok {
		return nil, false
	}
	for key, value := range hostParams {
		if _, exists := params[key]; !exists {
			params[key] = value
		}
	}
	return params, true
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
