package routing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/lopn/routing/apperr"
)

// ErrFilterNotFound indicates a route references an unregistered filter.
var ErrFilterNotFound = errors.New("filter not registered")

// Filter intercepts a dispatch. Before filters short-circuit the remaining
// chain and the route action by returning a non-nil result; after filter
// results are ignored. params carries the static "name:p1,p2" parameters.
type Filter func(ctx *Context, params ...string) (any, error)

type patternFilter struct {
	filters []FilterRef
	methods map[string]bool
}

type patternEntry struct {
	pattern string
	glob    *regexp.Regexp
	filters []patternFilter
}

// FilterRegistry stores global, named and pattern filters.
// Registration is not safe for concurrent use; lookups are.
type FilterRegistry struct {
	before   []Filter
	after    []Filter
	named    map[string]Filter
	patterns []*patternEntry
	index    map[string]*patternEntry
	disabled atomic.Bool
}

// NewFilterRegistry creates an empty, enabled registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{
		named: make(map[string]Filter),
		index: make(map[string]*patternEntry),
	}
}

// RegisterBefore appends a global before filter.
func (f *FilterRegistry) RegisterBefore(filter Filter) {
	f.before = append(f.before, filter)
}

// RegisterAfter appends a global after filter.
func (f *FilterRegistry) RegisterAfter(filter Filter) {
	f.after = append(f.after, filter)
}

// RegisterNamed registers or replaces a named filter.
func (f *FilterRegistry) RegisterNamed(name string, filter Filter) {
	f.named[name] = filter
}

// RegisterPattern attaches filters to request paths matching the glob.
// A "*" in pattern matches any run of characters, slashes included.
// With methods given, the filters only apply to those request methods.
func (f *FilterRegistry) RegisterPattern(pattern, filters string, methods ...string) {
	pattern = normalizeGlobPath(pattern)
	entry, ok := f.index[pattern]
	if !ok {
		entry = &patternEntry{pattern: pattern, glob: compileGlob(pattern)}
		f.index[pattern] = entry
		f.patterns = append(f.patterns, entry)
	}

	pf := patternFilter{filters: ParseFilters(filters)}
	if len(methods) > 0 {
		pf.methods = make(map[string]bool, len(methods))
		for _, method := range methods {
			pf.methods[strings.ToUpper(method)] = true
		}
	}
	entry.filters = append(entry.filters, pf)
}

// Enabled reports whether filters run during dispatch.
func (f *FilterRegistry) Enabled() bool {
	return !f.disabled.Load()
}

// SetEnabled turns filtering on or off.
func (f *FilterRegistry) SetEnabled(enabled bool) {
	f.disabled.Store(!enabled)
}

// Named returns the filter registered under name.
func (f *FilterRegistry) Named(name string) (Filter, bool) {
	filter, ok := f.named[name]
	return filter, ok
}

// PatternFilters returns the filters whose pattern matches path and whose
// method set allows method: patterns in registration order, each pattern's
// filters in their own registration order.
func (f *FilterRegistry) PatternFilters(method, path string) []FilterRef {
	path = normalizeGlobPath(path)
	method = strings.ToUpper(method)

	var refs []FilterRef
	for _, entry := range f.patterns {
		if entry.pattern != path && !entry.glob.MatchString(path) {
			continue
		}
		for _, pf := range entry.filters {
			if pf.methods != nil && !pf.methods[method] {
				continue
			}
			refs = append(refs, pf.filters...)
		}
	}
	return refs
}

func (f *FilterRegistry) callBefore(ctx *Context) (any, error) {
	for _, filter := range f.before {
		result, err := filter(ctx)
		if err != nil {
			return nil, err
		}
		if !isEmpty(result) {
			return result, nil
		}
	}
	return nil, nil
}

func (f *FilterRegistry) callAfter(ctx *Context) error {
	for _, filter := range f.after {
		if _, err := filter(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (f *FilterRegistry) callUntil(ctx *Context, refs []FilterRef) (any, error) {
	for _, ref := range refs {
		result, err := f.call(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !isEmpty(result) {
			return result, nil
		}
	}
	return nil, nil
}

func (f *FilterRegistry) callAll(ctx *Context, refs []FilterRef) error {
	for _, ref := range refs {
		if _, err := f.call(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

func (f *FilterRegistry) call(ctx *Context, ref FilterRef) (any, error) {
	filter, ok := f.named[ref.Name]
	if !ok {
		return nil, apperr.Internal(fmt.Sprintf("filter %q is not registered", ref.Name), ErrFilterNotFound)
	}
	return filter(ctx, ref.Params...)
}

func normalizeGlobPath(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "/"
	}
	return path
}

func compileGlob(pattern string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(pattern)
	return regexp.MustCompile("^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$")
}

// Before registers a global before filter.
func (r *Router) Before(filter Filter) {
	r.filters.RegisterBefore(filter)
}

// After registers a global after filter.
func (r *Router) After(filter Filter) {
	r.filters.RegisterAfter(filter)
}

// Filter registers a named filter that routes attach by name.
func (r *Router) Filter(name string, filter Filter) {
	r.filters.RegisterNamed(name, filter)
}

// When attaches filters to every request whose path matches pattern.
func (r *Router) When(pattern, filters string, methods ...string) {
	r.filters.RegisterPattern(pattern, filters, methods...)
}

// Filters returns the router's filter registry.
func (r *Router) Filters() *FilterRegistry {
	return r.filters
}

// EnableFilters turns filtering on.
func (r *Router) EnableFilters() {
	r.filters.SetEnabled(true)
}

// DisableFilters turns filtering off.
func (r *Router) DisableFilters() {
	r.filters.SetEnabled(false)
}

// WithoutFilters runs fn with filtering disabled and restores the previous
// state afterwards, even when fn panics.
func (r *Router) WithoutFilters(fn func()) {
	previous := r.filters.Enabled()
	r.filters.SetEnabled(false)
	defer r.filters.SetEnabled(previous)
	fn()
}
