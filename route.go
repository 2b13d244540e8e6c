package routing

import (
	"strings"

	"github.com/lopn/routing/router"
)

// FilterRef is a filter name with its static parameters, as written "name:p1,p2".
type FilterRef struct {
	Name   string
	Params []string
}

func (f FilterRef) String() string {
	if len(f.Params) == 0 {
		return f.Name
	}
	return f.Name + ":" + strings.Join(f.Params, ",")
}

// ParseFilters parses filter entries. Each entry may hold several filters
// separated by "|", and each filter may carry parameters after ":".
func ParseFilters(entries ...string) []FilterRef {
	var refs []FilterRef
	for _, entry := range entries {
		for _, item := range strings.Split(entry, "|") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			name, rawParams, hasParams := strings.Cut(item, ":")
			ref := FilterRef{Name: strings.TrimSpace(name)}
			if hasParams {
				for _, param := range strings.Split(rawParams, ",") {
					ref.Params = append(ref.Params, strings.TrimSpace(param))
				}
			}
			refs = append(refs, ref)
		}
	}
	return refs
}

// Route is a registered endpoint. Routes never change after registration
// and are shared by concurrent dispatches.
type Route struct {
	id          router.RouteID
	methods     []string
	uri         string
	domain      string
	name        string
	handler     Handler
	controller  *ControllerRef
	before      []FilterRef
	after       []FilterRef
	constraints map[string]string
	path        *router.Pattern
	host        *router.Pattern
}

// Methods returns the HTTP verbs the route answers.
func (r *Route) Methods() []string {
	return append([]string(nil), r.methods...)
}

// URI returns the route template without surrounding slashes ("/" for the root).
func (r *Route) URI() string {
	return r.uri
}

// Domain returns the host template, if any.
func (r *Route) Domain() string {
	return r.domain
}

// Name returns the route name, if any.
func (r *Route) Name() string {
	return r.name
}

// Controller returns the controller reference for controller routes.
func (r *Route) Controller() (ControllerRef, bool) {
	if r.controller == nil {
		return ControllerRef{}, false
	}
	return *r.controller, true
}

// BeforeFilters returns the attached before filters in declaration order.
func (r *Route) BeforeFilters() []FilterRef {
	return append([]FilterRef(nil), r.before...)
}

// AfterFilters returns the attached after filters in declaration order.
func (r *Route) AfterFilters() []FilterRef {
	return append([]FilterRef(nil), r.after...)
}

// ParameterNames returns domain then path parameter names in declaration order.
func (r *Route) ParameterNames() []string {
	var names []string
	if r.host != nil {
		names = append(names, r.host.Names()...)
	}
	return append(names, r.path.Names()...)
}

// Constraint returns the regex constraint applied to a parameter.
func (r *Route) Constraint(name string) (string, bool) {
	pattern, ok := r.constraints[name]
	return pattern, ok
}

// Action returns a description of the route action.
func (r *Route) Action() string {
	if r.controller != nil {
		return r.controller.String()
	}
	return "Closure"
}
