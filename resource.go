package routing

import (
	"net/http"
	"strings"
)

// ResourceActions lists the resource actions in registration order.
var ResourceActions = []string{"index", "create", "store", "show", "edit", "update", "destroy"}

type resourceConfig struct {
	only    []string
	onlySet bool
	except  []string
	options []RouteOption
}

// ResourceOption customizes resource registration.
type ResourceOption func(*resourceConfig)

// Only restricts a resource to the given actions.
func Only(actions ...string) ResourceOption {
	return func(cfg *resourceConfig) {
		cfg.only = append(cfg.only, actions...)
		cfg.onlySet = true
	}
}

// Except drops the given actions from a resource.
func Except(actions ...string) ResourceOption {
	return func(cfg *resourceConfig) {
		cfg.except = append(cfg.except, actions...)
	}
}

// WithResourceRoutes applies route options, such as filters, to every resource route.
func WithResourceRoutes(options ...RouteOption) ResourceOption {
	return func(cfg *resourceConfig) {
		cfg.options = append(cfg.options, options...)
	}
}

// Resource registers the conventional CRUD routes for name on controller.
// Dotted names nest ("photos.comments" → photos/{photos}/comments) and a
// name containing "/" registers under the leading segments as a prefix.
func (r *Router) Resource(name, controller string, options ...ResourceOption) []*Route {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		var routes []*Route
		r.Group(GroupAttributes{Prefix: name[:idx]}, func(r *Router) {
			routes = r.Resource(name[idx+1:], controller, options...)
		})
		return routes
	}

	var cfg resourceConfig
	for _, opt := range options {
		opt(&cfg)
	}

	segments := strings.Split(name, ".")
	base := segments[len(segments)-1]
	uri := resourceURI(segments)
	member := uri + "/{" + base + "}"

	var routes []*Route
	for _, action := range resourceActions(cfg) {
		var methods []string
		var path string
		switch action {
		case "index":
			methods, path = []string{http.MethodGet}, uri
		case "create":
			methods, path = []string{http.MethodGet}, uri+"/create"
		case "store":
			methods, path = []string{http.MethodPost}, uri
		case "show":
			methods, path = []string{http.MethodGet}, member
		case "edit":
			methods, path = []string{http.MethodGet}, member+"/edit"
		case "update":
			methods, path = []string{http.MethodPut, http.MethodPatch}, member
		case "destroy":
			methods, path = []string{http.MethodDelete}, member
		}

		routeOptions := append(append([]RouteOption(nil), cfg.options...), WithName(r.resourceName(name, action)))
		if route := r.addRoute(methods, path, Uses(controller+"@"+action), routeOptions); route != nil {
			routes = append(routes, route)
		}
	}
	return routes
}

func resourceActions(cfg resourceConfig) []string {
	switch {
	case cfg.onlySet:
		return filterActions(cfg.only, true)
	case len(cfg.except) > 0:
		return filterActions(cfg.except, false)
	default:
		return ResourceActions
	}
}

func filterActions(list []string, keep bool) []string {
	set := make(map[string]bool, len(list))
	for _, action := range list {
		set[action] = true
	}
	var out []string
	for _, action := range ResourceActions {
		if set[action] == keep {
			out = append(out, action)
		}
	}
	return out
}

// resourceURI builds the base URI for a possibly nested resource; the last
// segment's own wildcard is left for the member routes to append.
func resourceURI(segments []string) string {
	parts := make([]string, 0, len(segments)*2)
	for i, segment := range segments {
		parts = append(parts, segment)
		if i < len(segments)-1 {
			parts = append(parts, "{"+segment+"}")
		}
	}
	return strings.Join(parts, "/")
}

// resourceName derives a route name from the enclosing group prefix. A group
// that sets As names its routes itself, so the plain name is returned and
// createRoute prepends As.
func (r *Router) resourceName(resource, action string) string {
	top, ok := r.lastGroup()
	if !ok || top.As != "" {
		return resource + "." + action
	}
	prefix := strings.ReplaceAll(top.Prefix, "/", ".")
	return strings.Trim(prefix+"."+resource+"."+action, ".")
}
