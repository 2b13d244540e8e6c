package routing

type routeConfig struct {
	name   string
	domain string
	before []string
	after  []string
	where  map[string]string
}

// RouteOption customizes route registration.
type RouteOption func(*routeConfig)

// WithName assigns a name to a route.
func WithName(name string) RouteOption {
	return func(cfg *routeConfig) {
		cfg.name = name
	}
}

// WithDomain restricts a route to hosts matching the template.
func WithDomain(domain string) RouteOption {
	return func(cfg *routeConfig) {
		cfg.domain = domain
	}
}

// WithBefore attaches before filters, e.g. "auth", "csrf|throttle:60,1".
func WithBefore(filters ...string) RouteOption {
	return func(cfg *routeConfig) {
		cfg.before = append(cfg.before, filters...)
	}
}

// WithAfter attaches after filters.
func WithAfter(filters ...string) RouteOption {
	return func(cfg *routeConfig) {
		cfg.after = append(cfg.after, filters...)
	}
}

// WithWhere constrains a parameter with a regex, overriding global patterns.
func WithWhere(param, pattern string) RouteOption {
	return func(cfg *routeConfig) {
		if cfg.where == nil {
			cfg.where = make(map[string]string)
		}
		cfg.where[param] = pattern
	}
}
