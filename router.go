package routing

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/lopn/routing/apperr"
	"github.com/lopn/routing/config"
	"github.com/lopn/routing/logging"
	"github.com/lopn/routing/metrics"
	"github.com/lopn/routing/router"
)

// ErrRouteNotFound indicates no route matches the request.
var ErrRouteNotFound = router.ErrNotFound

// MethodNotAllowedError reports the methods a matched path accepts.
type MethodNotAllowedError = router.MethodNotAllowedError

// PatternError reports a malformed route template.
type PatternError = router.PatternError

// Verbs lists every verb the router registers through Any and resources.
var Verbs = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

var anyVerbs = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// Router registers routes and dispatches requests to them.
// Registration must finish before the first Dispatch; Dispatch is safe for
// concurrent use.
type Router struct {
	routes       *router.Collection
	byID         map[router.RouteID]*Route
	list         []*Route
	named        map[string]*Route
	groupStack   []GroupAttributes
	patterns     map[string]string
	binders      map[string]binder
	filters      *FilterRegistry
	controllers  ControllerDispatcher
	logger       *slog.Logger
	config       config.Config
	tracer       trace.Tracer
	metrics      *metrics.Collector
	errorHandler ErrorHandler
	errs         []error
}

// Option customizes the router instance.
type Option func(*Router)

// New creates a Router with defaults.
func New(options ...Option) *Router {
	r := &Router{
		routes:       router.New(),
		byID:         make(map[router.RouteID]*Route),
		named:        make(map[string]*Route),
		patterns:     make(map[string]string),
		binders:      make(map[string]binder),
		filters:      NewFilterRegistry(),
		config:       config.Default(),
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range options {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewLogger(logging.Options{Level: r.config.LogLevel, Format: r.config.LogFormat})
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(r.config.TraceName)
	}
	r.filters.SetEnabled(r.config.Filtering)

	return r
}

// WithConfig overrides the default config.
func WithConfig(cfg config.Config) Option {
	return func(r *Router) {
		r.config = cfg
	}
}

// WithLogger uses a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithControllerDispatcher sets the dispatcher for "Controller@method" actions.
func WithControllerDispatcher(dispatcher ControllerDispatcher) Option {
	return func(r *Router) {
		r.controllers = dispatcher
	}
}

// WithTracer uses a custom tracer instead of the global provider's.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) {
		r.tracer = tracer
	}
}

// WithMetrics records dispatch metrics on the collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(r *Router) {
		r.metrics = collector
	}
}

// WithErrorHandler overrides how ServeHTTP reports dispatch errors.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(r *Router) {
		r.errorHandler = handler
	}
}

// GET registers a GET (and HEAD) route.
func (r *Router) GET(uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute([]string{http.MethodGet}, uri, action, options)
}

// POST registers a POST route.
func (r *Router) POST(uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute([]string{http.MethodPost}, uri, action, options)
}

// PUT registers a PUT route.
func (r *Router) PUT(uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute([]string{http.MethodPut}, uri, action, options)
}

// PATCH registers a PATCH route.
func (r *Router) PATCH(uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute([]string{http.MethodPatch}, uri, action, options)
}

// DELETE registers a DELETE route.
func (r *Router) DELETE(uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute([]string{http.MethodDelete}, uri, action, options)
}

// OPTIONS registers an OPTIONS route.
func (r *Router) OPTIONS(uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute([]string{http.MethodOptions}, uri, action, options)
}

// Any registers a route answering GET, POST, PUT, PATCH and DELETE.
func (r *Router) Any(uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute(anyVerbs, uri, action, options)
}

// Match registers a route for the given methods.
func (r *Router) Match(methods []string, uri string, action Action, options ...RouteOption) *Route {
	return r.addRoute(methods, uri, action, options)
}

// Pattern sets the default constraint for every later route parameter named key.
func (r *Router) Pattern(key, pattern string) {
	r.patterns[key] = pattern
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return append([]*Route(nil), r.list...)
}

// Route returns the route registered under name.
func (r *Router) Route(name string) (*Route, bool) {
	route, ok := r.named[name]
	return route, ok
}

// Err returns every registration error, joined.
func (r *Router) Err() error {
	return errors.Join(r.errs...)
}

func (r *Router) addRoute(methods []string, uri string, action Action, options []RouteOption) *Route {
	route, err := r.createRoute(methods, uri, action, options)
	if err == nil {
		route.id, err = r.routes.Add(route.methods, route.host, route.path)
	}
	if err != nil {
		err = fmt.Errorf("register %s %s: %w", strings.Join(methods, "|"), uri, err)
		r.logger.Error("route registration failed", slog.String("uri", uri), slog.String("error", err.Error()))
		r.errs = append(r.errs, err)
		return nil
	}

	r.byID[route.id] = route
	r.list = append(r.list, route)
	if route.name != "" {
		r.named[route.name] = route
	}
	return route
}

func (r *Router) createRoute(methods []string, uri string, action Action, options []RouteOption) (*Route, error) {
	var cfg routeConfig
	for _, opt := range options {
		opt(&cfg)
	}

	attrs := GroupAttributes{Domain: cfg.domain, Before: cfg.before, After: cfg.after}
	name := cfg.name
	if top, ok := r.lastGroup(); ok {
		attrs = MergeGroup(attrs, top)
		if name != "" {
			name = top.As + name
		}
	}

	handler, controller, err := action.resolve(attrs.Namespace)
	if err != nil {
		return nil, err
	}
	normalized, err := router.NormalizeMethods(methods)
	if err != nil {
		return nil, err
	}

	constraints := make(map[string]string, len(r.patterns)+len(cfg.where))
	for key, pattern := range r.patterns {
		constraints[key] = pattern
	}
	for key, pattern := range cfg.where {
		constraints[key] = pattern
	}

	route := &Route{
		methods:    normalized,
		uri:        joinURI(attrs.Prefix, uri),
		domain:     attrs.Domain,
		name:       name,
		handler:    handler,
		controller: controller,
		before:     ParseFilters(attrs.Before...),
		after:      ParseFilters(attrs.After...),
	}
	if route.path, err = router.Compile(route.uri, constraints); err != nil {
		return nil, err
	}
	if route.domain != "" {
		if route.host, err = router.CompileHost(route.domain, constraints); err != nil {
			return nil, err
		}
	}

	route.constraints = make(map[string]string)
	for _, param := range route.ParameterNames() {
		if pattern, ok := constraints[param]; ok {
			route.constraints[param] = pattern
		}
	}
	return route, nil
}

// Dispatch routes req through filters and the matched action. Routing
// failures are *apperr.Error values wrapping ErrRouteNotFound,
// ErrBindingNotFound or *MethodNotAllowedError; filter and action errors
// are returned unchanged.
//
// A panicking filter or action still ends the span and the metrics sample
// before the panic continues.
func (r *Router) Dispatch(req *http.Request) (resp *Response, err error) {
	start := r.metrics.Start()
	ctx := newContext(req, r)
	finish := r.startSpan(ctx)

	defer func() {
		if p := recover(); p != nil {
			perr := fmt.Errorf("dispatch panic: %v", p)
			finish(nil, perr)
			r.metrics.End(start, outcomeOf(perr))
			panic(p)
		}
		finish(resp, err)
		r.metrics.End(start, outcomeOf(err))
	}()

	return r.dispatch(ctx)
}

func (r *Router) dispatch(ctx *Context) (*Response, error) {
	filtering := r.filters.Enabled()

	var raw any
	if filtering {
		var err error
		if raw, err = r.filters.callBefore(ctx); err != nil {
			return nil, err
		}
	}

	var resp *Response
	if isEmpty(raw) {
		var err error
		if resp, err = r.dispatchToRoute(ctx, filtering); err != nil {
			return nil, err
		}
	} else {
		r.metrics.ShortCircuit(metrics.StageGlobal)
		ctx.Logger().Debug("global before filter answered")
		resp = prepareResponse(raw)
	}
	ctx.response = resp

	if filtering {
		if err := r.filters.callAfter(ctx); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (r *Router) dispatchToRoute(ctx *Context, filtering bool) (*Response, error) {
	if err := r.findRoute(ctx); err != nil {
		return nil, err
	}

	var raw any
	var err error
	if filtering {
		if raw, err = r.callRouteBefore(ctx); err != nil {
			return nil, err
		}
		if !isEmpty(raw) {
			r.metrics.ShortCircuit(metrics.StageRoute)
			ctx.Logger().Debug("route before filter answered")
		}
	}
	if isEmpty(raw) {
		if raw, err = r.run(ctx); err != nil {
			return nil, err
		}
	}

	resp := prepareResponse(raw)
	ctx.response = resp
	if filtering {
		if err := r.filters.callAll(ctx, ctx.route.after); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (r *Router) findRoute(ctx *Context) error {
	req := ctx.Request
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}

	id, params, err := r.routes.Match(req.Method, host, req.URL.Path)
	if err != nil {
		var mna *router.MethodNotAllowedError
		if errors.As(err, &mna) {
			return apperr.MethodNotAllowed("method not allowed", err)
		}
		ctx.Logger().Debug("no route matched")
		return apperr.NotFound("route not found", err)
	}

	ctx.route = r.byID[id]
	ctx.params = params
	return r.substituteBindings(ctx)
}

func (r *Router) callRouteBefore(ctx *Context) (any, error) {
	patterned := r.filters.PatternFilters(ctx.Request.Method, ctx.Request.URL.Path)
	result, err := r.filters.callUntil(ctx, patterned)
	if err != nil || !isEmpty(result) {
		return result, err
	}
	return r.filters.callUntil(ctx, ctx.route.before)
}

func (r *Router) run(ctx *Context) (any, error) {
	route := ctx.route
	if route.handler != nil {
		return route.handler(ctx)
	}
	if r.controllers == nil {
		return nil, apperr.Internal(fmt.Sprintf("no controller dispatcher for %s", route.controller), ErrInvalidAction)
	}
	return r.controllers.Dispatch(ctx, route.controller.Controller, route.controller.Method)
}

func outcomeOf(err error) string {
	var mna *router.MethodNotAllowedError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &mna):
		return metrics.OutcomeMethodNotAllowed
	case errors.Is(err, ErrRouteNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
