package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/lopn/routing"
)

// CheckFunc runs a health or readiness check.
type CheckFunc func(context.Context) error

// CheckResult reports a single check.
type CheckResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Report describes health status.
type Report struct {
	Status    string        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Option configures a Registry.
type Option func(*Registry)

// WithTimeout bounds each check.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Registry) {
		r.timeout = timeout
	}
}

// Registry stores liveness and readiness checks.
type Registry struct {
	mu      sync.RWMutex
	live    map[string]CheckFunc
	ready   map[string]CheckFunc
	timeout time.Duration
}

// New creates a Registry.
func New(options ...Option) *Registry {
	registry := &Registry{
		live:  make(map[string]CheckFunc),
		ready: make(map[string]CheckFunc),
	}
	for _, opt := range options {
		opt(registry)
	}
	return registry
}

// Add registers a liveness check.
func (r *Registry) Add(name string, check CheckFunc) {
	r.mu.Lock()
	r.live[name] = check
	r.mu.Unlock()
}

// AddReady registers a readiness check.
func (r *Registry) AddReady(name string, check CheckFunc) {
	r.mu.Lock()
	r.ready[name] = check
	r.mu.Unlock()
}

// Routes registers GET healthz and readyz on router. Readiness also fails
// while the router holds registration errors.
func (r *Registry) Routes(router *routing.Router) {
	r.AddReady("routes", func(context.Context) error {
		return router.Err()
	})
	router.GET("healthz", routing.Handle(r.handler(false)), routing.WithName("health.live"))
	router.GET("readyz", routing.Handle(r.handler(true)), routing.WithName("health.ready"))
}

// Check runs the selected checks and returns the report with its HTTP status.
func (r *Registry) Check(ctx context.Context, ready bool) (Report, int) {
	return r.run(ctx, r.snapshot(ready))
}

func (r *Registry) handler(ready bool) routing.Handler {
	return func(ctx *routing.Context) (any, error) {
		report, status := r.Check(ctx.Context(), ready)
		return routing.NewResponse(status, report), nil
	}
}

func (r *Registry) run(ctx context.Context, checks map[string]CheckFunc) (Report, int) {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make([]CheckResult, 0, len(names))
	for _, name := range names {
		result := runCheck(ctx, checks[name], r.timeout)
		result.Name = name
		results = append(results, result)
		if result.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
	}

	label := "ok"
	if status != http.StatusOK {
		label = "fail"
	}
	return Report{Status: label, Checks: results, CheckedAt: time.Now().UTC()}, status
}

func runCheck(ctx context.Context, check CheckFunc, timeout time.Duration) CheckResult {
	if check == nil {
		return CheckResult{Status: "ok"}
	}

	checkCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		checkCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	start := time.Now()
	err := check(checkCtx)
	result := CheckResult{Status: "ok", DurationMS: time.Since(start).Milliseconds()}
	if err != nil {
		result.Status = "fail"
		result.Error = err.Error()
	}
	return result
}

func (r *Registry) snapshot(ready bool) map[string]CheckFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source := r.live
	if ready {
		source = r.ready
	}
	out := make(map[string]CheckFunc, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}
