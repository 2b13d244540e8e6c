package routing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAction indicates an action that cannot be dispatched.
var ErrInvalidAction = errors.New("invalid route action")

// Handler handles a matched route and returns a raw result.
// A *Response result is used as-is; anything else becomes a response body.
type Handler func(*Context) (any, error)

// ControllerRef names a controller method, written as "Controller@method".
type ControllerRef struct {
	Controller string
	Method     string
}

func (c ControllerRef) String() string {
	return c.Controller + "@" + c.Method
}

// ParseControllerRef parses a "Controller@method" reference.
func ParseControllerRef(ref string) (ControllerRef, error) {
	controller, method, ok := strings.Cut(strings.TrimSpace(ref), "@")
	if !ok || controller == "" || method == "" || strings.Contains(method, "@") {
		return ControllerRef{}, fmt.Errorf("%w: controller reference %q must look like Controller@method", ErrInvalidAction, ref)
	}
	return ControllerRef{Controller: controller, Method: method}, nil
}

// ControllerDispatcher invokes controller methods on behalf of the router.
type ControllerDispatcher interface {
	Dispatch(ctx *Context, controller, method string) (any, error)
}

// ControllerDispatcherFunc adapts a function to ControllerDispatcher.
type ControllerDispatcherFunc func(ctx *Context, controller, method string) (any, error)

// Dispatch calls f.
func (f ControllerDispatcherFunc) Dispatch(ctx *Context, controller, method string) (any, error) {
	return f(ctx, controller, method)
}

// Action is what a route runs: either a Handler or a controller reference.
type Action struct {
	handler Handler
	ref     string
}

// Handle builds an Action running h.
func Handle(h Handler) Action {
	return Action{handler: h}
}

// Uses builds an Action forwarding to the "Controller@method" reference.
// The reference is parsed when the route is registered.
func Uses(ref string) Action {
	return Action{ref: ref}
}

func (a Action) resolve(namespace []string) (Handler, *ControllerRef, error) {
	if a.handler != nil {
		return a.handler, nil, nil
	}
	if a.ref == "" {
		return nil, nil, fmt.Errorf("%w: empty action", ErrInvalidAction)
	}

	ref, err := ParseControllerRef(a.ref)
	if err != nil {
		return nil, nil, err
	}
	if len(namespace) > 0 {
		ref.Controller = strings.Join(append(append([]string(nil), namespace...), ref.Controller), ".")
	}
	return nil, &ref, nil
}
