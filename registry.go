package routing

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lopn/routing/apperr"
)

var (
	// ErrRegistryNameRequired indicates a missing controller name.
	ErrRegistryNameRequired = errors.New("controller name is required")
	// ErrRegistryExists indicates a controller is already registered.
	ErrRegistryExists = errors.New("controller already registered")
	// ErrRegistryNotFound indicates an unknown controller or method.
	ErrRegistryNotFound = errors.New("controller method not found")
)

// Controller maps method names to handlers.
type Controller map[string]Handler

// ControllerRegistry is a ControllerDispatcher backed by registered
// controllers. It is safe for concurrent use.
type ControllerRegistry struct {
	mu          sync.RWMutex
	controllers map[string]Controller
}

// NewControllerRegistry creates an empty registry.
func NewControllerRegistry() *ControllerRegistry {
	return &ControllerRegistry{controllers: make(map[string]Controller)}
}

// Register adds a controller under its (possibly namespaced) name.
func (c *ControllerRegistry) Register(name string, controller Controller) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrRegistryNameRequired
	}
	if len(controller) == 0 {
		return fmt.Errorf("controller %s has no methods", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.controllers[name]; exists {
		return fmt.Errorf("%w: %s", ErrRegistryExists, name)
	}
	c.controllers[name] = controller
	return nil
}

// Lookup returns the handler for controller@method.
func (c *ControllerRegistry) Lookup(controller, method string) (Handler, error) {
	c.mu.RLock()
	h := c.controllers[controller][method]
	c.mu.RUnlock()

	if h == nil {
		return nil, fmt.Errorf("%w: %s@%s", ErrRegistryNotFound, controller, method)
	}
	return h, nil
}

// Names returns the registered controller names.
func (c *ControllerRegistry) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.controllers))
	for name := range c.controllers {
		names = append(names, name)
	}
	return names
}

// Dispatch runs the registered handler. Unknown references fail with an
// internal error wrapping ErrInvalidAction and ErrRegistryNotFound.
func (c *ControllerRegistry) Dispatch(ctx *Context, controller, method string) (any, error) {
	h, err := c.Lookup(controller, method)
	if err != nil {
		return nil, apperr.Internal("controller action unavailable", fmt.Errorf("%w: %w", ErrInvalidAction, err))
	}
	return h(ctx)
}
