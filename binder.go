package routing

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/lopn/routing/apperr"
)

// ErrBindingNotFound indicates a binder resolved no value for a parameter.
// It also matches ErrRouteNotFound.
var ErrBindingNotFound = fmt.Errorf("binding not found: %w", ErrRouteNotFound)

// BindFunc resolves a raw parameter value. Returning nil, a nil pointer,
// map, slice or similar, or ErrBindingNotFound means nothing was found.
type BindFunc func(ctx *Context, value string) (any, error)

// FallbackFunc supplies a value when a model lookup finds nothing.
type FallbackFunc func(ctx *Context) (any, error)

// ModelResolver looks up a domain value by id.
type ModelResolver interface {
	FindByID(ctx context.Context, id string) (any, error)
}

// ModelResolverFunc adapts a function to ModelResolver.
type ModelResolverFunc func(ctx context.Context, id string) (any, error)

// FindByID calls f.
func (f ModelResolverFunc) FindByID(ctx context.Context, id string) (any, error) {
	return f(ctx, id)
}

type binder struct {
	bind     BindFunc
	fallback FallbackFunc
}

// Bind registers or replaces the binder for a parameter name.
func (r *Router) Bind(key string, fn BindFunc) {
	r.binders[key] = binder{bind: fn}
}

// Model binds a parameter to resolver lookups. When nothing is found the
// fallback, if any, decides the value, even a nil one; otherwise dispatch
// fails with ErrBindingNotFound.
func (r *Router) Model(key string, resolver ModelResolver, fallback FallbackFunc) {
	r.binders[key] = binder{
		bind: func(ctx *Context, value string) (any, error) {
			return resolver.FindByID(ctx.Context(), value)
		},
		fallback: fallback,
	}
}

func (r *Router) substituteBindings(ctx *Context) error {
	for _, name := range ctx.route.ParameterNames() {
		b, ok := r.binders[name]
		if !ok {
			continue
		}
		raw, present := ctx.params[name]
		if !present {
			continue
		}

		value, err := b.bind(ctx, raw)
		if err != nil && !errors.Is(err, ErrBindingNotFound) {
			return err
		}
		if err != nil || isNilValue(value) {
			if b.fallback == nil {
				return apperr.NotFound(fmt.Sprintf("no %s matches %q", name, raw), ErrBindingNotFound)
			}
			if value, err = b.fallback(ctx); err != nil {
				return err
			}
		}
		ctx.bound[name] = value
	}
	return nil
}

func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
