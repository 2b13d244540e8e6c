package filters

import (
	"fmt"

	"github.com/lopn/routing"
	"github.com/lopn/routing/apperr"
)

// RequireHeaders fails with a bad request error when any header named in the
// filter parameters is missing. Attach it as "headers:X-Api-Key,X-Tenant".
func RequireHeaders(ctx *routing.Context, headers ...string) (any, error) {
	for _, name := range headers {
		if ctx.Request.Header.Get(name) == "" {
			return nil, apperr.BadRequest(fmt.Sprintf("missing header %s", name), nil)
		}
	}
	return nil, nil
}

// Register adds the parameterized filters to r under their conventional names.
func Register(r *routing.Router) {
	r.Filter("headers", RequireHeaders)
}
