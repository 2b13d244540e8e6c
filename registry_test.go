package routing

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerRegistry(t *testing.T) {
	reg := NewControllerRegistry()
	require.NoError(t, reg.Register("Admin.PhotoController", Controller{
		"index": func(*Context) (any, error) { return "photos", nil },
		"show": func(ctx *Context) (any, error) {
			return "photo " + ctx.Param("photos"), nil
		},
	}))

	assert.ErrorIs(t, reg.Register("Admin.PhotoController", Controller{"index": text("x")}), ErrRegistryExists)
	assert.ErrorIs(t, reg.Register(" ", Controller{"index": text("x")}), ErrRegistryNameRequired)
	assert.Error(t, reg.Register("EmptyController", nil))
	assert.Equal(t, []string{"Admin.PhotoController"}, reg.Names())

	_, err := reg.Lookup("Admin.PhotoController", "destroy")
	assert.ErrorIs(t, err, ErrRegistryNotFound)
}

func TestControllerRegistryDispatch(t *testing.T) {
	reg := NewControllerRegistry()
	require.NoError(t, reg.Register("Admin.PhotoController", Controller{
		"show": func(ctx *Context) (any, error) {
			return "photo " + ctx.Param("photos"), nil
		},
	}))

	r := newTestRouter(WithControllerDispatcher(reg))
	r.Group(GroupAttributes{Namespace: []string{"Admin"}}, func(r *Router) {
		r.Resource("photos", "PhotoController", Only("show", "destroy"))
	})
	require.NoError(t, r.Err())

	resp, err := dispatch(t, r, http.MethodGet, "/photos/12")
	require.NoError(t, err)
	assert.Equal(t, "photo 12", resp.Body)

	_, err = dispatch(t, r, http.MethodDelete, "/photos/12")
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.ErrorIs(t, err, ErrRegistryNotFound)
}
