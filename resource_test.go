package routing

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeRow struct {
	Methods []string
	URI     string
	Name    string
	Action  string
}

func rows(routes []*Route) []routeRow {
	out := make([]routeRow, 0, len(routes))
	for _, route := range routes {
		out = append(out, routeRow{Methods: route.Methods(), URI: route.URI(), Name: route.Name(), Action: route.Action()})
	}
	return out
}

func TestResourceRoutes(t *testing.T) {
	r := newTestRouter()
	routes := r.Resource("photos", "PhotoController")
	require.NoError(t, r.Err())

	assert.Equal(t, []routeRow{
		{[]string{"GET", "HEAD"}, "photos", "photos.index", "PhotoController@index"},
		{[]string{"GET", "HEAD"}, "photos/create", "photos.create", "PhotoController@create"},
		{[]string{"POST"}, "photos", "photos.store", "PhotoController@store"},
		{[]string{"GET", "HEAD"}, "photos/{photos}", "photos.show", "PhotoController@show"},
		{[]string{"GET", "HEAD"}, "photos/{photos}/edit", "photos.edit", "PhotoController@edit"},
		{[]string{"PUT", "PATCH"}, "photos/{photos}", "photos.update", "PhotoController@update"},
		{[]string{"DELETE"}, "photos/{photos}", "photos.destroy", "PhotoController@destroy"},
	}, rows(routes))
}

func TestResourceDispatch(t *testing.T) {
	var got []string
	r := newTestRouter(WithControllerDispatcher(ControllerDispatcherFunc(func(ctx *Context, controller, method string) (any, error) {
		got = append(got, method+":"+ctx.Param("photos"))
		return nil, nil
	})))
	r.Resource("photos", "PhotoController")

	for _, req := range []struct{ method, target string }{
		{http.MethodGet, "/photos"},
		{http.MethodGet, "/photos/create"},
		{http.MethodPost, "/photos"},
		{http.MethodGet, "/photos/3"},
		{http.MethodGet, "/photos/3/edit"},
		{http.MethodPut, "/photos/3"},
		{http.MethodPatch, "/photos/3"},
		{http.MethodDelete, "/photos/3"},
	} {
		_, err := dispatch(t, r, req.method, req.target)
		require.NoError(t, err, req)
	}
	assert.Equal(t, []string{"index:", "create:", "store:", "show:3", "edit:3", "update:3", "update:3", "destroy:3"}, got)
}

func TestResourceOnlyKeepsCanonicalOrder(t *testing.T) {
	r := newTestRouter()
	routes := r.Resource("photos", "PhotoController", Only("show", "index"))

	names := make([]string, 0, len(routes))
	for _, route := range routes {
		names = append(names, route.Name())
	}
	assert.Equal(t, []string{"photos.index", "photos.show"}, names)

	assert.Empty(t, r.Resource("tags", "TagController", Only()))
}

func TestResourceExcept(t *testing.T) {
	r := newTestRouter()
	routes := r.Resource("photos", "PhotoController", Except("create", "edit"))

	names := make([]string, 0, len(routes))
	for _, route := range routes {
		names = append(names, route.Name())
	}
	assert.Equal(t, []string{"photos.index", "photos.store", "photos.show", "photos.update", "photos.destroy"}, names)
}

func TestNestedResource(t *testing.T) {
	r := newTestRouter()
	routes := r.Resource("photos.comments", "CommentController", Only("index", "show"))
	require.Len(t, routes, 2)

	assert.Equal(t, "photos/{photos}/comments", routes[0].URI())
	assert.Equal(t, "photos.comments.index", routes[0].Name())
	assert.Equal(t, "photos/{photos}/comments/{comments}", routes[1].URI())
	assert.Equal(t, []string{"photos", "comments"}, routes[1].ParameterNames())
}

func TestPrefixedResource(t *testing.T) {
	r := newTestRouter()
	routes := r.Resource("admin/photos", "PhotoController", Only("index"))
	require.Len(t, routes, 1)
	assert.Equal(t, "admin/photos", routes[0].URI())
	assert.Equal(t, "admin.photos.index", routes[0].Name())
}

func TestResourceInsideGroup(t *testing.T) {
	r := newTestRouter()
	var routes []*Route
	r.Group(GroupAttributes{Prefix: "api/v1", Namespace: []string{"Api"}}, func(r *Router) {
		routes = r.Resource("photos", "PhotoController", Only("show"))
	})
	require.Len(t, routes, 1)

	assert.Equal(t, "api/v1/photos/{photos}", routes[0].URI())
	assert.Equal(t, "api.v1.photos.show", routes[0].Name())
	assert.Equal(t, "Api.PhotoController@show", routes[0].Action())
}

func TestResourceInsideNamedGroup(t *testing.T) {
	r := newTestRouter()
	var routes []*Route
	r.Group(GroupAttributes{Prefix: "admin", As: "admin."}, func(r *Router) {
		routes = r.Resource("photos", "PhotoController")
	})
	require.Len(t, routes, 7)

	names := make([]string, 0, len(routes))
	for _, route := range routes {
		names = append(names, route.Name())
	}
	assert.Equal(t, []string{
		"admin.photos.index", "admin.photos.create", "admin.photos.store", "admin.photos.show",
		"admin.photos.edit", "admin.photos.update", "admin.photos.destroy",
	}, names)

	url, ok := r.URL("admin.photos.index", nil)
	assert.True(t, ok)
	assert.Equal(t, "/admin/photos", url)
}

func TestResourceRouteOptions(t *testing.T) {
	r := newTestRouter()
	routes := r.Resource("photos", "PhotoController", Only("store"), WithResourceRoutes(WithBefore("auth"), WithWhere("photos", `[0-9]+`)))
	require.Len(t, routes, 1)
	assert.Equal(t, []FilterRef{{Name: "auth"}}, routes[0].BeforeFilters())
}
