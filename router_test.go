package routing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lopn/routing/apperr"
	"github.com/lopn/routing/logging"
)

func newTestRouter(options ...Option) *Router {
	return New(append([]Option{WithLogger(logging.Discard())}, options...)...)
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func dispatch(t *testing.T, r *Router, method, target string) (*Response, error) {
	t.Helper()
	return r.Dispatch(newRequest(method, target))
}

func text(body string) Handler {
	return func(*Context) (any, error) {
		return body, nil
	}
}

func TestDispatchBindsParameters(t *testing.T) {
	r := newTestRouter()
	r.GET("users/{id}/posts/{post?}", Handle(func(ctx *Context) (any, error) {
		return ctx.Parameters(), nil
	}))
	require.NoError(t, r.Err())

	resp, err := dispatch(t, r, http.MethodGet, "/users/7/posts/intro")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]any{"id": "7", "post": "intro"}, resp.Body)

	resp, err = dispatch(t, r, http.MethodGet, "/users/7/posts")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "7"}, resp.Body)
}

func TestDispatchFirstMatchWins(t *testing.T) {
	r := newTestRouter()
	r.GET("posts/{slug}", Handle(text("slug")))
	r.GET("posts/latest", Handle(text("latest")))

	resp, err := dispatch(t, r, http.MethodGet, "/posts/latest")
	require.NoError(t, err)
	assert.Equal(t, "slug", resp.Body)
}

func TestDispatchNotFoundAndMethodNotAllowed(t *testing.T) {
	r := newTestRouter()
	r.GET("users/{id}", Handle(text("show")))
	r.DELETE("users/{id}", Handle(text("destroy")))

	_, err := dispatch(t, r, http.MethodGet, "/teams/1")
	assert.ErrorIs(t, err, ErrRouteNotFound)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))

	_, err = dispatch(t, r, http.MethodPost, "/users/1")
	var mna *MethodNotAllowedError
	require.True(t, errors.As(err, &mna))
	assert.Equal(t, []string{"DELETE", "GET", "HEAD"}, mna.Allowed)
	assert.NotErrorIs(t, err, ErrRouteNotFound)
	assert.Equal(t, http.StatusMethodNotAllowed, apperr.StatusOf(err))
}

func TestVerbRegistration(t *testing.T) {
	r := newTestRouter()
	get := r.GET("a", Handle(text("a")))
	anyRoute := r.Any("b", Handle(text("b")))
	matched := r.Match([]string{"put", "patch"}, "c", Handle(text("c")))
	r.POST("d", Handle(text("d")))
	r.PUT("d", Handle(text("d")))
	r.PATCH("d", Handle(text("d")))
	r.OPTIONS("d", Handle(text("d")))
	require.NoError(t, r.Err())

	assert.Equal(t, []string{"GET", "HEAD"}, get.Methods())
	assert.Equal(t, []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE"}, anyRoute.Methods())
	assert.Equal(t, []string{"PUT", "PATCH"}, matched.Methods())
	assert.Len(t, r.Routes(), 7)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions} {
		resp, err := dispatch(t, r, method, "/d")
		require.NoError(t, err, method)
		assert.Equal(t, "d", resp.Body)
	}
	resp, err := dispatch(t, r, http.MethodHead, "/a")
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Body)
}

func TestResponseNormalization(t *testing.T) {
	r := newTestRouter()
	r.GET("raw", Handle(func(*Context) (any, error) {
		return map[string]int{"n": 1}, nil
	}))
	r.GET("created", Handle(func(*Context) (any, error) {
		return &Response{Status: http.StatusCreated, Body: "made"}, nil
	}))
	r.GET("nothing", Handle(func(*Context) (any, error) {
		return nil, nil
	}))

	resp, err := dispatch(t, r, http.MethodGet, "/raw")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]int{"n": 1}, resp.Body)

	resp, err = dispatch(t, r, http.MethodGet, "/created")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.NotNil(t, resp.Header)

	resp, err = dispatch(t, r, http.MethodGet, "/nothing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Body)
}

func TestActionErrorsPropagateUnchanged(t *testing.T) {
	boom := errors.New("boom")
	r := newTestRouter()
	r.GET("fail", Handle(func(*Context) (any, error) {
		return nil, boom
	}))

	_, err := dispatch(t, r, http.MethodGet, "/fail")
	assert.Same(t, boom, err)
}

func TestGlobalPatternsAndWhere(t *testing.T) {
	r := newTestRouter()
	r.Pattern("id", `[0-9]+`)
	numeric := r.GET("users/{id}", Handle(text("numeric")))
	r.GET("users/{name}", Handle(text("name")))
	override := r.GET("teams/{id}", Handle(text("team")), WithWhere("id", `[a-z]+`))
	require.NoError(t, r.Err())

	pattern, ok := numeric.Constraint("id")
	require.True(t, ok)
	assert.Equal(t, `[0-9]+`, pattern)
	pattern, _ = override.Constraint("id")
	assert.Equal(t, `[a-z]+`, pattern)

	resp, err := dispatch(t, r, http.MethodGet, "/users/42")
	require.NoError(t, err)
	assert.Equal(t, "numeric", resp.Body)

	resp, err = dispatch(t, r, http.MethodGet, "/users/taylor")
	require.NoError(t, err)
	assert.Equal(t, "name", resp.Body)

	_, err = dispatch(t, r, http.MethodGet, "/teams/42")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRegistrationErrorsAreCollected(t *testing.T) {
	r := newTestRouter()
	assert.Nil(t, r.GET("users/{id?}/edit", Handle(text("x"))))
	assert.Nil(t, r.GET("users/{id", Handle(text("x"))))
	assert.Nil(t, r.GET("photos", Uses("PhotoController")))
	assert.Nil(t, r.Match(nil, "empty", Handle(text("x"))))
	assert.NotNil(t, r.GET("ok", Handle(text("ok"))))

	err := r.Err()
	require.Error(t, err)
	var perr *PatternError
	assert.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Len(t, r.Routes(), 1)
}

func TestControllerActions(t *testing.T) {
	var got []string
	dispatcher := ControllerDispatcherFunc(func(ctx *Context, controller, method string) (any, error) {
		got = append(got, controller+"@"+method+":"+ctx.Param("photo"))
		return ctx.Route().Name(), nil
	})
	r := newTestRouter(WithControllerDispatcher(dispatcher))
	route := r.GET("photos/{photo}", Uses("PhotoController@show"), WithName("photos.show"))
	require.NoError(t, r.Err())

	ref, ok := route.Controller()
	require.True(t, ok)
	assert.Equal(t, ControllerRef{Controller: "PhotoController", Method: "show"}, ref)
	assert.Equal(t, "PhotoController@show", route.Action())

	resp, err := dispatch(t, r, http.MethodGet, "/photos/9")
	require.NoError(t, err)
	assert.Equal(t, "photos.show", resp.Body)
	assert.Equal(t, []string{"PhotoController@show:9"}, got)
}

func TestControllerActionWithoutDispatcher(t *testing.T) {
	r := newTestRouter()
	r.GET("photos", Uses("PhotoController@index"))

	_, err := dispatch(t, r, http.MethodGet, "/photos")
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(err))
}

func TestDomainRoutes(t *testing.T) {
	r := newTestRouter()
	r.GET("dashboard", Handle(func(ctx *Context) (any, error) {
		return ctx.Param("account"), nil
	}), WithDomain("{account}.example.com"))
	r.GET("dashboard", Handle(text("main")))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Host = "acme.example.com"
	resp, err := r.Dispatch(req)
	require.NoError(t, err)
	assert.Equal(t, "acme", resp.Body)

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Host = "localhost"
	resp, err = r.Dispatch(req)
	require.NoError(t, err)
	assert.Equal(t, "main", resp.Body)
}

func TestParseControllerRef(t *testing.T) {
	ref, err := ParseControllerRef("UserController@show")
	require.NoError(t, err)
	assert.Equal(t, "UserController", ref.Controller)
	assert.Equal(t, "show", ref.Method)

	for _, bad := range []string{"", "UserController", "@show", "User@", "a@b@c"} {
		_, err := ParseControllerRef(bad)
		assert.ErrorIs(t, err, ErrInvalidAction, bad)
	}
}

func TestParseFilters(t *testing.T) {
	refs := ParseFilters("auth|csrf", "throttle:60,1", " ", "role: admin , editor")
	assert.Equal(t, []FilterRef{
		{Name: "auth"},
		{Name: "csrf"},
		{Name: "throttle", Params: []string{"60", "1"}},
		{Name: "role", Params: []string{"admin", "editor"}},
	}, refs)
	assert.Equal(t, "throttle:60,1", refs[2].String())
}
