package routing

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lopn/routing/apperr"
	"github.com/lopn/routing/logging"
)

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestServeHTTPWritesBodies(t *testing.T) {
	r := newTestRouter()
	r.GET("text", Handle(text("hello")))
	r.GET("json", Handle(func(*Context) (any, error) {
		return map[string]string{"status": "ok"}, nil
	}))
	r.GET("bytes", Handle(func(*Context) (any, error) {
		resp := NewResponse(http.StatusAccepted, []byte("raw"))
		resp.Header.Set("Content-Type", "application/octet-stream")
		return resp, nil
	}))
	r.GET("reader", Handle(func(*Context) (any, error) {
		return strings.NewReader("streamed"), nil
	}))

	rec := serve(r, newRequest(http.MethodGet, "/text"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = serve(r, newRequest(http.MethodGet, "/json"))
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(r, newRequest(http.MethodGet, "/bytes"))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "raw", rec.Body.String())

	rec = serve(r, newRequest(http.MethodGet, "/reader"))
	assert.Equal(t, "streamed", rec.Body.String())
}

func TestServeHTTPHeadOmitsBody(t *testing.T) {
	r := newTestRouter()
	r.GET("text", Handle(text("hello")))

	rec := serve(r, newRequest(http.MethodHead, "/text"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestServeHTTPErrors(t *testing.T) {
	r := newTestRouter()
	r.GET("users/{id}", Handle(text("show")))
	r.PUT("users/{id}", Handle(text("update")))
	r.GET("boom", Handle(func(*Context) (any, error) {
		return nil, errors.New("database exploded")
	}))
	r.GET("denied", Handle(func(*Context) (any, error) {
		return nil, apperr.Forbidden("members only", nil)
	}))

	rec := serve(r, newRequest(http.MethodGet, "/missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeNotFound, body.Error.Code)

	rec = serve(r, newRequest(http.MethodDelete, "/users/1"))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD, PUT", rec.Header().Get("Allow"))

	rec = serve(r, newRequest(http.MethodGet, "/boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "database exploded")

	req := newRequest(http.MethodGet, "/denied")
	req.Header.Set("Accept", "text/html")
	rec = serve(r, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "members only\n", rec.Body.String())
}

func TestServeHTTPLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	r := New(WithLogger(logger))
	r.GET("boom", Handle(func(*Context) (any, error) {
		return nil, errors.New("kaput")
	}))

	req := newRequest(http.MethodGet, "/boom")
	req.Header.Set(RequestIDHeader, "req-42")
	serve(r, req)

	assert.Contains(t, buf.String(), `"msg":"request failed"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "kaput")
}

func TestCustomErrorHandler(t *testing.T) {
	var got error
	r := newTestRouter(WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error, _ *slog.Logger) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := serve(r, newRequest(http.MethodGet, "/nowhere"))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got, ErrRouteNotFound)
}

func TestContextLoggerCarriesRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Options{Level: "info", Format: "json", Writer: &buf})
	r := New(WithLogger(logger))
	r.GET("users/{id}", Handle(func(ctx *Context) (any, error) {
		ctx.Logger().Info("showing user")
		return nil, nil
	}), WithName("users.show"))

	req := newRequest(http.MethodGet, "/users/5")
	req.Header.Set(RequestIDHeader, "abc")
	_, err := r.Dispatch(req)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"abc"`)
	assert.Contains(t, out, `"route":"users/{id}"`)
	assert.Contains(t, out, `"route_name":"users.show"`)
}
