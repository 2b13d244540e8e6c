package routing

import (
	"log/slog"
	"net/http"
)

// RequestIDHeader carries the caller-supplied request id.
const RequestIDHeader = "X-Request-ID"

// RequestIDFromHeader returns the request id from headers.
func RequestIDFromHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get(RequestIDHeader)
}

// Logger returns the router logger annotated with the request and route.
func (c *Context) Logger() *slog.Logger {
	logger := c.router.logger
	if c.Request != nil {
		logger = logger.With(slog.String("method", c.Request.Method), slog.String("path", c.Request.URL.Path))
		if id := RequestIDFromHeader(c.Request); id != "" {
			logger = logger.With(slog.String("request_id", id))
		}
	}
	if c.route != nil {
		logger = logger.With(slog.String("route", c.route.uri))
		if c.route.name != "" {
			logger = logger.With(slog.String("route_name", c.route.name))
		}
	}
	return logger
}
