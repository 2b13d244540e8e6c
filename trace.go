package routing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lopn/routing/apperr"
)

// startSpan opens a dispatch span and rebinds the request to its context.
func (r *Router) startSpan(ctx *Context) func(*Response, error) {
	req := ctx.Request
	spanCtx, span := r.tracer.Start(req.Context(), "routing.dispatch", trace.WithSpanKind(trace.SpanKindServer))
	ctx.Request = req.WithContext(spanCtx)

	attrs := []attribute.KeyValue{
		attribute.String("http.method", req.Method),
		attribute.String("http.target", req.URL.Path),
	}
	if req.Host != "" {
		attrs = append(attrs, attribute.String("http.host", req.Host))
	}
	span.SetAttributes(attrs...)

	return func(resp *Response, err error) {
		if ctx.route != nil {
			span.SetAttributes(attribute.String("http.route", ctx.route.uri))
			if ctx.route.name != "" {
				span.SetAttributes(attribute.String("routing.route_name", ctx.route.name))
			}
		}
		if err != nil {
			span.SetAttributes(attribute.Int("http.status_code", apperr.StatusOf(err)))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("http.status_code", resp.Status))
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
