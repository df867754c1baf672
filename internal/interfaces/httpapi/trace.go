package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("fixture-sync/internal/interfaces/httpapi")

var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

func shouldTraceRequest(path string) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !skip
}

// startHandlerSpan opens a child of the otelhttp server span. Requests the
// server filter skipped carry no parent and get no span either.
func startHandlerSpan(r *http.Request, operation string) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+operation,
		trace.WithAttributes(
			attribute.String("http.route", r.Pattern),
			attribute.String("job.operation", operation),
		),
	)
}

func recordSpanError(ctx context.Context, err error, httpStatus int) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.Int("http.response.status_code", httpStatus))
	if httpStatus >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, err.Error())
	}
}
