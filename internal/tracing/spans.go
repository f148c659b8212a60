package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span names.
const (
	SpanResolve = "entrypoint.resolve"
	SpanLoad    = "entrypoint.load"
	SpanReverse = "entrypoint.reverse"
	SpanIndex   = "entrypoint.index"
)

// Span attribute keys.
const (
	AttrIdentifier = "entrypoint.identifier"
	AttrGroup      = "entrypoint.group"
	AttrName       = "entrypoint.name"
	AttrModule     = "entrypoint.module"
	AttrSymbol     = "entrypoint.symbol"
	AttrFormat     = "entrypoint.format"
	AttrFound      = "entrypoint.found"
	AttrCount      = "entrypoint.count"
	AttrErrorType  = "error.type"
)

// Start opens an internal span named name with attrs. A nil tracer yields a
// non-recording span.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span (if any), sets the status and ends the span.
// errType names the error class, for example "not_found".
func End(span trace.Span, err error, errType string) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errType != "" {
			span.SetAttributes(attribute.String(AttrErrorType, errType))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
