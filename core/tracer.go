package core

import (
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hyperledger-labs/yui-relay-core/core")

// StartTraceWithQueryContext starts a span that records the query height and
// returns a QueryContext carrying the span.
func StartTraceWithQueryContext(t trace.Tracer, qctx QueryContext, spanName string, opts ...trace.SpanStartOption) (QueryContext, trace.Span) {
	height := qctx.Height()
	opts = append(opts, trace.WithAttributes(AttributeGroup("query", heightAttributes(height)...)...))
	ctx, span := t.Start(qctx.Context(), spanName, opts...)
	return NewQueryContext(ctx, height), span
}

// implementedIn records the package that implements `v`
func implementedIn(v any) trace.SpanStartOption {
	return trace.WithAttributes(AttributeKeyPackage.String(pkgPath(v)))
}

func pkgPath(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.PkgPath()
}

// endSpan marks `span` as failed if `err` is not nil and ends it
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
