package core

import (
	"context"
	"testing"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestPkgPath(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "interface with pointer",
			v:    tracer,
			want: "go.opentelemetry.io/otel/internal/global",
		},
		{
			name: "struct",
			v:    SystemClock{},
			want: "github.com/hyperledger-labs/yui-relay-core/core",
		},
		{
			name: "pointer to pointer",
			v:    func() **SyncHeaders { h := NewSyncHeaders(); return &h }(),
			want: "github.com/hyperledger-labs/yui-relay-core/core",
		},
		{
			name: "nil",
			v:    nil,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkgPath(tt.v))
		})
	}
}

func TestStartTraceWithQueryContext(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := tp.Tracer("test")

	qctx, span := StartTraceWithQueryContext(tr, NewQueryContext(context.TODO(), clienttypes.NewHeight(1, 42)), "query")
	span.End()

	assert.Equal(t, clienttypes.NewHeight(1, 42), qctx.Height())
	spans := recorder.Ended()
	if assert.Len(t, spans, 1) {
		assert.Contains(t, spans[0].Attributes(), attribute.String("query.revision_number", "1"))
		assert.Contains(t, spans[0].Attributes(), attribute.String("query.revision_height", "42"))
	}
}

func TestAttributeGroup(t *testing.T) {
	attrs := AttributeGroup("src", AttributeKeyChainID.String("ibc0"), AttributeKeyPortID.String("mockapp"))
	assert.Equal(t, []attribute.KeyValue{
		attribute.String("src.chain_id", "ibc0"),
		attribute.String("src.port_id", "mockapp"),
	}, attrs)
}

func TestEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := tp.Tracer("test")

	_, ok := tr.Start(context.TODO(), "ok")
	endSpan(ok, nil)
	_, failed := tr.Start(context.TODO(), "failed")
	endSpan(failed, ErrClientIsFrozen)

	spans := recorder.Ended()
	if assert.Len(t, spans, 2) {
		assert.Equal(t, codes.Unset, spans[0].Status().Code)
		assert.Equal(t, codes.Error, spans[1].Status().Code)
		assert.Equal(t, ErrClientIsFrozen.Error(), spans[1].Status().Description)
	}
}
