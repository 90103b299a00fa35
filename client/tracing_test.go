package client_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/restclient/client"
)

func TestClient_WithTracer(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tt := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}, client.WithTracer(tp.Tracer("restclient-test")))

	if _, err := tt.Get(t.Context(), "/users", client.Content{QueryStringParameters: "id=5"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if tp := tt.last(t).Header.Get("Traceparent"); tp == "" {
		t.Error("expected trace context to be propagated")
	}

	_, err := tt.Post(t.Context(), "/missing", client.Content{})
	if !errors.Is(err, client.ErrUnexpectedStatusCode) {
		t.Fatalf("exp err: %v, got: %v", client.ErrUnexpectedStatusCode, err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	ok, failed := spans[0], spans[1]
	if ok.Name() != "restclient.GET" || failed.Name() != "restclient.POST" {
		t.Errorf("unexpected span names %q, %q", ok.Name(), failed.Name())
	}
	if ok.SpanKind() != trace.SpanKindClient {
		t.Errorf("expected client span kind, got %v", ok.SpanKind())
	}
	if !hasAttr(ok.Attributes(), attribute.String("url.path", "/users?id=5")) {
		t.Errorf("expected url.path attribute, got %v", ok.Attributes())
	}
	if failed.Status().Code != codes.Error {
		t.Errorf("expected error status on failed span, got %v", failed.Status())
	}
	if !hasAttr(failed.Attributes(), attribute.Int("http.response.status_code", http.StatusNotFound)) {
		t.Errorf("expected 404 status attribute, got %v", failed.Attributes())
	}
}

func hasAttr(attrs []attribute.KeyValue, want attribute.KeyValue) bool {
	for _, kv := range attrs {
		if kv.Key == want.Key && kv.Value == want.Value {
			return true
		}
	}
	return false
}
