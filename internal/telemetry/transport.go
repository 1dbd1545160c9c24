package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const httpScopeName = "github.com/octanebridge/octane/http"

// InstrumentedTransport wraps an http.RoundTripper with a span per request
// and the octane.http.* metrics. Use WrapTransport to create one.
type InstrumentedTransport struct {
	inner  http.RoundTripper
	tracer trace.Tracer
	reqs   metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapTransport returns rt decorated with OTel instrumentation.
// When telemetry is disabled, rt is returned as-is.
func WrapTransport(rt http.RoundTripper) http.RoundTripper {
	if !Enabled() {
		return rt
	}
	return newInstrumentedTransport(rt)
}

func newInstrumentedTransport(rt http.RoundTripper) *InstrumentedTransport {
	m := Meter(httpScopeName)
	reqs, _ := m.Int64Counter("octane.http.requests",
		metric.WithDescription("Total requests sent to Octane"),
	)
	dur, _ := m.Float64Histogram("octane.http.request.duration",
		metric.WithDescription("Octane request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("octane.http.errors",
		metric.WithDescription("Octane requests that failed or returned a non-2xx status"),
	)
	return &InstrumentedTransport{
		inner:  rt,
		tracer: Tracer(httpScopeName),
		reqs:   reqs,
		dur:    dur,
		errs:   errs,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *InstrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	}
	ctx, span := t.tracer.Start(req.Context(), "octane.http "+req.Method,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()
	t.reqs.Add(ctx, 1, metric.WithAttributes(attrs...))

	start := time.Now()
	resp, err := t.inner.RoundTrip(req.WithContext(ctx))
	t.dur.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(attrs...))

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	case resp.StatusCode >= 300:
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		span.SetStatus(codes.Error, "status "+strconv.Itoa(resp.StatusCode))
		t.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	default:
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}
	return resp, err
}
