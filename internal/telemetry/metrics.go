package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies this module's tracer and meter.
const InstrumentationName = "github.com/jonathan/person-researcher"

// Outcome attribute values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Instruments records calls to the search and LLM APIs.
type Instruments struct {
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewInstruments creates instruments on the given providers. Nil providers
// fall back to the global ones.
func NewInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (*Instruments, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)

	calls, err := meter.Int64Counter(
		"researcher.operation.calls",
		metric.WithDescription("Research operations by name and outcome"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"researcher.operation.duration",
		metric.WithDescription("Research operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{
		tracer:   tp.Tracer(InstrumentationName),
		calls:    calls,
		duration: duration,
	}, nil
}

// Default returns instruments bound to the global providers.
func Default() *Instruments {
	inst, err := NewInstruments(nil, nil)
	if err != nil {
		// The global providers never reject these instrument definitions.
		panic(err)
	}
	return inst
}

// Operation is an in-flight traced and counted operation.
type Operation struct {
	inst  *Instruments
	name  string
	span  trace.Span
	start time.Time
}

// Start begins a span named after the operation.
func (i *Instruments) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := i.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Operation{inst: i, name: name, span: span, start: time.Now()}
}

// End records the outcome and ends the span. It returns err unchanged.
func (o *Operation) End(ctx context.Context, err error) error {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", o.name),
		attribute.String("outcome", outcome),
	)
	o.inst.calls.Add(ctx, 1, attrs)
	o.inst.duration.Record(ctx, time.Since(o.start).Seconds(), attrs)
	o.span.End()
	return err
}

// SetAttributes adds attributes to the operation span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}
