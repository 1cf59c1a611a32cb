package observability

import (
	"context"
	"errors"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"knowledge-search/internal/common/logger"
)

// Options configures metrics and tracing. Registerer defaults to the
// global Prometheus registry; JaegerEndpoint enables span export.
type Options struct {
	ServiceName    string
	Version        string
	Registerer     promclient.Registerer
	JaegerEndpoint string
}

// Observability owns the OpenTelemetry meter and tracer providers of the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer

	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
	sessionEvents   otelmetric.Int64Counter
}

func New(opts Options, log logger.Logger) (*Observability, error) {
	log = logger.OrNoOp(log)
	if opts.ServiceName == "" {
		opts.ServiceName = "knowledge-search"
	}

	exporterOpts := []prometheus.Option{}
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return nil, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o := &Observability{
		meterProvider: provider,
		meter:         provider.Meter(opts.ServiceName),
		tracer:        noop.NewTracerProvider().Tracer(opts.ServiceName),
	}

	if opts.JaegerEndpoint != "" {
		tp, err := newTracerProvider(opts)
		if err != nil {
			log.Warn("Tracing disabled", map[string]interface{}{"error": err.Error()})
		} else {
			otel.SetTracerProvider(tp)
			o.tracerProvider = tp
			o.tracer = tp.Tracer(opts.ServiceName)
		}
	}

	o.requestCounter, _ = o.meter.Int64Counter(
		"api.requests",
		otelmetric.WithDescription("Number of API requests served"),
	)
	o.requestDuration, _ = o.meter.Float64Histogram(
		"api.request.duration",
		otelmetric.WithDescription("API request duration"),
		otelmetric.WithUnit("ms"),
	)
	o.sessionEvents, _ = o.meter.Int64Counter(
		"console.session.events",
		otelmetric.WithDescription("Console session state transitions"),
	)
	return o, nil
}

// StartSpan opens a server span. The caller ends it.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer), trace.WithAttributes(attrs...))
}

func (o *Observability) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	if o == nil || o.requestCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	o.requestCounter.Add(ctx, 1, attrs)
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordSessionEvent counts a console state transition such as
// "search_completed" or "ai_unavailable".
func (o *Observability) RecordSessionEvent(ctx context.Context, event string) {
	if o == nil || o.sessionEvents == nil {
		return
	}
	o.sessionEvents.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("event", event)))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
