package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records batch-level measurements through an OpenTelemetry
// meter whose readings are exported on the prometheus /metrics endpoint.
type Observability struct {
	meterProvider *metric.MeterProvider
	batchCounter  otelmetric.Int64Counter
	batchDuration otelmetric.Float64Histogram
	contacts      otelmetric.Int64Counter
}

// New returns a usable Observability even when the exporter cannot be
// created; recording is then a no-op.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	batchCounter, _ := meter.Int64Counter(
		"enrichment.batches",
		otelmetric.WithDescription("Number of enrichment batch runs"),
	)
	batchDuration, _ := meter.Float64Histogram(
		"enrichment.batch.duration",
		otelmetric.WithDescription("Enrichment batch duration"),
		otelmetric.WithUnit("ms"),
	)
	contacts, _ := meter.Int64Counter(
		"enrichment.batch.contacts",
		otelmetric.WithDescription("Contacts handled per batch, by result"),
	)

	return &Observability{
		meterProvider: provider,
		batchCounter:  batchCounter,
		batchDuration: batchDuration,
		contacts:      contacts,
	}, nil
}

// RecordBatch records one finished batch run.
func (o *Observability) RecordBatch(ctx context.Context, status string, duration time.Duration, processed, failed int) {
	if o == nil || o.batchCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	o.batchCounter.Add(ctx, 1, attrs)
	o.batchDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	o.contacts.Add(ctx, int64(processed), otelmetric.WithAttributes(attribute.String("result", "processed")))
	o.contacts.Add(ctx, int64(failed), otelmetric.WithAttributes(attribute.String("result", "failed")))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
