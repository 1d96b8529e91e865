package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
	Namespace        string
}

func (c Config) namespace() string {
	ns := strings.TrimSpace(c.Namespace)
	if ns == "" {
		return "crm"
	}
	return ns
}

// Mutation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailure = "failure"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	mutations        metric.Int64Counter
	mutationErrors   metric.Int64Counter
	mutationDuration metric.Float64Histogram
	recordsCreated   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "crm"
	}
	ns := cfg.namespace()
	meter := provider.Meter(name)

	mutations, err := meter.Int64Counter(ns+"_mutations_total",
		metric.WithDescription("GraphQL mutations by operation and outcome."))
	if err != nil {
		return nil, err
	}
	mutationErrors, err := meter.Int64Counter(ns+"_mutation_errors_total",
		metric.WithDescription("Validation or persistence errors reported back to clients."))
	if err != nil {
		return nil, err
	}
	mutationDuration, err := meter.Float64Histogram(ns+"_mutation_duration_seconds",
		metric.WithDescription("Mutation latency including validation and persistence."))
	if err != nil {
		return nil, err
	}
	recordsCreated, err := meter.Int64Counter(ns+"_records_created_total",
		metric.WithDescription("Rows created by mutations per entity."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		mutations:        mutations,
		mutationErrors:   mutationErrors,
		mutationDuration: mutationDuration,
		recordsCreated:   recordsCreated,
	}, nil
}

// RecordMutation reports one finished mutation.
func (m *Metrics) RecordMutation(ctx context.Context, operation, outcome string, errorCount int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("operation", strings.TrimSpace(operation)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.mutations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.mutationDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	if errorCount > 0 {
		errAttrs := FilterAttributes(attribute.String("operation", strings.TrimSpace(operation)))
		m.mutationErrors.Add(ctx, int64(errorCount), metric.WithAttributes(errAttrs...))
	}
}

// RecordCreated counts rows created for entity.
func (m *Metrics) RecordCreated(ctx context.Context, entity string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("entity", strings.TrimSpace(entity)))
	m.recordsCreated.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// Outcome classifies a mutation by how many items were created and how many errors were reported.
func Outcome(created, errors int) string {
	switch {
	case errors == 0:
		return OutcomeSuccess
	case created > 0:
		return OutcomePartial
	default:
		return OutcomeFailure
	}
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"operation":   {},
	"outcome":     {},
	"entity":      {},
	"status_code": {},
	"route":       {},
	"method":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
