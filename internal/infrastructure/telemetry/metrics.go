package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = time.Minute

// MetricsConfig controls OTLP metric export. The Prometheus scrape endpoint
// is configured separately and works regardless of this setting.
type MetricsConfig struct {
	Enabled        bool
	Collector      Collector
	ExportInterval time.Duration
	Service        Service
}

// MeterProvider owns the SDK meter provider that pushes business metrics to
// the collector.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider starts a periodic OTLP metric reader. Disabled, Meter
// hands out instruments from the global no-op provider.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{}
	if !cfg.Enabled {
		logger.Info("Metric export disabled")
		return mp, nil
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Collector.Endpoint)}
	if cfg.Collector.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	res, err := cfg.Service.resource()
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("Metric export enabled",
		zap.String("collector", cfg.Collector.Endpoint),
		zap.Duration("interval", interval),
	)
	return mp, nil
}

// Meter returns the named meter.
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return mp.provider.Meter(name)
}

// IsEnabled reports whether metrics are pushed to the collector.
func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Shutdown exports the last collection and stops the reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	return shutdown(ctx, "meter", mp.provider.Shutdown)
}
