package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Service identifies this process on every exported span, metric and log
type Service struct {
	Name        string
	Version     string
	Environment string
}

func (s Service) resource() (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, s.attributes()...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func (s Service) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(s.Name)}
	if s.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(s.Version))
	}
	if s.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentName(s.Environment))
	}
	return attrs
}

// Collector addresses the OTLP gRPC endpoint shared by the trace, metric and
// log exporters.
type Collector struct {
	Endpoint string
	Insecure bool
}

// shutdown gives fn at most 10s past ctx to flush the named provider.
func shutdown(ctx context.Context, what string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := fn(ctx); err != nil {
		return fmt.Errorf("shutdown %s provider: %w", what, err)
	}
	return nil
}
