//go:build gcloud

package observability

import (
	"context"
	"errors"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var ErrGCPProjectIDMissing = errors.New("GCP project id is required for cloud exporters")

func newExporters(_ context.Context, cfg Config) (sdktrace.SpanExporter, sdkmetric.Reader, error) {
	if cfg.GCPProjectID == "" {
		return nil, nil, ErrGCPProjectIDMissing
	}

	spanExporter, err := texporter.New(texporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return nil, nil, err
	}

	metricExporter, err := mexporter.New(mexporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return nil, nil, err
	}

	return spanExporter, sdkmetric.NewPeriodicReader(metricExporter), nil
}
