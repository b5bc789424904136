// Package tracing exports scheduler activity as OpenTelemetry spans.
//
// Init installs a global tracer provider backed by the stdout exporter. An
// Observer attached to the scheduler records one span per task creation and
// one span per dispatch, covering the time the task held the CPU.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	providerOnce sync.Once
	providerErr  error
	provider     *sdktrace.TracerProvider
	output       io.Closer
)

// BootID identifies this boot in every exported resource.
var BootID = uuid.NewString()

// Init configures the stdout exporter writing to outputFile, or to os.Stdout
// when outputFile is empty. The first call wins; later calls return its error.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	var c io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w, c = f, f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return err
	}
	installed := installProvider(serviceName, serviceVersion, exporter)
	if installed && providerErr == nil {
		output = c
	} else if c != nil {
		_ = c.Close()
	}
	return providerErr
}

// InitWithExporter registers exporter as the global span exporter.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	installProvider(serviceName, serviceVersion, exporter)
	return providerErr
}

func installProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) bool {
	installed := false
	providerOnce.Do(func() {
		installed = true
		res, err := newResource(serviceName, serviceVersion)
		if err != nil {
			providerErr = err
			return
		}
		provider = sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
	})
	return installed
}

func newResource(serviceName, serviceVersion string) (*resource.Resource, error) {
	return resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("boot.id", BootID),
		),
	)
}

// Shutdown flushes the installed provider and closes the trace file.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	err := provider.Shutdown(ctx)
	if output != nil {
		if cerr := output.Close(); err == nil {
			err = cerr
		}
		output = nil
	}
	return err
}
