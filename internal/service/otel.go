// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package service

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// InitializeOTel implements the appbuilder.OTelInitializer interface.
func (cfg Config) InitializeOTel(ctx context.Context) error {
	if cfg.OTel.OTLP.Target == "" && cfg.OTel.Stdout.File == "" {
		return nil
	}

	res, err := resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTel.ServiceName),
		),
	)
	if err != nil {
		return err
	}

	if cfg.OTel.OTLP.Target != "" {
		tp, err := cfg.OTel.otlpTracerProvider(ctx, res)
		if err != nil {
			return err
		}
		otel.SetTracerProvider(tp)
		return nil
	}

	tp, err := cfg.OTel.stdoutTracerProvider(res)
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tp)
	return nil
}

func (cfg OTelConfig) otlpTracerProvider(ctx context.Context, res *resource.Resource) (closingTracerProvider, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		cfg.OTLP.Target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return closingTracerProvider{}, err
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return closingTracerProvider{}, errors.Join(err, conn.Close())
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	return closingTracerProvider{TracerProvider: tp, c: conn}, nil
}

// closingTracerProvider releases the exporters destination once every
// span has been flushed.
type closingTracerProvider struct {
	*sdktrace.TracerProvider
	c io.Closer
}

func (tp closingTracerProvider) Shutdown(ctx context.Context) error {
	err := tp.TracerProvider.Shutdown(ctx)
	return errors.Join(err, tp.c.Close())
}

func (cfg OTelConfig) stdoutTracerProvider(res *resource.Resource) (closingTracerProvider, error) {
	f, err := os.OpenFile(cfg.Stdout.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return closingTracerProvider{}, err
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		return closingTracerProvider{}, errors.Join(err, f.Close())
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return closingTracerProvider{TracerProvider: tp, c: f}, nil
}
