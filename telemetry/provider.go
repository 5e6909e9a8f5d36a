// SPDX-License-Identifier: Apache-2.0
//
// Copyright 2025 The Predylogic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry wires the engine to OpenTelemetry: a single InitProvider
// call builds trace, metric, and log providers over a shared OTLP transport
// (grpc or http, per config), installs them as the global providers, bridges
// log/slog onto the log pipeline, and starts a runtime-metrics collector.
// Audit-mode traces are additionally bridged to spans in audit.go, one child
// span per trace.Node.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/metrics"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Nagato-Yuzuru/predylogic/config"
)

// Shutdown flushes and stops every telemetry provider InitProvider started.
// Safe to call even when telemetry was never enabled (it is then a no-op).
type Shutdown func(context.Context) error

// InitProvider installs global trace, metric, and log providers per cfg, or
// does nothing (returning a no-op Shutdown) when cfg.Enabled is false.
func InitProvider(ctx context.Context, cfg config.OtelConfig, serviceName string) (Shutdown, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	var shutdowns []Shutdown

	traceExporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	shutdowns = append(shutdowns, tp.Shutdown)
	otel.SetTracerProvider(tp)

	metricExporter, err := newMetricExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	shutdowns = append(shutdowns, mp.Shutdown)
	otel.SetMeterProvider(mp)

	logExporter, err := newLogExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building log exporter: %w", err)
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	shutdowns = append(shutdowns, lp.Shutdown)
	global.SetLoggerProvider(lp)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.SetDefault(otelslog.NewLogger(serviceName))

	if err := startRuntimeMetrics(ctx, mp.Meter(serviceName+"/runtime")); err != nil {
		return nil, fmt.Errorf("telemetry: starting runtime metrics: %w", err)
	}

	return func(ctx context.Context) error {
		var all error
		for _, fn := range shutdowns {
			if err := fn(ctx); err != nil {
				all = errors.Join(all, err)
			}
		}
		return all
	}, nil
}

func newTraceExporter(ctx context.Context, cfg config.OtelConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Protocol {
	case "http":
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.Endpoint))
	default:
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.Endpoint))
	}
}

func newMetricExporter(ctx context.Context, cfg config.OtelConfig) (sdkmetric.Exporter, error) {
	switch cfg.Protocol {
	case "http":
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
	default:
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(cfg.Endpoint))
	}
}

func newLogExporter(ctx context.Context, cfg config.OtelConfig) (sdklog.Exporter, error) {
	switch cfg.Protocol {
	case "http":
		return otlploghttp.New(ctx, otlploghttp.WithEndpoint(cfg.Endpoint))
	default:
		return otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(cfg.Endpoint))
	}
}

// runtimeGauges maps an OTel gauge name to the runtime/metrics sample name
// it mirrors.
var runtimeGauges = map[string]string{
	"memory_classes_heap_objects_bytes": "/memory/classes/heap/objects:bytes",
	"memory_classes_total_bytes":        "/memory/classes/total:bytes",
	"gc_cycles_total_gc_cycles":         "/gc/cycles/total:gc-cycles",
	"sched_goroutines_goroutines":       "/sched/goroutines:goroutines",
}

// startRuntimeMetrics polls runtime/metrics on a ticker and records the
// handful of gauges above, rather than using the SDK's per-instrument
// asynchronous callback so one read of runtime/metrics fills every gauge.
func startRuntimeMetrics(ctx context.Context, meter metric.Meter) error {
	gauges := make(map[string]metric.Int64Gauge, len(runtimeGauges))
	for name := range runtimeGauges {
		g, err := meter.Int64Gauge(name)
		if err != nil {
			return fmt.Errorf("creating gauge %s: %w", name, err)
		}
		gauges[name] = g
	}

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		samples := make([]metrics.Sample, 0, len(runtimeGauges))
		for _, rtName := range runtimeGauges {
			samples = append(samples, metrics.Sample{Name: rtName})
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.Read(samples)
				for _, s := range samples {
					for otelName, rtName := range runtimeGauges {
						if s.Name != rtName {
							continue
						}
						switch s.Value.Kind() {
						case metrics.KindUint64:
							gauges[otelName].Record(ctx, int64(s.Value.Uint64()))
						case metrics.KindFloat64:
							gauges[otelName].Record(ctx, int64(s.Value.Float64()))
						}
					}
				}
			}
		}
	}()

	return nil
}
