// Copyright 2025 The Apimap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apimap

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Recorder receives pipeline lifecycle hooks for every dispatched request.
// Implementations typically create trace spans or record metrics.
//
// Lifecycle per request:
//  1. OnRequestStart before sanitation. The returned context replaces the
//     request's context for the rest of the pipeline (trace propagation works
//     even for requests that later fail). The returned state token is opaque
//     to the pipeline and handed back to the other hooks.
//  2. OnDecodeError if sanitation rejects the request. The rejection is
//     reported here only; the closing OnRequestEnd then carries a nil err.
//  3. OnRequestEnd exactly once, with the terminal outcome: err for a
//     handler failure, deferred=true for a Skip.
//
// All methods must be safe for concurrent use; many pipelines run at once.
type Recorder interface {
	OnRequestStart(ctx context.Context, route RouteInfo) (context.Context, any)
	OnDecodeError(ctx context.Context, state any, route RouteInfo, err error)
	OnRequestEnd(ctx context.Context, state any, route RouteInfo, err error, deferred bool)
}

// TracingRecorder creates one OpenTelemetry span per request pipeline, named
// after the endpoint, with the route pattern and method as attributes. Decode
// failures are recorded as span errors before the handler would have run.
type TracingRecorder struct {
	tracer trace.Tracer
}

// NewTracingRecorder builds a TracingRecorder from a tracer provider.
// A nil provider yields a recorder whose spans are no-ops.
func NewTracingRecorder(tp trace.TracerProvider) *TracingRecorder {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &TracingRecorder{tracer: tp.Tracer("github.com/apimap-dev/apimap")}
}

// OnRequestStart opens the pipeline span.
func (t *TracingRecorder) OnRequestStart(ctx context.Context, route RouteInfo) (context.Context, any) {
	ctx, span := t.tracer.Start(ctx, route.Name, trace.WithAttributes(
		attribute.String("http.request.method", string(route.Method)),
		attribute.String("http.route", route.Pattern),
	))
	return ctx, span
}

// OnDecodeError marks the span failed with the decode failure.
func (t *TracingRecorder) OnDecodeError(_ context.Context, state any, _ RouteInfo, err error) {
	span, ok := state.(trace.Span)
	if !ok {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "request decode failed")
}

// OnRequestEnd closes the span, recording a handler failure or a deferral.
func (t *TracingRecorder) OnRequestEnd(_ context.Context, state any, _ RouteInfo, err error, deferred bool) {
	span, ok := state.(trace.Span)
	if !ok {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
	}
	if deferred {
		span.SetAttributes(attribute.Bool("apimap.deferred", true))
	}
	span.End()
}
