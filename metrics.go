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

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder counts pipeline outcomes with Prometheus counters, labeled
// by endpoint name and method. Route patterns, not raw paths, keep label
// cardinality bounded.
type MetricsRecorder struct {
	requests       *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	failures       *prometheus.CounterVec
	deferrals      *prometheus.CounterVec
}

// NewMetricsRecorder builds a MetricsRecorder and registers its collectors
// with reg. A nil registerer leaves the counters unregistered, which is
// useful in tests.
func NewMetricsRecorder(reg prometheus.Registerer) *MetricsRecorder {
	labels := []string{"route", "method"}
	m := &MetricsRecorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apimap",
			Name:      "requests_total",
			Help:      "Requests entering the endpoint pipeline.",
		}, labels),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apimap",
			Name:      "decode_failures_total",
			Help:      "Requests rejected by the sanitizer before the handler ran.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apimap",
			Name:      "handler_failures_total",
			Help:      "Requests whose handler returned an error.",
		}, labels),
		deferrals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apimap",
			Name:      "deferrals_total",
			Help:      "Requests a handler deferred to the next middleware.",
		}, labels),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.decodeFailures, m.failures, m.deferrals)
	}
	return m
}

// OnRequestStart counts the request. The state token is unused.
func (m *MetricsRecorder) OnRequestStart(ctx context.Context, route RouteInfo) (context.Context, any) {
	m.requests.WithLabelValues(route.Name, string(route.Method)).Inc()
	return ctx, nil
}

// OnDecodeError counts a sanitizer rejection.
func (m *MetricsRecorder) OnDecodeError(_ context.Context, _ any, route RouteInfo, _ error) {
	m.decodeFailures.WithLabelValues(route.Name, string(route.Method)).Inc()
}

// OnRequestEnd counts handler failures and deferrals. Decode failures were
// already counted by OnDecodeError and are not double-counted here.
func (m *MetricsRecorder) OnRequestEnd(_ context.Context, _ any, route RouteInfo, err error, deferred bool) {
	switch {
	case deferred:
		m.deferrals.WithLabelValues(route.Name, string(route.Method)).Inc()
	case err != nil:
		m.failures.WithLabelValues(route.Name, string(route.Method)).Inc()
	}
}
