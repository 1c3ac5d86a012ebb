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

import "log/slog"

// Option configures assembly.
type Option func(*config)

// config holds the assembly-time configuration shared by every compiled
// route's pipeline. It is read-only after Assemble returns.
type config struct {
	prefix       string
	logger       *slog.Logger
	recorder     Recorder
	decodeParams bool
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithPrefix applies a uniform path prefix to every compiled route.
//
//	apimap.Assemble(eng, api, handlers, apimap.WithPrefix("/api/v1"))
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithLogger sets the structured logger used for assembly and pipeline
// events. Routes log at debug on registration; sanitizer rejections log at
// debug with the route and the decode failure. Nil disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRecorder attaches a pipeline observability recorder; see Recorder,
// TracingRecorder and MetricsRecorder.
func WithRecorder(rec Recorder) Option {
	return func(c *config) {
		c.recorder = rec
	}
}

// WithParamDecoding decodes path parameters through their declared shapes,
// mirroring the body/query decode contract. Off by default: path parameters
// otherwise reach the handler as the raw strings the engine extracted.
func WithParamDecoding() Option {
	return func(c *config) {
		c.decodeParams = true
	}
}
