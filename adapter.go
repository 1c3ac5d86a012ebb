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

import "errors"

// Handler implements one endpoint. The returned value becomes the response
// body unless the handler already wrote the response through the low-level
// escape. Returning the Skip sentinel defers the request to the next
// middleware; returning any other error forwards it, unenriched, to the
// engine's error-handling path.
type Handler func(c *Context) (any, error)

// Next is the engine's continuation hook. The adapter invokes it at most
// once per request: with nil to defer to the next middleware, or with an
// error to forward a sanitize or handler failure. Errors are never thrown
// synchronously past the pipeline boundary.
type Next func(err error)

// TransportHandler is the engine-facing form of an adapted handler: the
// function the routing engine invokes once a route matches.
type TransportHandler func(c *Context, next Next)

// adaptHandler wraps a user handler into the per-request pipeline:
// sanitize, invoke, then stage a response, forward an error, or defer.
// Exactly one of those outcomes terminates every request.
func adaptHandler(route RouteInfo, def Endpoint, h Handler, cfg *config) TransportHandler {
	return func(c *Context, next Next) {
		ctx := c.request.Context()
		var state any
		if cfg.recorder != nil {
			enriched, s := cfg.recorder.OnRequestStart(ctx, route)
			c.request = c.request.WithContext(enriched)
			ctx, state = enriched, s
		}

		if err := sanitizeRequest(def, c, cfg); err != nil {
			if cfg.logger != nil {
				cfg.logger.Debug("request rejected by sanitizer",
					"route", route.Name, "method", string(route.Method), "error", err)
			}
			if cfg.recorder != nil {
				// The decode failure is reported once, through OnDecodeError;
				// OnRequestEnd only closes out the pipeline.
				cfg.recorder.OnDecodeError(ctx, state, route, err)
				cfg.recorder.OnRequestEnd(ctx, state, route, nil, false)
			}
			next(err)
			return
		}

		result, err := h(c)
		switch {
		case errors.Is(err, Skip):
			if cfg.recorder != nil {
				cfg.recorder.OnRequestEnd(ctx, state, route, nil, true)
			}
			next(nil)
		case err != nil:
			if cfg.recorder != nil {
				cfg.recorder.OnRequestEnd(ctx, state, route, err, false)
			}
			next(err)
		default:
			if !c.Written() {
				c.result = result
				c.hasResult = true
			}
			if cfg.recorder != nil {
				cfg.recorder.OnRequestEnd(ctx, state, route, nil, false)
			}
		}
	}
}
