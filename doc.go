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

// Package apimap maps a declarative, strongly-typed description of an HTTP API
// onto a runtime router.
//
// An API is declared once, at startup, as a closed set of named endpoints.
// Each endpoint carries an HTTP method, an abstract path template with named
// placeholders, and optional body/query/parameter shapes describing the values
// the handler expects. Assembling the API against a map of handlers compiles
// every endpoint into a concrete route on a routing engine, with a per-request
// pipeline that decodes and validates untrusted request data against the
// declared shapes before the handler runs.
//
// # Key Behaviors
//
//   - Path compilation: "/items/{id}" templates compile to the ":id" pattern
//     syntax the routing engines expect, once per endpoint at assembly time
//   - Request sanitation: body and query are decoded against the endpoint's
//     shapes before the handler runs; a decode failure produces an HTTP 400
//     and the handler is never invoked
//   - Deferral: a handler returns the Skip sentinel to hand the request to the
//     next middleware instead of producing a response
//   - Fail-fast assembly: a missing or duplicate handler is an error at
//     startup, before any route is registered and any traffic is accepted
//
// # Quick Start
//
//	api := apimap.NewAPI().
//	    MustAdd("listItems", apimap.Endpoint{Method: apimap.GET, Path: "/items"}).
//	    MustAdd("getItem", apimap.Endpoint{Method: apimap.GET, Path: "/items/{id}"}).
//	    MustAdd("createItem", apimap.Endpoint{
//	        Method: apimap.POST,
//	        Path:   "/items",
//	        Body:   shape.Struct[CreateItem](),
//	    })
//
//	e := echo.New()
//	_, err := apimap.Assemble(engine.Echo(e), api, apimap.Handlers{
//	    "listItems":  listItems,
//	    "getItem":    getItem,
//	    "createItem": createItem,
//	}, apimap.WithPrefix("/api/v1"))
//
// Handlers have the signature func(*apimap.Context) (any, error). The returned
// value becomes the response body; the engine glue serializes it to the wire.
//
// # Construction Order Independence
//
// When handlers live in many packages, the Builder collects them in any order
// and guarantees complete, exactly-once coverage before assembly:
//
//	b := apimap.NewBuilder(api)
//	b.MustHandle("listItems", listItems)
//	b.MustHandle("getItem", getItem)
//	b.MustHandle("createItem", createItem)
//	handlers, err := b.Build() // fails if any endpoint is still uncovered
//
// # Concurrency
//
// API definitions and compiled routes are immutable after assembly and safe
// for concurrent dispatch. Each Context belongs to exactly one in-flight
// request and is never shared. The library has no timeout logic of its own:
// a handler that never returns blocks its request's pipeline indefinitely,
// and cancellation remains the transport layer's responsibility.
package apimap
