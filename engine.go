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

// Engine is the routing-engine boundary. An Engine owns path matching and
// dispatch: it accepts (method, pattern, handler) registrations at assembly
// time and, at request time, resolves a raw path to a registered route,
// extracts path parameters as raw strings, and invokes the TransportHandler.
//
// Pattern syntax is the ":name" placeholder form produced by CompilePath.
// Register must keep path-parameter names and literal segments exactly as
// given; it fails for methods outside the supported set rather than silently
// dropping the route.
//
// Adapters for concrete engines live in the engine subpackage.
type Engine interface {
	Register(method Method, pattern string, h TransportHandler) error
}

// RouteInfo identifies one compiled route in logs and observability hooks.
type RouteInfo struct {
	// Name is the endpoint name from the API definition.
	Name string

	// Method is the endpoint's HTTP method.
	Method Method

	// Pattern is the compiled path pattern, prefix included.
	Pattern string
}
