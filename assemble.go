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

import "fmt"

// Handlers maps endpoint names to their implementations. Keys that the API
// does not declare are silently ignored at assembly; every declared endpoint
// must have an entry.
type Handlers map[string]Handler

// CompiledRoute is one endpoint compiled for registration: its declared
// method, its concrete path pattern, and its adapted transport handler.
// Compiled routes are immutable and owned by the engine's registration table
// for the lifetime of the process.
type CompiledRoute struct {
	Name    string
	Method  Method
	Pattern string

	handler TransportHandler
}

// Handler returns the adapted transport handler, mainly for tests and
// custom engines that register routes out of band.
func (r CompiledRoute) Handler() TransportHandler {
	return r.handler
}

// Table is the assembled routing table: one compiled route per endpoint, in
// definition order. It exists for introspection; the engine already owns the
// registrations.
type Table struct {
	routes []CompiledRoute
}

// Routes returns the compiled routes in definition order.
// The returned slice is a copy.
func (t *Table) Routes() []CompiledRoute {
	routes := make([]CompiledRoute, len(t.routes))
	copy(routes, t.routes)
	return routes
}

// Route returns the compiled route for an endpoint name.
func (t *Table) Route(name string) (CompiledRoute, bool) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}
	return CompiledRoute{}, false
}

// Assemble compiles every endpoint of the API against its handler and
// registers the result with the routing engine.
//
// Assembly fails fast, before any route is registered, if any declared
// endpoint lacks a handler. It then walks the API in definition order:
// compile the path template (prefix applied), adapt the handler into the
// request pipeline, and register the (method, pattern, handler) triple with
// the engine. Any failure aborts assembly; a partially assembled engine must
// not be served.
//
// The API freezes on the first Assemble call.
func Assemble(engine Engine, api *API, handlers Handlers, opts ...Option) (*Table, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	cfg := newConfig(opts)

	// Fail fast at startup: the route set must be complete before anything
	// touches the engine.
	for _, name := range api.Names() {
		if h, ok := handlers[name]; !ok {
			return nil, fmt.Errorf("%w: endpoint %q", ErrMissingHandler, name)
		} else if h == nil {
			return nil, fmt.Errorf("%w: endpoint %q", ErrNilHandler, name)
		}
	}

	api.freeze()

	table := &Table{routes: make([]CompiledRoute, 0, api.Len())}
	for _, name := range api.Names() {
		def, _ := api.Get(name)
		if !def.Method.Valid() {
			return nil, fmt.Errorf("%w: %q on endpoint %q", ErrUnsupportedMethod, def.Method, name)
		}

		pattern, _, err := compilePath(def.Path)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", name, err)
		}
		pattern = joinPrefix(cfg.prefix, pattern)

		route := RouteInfo{Name: name, Method: def.Method, Pattern: pattern}
		adapted := adaptHandler(route, def, handlers[name], cfg)

		if err := engine.Register(def.Method, pattern, adapted); err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", name, err)
		}
		if cfg.logger != nil {
			cfg.logger.Debug("route registered",
				"endpoint", name, "method", string(def.Method), "pattern", pattern)
		}

		table.routes = append(table.routes, CompiledRoute{
			Name:    name,
			Method:  def.Method,
			Pattern: pattern,
			handler: adapted,
		})
	}
	return table, nil
}
