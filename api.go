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
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/apimap-dev/apimap/shape"
)

// Method is one of the five HTTP methods an endpoint may declare.
// The set is closed: any other value is rejected at assembly time with
// ErrUnsupportedMethod rather than silently ignored.
type Method string

const (
	// GET declares a read operation.
	GET Method = http.MethodGet

	// POST declares a create operation.
	POST Method = http.MethodPost

	// PUT declares a full-replace operation.
	PUT Method = http.MethodPut

	// PATCH declares a partial-update operation.
	PATCH Method = http.MethodPatch

	// DELETE declares a delete operation.
	DELETE Method = http.MethodDelete
)

// Valid reports whether m belongs to the supported method set.
func (m Method) Valid() bool {
	switch m {
	case GET, POST, PUT, PATCH, DELETE:
		return true
	default:
		return false
	}
}

// Param pairs a path placeholder name with the shape used to decode its
// raw string value. A nil Shape means the value stays a raw string.
type Param struct {
	Name  string
	Shape shape.Shape
}

// Endpoint declares one operation of an API: its method, its abstract path
// template, and the shapes of the values it exchanges.
//
// Path templates are plain pathnames whose parameter segments are written in
// braces: "/publications/{category}". Placeholder names must be unique within
// one template.
//
// Body and Query are optional. A nil shape means the endpoint expects no such
// value: an incoming body or query string is then ignored rather than decoded,
// and the handler sees nil.
//
// Response documents the shape of the handler's return value. It is carried
// for documentation and tooling; the library does not enforce it on output.
type Endpoint struct {
	Method   Method
	Path     string
	Params   []Param
	Body     shape.Shape
	Query    shape.Shape
	Response shape.Shape
}

// paramShape returns the declared shape for a placeholder name, or nil.
func (e Endpoint) paramShape(name string) shape.Shape {
	for _, p := range e.Params {
		if p.Name == name {
			return p.Shape
		}
	}
	return nil
}

// API is the complete, closed set of operations a router must implement,
// keyed by unique endpoint name. Endpoints iterate in definition order.
//
// An API freezes on first assembly; further Add calls fail with ErrAPIFrozen.
// A frozen API is safe for concurrent use.
type API struct {
	names  []string
	byName map[string]Endpoint
	frozen atomic.Bool
}

// NewAPI returns an empty API definition.
func NewAPI() *API {
	return &API{byName: make(map[string]Endpoint)}
}

// Add declares an endpoint under the given name. It fails if the name is
// empty or already taken, or if the API has been assembled.
func (a *API) Add(name string, def Endpoint) error {
	if a.frozen.Load() {
		return fmt.Errorf("%w: cannot add %q", ErrAPIFrozen, name)
	}
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidEndpoint)
	}
	if _, ok := a.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEndpoint, name)
	}
	a.names = append(a.names, name)
	a.byName[name] = def
	return nil
}

// MustAdd is Add for static definitions; it panics on error and returns the
// API for chaining.
func (a *API) MustAdd(name string, def Endpoint) *API {
	if err := a.Add(name, def); err != nil {
		panic(err)
	}
	return a
}

// Get returns the endpoint declared under name.
func (a *API) Get(name string) (Endpoint, bool) {
	def, ok := a.byName[name]
	return def, ok
}

// Names returns the endpoint names in definition order.
// The returned slice is a copy.
func (a *API) Names() []string {
	names := make([]string, len(a.names))
	copy(names, a.names)
	return names
}

// Len returns the number of declared endpoints.
func (a *API) Len() int {
	return len(a.names)
}

// freeze marks the definition immutable. Called on first assembly.
func (a *API) freeze() {
	a.frozen.Store(true)
}
