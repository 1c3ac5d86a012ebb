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
	"sort"
	"strings"
)

// Builder collects handlers for an API one endpoint at a time, in any order,
// and guarantees exactly-once, complete coverage before assembly. It is the
// construction path for APIs whose handlers live across many packages.
//
// Each endpoint may be supplied exactly once: a second Handle call for the
// same name fails immediately with ErrDuplicateHandler, and Build fails while
// any endpoint remains uncovered. A successful Build yields the same Handlers
// map the hash-based Assemble path consumes, so both construction styles
// produce behaviorally identical routers.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	api       *API
	handlers  Handlers
	remaining map[string]struct{}
}

// NewBuilder starts a builder over the API's full endpoint set.
func NewBuilder(api *API) *Builder {
	remaining := make(map[string]struct{}, api.Len())
	for _, name := range api.Names() {
		remaining[name] = struct{}{}
	}
	return &Builder{
		api:       api,
		handlers:  make(Handlers, api.Len()),
		remaining: remaining,
	}
}

// Handle records the handler for one endpoint. It fails for names the API
// does not declare, for nil handlers, and for endpoints already covered.
func (b *Builder) Handle(name string, h Handler) error {
	if _, ok := b.api.Get(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
	}
	if h == nil {
		return fmt.Errorf("%w: endpoint %q", ErrNilHandler, name)
	}
	if _, ok := b.remaining[name]; !ok {
		return fmt.Errorf("%w: endpoint %q", ErrDuplicateHandler, name)
	}
	delete(b.remaining, name)
	b.handlers[name] = h
	return nil
}

// MustHandle is Handle for static wiring; it panics on error and returns the
// builder for chaining.
func (b *Builder) MustHandle(name string, h Handler) *Builder {
	if err := b.Handle(name, h); err != nil {
		panic(err)
	}
	return b
}

// Remaining returns the names of the endpoints still uncovered, sorted.
func (b *Builder) Remaining() []string {
	names := make([]string, 0, len(b.remaining))
	for name := range b.remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build finalizes the collection. It fails, naming every uncovered endpoint,
// unless all endpoints have received a handler.
func (b *Builder) Build() (Handlers, error) {
	if len(b.remaining) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, strings.Join(b.Remaining(), ", "))
	}
	out := make(Handlers, len(b.handlers))
	for name, h := range b.handlers {
		out[name] = h
	}
	return out, nil
}
