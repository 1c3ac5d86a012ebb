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

// Package engine adapts concrete routing engines to the apimap.Engine
// boundary.
//
// An adapter owns the glue between one framework and the request pipeline:
// it registers compiled patterns under the framework's method-specific calls,
// builds an apimap.Context from the framework's request state, runs the
// adapted handler, and serializes a staged response value as JSON. Forwarded
// errors go to the framework's own error-handling path, so exactly one place
// produces the wire-level error response.
//
//	e := echo.New()
//	table, err := apimap.Assemble(engine.Echo(e), api, handlers)
//
//	g := gin.New()
//	table, err := apimap.Assemble(engine.Gin(g), api, handlers)
package engine
