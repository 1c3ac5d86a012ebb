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
	"errors"
	"fmt"
	"net/http"
)

// Assembly and definition errors. All of them are fatal at startup: a router
// whose assembly fails must not accept traffic.
var (
	// ErrAPIFrozen indicates an Add on an API that has already been assembled.
	ErrAPIFrozen = errors.New("api definition is frozen")

	// ErrInvalidEndpoint indicates a malformed endpoint declaration.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrDuplicateEndpoint indicates two endpoints declared under one name.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint name")

	// ErrUnknownEndpoint indicates a handler supplied for a name the API does not declare.
	ErrUnknownEndpoint = errors.New("unknown endpoint name")

	// ErrMissingHandler indicates a declared endpoint with no handler at assembly.
	ErrMissingHandler = errors.New("missing handler")

	// ErrDuplicateHandler indicates a second handler supplied for one endpoint.
	ErrDuplicateHandler = errors.New("duplicate handler")

	// ErrNilHandler indicates a nil handler supplied for an endpoint.
	ErrNilHandler = errors.New("nil handler")

	// ErrNilEngine indicates assembly against a nil routing engine.
	ErrNilEngine = errors.New("nil routing engine")

	// ErrUnsupportedMethod indicates an endpoint method outside the supported set.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrDuplicateParam indicates two path placeholders sharing a name.
	ErrDuplicateParam = errors.New("duplicate path parameter")

	// ErrMalformedTemplate indicates a path template that cannot be compiled.
	ErrMalformedTemplate = errors.New("malformed path template")
)

// Request pipeline errors.
var (
	// ErrUnsupportedContentType indicates a request body in a format the
	// sanitizer cannot parse.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// Skip is the sentinel a handler returns to defer the request to the next
// middleware instead of producing a response. No response body is staged and
// the engine's continuation hook is invoked exactly once.
//
//	func maybeServe(c *apimap.Context) (any, error) {
//	    if !canServe(c) {
//	        return nil, apimap.Skip
//	    }
//	    return load(c), nil
//	}
//
// Note that (nil, nil) is not a deferral: it is a concrete null response body.
var Skip = errors.New("apimap: skip to next middleware")

// Error is the HTTP exception carried through the pipeline's error channel.
// Engine glue translates it into the wire-level error response; decode
// failures surface as an *Error with status 400.
type Error struct {
	// Status is the HTTP status code of the wire response.
	Status int

	// Message is the human-readable description sent to the client.
	Message string

	// Internal is the underlying cause, if any. It is never written to the
	// wire; use errors.As / Unwrap to reach it.
	Internal error
}

// NewError constructs an Error with the given status and message.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// badRequest wraps a decode failure as the client error the spec of the
// pipeline demands: HTTP 400 carrying the original failure's message.
func badRequest(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: err.Error(), Internal: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("http %d: %s: %v", e.Status, e.Message, e.Internal)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Internal
}

// HTTPStatus returns the wire status code. Generic error formatters resolve
// response statuses through this method.
func (e *Error) HTTPStatus() int {
	return e.Status
}
