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

import "net/http"

// Context is the live, per-request view handed to a handler. It wraps the
// inbound request/response pair, the path parameters extracted by the routing
// engine, and the body/query values the sanitizer has already decoded against
// the endpoint's declared shapes.
//
// A Context belongs to exactly one in-flight request pipeline and is never
// shared across requests; no locking is needed on any of its methods.
type Context struct {
	writer  *responseWriter
	request *http.Request
	params  map[string]string

	// populated by the sanitizer before the handler runs
	body          any
	query         any
	decodedParams map[string]any

	// response staging, consumed by the engine glue
	status    int
	result    any
	hasResult bool
}

// NewContext wraps one request/response pair. Engine glue calls this once per
// matched request; params holds the raw path parameter strings the engine
// extracted.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	if params == nil {
		params = map[string]string{}
	}
	return &Context{
		writer:  &responseWriter{ResponseWriter: w},
		request: r,
		params:  params,
		status:  http.StatusOK,
	}
}

// Request returns the inbound HTTP request.
func (c *Context) Request() *http.Request {
	return c.request
}

// ResponseWriter is the low-level escape for handlers that write the wire
// response directly. Once anything has been written through it, the adapter
// no longer stages the handler's return value as the response body.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.writer
}

// Param returns the raw string value of a path parameter, as extracted by the
// routing engine. Path parameters are not re-decoded unless param decoding is
// enabled at assembly; see WithParamDecoding.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// Params returns the path parameter map. Treat it as read-only.
func (c *Context) Params() map[string]string {
	return c.params
}

// ParamValue returns the decoded value of a path parameter when the endpoint
// declares a shape for it and param decoding is enabled; otherwise it returns
// the raw string.
func (c *Context) ParamValue(name string) any {
	if v, ok := c.decodedParams[name]; ok {
		return v
	}
	return c.params[name]
}

// Body returns the decoded request body, or nil when the endpoint declares no
// body shape or the request carried no body.
func (c *Context) Body() any {
	return c.body
}

// Query returns the decoded query value, or nil when the endpoint declares no
// query shape or the request carried no query string.
func (c *Context) Query() any {
	return c.query
}

// SetStatus sets the status code used when the staged response body is
// serialized. The default is 200.
func (c *Context) SetStatus(code int) {
	c.status = code
}

// Status returns the staged response status.
func (c *Context) Status() int {
	return c.status
}

// Result returns the staged response body and whether one was staged.
// A staged nil is a concrete JSON null, distinct from "nothing staged".
func (c *Context) Result() (any, bool) {
	return c.result, c.hasResult
}

// Written reports whether the handler has already written the response
// through the low-level escape.
func (c *Context) Written() bool {
	return c.writer.wrote
}

// responseWriter tracks whether anything reached the wire, so the adapter can
// tell a staged-response pipeline from a handler that wrote directly.
type responseWriter struct {
	http.ResponseWriter
	wrote bool
}

func (w *responseWriter) WriteHeader(code int) {
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
