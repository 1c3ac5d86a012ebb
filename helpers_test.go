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
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeEngine records registrations so assembly can be inspected without a
// real routing framework.
type fakeEngine struct {
	registrations []registration
}

type registration struct {
	method  Method
	pattern string
	handler TransportHandler
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{}
}

func (e *fakeEngine) Register(method Method, pattern string, h TransportHandler) error {
	e.registrations = append(e.registrations, registration{method, pattern, h})
	return nil
}

func (e *fakeEngine) find(method Method, pattern string) (registration, bool) {
	for _, r := range e.registrations {
		if r.method == method && r.pattern == pattern {
			return r, true
		}
	}
	return registration{}, false
}

// dispatchResult captures the terminal outcome of one pipeline invocation.
type dispatchResult struct {
	ctx       *Context
	rec       *httptest.ResponseRecorder
	forwarded error
	deferred  bool
	nextCalls int
}

// dispatch drives a transport handler the way an engine would: build a
// Context over a recorder, invoke, and capture what flowed to next.
func dispatch(t *testing.T, h TransportHandler, req *http.Request, params map[string]string) dispatchResult {
	t.Helper()
	rec := httptest.NewRecorder()
	c := NewContext(rec, req, params)

	res := dispatchResult{ctx: c, rec: rec}
	h(c, func(err error) {
		res.nextCalls++
		if err != nil {
			res.forwarded = err
			return
		}
		res.deferred = true
	})
	return res
}

func nopHandler(*Context) (any, error) {
	return nil, nil
}
