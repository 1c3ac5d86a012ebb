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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apimap-dev/apimap/shape"
)

func adapt(def Endpoint, h Handler, opts ...Option) TransportHandler {
	route := RouteInfo{Name: "test", Method: def.Method, Pattern: def.Path}
	return adaptHandler(route, def, h, newConfig(opts))
}

func TestAdapter_HandlerSeesDecodedBody(t *testing.T) {
	var seen any
	th := adapt(Endpoint{Method: POST, Path: "/count", Body: shape.Int()},
		func(c *Context) (any, error) {
			seen = c.Body()
			return nil, Skip
		})

	req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader("42"))
	req.Header.Set("Content-Type", "application/json")
	dispatch(t, th, req, nil)

	assert.Equal(t, int64(42), seen, "handler must receive the decoded value, not the wire value")
}

func TestAdapter_DecodeFailureSkipsHandler(t *testing.T) {
	invoked := false
	th := adapt(Endpoint{Method: POST, Path: "/count", Body: shape.Int()},
		func(c *Context) (any, error) {
			invoked = true
			return nil, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader(`"not a number"`))
	req.Header.Set("Content-Type", "application/json")
	res := dispatch(t, th, req, nil)

	assert.False(t, invoked, "handler side effects must be observably zero")
	require.Error(t, res.forwarded)

	var httpErr *Error
	require.ErrorAs(t, res.forwarded, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, 1, res.nextCalls, "decode failure flows through the error channel, never a panic")

	_, staged := res.ctx.Result()
	assert.False(t, staged)
}

func TestAdapter_ValueBecomesResponseBody(t *testing.T) {
	th := adapt(Endpoint{Method: GET, Path: "/items/{id}"},
		func(c *Context) (any, error) {
			return map[string]string{"name": "x"}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	res := dispatch(t, th, req, map[string]string{"id": "42"})

	body, staged := res.ctx.Result()
	require.True(t, staged)
	assert.Equal(t, map[string]string{"name": "x"}, body)
	assert.Equal(t, 0, res.nextCalls, "a produced response never also invokes next")
}

func TestAdapter_NilIsAConcreteBody(t *testing.T) {
	th := adapt(Endpoint{Method: GET, Path: "/nothing"}, nopHandler)

	res := dispatch(t, th, httptest.NewRequest(http.MethodGet, "/nothing", nil), nil)

	body, staged := res.ctx.Result()
	require.True(t, staged, "nil return with nil error is a concrete null body, not a deferral")
	assert.Nil(t, body)
	assert.Equal(t, 0, res.nextCalls)
}

func TestAdapter_SkipDefersExactlyOnce(t *testing.T) {
	th := adapt(Endpoint{Method: GET, Path: "/maybe"},
		func(c *Context) (any, error) {
			return nil, Skip
		})

	res := dispatch(t, th, httptest.NewRequest(http.MethodGet, "/maybe", nil), nil)

	assert.True(t, res.deferred)
	assert.NoError(t, res.forwarded)
	assert.Equal(t, 1, res.nextCalls, "next-middleware hook invoked exactly once")

	_, staged := res.ctx.Result()
	assert.False(t, staged, "no response body assignment on deferral")
}

func TestAdapter_HandlerErrorForwarded(t *testing.T) {
	boom := errors.New("boom")
	th := adapt(Endpoint{Method: GET, Path: "/explode"},
		func(c *Context) (any, error) {
			return nil, boom
		})

	res := dispatch(t, th, httptest.NewRequest(http.MethodGet, "/explode", nil), nil)

	assert.ErrorIs(t, res.forwarded, boom, "handler errors are forwarded unenriched")
	assert.False(t, res.deferred)

	_, staged := res.ctx.Result()
	assert.False(t, staged)
}

func TestAdapter_DirectWriteSuppressesStaging(t *testing.T) {
	th := adapt(Endpoint{Method: GET, Path: "/raw"},
		func(c *Context) (any, error) {
			c.ResponseWriter().WriteHeader(http.StatusNoContent)
			return "ignored", nil
		})

	res := dispatch(t, th, httptest.NewRequest(http.MethodGet, "/raw", nil), nil)

	_, staged := res.ctx.Result()
	assert.False(t, staged, "a directly written response is not overwritten")
	assert.Equal(t, http.StatusNoContent, res.rec.Code)
}

func TestAdapter_StatusOverride(t *testing.T) {
	th := adapt(Endpoint{Method: POST, Path: "/items"},
		func(c *Context) (any, error) {
			c.SetStatus(http.StatusCreated)
			return map[string]string{"id": "1"}, nil
		})

	res := dispatch(t, th, httptest.NewRequest(http.MethodPost, "/items", nil), nil)
	assert.Equal(t, http.StatusCreated, res.ctx.Status())
}

// recordingRecorder captures hook invocations for pipeline lifecycle tests.
type recordingRecorder struct {
	starts       int
	decodeErrors int
	ends         int
	lastErr      error
	lastDeferred bool
}

func (r *recordingRecorder) OnRequestStart(ctx context.Context, _ RouteInfo) (context.Context, any) {
	r.starts++
	return ctx, r
}

func (r *recordingRecorder) OnDecodeError(_ context.Context, _ any, _ RouteInfo, _ error) {
	r.decodeErrors++
}

func (r *recordingRecorder) OnRequestEnd(_ context.Context, _ any, _ RouteInfo, err error, deferred bool) {
	r.ends++
	r.lastErr = err
	r.lastDeferred = deferred
}

func TestAdapter_RecorderLifecycle(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		rec := &recordingRecorder{}
		th := adapt(Endpoint{Method: GET, Path: "/ok"}, nopHandler, WithRecorder(rec))
		dispatch(t, th, httptest.NewRequest(http.MethodGet, "/ok", nil), nil)

		assert.Equal(t, 1, rec.starts)
		assert.Equal(t, 0, rec.decodeErrors)
		assert.Equal(t, 1, rec.ends)
		assert.NoError(t, rec.lastErr)
	})

	t.Run("decode failure", func(t *testing.T) {
		rec := &recordingRecorder{}
		th := adapt(Endpoint{Method: POST, Path: "/count", Body: shape.Int()},
			nopHandler, WithRecorder(rec))

		req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader(`"x"`))
		req.Header.Set("Content-Type", "application/json")
		dispatch(t, th, req, nil)

		assert.Equal(t, 1, rec.starts)
		assert.Equal(t, 1, rec.decodeErrors)
		assert.Equal(t, 1, rec.ends, "pipeline always closes out")
	})

	t.Run("deferral", func(t *testing.T) {
		rec := &recordingRecorder{}
		th := adapt(Endpoint{Method: GET, Path: "/maybe"},
			func(c *Context) (any, error) { return nil, Skip },
			WithRecorder(rec))
		dispatch(t, th, httptest.NewRequest(http.MethodGet, "/maybe", nil), nil)

		assert.Equal(t, 1, rec.ends)
		assert.True(t, rec.lastDeferred)
	})
}
