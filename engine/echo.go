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

package engine

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/apimap-dev/apimap"
)

// Echo adapts an *echo.Echo to the apimap.Engine boundary.
//
// Forwarded pipeline errors return into Echo's centralized HTTPErrorHandler;
// an *apimap.Error becomes the equivalent *echo.HTTPError so the framework
// renders the declared status. Echo's dispatch is terminal once a route
// matches, so a handler deferral (apimap.Skip) surfaces as echo.ErrNotFound,
// which middleware or a custom error handler can pick up.
func Echo(e *echo.Echo) apimap.Engine {
	return &echoEngine{echo: e}
}

type echoEngine struct {
	echo *echo.Echo
}

// Register adds the route under Echo's method-specific registration call.
// The method switch is closed over the supported set; anything else is an
// assembly failure, never a silent no-op.
func (g *echoEngine) Register(method apimap.Method, pattern string, h apimap.TransportHandler) error {
	fn := echoHandler(h)
	switch method {
	case apimap.GET:
		g.echo.GET(pattern, fn)
	case apimap.POST:
		g.echo.POST(pattern, fn)
	case apimap.PUT:
		g.echo.PUT(pattern, fn)
	case apimap.PATCH:
		g.echo.PATCH(pattern, fn)
	case apimap.DELETE:
		g.echo.DELETE(pattern, fn)
	default:
		return fmt.Errorf("%w: %q", apimap.ErrUnsupportedMethod, method)
	}
	return nil
}

// echoHandler bridges one adapted handler into an echo.HandlerFunc.
func echoHandler(h apimap.TransportHandler) echo.HandlerFunc {
	return func(ec echo.Context) error {
		names := ec.ParamNames()
		values := ec.ParamValues()
		params := make(map[string]string, len(names))
		for i, name := range names {
			if i < len(values) {
				params[name] = values[i]
			}
		}

		c := apimap.NewContext(ec.Response(), ec.Request(), params)

		var forwarded error
		deferred := false
		h(c, func(err error) {
			if err != nil {
				forwarded = err
				return
			}
			deferred = true
		})

		switch {
		case forwarded != nil:
			var httpErr *apimap.Error
			if errors.As(forwarded, &httpErr) {
				return echo.NewHTTPError(httpErr.Status, httpErr.Message).SetInternal(forwarded)
			}
			return forwarded
		case deferred:
			return echo.ErrNotFound
		default:
			if body, ok := c.Result(); ok {
				return ec.JSON(c.Status(), body)
			}
			// Handler wrote the response through the low-level escape,
			// or produced neither a value nor a deferral.
			return nil
		}
	}
}
