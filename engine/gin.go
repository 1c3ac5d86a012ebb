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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apimap-dev/apimap"
)

// Gin adapts a *gin.Engine to the apimap.Engine boundary.
//
// A handler deferral (apimap.Skip) maps onto gin's native chain continuation,
// c.Next(). Forwarded pipeline errors are attached to the gin context's error
// list for error-collecting middleware, and the request is aborted with the
// error's declared status (500 when the error carries none).
func Gin(g *gin.Engine) apimap.Engine {
	return &ginEngine{gin: g}
}

type ginEngine struct {
	gin *gin.Engine
}

// Register adds the route under gin's method-specific registration call.
// The method switch is closed over the supported set; anything else is an
// assembly failure, never a silent no-op.
func (g *ginEngine) Register(method apimap.Method, pattern string, h apimap.TransportHandler) error {
	fn := ginHandler(h)
	switch method {
	case apimap.GET:
		g.gin.GET(pattern, fn)
	case apimap.POST:
		g.gin.POST(pattern, fn)
	case apimap.PUT:
		g.gin.PUT(pattern, fn)
	case apimap.PATCH:
		g.gin.PATCH(pattern, fn)
	case apimap.DELETE:
		g.gin.DELETE(pattern, fn)
	default:
		return fmt.Errorf("%w: %q", apimap.ErrUnsupportedMethod, method)
	}
	return nil
}

// ginHandler bridges one adapted handler into a gin.HandlerFunc.
func ginHandler(h apimap.TransportHandler) gin.HandlerFunc {
	return func(gc *gin.Context) {
		params := make(map[string]string, len(gc.Params))
		for _, p := range gc.Params {
			params[p.Key] = p.Value
		}

		c := apimap.NewContext(gc.Writer, gc.Request, params)

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
			_ = gc.Error(forwarded)
			status := http.StatusInternalServerError
			message := "internal server error"
			var httpErr *apimap.Error
			if errors.As(forwarded, &httpErr) {
				status = httpErr.Status
				message = httpErr.Message
			}
			gc.AbortWithStatusJSON(status, gin.H{"error": message})
		case deferred:
			gc.Next()
		default:
			if body, ok := c.Result(); ok {
				gc.JSON(c.Status(), body)
			}
		}
	}
}
