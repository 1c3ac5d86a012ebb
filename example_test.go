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

package apimap_test

import (
	"fmt"

	"github.com/apimap-dev/apimap"
	"github.com/apimap-dev/apimap/shape"
)

// ExampleNewAPI demonstrates declaring an endpoint map.
func ExampleNewAPI() {
	api := apimap.NewAPI().
		MustAdd("listItems", apimap.Endpoint{
			Method: apimap.GET,
			Path:   "/items",
		}).
		MustAdd("getItem", apimap.Endpoint{
			Method: apimap.GET,
			Path:   "/items/{id}",
		})

	fmt.Println(api.Names())
	// Output: [listItems getItem]
}

// ExampleCompilePath demonstrates path template compilation.
func ExampleCompilePath() {
	pattern, err := apimap.CompilePath("/users/{userId}/posts/{postId}")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(pattern)
	// Output: /users/:userId/posts/:postId
}

// ExampleAssemble demonstrates mapping an endpoint map onto an engine.
func ExampleAssemble() {
	api := apimap.NewAPI().MustAdd("createItem", apimap.Endpoint{
		Method: apimap.POST,
		Path:   "/items",
		Body:   shape.Object(map[string]shape.Shape{"name": shape.String()}, "name"),
	})

	handlers := apimap.Handlers{
		"createItem": func(c *apimap.Context) (any, error) {
			c.SetStatus(201)
			return c.Body(), nil
		},
	}

	table, err := apimap.Assemble(sinkEngine{}, api, handlers)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, r := range table.Routes() {
		fmt.Printf("%s %s %s\n", r.Name, r.Method, r.Pattern)
	}
	// Output: createItem POST /items
}

// ExampleNewBuilder demonstrates incremental handler attachment with
// full-coverage enforcement.
func ExampleNewBuilder() {
	api := apimap.NewAPI().
		MustAdd("ping", apimap.Endpoint{Method: apimap.GET, Path: "/ping"}).
		MustAdd("pong", apimap.Endpoint{Method: apimap.GET, Path: "/pong"})

	b := apimap.NewBuilder(api).
		MustHandle("ping", func(c *apimap.Context) (any, error) {
			return "pong", nil
		})

	fmt.Println(b.Remaining())

	if _, err := b.Build(); err != nil {
		fmt.Println("incomplete")
	}
	// Output:
	// [pong]
	// incomplete
}

// sinkEngine accepts every registration; examples need no live transport.
type sinkEngine struct{}

func (sinkEngine) Register(apimap.Method, string, apimap.TransportHandler) error {
	return nil
}
