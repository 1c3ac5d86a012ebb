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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_AnyOrderCompleteCoverage(t *testing.T) {
	api := crudAPI()
	b := NewBuilder(api)

	// Reverse of definition order: order must not matter.
	names := api.Names()
	for i := len(names) - 1; i >= 0; i-- {
		require.NoError(t, b.Handle(names[i], nopHandler))
	}
	assert.Empty(t, b.Remaining())

	handlers, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, handlers, api.Len())
}

func TestBuilder_DuplicateRejectedImmediately(t *testing.T) {
	b := NewBuilder(crudAPI())
	require.NoError(t, b.Handle("getItem", nopHandler))

	err := b.Handle("getItem", nopHandler)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateHandler)
}

func TestBuilder_UnknownEndpoint(t *testing.T) {
	err := NewBuilder(crudAPI()).Handle("nonsense", nopHandler)
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestBuilder_NilHandler(t *testing.T) {
	err := NewBuilder(crudAPI()).Handle("getItem", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestBuilder_BuildRequiresFullCoverage(t *testing.T) {
	b := NewBuilder(crudAPI())
	require.NoError(t, b.Handle("getItem", nopHandler))
	require.NoError(t, b.Handle("listItems", nopHandler))

	assert.Equal(t, []string{"createItem", "deleteItem", "replaceItem"}, b.Remaining())

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingHandler)
	assert.Contains(t, err.Error(), "createItem")
	assert.Contains(t, err.Error(), "deleteItem")
	assert.Contains(t, err.Error(), "replaceItem")
}

func TestBuilder_MustHandlePanicsOnDuplicate(t *testing.T) {
	b := NewBuilder(crudAPI()).MustHandle("getItem", nopHandler)
	assert.Panics(t, func() {
		b.MustHandle("getItem", nopHandler)
	})
}

// A router assembled from Builder output behaves identically to one
// assembled from a literal handler map over the same definitions.
func TestBuilder_EquivalentToHashAssembly(t *testing.T) {
	newAPI := func() *API {
		return NewAPI().
			MustAdd("getItem", Endpoint{Method: GET, Path: "/items/{id}"}).
			MustAdd("createItem", Endpoint{Method: POST, Path: "/items"})
	}
	getItem := func(c *Context) (any, error) {
		return map[string]string{"id": c.Param("id")}, nil
	}
	createItem := func(c *Context) (any, error) {
		c.SetStatus(http.StatusCreated)
		return nil, nil
	}

	b := NewBuilder(newAPI())
	b.MustHandle("createItem", createItem)
	b.MustHandle("getItem", getItem)
	built, err := b.Build()
	require.NoError(t, err)

	hashEng, builderEng := newFakeEngine(), newFakeEngine()
	_, err = Assemble(hashEng, newAPI(), Handlers{"getItem": getItem, "createItem": createItem})
	require.NoError(t, err)
	_, err = Assemble(builderEng, newAPI(), built)
	require.NoError(t, err)

	require.Len(t, builderEng.registrations, len(hashEng.registrations))
	for i := range hashEng.registrations {
		assert.Equal(t, hashEng.registrations[i].method, builderEng.registrations[i].method)
		assert.Equal(t, hashEng.registrations[i].pattern, builderEng.registrations[i].pattern)
	}

	for _, eng := range []*fakeEngine{hashEng, builderEng} {
		reg, ok := eng.find(GET, "/items/:id")
		require.True(t, ok)

		req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
		res := dispatch(t, reg.handler, req, map[string]string{"id": "7"})

		body, staged := res.ctx.Result()
		require.True(t, staged)
		assert.Equal(t, map[string]string{"id": "7"}, body)
	}
}
