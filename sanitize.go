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
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// sanitizeRequest decodes the raw body and query of one request against the
// endpoint's declared shapes, mutating the Context in place. Body is decoded
// before query, and both must succeed before the handler may run.
//
// Every failure, from an unparseable wire body to a shape mismatch, comes
// back as an *Error with status 400 wrapping the original failure's message;
// nothing escapes as an unhandled fault.
func sanitizeRequest(def Endpoint, c *Context, cfg *config) error {
	raw, err := readBody(c.request)
	if err != nil {
		return badRequest(err)
	}
	if raw != nil {
		if def.Body == nil {
			// Body present but undeclared: ignored, not part of the typed view.
			c.body = nil
		} else {
			v, err := def.Body.Decode(raw)
			if err != nil {
				return badRequest(err)
			}
			c.body = v
		}
	}

	if q := c.request.URL.Query(); len(q) > 0 {
		if def.Query == nil {
			c.query = nil
		} else {
			v, err := def.Query.Decode(queryValue(q))
			if err != nil {
				return badRequest(err)
			}
			c.query = v
		}
	}

	if cfg.decodeParams {
		return sanitizeParams(def, c)
	}
	return nil
}

// sanitizeParams applies declared param shapes to the raw path parameter
// strings. Off by default: the engine already delivers params as strings, and
// the core contract keeps them that way unless WithParamDecoding opts in.
func sanitizeParams(def Endpoint, c *Context) error {
	for name, raw := range c.params {
		s := def.paramShape(name)
		if s == nil {
			continue
		}
		v, err := s.Decode(raw)
		if err != nil {
			return badRequest(fmt.Errorf("param %q: %w", name, err))
		}
		if c.decodedParams == nil {
			c.decodedParams = make(map[string]any, len(c.params))
		}
		c.decodedParams[name] = v
	}
	return nil
}

// readBody drains the request body and parses it into a raw value by
// Content-Type. An absent or empty body yields (nil, nil). JSON is the
// default when no Content-Type is set.
func readBody(r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	ct := r.Header.Get("Content-Type")
	mediaType := ""
	if ct != "" {
		mediaType, _, err = mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, ct)
		}
	}

	var raw any
	switch {
	case mediaType == "" || mediaType == "application/json" || mediaType == "text/json" ||
		strings.HasSuffix(mediaType, "+json"):
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json body: %w", err)
		}
	case mediaType == "application/yaml" || mediaType == "application/x-yaml" ||
		mediaType == "text/yaml" || strings.HasSuffix(mediaType, "+yaml"):
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml body: %w", err)
		}
	case mediaType == "application/toml" || mediaType == "text/x-toml":
		m := make(map[string]any)
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse toml body: %w", err)
		}
		raw = m
	case mediaType == "application/msgpack" || mediaType == "application/x-msgpack":
		if err := msgpack.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse msgpack body: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, mediaType)
	}
	return raw, nil
}

// queryValue flattens url.Values into the raw map handed to the query shape:
// single-valued keys become strings, repeated keys become []string.
func queryValue(q url.Values) any {
	m := make(map[string]any, len(q))
	for key, vals := range q {
		if len(vals) == 1 {
			m[key] = vals[0]
			continue
		}
		m[key] = append([]string(nil), vals...)
	}
	return m
}
