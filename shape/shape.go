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

// Package shape is the decoding service for untrusted request values.
//
// A Shape turns a raw wire value (the output of JSON/YAML/TOML/MessagePack
// parsing, a query-string map, or a raw path-parameter string) into a typed
// value, or fails with a structured *DecodeError. Shapes are pure and safe
// for concurrent use; one shape instance decodes many requests.
//
// Primitives accept both native wire types and their string renderings, so
// the same shape works for a JSON body field and for a query or path
// parameter that arrives as text:
//
//	shape.Int().Decode(float64(42)) // int64(42)
//	shape.Int().Decode("42")        // int64(42)
//	shape.Int().Decode("forty-two") // *DecodeError
//
// Composite shapes compose: shape.Object, shape.List, and the generic
// shape.Struct for decoding into tagged Go structs.
package shape

import (
	"encoding/json"
	"math"
	"strconv"
)

// Shape decodes a raw untrusted value into a typed value. Decode never
// panics; every mismatch is a returned error, conventionally a *DecodeError.
type Shape interface {
	Decode(raw any) (any, error)
}

// Func adapts a plain function to the Shape interface.
type Func func(raw any) (any, error)

// Decode implements Shape.
func (f Func) Decode(raw any) (any, error) {
	return f(raw)
}

// Any accepts every raw value unchanged, including nil.
func Any() Shape {
	return Func(func(raw any) (any, error) {
		return raw, nil
	})
}

// String accepts string values.
func String() Shape {
	return Func(func(raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch("", "string", raw)
		}
		return s, nil
	})
}

// Int accepts integral numbers as int64. JSON numbers arrive as float64 and
// are rejected when they carry a fractional part; decimal strings are
// accepted for query and path parameters.
func Int() Shape {
	return Func(func(raw any) (any, error) {
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint8:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case uint:
			if uint64(v) > math.MaxInt64 {
				return nil, mismatch("", "int", raw)
			}
			return int64(v), nil
		case uint64:
			if v > math.MaxInt64 {
				return nil, mismatch("", "int", raw)
			}
			return int64(v), nil
		case float64:
			if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
				return nil, mismatch("", "int", raw)
			}
			return int64(v), nil
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, mismatch("", "int", raw)
			}
			return n, nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, mismatch("", "int", raw)
			}
			return n, nil
		default:
			return nil, mismatch("", "int", raw)
		}
	})
}

// Float accepts numbers as float64, including numeric strings.
func Float() Shape {
	return Func(func(raw any) (any, error) {
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, mismatch("", "number", raw)
			}
			return f, nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, mismatch("", "number", raw)
			}
			return f, nil
		default:
			return nil, mismatch("", "number", raw)
		}
	})
}

// Bool accepts booleans and the string forms strconv.ParseBool understands.
func Bool() Shape {
	return Func(func(raw any) (any, error) {
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, mismatch("", "bool", raw)
			}
			return b, nil
		default:
			return nil, mismatch("", "bool", raw)
		}
	})
}

// Object decodes a raw map field-by-field. Declared fields decode through
// their shapes; fields listed in required must be present. Undeclared keys
// pass through untouched, so a query map with extra parameters still decodes.
func Object(fields map[string]Shape, required ...string) Shape {
	return Func(func(raw any) (any, error) {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, mismatch("", "object", raw)
		}
		for _, name := range required {
			if _, present := m[name]; !present {
				return nil, &DecodeError{Path: name, Expected: "required field", Value: nil}
			}
		}
		out := make(map[string]any, len(m))
		for key, value := range m {
			s, declared := fields[key]
			if !declared {
				out[key] = value
				continue
			}
			decoded, err := s.Decode(value)
			if err != nil {
				return nil, prefix(key, err)
			}
			out[key] = decoded
		}
		return out, nil
	})
}

// List decodes a raw array element-by-element through elem.
func List(elem Shape) Shape {
	return Func(func(raw any) (any, error) {
		arr, ok := raw.([]any)
		if !ok {
			return nil, mismatch("", "array", raw)
		}
		out := make([]any, len(arr))
		for i, value := range arr {
			decoded, err := elem.Decode(value)
			if err != nil {
				return nil, prefix("["+strconv.Itoa(i)+"]", err)
			}
			out[i] = decoded
		}
		return out, nil
	})
}
