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

package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// structValidator checks `validate` tags on decoded structs. One instance is
// shared; it caches struct metadata and is safe for concurrent use.
var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Struct decodes a raw value into T via its json tags, then validates T's
// `validate` tags. Unknown fields in the raw value are rejected, so typos in
// client payloads fail loudly instead of silently dropping data.
//
//	type CreateItem struct {
//	    Name  string  `json:"name" validate:"required"`
//	    Price float64 `json:"price" validate:"gte=0"`
//	}
//
//	var createBody = shape.Struct[CreateItem]()
//
// The decoded value handed back through Shape.Decode is a T (not *T).
func Struct[T any]() Shape {
	return Func(func(raw any) (any, error) {
		var out T

		// Round-trip through JSON: the raw value is already the generic form
		// the wire parsers produce, and json tags define the field mapping.
		blob, err := json.Marshal(raw)
		if err != nil {
			return nil, &DecodeError{
				Expected: fmt.Sprintf("%T", out),
				Value:    raw,
				Message:  fmt.Sprintf("encode raw value: %v", err),
			}
		}
		dec := json.NewDecoder(bytes.NewReader(blob))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&out); err != nil {
			return nil, &DecodeError{
				Expected: fmt.Sprintf("%T", out),
				Value:    raw,
				Message:  err.Error(),
			}
		}

		if err := structValidator.Struct(&out); err != nil {
			var invalid *validator.InvalidValidationError
			if errors.As(err, &invalid) {
				// T has no validatable fields (e.g. a map type); nothing to check.
				return out, nil
			}
			return nil, validationError(out, err)
		}
		return out, nil
	})
}

// validationError flattens validator failures into one DecodeError message.
func validationError(decoded any, err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return &DecodeError{
			Expected: fmt.Sprintf("%T", decoded),
			Message:  err.Error(),
		}
	}
	parts := make([]string, 0, len(fields))
	for _, fe := range fields {
		parts = append(parts, fmt.Sprintf("field %s fails %q", fe.Field(), fe.Tag()))
	}
	return &DecodeError{
		Expected: fmt.Sprintf("%T", decoded),
		Message:  "validation failed: " + strings.Join(parts, "; "),
	}
}
