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

import "fmt"

// DecodeError describes a mismatch between a raw value and a shape. It is a
// structured fault, not a generic one: the field path, the expected form and
// the offending value survive for error responses and logs.
//
// Use errors.As to reach it through wrapped errors:
//
//	var de *shape.DecodeError
//	if errors.As(err, &de) {
//	    log.Printf("field %s: wanted %s", de.Path, de.Expected)
//	}
type DecodeError struct {
	// Path locates the failing value inside the raw input, for example
	// "items[2].price". Empty for the root value.
	Path string

	// Expected names the form the shape wanted ("int", "object", ...).
	Expected string

	// Value is the raw value that failed to decode.
	Value any

	// Message overrides the derived description when set.
	Message string
}

// Error implements the error interface with a human-readable description.
func (e *DecodeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	at := ""
	if e.Path != "" {
		at = " at " + e.Path
	}
	return fmt.Sprintf("decode%s: expected %s, got %s", at, e.Expected, describe(e.Value))
}

// describe renders a raw value for an error message without dumping
// arbitrarily large payloads.
func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		if len(v) > 32 {
			v = v[:32] + "..."
		}
		return fmt.Sprintf("string %q", v)
	case bool:
		return fmt.Sprintf("bool %v", v)
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("number %v", v)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// mismatch builds the standard DecodeError for a value of the wrong form.
func mismatch(path, expected string, value any) *DecodeError {
	return &DecodeError{Path: path, Expected: expected, Value: value}
}

// prefix prepends a path step to an error that is already a DecodeError,
// so nested shapes report full field paths.
func prefix(step string, err error) error {
	de, ok := err.(*DecodeError)
	if !ok {
		return &DecodeError{Path: step, Message: fmt.Sprintf("%s: %v", step, err)}
	}
	joined := step
	if de.Path != "" {
		if de.Path[0] == '[' {
			joined = step + de.Path
		} else {
			joined = step + "." + de.Path
		}
	}
	return &DecodeError{Path: joined, Expected: de.Expected, Value: de.Value, Message: de.Message}
}
