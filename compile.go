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
	"fmt"
	"strings"
)

// CompilePath converts an abstract path template into the concrete pattern
// syntax the routing engines expect: every "{name}" placeholder segment
// becomes ":name". Literal segments and segment order are preserved exactly.
//
//	CompilePath("/publications/{category}") // "/publications/:category", nil
//
// Compilation fails if two placeholders share a name, if a placeholder is
// empty, or if braces appear anywhere but delimiting a whole segment. The
// function is pure; the assembler calls it once per endpoint and caches the
// result on the compiled route.
func CompilePath(template string) (string, error) {
	pattern, _, err := compilePath(template)
	return pattern, err
}

// compilePath is CompilePath plus the ordered placeholder names, which the
// assembler needs to line params up with their declared shapes.
func compilePath(template string) (string, []string, error) {
	segments := strings.Split(template, "/")
	var names []string
	seen := make(map[string]struct{})

	for i, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 1 {
			name := seg[1 : len(seg)-1]
			if name == "" {
				return "", nil, fmt.Errorf("%w: empty placeholder in %q", ErrMalformedTemplate, template)
			}
			if strings.ContainsAny(name, "{}") {
				return "", nil, fmt.Errorf("%w: nested braces in %q", ErrMalformedTemplate, template)
			}
			if _, dup := seen[name]; dup {
				return "", nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, template)
			}
			seen[name] = struct{}{}
			names = append(names, name)
			segments[i] = ":" + name
			continue
		}
		if strings.ContainsAny(seg, "{}") {
			return "", nil, fmt.Errorf("%w: stray brace in segment %q of %q", ErrMalformedTemplate, seg, template)
		}
	}

	return strings.Join(segments, "/"), names, nil
}

// joinPrefix prepends an optional path prefix to a compiled pattern,
// normalizing the joint so exactly one slash separates them.
func joinPrefix(prefix, pattern string) string {
	if prefix == "" {
		return pattern
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if pattern == "/" || pattern == "" {
		return prefix
	}
	return prefix + "/" + strings.TrimPrefix(pattern, "/")
}
