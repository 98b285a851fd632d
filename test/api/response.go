/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	TraceID    string

	parsed *ldvalue.Value
}

// JSON returns the body parsed as a JSON value, or null if it is not JSON.
func (r *Response) JSON() ldvalue.Value {
	if r.parsed == nil {
		value := ldvalue.Null()
		if len(r.Body) > 0 {
			value = ldvalue.Parse(r.Body)
		}

		r.parsed = &value
	}

	return *r.parsed
}

// Get looks up a dot separated path in the body. Keys applied to an array are
// applied to each element, so "data.brand.id" on a paginated list yields the
// list of every element's brand id. Numeric segments index arrays.
func (r *Response) Get(path string) ldvalue.Value {
	return lookup(r.JSON(), path)
}

// Has reports whether the path resolves to a non-null value.
func (r *Response) Has(path string) bool {
	return !r.Get(path).IsNull()
}

// String returns the value at path rendered as a string. Numbers are
// formatted without a trailing fraction when integral.
func (r *Response) String(path string) string {
	return scalarString(r.Get(path))
}

func (r *Response) Bool(path string) bool {
	return r.Get(path).BoolValue()
}

func (r *Response) Int(path string) int {
	return r.Get(path).IntValue()
}

// Strings returns the value at path as a list of strings. A scalar yields a
// single element list and null yields nil.
func (r *Response) Strings(path string) []string {
	value := r.Get(path)

	switch value.Type() {
	case ldvalue.NullType:
		return nil
	case ldvalue.ArrayType:
		out := make([]string, 0, value.Count())
		for i := 0; i < value.Count(); i++ {
			out = append(out, scalarString(value.GetByIndex(i)))
		}

		return out
	default:
		return []string{scalarString(value)}
	}
}

// Value returns the value at path as plain Go data for use with matchers.
func (r *Response) Value(path string) interface{} {
	return r.Get(path).AsArbitraryValue()
}

// Decode unmarshals the whole body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unmarshaling %s %s response: %w", r.Method, r.Path, err)
	}

	return nil
}

func lookup(value ldvalue.Value, path string) ldvalue.Value {
	if path == "" {
		return value
	}

	for _, segment := range strings.Split(path, ".") {
		value = step(value, segment)
	}

	return value
}

func step(value ldvalue.Value, segment string) ldvalue.Value {
	switch value.Type() {
	case ldvalue.ObjectType:
		return value.GetByKey(segment)
	case ldvalue.ArrayType:
		if index, err := strconv.Atoi(segment); err == nil {
			return value.GetByIndex(index)
		}

		builder := ldvalue.ArrayBuild()

		for i := 0; i < value.Count(); i++ {
			element := step(value.GetByIndex(i), segment)
			if element.IsNull() {
				continue
			}

			// Nested arrays are flattened, as GPath does.
			if element.Type() == ldvalue.ArrayType {
				for j := 0; j < element.Count(); j++ {
					builder.Add(element.GetByIndex(j))
				}

				continue
			}

			builder.Add(element)
		}

		return builder.Build()
	default:
		return ldvalue.Null()
	}
}

func scalarString(value ldvalue.Value) string {
	switch value.Type() {
	case ldvalue.StringType:
		return value.StringValue()
	case ldvalue.NumberType:
		if value.IsInt() {
			return strconv.Itoa(value.IntValue())
		}

		return strconv.FormatFloat(value.Float64Value(), 'f', -1, 64)
	case ldvalue.BoolType:
		return strconv.FormatBool(value.BoolValue())
	case ldvalue.NullType:
		return ""
	default:
		return value.JSONString()
	}
}
