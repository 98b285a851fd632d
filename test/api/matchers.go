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
	"fmt"

	"github.com/onsi/gomega"
	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"
)

// HaveStatus succeeds when a *Response carries the expected status code.
// Failure messages include the body and trace ID.
func HaveStatus(expected int) types.GomegaMatcher {
	return &statusMatcher{expected: expected}
}

type statusMatcher struct {
	expected int
}

func (m *statusMatcher) Match(actual interface{}) (bool, error) {
	resp, ok := actual.(*Response)
	if !ok || resp == nil {
		return false, fmt.Errorf("HaveStatus matcher expects a *api.Response, got:\n%s", format.Object(actual, 1))
	}

	return resp.StatusCode == m.expected, nil
}

func (m *statusMatcher) FailureMessage(actual interface{}) string {
	resp, _ := actual.(*Response)

	return fmt.Sprintf("Expected %s %s to return status %d, got %d\nbody: %s\ntrace ID: %s", resp.Method, resp.Path, m.expected, resp.StatusCode, string(resp.Body), resp.TraceID)
}

func (m *statusMatcher) NegatedFailureMessage(actual interface{}) string {
	resp, _ := actual.(*Response)

	return fmt.Sprintf("Expected %s %s not to return status %d\nbody: %s\ntrace ID: %s", resp.Method, resp.Path, m.expected, string(resp.Body), resp.TraceID)
}

// HaveJSONField applies a matcher to the body value at path, see Response.Get.
// A non-matcher expectation is compared with Equal.
func HaveJSONField(path string, expected interface{}) types.GomegaMatcher {
	matcher, ok := expected.(types.GomegaMatcher)
	if !ok {
		matcher = gomega.Equal(expected)
	}

	return &jsonFieldMatcher{path: path, matcher: matcher}
}

type jsonFieldMatcher struct {
	path    string
	matcher types.GomegaMatcher
	value   interface{}
}

func (m *jsonFieldMatcher) Match(actual interface{}) (bool, error) {
	resp, ok := actual.(*Response)
	if !ok || resp == nil {
		return false, fmt.Errorf("HaveJSONField matcher expects a *api.Response, got:\n%s", format.Object(actual, 1))
	}

	m.value = resp.Value(m.path)

	return m.matcher.Match(m.value)
}

func (m *jsonFieldMatcher) FailureMessage(_ interface{}) string {
	return fmt.Sprintf("Value at %q did not match:\n%s", m.path, m.matcher.FailureMessage(m.value))
}

func (m *jsonFieldMatcher) NegatedFailureMessage(_ interface{}) string {
	return fmt.Sprintf("Value at %q matched unexpectedly:\n%s", m.path, m.matcher.NegatedFailureMessage(m.value))
}
