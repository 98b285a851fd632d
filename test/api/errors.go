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
	"errors"
	"fmt"
)

// ErrMissingToken is returned when a login succeeds without an access token.
var ErrMissingToken = errors.New("login response has no access_token")

// RequestError reports a request that never produced a response, as
// opposed to a response with an unwanted status.
type RequestError struct {
	Method  string
	URL     string
	TraceID string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("http request failed: %s %s: %v (trace ID: %s)", e.Method, e.URL, e.Err, e.TraceID)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UnexpectedStatusError is returned by APIClient.Expect.
type UnexpectedStatusError struct {
	Method   string
	Path     string
	Expected int
	Actual   int
	Body     string
	TraceID  string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: expected %d, got %d, body: %s (trace ID: %s)", e.Expected, e.Actual, e.Body, e.TraceID)
}

// LoginError is returned by Bootstrap when a role profile cannot log in.
type LoginError struct {
	Role  Role
	Email string
	Err   error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("bootstrapping %s session for %s: %v", e.Role, e.Email, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// SchemaError reports a response that does not match the OpenAPI document.
type SchemaError struct {
	Method string
	Path   string
	Status int
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s %s returned %d not matching the OpenAPI document: %v", e.Method, e.Path, e.Status, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
