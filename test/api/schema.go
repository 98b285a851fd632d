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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// SchemaValidator checks responses against an OpenAPI document. Only routes
// and status codes the document describes are validated; everything else,
// such as the deliberate 404 and 405 probes, passes through.
type SchemaValidator struct {
	router routers.Router
}

// LoadSchemaValidator loads an OpenAPI document from a file path or URL and
// serves it from baseURL.
func LoadSchemaValidator(ctx context.Context, source, baseURL string) (*SchemaValidator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	var (
		doc *openapi3.T
		err error
	)

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		var location *url.URL

		location, err = url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parsing OpenAPI location: %w", err)
		}

		doc, err = loader.LoadFromURI(location)
	} else {
		doc, err = loader.LoadFromFile(source)
	}

	if err != nil {
		return nil, fmt.Errorf("loading OpenAPI document %s: %w", source, err)
	}

	return NewSchemaValidator(ctx, doc, baseURL)
}

// NewSchemaValidator builds a validator from a parsed document. The document's
// servers are replaced by baseURL so that it matches the environment under test.
func NewSchemaValidator(ctx context.Context, doc *openapi3.T, baseURL string) (*SchemaValidator, error) {
	doc.Servers = openapi3.Servers{{URL: strings.TrimSuffix(baseURL, "/")}}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating OpenAPI document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building OpenAPI router: %w", err)
	}

	return &SchemaValidator{router: router}, nil
}

// Validate checks resp, the response to req, if the document describes it.
func (v *SchemaValidator) Validate(ctx context.Context, req *http.Request, resp *Response) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		//nolint:nilerr // undocumented routes are out of scope
		return nil
	}

	if route.Operation == nil || route.Operation.Responses == nil || route.Operation.Responses.Status(resp.StatusCode) == nil {
		return nil
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   io.NopCloser(bytes.NewReader(resp.Body)),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return &SchemaError{Method: resp.Method, Path: resp.Path, Status: resp.StatusCode, Err: err}
	}

	return nil
}
