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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

type APIClient struct {
	baseURL   string
	client    *http.Client
	authToken string
	config    *TestConfig
	endpoints *Endpoints
	logger    logr.Logger
	limiter   *rate.Limiter
	validator *SchemaValidator
}

// Option customises an APIClient.
type Option func(*APIClient)

// WithLogger sets the logger requests and failures are reported to.
func WithLogger(logger logr.Logger) Option {
	return func(c *APIClient) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *APIClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithSchemaValidator validates every documented response against an OpenAPI document.
func WithSchemaValidator(validator *SchemaValidator) Option {
	return func(c *APIClient) {
		c.validator = validator
	}
}

func NewAPIClientWithConfig(config *TestConfig, options ...Option) *APIClient {
	return newAPIClientWithConfig(config, config.BaseURL, options...)
}

// common constructor logic.
func newAPIClientWithConfig(config *TestConfig, baseURL string, options ...Option) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
		logger:    logr.Discard(),
	}

	if config.RequestRate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestRate), 1)
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// WithToken returns a copy of the client that authenticates with token.
// The receiver is left untouched so shared clients stay immutable.
func (c *APIClient) WithToken(token string) *APIClient {
	clone := *c
	clone.authToken = token

	return &clone
}

// Anonymous returns a copy of the client that sends no credentials.
func (c *APIClient) Anonymous() *APIClient {
	return c.WithToken("")
}

// ForProducts returns a copy of the client rooted at the products API.
func (c *APIClient) ForProducts() *APIClient {
	clone := *c
	if c.config.ProductsURL != "" {
		clone.baseURL = strings.TrimSuffix(c.config.ProductsURL, "/")
	}

	return &clone
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// Request describes one call to the API. At most one of JSON, Form and Raw
// should be set.
type Request struct {
	Method string
	// Path is relative to the client base URL, or an absolute URL.
	Path   string
	Query  url.Values
	Header http.Header
	JSON   interface{}
	Form   url.Values
	// Raw is sent verbatim, which allows malformed payloads.
	Raw         []byte
	ContentType string
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

func (c *APIClient) resolveURL(path string, query url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = c.baseURL + path
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing request URL %q: %w", raw, err)
	}

	if len(query) > 0 {
		values := u.Query()

		for key, vs := range query {
			for _, v := range vs {
				values.Add(key, v)
			}
		}

		u.RawQuery = values.Encode()
	}

	return u.String(), nil
}

func encodeBody(req Request) (io.Reader, string, error) {
	switch {
	case req.Raw != nil:
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/json"
		}

		return bytes.NewReader(req.Raw), contentType, nil
	case req.Form != nil:
		return strings.NewReader(req.Form.Encode()), "application/x-www-form-urlencoded", nil
	case req.JSON != nil:
		body, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}

		return bytes.NewReader(body), "application/json", nil
	}

	return nil, "", nil
}

// Do performs a request and returns the response whatever its status code.
// An error means the request could not be completed; it is a *RequestError
// for transport failures and a *SchemaError when the response breaks the
// OpenAPI document.
//
//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) Do(ctx context.Context, req Request) (*Response, error) {
	fullURL, err := c.resolveURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	httpReq.Header.Set("Traceparent", traceParent)
	httpReq.Header.Set("Tracestate", "test-automation=ginkgo")
	httpReq.Header.Set("Accept", "application/json")

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	for key, values := range req.Header {
		httpReq.Header.Del(key)

		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for request slot: %w", err)
		}
	}

	traceID := extractTraceID(traceParent)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error(err, "http request failed", "method", req.Method, "path", req.Path, "duration", duration, "traceID", traceID)

		return nil, &RequestError{Method: req.Method, URL: fullURL, TraceID: traceID, Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error(err, "reading response body", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "traceID", traceID)

		return nil, &RequestError{Method: req.Method, URL: fullURL, TraceID: traceID, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if c.config.LogRequests {
		c.logger.Info("request", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "duration", duration, "traceID", traceID)
	}

	if c.config.DebugLogging {
		c.logger.Info("request headers", "method", req.Method, "path", req.Path, "headers", redactHeaders(httpReq.Header))
	}

	if c.config.LogResponses && len(respBody) > 0 {
		c.logger.Info("response body", "method", req.Method, "path", req.Path, "body", string(respBody))
	}

	response := &Response{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Duration:   duration,
		TraceID:    traceID,
	}

	if c.validator != nil {
		if err := c.validator.Validate(ctx, httpReq, response); err != nil {
			c.logger.Error(err, "response does not match OpenAPI document", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "traceID", traceID)

			return response, err
		}
	}

	return response, nil
}

// Expect performs a request and fails with an *UnexpectedStatusError unless
// the response has the expected status.
func (c *APIClient) Expect(ctx context.Context, req Request, expectedStatus int) (*Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode != expectedStatus {
		c.logger.Info("unexpected status", "method", req.Method, "path", req.Path, "expected", expectedStatus, "got", resp.StatusCode, "body", string(resp.Body), "traceID", resp.TraceID)

		return resp, &UnexpectedStatusError{
			Method:   req.Method,
			Path:     req.Path,
			Expected: expectedStatus,
			Actual:   resp.StatusCode,
			Body:     string(resp.Body),
			TraceID:  resp.TraceID,
		}
	}

	return resp, nil
}

func redactHeaders(header http.Header) http.Header {
	out := header.Clone()
	if out.Get("Authorization") != "" {
		out.Set("Authorization", "Bearer <redacted>")
	}

	return out
}

// Categories.

func (c *APIClient) ListCategories(ctx context.Context) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.Categories()})
}

// CategoryTree returns the category hierarchy, optionally narrowed to one slug.
func (c *APIClient) CategoryTree(ctx context.Context, slug string) (*Response, error) {
	query, err := c.endpoints.CategoryTreeQuery(slug)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.CategoryTree(), Query: query})
}

func (c *APIClient) GetCategory(ctx context.Context, categoryID string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.Category(categoryID)})
}

func (c *APIClient) CreateCategory(ctx context.Context, payload CategoryPayload) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: c.endpoints.Categories(), JSON: payload})
}

func (c *APIClient) UpdateCategory(ctx context.Context, categoryID string, payload CategoryPayload) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: c.endpoints.Category(categoryID), JSON: payload})
}

func (c *APIClient) DeleteCategory(ctx context.Context, categoryID string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: c.endpoints.Category(categoryID)})
}

// Products.

func (c *APIClient) ListProducts(ctx context.Context, filter ProductFilter) (*Response, error) {
	query, err := c.endpoints.ProductsQuery(filter)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.Products(), Query: query})
}

func (c *APIClient) GetProduct(ctx context.Context, productID string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.Product(productID)})
}

func (c *APIClient) CreateProduct(ctx context.Context, payload interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: c.endpoints.Products(), JSON: payload})
}

func (c *APIClient) UpdateProduct(ctx context.Context, productID string, payload interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: c.endpoints.Product(productID), JSON: payload})
}

func (c *APIClient) DeleteProduct(ctx context.Context, productID string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: c.endpoints.Product(productID)})
}

// Users.

// PostLogin submits credentials and returns the raw response.
func (c *APIClient) PostLogin(ctx context.Context, email, password string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   c.endpoints.Login(),
		JSON:   map[string]string{"email": email, "password": password},
	})
}

// Login exchanges credentials for a bearer token.
func (c *APIClient) Login(ctx context.Context, email, password string) (*Token, error) {
	resp, err := c.Expect(ctx, Request{
		Method: http.MethodPost,
		Path:   c.endpoints.Login(),
		JSON:   map[string]string{"email": email, "password": password},
	}, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", email, err)
	}

	var token Token
	if err := resp.Decode(&token); err != nil {
		return nil, err
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("logging in as %s: %w", email, ErrMissingToken)
	}

	return &token, nil
}

func (c *APIClient) Logout(ctx context.Context) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: c.endpoints.Logout()})
}

func (c *APIClient) Me(ctx context.Context) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.Me()})
}

func (c *APIClient) ListUsers(ctx context.Context, page int) (*Response, error) {
	query, err := c.endpoints.PageQuery(page)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.Users(), Query: query})
}

func (c *APIClient) GetUser(ctx context.Context, userID string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: c.endpoints.User(userID)})
}

func (c *APIClient) RegisterUser(ctx context.Context, payload RegisterPayload) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: c.endpoints.Register(), JSON: payload})
}

// UpdateUser sends account details form encoded, as the storefront does.
func (c *APIClient) UpdateUser(ctx context.Context, userID string, form url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: c.endpoints.User(userID), Form: form})
}

func (c *APIClient) DeleteUser(ctx context.Context, userID string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: c.endpoints.User(userID)})
}

func (c *APIClient) ChangePassword(ctx context.Context, current, replacement, confirmation string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   c.endpoints.ChangePassword(),
		JSON: map[string]string{
			"current_password":          current,
			"new_password":              replacement,
			"new_password_confirmation": confirmation,
		},
	})
}
