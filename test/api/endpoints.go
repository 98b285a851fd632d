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
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Category endpoints.

func (e *Endpoints) Categories() string {
	return "/categories"
}

func (e *Endpoints) CategoryTree() string {
	return "/categories/tree"
}

func (e *Endpoints) Category(categoryID string) string {
	return fmt.Sprintf("/categories/%s", url.PathEscape(categoryID))
}

// Product endpoints.

func (e *Endpoints) Products() string {
	return "/products"
}

func (e *Endpoints) Product(productID string) string {
	return fmt.Sprintf("/products/%s", url.PathEscape(productID))
}

// User endpoints.

func (e *Endpoints) Users() string {
	return "/users"
}

func (e *Endpoints) User(userID string) string {
	return fmt.Sprintf("/users/%s", url.PathEscape(userID))
}

func (e *Endpoints) Login() string {
	return "/users/login"
}

func (e *Endpoints) Logout() string {
	return "/users/logout"
}

func (e *Endpoints) Register() string {
	return "/users/register"
}

func (e *Endpoints) Me() string {
	return "/users/me"
}

func (e *Endpoints) ChangePassword() string {
	return "/users/change-password"
}

// ProductFilter selects products on the list endpoint. Zero values are omitted.
type ProductFilter struct {
	BrandID    string
	CategoryID string
	Rental     *bool
	Page       int
}

// ProductsQuery renders a product filter as query parameters.
func (e *Endpoints) ProductsQuery(filter ProductFilter) (url.Values, error) {
	query := url.Values{}

	if filter.BrandID != "" {
		if err := addQueryParam(query, "by_brand", filter.BrandID); err != nil {
			return nil, err
		}
	}

	if filter.CategoryID != "" {
		if err := addQueryParam(query, "by_category", filter.CategoryID); err != nil {
			return nil, err
		}
	}

	if filter.Rental != nil {
		if err := addQueryParam(query, "is_rental", *filter.Rental); err != nil {
			return nil, err
		}
	}

	if filter.Page > 0 {
		if err := addQueryParam(query, "page", filter.Page); err != nil {
			return nil, err
		}
	}

	return query, nil
}

// PageQuery selects a page of a paginated list.
func (e *Endpoints) PageQuery(page int) (url.Values, error) {
	query := url.Values{}

	if page > 0 {
		if err := addQueryParam(query, "page", page); err != nil {
			return nil, err
		}
	}

	return query, nil
}

// CategoryTreeQuery narrows the category tree to one slug.
func (e *Endpoints) CategoryTreeQuery(slug string) (url.Values, error) {
	query := url.Values{}

	if slug != "" {
		if err := addQueryParam(query, "by_category_slug", slug); err != nil {
			return nil, err
		}
	}

	return query, nil
}

// addQueryParam styles a parameter the way generated OpenAPI clients do
// (form style, exploded) and merges it into query.
func addQueryParam(query url.Values, name string, value interface{}) error {
	fragment, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("styling query parameter %s: %w", name, err)
	}

	parsed, err := url.ParseQuery(fragment)
	if err != nil {
		return fmt.Errorf("parsing query parameter %s: %w", name, err)
	}

	for key, values := range parsed {
		for _, v := range values {
			query.Add(key, v)
		}
	}

	return nil
}
