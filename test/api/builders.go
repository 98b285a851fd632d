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
	"strings"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"k8s.io/utils/ptr"
)

func generateRandomName(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	return fmt.Sprintf("%s-%s", prefix, suffix)
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// CategoryPayload is the body of category create and update requests.
type CategoryPayload struct {
	ID       *string `json:"id,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
}

// CategoryPayloadBuilder builds category payloads with unique names and slugs.
type CategoryPayloadBuilder struct {
	payload CategoryPayload
}

// NewCategoryPayload creates a builder for "new category <n>" / "new-category-<n>".
func NewCategoryPayload() *CategoryPayloadBuilder {
	return NewCategoryPayloadWithPrefix("new category")
}

// NewCategoryPayloadWithPrefix derives the slug from the name so both stay in step.
func NewCategoryPayloadWithPrefix(prefix string) *CategoryPayloadBuilder {
	name := generateRandomName(prefix)

	return &CategoryPayloadBuilder{
		payload: CategoryPayload{
			Name: name,
			Slug: slugify(name),
		},
	}
}

func (b *CategoryPayloadBuilder) WithName(name string) *CategoryPayloadBuilder {
	b.payload.Name = name
	return b
}

func (b *CategoryPayloadBuilder) WithSlug(slug string) *CategoryPayloadBuilder {
	b.payload.Slug = slug
	return b
}

// WithParent nests the category under parentID.
func (b *CategoryPayloadBuilder) WithParent(parentID string) *CategoryPayloadBuilder {
	b.payload.ParentID = ptr.To(parentID)
	return b
}

// WithEmptyID sends an explicit empty id, as the storefront admin UI does.
func (b *CategoryPayloadBuilder) WithEmptyID() *CategoryPayloadBuilder {
	b.payload.ID = ptr.To("")
	return b
}

func (b *CategoryPayloadBuilder) Build() CategoryPayload {
	return b.payload
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// ProductPayload is the body of product create and update requests.
type ProductPayload struct {
	Name            string  `json:"name,omitempty"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price,omitempty"`
	CategoryID      string  `json:"category_id,omitempty"`
	BrandID         string  `json:"brand_id,omitempty"`
	ProductImageID  string  `json:"product_image_id,omitempty"`
	IsLocationOffer *bool   `json:"is_location_offer,omitempty"`
	IsRental        *bool   `json:"is_rental,omitempty"`
}

// ProductPayloadBuilder builds product payloads referencing configured fixtures.
type ProductPayloadBuilder struct {
	payload ProductPayload
}

// NewProductPayload creates a complete product payload from the shared fixture ids.
func NewProductPayload(config *TestConfig) *ProductPayloadBuilder {
	return &ProductPayloadBuilder{
		payload: ProductPayload{
			Name:            generateRandomName("New Product"),
			Description:     "Product description",
			Price:           19.99,
			CategoryID:      config.CategoryID,
			BrandID:         config.BrandID,
			ProductImageID:  config.ProductImageID,
			IsLocationOffer: ptr.To(false),
			IsRental:        ptr.To(false),
		},
	}
}

func (b *ProductPayloadBuilder) WithName(name string) *ProductPayloadBuilder {
	b.payload.Name = name
	return b
}

func (b *ProductPayloadBuilder) WithDescription(description string) *ProductPayloadBuilder {
	b.payload.Description = description
	return b
}

func (b *ProductPayloadBuilder) WithPrice(price float64) *ProductPayloadBuilder {
	b.payload.Price = price
	return b
}

func (b *ProductPayloadBuilder) WithRental(rental bool) *ProductPayloadBuilder {
	b.payload.IsRental = ptr.To(rental)
	return b
}

// DescriptionOnly drops every field but the description, which the API must reject.
func (b *ProductPayloadBuilder) DescriptionOnly() *ProductPayloadBuilder {
	b.payload = ProductPayload{Description: b.payload.Description}
	return b
}

func (b *ProductPayloadBuilder) Build() ProductPayload {
	return b.payload
}

// RegisterPayload is the body of a customer registration.
type RegisterPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Phone     string `json:"phone,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// NewRegisterPayload creates a customer with a unique email address.
func NewRegisterPayload() RegisterPayload {
	id := GenerateTestID()

	return RegisterPayload{
		FirstName: "Test",
		LastName:  "Customer",
		Address:   "Test street 1",
		City:      "Vienna",
		State:     "Vienna",
		Country:   "AT",
		Postcode:  "1010",
		Phone:     "0123456789",
		DOB:       "1990-01-01",
		Email:     id + "@example.com",
		Password:  "Welcome01!" + id[len(id)-4:],
	}
}

// UserFormBuilder builds the form encoded body of an account update.
type UserFormBuilder struct {
	form url.Values
}

// NewUserForm starts from a complete set of account details for email.
func NewUserForm(email string) *UserFormBuilder {
	return &UserFormBuilder{
		form: url.Values{
			"first_name": {"Jane"},
			"last_name":  {"Doe"},
			"address":    {"Test street 98"},
			"city":       {"Vienna"},
			"country":    {"Austria"},
			"email":      {email},
		},
	}
}

// NewUserFormFrom starts from the account in resp, a user read back from the
// API, so an update leaves the account as it was. Fields the API returns
// empty or in another shape keep the defaults of NewUserForm.
func NewUserFormFrom(resp *Response) *UserFormBuilder {
	b := NewUserForm(resp.String("email"))

	for _, key := range []string{"first_name", "last_name", "address", "city", "state", "country", "postcode"} {
		value := resp.Get(key)
		if value.Type() == ldvalue.StringType && value.StringValue() != "" {
			b.form.Set(key, value.StringValue())
		}
	}

	return b
}

// NewPartialUserForm starts from an empty form.
func NewPartialUserForm() *UserFormBuilder {
	return &UserFormBuilder{form: url.Values{}}
}

func (b *UserFormBuilder) WithName(first, last string) *UserFormBuilder {
	b.form.Set("first_name", first)
	b.form.Set("last_name", last)

	return b
}

func (b *UserFormBuilder) With(key, value string) *UserFormBuilder {
	b.form.Set(key, value)
	return b
}

func (b *UserFormBuilder) Build() url.Values {
	return b.form
}
