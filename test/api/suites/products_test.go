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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/toolshop-api-tests/test/api"

	"k8s.io/utils/ptr"
)

var _ = Describe("Products", func() {
	var products *api.APIClient

	BeforeEach(func() {
		products = client.ForProducts()
	})

	Context("When listing products", func() {
		It("should return the first page of products", func() {
			resp, err := products.ListProducts(ctx, api.ProductFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp.Body).NotTo(BeEmpty())
			Expect(resp).To(api.HaveJSONField("data", Not(BeEmpty())))
		})

		It("should filter by brand", func() {
			resp, err := products.ListProducts(ctx, api.ProductFilter{BrandID: config.BrandID})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))

			brands := resp.Strings("data.brand.id")
			Expect(brands).NotTo(BeEmpty())
			api.VerifyAllEqual(brands, config.BrandID, "brand ids")
		})

		It("should filter by category", func() {
			resp, err := products.ListProducts(ctx, api.ProductFilter{CategoryID: config.CategoryID})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))

			categories := resp.Strings("data.category.id")
			Expect(categories).NotTo(BeEmpty())
			api.VerifyAllEqual(categories, config.CategoryID, "category ids")
		})

		It("should filter rental products", func() {
			resp, err := products.ListProducts(ctx, api.ProductFilter{Rental: ptr.To(true)})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))

			rentals := resp.Strings("data.is_rental")
			Expect(rentals).NotTo(BeEmpty())
			api.VerifyAllEqual(rentals, "true", "rental flags")
		})
	})

	Context("When reading a single product", func() {
		It("should return a product by id", func() {
			_, productID := api.CreateProductWithCleanup(products, ctx, sessions, api.NewProductPayload(config).Build())

			resp, err := products.GetProduct(ctx, productID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("id", productID))
		})

		It("should return 404 for an unknown product", func() {
			resp, err := products.GetProduct(ctx, "999")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		})
	})

	Context("When creating a product", func() {
		It("should create a valid product", func() {
			payload := api.NewProductPayload(config).Build()

			resp, _ := api.CreateProductWithCleanup(products, ctx, sessions, payload)
			Expect(resp).To(api.HaveJSONField("name", payload.Name))
		})

		It("should reject a product without required fields", func() {
			resp, err := products.CreateProduct(ctx, api.NewProductPayload(config).DescriptionOnly().Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))
		})

		It("should not accept POST on a product id", func() {
			resp, err := products.Do(ctx, api.Request{
				Method: http.MethodPost,
				Path:   products.Endpoints().Product("999"),
				JSON:   api.NewProductPayload(config).Build(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(BeElementOf(http.StatusNotFound, http.StatusMethodNotAllowed))
		})

		It("should not accept DELETE on the collection", func() {
			resp, err := sessions.Client(products, api.RoleAdmin).Do(ctx, api.Request{
				Method: http.MethodDelete,
				Path:   products.Endpoints().Products(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusMethodNotAllowed))
		})
	})

	Context("When updating a product", func() {
		var productID string

		BeforeEach(func() {
			_, productID = api.CreateProductWithCleanup(products, ctx, sessions, api.NewProductPayload(config).Build())
		})

		It("should update an existing product", func() {
			resp, err := products.UpdateProduct(ctx, productID, api.NewProductPayload(config).WithPrice(24.99).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))

			resp, err = products.GetProduct(ctx, productID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveJSONField("price", BeNumerically("~", 24.99, 0.001)))
		})

		It("should return 404 for an unknown product", func() {
			resp, err := products.UpdateProduct(ctx, "999", api.NewProductPayload(config).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		})

		It("should reject an update without required fields", func() {
			resp, err := products.UpdateProduct(ctx, productID, api.NewProductPayload(config).DescriptionOnly().Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))
		})
	})

	Context("When deleting a product", func() {
		It("should delete a product as admin", func() {
			_, productID := api.CreateProductWithCleanup(products, ctx, sessions, api.NewProductPayload(config).Build())

			resp, err := sessions.Client(products, api.RoleAdmin).DeleteProduct(ctx, productID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNoContent))
		})

		It("should return 404 for an unknown product", func() {
			resp, err := sessions.Client(products, api.RoleAdmin).DeleteProduct(ctx, "999")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		})

		It("should reject the zero id", func() {
			resp, err := sessions.Client(products, api.RoleAdmin).DeleteProduct(ctx, "0")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))
		})
	})
})
