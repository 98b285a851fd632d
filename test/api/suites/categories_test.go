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
)

var _ = Describe("Categories", func() {
	Context("When reading categories", func() {
		It("should list all categories", func() {
			resp, err := client.ListCategories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
		})

		It("should return the category tree", func() {
			resp, err := client.CategoryTree(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
		})

		It("should narrow the tree to a single slug", func() {
			payload := api.NewCategoryPayload().Build()
			api.CreateCategoryWithCleanup(client, ctx, sessions, payload)

			resp, err := client.CategoryTree(ctx, payload.Slug)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("slug", ContainElement(payload.Slug)))
		})

		It("should return a category by id", func() {
			payload := api.NewCategoryPayload().Build()
			_, categoryID := api.CreateCategoryWithCleanup(client, ctx, sessions, payload)

			resp, err := client.GetCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("id", categoryID))
			Expect(resp).To(api.HaveJSONField("slug", payload.Slug))
		})

		It("should return 404 for a category that does not exist", func() {
			resp, err := client.GetCategory(ctx, "non-existing-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		})

		It("should not allow POST on the tree", func() {
			resp, err := client.Do(ctx, api.Request{
				Method: http.MethodPost,
				Path:   client.Endpoints().CategoryTree(),
				JSON:   api.NewCategoryPayload().Build(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusMethodNotAllowed))
		})
	})

	Context("When creating a category", func() {
		It("should create a category with a unique slug", func() {
			resp, categoryID := api.CreateCategoryWithCleanup(client, ctx, sessions, api.NewCategoryPayload().Build())

			Expect(categoryID).NotTo(BeEmpty())
			Expect(resp).To(api.HaveJSONField("id", Not(BeEmpty())))
		})

		It("should reject a slug that is already taken", func() {
			payload := api.NewCategoryPayload().Build()
			api.CreateCategoryWithCleanup(client, ctx, sessions, payload)

			duplicate := api.NewCategoryPayload().WithSlug(payload.Slug).Build()

			resp, err := client.CreateCategory(ctx, duplicate)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))
			Expect(resp).To(api.HaveJSONField("slug", ContainElement("A category already exists with this slug.")))
		})

		It("should return 404 for an unknown path", func() {
			resp, err := client.Do(ctx, api.Request{
				Method: http.MethodPost,
				Path:   client.Endpoints().Categories() + "/some/path",
				JSON:   api.NewCategoryPayload().Build(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		})

		It("should create a child category under a parent", func() {
			_, parentID := api.CreateCategoryWithCleanup(client, ctx, sessions, api.NewCategoryPayloadWithPrefix("parent category").Build())

			child := api.NewCategoryPayloadWithPrefix("child category").
				WithParent(parentID).
				WithEmptyID().
				Build()

			resp, _ := api.CreateCategoryWithCleanup(client, ctx, sessions, child)
			Expect(resp).To(api.HaveJSONField("parent_id", parentID))
		})
	})

	Context("When deleting a category", func() {
		var categoryID string

		BeforeEach(func() {
			_, categoryID = api.CreateCategoryWithCleanup(client, ctx, sessions, api.NewCategoryPayload().Build())
		})

		It("should delete it as admin and reject a second delete", func() {
			admin := sessions.Client(client, api.RoleAdmin)

			resp, err := admin.DeleteCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNoContent))

			resp, err = admin.DeleteCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))
		})

		It("should reject an invalid bearer token", func() {
			resp, err := client.WithToken("invalid-token").DeleteCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
		})
	})

	Context("When a category goes through its whole lifecycle", func() {
		It("should be readable after create and gone after delete", func() {
			payload := api.NewCategoryPayload().Build()
			_, categoryID := api.CreateCategoryWithCleanup(client, ctx, sessions, payload)

			resp, err := client.GetCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))

			admin := sessions.Client(client, api.RoleAdmin)

			resp, err = admin.DeleteCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNoContent))

			resp, err = admin.DeleteCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))

			resp, err = client.GetCategory(ctx, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		})
	})

	Context("When updating a category", func() {
		var categoryID string

		BeforeEach(func() {
			_, categoryID = api.CreateCategoryWithCleanup(client, ctx, sessions, api.NewCategoryPayload().Build())
		})

		It("should update an existing category", func() {
			resp, err := client.UpdateCategory(ctx, categoryID, api.NewCategoryPayloadWithPrefix("updated category").Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("success", BeTrue()))
		})

		It("should not update a category that does not exist", func() {
			resp, err := client.UpdateCategory(ctx, "non-existing-id", api.NewCategoryPayload().Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(Or(api.HaveStatus(http.StatusNotFound), api.HaveJSONField("success", BeFalse())))
		})

		It("should reject a malformed body", func() {
			resp, err := client.Do(ctx, api.Request{
				Method: http.MethodPut,
				Path:   client.Endpoints().Category(categoryID),
				Raw:    []byte(`{"name": "broken", "slug": `),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveJSONField("success", BeFalse()))
		})
	})
})
