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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// CreateCategoryWithCleanup creates a category and schedules its deletion as admin.
func CreateCategoryWithCleanup(client *APIClient, ctx context.Context, sessions *Sessions, payload CategoryPayload) (*Response, string) {
	resp, err := client.CreateCategory(ctx, payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp).To(HaveStatus(http.StatusCreated))

	categoryID := resp.String("id")
	Expect(categoryID).NotTo(BeEmpty(), "created category has no id")

	GinkgoWriter.Printf("Created category with ID: %s\n", categoryID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func(ctx SpecContext) {
		deleteCategoryQuietly(ctx, sessions.Client(client, RoleAdmin), categoryID)
	})

	return resp, categoryID
}

// deleteCategoryQuietly ignores categories the test already deleted.
func deleteCategoryQuietly(ctx context.Context, admin *APIClient, categoryID string) {
	GinkgoWriter.Printf("Cleaning up category: %s\n", categoryID)

	resp, err := admin.DeleteCategory(ctx, categoryID)

	switch {
	case err != nil:
		GinkgoWriter.Printf("Warning: Failed to delete category %s: %v\n", categoryID, err)
	case resp.StatusCode == http.StatusNoContent:
		GinkgoWriter.Printf("Successfully deleted category: %s\n", categoryID)
	default:
		GinkgoWriter.Printf("Category %s not deleted (status: %d)\n", categoryID, resp.StatusCode)
	}
}

// CreateProductWithCleanup creates a product and schedules its deletion as admin.
func CreateProductWithCleanup(client *APIClient, ctx context.Context, sessions *Sessions, payload ProductPayload) (*Response, string) {
	resp, err := client.CreateProduct(ctx, payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp).To(HaveStatus(http.StatusCreated))

	productID := resp.String("id")
	Expect(productID).NotTo(BeEmpty(), "created product has no id")

	GinkgoWriter.Printf("Created product with ID: %s\n", productID)

	DeferCleanup(func(ctx SpecContext) {
		GinkgoWriter.Printf("Cleaning up product: %s\n", productID)

		deleteResp, deleteErr := sessions.Client(client, RoleAdmin).DeleteProduct(ctx, productID)
		if deleteErr != nil {
			GinkgoWriter.Printf("Warning: Failed to delete product %s: %v\n", productID, deleteErr)
			return
		}

		GinkgoWriter.Printf("Product %s cleanup finished with status %d\n", productID, deleteResp.StatusCode)
	})

	return resp, productID
}

// UserFixture is a throw-away customer account.
type UserFixture struct {
	ID       string
	Email    string
	Password string
}

// RegisterUserWithCleanup registers a customer and schedules its deletion as admin.
func RegisterUserWithCleanup(client *APIClient, ctx context.Context, sessions *Sessions) *UserFixture {
	payload := NewRegisterPayload()

	resp, err := client.Anonymous().RegisterUser(ctx, payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp).To(HaveStatus(http.StatusCreated))

	fixture := &UserFixture{
		ID:       resp.String("id"),
		Email:    payload.Email,
		Password: payload.Password,
	}
	Expect(fixture.ID).NotTo(BeEmpty(), "registered user has no id")

	GinkgoWriter.Printf("Registered user %s with ID: %s\n", fixture.Email, fixture.ID)

	DeferCleanup(func(ctx SpecContext) {
		deleteResp, deleteErr := sessions.Client(client, RoleAdmin).DeleteUser(ctx, fixture.ID)
		if deleteErr != nil {
			GinkgoWriter.Printf("Warning: Failed to delete user %s: %v\n", fixture.ID, deleteErr)
			return
		}

		GinkgoWriter.Printf("User %s cleanup finished with status %d\n", fixture.ID, deleteResp.StatusCode)
	})

	return fixture
}

// UserToDelete returns the configured deletable account, or registers one.
func UserToDelete(client *APIClient, ctx context.Context, config *TestConfig, sessions *Sessions) string {
	if config.UserToDelete != "" {
		return config.UserToDelete
	}

	return RegisterUserWithCleanup(client, ctx, sessions).ID
}

// VerifyAllEqual verifies that every projected value equals expected.
func VerifyAllEqual(values []string, expected, description string) {
	for _, value := range values {
		Expect(value).To(Equal(expected), "Not all %s equal %s", description, expected)
	}
}
