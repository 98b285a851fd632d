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
	"fmt"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/toolshop-api-tests/test/api"
)

var _ = Describe("Users", func() {
	Context("When listing users", func() {
		It("should require authentication", func() {
			resp, err := client.Anonymous().ListUsers(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
			Expect(resp).To(api.HaveJSONField("message", "Unauthorized"))
		})

		It("should forbid customers", func() {
			resp, err := sessions.Client(client, api.RoleUser).ListUsers(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusForbidden))
			Expect(resp).To(api.HaveJSONField("message", "Forbidden"))
		})

		It("should list users for an admin", func() {
			resp, err := sessions.Client(client, api.RoleAdmin).ListUsers(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp.Has("data")).To(BeTrue())
		})

		It("should return the requested page", func() {
			resp, err := sessions.Client(client, api.RoleAdmin).ListUsers(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp.Int("current_page")).To(Equal(2))
		})
	})

	Context("When reading the current user", func() {
		It("should require authentication", func() {
			resp, err := client.Anonymous().Me(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
			Expect(resp).To(api.HaveJSONField("message", "Unauthorized"))
		})

		It("should return the logged in customer", func() {
			resp, err := sessions.Client(client, api.RoleUser).Me(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("email", config.UserEmail))
		})
	})

	Context("When deleting a user", func() {
		It("should require authentication", func() {
			resp, err := client.Anonymous().DeleteUser(ctx, config.SecondUserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
			Expect(resp).To(api.HaveJSONField("message", "Unauthorized"))
		})

		It("should forbid customers", func() {
			resp, err := sessions.Client(client, api.RoleUser).DeleteUser(ctx, config.SecondUserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusForbidden))
		})

		It("should delete a user as admin", func() {
			userID := api.UserToDelete(client, ctx, config, sessions)

			resp, err := sessions.Client(client, api.RoleAdmin).DeleteUser(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNoContent))
		})

		It("should reject an unknown user id", func() {
			resp, err := sessions.Client(client, api.RoleAdmin).DeleteUser(ctx, "30")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))
		})
	})

	Context("When updating a user", func() {
		It("should require authentication", func() {
			resp, err := client.Anonymous().UpdateUser(ctx, config.UserToChange, api.NewUserForm(api.GenerateTestID()+"@example.com").Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
			Expect(resp).To(api.HaveJSONField("message", "Unauthorized"))
		})

		It("should let an admin update their own account", func() {
			admin := sessions.Client(client, api.RoleAdmin)

			me, err := admin.Me(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(me).To(api.HaveStatus(http.StatusOK))

			resp, err := admin.UpdateUser(ctx, config.AdminID, api.NewUserFormFrom(me).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("success", BeTrue()))
		})

		It("should let an admin update another account", func() {
			admin := sessions.Client(client, api.RoleAdmin)

			other, err := admin.GetUser(ctx, config.UserToChange)
			Expect(err).NotTo(HaveOccurred())
			Expect(other).To(api.HaveStatus(http.StatusOK))

			resp, err := admin.UpdateUser(ctx, config.UserToChange, api.NewUserFormFrom(other).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("success", BeTrue()))
		})

		It("should report every missing field", func() {
			resp, err := sessions.Client(client, api.RoleUser).UpdateUser(ctx, config.UserID,
				api.NewPartialUserForm().With("state", "Vienna").Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnprocessableEntity))

			for _, field := range []string{"first_name", "last_name", "address", "city", "country", "email"} {
				message := fmt.Sprintf("The %s field is required.", strings.ReplaceAll(field, "_", " "))
				Expect(resp).To(api.HaveJSONField(field, ContainElement(message)))
			}
		})

		It("should let a customer update their own account", func() {
			user := sessions.Client(client, api.RoleUser)

			me, err := user.Me(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(me).To(api.HaveStatus(http.StatusOK))

			resp, err := user.UpdateUser(ctx, config.UserID, api.NewUserFormFrom(me).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("success", BeTrue()))
		})

		It("should forbid a customer from updating another account", func() {
			resp, err := sessions.Client(client, api.RoleUser).UpdateUser(ctx, config.SecondUserID,
				api.NewUserForm(config.SecondUserEmail).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusForbidden))
			Expect(resp).To(api.HaveJSONField("error", "You can only update your own data."))
		})
	})

	Context("When logging in", func() {
		It("should issue a bearer token for valid credentials", func() {
			resp, err := client.Anonymous().PostLogin(ctx, config.UserEmail, config.UserPassword)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("access_token", Not(BeEmpty())))
			Expect(resp.Has("expires_in")).To(BeTrue())
			Expect(resp).To(api.HaveJSONField("token_type", "bearer"))
		})

		It("should reject wrong credentials", func() {
			resp, err := client.Anonymous().PostLogin(ctx, config.WrongEmail, config.WrongPassword)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
			Expect(resp).To(api.HaveJSONField("error", "Unauthorized"))
		})
	})

	Context("When changing a password", func() {
		It("should require authentication", func() {
			resp, err := client.Anonymous().ChangePassword(ctx, config.SecondUserPassword, config.NewSecondUserPassword, config.NewSecondUserPassword)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
			Expect(resp).To(api.HaveJSONField("message", "Unauthorized"))
		})

		It("should change the password of the second user", func() {
			secondUser := sessions.Client(client, api.RoleSecondUser)

			resp, err := secondUser.ChangePassword(ctx, config.SecondUserPassword, config.NewSecondUserPassword, config.NewSecondUserPassword)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveJSONField("success", BeTrue()))

			DeferCleanup(func(ctx SpecContext) {
				restore, err := secondUser.ChangePassword(ctx, config.NewSecondUserPassword, config.SecondUserPassword, config.SecondUserPassword)
				if err != nil {
					GinkgoWriter.Printf("Warning: Failed to restore password: %v\n", err)
					return
				}

				GinkgoWriter.Printf("Password restore finished with status %d\n", restore.StatusCode)
			})
		})

		It("should reject reusing the current password", func() {
			resp, err := sessions.Client(client, api.RoleUser).ChangePassword(ctx, config.UserPassword, config.UserPassword, config.UserPassword)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusBadRequest))
			Expect(resp).To(api.HaveJSONField("success", BeFalse()))
			Expect(resp).To(api.HaveJSONField("message", "New Password cannot be same as your current password."))
		})
	})
})
