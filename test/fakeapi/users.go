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

package fakeapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	roleAdmin = "admin"
	roleUser  = "user"

	tokenLifetimeSeconds = 300
	usersPerPage         = 10
)

func (s *Server) addAccount(account Account) {
	stored := account
	s.accounts[stored.ID] = &stored
	s.accountOrder = append(s.accountOrder, stored.ID)
}

func (s *Server) removeAccount(id string) {
	delete(s.accounts, id)

	for i, candidate := range s.accountOrder {
		if candidate == id {
			s.accountOrder = append(s.accountOrder[:i], s.accountOrder[i+1:]...)
			break
		}
	}

	for token, owner := range s.tokens {
		if owner == id {
			delete(s.tokens, token)
		}
	}
}

func (s *Server) accountByEmail(email string) *Account {
	for _, id := range s.accountOrder {
		if account := s.accounts[id]; strings.EqualFold(account.Email, email) {
			return account
		}
	}

	return nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}

func (s *Server) authenticate(r *http.Request) (*Account, bool) {
	owner, ok := s.tokens[bearerToken(r)]
	if !ok {
		return nil, false
	}

	account, ok := s.accounts[owner]

	return account, ok
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*Account, bool) {
	account, ok := s.authenticate(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	return account, true
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (*Account, bool) {
	account, ok := s.requireUser(w, r)
	if !ok {
		return nil, false
	}

	if account.Role != roleAdmin {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}

	return account, true
}

func accountView(account *Account) map[string]interface{} {
	return map[string]interface{}{
		"id":         account.ID,
		"first_name": account.FirstName,
		"last_name":  account.LastName,
		"address":    account.Address,
		"city":       account.City,
		"state":      account.State,
		"country":    account.Country,
		"postcode":   account.Postcode,
		"email":      account.Email,
		"role":       account.Role,
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"error": "Unauthorized"})
		return
	}

	account := s.accountByEmail(in.str("email"))
	if account == nil || account.Password != in.str("password") {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"error": "Unauthorized"})
		return
	}

	token := uuid.NewString()
	s.tokens[token] = account.ID

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   tokenLifetimeSeconds,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	delete(s.tokens, bearerToken(r))

	writeMessage(w, http.StatusOK, "Successfully logged out")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	errs := validationErrors{}
	errs.require(in, "first_name", "last_name", "email", "password")

	if email := in.str("email"); email != "" && s.accountByEmail(email) != nil {
		errs.add("email", "A customer with this email address already exists.")
	}

	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	account := Account{
		ID:        uuid.NewString(),
		FirstName: in.str("first_name"),
		LastName:  in.str("last_name"),
		Address:   in.str("address"),
		City:      in.str("city"),
		State:     in.str("state"),
		Country:   in.str("country"),
		Postcode:  in.str("postcode"),
		Email:     in.str("email"),
		Password:  in.str("password"),
		Role:      roleUser,
	}

	s.addAccount(account)

	writeJSON(w, http.StatusCreated, accountView(s.accounts[account.ID]))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	errs := validationErrors{}
	errs.require(in, "current_password", "new_password", "new_password_confirmation")

	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	current := in.str("current_password")
	replacement := in.str("new_password")

	if current != account.Password {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Your current password does not matches with the password.",
		})

		return
	}

	if replacement == current {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "New Password cannot be same as your current password.",
		})

		return
	}

	if replacement != in.str("new_password_confirmation") {
		errs.add("new_password", "The new password field confirmation does not match.")
		writeValidation(w, errs)

		return
	}

	account.Password = replacement

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, accountView(account))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	page, from, to := paginate(r, len(s.accountOrder), usersPerPage)

	data := make([]map[string]interface{}, 0, to-from)
	for _, id := range s.accountOrder[from:to] {
		data = append(data, accountView(s.accounts[id]))
	}

	writeJSON(w, http.StatusOK, pageEnvelope(data, page, usersPerPage, len(s.accountOrder)))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")

	if caller.Role != roleAdmin && caller.ID != userID {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{"error": "You can only view your own data."})
		return
	}

	account, ok := s.accounts[userID]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Requested item not found")
		return
	}

	writeJSON(w, http.StatusOK, accountView(account))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")

	if caller.Role != roleAdmin && caller.ID != userID {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{"error": "You can only update your own data."})
		return
	}

	account, ok := s.accounts[userID]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Requested item not found")
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	errs := validationErrors{}
	errs.require(in, "first_name", "last_name", "address", "city", "country", "email")

	if existing := s.accountByEmail(in.str("email")); existing != nil && existing.ID != account.ID {
		errs.add("email", "A customer with this email address already exists.")
	}

	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	account.FirstName = in.str("first_name")
	account.LastName = in.str("last_name")
	account.Address = in.str("address")
	account.City = in.str("city")
	account.Country = in.str("country")
	account.Email = in.str("email")

	if in.has("state") {
		account.State = in.str("state")
	}

	if in.has("postcode") {
		account.Postcode = in.str("postcode")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	userID := chi.URLParam(r, "userID")

	if _, ok := s.accounts[userID]; !ok {
		writeValidation(w, validationErrors{"id": {"The selected id is invalid."}})
		return
	}

	s.removeAccount(userID)

	writeNoContent(w)
}
