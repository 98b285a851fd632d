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
	"context"
	"fmt"
)

// Role is one of the fixed test accounts used to exercise authorization rules.
type Role string

const (
	RoleUser       Role = "user"
	RoleSecondUser Role = "second-user"
	RoleAdmin      Role = "admin"
)

// Roles lists every role profile in bootstrap order.
func Roles() []Role {
	return []Role{RoleUser, RoleSecondUser, RoleAdmin}
}

// Token is the credential returned by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

//go:generate mockgen -source=auth.go -destination=mock/authenticator.go -package=mock

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Token, error)
}

// Sessions holds one token per role profile. It is written once by
// Bootstrap and only read afterwards.
type Sessions struct {
	tokens map[Role]Token
}

// Bootstrap logs in every role profile, one after another. The first failure
// aborts the bootstrap; nothing is retried.
func Bootstrap(ctx context.Context, auth Authenticator, config *TestConfig) (*Sessions, error) {
	sessions := &Sessions{
		tokens: make(map[Role]Token, len(Roles())),
	}

	for _, role := range Roles() {
		credentials, err := config.Credentials(role)
		if err != nil {
			return nil, err
		}

		token, err := auth.Login(ctx, credentials.Email, credentials.Password)
		if err != nil {
			return nil, &LoginError{Role: role, Email: credentials.Email, Err: err}
		}

		if token == nil || token.AccessToken == "" {
			return nil, &LoginError{Role: role, Email: credentials.Email, Err: ErrMissingToken}
		}

		sessions.tokens[role] = *token
	}

	return sessions, nil
}

// Token returns the access token for a role, or an empty string.
func (s *Sessions) Token(role Role) string {
	return s.tokens[role].AccessToken
}

// Details returns the full login response for a role.
func (s *Sessions) Details(role Role) (Token, error) {
	token, ok := s.tokens[role]
	if !ok {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	return token, nil
}

// Client returns a copy of client authenticated as role.
func (s *Sessions) Client(client *APIClient, role Role) *APIClient {
	return client.WithToken(s.Token(role))
}
