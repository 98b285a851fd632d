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

// Package fakeapi is an in-memory stand-in for the toolshop storefront API.
// It implements just enough of the real service's behaviour for the test
// harness to be exercised without network access.
package fakeapi

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Server is an http.Handler serving the fake API.
type Server struct {
	lock sync.Mutex

	router chi.Router

	accounts     map[string]*Account
	accountOrder []string
	tokens       map[string]string

	brands        map[string]Brand
	images        map[string]struct{}
	categories    map[string]*Category
	categoryOrder []string
	products      map[string]*Product
	productOrder  []string
}

// New creates a fake API populated from seed.
func New(seed Seed) *Server {
	s := &Server{
		accounts:   map[string]*Account{},
		tokens:     map[string]string{},
		brands:     map[string]Brand{},
		images:     map[string]struct{}{},
		categories: map[string]*Category{},
		products:   map[string]*Product{},
	}

	for _, account := range seed.Accounts() {
		s.addAccount(account)
	}

	for _, brand := range seed.Brands {
		s.brands[brand.ID] = brand
	}

	for _, imageID := range seed.ImageIDs {
		s.images[imageID] = struct{}{}
	}

	for i := range seed.Categories {
		category := seed.Categories[i]
		s.addCategory(&category)
	}

	for i := range seed.Products {
		product := seed.Products[i]
		s.addProduct(&product)
	}

	s.router = s.routes()

	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Resource not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method is not allowed for the requested route")
	})

	r.Get("/categories", s.listCategories)
	r.Post("/categories", s.createCategory)
	r.Get("/categories/tree", s.categoryTree)
	r.Get("/categories/{categoryID}", s.getCategory)
	r.Put("/categories/{categoryID}", s.updateCategory)
	r.Delete("/categories/{categoryID}", s.deleteCategory)

	r.Get("/products", s.listProducts)
	r.Post("/products", s.createProduct)
	r.Get("/products/{productID}", s.getProduct)
	r.Put("/products/{productID}", s.updateProduct)
	r.Delete("/products/{productID}", s.deleteProduct)

	r.Post("/users/login", s.login)
	r.Post("/users/logout", s.logout)
	r.Post("/users/register", s.register)
	r.Post("/users/change-password", s.changePassword)
	r.Get("/users/me", s.me)
	r.Get("/users", s.listUsers)
	r.Get("/users/{userID}", s.getUser)
	r.Put("/users/{userID}", s.updateUser)
	r.Delete("/users/{userID}", s.deleteUser)

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.router.ServeHTTP(w, r)
}
