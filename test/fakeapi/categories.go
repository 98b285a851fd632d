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

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"k8s.io/utils/ptr"
)

// categoryNode is a category with its descendants inlined.
type categoryNode struct {
	Category

	SubCategories []categoryNode `json:"sub_categories"`
}

func (s *Server) addCategory(category *Category) {
	s.categories[category.ID] = category
	s.categoryOrder = append(s.categoryOrder, category.ID)
}

func (s *Server) removeCategory(id string) {
	delete(s.categories, id)

	for i, candidate := range s.categoryOrder {
		if candidate == id {
			s.categoryOrder = append(s.categoryOrder[:i], s.categoryOrder[i+1:]...)
			return
		}
	}
}

func (s *Server) categoryBySlug(slug string) *Category {
	for _, id := range s.categoryOrder {
		if category := s.categories[id]; category.Slug == slug {
			return category
		}
	}

	return nil
}

func (s *Server) children(parentID string) []*Category {
	var out []*Category

	for _, id := range s.categoryOrder {
		category := s.categories[id]
		if category.ParentID != nil && *category.ParentID == parentID {
			out = append(out, category)
		}
	}

	return out
}

func (s *Server) categoryInUse(id string) bool {
	if len(s.children(id)) > 0 {
		return true
	}

	for _, product := range s.products {
		if product.CategoryID == id {
			return true
		}
	}

	return false
}

func (s *Server) node(category *Category) categoryNode {
	n := categoryNode{
		Category:      *category,
		SubCategories: []categoryNode{},
	}

	for _, child := range s.children(category.ID) {
		n.SubCategories = append(n.SubCategories, s.node(child))
	}

	return n
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	out := make([]Category, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		out = append(out, *s.categories[id])
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) categoryTree(w http.ResponseWriter, r *http.Request) {
	out := []categoryNode{}

	if slug := r.URL.Query().Get("by_category_slug"); slug != "" {
		if category := s.categoryBySlug(slug); category != nil {
			out = append(out, s.node(category))
		}

		writeJSON(w, http.StatusOK, out)

		return
	}

	for _, id := range s.categoryOrder {
		if category := s.categories[id]; category.ParentID == nil {
			out = append(out, s.node(category))
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := s.categories[chi.URLParam(r, "categoryID")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Requested item not found")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// validateCategory checks a category body; self is the category being
// replaced, if any, so it does not collide with its own slug.
func (s *Server) validateCategory(in input, self *Category) validationErrors {
	errs := validationErrors{}
	errs.require(in, "name", "slug")

	if existing := s.categoryBySlug(in.str("slug")); existing != nil && existing != self {
		errs.add("slug", "A category already exists with this slug.")
	}

	if parentID := in.str("parent_id"); parentID != "" {
		if _, ok := s.categories[parentID]; !ok || (self != nil && parentID == self.ID) {
			errs.add("parent_id", "The selected parent id is invalid.")
		}
	}

	return errs
}

func parentOf(in input) *string {
	if parentID := in.str("parent_id"); parentID != "" {
		return ptr.To(parentID)
	}

	return nil
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if errs := s.validateCategory(in, nil); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	category := &Category{
		ID:       uuid.NewString(),
		ParentID: parentOf(in),
		Name:     in.str("name"),
		Slug:     in.str("slug"),
	}

	s.addCategory(category)

	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := s.categories[chi.URLParam(r, "categoryID")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Requested item not found")
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"success": false,
			"message": errMalformedBody.Error(),
		})

		return
	}

	if errs := s.validateCategory(in, category); len(errs) > 0 {
		body := errs.body()
		body["success"] = false

		writeJSON(w, http.StatusUnprocessableEntity, body)

		return
	}

	category.Name = in.str("name")
	category.Slug = in.str("slug")
	category.ParentID = parentOf(in)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryID")

	if _, ok := s.categories[categoryID]; !ok {
		writeValidation(w, validationErrors{"id": {"The selected id is invalid."}})
		return
	}

	if s.categoryInUse(categoryID) {
		writeMessage(w, http.StatusConflict, "Seems like this category is used elsewhere.")
		return
	}

	s.removeCategory(categoryID)

	writeNoContent(w)
}
