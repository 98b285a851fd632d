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
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const productsPerPage = 9

func (s *Server) addProduct(product *Product) {
	s.products[product.ID] = product
	s.productOrder = append(s.productOrder, product.ID)
}

func (s *Server) removeProduct(id string) {
	delete(s.products, id)

	for i, candidate := range s.productOrder {
		if candidate == id {
			s.productOrder = append(s.productOrder[:i], s.productOrder[i+1:]...)
			return
		}
	}
}

func (s *Server) productView(product *Product) map[string]interface{} {
	brand := map[string]interface{}{"id": product.BrandID}
	if b, ok := s.brands[product.BrandID]; ok {
		brand["name"] = b.Name
	}

	category := map[string]interface{}{"id": product.CategoryID}
	if c, ok := s.categories[product.CategoryID]; ok {
		category["name"] = c.Name
		category["slug"] = c.Slug
	}

	return map[string]interface{}{
		"id":                product.ID,
		"name":              product.Name,
		"description":       product.Description,
		"price":             product.Price,
		"is_location_offer": product.IsLocationOffer,
		"is_rental":         product.IsRental,
		"brand":             brand,
		"category":          category,
		"product_image":     map[string]interface{}{"id": product.ProductImageID},
	}
}

func (s *Server) matchesFilter(r *http.Request, product *Product) bool {
	query := r.URL.Query()

	if brandID := query.Get("by_brand"); brandID != "" && product.BrandID != brandID {
		return false
	}

	if categoryID := query.Get("by_category"); categoryID != "" && product.CategoryID != categoryID {
		return false
	}

	if raw := query.Get("is_rental"); raw != "" {
		rental, err := strconv.ParseBool(raw)
		if err == nil && product.IsRental != rental {
			return false
		}
	}

	return true
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var matched []*Product

	for _, id := range s.productOrder {
		if product := s.products[id]; s.matchesFilter(r, product) {
			matched = append(matched, product)
		}
	}

	page, from, to := paginate(r, len(matched), productsPerPage)

	data := make([]map[string]interface{}, 0, to-from)
	for _, product := range matched[from:to] {
		data = append(data, s.productView(product))
	}

	writeJSON(w, http.StatusOK, pageEnvelope(data, page, productsPerPage, len(matched)))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.products[chi.URLParam(r, "productID")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Requested item not found")
		return
	}

	writeJSON(w, http.StatusOK, s.productView(product))
}

func (s *Server) validateProduct(in input) validationErrors {
	errs := validationErrors{}
	errs.require(in, "name", "price", "category_id", "brand_id", "product_image_id")

	if in.has("price") {
		if _, ok := in.number("price"); !ok {
			errs.add("price", "The price field must be a number.")
		}
	}

	if id := in.str("category_id"); id != "" {
		if _, ok := s.categories[id]; !ok {
			errs.add("category_id", "The selected category id is invalid.")
		}
	}

	if id := in.str("brand_id"); id != "" {
		if _, ok := s.brands[id]; !ok {
			errs.add("brand_id", "The selected brand id is invalid.")
		}
	}

	if id := in.str("product_image_id"); id != "" {
		if _, ok := s.images[id]; !ok {
			errs.add("product_image_id", "The selected product image id is invalid.")
		}
	}

	return errs
}

func applyProduct(product *Product, in input) {
	price, _ := in.number("price")

	product.Name = in.str("name")
	product.Description = in.str("description")
	product.Price = price
	product.IsLocationOffer = in.flag("is_location_offer")
	product.IsRental = in.flag("is_rental")
	product.CategoryID = in.str("category_id")
	product.BrandID = in.str("brand_id")
	product.ProductImageID = in.str("product_image_id")
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if errs := s.validateProduct(in); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	product := &Product{ID: uuid.NewString()}
	applyProduct(product, in)

	s.addProduct(product)

	writeJSON(w, http.StatusCreated, s.productView(product))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.products[chi.URLParam(r, "productID")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Requested item not found")
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if errs := s.validateProduct(in); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	applyProduct(product, in)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	productID := chi.URLParam(r, "productID")

	if id, err := strconv.Atoi(productID); err == nil && id <= 0 {
		writeValidation(w, validationErrors{"id": {"The selected id is invalid."}})
		return
	}

	if _, ok := s.products[productID]; !ok {
		writeMessage(w, http.StatusNotFound, "Requested item not found")
		return
	}

	s.removeProduct(productID)

	writeNoContent(w)
}
