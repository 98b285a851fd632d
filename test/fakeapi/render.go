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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

var errMalformedBody = errors.New("malformed request body")

type input map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"message": message})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeInput accepts JSON and form encoded bodies alike.
func decodeInput(r *http.Request) (input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %w", errMalformedBody, err)
		}

		in := input{}
		for key := range r.PostForm {
			in[key] = r.PostForm.Get(key)
		}

		return in, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	in := input{}

	if len(strings.TrimSpace(string(body))) == 0 {
		return in, nil
	}

	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	return in, nil
}

func (in input) has(key string) bool {
	_, ok := in[key]
	return ok
}

func (in input) str(key string) string {
	switch v := in[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (in input) number(key string) (float64, bool) {
	switch v := in[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (in input) flag(key string) bool {
	switch v := in[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// validationErrors collects Laravel style field errors.
type validationErrors map[string][]string

func (v validationErrors) add(field, message string) {
	v[field] = append(v[field], message)
}

func (v validationErrors) require(in input, fields ...string) {
	for _, field := range fields {
		if in.str(field) == "" {
			v.add(field, fmt.Sprintf("The %s field is required.", strings.ReplaceAll(field, "_", " ")))
		}
	}
}

func (v validationErrors) body() map[string]interface{} {
	out := make(map[string]interface{}, len(v))
	for field, messages := range v {
		out[field] = messages
	}

	return out
}

func writeValidation(w http.ResponseWriter, errs validationErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, errs.body())
}

// pagination mirrors the Laravel paginator envelope.
func paginate(r *http.Request, total, perPage int) (page, from, to int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	if page > total/perPage+1 {
		return page, total, total
	}

	from = (page - 1) * perPage
	if from > total {
		from = total
	}

	to = from + perPage
	if to > total {
		to = total
	}

	return page, from, to
}

func pageEnvelope(data interface{}, page, perPage, total int) map[string]interface{} {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	return map[string]interface{}{
		"current_page": page,
		"data":         data,
		"per_page":     perPage,
		"last_page":    lastPage,
		"total":        total,
	}
}
