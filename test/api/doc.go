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

// Package api provides integration test utilities for the toolshop storefront API.
//
// # Client
//
// APIClient issues one request at a time and hands back a fully read
// Response, whatever its status code. A non-2xx status is an ordinary
// outcome here because most specs probe error paths; only a request that
// never completed comes back as an error (*RequestError). Expect layers a
// status check on top for fixture setup.
//
// Every request carries a fresh W3C traceparent so a failing call can be
// found in the service logs by trace ID.
//
// # Sessions
//
// Bootstrap logs in the plain user, second user and admin profiles once, in
// that order, and stops at the first failure. The resulting Sessions are
// read-only and shared by all specs.
//
// # Response bodies
//
// Response.Get navigates JSON with dotted paths. Keys applied to arrays
// project over the elements, so "data.brand.id" on a product page lists the
// brand id of every product.
package api
