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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/toolshop-api-tests/test/api"
)

// ErrProbesFailed is returned when any probe does not answer 200.
var ErrProbesFailed = errors.New("smoke probes failed")

// Probe is one read-only request made during a smoke run.
type Probe struct {
	Name string
	Path string
	// Role is empty for anonymous probes.
	Role api.Role
	// Products routes the probe to the products API.
	Products bool
}

// DefaultProbes lists the requests every healthy deployment must answer.
func DefaultProbes(e *api.Endpoints) []Probe {
	return []Probe{
		{Name: "list categories", Path: e.Categories()},
		{Name: "category tree", Path: e.CategoryTree()},
		{Name: "list products", Path: e.Products(), Products: true},
		{Name: "current user", Path: e.Me(), Role: api.RoleUser},
		{Name: "list users", Path: e.Users(), Role: api.RoleAdmin},
	}
}

// Result is the outcome of a single probe.
type Result struct {
	Probe    Probe
	Status   int
	Duration time.Duration
	TraceID  string
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Status == http.StatusOK
}

// Run performs the probes one after another.
func Run(ctx context.Context, client *api.APIClient, sessions *api.Sessions, probes []Probe) []Result {
	results := make([]Result, 0, len(probes))

	for _, probe := range probes {
		c := client.Anonymous()

		if probe.Role != "" {
			c = sessions.Client(client, probe.Role)
		}

		if probe.Products {
			c = c.ForProducts()
		}

		result := Result{Probe: probe}

		resp, err := c.Do(ctx, api.Request{Method: http.MethodGet, Path: probe.Path})
		if resp != nil {
			result.Status = resp.StatusCode
			result.Duration = resp.Duration
			result.TraceID = resp.TraceID
		}

		result.Err = err

		results = append(results, result)
	}

	return results
}

// Report prints one line per result and returns the number of failures.
func Report(w io.Writer, results []Result) int {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	var failed int

	for _, result := range results {
		if result.OK() {
			pass.Fprint(w, "PASS")
			fmt.Fprintf(w, " %-16s GET %s %d (%s)\n", result.Probe.Name, result.Probe.Path, result.Status, result.Duration.Round(time.Millisecond))

			continue
		}

		failed++

		fail.Fprint(w, "FAIL")

		if result.Err != nil {
			fmt.Fprintf(w, " %-16s GET %s: %v\n", result.Probe.Name, result.Probe.Path, result.Err)
			continue
		}

		fmt.Fprintf(w, " %-16s GET %s %d (trace ID: %s)\n", result.Probe.Name, result.Probe.Path, result.Status, result.TraceID)
	}

	return failed
}

// Teardown logs every role out so smoke runs leave no live tokens behind.
func Teardown(ctx context.Context, logger logr.Logger, client *api.APIClient, sessions *api.Sessions) {
	for _, role := range api.Roles() {
		resp, err := sessions.Client(client, role).Logout(ctx)
		if err != nil {
			logger.Error(err, "logout failed", "role", role)
			continue
		}

		logger.V(1).Info("logged out", "role", role, "status", resp.StatusCode)
	}
}
