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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var (
	// ErrMissingConfig is returned when required configuration is absent.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrUnknownRole is returned when a role profile has no credentials.
	ErrUnknownRole = errors.New("unknown role profile")
)

// Credentials is an email and password pair for one role profile.
type Credentials struct {
	Email    string
	Password string
}

type TestConfig struct {
	BaseURL               string
	ProductsURL           string
	UserEmail             string
	UserPassword          string
	SecondUserEmail       string
	SecondUserPassword    string
	NewSecondUserPassword string
	AdminEmail            string
	AdminPassword         string
	WrongEmail            string
	WrongPassword         string
	UserID                string
	SecondUserID          string
	AdminID               string
	UserToChange          string
	UserToDelete          string
	ProductID             string
	CategoryID            string
	BrandID               string
	ProductImageID        string
	OpenAPISpec           string
	RequestTimeout        time.Duration
	RequestRate           float64
	SkipIntegration       bool
	DebugLogging          bool
	LogRequests           bool
	LogResponses          bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error wrapping ErrMissingConfig if required values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	baseURL := strings.TrimSuffix(os.Getenv("API_URL"), "/")

	config := &TestConfig{
		BaseURL:               baseURL,
		ProductsURL:           getWithDefault("PRODUCTS_API_URL", baseURL),
		UserEmail:             os.Getenv("USER_EMAIL"),
		UserPassword:          os.Getenv("USER_PASSWORD"),
		SecondUserEmail:       os.Getenv("SECOND_USER_EMAIL"),
		SecondUserPassword:    os.Getenv("SECOND_USER_PASSWORD"),
		NewSecondUserPassword: os.Getenv("NEW_SECOND_USER_PASSWORD"),
		AdminEmail:            os.Getenv("ADMIN_EMAIL"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		WrongEmail:            getWithDefault("WRONG_EMAIL", "nobody-"+uuid.NewString()+"@example.com"),
		WrongPassword:         getWithDefault("WRONG_PASSWORD", uuid.NewString()),
		UserID:                os.Getenv("USER_ID"),
		SecondUserID:          os.Getenv("SECOND_USER_ID"),
		AdminID:               os.Getenv("ADMIN_ID"),
		UserToChange:          os.Getenv("USER_TO_CHANGE"),
		UserToDelete:          os.Getenv("USER_TO_DELETE"),
		ProductID:             getWithDefault("TEST_PRODUCT_ID", "1"),
		CategoryID:            getWithDefault("TEST_CATEGORY_ID", "1"),
		BrandID:               getWithDefault("TEST_BRAND_ID", "1"),
		ProductImageID:        getWithDefault("TEST_PRODUCT_IMAGE_ID", "1"),
		OpenAPISpec:           os.Getenv("OPENAPI_SPEC"),
		RequestTimeout:        getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		RequestRate:           getFloatWithDefault("REQUEST_RATE", 0),
		SkipIntegration:       getBoolWithDefault("SKIP_INTEGRATION", false),
		DebugLogging:          getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:           getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:          getBoolWithDefault("LOG_RESPONSES", false),
	}

	config.ProductsURL = strings.TrimSuffix(config.ProductsURL, "/")

	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// FakeAPIRequested reports whether suites should run against the in-process fake API.
func FakeAPIRequested() bool {
	loadEnvFile()

	return getBoolWithDefault("USE_FAKE_API", false)
}

// Credentials returns the login credentials for a role profile.
func (c *TestConfig) Credentials(role Role) (Credentials, error) {
	switch role {
	case RoleUser:
		return Credentials{Email: c.UserEmail, Password: c.UserPassword}, nil
	case RoleSecondUser:
		return Credentials{Email: c.SecondUserEmail, Password: c.SecondUserPassword}, nil
	case RoleAdmin:
		return Credentials{Email: c.AdminEmail, Password: c.AdminPassword}, nil
	}

	return Credentials{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

func getWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getFloatWithDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil || floatValue < 0 {
		return defaultValue
	}

	return floatValue
}

func envFileCandidates() []string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return []string{path}
	}

	return []string{
		"../../.env",         // From test/api directory
		"../../../test/.env", // From test/api/suites directory
		".env",
	}
}

func loadEnvFile() {
	var envPath string

	for _, path := range envFileCandidates() {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing variables win over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	var missing []string

	required := map[string]string{
		"API_URL":                  config.BaseURL,
		"USER_EMAIL":               config.UserEmail,
		"USER_PASSWORD":            config.UserPassword,
		"SECOND_USER_EMAIL":        config.SecondUserEmail,
		"SECOND_USER_PASSWORD":     config.SecondUserPassword,
		"NEW_SECOND_USER_PASSWORD": config.NewSecondUserPassword,
		"ADMIN_EMAIL":              config.AdminEmail,
		"ADMIN_PASSWORD":           config.AdminPassword,
		"USER_ID":                  config.UserID,
		"SECOND_USER_ID":           config.SecondUserID,
		"ADMIN_ID":                 config.AdminID,
		"USER_TO_CHANGE":           config.UserToChange,
	}

	for envVar, value := range required {
		if value == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return fmt.Errorf("%w: %s. Please set these environment variables or add them to a .env file", ErrMissingConfig, strings.Join(missing, ", "))
	}

	return nil
}
