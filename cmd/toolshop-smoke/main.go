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
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/unikorn-cloud/toolshop-api-tests/test/api"
)

// options are the command line flags. Zero values defer to the test configuration.
type options struct {
	envFile string
	timeout time.Duration
	rate    float64
	debug   bool
}

func (o *options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.envFile, "env-file", "", "Path to a .env file with the test configuration.")
	f.DurationVar(&o.timeout, "timeout", 0, "Per request timeout, overrides REQUEST_TIMEOUT.")
	f.Float64Var(&o.rate, "rate", 0, "Maximum requests per second, overrides REQUEST_RATE.")
	f.BoolVar(&o.debug, "debug", false, "Enable development logging and request logs.")
}

func (o *options) setupLogging() (*zap.Logger, error) {
	var (
		zl  *zap.Logger
		err error
	)

	if o.debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}

	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return zl, nil
}

func (o *options) loadConfig() (*api.TestConfig, error) {
	if o.envFile != "" {
		if err := os.Setenv("ENV_FILE", o.envFile); err != nil {
			return nil, fmt.Errorf("selecting env file: %w", err)
		}
	}

	config, err := api.LoadTestConfig()
	if err != nil {
		return nil, err
	}

	if o.timeout > 0 {
		config.RequestTimeout = o.timeout
	}

	if o.rate > 0 {
		config.RequestRate = o.rate
	}

	if o.debug {
		config.LogRequests = true
		config.DebugLogging = true
	}

	return config, nil
}

func run(ctx context.Context, o *options) error {
	zl, err := o.setupLogging()
	if err != nil {
		return err
	}

	defer func() {
		_ = zl.Sync()
	}()

	logger := zapr.NewLogger(zl)

	config, err := o.loadConfig()
	if err != nil {
		return err
	}

	logger.Info("smoke run starting", "baseURL", config.BaseURL)

	client := api.NewAPIClientWithConfig(config, api.WithLogger(logger.WithName("client")))

	sessions, err := api.Bootstrap(ctx, client, config)
	if err != nil {
		return err
	}

	defer Teardown(context.WithoutCancel(ctx), logger, client, sessions)

	results := Run(ctx, client, sessions, DefaultProbes(client.Endpoints()))

	if failed := Report(os.Stdout, results); failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrProbesFailed, failed, len(results))
	}

	return nil
}

func main() {
	var o options

	o.AddFlags(pflag.CommandLine)

	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, &o)

	cancel()

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
