// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides immutable, process-wide tunables for the
// toolplane engine: deep-probe cache TTL, executor concurrency, escalation
// depth, chain-store directory, and recipe catalog source.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/mnemonic-labs/toolplane/pkg/defaults"
)

// Env var prefix for overriding any Config field without code changes.
const envPrefix = "TOOLPLANE_"

// CatalogSourceType selects where the recipe catalog is loaded from.
type CatalogSourceType string

const (
	// CatalogSourceEmbedded uses the compiled-in seed catalog.
	CatalogSourceEmbedded CatalogSourceType = "embedded"
	// CatalogSourceDir loads YAML recipe files from a local directory.
	CatalogSourceDir CatalogSourceType = "dir"
	// CatalogSourceOCI pulls the catalog from an OCI artifact reference.
	CatalogSourceOCI CatalogSourceType = "oci"
)

// Config is immutable after creation. Use New with Options, or Clone to
// derive a modified copy.
type Config struct {
	deepProbeTTL        time.Duration
	executorConcurrency int
	maxEscalationDepth  int
	chainStoreDir       string
	catalogSource       CatalogSourceType
	catalogPath         string
	version             string
}

// Option is a functional option for configuring Config instances.
type Option func(*Config)

// WithDeepProbeTTL overrides the deep-tier host probe cache TTL.
func WithDeepProbeTTL(ttl time.Duration) Option {
	return func(c *Config) { c.deepProbeTTL = ttl }
}

// WithExecutorConcurrency overrides the max parallel steps the executor
// dispatches in DAG mode.
func WithExecutorConcurrency(n int) Option {
	return func(c *Config) { c.executorConcurrency = n }
}

// WithMaxEscalationDepth overrides the remediation chain depth guard.
func WithMaxEscalationDepth(n int) Option {
	return func(c *Config) { c.maxEscalationDepth = n }
}

// WithChainStoreDir sets the directory chain/plan-state records persist to.
func WithChainStoreDir(dir string) Option {
	return func(c *Config) { c.chainStoreDir = dir }
}

// WithCatalogSource sets where the recipe catalog loads from, and its
// location (a directory path or an OCI reference, per source).
func WithCatalogSource(source CatalogSourceType, path string) Option {
	return func(c *Config) {
		c.catalogSource = source
		c.catalogPath = path
	}
}

// WithVersion stamps the engine version into generated header envelopes.
func WithVersion(version string) Option {
	return func(c *Config) { c.version = version }
}

// New builds a Config from defaults, environment overrides, then the
// supplied options, in that precedence order (options win).
func New(opts ...Option) *Config {
	c := &Config{
		deepProbeTTL:        defaults.ProbeDeepCacheTTL,
		executorConcurrency: defaults.ExecutorMaxParallelSteps,
		maxEscalationDepth:  defaults.RemediationMaxDepth,
		chainStoreDir:       defaultChainStoreDir(),
		catalogSource:       CatalogSourceEmbedded,
	}
	c.applyEnv()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultChainStoreDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home + "/.toolplane/chains"
	}
	return "/var/lib/toolplane/chains"
}

func (c *Config) applyEnv() {
	if v, ok := lookupEnv("DEEP_PROBE_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.deepProbeTTL = d
		}
	}
	if v, ok := lookupEnv("EXECUTOR_CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.executorConcurrency = n
		}
	}
	if v, ok := lookupEnv("MAX_ESCALATION_DEPTH"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.maxEscalationDepth = n
		}
	}
	if v, ok := lookupEnv("CHAIN_STORE_DIR"); ok && v != "" {
		c.chainStoreDir = v
	}
	if v, ok := lookupEnv("CATALOG_SOURCE"); ok && v != "" {
		c.catalogSource = CatalogSourceType(v)
	}
	if v, ok := lookupEnv("CATALOG_PATH"); ok && v != "" {
		c.catalogPath = v
	}
}

func lookupEnv(suffix string) (string, bool) {
	return os.LookupEnv(envPrefix + suffix)
}

// DeepProbeTTL returns the deep-tier cache TTL.
func (c *Config) DeepProbeTTL() time.Duration { return c.deepProbeTTL }

// ExecutorConcurrency returns the max parallel step count.
func (c *Config) ExecutorConcurrency() int { return c.executorConcurrency }

// MaxEscalationDepth returns the remediation chain depth guard.
func (c *Config) MaxEscalationDepth() int { return c.maxEscalationDepth }

// ChainStoreDir returns the chain/plan-state persistence directory.
func (c *Config) ChainStoreDir() string { return c.chainStoreDir }

// CatalogSource returns the recipe catalog source kind and its path/ref.
func (c *Config) CatalogSource() (CatalogSourceType, string) { return c.catalogSource, c.catalogPath }

// Version returns the engine version stamped into header envelopes.
func (c *Config) Version() string { return c.version }

// Clone returns a copy of c with opts applied on top.
func (c *Config) Clone(opts ...Option) *Config {
	cp := *c
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}
