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

// Package defaults provides centralized configuration constants for toolplane.
//
// This package defines timeout values, limits, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Timeout Categories
//
// Constants are organized by component:
//
//   - Host Probe (C1): fast-tier and deep-collector timeouts, deep cache TTL
//   - Recipe Store (C2): catalog load timeout
//   - Plan Builder / Executor (C6/C7): plan build timeout, default install
//     and verify step timeouts, DAG-mode parallelism cap
//   - Remediation Engine (C8): maximum escalation depth, handler timeout
//   - Chain Store (C9): persist timeout
//   - CLI: end-to-end plan timeout
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/mnemonic-labs/toolplane/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeFastTimeout)
//	defer cancel()
//
// # Current Values
//
//   - Host probe: 3s fast tier, 10s per deep collector, 10m deep cache TTL
//   - Catalog load: 30s
//   - Plan build: 15s; install steps 10m, verify steps 30s; 4 parallel steps
//   - Remediation: depth 3, 2m per handler attempt
//   - Chain persist: 5s; CLI plan: 2m
package defaults
