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

package defaults

import "time"

// Host Probe timeouts (C1).
const (
	// ProbeFastTimeout bounds the always-run fast tier (os-release, path
	// lookups, permission check) per host.
	ProbeFastTimeout = 3 * time.Second

	// ProbeDeepCollectorTimeout bounds a single deep-tier collector
	// (systemd, gpu, kubernetes, filesystem scan).
	ProbeDeepCollectorTimeout = 10 * time.Second

	// ProbeDeepCacheTTL is how long a deep-tier category result is reused
	// before a fresh collection is single-flighted.
	ProbeDeepCacheTTL = 10 * time.Minute
)

// Recipe Store timeouts (C2).
const (
	// CatalogLoadTimeout bounds the one-time catalog load, including an
	// optional OCI pull.
	CatalogLoadTimeout = 30 * time.Second
)

// Plan Builder / Executor timeouts (C6/C7).
const (
	// PlanBuildTimeout bounds dependency resolution, method selection,
	// and step ordering for a single plan.
	PlanBuildTimeout = 15 * time.Second

	// StepDefaultTimeout is used for an install step lacking an explicit
	// per-step timeout.
	StepDefaultTimeout = 10 * time.Minute

	// StepVerifyTimeout bounds a single verification command.
	StepVerifyTimeout = 30 * time.Second

	// ExecutorMaxParallelSteps bounds concurrent subprocess dispatch in
	// DAG mode.
	ExecutorMaxParallelSteps = 4
)

// Remediation Engine timeouts (C8).
const (
	// RemediationMaxDepth bounds escalation chain length.
	RemediationMaxDepth = 3

	// RemediationStepTimeout bounds a single remediation handler attempt.
	RemediationStepTimeout = 2 * time.Minute
)

// Chain Store timeouts (C9).
const (
	// ChainPersistTimeout bounds a single chain/plan-state write.
	ChainPersistTimeout = 5 * time.Second
)

// CLI timeouts.
const (
	// CLIPlanTimeout is an end-to-end budget for resolving a plan from the
	// CLI; the commands in pkg/cli do not apply it.
	CLIPlanTimeout = 2 * time.Minute
)
