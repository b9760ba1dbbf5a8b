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

// Package executor runs a resolved plan.Plan step by step, streaming
// progress events, applying pre-step backups and post-step restart
// pauses, and handing failures to the Remediation Engine (C7 Executor).
package executor

import (
	"github.com/mnemonic-labs/toolplane/pkg/cnserr"
	"github.com/mnemonic-labs/toolplane/pkg/defaults"
	"github.com/mnemonic-labs/toolplane/pkg/remediation"
)

// EventKind names the kind of progress event emitted on the stream.
type EventKind string

const (
	EventStepStart    EventKind = "step_start"
	EventStdoutChunk  EventKind = "step_stdout_chunk"
	EventStderrChunk  EventKind = "step_stderr_chunk"
	EventStepDone     EventKind = "step_done"
	EventPlanPaused   EventKind = "plan_paused"
	EventPlanDone     EventKind = "plan_done"
	EventRemediation  EventKind = "remediation"
	EventPendingChain EventKind = "pending_chain"
)

// Event is one entry of the execution stream. Only the fields relevant to
// Kind are populated.
type Event struct {
	Kind EventKind `json:"kind"`

	StepID   string `json:"step_id,omitempty"`
	StepIdx  int    `json:"step_idx,omitempty"`
	Chunk    string `json:"chunk,omitempty"`
	OK       bool   `json:"ok,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
	Stderr   string `json:"stderr,omitempty"`

	PauseReason string `json:"pause_reason,omitempty"`
	StateID     string `json:"state_id,omitempty"`

	Remediation *remediation.Response `json:"remediation,omitempty"`
}

// Options configures a single Execute invocation.
type Options struct {
	// SudoPassword is held only for the duration of this call; never
	// logged, never persisted.
	SudoPassword string
	StartFrom    int
	DAGMode      bool
	ChainID      string
}

// Default per-step timeouts (§4.7), overridden by Step.TimeoutSeconds.
const (
	DefaultProbeTimeout   = defaults.StepVerifyTimeout
	DefaultInstallTimeout = defaults.StepDefaultTimeout
)

// ErrMaxDepthExceeded mirrors the remediation engine's max_depth_exceeded
// failure_id for callers that only see an executor-level error.
var ErrMaxDepthExceeded = cnserr.New(cnserr.CategoryMaxDepthExceeded, "remediation chain exceeded its maximum depth")
