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

// Package remediation turns a failed step's exit code and stderr into a
// ranked set of fix options by cascading recipe, method-family, infra
// and bootstrap handlers, and manages the escalation chain that tracks
// fix-the-fix sub-installs (C8 Remediation Engine).
package remediation

import (
	"time"

	"github.com/mnemonic-labs/toolplane/pkg/defaults"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// Availability is a remediation option's computed runtime state.
type Availability string

const (
	Ready      Availability = "ready"
	Locked     Availability = "locked"
	Impossible Availability = "impossible"
)

// FallbackAction names one of the always-offered terminal actions.
type FallbackAction string

const (
	FallbackRetry  FallbackAction = "retry"
	FallbackSkip   FallbackAction = "skip"
	FallbackCancel FallbackAction = "cancel"
)

// ResolvedOption is a handler's FailureOption enriched with the
// availability state computed against the current host profile.
type ResolvedOption struct {
	recipe.FailureOption

	Available    Availability `json:"available"`
	UnlockDeps   []string     `json:"unlock_deps,omitempty"`
	ResolvedTo   string       `json:"resolved_to,omitempty"` // switch_method's chosen target when SwitchTo was left dynamic
	MatchedLayer string       `json:"matched_layer"`
}

// FailureInfo names the failure the primary (highest-priority) matching
// handler identified.
type FailureInfo struct {
	FailureID     string `json:"failure_id"`
	Category      string `json:"category"`
	Label         string `json:"label"`
	Description   string `json:"description,omitempty"`
	MatchedLayer  string `json:"matched_layer"`
	MatchedMethod string `json:"matched_method,omitempty"`
}

// OriginalGoal anchors an escalation chain to the install that first failed.
type OriginalGoal struct {
	ToolID        string    `json:"tool_id"`
	Plan          PlanRef   `json:"plan"`
	FailedStepIdx int       `json:"failed_step_idx"`
}

// PlanRef is the subset of plan.Plan the chain needs to persist; kept as
// its own type so this package does not import pkg/plan (which would
// create an import cycle once the executor wires both together).
type PlanRef struct {
	Tool  string `json:"tool"`
	Label string `json:"label"`
	Steps int    `json:"steps"`
}

// ChainFrame is one escalation level: a sub-install undertaken to unlock
// an option on the frame below it.
type ChainFrame struct {
	Depth          int      `json:"depth"`
	FailureID      string   `json:"failure_id"`
	ChosenOptionID string   `json:"chosen_option_id"`
	Plan           *PlanRef `json:"plan,omitempty"`
	Status         string   `json:"status"`
	Breadcrumbs    []string `json:"breadcrumbs,omitempty"`
}

// Chain frame statuses.
const (
	FrameStatusPending   = "pending"
	FrameStatusExecuting = "executing"
	FrameStatusDone      = "done"
	FrameStatusFailed    = "failed"
	FrameStatusCancelled = "cancelled"
)

// Chain is the persisted escalation stack for one original install
// attempt, growing one frame per "fix the fix" detour (§3.5).
type Chain struct {
	ChainID      string       `json:"chain_id"`
	OriginalGoal OriginalGoal `json:"original_goal"`
	Stack        []ChainFrame `json:"stack"`
	MaxDepth     int          `json:"max_depth"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DefaultMaxDepth is the hard ceiling on escalation depth absent an
// explicit override.
const DefaultMaxDepth = defaults.RemediationMaxDepth

// ChainSummary is the trimmed view of a chain embedded in a Response.
type ChainSummary struct {
	ChainID      string       `json:"chain_id,omitempty"`
	OriginalGoal OriginalGoal `json:"original_goal"`
	Depth        int          `json:"depth"`
	MaxDepth     int          `json:"max_depth"`
	Breadcrumbs  []string     `json:"breadcrumbs,omitempty"`
}

// Response is the full result of analysing one step failure.
type Response struct {
	OK       bool    `json:"ok"`
	ToolID   string  `json:"tool_id"`
	StepIdx  int     `json:"step_idx"`
	StepLabel string `json:"step_label"`
	ExitCode int     `json:"exit_code"`
	Stderr   string  `json:"stderr"`

	Failure FailureInfo       `json:"failure"`
	Options []ResolvedOption  `json:"options"`
	Chain   *ChainSummary     `json:"chain,omitempty"`

	FallbackActions []FallbackAction `json:"fallback_actions"`
}

// MaxDepthExceededFailureID is the synthetic failure_id returned when an
// escalation would exceed a chain's max_depth.
const MaxDepthExceededFailureID = "max_depth_exceeded"
