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

// Package plan is the install plan data model and Plan Builder (C6): it
// orchestrates the Dep Resolver, Method Selector and Choice Resolver into
// an ordered (or DAG) step list ready for the Executor.
package plan

import (
	"time"

	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// StepType names the kind of action a step performs.
type StepType string

const (
	StepRepoSetup     StepType = "repo_setup"
	StepPackages      StepType = "packages"
	StepTool          StepType = "tool"
	StepPostInstall   StepType = "post_install"
	StepVerify        StepType = "verify"
	StepSource        StepType = "source"
	StepBuild         StepType = "build"
	StepInstall       StepType = "install"
	StepCleanup       StepType = "cleanup"
	StepDownload      StepType = "download"
	StepService       StepType = "service"
	StepConfig        StepType = "config"
	StepShellConfig   StepType = "shell_config"
	StepNotification  StepType = "notification"
	StepGithubRelease StepType = "github_release"
)

// ConfirmationGate names the UI confirmation level a plan requires
// before execution, derived from the plan's aggregate risk.
type ConfirmationGate string

const (
	GateNone   ConfirmationGate = "none"
	GateSingle ConfirmationGate = "single"
	GateDouble ConfirmationGate = "double"
)

// ErrorKind is a plan-build-time (non-streaming) error classification.
type ErrorKind string

const (
	ErrNoRecipe                ErrorKind = "no_recipe"
	ErrNoMethodAvailable       ErrorKind = "no_method_available"
	ErrConstraintUnsatisfiable ErrorKind = "constraint_unsatisfiable"
	ErrCycle                   ErrorKind = "cycle"
)

// Step is a single unit of plan execution.
type Step struct {
	ID              string        `json:"id"`
	Type            StepType      `json:"type"`
	Label           string        `json:"label"`
	Command         []string      `json:"command"`
	NeedsSudo       bool          `json:"needs_sudo"`
	Risk            recipe.RiskLevel `json:"risk"`
	Condition       string        `json:"condition,omitempty"`
	Rollback        []string      `json:"rollback,omitempty"`
	RestartRequired recipe.RestartRequirement `json:"restart_required,omitempty"`
	DependsOn       []string      `json:"depends_on,omitempty"`
	BackupBefore    []string      `json:"backup_before,omitempty"`
	TimeoutSeconds  int           `json:"timeout_seconds,omitempty"`
	PostEnv         string        `json:"post_env,omitempty"`
	Sensitive       bool          `json:"sensitive,omitempty"`
}

// RiskSummary is the plan-level aggregate risk.
type RiskSummary struct {
	Level recipe.RiskLevel `json:"level"`
}

// Plan is the full result of resolving a tool install.
type Plan struct {
	Tool             string           `json:"tool"`
	Label            string           `json:"label"`
	AlreadyInstalled bool             `json:"already_installed"`
	Error            ErrorKind        `json:"error,omitempty"`
	AvailableMethods []string         `json:"available_methods,omitempty"`
	Suggestion       string           `json:"suggestion,omitempty"`
	NeedsSudo        bool             `json:"needs_sudo"`
	Steps            []Step           `json:"steps"`
	RiskSummary      RiskSummary      `json:"risk_summary"`
	RiskEscalation   string           `json:"risk_escalation,omitempty"`
	ConfirmationGate ConfirmationGate `json:"confirmation_gate"`
	Warning          string           `json:"warning,omitempty"`
	RollbackPlan     []RollbackStep   `json:"rollback_plan,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// RollbackStep is one entry of the reverse-order undo plan.
type RollbackStep struct {
	StepID       string `json:"step_id"`
	Command      []string `json:"command,omitempty"`
	ManualOnly   bool   `json:"manual_only"`
	Instructions string `json:"instructions,omitempty"`
}

// ErrorPlan builds a plan carrying only an error, no steps.
func ErrorPlan(tool string, kind ErrorKind, suggestion string) Plan {
	return Plan{
		Tool:             tool,
		Error:            kind,
		Suggestion:       suggestion,
		ConfirmationGate: GateNone,
	}
}

// AlreadyInstalledPlan builds the canonical empty-steps plan for a tool
// whose CLI is already on PATH.
func AlreadyInstalledPlan(tool, label string) Plan {
	return Plan{
		Tool:             tool,
		Label:            label,
		AlreadyInstalled: true,
		Steps:            []Step{},
		ConfirmationGate: GateNone,
	}
}
