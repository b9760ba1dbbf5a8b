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

package recipe

// StrategyKind names how an option resolves a failure.
type StrategyKind string

const (
	StrategyInstallDep         StrategyKind = "install_dep"
	StrategyInstallDepThenSwitch StrategyKind = "install_dep_then_switch"
	StrategyInstallPackages    StrategyKind = "install_packages"
	StrategySwitchMethod       StrategyKind = "switch_method"
	StrategyRetryWithModifier  StrategyKind = "retry_with_modifier"
	StrategyAddRepo            StrategyKind = "add_repo"
	StrategyUpgradeDep         StrategyKind = "upgrade_dep"
	StrategyEnvFix             StrategyKind = "env_fix"
	StrategyManual             StrategyKind = "manual"
	StrategyCleanupRetry       StrategyKind = "cleanup_retry"
)

// FailureOption is one remediation path offered for a matched handler.
// Packages is either a family->package-list map (inline) or, when
// PackageGroupRef is set instead, a named lookup into the package-groups
// registry (§3.6) resolved at runtime by the Remediation Engine.
type FailureOption struct {
	ID              string            `yaml:"id" json:"id"`
	Label           string            `yaml:"label" json:"label"`
	Description     string            `yaml:"description,omitempty" json:"description,omitempty"`
	Icon            string            `yaml:"icon,omitempty" json:"icon,omitempty"`
	Recommended     bool              `yaml:"recommended,omitempty" json:"recommended,omitempty"`
	Strategy        StrategyKind      `yaml:"strategy" json:"strategy"`
	Risk            RiskLevel         `yaml:"risk,omitempty" json:"risk,omitempty"`
	Dep             string            `yaml:"dep,omitempty" json:"dep,omitempty"`
	SwitchTo        string            `yaml:"switch_to,omitempty" json:"switch_to,omitempty"`
	Method          string            `yaml:"method,omitempty" json:"method,omitempty"`
	Packages        map[string][]string `yaml:"packages,omitempty" json:"packages,omitempty"`
	PackageGroupRef string            `yaml:"package_group,omitempty" json:"package_group,omitempty"`
	Modifier        map[string]string `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	RepoCommands    map[string]string `yaml:"repo_commands,omitempty" json:"repo_commands,omitempty"`
	MinVersion      string            `yaml:"min_version,omitempty" json:"min_version,omitempty"`
	FixCommands     []string          `yaml:"fix_commands,omitempty" json:"fix_commands,omitempty"`
	CleanupCommands []string          `yaml:"cleanup_commands,omitempty" json:"cleanup_commands,omitempty"`
	Instructions    string            `yaml:"instructions,omitempty" json:"instructions,omitempty"`
	DynamicPackages bool              `yaml:"dynamic_packages,omitempty" json:"dynamic_packages,omitempty"`
	ArchExclude     []string          `yaml:"arch_exclude,omitempty" json:"arch_exclude,omitempty"`
}

// HandlerRecord matches a failed step's stderr/exit code to a named
// failure and a ranked list of remediation options.
type HandlerRecord struct {
	Pattern     string          `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	ExitCode    *int            `yaml:"exit_code,omitempty" json:"exit_code,omitempty"`
	DetectFn    string          `yaml:"detect_fn,omitempty" json:"detect_fn,omitempty"`
	FailureID   string          `yaml:"failure_id" json:"failure_id"`
	Category    string          `yaml:"category,omitempty" json:"category,omitempty"`
	Label       string          `yaml:"label" json:"label"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Options     []FailureOption `yaml:"options" json:"options"`
}

// Matches reports whether this handler applies to a step's observed
// exit code / stderr text. DetectFn handlers never match here — the
// remediation engine evaluates those by name against a registry of
// builtin Go predicates.
func (h HandlerRecord) Matches(exitCode int, stderr string) bool {
	if h.ExitCode != nil && *h.ExitCode != exitCode {
		return false
	}
	if h.Pattern != "" {
		return regexpMatch(h.Pattern, stderr)
	}
	return h.ExitCode != nil
}

// PackageGroup is a named, reusable set of per-package-manager package
// lists, referenced from Requires.Packages by group name (e.g. "build-essential").
type PackageGroup struct {
	Name     string              `yaml:"name" json:"name"`
	Packages map[string][]string `yaml:"packages" json:"packages"`
}
