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

// Package recipe is the read-only catalog of tool recipes, method-family
// handlers, infra/bootstrap handlers, package groups, known-packages table,
// and lib-to-package map (C2 Recipe Store).
package recipe

// RiskLevel is a step or recipe's declared risk, ordered low < medium < high.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevelOrder gives the total order used to compute plan.risk_summary.
var RiskLevelOrder = map[RiskLevel]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}

// Max returns the higher-ranked of a and b.
func (a RiskLevel) Max(b RiskLevel) RiskLevel {
	if RiskLevelOrder[b] > RiskLevelOrder[a] {
		return b
	}
	return a
}

// RestartRequirement names what a step requires restarted to take effect.
type RestartRequirement string

const (
	RestartNone    RestartRequirement = ""
	RestartSession RestartRequirement = "session"
	RestartService RestartRequirement = "service"
	RestartSystem  RestartRequirement = "system"
)

// ChoiceType is single or multi select.
type ChoiceType string

const (
	ChoiceSingle ChoiceType = "single"
	ChoiceMulti  ChoiceType = "multi"
)

// InputType names a user-input record's value kind.
type InputType string

const (
	InputText     InputType = "text"
	InputNumber   InputType = "number"
	InputPath     InputType = "path"
	InputSelect   InputType = "select"
	InputBoolean  InputType = "boolean"
	InputPassword InputType = "password"
)

// TemplateFormat names a config template's render format.
type TemplateFormat string

const (
	FormatJSON TemplateFormat = "json"
	FormatINI  TemplateFormat = "ini"
	FormatYAML TemplateFormat = "yaml"
	FormatRaw  TemplateFormat = "raw"
)

// StepRecord is a single repo_setup/post_install step before templating
// into a full plan.Step.
type StepRecord struct {
	Label     string `yaml:"label" json:"label"`
	Command   string `yaml:"command" json:"command"`
	NeedsSudo bool   `yaml:"needs_sudo" json:"needs_sudo"`
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// Requires is the constraint shape shared by recipes, options, and handler
// dependency declarations.
type Requires struct {
	Binaries     []string            `yaml:"binaries,omitempty" json:"binaries,omitempty"`
	Packages     map[string][]string `yaml:"packages,omitempty" json:"packages,omitempty"`
	KernelConfig []string            `yaml:"kernel_config,omitempty" json:"kernel_config,omitempty"`
	Hardware     []Constraint        `yaml:"hardware,omitempty" json:"hardware,omitempty"`
	Network      []Constraint        `yaml:"network,omitempty" json:"network,omitempty"`
}

// Constraint is a single `{path} {op} {value}` requirement evaluated
// against a host profile path (see pkg/constraint).
type Constraint struct {
	Path  string `yaml:"path" json:"path"`
	Op    string `yaml:"op" json:"op"`
	Value string `yaml:"value" json:"value"`
}

// OptionRecord is one selectable answer to a Choice.
type OptionRecord struct {
	ID             string    `yaml:"id" json:"id"`
	Label          string    `yaml:"label" json:"label"`
	Description    string    `yaml:"description,omitempty" json:"description,omitempty"`
	Default        bool      `yaml:"default,omitempty" json:"default,omitempty"`
	Requires       *Requires `yaml:"requires,omitempty" json:"requires,omitempty"`
	InstallCommand string    `yaml:"install_command,omitempty" json:"install_command,omitempty"`
	VariantID      string    `yaml:"variant_id,omitempty" json:"variant_id,omitempty"`
	Risk           RiskLevel `yaml:"risk,omitempty" json:"risk,omitempty"`
	Warning        string    `yaml:"warning,omitempty" json:"warning,omitempty"`
	EstimatedTime  string    `yaml:"estimated_time,omitempty" json:"estimated_time,omitempty"`
	LearnMore      string    `yaml:"learn_more,omitempty" json:"learn_more,omitempty"`
}

// Choice is a two-pass-resolve decision point on a recipe.
type Choice struct {
	ID        string                 `yaml:"id" json:"id"`
	Label     string                 `yaml:"label" json:"label"`
	Type      ChoiceType             `yaml:"type" json:"type"`
	DependsOn map[string]string      `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	MinSelect int                    `yaml:"min_select,omitempty" json:"min_select,omitempty"`
	MaxSelect int                    `yaml:"max_select,omitempty" json:"max_select,omitempty"`
	Options   []OptionRecord         `yaml:"options" json:"options"`
}

// InstallVariant is an alternate install for a given choice answer, either
// a single command or an ordered list of steps.
type InstallVariant struct {
	Command string       `yaml:"command,omitempty" json:"command,omitempty"`
	Steps   []StepRecord `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// InputRecord is a single user-supplied value.
type InputRecord struct {
	ID         string    `yaml:"id" json:"id"`
	Type       InputType `yaml:"type" json:"type"`
	Default    string    `yaml:"default,omitempty" json:"default,omitempty"`
	Validation string    `yaml:"validation,omitempty" json:"validation,omitempty"`
	Options    []string  `yaml:"options,omitempty" json:"options,omitempty"`
	Sensitive  bool      `yaml:"sensitive,omitempty" json:"sensitive,omitempty"`
	Condition  string    `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// ConfigTemplate is a generated config file.
type ConfigTemplate struct {
	ID          string         `yaml:"id" json:"id"`
	File        string         `yaml:"file" json:"file"`
	Format      TemplateFormat `yaml:"format" json:"format"`
	Template    string         `yaml:"template" json:"template"`
	Inputs      []string       `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	NeedsSudo   bool           `yaml:"needs_sudo,omitempty" json:"needs_sudo,omitempty"`
	PostCommand string         `yaml:"post_command,omitempty" json:"post_command,omitempty"`
	Condition   string         `yaml:"condition,omitempty" json:"condition,omitempty"`
	Backup      bool           `yaml:"backup,omitempty" json:"backup,omitempty"`
	Mode        string         `yaml:"mode,omitempty" json:"mode,omitempty"`
	Owner       string         `yaml:"owner,omitempty" json:"owner,omitempty"`
}

// ShellConfig describes environment wiring a recipe wants added to the
// user's shell profile.
type ShellConfig struct {
	EnvVars     map[string]string `yaml:"env_vars,omitempty" json:"env_vars,omitempty"`
	PathAppend  []string          `yaml:"path_append,omitempty" json:"path_append,omitempty"`
	ProfileFile string            `yaml:"profile_file,omitempty" json:"profile_file,omitempty"`
}

// Recipe is a record keyed by tool_id describing how to install, verify,
// update and remove a single tool across platforms.
type Recipe struct {
	ToolID string    `yaml:"tool_id" json:"tool_id"`
	Label  string    `yaml:"label" json:"label"`
	CLI    string    `yaml:"cli,omitempty" json:"cli,omitempty"`
	Category string  `yaml:"category,omitempty" json:"category,omitempty"`
	Risk   RiskLevel `yaml:"risk,omitempty" json:"risk,omitempty"`

	Install   map[string][]string `yaml:"install" json:"install"`
	NeedsSudo map[string]bool     `yaml:"needs_sudo" json:"needs_sudo"`
	Prefer    []string            `yaml:"prefer,omitempty" json:"prefer,omitempty"`

	Requires Requires `yaml:"requires,omitempty" json:"requires,omitempty"`

	RepoSetup map[string][]StepRecord `yaml:"repo_setup,omitempty" json:"repo_setup,omitempty"`
	PostEnv   string                  `yaml:"post_env,omitempty" json:"post_env,omitempty"`
	PostInstall []StepRecord          `yaml:"post_install,omitempty" json:"post_install,omitempty"`
	Verify    string                  `yaml:"verify,omitempty" json:"verify,omitempty"`

	Update map[string]string `yaml:"update,omitempty" json:"update,omitempty"`
	Remove map[string]string `yaml:"remove,omitempty" json:"remove,omitempty"`

	Choices        []Choice                  `yaml:"choices,omitempty" json:"choices,omitempty"`
	InstallVariants map[string]InstallVariant `yaml:"install_variants,omitempty" json:"install_variants,omitempty"`
	Inputs         []InputRecord             `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	ConfigTemplates []ConfigTemplate         `yaml:"config_templates,omitempty" json:"config_templates,omitempty"`
	ShellConfig    *ShellConfig              `yaml:"shell_config,omitempty" json:"shell_config,omitempty"`

	RestartRequired RestartRequirement `yaml:"restart_required,omitempty" json:"restart_required,omitempty"`

	OnFailure []HandlerRecord `yaml:"on_failure,omitempty" json:"on_failure,omitempty"`

	ArchMap map[string]string `yaml:"arch_map,omitempty" json:"arch_map,omitempty"`
}

// EffectiveCLI returns the binary name used for the already-installed PATH
// check: cli if set, else tool_id (§9 open question: resolved in favor of
// consulting recipe.cli explicitly, per the spec's own recommendation).
func (r *Recipe) EffectiveCLI() string {
	if r.CLI != "" {
		return r.CLI
	}
	return r.ToolID
}
