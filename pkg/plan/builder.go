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

package plan

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mnemonic-labs/toolplane/pkg/choice"
	"github.com/mnemonic-labs/toolplane/pkg/depresolve"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/method"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// methodUndoTable maps a method key to its generic uninstall command
// template, used to derive rollback steps when a step declares no
// explicit rollback.
var methodUndoTable = map[string]string{
	"pip":    "pip uninstall -y %s",
	"pipx":   "pipx uninstall %s",
	"apt":    "apt-get purge -y %s",
	"dnf":    "dnf remove -y %s",
	"yum":    "yum remove -y %s",
	"apk":    "apk del %s",
	"pacman": "pacman -R --noconfirm %s",
	"zypper": "zypper remove -y %s",
	"brew":   "brew uninstall %s",
	"snap":   "snap remove %s",
	"cargo":  "cargo uninstall %s",
}

// Builder orchestrates C3-C5 into a Plan (C6 Plan Builder).
type Builder struct {
	Store   *recipe.Store
	Profile *hostprobe.HostProfile

	// PathLookup abstracts exec.LookPath for tests.
	PathLookup func(name string) (string, error)
}

// NewBuilder constructs a Builder bound to a store and profile.
func NewBuilder(store *recipe.Store, profile *hostprobe.HostProfile) *Builder {
	return &Builder{Store: store, Profile: profile, PathLookup: exec.LookPath}
}

type buildState struct {
	packages  []string
	toolSteps []Step
	repoSteps []Step
	seenPkg   map[string]bool
	stepSeq   int
}

// ResolveChoices pre-computes the enriched choices a two-pass install
// needs before the caller supplies answers.
func (b *Builder) ResolveChoices(toolID string) ([]choice.EnrichedChoice, error) {
	r, err := b.Store.GetRecipe(toolID)
	if err != nil {
		return nil, err
	}
	return choice.Resolve(r, b.Profile, nil), nil
}

// ResolveInstallPlan is the single-pass entry point; it errors if the
// recipe declares choices (use ResolveInstallPlanWithChoices instead).
func (b *Builder) ResolveInstallPlan(toolID string) (Plan, error) {
	r, err := b.Store.GetRecipe(toolID)
	if err != nil {
		return ErrorPlan(toolID, ErrNoRecipe, "no recipe registered for this tool"), nil
	}
	if len(r.Choices) > 0 {
		return Plan{}, fmt.Errorf("recipe %q declares choices; use ResolveInstallPlanWithChoices", toolID)
	}
	return b.build(r, nil, nil)
}

// ResolveInstallPlanWithChoices is the two-pass entry point.
func (b *Builder) ResolveInstallPlanWithChoices(toolID string, answers map[string]any, inputs map[string]string) (Plan, error) {
	r, err := b.Store.GetRecipe(toolID)
	if err != nil {
		return ErrorPlan(toolID, ErrNoRecipe, "no recipe registered for this tool"), nil
	}

	singleAnswers := make(map[string]string, len(answers))
	for k, v := range answers {
		if s, ok := v.(string); ok {
			singleAnswers[k] = s
		}
	}

	if len(r.Choices) > 0 {
		enriched := choice.Resolve(r, b.Profile, singleAnswers)
		if choice.AllUnavailable(enriched) {
			missing := missingPrereqs(enriched)
			return ErrorPlan(toolID, ErrConstraintUnsatisfiable, missing), nil
		}
	}

	return b.build(r, answers, inputs)
}

func missingPrereqs(enriched []choice.EnrichedChoice) string {
	var parts []string
	for _, c := range enriched {
		for _, o := range c.Options {
			if !o.Available && o.FailedConstraint != "" {
				parts = append(parts, o.FailedConstraint)
			}
		}
	}
	return "missing prerequisites: " + strings.Join(parts, "; ")
}

func (b *Builder) build(r recipe.Recipe, answers map[string]any, inputs map[string]string) (Plan, error) {
	if _, err := b.PathLookup(r.EffectiveCLI()); err == nil {
		return AlreadyInstalledPlan(r.ToolID, r.Label), nil
	}

	st := &buildState{seenPkg: map[string]bool{}}
	if err := b.collectDeps(r.ToolID, st); err != nil {
		if strings.Contains(err.Error(), "cycle") {
			return ErrorPlan(r.ToolID, ErrCycle, err.Error()), nil
		}
		var noMethod *method.ErrNoMethodAvailable
		if asNoMethod(err, &noMethod) {
			p := ErrorPlan(r.ToolID, ErrNoMethodAvailable, "no feasible install method on this host")
			p.AvailableMethods = method.AvailableMethods(r, b.Profile)
			return p, nil
		}
		return Plan{}, err
	}

	var steps []Step

	if len(st.packages) > 0 {
		steps = append(steps, b.packagesStep(st.packages))
	}
	steps = append(steps, st.repoSteps...)
	steps = append(steps, st.toolSteps...)

	for _, pi := range r.PostInstall {
		if pi.Condition != "" && !EvalCondition(pi.Condition, b.Profile) {
			continue
		}
		steps = append(steps, st.newStep(StepPostInstall, pi.Label, splitCommand(pi.Command), pi.NeedsSudo, pi.Condition))
	}

	for _, ct := range r.ConfigTemplates {
		if ct.Condition != "" && !EvalCondition(ct.Condition, b.Profile) {
			continue
		}
		cs := st.newStep(StepConfig, "write config "+ct.File, nil, ct.NeedsSudo, ct.Condition)
		cs.Sensitive = templateIsSensitive(ct, r.Inputs)
		if ct.Backup {
			cs.BackupBefore = []string{ct.File}
		}
		steps = append(steps, cs)
	}

	if r.ShellConfig != nil {
		steps = append(steps, st.newStep(StepShellConfig, "update shell profile", nil, false, ""))
	}

	if r.Verify != "" {
		steps = append(steps, st.newStep(StepVerify, "verify "+r.Label, splitCommand(r.Verify), false, ""))
	}

	steps = applyVariants(steps, r, answers)
	substituteSteps(steps, r, b.Profile, inputs)

	for i := range steps {
		steps[i].Risk = inferRisk(steps[i], r)
	}

	p := Plan{
		Tool:             r.ToolID,
		Label:            r.Label,
		Steps:            steps,
		RiskSummary:      RiskSummary{Level: aggregateRisk(steps)},
		ConfirmationGate: gateFor(aggregateRisk(steps)),
		NeedsSudo:        anySudo(steps),
		RollbackPlan:     buildRollback(steps, r),
		CreatedAt:        time.Now().UTC(),
	}
	if p.NeedsSudo && !b.Profile.Capabilities.HasSudo && !b.Profile.Capabilities.IsRoot {
		p.Warning = "this plan requires sudo, but the current user has no sudo access"
	}
	return p, nil
}

func asNoMethod(err error, target **method.ErrNoMethodAvailable) bool {
	if e, ok := err.(*method.ErrNoMethodAvailable); ok {
		*target = e
		return true
	}
	return false
}

func (st *buildState) newStep(typ StepType, label string, command []string, needsSudo bool, condition string) Step {
	st.stepSeq++
	return Step{
		ID:        fmt.Sprintf("step-%d", st.stepSeq),
		Type:      typ,
		Label:     label,
		Command:   command,
		NeedsSudo: needsSudo,
		Condition: condition,
	}
}

// collectDeps walks toolID's dependency graph via the Dep Resolver (C3),
// then for every recipe-kind dependency (leaves first, so a dependency's
// install step always lands before its dependent's) selects an install
// method (C4) and appends its repo_setup/tool steps; every package- and
// library-kind leaf is folded into one deduplicated system-packages step.
func (b *Builder) collectDeps(toolID string, st *buildState) error {
	resolver := depresolve.NewResolver(b.Store, b.Profile)
	resolutions, err := resolver.Resolve(toolID)
	if err != nil {
		return err
	}

	family := string(b.Profile.Distro.Family)

	for _, res := range resolutions {
		switch res.Kind {
		case depresolve.KindPackage, depresolve.KindLibrary, depresolve.KindIdentity:
			b.addPackage(st, res.Package)
			continue
		}

		r, err := b.Store.GetRecipe(res.ToolID)
		if err != nil {
			continue
		}

		for _, pkg := range depresolve.PackagesFor(r.Requires, family) {
			b.addPackage(st, pkg)
		}

		if _, lookErr := b.PathLookup(r.EffectiveCLI()); lookErr == nil {
			continue
		}

		sel, err := method.Pick(r, b.Profile)
		if err != nil {
			return err
		}

		for _, rs := range r.RepoSetup[sel.Method] {
			if rs.Condition != "" && !EvalCondition(rs.Condition, b.Profile) {
				continue
			}
			st.repoSteps = append(st.repoSteps, st.newStep(StepRepoSetup, rs.Label, splitCommand(rs.Command), rs.NeedsSudo, rs.Condition))
		}

		step := st.newStep(StepTool, "install "+r.Label, sel.Command, sel.NeedsSudo, "")
		step.PostEnv = r.PostEnv
		st.toolSteps = append(st.toolSteps, step)
	}

	return nil
}

func (b *Builder) addPackage(st *buildState, pkg string) {
	if pkg == "" || st.seenPkg[pkg] {
		return
	}
	st.seenPkg[pkg] = true
	st.packages = append(st.packages, pkg)
}

func (b *Builder) packagesStep(packages []string) Step {
	pm := b.Profile.PackageManager.Primary
	cmd := append([]string{pm, "install", "-y"}, packages...)
	return Step{
		ID:        "step-packages",
		Type:      StepPackages,
		Label:     "install system packages",
		Command:   cmd,
		NeedsSudo: true,
	}
}

func splitCommand(s string) []string {
	if s == "" {
		return nil
	}
	return []string{"sh", "-c", s}
}

func applyVariants(steps []Step, r recipe.Recipe, answers map[string]any) []Step {
	for _, c := range r.Choices {
		raw, ok := answers[c.ID]
		if !ok {
			continue
		}
		answerID, ok := raw.(string)
		if !ok {
			continue
		}
		for _, opt := range c.Options {
			if opt.ID != answerID || opt.VariantID == "" {
				continue
			}
			variant, ok := r.InstallVariants[opt.VariantID]
			if !ok {
				continue
			}
			for i := range steps {
				if steps[i].Type == StepTool {
					if variant.Command != "" {
						steps[i].Command = splitCommand(variant.Command)
					} else if len(variant.Steps) > 0 {
						replacement := make([]Step, 0, len(variant.Steps))
						for j, vs := range variant.Steps {
							replacement = append(replacement, Step{
								ID:        fmt.Sprintf("%s-variant-%d", steps[i].ID, j),
								Type:      StepTool,
								Label:     vs.Label,
								Command:   splitCommand(vs.Command),
								NeedsSudo: vs.NeedsSudo,
								Condition: vs.Condition,
							})
						}
						steps = append(steps[:i], append(replacement, steps[i+1:]...)...)
					}
					break
				}
			}
		}
	}
	return steps
}

func inferRisk(s Step, r recipe.Recipe) recipe.RiskLevel {
	if s.RestartRequired == recipe.RestartSystem {
		return recipe.RiskHigh
	}
	if strings.Contains(strings.ToLower(s.Label), "kernel") || strings.Contains(strings.ToLower(s.Label), "driver") {
		return recipe.RiskHigh
	}
	if s.NeedsSudo {
		return recipe.RiskMedium
	}
	if r.Risk != "" && r.Risk != recipe.RiskLow {
		return r.Risk
	}
	return recipe.RiskLow
}

func aggregateRisk(steps []Step) recipe.RiskLevel {
	level := recipe.RiskLow
	for _, s := range steps {
		level = level.Max(s.Risk)
	}
	return level
}

func gateFor(level recipe.RiskLevel) ConfirmationGate {
	switch level {
	case recipe.RiskHigh:
		return GateDouble
	case recipe.RiskMedium:
		return GateSingle
	default:
		return GateNone
	}
}

func anySudo(steps []Step) bool {
	for _, s := range steps {
		if s.NeedsSudo {
			return true
		}
	}
	return false
}

func buildRollback(steps []Step, r recipe.Recipe) []RollbackStep {
	out := make([]RollbackStep, 0, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if s.RestartRequired == recipe.RestartSystem || strings.Contains(strings.ToLower(s.Label), "kernel") {
			out = append(out, RollbackStep{StepID: s.ID, ManualOnly: true, Instructions: "this step affects the kernel and must be rolled back manually"})
			continue
		}
		if len(s.Rollback) > 0 {
			out = append(out, RollbackStep{StepID: s.ID, Command: s.Rollback})
			continue
		}
		if s.Type == StepTool {
			if tmpl, ok := methodUndoTable[methodFromCommand(s.Command)]; ok {
				out = append(out, RollbackStep{StepID: s.ID, Command: splitCommand(fmt.Sprintf(tmpl, r.ToolID))})
				continue
			}
		}
	}
	return out
}

func templateIsSensitive(ct recipe.ConfigTemplate, inputs []recipe.InputRecord) bool {
	sensitiveIDs := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.Sensitive {
			sensitiveIDs[in.ID] = true
		}
	}
	for _, id := range ct.Inputs {
		if sensitiveIDs[id] {
			return true
		}
	}
	return false
}

func methodFromCommand(cmd []string) string {
	if len(cmd) == 0 {
		return ""
	}
	return cmd[0]
}
