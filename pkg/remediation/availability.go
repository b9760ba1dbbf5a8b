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

package remediation

import (
	"os/exec"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/method"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe/version"
)

// resolve computes a ResolvedOption's availability against the recipe
// that owns the failing step, the profile it failed on, and the method
// that was in use. It never mutates opt.
func (e *Engine) resolve(opt recipe.FailureOption, r recipe.Recipe, profile *hostprobe.HostProfile, failedMethod string) ResolvedOption {
	out := ResolvedOption{FailureOption: opt}

	switch opt.Strategy {
	case recipe.StrategyInstallDep:
		out.Available, out.UnlockDeps = e.installDepAvailability(opt.Dep)

	case recipe.StrategyInstallDepThenSwitch:
		if e.onPath(opt.Dep) {
			out.Available = Ready
		} else {
			out.Available = Locked
			out.UnlockDeps = []string{opt.Dep}
		}

	case recipe.StrategySwitchMethod:
		out.Available, out.ResolvedTo = e.switchMethodAvailability(opt.SwitchTo, r, profile, failedMethod)

	case recipe.StrategyInstallPackages:
		out.Available = e.installPackagesAvailability(opt, profile)

	case recipe.StrategyRetryWithModifier, recipe.StrategyCleanupRetry, recipe.StrategyManual, recipe.StrategyEnvFix:
		out.Available = Ready

	case recipe.StrategyAddRepo:
		if _, ok := opt.RepoCommands[profile.PackageManager.Primary]; ok {
			out.Available = Ready
		} else {
			out.Available = Impossible
		}

	case recipe.StrategyUpgradeDep:
		out.Available = e.upgradeDepAvailability(opt)

	default:
		out.Available = Impossible
	}

	if archExcluded(opt.ArchExclude, profile.Arch) {
		out.Available = Impossible
	}

	return out
}

func archExcluded(excluded []string, arch string) bool {
	for _, a := range excluded {
		if a == arch {
			return true
		}
	}
	return false
}

func (e *Engine) onPath(name string) bool {
	if name == "" {
		return false
	}
	_, err := e.pathLookup()(name)
	return err == nil
}

func (e *Engine) pathLookup() func(string) (string, error) {
	if e.PathLookup != nil {
		return e.PathLookup
	}
	return exec.LookPath
}

func (e *Engine) hasRecipe(toolID string) bool {
	if toolID == "" || e.Store == nil {
		return false
	}
	_, err := e.Store.GetRecipe(toolID)
	return err == nil
}

// installDepAvailability implements §4.8's install_dep rule: ready if
// the dep is already on PATH, locked (with an unlock_deps hint) if a
// recipe can install it, impossible otherwise.
func (e *Engine) installDepAvailability(dep string) (Availability, []string) {
	if e.onPath(dep) {
		return Ready, nil
	}
	if e.hasRecipe(dep) {
		return Locked, []string{dep}
	}
	return Impossible, nil
}

// switchMethodAvailability resolves a switch_method option. When switchTo
// is fixed (the common case, declared on a recipe-scoped handler) it is
// ready iff that method is both installable and feasible. When switchTo
// is left blank (the generic infra/bootstrap variant), the engine picks
// the first declared method other than the one that just failed that is
// both present in recipe.install and feasible, and reports it as
// ResolvedTo so the caller knows which method a retry would actually use.
func (e *Engine) switchMethodAvailability(switchTo string, r recipe.Recipe, profile *hostprobe.HostProfile, failedMethod string) (Availability, string) {
	if switchTo != "" {
		if _, ok := r.Install[switchTo]; ok && method.Feasible(switchTo, profile) {
			return Ready, switchTo
		}
		return Impossible, ""
	}
	for _, candidate := range r.Prefer {
		if candidate == failedMethod {
			continue
		}
		if _, ok := r.Install[candidate]; ok && method.Feasible(candidate, profile) {
			return Ready, candidate
		}
	}
	for candidate := range r.Install {
		if candidate == failedMethod {
			continue
		}
		if method.Feasible(candidate, profile) {
			return Ready, candidate
		}
	}
	return Impossible, ""
}

// installPackagesAvailability resolves an install_packages option's
// package list against the profile's primary package manager, either
// inline (opt.Packages) or via a named package-groups lookup.
func (e *Engine) installPackagesAvailability(opt recipe.FailureOption, profile *hostprobe.HostProfile) Availability {
	pm := profile.PackageManager.Primary
	if opt.PackageGroupRef != "" {
		if e.Store == nil {
			return Impossible
		}
		group, ok := e.Store.PackageGroup(opt.PackageGroupRef)
		if !ok || len(group.Packages[pm]) == 0 {
			return Impossible
		}
		return Ready
	}
	if len(opt.Packages[pm]) == 0 {
		return Impossible
	}
	return Ready
}

// upgradeDepAvailability resolves an upgrade_dep option: ready when the
// dep is on PATH and its detected version is below min_version, locked
// when the dep is absent but installable, impossible when absent with no
// installing recipe or when a version can't be established.
func (e *Engine) upgradeDepAvailability(opt recipe.FailureOption) Availability {
	if !e.onPath(opt.Dep) {
		if e.hasRecipe(opt.Dep) {
			return Locked
		}
		return Impossible
	}
	if opt.MinVersion == "" || e.ProbeVersion == nil {
		return Impossible
	}
	installed, ok := e.ProbeVersion(opt.Dep)
	if !ok {
		return Impossible
	}
	cur, err := version.ParseVersion(installed)
	if err != nil {
		return Impossible
	}
	min, err := version.ParseVersion(opt.MinVersion)
	if err != nil {
		return Impossible
	}
	if cur.EqualsOrNewer(min) {
		return Impossible
	}
	return Ready
}
