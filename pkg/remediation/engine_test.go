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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

func lookupNone(string) (string, error) { return "", exec.ErrNotFound }

func lookupOnly(found ...string) func(string) (string, error) {
	set := make(map[string]bool, len(found))
	for _, f := range found {
		set[f] = true
	}
	return func(name string) (string, error) {
		if set[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
}

func debianProfile() *hostprobe.HostProfile {
	return &hostprobe.HostProfile{
		Arch:           "x86_64",
		Distro:         hostprobe.Distro{Family: hostprobe.FamilyDebian},
		PackageManager: hostprobe.PackageManager{Primary: "apt"},
	}
}

func pipPEP668Recipe() recipe.Recipe {
	return recipe.Recipe{
		ToolID:  "ruff",
		Label:   "ruff",
		Install: map[string][]string{"pip": {"pip", "install", "ruff"}, "pipx": {"pipx", "install", "ruff"}},
	}
}

func pepHandlers() *recipe.Store {
	return recipe.NewStore(&recipe.Catalog{
		Recipes: map[string]recipe.Recipe{},
		MethodHandlers: map[string][]recipe.HandlerRecord{
			"pip": {{
				Pattern:   "externally-managed-environment",
				FailureID: "pep668_externally_managed",
				Category:  "environment",
				Label:     "Python environment is externally managed (PEP 668)",
				Options: []recipe.FailureOption{
					{ID: "use_pipx", Label: "Install with pipx instead", Strategy: recipe.StrategySwitchMethod, SwitchTo: "pipx", Recommended: true},
					{ID: "venv", Label: "Create a virtualenv and retry", Strategy: recipe.StrategyInstallDep, Dep: "python3-venv"},
					{ID: "break_system_packages", Label: "Force install into the system Python", Strategy: recipe.StrategyRetryWithModifier, Risk: recipe.RiskHigh, Modifier: map[string]string{"flag": "--break-system-packages"}},
				},
			}},
		},
	})
}

// TestAnalyseFailurePEP668RanksSwitchMethodFirst grounds on spec §8's pip
// externally-managed-environment scenario: pipx is both ready and
// recommended, so it must rank first even though it is declared first in
// the handler already — this also exercises that a ready switch_method
// beats a python3-venv install_dep that the engine can't satisfy from a
// recipe lookup alone.
func TestAnalyseFailurePEP668RanksSwitchMethodFirst(t *testing.T) {
	store := pepHandlers()
	e := NewEngine(store)
	e.PathLookup = lookupNone

	r := pipPEP668Recipe()
	resp := e.AnalyseFailure(r, 2, "install ruff", "error: externally-managed-environment", 1, "pip", debianProfile())

	require.Equal(t, "pep668_externally_managed", resp.Failure.FailureID)
	require.Len(t, resp.Options, 3)
	assert.Equal(t, "use_pipx", resp.Options[0].ID)
	assert.Equal(t, Ready, resp.Options[0].Available)
	assert.Equal(t, "pipx", resp.Options[0].ResolvedTo)

	var venv, modifier ResolvedOption
	for _, o := range resp.Options {
		if o.ID == "venv" {
			venv = o
		}
		if o.ID == "break_system_packages" {
			modifier = o
		}
	}
	assert.Equal(t, Impossible, venv.Available, "python3-venv has no recipe and isn't on PATH")
	assert.Equal(t, Ready, modifier.Available, "retry_with_modifier is always ready")
}

// TestAnalyseFailureInstallDepLockedWhenRecipeExists grounds on spec §8's
// cargo-audit scenario: cargo-audit's own on_failure handler offers
// install_dep for cargo, which the catalog can install via its own
// recipe, so the option must be locked (not impossible) with cargo named
// in unlock_deps.
func TestAnalyseFailureInstallDepLockedWhenRecipeExists(t *testing.T) {
	cargo := recipe.Recipe{ToolID: "cargo", Label: "Rust Cargo", Install: map[string][]string{"_default": {"curl", "sh"}}}
	cargoAudit := recipe.Recipe{
		ToolID: "cargo-audit",
		Install: map[string][]string{"cargo": {"cargo", "install", "cargo-audit"}, "apt": {"apt-get", "install", "-y", "cargo-audit"}},
		OnFailure: []recipe.HandlerRecord{{
			Pattern:   "error: no such command",
			FailureID: "cargo_missing",
			Category:  "dependency",
			Label:     "cargo is not installed",
			Options: []recipe.FailureOption{
				{ID: "install_cargo_dep", Label: "Install Rust/cargo first", Strategy: recipe.StrategyInstallDep, Dep: "cargo", Recommended: true},
				{ID: "switch_apt", Label: "Install the distro-packaged cargo-audit instead", Strategy: recipe.StrategySwitchMethod, SwitchTo: "apt"},
			},
		}},
	}
	store := recipe.NewStore(&recipe.Catalog{Recipes: map[string]recipe.Recipe{"cargo": cargo, "cargo-audit": cargoAudit}})

	e := NewEngine(store)
	e.PathLookup = lookupNone

	resp := e.AnalyseFailure(cargoAudit, 0, "install cargo-audit", "error: no such command: audit", 101, "cargo", debianProfile())

	var installDep, switchApt ResolvedOption
	for _, o := range resp.Options {
		if o.ID == "install_cargo_dep" {
			installDep = o
		}
		if o.ID == "switch_apt" {
			switchApt = o
		}
	}
	assert.Equal(t, Locked, installDep.Available)
	assert.Equal(t, []string{"cargo"}, installDep.UnlockDeps)
	assert.Equal(t, Ready, switchApt.Available, "apt is declared in recipe.install and feasible")
	// recommended option ranks first even though it is locked, not ready.
	assert.Equal(t, "install_cargo_dep", resp.Options[0].ID)
}

func TestAnalyseFailureNoHandlerMatches(t *testing.T) {
	store := recipe.NewStore(&recipe.Catalog{Recipes: map[string]recipe.Recipe{}})
	e := NewEngine(store)
	resp := e.AnalyseFailure(recipe.Recipe{ToolID: "widget"}, 0, "install widget", "some bizarre never-seen-before error", 1, "apt", debianProfile())
	assert.Equal(t, "unrecognized_failure", resp.Failure.FailureID)
	assert.Empty(t, resp.Options)
}

func TestAnalyseFailureArchExcludeOverridesReady(t *testing.T) {
	r := recipe.Recipe{
		ToolID: "widget",
		OnFailure: []recipe.HandlerRecord{{
			Pattern:   "boom",
			FailureID: "f1",
			Label:     "boom",
			Options: []recipe.FailureOption{
				{ID: "manual_fix", Strategy: recipe.StrategyManual, ArchExclude: []string{"x86_64"}},
			},
		}},
	}
	store := recipe.NewStore(&recipe.Catalog{Recipes: map[string]recipe.Recipe{"widget": r}})
	e := NewEngine(store)

	resp := e.AnalyseFailure(r, 0, "step", "boom", 1, "apt", debianProfile())
	require.Len(t, resp.Options, 1)
	assert.Equal(t, Impossible, resp.Options[0].Available)
}

func TestAnalyseFailureInstallPackagesViaGroupRef(t *testing.T) {
	store := recipe.NewStore(&recipe.Catalog{
		Recipes: map[string]recipe.Recipe{},
		PackageGroups: map[string]recipe.PackageGroup{
			"build-essential": {Name: "build-essential", Packages: map[string][]string{"apt": {"build-essential"}}},
		},
		InfraHandlers: []recipe.HandlerRecord{{
			Pattern:   "needs a compiler",
			FailureID: "missing_compiler",
			Label:     "missing compiler",
			Options: []recipe.FailureOption{
				{ID: "install_build_tools", Strategy: recipe.StrategyInstallPackages, PackageGroupRef: "build-essential"},
			},
		}},
	})
	e := NewEngine(store)
	r := recipe.Recipe{ToolID: "widget"}
	resp := e.AnalyseFailure(r, 0, "step", "needs a compiler", 1, "pip", debianProfile())
	require.Len(t, resp.Options, 1)
	assert.Equal(t, Ready, resp.Options[0].Available)
}
