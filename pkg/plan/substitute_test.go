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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

func TestResolveInstallPlanSubstitutesArch(t *testing.T) {
	kubectl := recipe.Recipe{
		ToolID: "kubectl",
		Label:  "kubectl",
		Install: map[string][]string{
			"binary": {"sh", "-c", "curl -LO https://dl.k8s.io/release/stable/bin/linux/{arch}/kubectl"},
		},
		NeedsSudo: map[string]bool{"binary": true},
		Prefer:    []string{"binary"},
		ArchMap:   map[string]string{"arm64": "arm64", "amd64": "amd64"},
	}
	store := recipe.NewStore(&recipe.Catalog{Recipes: map[string]recipe.Recipe{"kubectl": kubectl}})

	profile := ubuntuProfile()
	profile.Arch = "arm64"

	b := NewBuilder(store, profile)
	b.PathLookup = lookupNone

	p, err := b.ResolveInstallPlan("kubectl")
	require.NoError(t, err)

	var toolStep *Step
	for i := range p.Steps {
		if p.Steps[i].Type == StepTool {
			toolStep = &p.Steps[i]
		}
	}
	require.NotNil(t, toolStep, "expected a tool install step")
	joined := toolStep.Command[len(toolStep.Command)-1]
	assert.Contains(t, joined, "/bin/linux/arm64/kubectl")
	assert.NotContains(t, joined, "{arch}")
}

func TestResolveInstallPlanSubstitutesArchMapFallback(t *testing.T) {
	tool := recipe.Recipe{
		ToolID:    "nomap",
		Label:     "nomap",
		Install:   map[string][]string{"binary": {"sh", "-c", "fetch --arch={arch}"}},
		NeedsSudo: map[string]bool{"binary": true},
		Prefer:    []string{"binary"},
	}
	store := recipe.NewStore(&recipe.Catalog{Recipes: map[string]recipe.Recipe{"nomap": tool}})

	profile := ubuntuProfile()
	profile.Arch = "riscv64"

	b := NewBuilder(store, profile)
	b.PathLookup = lookupNone

	p, err := b.ResolveInstallPlan("nomap")
	require.NoError(t, err)

	var toolStep *Step
	for i := range p.Steps {
		if p.Steps[i].Type == StepTool {
			toolStep = &p.Steps[i]
		}
	}
	require.NotNil(t, toolStep)
	assert.Contains(t, toolStep.Command[len(toolStep.Command)-1], "--arch=riscv64")
}

func TestResolveInstallPlanWithChoicesSubstitutesInputAndVariant(t *testing.T) {
	tool := recipe.Recipe{
		ToolID:    "registrymirror",
		Label:     "registrymirror",
		Install:   map[string][]string{"binary": {"sh", "-c", "install registrymirror"}},
		NeedsSudo: map[string]bool{"binary": false},
		Prefer:    []string{"binary"},
		Inputs: []recipe.InputRecord{
			{ID: "mirror_host", Type: recipe.InputText, Default: "mirror.example.com"},
		},
		Choices: []recipe.Choice{
			{
				ID:    "source",
				Label: "Where should packages come from?",
				Type:  recipe.ChoiceSingle,
				Options: []recipe.OptionRecord{
					{ID: "mirror", Label: "Internal mirror", VariantID: "mirror_build", Default: true},
				},
			},
		},
		InstallVariants: map[string]recipe.InstallVariant{
			"mirror_build": {Command: "install --source={mirror_host}"},
		},
	}
	store := recipe.NewStore(&recipe.Catalog{Recipes: map[string]recipe.Recipe{"registrymirror": tool}})

	b := NewBuilder(store, ubuntuProfile())
	b.PathLookup = lookupNone

	p, err := b.ResolveInstallPlanWithChoices("registrymirror",
		map[string]any{"source": "mirror"},
		map[string]string{"mirror_host": "internal.mirror.corp"},
	)
	require.NoError(t, err)

	var toolStep *Step
	for i := range p.Steps {
		if p.Steps[i].Type == StepTool {
			toolStep = &p.Steps[i]
		}
	}
	require.NotNil(t, toolStep)
	joined := toolStep.Command[len(toolStep.Command)-1]
	assert.Contains(t, joined, "--source=internal.mirror.corp")
	assert.NotContains(t, joined, "{mirror_host}")
}
