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

package choice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

func pytorchRecipe() recipe.Recipe {
	return recipe.Recipe{
		ToolID: "pytorch",
		Choices: []recipe.Choice{
			{
				ID:   "compute_backend",
				Type: recipe.ChoiceSingle,
				Options: []recipe.OptionRecord{
					{
						ID: "cuda",
						Requires: &recipe.Requires{
							Hardware: []recipe.Constraint{{Path: "hardware.gpu.nvidia.present", Op: "==", Value: "true"}},
						},
					},
					{ID: "cpu"},
				},
			},
		},
	}
}

func TestResolveNoGPUAutoSelectsCPU(t *testing.T) {
	profile := &hostprobe.HostProfile{}
	enriched := Resolve(pytorchRecipe(), profile, nil)

	require.Len(t, enriched, 1)
	require.Len(t, enriched[0].Options, 2)

	byID := map[string]EnrichedOption{}
	for _, o := range enriched[0].Options {
		byID[o.ID] = o
	}

	assert.False(t, byID["cuda"].Available)
	assert.Equal(t, "hardware.gpu.nvidia.present == true", byID["cuda"].FailedConstraint)
	assert.True(t, byID["cpu"].Available)
	assert.True(t, byID["cpu"].AutoSelected)
}

func TestDependsOnSuppressesChoice(t *testing.T) {
	r := recipe.Recipe{
		Choices: []recipe.Choice{
			{ID: "first", Type: recipe.ChoiceSingle, Options: []recipe.OptionRecord{{ID: "a"}}},
			{ID: "second", Type: recipe.ChoiceSingle, DependsOn: map[string]string{"first": "a"}, Options: []recipe.OptionRecord{{ID: "b"}}},
		},
	}

	suppressed := Resolve(r, &hostprobe.HostProfile{}, map[string]string{"first": "x"})
	assert.Len(t, suppressed, 1)

	included := Resolve(r, &hostprobe.HostProfile{}, map[string]string{"first": "a"})
	assert.Len(t, included, 2)
}

func TestValidateAnswerMultiSelect(t *testing.T) {
	c := recipe.Choice{ID: "extras", Type: recipe.ChoiceMulti, MinSelect: 1, MaxSelect: 2}
	assert.Error(t, ValidateAnswer(c, nil))
	assert.NoError(t, ValidateAnswer(c, []string{"a"}))
	assert.Error(t, ValidateAnswer(c, []string{"a", "b", "c"}))
}

func TestAllUnavailable(t *testing.T) {
	all := []EnrichedChoice{{Options: []EnrichedOption{{Available: false}, {Available: false}}}}
	assert.True(t, AllUnavailable(all))

	mixed := []EnrichedChoice{{Options: []EnrichedOption{{Available: false}, {Available: true}}}}
	assert.False(t, AllUnavailable(mixed))
}
