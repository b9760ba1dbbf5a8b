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

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Contains(t, c.Recipes, "ruff")
	assert.Contains(t, c.Recipes, "docker")
	assert.Contains(t, c.Recipes, "pytorch")
	assert.NotEmpty(t, c.InfraHandlers)
	assert.NotEmpty(t, c.BootstrapHandlers)
	assert.NotEmpty(t, c.MethodHandlers["pip"])
	assert.NotEmpty(t, c.MethodHandlers["apt"])
	assert.Contains(t, c.PackageGroups, "build-essential")
	assert.Contains(t, c.KnownPackages, "openssl")
	assert.Contains(t, c.LibToPackage, "libssl.so.3")
}

func TestLoadEmbeddedIsCached(t *testing.T) {
	c1, err := LoadEmbedded(context.Background())
	require.NoError(t, err)
	c2, err := LoadEmbedded(context.Background())
	require.NoError(t, err)
	assert.Same(t, c1, c2)
}

func TestPytorchRecipeHasGPUChoice(t *testing.T) {
	c, err := LoadEmbedded(context.Background())
	require.NoError(t, err)

	r, ok := c.Recipes["pytorch"]
	require.True(t, ok)
	require.Len(t, r.Choices, 1)
	assert.Equal(t, recipe.ChoiceSingle, r.Choices[0].Type)

	var sawCUDA bool
	for _, opt := range r.Choices[0].Options {
		if opt.ID == "cuda" {
			sawCUDA = true
			assert.Equal(t, "cuda_build", opt.VariantID)
			require.NotNil(t, opt.Requires)
			require.Len(t, opt.Requires.Hardware, 1)
			assert.Equal(t, "hardware.gpu.nvidia.present", opt.Requires.Hardware[0].Path)
		}
	}
	assert.True(t, sawCUDA)
	assert.Contains(t, r.InstallVariants, "cuda_build")
}
