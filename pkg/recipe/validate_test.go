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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecipe() Recipe {
	return Recipe{
		ToolID: "widget",
		Label:  "Widget",
		Install: map[string][]string{
			"apt": {"apt-get", "install", "-y", "widget"},
		},
		NeedsSudo: map[string]bool{"apt": true},
		Prefer:    []string{"apt"},
	}
}

func TestRecipeValidate(t *testing.T) {
	t.Run("valid recipe passes", func(t *testing.T) {
		require.NoError(t, validRecipe().Validate())
	})

	t.Run("missing needs_sudo entry", func(t *testing.T) {
		r := validRecipe()
		r.NeedsSudo = map[string]bool{}
		assert.Error(t, r.Validate())
	})

	t.Run("prefer names unknown method", func(t *testing.T) {
		r := validRecipe()
		r.Prefer = []string{"brew"}
		assert.Error(t, r.Validate())
	})

	t.Run("choice references unknown install_variant", func(t *testing.T) {
		r := validRecipe()
		r.Choices = []Choice{
			{
				ID:   "backend",
				Type: ChoiceSingle,
				Options: []OptionRecord{
					{ID: "a", VariantID: "missing_variant"},
				},
			},
		}
		assert.Error(t, r.Validate())
	})

	t.Run("config template references unknown input", func(t *testing.T) {
		r := validRecipe()
		r.ConfigTemplates = []ConfigTemplate{
			{ID: "cfg", File: "widget.conf", Inputs: []string{"missing_input"}},
		}
		assert.Error(t, r.Validate())
	})
}

func TestValidateCatalog(t *testing.T) {
	t.Run("mismatched map key and tool_id", func(t *testing.T) {
		c := &Catalog{Recipes: map[string]Recipe{"a": {ToolID: "b", Install: map[string][]string{}, NeedsSudo: map[string]bool{}}}}
		assert.Error(t, ValidateCatalog(c))
	})

	t.Run("handler missing failure_id", func(t *testing.T) {
		c := &Catalog{
			Recipes:       map[string]Recipe{},
			InfraHandlers: []HandlerRecord{{Pattern: "x", Options: []FailureOption{{ID: "o", Strategy: StrategyRetryWithModifier}}}},
		}
		assert.Error(t, ValidateCatalog(c))
	})

	t.Run("install_dep strategy without dep", func(t *testing.T) {
		c := &Catalog{
			Recipes: map[string]Recipe{},
			InfraHandlers: []HandlerRecord{{
				Pattern:   "x",
				FailureID: "f1",
				Options:   []FailureOption{{ID: "o", Strategy: StrategyInstallDep}},
			}},
		}
		assert.Error(t, ValidateCatalog(c))
	})
}
