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
	"strings"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// tokenReplacer builds the `{var}` substitution table for a recipe on a
// given host: `{arch}` resolves through the recipe's arch_map (falling
// back to the profile's raw normalized arch when the recipe declares no
// mapping or no entry for it), and `{input_id}` resolves from the
// two-pass install's user-supplied inputs.
func tokenReplacer(r recipe.Recipe, profile *hostprobe.HostProfile, inputs map[string]string) *strings.Replacer {
	arch := profile.Arch
	if mapped, ok := r.ArchMap[profile.Arch]; ok {
		arch = mapped
	}

	pairs := make([]string, 0, 2+2*len(inputs))
	pairs = append(pairs, "{arch}", arch)
	for id, value := range inputs {
		pairs = append(pairs, "{"+id+"}", value)
	}
	return strings.NewReplacer(pairs...)
}

// substituteSteps rewrites every step's command vector in place,
// replacing `{var}` tokens with their resolved values. Applied once,
// after variant payloads have replaced their steps' commands, so a
// variant's own command string is substituted the same as a recipe's
// native install/repo_setup/post_install command.
func substituteSteps(steps []Step, r recipe.Recipe, profile *hostprobe.HostProfile, inputs map[string]string) {
	replacer := tokenReplacer(r, profile, inputs)
	for i := range steps {
		for j, tok := range steps[i].Command {
			steps[i].Command[j] = replacer.Replace(tok)
		}
	}
}
