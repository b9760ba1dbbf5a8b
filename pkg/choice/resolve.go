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

// Package choice evaluates a recipe's choices against a host profile,
// enriching each option with availability, and handles conditional
// (depends_on) and multi-select choices (C5 Choice Resolver).
package choice

import (
	"fmt"

	"github.com/mnemonic-labs/toolplane/pkg/constraint"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// EnrichedOption is a recipe option annotated with its computed
// availability for the current profile.
type EnrichedOption struct {
	recipe.OptionRecord
	Available        bool     `json:"available"`
	DisabledReason   string   `json:"disabled_reason,omitempty"`
	EnableHint       string   `json:"enable_hint,omitempty"`
	FailedConstraint string   `json:"failed_constraint,omitempty"`
	AllFailures      []string `json:"all_failures,omitempty"`
	AutoSelected     bool     `json:"auto_selected,omitempty"`
}

// EnrichedChoice is a recipe choice with every option enriched.
type EnrichedChoice struct {
	recipe.Choice
	Options []EnrichedOption `json:"options"`
}

// enableHints maps a constraint category to a human nudge shown when an
// option is disabled for that reason.
var enableHints = map[constraint.Category]string{
	constraint.CategoryHardware:   "Install a compatible device or free up the required resource.",
	constraint.CategorySoftware:   "Install the missing binary and retry.",
	constraint.CategoryVersion:    "Upgrade to a version meeting the minimum requirement.",
	constraint.CategoryPermission: "Re-run with the required privileges.",
	constraint.CategoryNetwork:    "Check connectivity to the required endpoint.",
	constraint.CategoryAuth:       "Set the required credential/environment variable.",
}

// Resolve enriches recipe.Choices for profile, honoring depends_on
// suppression and marking the unique-available option auto_selected.
// priorAnswers supplies already-known answers for depends_on lookups
// (the single-select id chosen for an earlier choice_id); pass nil for
// the simulate-all-choices view used by resolve_choices.
func Resolve(r recipe.Recipe, profile *hostprobe.HostProfile, priorAnswers map[string]string) []EnrichedChoice {
	var out []EnrichedChoice

	for _, c := range r.Choices {
		if !dependsOnSatisfied(c, priorAnswers) {
			continue
		}

		enriched := EnrichedChoice{Choice: c}
		availableCount := 0
		var onlyAvailableIdx int

		for i, opt := range c.Options {
			eo := EnrichedOption{OptionRecord: opt, Available: true}
			if opt.Requires != nil {
				result := constraint.Evaluate(opt.Requires, profile)
				if !result.Satisfied {
					eo.Available = false
					eo.FailedConstraint = result.FailedConstraint
					eo.DisabledReason = fmt.Sprintf("requirement not met: %s", result.FailedConstraint)
					for _, f := range result.AllFailures {
						eo.AllFailures = append(eo.AllFailures, f.HumanConstraint)
					}
					if len(result.AllFailures) > 0 {
						eo.EnableHint = enableHints[result.AllFailures[0].Category]
					}
				}
			}
			if eo.Available {
				availableCount++
				onlyAvailableIdx = i
			}
			enriched.Options = append(enriched.Options, eo)
		}

		if availableCount == 1 {
			enriched.Options[onlyAvailableIdx].AutoSelected = true
		}

		out = append(out, enriched)
	}

	return out
}

func dependsOnSatisfied(c recipe.Choice, priorAnswers map[string]string) bool {
	if len(c.DependsOn) == 0 {
		return true
	}
	for priorID, want := range c.DependsOn {
		got, ok := priorAnswers[priorID]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// ValidateAnswer checks a multi-select answer shape against min/max
// constraints; single-select answers are validated by the caller simply
// checking membership in c.Options.
func ValidateAnswer(c recipe.Choice, selected []string) error {
	if c.Type != recipe.ChoiceMulti {
		return nil
	}
	if c.MinSelect > 0 && len(selected) < c.MinSelect {
		return fmt.Errorf("choice %q requires at least %d selection(s), got %d", c.ID, c.MinSelect, len(selected))
	}
	if c.MaxSelect > 0 && len(selected) > c.MaxSelect {
		return fmt.Errorf("choice %q allows at most %d selection(s), got %d", c.ID, c.MaxSelect, len(selected))
	}
	return nil
}

// AllUnavailable reports whether every option across every choice is
// unavailable — the constraint_unsatisfiable plan-build error case.
func AllUnavailable(choices []EnrichedChoice) bool {
	if len(choices) == 0 {
		return false
	}
	for _, c := range choices {
		for _, o := range c.Options {
			if o.Available {
				return false
			}
		}
	}
	return true
}
