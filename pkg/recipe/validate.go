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

import "fmt"

// Validate checks the referential-integrity invariants every recipe must
// satisfy before being served: needs_sudo must cover every install
// method, prefer must only name methods the recipe actually installs
// with, every choice option's variant_id must name an entry in
// install_variants, and every config_template input must name a
// declared input.
func (r Recipe) Validate() error {
	for method := range r.Install {
		if _, ok := r.NeedsSudo[method]; !ok {
			return fmt.Errorf("recipe %q: method %q has no needs_sudo entry", r.ToolID, method)
		}
	}
	for _, method := range r.Prefer {
		if _, ok := r.Install[method]; !ok {
			return fmt.Errorf("recipe %q: prefer lists unknown method %q", r.ToolID, method)
		}
	}
	for _, choice := range r.Choices {
		for _, opt := range choice.Options {
			if opt.VariantID == "" {
				continue
			}
			if _, ok := r.InstallVariants[opt.VariantID]; !ok {
				return fmt.Errorf("recipe %q: choice %q option %q references unknown install_variant %q",
					r.ToolID, choice.ID, opt.ID, opt.VariantID)
			}
		}
	}
	for _, tmpl := range r.ConfigTemplates {
		for _, inputID := range tmpl.Inputs {
			if !r.hasInput(inputID) {
				return fmt.Errorf("recipe %q: config_template %q references unknown input %q",
					r.ToolID, tmpl.ID, inputID)
			}
		}
	}
	return nil
}

func (r Recipe) hasInput(id string) bool {
	for _, in := range r.Inputs {
		if in.ID == id {
			return true
		}
	}
	return false
}

// ValidateCatalog runs Validate over every recipe and cross-checks that
// handler option dep fields (when naming a package install strategy) are
// at least non-empty; it never needs to resolve the dep against the host
// since that happens at resolution time, not load time.
func ValidateCatalog(c *Catalog) error {
	for id, r := range c.Recipes {
		if id != r.ToolID {
			return fmt.Errorf("recipe keyed %q has tool_id %q", id, r.ToolID)
		}
		if err := r.Validate(); err != nil {
			return err
		}
		for _, h := range r.OnFailure {
			if err := validateHandler(c, h, false); err != nil {
				return fmt.Errorf("recipe %q: %w", id, err)
			}
		}
	}
	for _, h := range c.InfraHandlers {
		if err := validateHandler(c, h, true); err != nil {
			return fmt.Errorf("infra handler: %w", err)
		}
	}
	for _, h := range c.BootstrapHandlers {
		if err := validateHandler(c, h, true); err != nil {
			return fmt.Errorf("bootstrap handler: %w", err)
		}
	}
	for method, handlers := range c.MethodHandlers {
		for _, h := range handlers {
			if err := validateHandler(c, h, false); err != nil {
				return fmt.Errorf("method handler %q: %w", method, err)
			}
		}
	}
	return nil
}

// validateHandler checks a handler's options for referential integrity.
// dynamicSwitch is true for infra/bootstrap handlers, which are not
// scoped to one recipe and so may leave switch_to empty: the
// Remediation Engine then offers any untried, feasible method from the
// failing recipe's own install map instead of one fixed target. An
// install_dep option marked dynamic_packages may leave dep empty.
func validateHandler(c *Catalog, h HandlerRecord, dynamicSwitch bool) error {
	if h.FailureID == "" {
		return fmt.Errorf("handler missing failure_id")
	}
	if h.Pattern == "" && h.ExitCode == nil && h.DetectFn == "" {
		return fmt.Errorf("handler %q: must match on pattern, exit_code, or detect_fn", h.FailureID)
	}
	if len(h.Options) == 0 {
		return fmt.Errorf("handler %q: no remediation options", h.FailureID)
	}
	for _, opt := range h.Options {
		if opt.Strategy == StrategyInstallDep && opt.Dep == "" && !opt.DynamicPackages {
			return fmt.Errorf("handler %q option %q: install_dep strategy needs dep", h.FailureID, opt.ID)
		}
		if opt.Strategy == StrategySwitchMethod && opt.SwitchTo == "" && !dynamicSwitch {
			return fmt.Errorf("handler %q option %q: switch_method strategy needs switch_to", h.FailureID, opt.ID)
		}
		if opt.Strategy == StrategyInstallPackages {
			if len(opt.Packages) == 0 && opt.PackageGroupRef == "" {
				return fmt.Errorf("handler %q option %q: install_packages strategy needs packages or package_group", h.FailureID, opt.ID)
			}
			if opt.PackageGroupRef != "" {
				if _, ok := c.PackageGroups[opt.PackageGroupRef]; !ok {
					return fmt.Errorf("handler %q option %q: references unknown package_group %q", h.FailureID, opt.ID, opt.PackageGroupRef)
				}
			}
		}
	}
	return nil
}
