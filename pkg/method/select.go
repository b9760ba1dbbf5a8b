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

// Package method picks one install method key from a recipe's install
// map for a given host profile (C4 Method Selector).
package method

import (
	"fmt"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// Selection is a resolved install method.
type Selection struct {
	Method    string
	Command   []string
	NeedsSudo bool
}

// ErrNoMethodAvailable reports that no feasible install method exists.
type ErrNoMethodAvailable struct {
	ToolID string
}

func (e *ErrNoMethodAvailable) Error() string {
	return fmt.Sprintf("no install method available for %q on this host", e.ToolID)
}

// Feasible reports whether method is usable at all on profile,
// independent of whether the recipe declares it — e.g. snap requires
// profile.package_manager.snap_available.
func Feasible(methodKey string, profile *hostprobe.HostProfile) bool {
	switch methodKey {
	case "snap":
		return profile.PackageManager.SnapAvailable
	case "brew":
		return contains(profile.PackageManager.Available, "brew")
	default:
		return true
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Pick selects an install method per §4.4's fixed order: (a) recipe.prefer
// entries present in install and feasible; (b) profile's primary package
// manager if present in install; (c) snap if snap_available; (d) _default.
func Pick(r recipe.Recipe, profile *hostprobe.HostProfile) (Selection, error) {
	for _, candidate := range r.Prefer {
		if cmd, ok := r.Install[candidate]; ok && Feasible(candidate, profile) {
			return Selection{Method: candidate, Command: cmd, NeedsSudo: r.NeedsSudo[candidate]}, nil
		}
	}

	if primary := profile.PackageManager.Primary; primary != "" {
		if cmd, ok := r.Install[primary]; ok {
			return Selection{Method: primary, Command: cmd, NeedsSudo: r.NeedsSudo[primary]}, nil
		}
	}

	if profile.PackageManager.SnapAvailable {
		if cmd, ok := r.Install["snap"]; ok {
			return Selection{Method: "snap", Command: cmd, NeedsSudo: r.NeedsSudo["snap"]}, nil
		}
	}

	if cmd, ok := r.Install["_default"]; ok {
		return Selection{Method: "_default", Command: cmd, NeedsSudo: r.NeedsSudo["_default"]}, nil
	}

	return Selection{}, &ErrNoMethodAvailable{ToolID: r.ToolID}
}

// AvailableMethods lists every install key that is both declared and
// feasible on profile, used to populate Plan.available_methods on a
// no_method_available error.
func AvailableMethods(r recipe.Recipe, profile *hostprobe.HostProfile) []string {
	var out []string
	for m := range r.Install {
		if Feasible(m, profile) {
			out = append(out, m)
		}
	}
	return out
}
