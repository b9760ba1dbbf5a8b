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

// Package depresolve classifies a recipe's requires.binaries entries and
// walks them depth-first into an ordered set of system-package names and
// sub-tool installs (C3 Dep Resolver).
package depresolve

import (
	"fmt"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// Kind classifies how a single dependency name resolves.
type Kind string

const (
	KindRecipe   Kind = "recipe"
	KindPackage  Kind = "package"
	KindLibrary  Kind = "library"
	KindIdentity Kind = "identity"
)

// Resolution is one dependency's classification result.
type Resolution struct {
	Dep     string
	Kind    Kind
	ToolID  string // set when Kind == KindRecipe
	Package string // set when Kind == KindPackage or KindLibrary
}

// Resolver walks a recipe's dependency graph depth-first against a
// Store, tracking visited tool_ids to make revisits no-ops and
// self-re-entry a cycle error.
type Resolver struct {
	store   *recipe.Store
	profile *hostprobe.HostProfile
	visited map[string]bool
	order   []Resolution
}

// NewResolver builds a resolver bound to a store and profile.
func NewResolver(store *recipe.Store, profile *hostprobe.HostProfile) *Resolver {
	return &Resolver{
		store:   store,
		profile: profile,
		visited: make(map[string]bool),
	}
}

// Resolve walks toolID's requires.binaries depth-first, returning the
// accumulated resolutions in emit order (leaves first).
func (r *Resolver) Resolve(toolID string) ([]Resolution, error) {
	r.order = nil
	if err := r.collect(toolID, map[string]bool{}); err != nil {
		return nil, err
	}
	return r.order, nil
}

func (r *Resolver) collect(toolID string, inProgress map[string]bool) error {
	if inProgress[toolID] {
		return fmt.Errorf("dependency cycle detected: %q re-enters its own install", toolID)
	}
	if r.visited[toolID] {
		return nil
	}
	inProgress[toolID] = true

	rec, err := r.store.GetRecipe(toolID)
	if err != nil {
		// Not a recipe — fall through to package/library/identity below.
		r.order = append(r.order, r.classifyLeaf(toolID))
		r.visited[toolID] = true
		delete(inProgress, toolID)
		return nil
	}

	for _, dep := range rec.Requires.Binaries {
		if err := r.collect(dep, inProgress); err != nil {
			return err
		}
	}

	r.order = append(r.order, Resolution{Dep: toolID, Kind: KindRecipe, ToolID: toolID})
	r.visited[toolID] = true
	delete(inProgress, toolID)
	return nil
}

// classifyLeaf classifies a dependency name that has no recipe of its
// own: a known system package, a shared-library name, or identity.
func (r *Resolver) classifyLeaf(dep string) Resolution {
	pm := r.profile.PackageManager.Primary
	if pkg, ok := r.store.KnownPackage(dep, pm); ok {
		return Resolution{Dep: dep, Kind: KindPackage, Package: pkg}
	}
	if pkg, ok := r.store.LibToPackage(dep, string(r.profile.Distro.Family)); ok {
		return Resolution{Dep: dep, Kind: KindLibrary, Package: pkg}
	}
	return Resolution{Dep: dep, Kind: KindIdentity, Package: dep}
}

// PackagesFor resolves a recipe's requires.packages entry for the
// profile's distro family, returning a deduplicated package list.
func PackagesFor(req recipe.Requires, family string) []string {
	pkgs, ok := req.Packages[family]
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(pkgs))
	var out []string
	for _, p := range pkgs {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
