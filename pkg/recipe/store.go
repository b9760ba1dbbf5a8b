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
	"fmt"
	"regexp"
	"sync"

	"github.com/mnemonic-labs/toolplane/pkg/cnserr"
)

func regexpMatch(pattern, text string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// Catalog is the fully-loaded, validated set of records the store serves.
// It is built once (by pkg/recipe/catalog) and handed to NewStore.
type Catalog struct {
	Recipes         map[string]Recipe
	InfraHandlers   []HandlerRecord
	BootstrapHandlers []HandlerRecord
	MethodHandlers  map[string][]HandlerRecord
	PackageGroups   map[string]PackageGroup
	KnownPackages   map[string]map[string]string // dep -> package_manager -> package name
	LibToPackage    map[string]map[string]string // lib -> distro family -> package name
}

// Store is C2's read-only query surface over a Catalog. All lookups are
// protected by a single RWMutex even though the catalog never mutates
// after Load, so that Reload can swap the catalog pointer safely.
type Store struct {
	mu      sync.RWMutex
	catalog *Catalog
}

// NewStore wraps an already-validated catalog.
func NewStore(catalog *Catalog) *Store {
	return &Store{catalog: catalog}
}

// Reload atomically swaps in a freshly loaded catalog, e.g. after an OCI
// catalog re-pull.
func (s *Store) Reload(catalog *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
}

func (s *Store) snapshot() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// GetRecipe returns the recipe for toolID, or a NotFound structured error.
func (s *Store) GetRecipe(toolID string) (Recipe, error) {
	c := s.snapshot()
	r, ok := c.Recipes[toolID]
	if !ok {
		return Recipe{}, cnserr.NewWithContext(cnserr.ErrCodeNotFound,
			fmt.Sprintf("no recipe registered for tool %q", toolID),
			map[string]any{"tool_id": toolID})
	}
	return r, nil
}

// ListRecipes returns every known tool_id, unordered.
func (s *Store) ListRecipes() []string {
	c := s.snapshot()
	ids := make([]string, 0, len(c.Recipes))
	for id := range c.Recipes {
		ids = append(ids, id)
	}
	return ids
}

// InfraHandlers returns the handlers applied to every step regardless of
// method family (disk full, network unreachable, permission denied, ...).
func (s *Store) InfraHandlers() []HandlerRecord {
	return s.snapshot().InfraHandlers
}

// BootstrapHandlers returns the handlers applied only to a method's own
// bootstrap/install step (e.g. rustup installer download failures).
func (s *Store) BootstrapHandlers() []HandlerRecord {
	return s.snapshot().BootstrapHandlers
}

// MethodFamilyHandlers returns the handlers specific to one install
// method family (apt, pip, cargo, ...), e.g. PEP 668 externally-managed
// detection for pip.
func (s *Store) MethodFamilyHandlers(method string) []HandlerRecord {
	return s.snapshot().MethodHandlers[method]
}

// PackageGroup resolves a named package group.
func (s *Store) PackageGroup(name string) (PackageGroup, bool) {
	g, ok := s.snapshot().PackageGroups[name]
	return g, ok
}

// KnownPackage resolves the package name a dependency maps to under a
// given package manager, e.g. ("openssl", "apt") -> "libssl-dev".
func (s *Store) KnownPackage(dep, packageManager string) (string, bool) {
	byPM, ok := s.snapshot().KnownPackages[dep]
	if !ok {
		return "", false
	}
	pkg, ok := byPM[packageManager]
	return pkg, ok
}

// LibToPackage resolves a shared-library name to the package providing
// it under a given distro family, e.g. ("libssl.so.3", "debian") -> "libssl3".
func (s *Store) LibToPackage(lib, distroFamily string) (string, bool) {
	byFamily, ok := s.snapshot().LibToPackage[lib]
	if !ok {
		return "", false
	}
	pkg, ok := byFamily[distroFamily]
	return pkg, ok
}
