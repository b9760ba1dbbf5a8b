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

// Package catalog loads the embedded seed recipe catalog and, optionally,
// an on-disk or OCI-distributed override catalog, into the pkg/recipe
// Catalog shape the Store serves.
package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

//go:embed data/recipes/*.yaml data/handlers/*.yaml data/groups.yaml data/known_packages.yaml data/lib_packages.yaml
var seedFS embed.FS

var (
	loadOnce     sync.Once
	cachedStore  *recipe.Catalog
	cachedErr    error
)

type handlerFile struct {
	Method   string                `yaml:"method,omitempty"`
	Handlers []recipe.HandlerRecord `yaml:"handlers"`
}

type groupsFile struct {
	Groups []recipe.PackageGroup `yaml:"groups"`
}

type knownPackagesFile struct {
	Packages map[string]map[string]string `yaml:"packages"`
}

type libPackagesFile struct {
	Libraries map[string]map[string]string `yaml:"libraries"`
}

// LoadEmbedded parses the compiled-in seed catalog exactly once per
// process and returns the shared, validated result on every subsequent
// call.
func LoadEmbedded(_ context.Context) (*recipe.Catalog, error) {
	loadOnce.Do(func() {
		catalogLoadTotal.Inc()
		cachedStore, cachedErr = parseFS(seedFS)
		if cachedErr == nil {
			cachedErr = recipe.ValidateCatalog(cachedStore)
		}
		if cachedErr == nil {
			catalogRecipeCount.Set(float64(len(cachedStore.Recipes)))
		}
	})
	return cachedStore, cachedErr
}

// LoadDir parses an override catalog laid out the same way as the
// embedded seed (data/recipes, data/handlers, data/groups.yaml,
// data/known_packages.yaml, data/lib_packages.yaml) rooted at dir. Used
// for local catalog development and for an unpacked OCI catalog layer.
func LoadDir(dir string) (*recipe.Catalog, error) {
	catalogLoadTotal.Inc()
	c, err := parseFS(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	if err := recipe.ValidateCatalog(c); err != nil {
		return nil, err
	}
	catalogRecipeCount.Set(float64(len(c.Recipes)))
	return c, nil
}

func parseFS(f fs.FS) (*recipe.Catalog, error) {
	c := &recipe.Catalog{
		Recipes:        make(map[string]recipe.Recipe),
		MethodHandlers: make(map[string][]recipe.HandlerRecord),
		PackageGroups:  make(map[string]recipe.PackageGroup),
		KnownPackages:  make(map[string]map[string]string),
		LibToPackage:   make(map[string]map[string]string),
	}

	if err := fs.WalkDir(f, "data/recipes", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		content, readErr := fs.ReadFile(f, path)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", path, readErr)
		}
		var r recipe.Recipe
		if err := yaml.Unmarshal(content, &r); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if r.ToolID == "" {
			r.ToolID = strings.TrimSuffix(filepath.Base(path), ".yaml")
		}
		c.Recipes[r.ToolID] = r
		return nil
	}); err != nil {
		return nil, err
	}

	if err := fs.WalkDir(f, "data/handlers", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		content, readErr := fs.ReadFile(f, path)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", path, readErr)
		}
		var hf handlerFile
		if err := yaml.Unmarshal(content, &hf); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		switch {
		case hf.Method != "":
			c.MethodHandlers[hf.Method] = append(c.MethodHandlers[hf.Method], hf.Handlers...)
		case name == "infra":
			c.InfraHandlers = append(c.InfraHandlers, hf.Handlers...)
		case name == "bootstrap":
			c.BootstrapHandlers = append(c.BootstrapHandlers, hf.Handlers...)
		default:
			c.MethodHandlers[name] = append(c.MethodHandlers[name], hf.Handlers...)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if content, err := fs.ReadFile(f, "data/groups.yaml"); err == nil {
		var gf groupsFile
		if err := yaml.Unmarshal(content, &gf); err != nil {
			return nil, fmt.Errorf("parsing groups.yaml: %w", err)
		}
		for _, g := range gf.Groups {
			c.PackageGroups[g.Name] = g
		}
	}

	if content, err := fs.ReadFile(f, "data/known_packages.yaml"); err == nil {
		var kf knownPackagesFile
		if err := yaml.Unmarshal(content, &kf); err != nil {
			return nil, fmt.Errorf("parsing known_packages.yaml: %w", err)
		}
		c.KnownPackages = kf.Packages
	}

	if content, err := fs.ReadFile(f, "data/lib_packages.yaml"); err == nil {
		var lf libPackagesFile
		if err := yaml.Unmarshal(content, &lf); err != nil {
			return nil, fmt.Errorf("parsing lib_packages.yaml: %w", err)
		}
		c.LibToPackage = lf.Libraries
	}

	return c, nil
}
