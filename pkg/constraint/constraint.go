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

// Package constraint evaluates a recipe's `requires.{hardware,network,...}`
// declarations against a host profile, shared by the Choice Resolver (C5)
// and the Remediation Engine's availability checks (C8).
package constraint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe/version"
)

// Category is one constraint category. Categories are evaluated in the
// fixed order categoryOrder holds: stop at the first category with a
// failure, but keep evaluating every constraint within that category so
// every failure in it is recorded.
type Category string

const (
	CategoryHardware   Category = "hardware"
	CategorySoftware   Category = "software"
	CategoryVersion    Category = "version"
	CategoryPermission Category = "permission"
	CategoryNetwork    Category = "network"
	CategoryAuth       Category = "auth"
)

// categoryOrder is the fixed priority order evaluation stops at the
// first category with any failure.
var categoryOrder = []Category{
	CategoryHardware, CategorySoftware, CategoryVersion,
	CategoryPermission, CategoryNetwork, CategoryAuth,
}

// Failure is one constraint evaluation miss, carrying enough detail for
// the UI to explain why an option is unavailable.
type Failure struct {
	Category        Category
	Path            string
	Op              string
	Want            string
	Got             string
	HumanConstraint string
}

// Result is the outcome of evaluating a full Requires block against a
// profile.
type Result struct {
	Satisfied       bool
	FailedConstraint string
	AllFailures     []Failure
}

// classify buckets a constraint path into one of the six priority
// categories by its leading path segment.
func classify(path string) Category {
	switch {
	case strings.HasPrefix(path, "hardware.") || strings.HasPrefix(path, "gpu.") ||
		path == "filesystem.disk_free_mb" || strings.HasPrefix(path, "filesystem."):
		return CategoryHardware
	case strings.HasPrefix(path, "binary.") || strings.HasPrefix(path, "software."):
		return CategorySoftware
	case strings.Contains(path, "version"):
		return CategoryVersion
	case strings.HasPrefix(path, "permission.") || strings.HasPrefix(path, "capabilities."):
		return CategoryPermission
	case strings.HasPrefix(path, "network."):
		return CategoryNetwork
	case strings.HasPrefix(path, "env.") || strings.HasPrefix(path, "auth."):
		return CategoryAuth
	default:
		return CategoryHardware
	}
}

// Evaluate runs every Constraint in req against profile, grouped and
// ordered per §4.5, stopping at the first category containing a
// failure but recording every failure seen in that and prior categories.
func Evaluate(req *recipe.Requires, profile *hostprobe.HostProfile) Result {
	if req == nil {
		return Result{Satisfied: true}
	}

	byCategory := make(map[Category][]recipe.Constraint)
	for _, c := range req.Hardware {
		cat := classify(c.Path)
		if cat == CategoryHardware {
			byCategory[CategoryHardware] = append(byCategory[CategoryHardware], c)
		} else {
			byCategory[cat] = append(byCategory[cat], c)
		}
	}
	for _, c := range req.Network {
		byCategory[CategoryNetwork] = append(byCategory[CategoryNetwork], c)
	}

	var allFailures []Failure
	for _, cat := range categoryOrder {
		constraints := byCategory[cat]
		if len(constraints) == 0 {
			continue
		}
		var catFailures []Failure
		for _, c := range constraints {
			if ok, got := evalOne(c, profile); !ok {
				catFailures = append(catFailures, Failure{
					Category:        cat,
					Path:            c.Path,
					Op:              c.Op,
					Want:            c.Value,
					Got:             got,
					HumanConstraint: fmt.Sprintf("%s %s %s", c.Path, c.Op, c.Value),
				})
			}
		}
		allFailures = append(allFailures, catFailures...)
		if len(catFailures) > 0 {
			return Result{
				Satisfied:        false,
				FailedConstraint: catFailures[0].HumanConstraint,
				AllFailures:      allFailures,
			}
		}
	}

	return Result{Satisfied: true}
}

func evalOne(c recipe.Constraint, profile *hostprobe.HostProfile) (bool, string) {
	got, ok := profile.Resolve(c.Path)
	if !ok {
		return false, ""
	}
	return compare(got, c.Op, c.Value), got
}

func compare(got, op, want string) bool {
	switch op {
	case "==", "eq":
		return got == want
	case "!=", "ne":
		return got != want
	case "in":
		for _, v := range strings.Split(want, ",") {
			if strings.TrimSpace(v) == got {
				return true
			}
		}
		return false
	case "contains":
		return strings.Contains(got, want)
	case ">=", "<=", ">", "<":
		return compareNumeric(got, op, want)
	default:
		return false
	}
}

// compareNumeric handles both plain numbers ("8") and dotted version
// strings ("535.54.03"); it tries a version-aware compare first since
// strconv.ParseFloat rejects anything with more than one '.'.
func compareNumeric(got, op, want string) bool {
	gv, errG := version.ParseVersion(got)
	wv, errW := version.ParseVersion(want)
	if errG == nil && errW == nil {
		cmp := gv.Compare(wv)
		switch op {
		case ">=":
			return cmp >= 0
		case "<=":
			return cmp <= 0
		case ">":
			return cmp > 0
		case "<":
			return cmp < 0
		}
	}

	g, errG2 := strconv.ParseFloat(got, 64)
	w, errW2 := strconv.ParseFloat(want, 64)
	if errG2 != nil || errW2 != nil {
		return false
	}
	switch op {
	case ">=":
		return g >= w
	case "<=":
		return g <= w
	case ">":
		return g > w
	case "<":
		return g < w
	default:
		return false
	}
}
