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

package remediation

import (
	"sort"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

// Engine turns a failed step into a RemediationResponse by cascading
// handlers across four layers and computing each option's availability
// against the current host.
type Engine struct {
	Store *recipe.Store

	// PathLookup resolves a binary name to a path, like exec.LookPath.
	// Overridable for tests.
	PathLookup func(name string) (string, error)

	// ProbeVersion best-effort detects an installed dep's version (e.g.
	// by running "dep --version" and extracting a semver substring). A
	// nil ProbeVersion makes an upgrade_dep option whose dep is on PATH
	// impossible, since no evidence of the installed version is
	// available; an absent dep with an installing recipe is still locked.
	ProbeVersion func(dep string) (string, bool)
}

// NewEngine builds a remediation Engine bound to a recipe store.
func NewEngine(store *recipe.Store) *Engine {
	return &Engine{Store: store}
}

type matchedHandler struct {
	layer  string
	record recipe.HandlerRecord
}

// AnalyseFailure cascades recipe.on_failure, the failing method's family
// handlers, the infra handlers and the bootstrap handlers (in that
// priority order) against a step's exit code and stderr, merges their
// options by id (first layer to declare an id wins ties), computes each
// option's availability, and returns the ranked response (§4.8).
func (e *Engine) AnalyseFailure(r recipe.Recipe, stepIdx int, stepLabel string, stderr string, exitCode int, method string, profile *hostprobe.HostProfile) Response {
	layers := []struct {
		name     string
		handlers []recipe.HandlerRecord
	}{
		{"recipe", r.OnFailure},
		{"method", e.methodHandlers(method)},
		{"infra", e.infraHandlers()},
		{"bootstrap", e.bootstrapHandlers()},
	}

	var matched []matchedHandler
	for _, layer := range layers {
		for _, h := range layer.handlers {
			if h.Matches(exitCode, stderr) {
				matched = append(matched, matchedHandler{layer: layer.name, record: h})
			}
		}
	}

	resp := Response{
		ToolID:          r.ToolID,
		StepIdx:         stepIdx,
		StepLabel:       stepLabel,
		ExitCode:        exitCode,
		Stderr:          stderr,
		FallbackActions: []FallbackAction{FallbackRetry, FallbackSkip, FallbackCancel},
	}

	if len(matched) == 0 {
		resp.Failure = FailureInfo{
			FailureID:   "unrecognized_failure",
			Category:    "unknown",
			Label:       "Unrecognized failure",
			Description: "No handler matched this step's exit code or output.",
		}
		return resp
	}

	primary := matched[0]
	resp.Failure = FailureInfo{
		FailureID:     primary.record.FailureID,
		Category:      primary.record.Category,
		Label:         primary.record.Label,
		Description:   primary.record.Description,
		MatchedLayer:  primary.layer,
		MatchedMethod: method,
	}

	var ordered []ResolvedOption
	seen := make(map[string]bool)
	for _, m := range matched {
		for _, opt := range m.record.Options {
			if seen[opt.ID] {
				continue
			}
			seen[opt.ID] = true
			resolved := e.resolve(opt, r, profile, method)
			resolved.MatchedLayer = m.layer
			ordered = append(ordered, resolved)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i]) < rank(ordered[j])
	})

	resp.Options = ordered
	return resp
}

// rank implements §4.8's stable ordering: recommended first, then ready,
// then locked, then impossible.
func rank(o ResolvedOption) int {
	if o.Recommended {
		return 0
	}
	switch o.Available {
	case Ready:
		return 1
	case Locked:
		return 2
	default:
		return 3
	}
}

func (e *Engine) methodHandlers(method string) []recipe.HandlerRecord {
	if e.Store == nil {
		return nil
	}
	return e.Store.MethodFamilyHandlers(method)
}

func (e *Engine) infraHandlers() []recipe.HandlerRecord {
	if e.Store == nil {
		return nil
	}
	return e.Store.InfraHandlers()
}

func (e *Engine) bootstrapHandlers() []recipe.HandlerRecord {
	if e.Store == nil {
		return nil
	}
	return e.Store.BootstrapHandlers()
}
