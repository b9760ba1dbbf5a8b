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

import "fmt"

// ValidateDAG checks that every depends_on reference exists and that the
// step graph is acyclic, returning Kahn's total topological order on
// success.
func ValidateDAG(steps []Step) ([]string, error) {
	byID := make(map[string]Step, len(steps))
	for _, s := range steps {
		byID[s.ID] = s
	}

	indegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string)
	for _, s := range steps {
		if _, ok := indegree[s.ID]; !ok {
			indegree[s.ID] = 0
		}
		for _, dep := range s.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("step %q depends_on unknown step %q", s.ID, dep)
			}
			indegree[s.ID]++
			dependents[dep] = append(dependents[dep], s.ID)
		}
	}

	var queue []string
	for _, s := range steps {
		if indegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(steps) {
		return nil, fmt.Errorf("cycle detected among plan steps")
	}
	return order, nil
}

// ReadySteps returns the subset of steps whose dependencies are all
// present in done, excluding steps already in done — the frontier the
// executor dispatches concurrently in DAG mode.
func ReadySteps(steps []Step, done map[string]bool) []Step {
	var ready []Step
	for _, s := range steps {
		if done[s.ID] {
			continue
		}
		allDone := true
		for _, dep := range s.DependsOn {
			if !done[dep] {
				allDone = false
				break
			}
		}
		if allDone {
			ready = append(ready, s)
		}
	}
	return ready
}

// LinearDependsOn fills in implicit sequential depends_on for steps that
// declare none, preserving linear-plan ordering semantics when the plan
// is later run through DAG machinery.
func LinearDependsOn(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	for i := 1; i < len(out); i++ {
		if len(out[i].DependsOn) == 0 {
			out[i].DependsOn = []string{out[i-1].ID}
		}
	}
	return out
}
