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

package executor

import "sync"

// pmFamily maps a step's command binary to the package-manager family it
// belongs to, so concurrent DAG-mode steps that happen to invoke the same
// underlying package manager can be serialized even when depends_on
// declares no relationship between them (two apt installs corrupt dpkg's
// lock file just as surely if they're unrelated as if one depends on the
// other).
func pmFamily(command []string) string {
	if len(command) == 0 {
		return ""
	}
	switch command[0] {
	case "apt", "apt-get", "dpkg":
		return "apt"
	case "dnf", "yum", "rpm":
		return "dnf"
	case "pacman":
		return "pacman"
	case "brew":
		return "brew"
	case "pip", "pip3", "pipx":
		return "pip"
	case "cargo":
		return "cargo"
	case "npm", "npx":
		return "npm"
	case "snap":
		return "snap"
	case "conda", "mamba":
		return "conda"
	default:
		return ""
	}
}

// pmLocks hands out one mutex per package-manager family, shared across
// every step dispatched by a single Execute call.
type pmLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPMLocks() *pmLocks {
	return &pmLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire blocks until the named family's lock is held and returns the
// function that releases it. A step with no recognized family (e.g. a
// plain curl|sh installer) never contends with anything and acquire
// returns a no-op release immediately.
func (p *pmLocks) acquire(family string) func() {
	if family == "" {
		return func() {}
	}
	p.mu.Lock()
	lock, ok := p.locks[family]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[family] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
