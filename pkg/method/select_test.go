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

package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
)

func TestPickPrefersFeasiblePreferEntry(t *testing.T) {
	r := recipe.Recipe{
		ToolID: "ruff",
		Install: map[string][]string{
			"pipx": {"pipx", "install", "ruff"},
			"apt":  {"apt-get", "install", "-y", "ruff"},
		},
		NeedsSudo: map[string]bool{"pipx": false, "apt": true},
		Prefer:    []string{"pipx", "apt"},
	}
	profile := &hostprobe.HostProfile{PackageManager: hostprobe.PackageManager{Primary: "apt"}}

	sel, err := Pick(r, profile)
	require.NoError(t, err)
	assert.Equal(t, "pipx", sel.Method)
	assert.False(t, sel.NeedsSudo)
}

func TestPickSkipsInfeasibleSnap(t *testing.T) {
	r := recipe.Recipe{
		ToolID:    "widget",
		Install:   map[string][]string{"snap": {"snap", "install", "widget"}, "apt": {"apt-get", "install", "-y", "widget"}},
		NeedsSudo: map[string]bool{"snap": true, "apt": true},
		Prefer:    []string{"snap"},
	}
	profile := &hostprobe.HostProfile{
		PackageManager: hostprobe.PackageManager{Primary: "apt", SnapAvailable: false},
	}

	sel, err := Pick(r, profile)
	require.NoError(t, err)
	assert.Equal(t, "apt", sel.Method)
}

func TestPickFallsBackToDefault(t *testing.T) {
	r := recipe.Recipe{
		ToolID:    "kubectl",
		Install:   map[string][]string{"_default": {"install", "kubectl"}},
		NeedsSudo: map[string]bool{"_default": true},
	}
	profile := &hostprobe.HostProfile{PackageManager: hostprobe.PackageManager{Primary: "apk"}}

	sel, err := Pick(r, profile)
	require.NoError(t, err)
	assert.Equal(t, "_default", sel.Method)
}

func TestPickNoMethodAvailable(t *testing.T) {
	r := recipe.Recipe{ToolID: "nothing", Install: map[string][]string{}, NeedsSudo: map[string]bool{}}
	profile := &hostprobe.HostProfile{}

	_, err := Pick(r, profile)
	require.Error(t, err)
	var target *ErrNoMethodAvailable
	assert.ErrorAs(t, err, &target)
}
