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

package chainstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-labs/toolplane/pkg/remediation"
)

func testChain(tool string) *remediation.Chain {
	return remediation.CreateChain(tool, remediation.PlanRef{Tool: tool, Label: tool, Steps: 3}, 1, time.Unix(0, 0))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	chain := testChain("pytorch")
	require.NoError(t, s.Save(chain))

	loaded, err := s.Load(chain.ChainID)
	require.NoError(t, err)
	assert.Equal(t, chain.ChainID, loaded.ChainID)
	assert.Equal(t, "pytorch", loaded.OriginalGoal.ToolID)
	assert.Equal(t, 1, loaded.OriginalGoal.FailedStepIdx)
}

func TestListPendingExcludesTerminalChains(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	pending := testChain("ruff")
	require.NoError(t, pending.Escalate("pep668", "venv", "python3-venv", remediation.PlanRef{Tool: "python3-venv"}))
	require.NoError(t, s.Save(pending))

	done := testChain("docker")
	require.NoError(t, done.Escalate("apt_lock_held", "wait_retry", "docker", remediation.PlanRef{Tool: "docker"}))
	done.Stack[0].Status = remediation.FrameStatusDone
	require.NoError(t, s.Save(done))

	list, err := s.ListPending()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ruff", list[0].OriginalGoal.ToolID)
}

func TestCancelMarksTopFrameCancelled(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	chain := testChain("cargo-audit")
	require.NoError(t, chain.Escalate("cargo_missing", "install_cargo_dep", "cargo", remediation.PlanRef{Tool: "cargo"}))
	require.NoError(t, s.Save(chain))

	require.NoError(t, s.Cancel(chain.ChainID))

	reloaded, err := s.Load(chain.ChainID)
	require.NoError(t, err)
	assert.Equal(t, remediation.FrameStatusCancelled, reloaded.Stack[0].Status)
}

func TestArchiveRemovesChainFromPending(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	chain := testChain("kubectl")
	require.NoError(t, s.Save(chain))
	require.NoError(t, s.Archive(chain.ChainID))

	_, err = s.Load(chain.ChainID)
	assert.Error(t, err, "archived chain file should no longer be at its original path")

	list, err := s.ListPending()
	require.NoError(t, err)
	assert.Empty(t, list)
}
