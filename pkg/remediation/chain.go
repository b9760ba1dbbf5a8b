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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemonic-labs/toolplane/pkg/cnserr"
)

// ErrMaxDepthExceeded is returned by Escalate when pushing a new frame
// would grow the chain past its max_depth.
var ErrMaxDepthExceeded = cnserr.New(cnserr.CategoryMaxDepthExceeded, "remediation chain exceeded its maximum depth")

// CreateChain starts a new escalation chain anchored to the plan and
// step that first failed.
func CreateChain(toolID string, planRef PlanRef, failedStepIdx int, now time.Time) *Chain {
	return &Chain{
		ChainID: uuid.NewString(),
		OriginalGoal: OriginalGoal{
			ToolID:        toolID,
			Plan:          planRef,
			FailedStepIdx: failedStepIdx,
		},
		MaxDepth:  DefaultMaxDepth,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Escalate pushes a new frame onto the chain for a sub-install undertaken
// to satisfy a locked option's unlock_deps. It enforces both guards from
// §3.5: the hard depth cap, and the cycle check that a tool_id already
// present in the stack cannot reappear.
func (c *Chain) Escalate(failureID, chosenOptionID string, subToolID string, subPlan PlanRef) error {
	if len(c.Stack) >= c.MaxDepth {
		return ErrMaxDepthExceeded
	}
	for _, frame := range c.Stack {
		if frame.Plan != nil && frame.Plan.Tool == subToolID {
			return fmt.Errorf("remediation chain cycle: %q already appears in this chain", subToolID)
		}
	}
	if c.OriginalGoal.ToolID == subToolID {
		return fmt.Errorf("remediation chain cycle: %q already appears in this chain", subToolID)
	}

	c.Stack = append(c.Stack, ChainFrame{
		Depth:          len(c.Stack),
		FailureID:      failureID,
		ChosenOptionID: chosenOptionID,
		Plan:           &subPlan,
		Status:         FrameStatusPending,
	})
	return nil
}

// DeEscalate pops the top frame once it has completed, returning it so
// the caller can re-resolve the parent option's availability (now ready)
// and retry the plan one level down. An empty stack means the original
// plan itself should resume from FailedStepIdx.
func (c *Chain) DeEscalate() (ChainFrame, bool) {
	if len(c.Stack) == 0 {
		return ChainFrame{}, false
	}
	top := c.Stack[len(c.Stack)-1]
	c.Stack = c.Stack[:len(c.Stack)-1]
	return top, true
}

// Depth returns the chain's current stack depth.
func (c *Chain) Depth() int {
	return len(c.Stack)
}

// Summary renders the trimmed ChainSummary embedded in a Response.
func (c *Chain) Summary() *ChainSummary {
	if c == nil {
		return nil
	}
	var breadcrumbs []string
	for _, f := range c.Stack {
		breadcrumbs = append(breadcrumbs, f.Breadcrumbs...)
	}
	return &ChainSummary{
		ChainID:      c.ChainID,
		OriginalGoal: c.OriginalGoal,
		Depth:        len(c.Stack),
		MaxDepth:     c.MaxDepth,
		Breadcrumbs:  breadcrumbs,
	}
}

// MaxDepthExceededResponse builds the terminal response §4.8 mandates
// when an escalation would exceed max_depth: the accumulated failure
// identity, no options, and no further escalation possible.
func MaxDepthExceededResponse(toolID string, stepIdx int, stepLabel string, chain *Chain) Response {
	return Response{
		ToolID:    toolID,
		StepIdx:   stepIdx,
		StepLabel: stepLabel,
		Failure: FailureInfo{
			FailureID: MaxDepthExceededFailureID,
			Category:  "unknown",
			Label:     "Remediation chain exceeded its maximum depth",
		},
		Chain:           chain.Summary(),
		FallbackActions: []FallbackAction{FallbackSkip, FallbackCancel},
	}
}
