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

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mnemonic-labs/toolplane/pkg/chainstore"
	"github.com/mnemonic-labs/toolplane/pkg/executor"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/plan"
	"github.com/mnemonic-labs/toolplane/pkg/remediation"
)

func installCmd() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Resolve and run the install plan for a tool",
		ArgsUsage: "<tool>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plan-only",
				Usage: "resolve and print the plan without executing it",
			},
			&cli.BoolFlag{
				Name:  "deep-probe",
				Usage: "run deep-tier host probes (GPU, Kubernetes, service status) before resolving",
			},
			&cli.BoolFlag{
				Name:  "dag",
				Usage: "execute independent steps concurrently instead of strictly in order",
			},
			&cli.StringSliceFlag{
				Name:  "choice",
				Usage: "answer a recipe choice as id=value (repeatable; id=a,b for a multi-select)",
			},
			&cli.StringSliceFlag{
				Name:  "input",
				Usage: "supply a free-form recipe input as id=value (repeatable)",
			},
			&cli.StringFlag{
				Name:  "sudo-password",
				Usage: "password to feed steps that need sudo and the host is not already root",
			},
			stateDirFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			toolID := cmd.Args().First()
			if toolID == "" {
				return errors.New("install requires a tool id, e.g. `toolplane install ruff`")
			}

			store, err := loadStore(ctx)
			if err != nil {
				return err
			}
			profile := detectProfile(ctx, cmd.Bool("deep-probe"))
			builder := plan.NewBuilder(store, profile)

			r, err := store.GetRecipe(toolID)
			if err != nil {
				return writeResult(ctx, cmd, plan.ErrorPlan(toolID, plan.ErrNoRecipe, "no recipe registered for this tool"))
			}

			answers, err := parseChoiceFlags(cmd.StringSlice("choice"))
			if err != nil {
				return err
			}
			inputs, err := parseInputFlags(cmd.StringSlice("input"))
			if err != nil {
				return err
			}

			if len(r.Choices) > 0 && len(answers) == 0 {
				choices, err := builder.ResolveChoices(toolID)
				if err != nil {
					return err
				}
				fmt.Printf("%s requires choices; re-run with --choice id=value for each of:\n", toolID)
				return writeResult(ctx, cmd, choices)
			}

			var resolved plan.Plan
			if len(r.Choices) > 0 {
				resolved, err = builder.ResolveInstallPlanWithChoices(toolID, answers, inputs)
			} else {
				resolved, err = builder.ResolveInstallPlan(toolID)
			}
			if err != nil {
				return err
			}

			if resolved.Error != "" || cmd.Bool("plan-only") || resolved.AlreadyInstalled {
				return writeResult(ctx, cmd, resolved)
			}

			chains, err := openChainStore(cmd)
			if err != nil {
				return err
			}

			ex := executor.New(store, remediation.NewEngine(store))
			opts := executor.Options{
				DAGMode:      cmd.Bool("dag"),
				SudoPassword: cmd.String("sudo-password"),
			}
			_, err = runPlan(ctx, ex, resolved, profile, opts, chains)
			return err
		},
	}
}

// runPlan drains the executor's event stream, printing progress as it
// goes, and on a remediation pause persists a fresh escalation chain so a
// later `toolplane resume` can pick the install back up without
// re-resolving from scratch. It reports whether the plan stopped short
// of EventPlanDone (paused, timed out, or otherwise aborted).
func runPlan(ctx context.Context, ex *executor.Executor, p plan.Plan, profile *hostprobe.HostProfile, opts executor.Options, chains *chainstore.Store) (paused bool, err error) {
	var lastIdx int
	done := false
	for ev := range ex.Execute(ctx, p, profile, opts) {
		printEvent(ev)
		if ev.Kind == executor.EventStepDone {
			lastIdx = ev.StepIdx
		}
		if ev.Kind == executor.EventPlanDone {
			done = true
		}
		if ev.Kind == executor.EventPlanPaused {
			if ev.PauseReason == "remediation_required" {
				return true, persistPendingChain(chains, p, lastIdx)
			}
			return true, nil
		}
	}
	return !done, nil
}

func persistPendingChain(chains *chainstore.Store, p plan.Plan, failedStepIdx int) error {
	chain := remediation.CreateChain(p.Tool, remediation.PlanRef{Tool: p.Tool, Label: p.Label, Steps: len(p.Steps)}, failedStepIdx, time.Now().UTC())
	if err := chains.Save(chain); err != nil {
		return fmt.Errorf("persisting escalation chain: %w", err)
	}
	fmt.Printf("chain %s saved; resume with `toolplane resume %s`\n", chain.ChainID, chain.ChainID)
	return nil
}
