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

	"github.com/urfave/cli/v3"

	"github.com/mnemonic-labs/toolplane/pkg/executor"
	"github.com/mnemonic-labs/toolplane/pkg/plan"
	"github.com/mnemonic-labs/toolplane/pkg/remediation"
)

func resumeCmd() *cli.Command {
	return &cli.Command{
		Name:      "resume",
		Usage:     "Continue a plan that paused for remediation, a restart, or a dep install",
		ArgsUsage: "<chain-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "unlock-dep",
				Usage: "the dependency tool id to install first, from a remediation option's unlock_deps",
			},
			&cli.BoolFlag{
				Name:  "skip",
				Usage: "skip the step that failed instead of retrying it",
			},
			&cli.StringFlag{
				Name:  "sudo-password",
				Usage: "password to feed steps that need sudo and the host is not already root",
			},
			&cli.BoolFlag{
				Name:  "dag",
				Usage: "execute independent steps concurrently instead of strictly in order",
			},
			stateDirFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			chainID := cmd.Args().First()
			if chainID == "" {
				return errors.New("resume requires a chain id, e.g. `toolplane resume <chain-id>`")
			}

			chains, err := openChainStore(cmd)
			if err != nil {
				return err
			}
			chain, err := chains.Load(chainID)
			if err != nil {
				return fmt.Errorf("loading chain %s: %w", chainID, err)
			}

			store, err := loadStore(ctx)
			if err != nil {
				return err
			}
			profile := detectProfile(ctx, false)
			builder := plan.NewBuilder(store, profile)
			ex := executor.New(store, remediation.NewEngine(store))
			opts := executor.Options{
				DAGMode:      cmd.Bool("dag"),
				SudoPassword: cmd.String("sudo-password"),
				ChainID:      chainID,
			}

			if dep := cmd.String("unlock-dep"); dep != "" {
				if err := chain.Escalate("unlock_dep", dep, dep, remediation.PlanRef{Tool: dep}); err != nil {
					return err
				}
				if err := chains.Save(chain); err != nil {
					return err
				}
				depPlan, err := builder.ResolveInstallPlan(dep)
				if err != nil {
					return err
				}
				if depPlan.Error != "" {
					return fmt.Errorf("cannot resolve unlock dependency %q: %s", dep, depPlan.Suggestion)
				}
				fmt.Printf("installing unlock dependency %q before resuming %q\n", dep, chain.OriginalGoal.ToolID)
				depPaused, err := runPlan(ctx, ex, depPlan, profile, opts, chains)
				if err != nil {
					return err
				}
				if depPaused {
					return fmt.Errorf("unlock dependency %q did not finish installing; resolve it before resuming %q", dep, chain.OriginalGoal.ToolID)
				}
				if _, ok := chain.DeEscalate(); ok {
					if err := chains.Save(chain); err != nil {
						return err
					}
				}
			}

			original, err := builder.ResolveInstallPlan(chain.OriginalGoal.ToolID)
			if err != nil {
				return err
			}
			if original.Error != "" {
				return fmt.Errorf("cannot re-resolve %q: %s", chain.OriginalGoal.ToolID, original.Suggestion)
			}

			startFrom := chain.OriginalGoal.FailedStepIdx
			if cmd.Bool("skip") {
				startFrom++
			}
			opts.StartFrom = startFrom

			paused, err := runPlan(ctx, ex, original, profile, opts, chains)
			if err != nil {
				return err
			}
			if paused {
				return nil
			}
			return chains.Archive(chainID)
		},
	}
}
