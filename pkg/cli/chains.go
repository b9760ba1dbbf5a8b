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

	"github.com/urfave/cli/v3"
)

func chainsCmd() *cli.Command {
	return &cli.Command{
		Name:  "chains",
		Usage: "Inspect and manage pending escalation chains",
		Commands: []*cli.Command{
			chainsListCmd(),
			chainsShowCmd(),
			chainsCancelCmd(),
		},
	}
}

func chainsListCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List chains still awaiting a resume",
		Flags: []cli.Flag{stateDirFlag, outputFlag, formatFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			chains, err := openChainStore(cmd)
			if err != nil {
				return err
			}
			pending, err := chains.ListPending()
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, pending)
		},
	}
}

func chainsShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one chain's full escalation stack",
		ArgsUsage: "<chain-id>",
		Flags:     []cli.Flag{stateDirFlag, outputFlag, formatFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			chainID := cmd.Args().First()
			if chainID == "" {
				return errors.New("show requires a chain id")
			}
			chains, err := openChainStore(cmd)
			if err != nil {
				return err
			}
			chain, err := chains.Load(chainID)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, chain)
		},
	}
}

func chainsCancelCmd() *cli.Command {
	return &cli.Command{
		Name:      "cancel",
		Usage:     "Mark a pending chain's top frame cancelled and archive it",
		ArgsUsage: "<chain-id>",
		Flags:     []cli.Flag{stateDirFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			chainID := cmd.Args().First()
			if chainID == "" {
				return errors.New("cancel requires a chain id")
			}
			chains, err := openChainStore(cmd)
			if err != nil {
				return err
			}
			if err := chains.Cancel(chainID); err != nil {
				return err
			}
			return chains.Archive(chainID)
		},
	}
}
