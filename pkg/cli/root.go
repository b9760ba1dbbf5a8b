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

// Package cli assembles the toolplane command-line front end: detecting
// the host, resolving install plans, executing them, and steering
// escalation chains left pending by a prior failed run.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/mnemonic-labs/toolplane/pkg/logging"
)

const (
	appName        = "toolplane"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "write the result to this path instead of stdout",
}

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"f"},
	Value:   "table",
	Usage:   fmt.Sprintf("output format (%v)", []string{"json", "yaml", "table"}),
}

// stateDirFlag is repeated on every command that touches the chain store
// (urfave/cli/v3 has no cobra-style PersistentFlags, so a shared flag
// var added to each command's own Flags is the idiomatic way to keep one
// definition without duplicating its default/usage text).
var stateDirFlag = &cli.StringFlag{
	Name:  "state-dir",
	Value: defaultChainDir(),
	Usage: "directory where pending escalation chains are persisted",
}

// defaultChainDir is where pending escalation chains persist between CLI
// invocations absent an explicit --state-dir.
func defaultChainDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".toolplane", "chains")
	}
	return filepath.Join(os.TempDir(), "toolplane-chains")
}

// RootCommand builds the top-level command tree.
func RootCommand() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		EnableShellCompletion: true,
		Usage:                 "Detect, resolve and install CLI developer tooling",
		Description: fmt.Sprintf(`toolplane - devops tool install control plane

Version: %s
Commit:  %s
Built:   %s

Probes the host, resolves a deterministic install plan for a named
CLI tool, executes it with streamed progress, and on failure proposes
layered remediation so a stuck install can be unstuck without starting
over.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(appName, version, cmd.String("log-level"))
			slog.Info("starting",
				"name", appName,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			installCmd(),
			resumeCmd(),
			chainsCmd(),
		},
	}
}

// Execute runs the root command to completion, wiring SIGINT/SIGTERM into
// ctx cancellation so an in-flight install stops cleanly rather than
// leaving a package manager lock held.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nreceived interrupt, stopping after the current step...")
		cancel()
	}()

	if err := RootCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
