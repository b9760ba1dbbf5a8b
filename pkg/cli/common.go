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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mnemonic-labs/toolplane/pkg/chainstore"
	"github.com/mnemonic-labs/toolplane/pkg/executor"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
	"github.com/mnemonic-labs/toolplane/pkg/recipe/catalog"
	"github.com/mnemonic-labs/toolplane/pkg/remediation"
	"github.com/mnemonic-labs/toolplane/pkg/serializer"
)

// loadStore builds the recipe Store from the catalog baked into the
// binary. A future --catalog-dir flag could route this through
// catalog.LoadDir instead without touching any caller.
func loadStore(ctx context.Context) (*recipe.Store, error) {
	c, err := catalog.LoadEmbedded(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipe catalog: %w", err)
	}
	return recipe.NewStore(c), nil
}

// detectProfile runs the fast-tier host probe and, when deep is true,
// layers on the deep-tier categories a recipe's constraints are likely to
// need: GPU, Kubernetes and the services defaultServices covers.
func detectProfile(ctx context.Context, deep bool) *hostprobe.HostProfile {
	profile := hostprobe.ProbeFast(ctx)
	if !deep {
		return profile
	}
	needs := []hostprobe.Category{hostprobe.CategoryGPU, hostprobe.CategoryKubernetes, hostprobe.CategoryServices}
	return hostprobe.ProbeDeep(ctx, profile, needs, hostprobe.NewDeepCache(0))
}

// openChainStore opens the chain store at the invoking command's
// --state-dir.
func openChainStore(cmd *cli.Command) (*chainstore.Store, error) {
	return chainstore.NewStore(cmd.String("state-dir"))
}

// writeResult serializes v to --output (or stdout) in --format.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return fmt.Errorf("unknown output format: %q", cmd.String("format"))
	}
	w, err := serializer.NewFileWriterOrStdout(f, cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := w.(serializer.Closer); ok {
			if cerr := closer.Close(); cerr != nil {
				slog.Warn("failed to close serializer", "error", cerr)
			}
		}
	}()
	return w.Serialize(ctx, v)
}

// parseChoiceFlags turns repeated --choice id=option[,option...] flags
// into the map[string]any ResolveInstallPlanWithChoices expects; a multi
// choice's value is a comma-separated option id list.
func parseChoiceFlags(raw []string) (map[string]any, error) {
	answers := make(map[string]any, len(raw))
	for _, kv := range raw {
		id, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --choice %q, expected id=value", kv)
		}
		if strings.Contains(val, ",") {
			answers[id] = strings.Split(val, ",")
		} else {
			answers[id] = val
		}
	}
	return answers, nil
}

// parseInputFlags turns repeated --input id=value flags into the
// map[string]string ResolveInstallPlanWithChoices expects for free-form
// recipe inputs (e.g. a registry URL or version pin).
func parseInputFlags(raw []string) (map[string]string, error) {
	inputs := make(map[string]string, len(raw))
	for _, kv := range raw {
		id, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --input %q, expected id=value", kv)
		}
		inputs[id] = val
	}
	return inputs, nil
}

// printEvent renders one executor.Event as a human-readable progress line.
// Streamed stdout/stderr chunks are printed verbatim since they are
// already-formatted subprocess output; every other kind gets a bracketed
// step/plan marker.
func printEvent(e executor.Event) {
	switch e.Kind {
	case executor.EventStepStart:
		fmt.Printf("==> [%d] %s\n", e.StepIdx, e.StepID)
	case executor.EventStdoutChunk:
		fmt.Println(e.Chunk)
	case executor.EventStderrChunk:
		fmt.Println(e.Chunk)
	case executor.EventStepDone:
		if e.OK {
			fmt.Printf("    ok\n")
		} else {
			fmt.Printf("    failed (exit %d)\n", e.ExitCode)
		}
	case executor.EventRemediation:
		printRemediation(e.Remediation)
	case executor.EventPlanPaused:
		fmt.Printf("-- paused: %s\n", e.PauseReason)
	case executor.EventPlanDone:
		fmt.Println("-- done")
	}
}

func printRemediation(r *remediation.Response) {
	if r == nil {
		return
	}
	fmt.Printf("\n%s (%s)\n", r.Failure.Label, r.Failure.FailureID)
	for i, o := range r.Options {
		marker := " "
		if o.Recommended {
			marker = "*"
		}
		fmt.Printf("  %s %d) %s [%s]\n", marker, i+1, o.Label, o.Available)
	}
	fmt.Printf("  fallback: %v\n\n", r.FallbackActions)
}
