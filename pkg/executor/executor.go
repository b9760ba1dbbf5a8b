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

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mnemonic-labs/toolplane/pkg/cnserr"
	"github.com/mnemonic-labs/toolplane/pkg/hostprobe"
	"github.com/mnemonic-labs/toolplane/pkg/plan"
	"github.com/mnemonic-labs/toolplane/pkg/recipe"
	"github.com/mnemonic-labs/toolplane/pkg/remediation"
)

// MaxParallelSteps bounds how many independent DAG-mode steps may run at
// once, regardless of how wide the ready frontier is.
const MaxParallelSteps = 4

// Runner executes one resolved command and streams its output line by
// line. The default implementation shells out with exec.CommandContext;
// tests substitute a fake to avoid touching the real system.
type Runner interface {
	Run(ctx context.Context, command []string, stdin io.Reader, onStdout, onStderr func(string)) (exitCode int, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, command []string, stdin io.Reader, onStdout, onStderr func(string)) (int, error) {
	if len(command) == 0 {
		return -1, fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return -1, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return -1, err
	}
	if err := cmd.Start(); err != nil {
		return -1, err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); scanLines(stdoutPipe, onStdout) }()
	go func() { defer wg.Done(); scanLines(stderrPipe, onStderr) }()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}

func scanLines(r io.Reader, fn func(string)) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if fn != nil {
			fn(sc.Text())
		}
	}
}

// Executor runs a plan.Plan step by step (C7). New sets Runner to the real
// exec.CommandContext runner; an Executor built as a literal needs Runner
// set before Execute runs any command.
type Executor struct {
	Store       *recipe.Store
	Remediation *remediation.Engine
	Runner      Runner
	BackupDir   string
}

// New builds an Executor wired to the given recipe store and remediation
// engine, using the real exec.CommandContext runner.
func New(store *recipe.Store, remediationEngine *remediation.Engine) *Executor {
	return &Executor{
		Store:       store,
		Remediation: remediationEngine,
		Runner:      execRunner{},
		BackupDir:   os.TempDir(),
	}
}

// Execute runs p's steps against profile, starting at opts.StartFrom, and
// streams progress on the returned channel until the plan completes,
// pauses (a restart_required step finished, or a step failed and needs a
// remediation choice), or the context is cancelled. The channel is closed
// once no further events will be sent.
func (e *Executor) Execute(ctx context.Context, p plan.Plan, profile *hostprobe.HostProfile, opts Options) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		if opts.DAGMode {
			e.runDAG(ctx, p, profile, opts, events)
		} else {
			e.runLinear(ctx, p, profile, opts, events)
		}
	}()
	return events
}

// stepOutcome tells the driving loop what to do after one step.
type stepOutcome int

const (
	outcomeContinue stepOutcome = iota
	outcomePaused
	outcomeAborted
)

func (e *Executor) runLinear(ctx context.Context, p plan.Plan, profile *hostprobe.HostProfile, opts Options, events chan<- Event) {
	locks := newPMLocks()
	for i := opts.StartFrom; i < len(p.Steps); i++ {
		outcome := e.runStep(ctx, p, i, profile, opts, locks, events)
		if outcome != outcomeContinue {
			return
		}
	}
	events <- Event{Kind: EventPlanDone, OK: true}
}

// runDAG dispatches p.Steps wave by wave: each wave is the current ready
// frontier (plan.ReadySteps), run concurrently up to MaxParallelSteps and
// serialized further by the per-package-manager mutex. A wave is a
// barrier — the next wave only opens once every step in the current one
// has finished — which keeps the scheduling simple while still letting
// independent steps (e.g. two unrelated repo_setup steps) overlap.
func (e *Executor) runDAG(ctx context.Context, p plan.Plan, profile *hostprobe.HostProfile, opts Options, events chan<- Event) {
	if _, err := plan.ValidateDAG(p.Steps); err != nil {
		events <- Event{Kind: EventStepDone, OK: false, Stderr: err.Error()}
		return
	}

	done := make(map[string]bool, len(p.Steps))
	for i := 0; i < opts.StartFrom && i < len(p.Steps); i++ {
		done[p.Steps[i].ID] = true
	}

	locks := newPMLocks()
	sem := make(chan struct{}, MaxParallelSteps)

	for {
		wave := plan.ReadySteps(p.Steps, done)
		if len(wave) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		var mu sync.Mutex
		var stopped bool

		for _, s := range wave {
			s := s
			idx := indexOf(p.Steps, s.ID)
			sem <- struct{}{}
			g.Go(func() error {
				defer func() { <-sem }()
				outcome := e.runStep(gctx, p, idx, profile, opts, locks, events)
				mu.Lock()
				defer mu.Unlock()
				if outcome == outcomeContinue {
					done[s.ID] = true
					return nil
				}
				stopped = true
				return fmt.Errorf("step %s did not complete", s.ID)
			})
		}
		_ = g.Wait()
		if stopped {
			return
		}
	}
	events <- Event{Kind: EventPlanDone, OK: true}
}

func indexOf(steps []plan.Step, id string) int {
	for i, s := range steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// runStep executes one step: re-evaluates its condition, takes backups,
// runs the command under the relevant timeout and pm-family lock,
// handles sudo, and on failure hands the step to the Remediation Engine.
func (e *Executor) runStep(ctx context.Context, p plan.Plan, idx int, profile *hostprobe.HostProfile, opts Options, locks *pmLocks, events chan<- Event) stepOutcome {
	step := p.Steps[idx]

	if step.Condition != "" && !plan.EvalCondition(step.Condition, profile) {
		events <- Event{Kind: EventStepStart, StepID: step.ID, StepIdx: idx}
		events <- Event{Kind: EventStepDone, StepID: step.ID, StepIdx: idx, OK: true}
		return outcomeContinue
	}

	if len(step.BackupBefore) > 0 {
		if err := e.backupPaths(step.BackupBefore); err != nil {
			events <- Event{Kind: EventStepStart, StepID: step.ID, StepIdx: idx}
			events <- Event{
				Kind: EventStepDone, StepID: step.ID, StepIdx: idx,
				OK: false, ExitCode: -1, Stderr: err.Error(),
			}
			events <- Event{Kind: EventPlanPaused, StepID: step.ID, StepIdx: idx, PauseReason: "backup_failed"}
			return outcomeAborted
		}
	}

	events <- Event{Kind: EventStepStart, StepID: step.ID, StepIdx: idx}

	release := locks.acquire(pmFamily(step.Command))
	defer release()

	timeout := stepTimeout(step)
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command, stdin := e.prepareCommand(step, profile, opts)

	var stderrBuf strings.Builder
	exitCode, err := e.Runner.Run(stepCtx, command,
		stdin,
		func(line string) { events <- Event{Kind: EventStdoutChunk, StepID: step.ID, StepIdx: idx, Chunk: line} },
		func(line string) {
			stderrBuf.WriteString(line)
			stderrBuf.WriteByte('\n')
			events <- Event{Kind: EventStderrChunk, StepID: step.ID, StepIdx: idx, Chunk: line}
		},
	)

	if err != nil {
		if stepCtx.Err() == context.DeadlineExceeded {
			events <- Event{
				Kind: EventStepDone, StepID: step.ID, StepIdx: idx,
				OK: false, ExitCode: -1,
				Stderr: cnserr.New(cnserr.CategoryTimeout, fmt.Sprintf("step %q exceeded its %s timeout", step.Label, timeout)).Error(),
			}
			events <- Event{Kind: EventPlanPaused, StepID: step.ID, StepIdx: idx, PauseReason: "timeout"}
			return outcomeAborted
		}
		events <- Event{Kind: EventStepDone, StepID: step.ID, StepIdx: idx, OK: false, ExitCode: -1, Stderr: err.Error()}
		events <- Event{Kind: EventPlanPaused, StepID: step.ID, StepIdx: idx, PauseReason: "runner_error"}
		return outcomeAborted
	}

	if exitCode != 0 {
		stderrText := stderrBuf.String()
		events <- Event{Kind: EventStepDone, StepID: step.ID, StepIdx: idx, OK: false, ExitCode: exitCode, Stderr: stderrText}
		e.emitRemediation(p, step, idx, stderrText, exitCode, profile, events)
		events <- Event{Kind: EventPlanPaused, StepID: step.ID, StepIdx: idx, PauseReason: "remediation_required"}
		return outcomePaused
	}

	events <- Event{Kind: EventStepDone, StepID: step.ID, StepIdx: idx, OK: true, ExitCode: 0}

	if step.RestartRequired != "" {
		events <- Event{
			Kind: EventPlanPaused, StepID: step.ID, StepIdx: idx,
			PauseReason: string(step.RestartRequired),
		}
		return outcomePaused
	}

	return outcomeContinue
}

// emitRemediation looks up the plan's recipe and the package-manager
// family the failing step invoked, runs it through the Remediation
// Engine, and streams the resulting response. The plan itself stays
// paused afterward: resuming with a chosen option is a separate call.
func (e *Executor) emitRemediation(p plan.Plan, step plan.Step, idx int, stderrText string, exitCode int, profile *hostprobe.HostProfile, events chan<- Event) {
	if e.Remediation == nil {
		return
	}
	r, err := e.Store.GetRecipe(p.Tool)
	if err != nil {
		r = recipe.Recipe{ToolID: p.Tool, Label: p.Label}
	}
	method := pmFamily(step.Command)
	if method == "" && len(step.Command) > 0 {
		method = step.Command[0]
	}
	resp := e.Remediation.AnalyseFailure(r, idx, step.Label, stderrText, exitCode, method, profile)
	events <- Event{Kind: EventRemediation, StepID: step.ID, StepIdx: idx, Remediation: &resp}
}

// prepareCommand applies the sudo rewrite rules from §4.7: strip a
// redundant leading sudo when already root, otherwise run the command as
// `sudo -k -S` (drop any cached credential, read the password on stdin).
func (e *Executor) prepareCommand(step plan.Step, profile *hostprobe.HostProfile, opts Options) ([]string, io.Reader) {
	command := step.Command
	isRoot := profile != nil && profile.Capabilities.IsRoot

	if len(command) > 0 && command[0] == "sudo" {
		if isRoot {
			return command[1:], nil
		}
		sudoCmd := append([]string{"sudo", "-k", "-S"}, command[1:]...)
		return sudoCmd, strings.NewReader(opts.SudoPassword + "\n")
	}

	if step.NeedsSudo && !isRoot {
		sudoCmd := append([]string{"sudo", "-k", "-S"}, command...)
		return sudoCmd, strings.NewReader(opts.SudoPassword + "\n")
	}

	return command, nil
}

func stepTimeout(step plan.Step) time.Duration {
	if step.TimeoutSeconds > 0 {
		return time.Duration(step.TimeoutSeconds) * time.Second
	}
	if step.Type == plan.StepVerify {
		return DefaultProbeTimeout
	}
	return DefaultInstallTimeout
}

// backupPaths copies every path in paths to a timestamped sibling before
// a high-risk step runs. A missing source path is not an error: nothing
// to back up yet is the common case for a step that's about to create
// the file for the first time.
func (e *Executor) backupPaths(paths []string) error {
	stamp := time.Now().UTC().Format("20060102T150405Z")
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		dest := fmt.Sprintf("%s.%s.bak", p, stamp)
		if err := copyFile(p, dest); err != nil {
			return cnserr.NewWithContext(cnserr.CategoryResources, "failed to back up file before a high-risk step",
				map[string]any{"path": p, "error": err.Error()})
		}
		slog.Debug("backed up file before high-risk step", "path", p, "backup", dest)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
