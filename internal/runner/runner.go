/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package runner defines the TestRunner collaborator the orchestrator
// drives to decide whether a mutation was killed, and a concrete
// implementation that shells out to `go test`.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mutantia/mutantia/internal/outcome"
)

// ErrNoTests is returned by Baseline when the package built and `go
// test` exited zero but exercised no tests at all — spec.md §4.6's "no
// tests executed" baseline outcome, kept distinct from a genuine
// failure so the Orchestrator can raise the more specific error.
var ErrNoTests = errors.New("runner: baseline exercised zero tests")

// TestRunner runs the test suite covering pkg, in dir, and reports the
// resulting Outcome. It never returns NotCovered or Skipped — those
// are decided before a TestRunner is ever invoked.
type TestRunner interface {
	Run(ctx context.Context, dir, pkg string) (outcome.Outcome, error)
}

// GoTestRunner shells out to `go test`: a context timeout distinguishes
// a hang from a genuine test failure, and the process exit code
// distinguishes a killed mutant (exit 1) from a build failure (exit 2).
type GoTestRunner struct {
	// ExecContext lets tests substitute a fake process; defaults to
	// exec.CommandContext.
	ExecContext func(ctx context.Context, name string, args ...string) *exec.Cmd
	BuildTags   string
	TestCPU     int
	Timeout     time.Duration
}

// NewGoTestRunner builds a GoTestRunner with exec.CommandContext as
// its process launcher.
func NewGoTestRunner(timeout time.Duration, buildTags string, testCPU int) *GoTestRunner {
	return &GoTestRunner{
		ExecContext: exec.CommandContext,
		BuildTags:   buildTags,
		TestCPU:     testCPU,
		Timeout:     timeout,
	}
}

// Run executes `go test` for pkg inside dir.
func (r *GoTestRunner) Run(ctx context.Context, dir, pkg string) (outcome.Outcome, error) {
	oc, output, err := r.runOnce(ctx, dir, pkg)
	if err != nil {
		return oc, err
	}
	if oc == outcome.Survived && noTestsRan(output) {
		// spec.md §4.6's outcome table collapses a runner's "no tests
		// executed" result into BuildError: no effective verification
		// happened for this mutant.
		return outcome.BuildError, nil
	}

	return oc, nil
}

// RunBuild satisfies the orchestrator's optional split-build
// capability: it runs `go build` for pkg without ever invoking the
// test binary, so a mutant that doesn't compile is classified without
// paying for a full `go test` startup. A successful compile reports
// Survived, mirroring the "passed" convention the orchestrator already
// uses to mean "this stage raised no objection to the mutant."
func (r *GoTestRunner) RunBuild(ctx context.Context, dir, pkg string, timeout time.Duration) (outcome.Outcome, error) {
	code, timedOut, _, err := r.launch(ctx, dir, timeout, r.buildArgs(pkg))
	if err != nil {
		return outcome.BuildError, nil
	}
	if timedOut {
		return outcome.Timeout, nil
	}
	if code != 0 {
		return outcome.BuildError, nil
	}

	return outcome.Survived, nil
}

// RunTestsWithoutBuild runs the test suite the same way Run does, for
// a mutant whose RunBuild has already confirmed it compiles. It is
// only reached once build-first mode has latched on.
func (r *GoTestRunner) RunTestsWithoutBuild(ctx context.Context, dir, pkg string, timeout time.Duration) (outcome.Outcome, error) {
	code, timedOut, output, err := r.launch(ctx, dir, timeout, r.testArgs(pkg))
	if err != nil {
		return outcome.BuildError, nil
	}
	if timedOut {
		return outcome.Timeout, nil
	}

	oc := classifyTestExitCode(code)
	if oc == outcome.Survived && noTestsRan(output) {
		return outcome.BuildError, nil
	}

	return oc, nil
}

// runOnce launches `go test` for pkg inside dir once, with output
// captured so callers can distinguish a clean pass from one that ran
// zero tests.
func (r *GoTestRunner) runOnce(ctx context.Context, dir, pkg string) (outcome.Outcome, string, error) {
	code, timedOut, output, err := r.launch(ctx, dir, r.Timeout, r.testArgs(pkg))
	if err != nil {
		return outcome.Survived, output, err
	}
	if timedOut {
		return outcome.Timeout, output, nil
	}

	return classifyTestExitCode(code), output, nil
}

// launch runs `go <args>` inside dir with a context bounded by
// timeout, capturing combined stdout/stderr. It never returns an error
// for a deadline exceeded or for a process that merely exited
// non-zero — both are reported through the ordinary return values so
// every caller classifies them the same way.
func (r *GoTestRunner) launch(ctx context.Context, dir string, timeout time.Duration, args []string) (exitCode int, timedOut bool, output string, err error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var buf bytes.Buffer
	cmd := r.ExecContext(runCtx, "go", args...)
	cmd.Dir = dir
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()
	output = buf.String()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return 0, true, output, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), false, output, nil
	}
	if runErr != nil {
		return 0, false, output, fmt.Errorf("runner: launching go %s: %w", args[0], runErr)
	}

	return 0, false, output, nil
}

// classifyTestExitCode maps a `go test` exit code to the outcome it
// signals: 1 is a test failure (the mutant was killed), 2 is a build
// failure, anything else (0, in practice) is a clean pass.
func classifyTestExitCode(code int) outcome.Outcome {
	switch code {
	case 1:
		return outcome.Killed
	case 2:
		return outcome.BuildError
	default:
		return outcome.Survived
	}
}

func noTestsRan(output string) bool {
	return strings.Contains(output, "[no test files]") || strings.Contains(output, "[no tests to run]")
}

func (r *GoTestRunner) testArgs(pkg string) []string {
	args := []string{"test"}
	if r.BuildTags != "" {
		args = append(args, "-tags", r.BuildTags)
	}
	args = append(args, "-timeout", (2*time.Second + r.Timeout).String())
	args = append(args, "-failfast")
	if r.TestCPU != 0 {
		args = append(args, fmt.Sprintf("-cpu=%d", r.TestCPU))
	}
	args = append(args, pkg)

	return args
}

// buildArgs builds the argument list for the bare-compile check
// RunBuild performs before a test run is attempted.
func (r *GoTestRunner) buildArgs(pkg string) []string {
	args := []string{"build"}
	if r.BuildTags != "" {
		args = append(args, "-tags", r.BuildTags)
	}
	args = append(args, pkg)

	return args
}

// BaselineRunner runs the full, unmutated suite once per package to
// establish that it passes clean before any mutation is attempted —
// the orchestrator's phase 8.
type BaselineRunner interface {
	Baseline(ctx context.Context, dir, pkg string) error
}

// Baseline runs the package's test suite unmodified and reports a
// non-nil error if it fails, so the orchestrator can abort before
// wasting any mutation runs on a package that doesn't pass to begin
// with. It returns ErrNoTests, specifically, when the package built
// cleanly but the run exercised zero tests.
func (r *GoTestRunner) Baseline(ctx context.Context, dir, pkg string) error {
	o, output, err := r.runOnce(ctx, dir, pkg)
	if err != nil {
		return err
	}
	if o == outcome.Survived && noTestsRan(output) {
		return ErrNoTests
	}
	if o != outcome.Survived {
		return fmt.Errorf("runner: baseline for %s did not pass (%s)", pkg, o)
	}

	return nil
}
