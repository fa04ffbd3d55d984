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

package coverage_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mutantia/mutantia/internal/coverage"
)

type commandHolder struct {
	args []string
}

func TestRunnerGatherInvokesGoTestCover(t *testing.T) {
	holder := &commandHolder{}
	r := coverage.NewRunner("workdir", "tag1 tag2")
	r.ExecContext = fakeExecCommandSuccess(holder)

	_, _ = r.Gather(context.Background(), "./...", ".", "example.com")

	got := fmt.Sprintf("go %s", strings.Join(holder.args, " "))
	want := "go test -tags tag1 tag2 -cover -coverprofile workdir/coverage.out ./..."
	if !cmp.Equal(got, want) {
		t.Errorf("%s", cmp.Diff(got, want))
	}
}

func TestRunnerGatherFailsOnTestFailure(t *testing.T) {
	r := coverage.NewRunner("workdir", "")
	r.ExecContext = fakeExecCommandFailure()

	if _, err := r.Gather(context.Background(), "./...", ".", "example.com"); err == nil {
		t.Error("expected Gather to report an error")
	}
}

func TestCoverageProcessSuccess(_ *testing.T) {
	if os.Getenv("GO_TEST_PROCESS") != "1" {
		return
	}
	os.Exit(0) // skipcq: RVV-A0003
}

func TestCoverageProcessFailure(_ *testing.T) {
	if os.Getenv("GO_TEST_PROCESS") != "1" {
		return
	}
	os.Exit(1) // skipcq: RVV-A0003
}

func fakeExecCommandSuccess(got *commandHolder) coverage.ExecContext {
	return func(_ context.Context, command string, args ...string) *exec.Cmd {
		if got != nil {
			got.args = args
		}
		cs := []string{"-test.run=TestCoverageProcessSuccess", "--", command}
		cs = append(cs, args...)
		//nolint:gosec // test-only, not user input
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = []string{"GO_TEST_PROCESS=1"}

		return cmd
	}
}

func fakeExecCommandFailure() coverage.ExecContext {
	return func(_ context.Context, command string, args ...string) *exec.Cmd {
		cs := []string{"-test.run=TestCoverageProcessFailure", "--", command}
		cs = append(cs, args...)
		//nolint:gosec // test-only, not user input
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = []string{"GO_TEST_PROCESS=1"}

		return cmd
	}
}
