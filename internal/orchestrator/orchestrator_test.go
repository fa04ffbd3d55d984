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

package orchestrator_test

import (
	"context"
	"errors"
	"go/token"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mutantia/mutantia/internal/coverage"
	"github.com/mutantia/mutantia/internal/mutation"
	"github.com/mutantia/mutantia/internal/orchestrator"
	"github.com/mutantia/mutantia/internal/outcome"
	"github.com/mutantia/mutantia/internal/runner"
)

// boolFixture yields exactly one site: the flip of its true literal.
const boolFixture = "package sample\n\nvar Always = true\n"

const addFixture = "package sample\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"

func writeFixture(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.go")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// fakeRunner is a scriptable runner.TestRunner/runner.BaselineRunner
// double: each call to Run consumes the next entry of script (or
// repeats the last one once the script is exhausted).
type fakeRunner struct {
	script      []outcome.Outcome
	calls       int
	baselineErr error
}

func (f *fakeRunner) Run(_ context.Context, _, _ string) (outcome.Outcome, error) {
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++

	return f.script[idx], nil
}

func (f *fakeRunner) Baseline(context.Context, string, string) error {
	return f.baselineErr
}

type fakeCoverage struct {
	covered bool
	err     error
}

func (c fakeCoverage) IsCovered(token.Position) (bool, error) {
	return c.covered, c.err
}

func TestRun_ClassifiesDiscoveredSites(t *testing.T) {
	path := writeFixture(t, boolFixture)
	original, _ := os.ReadFile(path)

	fr := &fakeRunner{script: []outcome.Outcome{outcome.Killed}}
	o := orchestrator.New(fr)

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("expected 1 classified site, got %d", len(report.Results))
	}
	if got := report.Results[0].Outcome; got != outcome.Killed {
		t.Errorf("expected Killed, got %s", got)
	}

	after, _ := os.ReadFile(path)
	if string(after) != string(original) {
		t.Errorf("expected file to be restored to its original contents")
	}
}

func TestRun_LinesRestrictionSkipsAndEarlyExits(t *testing.T) {
	path := writeFixture(t, boolFixture)

	fr := &fakeRunner{script: []outcome.Outcome{outcome.Killed}}
	o := orchestrator.New(fr)

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
		Lines:       map[int]struct{}{9999: {}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Outcome != outcome.Skipped {
		t.Fatalf("expected a single Skipped result, got %+v", report.Results)
	}
	if fr.calls != 0 {
		t.Errorf("expected baseline/test runner never called when every site is filtered out, got %d calls", fr.calls)
	}
}

func TestRun_CoverageFilterMarksNotCovered(t *testing.T) {
	path := writeFixture(t, boolFixture)

	fr := &fakeRunner{script: []outcome.Outcome{outcome.Killed}}
	o := orchestrator.New(fr, orchestrator.WithCoverage(fakeCoverage{covered: false}))

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Outcome != outcome.NotCovered {
		t.Fatalf("expected a single NotCovered result, got %+v", report.Results)
	}
	if fr.calls != 0 {
		t.Errorf("expected no test runs when coverage filter drops every site, got %d calls", fr.calls)
	}
}

func TestRun_CoverageProviderErrorSkipsFilter(t *testing.T) {
	path := writeFixture(t, boolFixture)

	fr := &fakeRunner{script: []outcome.Outcome{outcome.Killed}}
	o := orchestrator.New(fr, orchestrator.WithCoverage(fakeCoverage{covered: false, err: errors.New("no coverage data")}))

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Outcome != outcome.Killed {
		t.Fatalf("expected coverage filter to be skipped entirely when the provider errors, got %+v", report.Results)
	}
	if fr.calls == 0 {
		t.Errorf("expected the site to still be tested when coverage data is unavailable")
	}
}

func TestRun_BaselineFailureIsSurfaced(t *testing.T) {
	path := writeFixture(t, boolFixture)

	fr := &fakeRunner{baselineErr: errors.New("boom")}
	o := orchestrator.New(fr)

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	var oe *orchestrator.Error
	if !errors.As(err, &oe) {
		t.Fatalf("expected an *orchestrator.Error, got %T", err)
	}
	if oe.Kind != orchestrator.BaselineTestsFailed {
		t.Errorf("expected BaselineTestsFailed, got %s", oe.Kind)
	}
	if len(report.Results) != 0 {
		t.Errorf("expected no results recorded after a baseline failure")
	}
}

// TestRun_NoTestsExecutedIsSurfacedDistinctly covers spec.md §4.6 phase
// 8's split: a baseline that ran zero tests must not be reported as an
// ordinary BaselineTestsFailed.
func TestRun_NoTestsExecutedIsSurfacedDistinctly(t *testing.T) {
	path := writeFixture(t, boolFixture)

	fr := &fakeRunner{baselineErr: runner.ErrNoTests}
	o := orchestrator.New(fr)

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	var oe *orchestrator.Error
	if !errors.As(err, &oe) {
		t.Fatalf("expected an *orchestrator.Error, got %T", err)
	}
	if oe.Kind != orchestrator.NoTestsExecuted {
		t.Errorf("expected NoTestsExecuted, got %s", oe.Kind)
	}
	if len(report.Results) != 0 {
		t.Errorf("expected no results recorded after a baseline with no tests")
	}
}

func TestRun_TimeoutIsRetried(t *testing.T) {
	path := writeFixture(t, boolFixture)

	fr := &fakeRunner{script: []outcome.Outcome{outcome.Timeout, outcome.Killed}}
	o := orchestrator.New(fr, orchestrator.WithTimeoutRetries(1))

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Outcome != outcome.Killed {
		t.Fatalf("expected the retry to produce Killed, got %+v", report.Results)
	}
	// Baseline goes through fr.Baseline, not fr.Run, so fr.calls only
	// counts the two Run attempts: the timeout and its retry.
	if fr.calls != 2 {
		t.Errorf("expected 2 runner Run calls (timeout + retry), got %d", fr.calls)
	}
}

func TestRun_MultipleSitesAllEvaluated(t *testing.T) {
	path := writeFixture(t, addFixture)

	fr := &fakeRunner{script: []outcome.Outcome{outcome.Survived}}
	o := orchestrator.New(fr)

	report, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) == 0 {
		t.Fatal("expected at least one discovered arithmetic mutation site")
	}
	for _, r := range report.Results {
		if r.Outcome != outcome.Survived {
			t.Errorf("expected every site to survive, got %s for %+v", r.Outcome, r.Site)
		}
	}
}

func TestRun_ProgressEventsInDiscoveryOrder(t *testing.T) {
	path := writeFixture(t, addFixture)
	fr := &fakeRunner{script: []outcome.Outcome{outcome.Killed}}

	var gotIndexes []int
	sink := &recordingSink{onEvaluated: func(index, _ int, _ mutation.Site, _ outcome.Outcome) {
		gotIndexes = append(gotIndexes, index)
	}}
	o := orchestrator.New(fr, orchestrator.WithProgress(sink))

	_, err := o.Run(context.Background(), orchestrator.Request{
		SourcePath:  path,
		PackagePath: "example.com/sample",
		Dir:         filepath.Dir(path),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, idx := range gotIndexes {
		if idx != i+1 {
			t.Fatalf("expected strictly increasing 1-based indexes, got %v", gotIndexes)
		}
	}
}

// recordingSink adapts a closure to orchestrator.ProgressSink for
// tests that only care about one event kind.
type recordingSink struct {
	onEvaluated func(index, total int, site mutation.Site, o outcome.Outcome)
}

func (recordingSink) CandidateSitesDiscovered(int)         {}
func (recordingSink) BaselineStarted(string)               {}
func (recordingSink) BaselineFinished(time.Duration, bool) {}

func (s *recordingSink) MutationEvaluated(index, total int, site mutation.Site, o outcome.Outcome) {
	s.onEvaluated(index, total, site, o)
}

var _ coverage.Provider = fakeCoverage{}
