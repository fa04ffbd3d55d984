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

// Package orchestrator runs one file through the full discover,
// filter, baseline, mutate-and-test cycle. It is deliberately
// single-threaded: the Source File Manager it drives owns the one
// on-disk target file exclusively for the duration of Run, so at most
// one mutant can ever exist on disk at once. Concurrency across files
// is internal/fanout's job, not this package's.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"time"

	"github.com/mutantia/mutantia/internal/apply"
	"github.com/mutantia/mutantia/internal/coverage"
	"github.com/mutantia/mutantia/internal/equivalence"
	"github.com/mutantia/mutantia/internal/log"
	"github.com/mutantia/mutantia/internal/mutation"
	"github.com/mutantia/mutantia/internal/outcome"
	"github.com/mutantia/mutantia/internal/runner"
	"github.com/mutantia/mutantia/internal/sourcefile"
	"github.com/mutantia/mutantia/internal/syntax"
)

const (
	minBaselineTimeout = 30 * time.Second
	hardBaselineCap    = 600 * time.Second

	defaultTimeoutMultiplier = 3
	defaultTimeoutRetries    = 1
)

// buildFirstRunner is the optional split-build Runner extension: a
// Runner may implement it to let the Orchestrator compile each mutant
// on its own before running its tests, once the build-error ratio
// justifies the extra step.
type buildFirstRunner interface {
	RunBuild(ctx context.Context, dir, pkg string, timeout time.Duration) (outcome.Outcome, error)
	RunTestsWithoutBuild(ctx context.Context, dir, pkg string, timeout time.Duration) (outcome.Outcome, error)
}

// Orchestrator drives the Per-File Orchestrator algorithm over the
// collaborators it is built with.
type Orchestrator struct {
	testRunner       runner.TestRunner
	coverageProvider coverage.Provider
	progress         ProgressSink

	timeoutMultiplier    float64
	timeoutRetries       int
	buildFirstSampleSize int
	buildFirstErrorRatio float64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCoverage supplies the Coverage Provider collaborator used by
// the coverage filter phase. Omitting it disables coverage-based
// filtering entirely, same as a Provider that reports everything
// covered.
func WithCoverage(p coverage.Provider) Option {
	return func(o *Orchestrator) { o.coverageProvider = p }
}

// WithProgress supplies the Progress Sink collaborator. Omitting it
// leaves progress events undelivered.
func WithProgress(p ProgressSink) Option {
	return func(o *Orchestrator) { o.progress = p }
}

// WithTimeoutMultiplier overrides the factor applied to the baseline
// duration to derive each mutation's timeout (the default mirrors
// engine.DefaultTimeoutCoefficient).
func WithTimeoutMultiplier(m float64) Option {
	return func(o *Orchestrator) { o.timeoutMultiplier = m }
}

// WithTimeoutRetries overrides how many times a per-mutation timeout
// is retried before being recorded as Timeout.
func WithTimeoutRetries(n int) Option {
	return func(o *Orchestrator) { o.timeoutRetries = n }
}

// WithBuildFirst enables the build-first adaptive mode once
// processedMutations >= sampleSize and the build-error ratio observed
// so far is >= errorRatio. A sampleSize of 0 (the default) disables
// the mode regardless of the Runner's capabilities.
func WithBuildFirst(sampleSize int, errorRatio float64) Option {
	return func(o *Orchestrator) {
		o.buildFirstSampleSize = sampleSize
		o.buildFirstErrorRatio = errorRatio
	}
}

// New builds an Orchestrator around the required Test Runner
// collaborator.
func New(tr runner.TestRunner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		testRunner:        tr,
		progress:          NoopProgress{},
		timeoutMultiplier: defaultTimeoutMultiplier,
		timeoutRetries:    defaultTimeoutRetries,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run executes the full ten-phase cycle against req.SourcePath and
// returns the classification of every site the Discoverer found there.
func (o *Orchestrator) Run(ctx context.Context, req Request) (MutationReport, error) {
	mgr := sourcefile.New(req.SourcePath)

	// Phase 1: Recovery.
	if err := mgr.RestoreIfNeeded(); err != nil {
		return MutationReport{File: req.SourcePath}, newError(BackupRestoreFailed, req.SourcePath, err)
	}

	// Phase 2: Snapshot.
	if err := mgr.Backup(); err != nil {
		return MutationReport{File: req.SourcePath}, newError(SourceFileNotFound, req.SourcePath, err)
	}
	original := mgr.Original()

	tree, err := syntax.Parse(req.SourcePath, original)
	if tree == nil {
		_ = mgr.RestoreIfNeeded()

		return MutationReport{File: req.SourcePath}, newError(InvalidSourceFile, req.SourcePath, err)
	}
	if err != nil {
		// Best-effort tree: the Syntax Model tolerates syntactically
		// incomplete input rather than failing outright, so discovery
		// proceeds over whatever it could parse.
		log.Warnf("partial parse of %s, proceeding with best-effort tree: %v", req.SourcePath, err)
	}

	// Phase 3: Discover.
	d := mutation.NewDiscoverer(req.DiscovererOptions...)
	sites := d.Discover(tree.Source, tree.FileSet, tree.File)
	o.progress.CandidateSitesDiscovered(len(sites))

	// Phases 4-6: Filter (equivalence, lines, coverage).
	eq := equivalence.New(tree.FileSet, tree.File)
	classification := make([]outcome.Outcome, len(sites))
	runnable := 0
	coverageUsable := o.coverageProvider != nil
	for i, site := range sites {
		covered, covErr := true, error(nil)
		if coverageUsable {
			covered, covErr = o.coverageProvider.IsCovered(coveragePosition(req, site))
			if covErr != nil {
				// coverageDataUnavailable (spec §7): always recovered
				// locally — log once and keep every remaining site as
				// if no Coverage Provider were configured at all.
				log.Warnf("coverage data unavailable for %s: %v; skipping coverage filter", req.SourcePath, covErr)
				coverageUsable = false
				covered = true
			}
		}
		switch {
		case eq.IsEquivalent(site):
			classification[i] = outcome.Skipped
		case req.Lines != nil && !linesContains(req.Lines, site.Line):
			classification[i] = outcome.Skipped
		case coverageUsable && !covered:
			classification[i] = outcome.NotCovered
		default:
			classification[i] = -1
			runnable++
		}
	}

	// Phase 7: Early exit.
	if runnable == 0 {
		if err := mgr.RestoreIfNeeded(); err != nil {
			return MutationReport{File: req.SourcePath}, newError(BackupRestoreFailed, req.SourcePath, err)
		}

		return MutationReport{File: req.SourcePath, Results: o.recordAll(sites, classification)}, nil
	}

	// Phase 8: Baseline.
	baselineDuration, err := o.runBaseline(ctx, req)
	if err != nil {
		_ = mgr.RestoreIfNeeded()

		return MutationReport{File: req.SourcePath}, err
	}
	timeout := baselineDuration
	if m := time.Duration(float64(baselineDuration) * o.timeoutMultiplier); m > timeout {
		timeout = m
	}
	if timeout < minBaselineTimeout {
		timeout = minBaselineTimeout
	}

	// Phase 9: Mutation loop.
	bf := &buildFirstState{sampleSize: o.buildFirstSampleSize, errorRatio: o.buildFirstErrorRatio}
	results := make([]MutationResult, 0, len(sites))
	for i, site := range sites {
		if classification[i] != -1 {
			o.progress.MutationEvaluated(i+1, len(sites), site, classification[i])
			results = append(results, MutationResult{Site: site, Outcome: classification[i]})

			continue
		}

		oc, err := o.evaluate(ctx, mgr, original, site, req, timeout, bf)
		if err != nil {
			_ = mgr.RestoreIfNeeded()

			return MutationReport{File: req.SourcePath, Results: results, BaselineDuration: baselineDuration}, err
		}
		o.progress.MutationEvaluated(i+1, len(sites), site, oc)
		results = append(results, MutationResult{Site: site, Outcome: oc})
	}

	// Phase 10: Restore.
	if err := mgr.Restore(); err != nil {
		return MutationReport{File: req.SourcePath, Results: results, BaselineDuration: baselineDuration},
			newError(BackupRestoreFailed, req.SourcePath, err)
	}

	return MutationReport{File: req.SourcePath, Results: results, BaselineDuration: baselineDuration}, nil
}

func (o *Orchestrator) recordAll(sites []mutation.Site, classification []outcome.Outcome) []MutationResult {
	results := make([]MutationResult, 0, len(sites))
	for i, site := range sites {
		o.progress.MutationEvaluated(i+1, len(sites), site, classification[i])
		results = append(results, MutationResult{Site: site, Outcome: classification[i]})
	}

	return results
}

func (o *Orchestrator) runBaseline(ctx context.Context, req Request) (time.Duration, error) {
	baseliner, ok := o.testRunner.(runner.BaselineRunner)
	if !ok {
		return 0, newError(BaselineTestsFailed, req.PackagePath, fmt.Errorf("runner does not support baseline"))
	}

	o.progress.BaselineStarted("")

	runCtx, cancel := context.WithTimeout(ctx, hardBaselineCap)
	defer cancel()

	start := time.Now()
	err := baseliner.Baseline(runCtx, req.Dir, req.PackagePath)
	elapsed := time.Since(start)

	timedOut := runCtx.Err() == context.DeadlineExceeded
	o.progress.BaselineFinished(elapsed, timedOut)

	if err != nil {
		if errors.Is(err, runner.ErrNoTests) {
			return 0, newError(NoTestsExecuted, req.PackagePath, err)
		}

		return 0, newError(BaselineTestsFailed, req.PackagePath, err)
	}

	return elapsed, nil
}

// evaluate runs one runnable site through APPLY -> WRITE -> RUN_TESTS
// (with timeout retries) -> CLASSIFY -> RECORD, restoring the file to
// its original bytes before returning so the next site starts clean.
// A returned error means a Source File Manager failure occurred and
// the whole Run must abort; any other failure is folded into
// outcome.BuildError and the loop continues.
func (o *Orchestrator) evaluate(
	ctx context.Context,
	mgr *sourcefile.Manager,
	original []byte,
	site mutation.Site,
	req Request,
	timeout time.Duration,
	bf *buildFirstState,
) (outcome.Outcome, error) {
	mutated, err := apply.Apply(site, original)
	if err != nil {
		return outcome.BuildError, nil
	}
	if err := mgr.WriteMutated(mutated); err != nil {
		return outcome.BuildError, fmt.Errorf("orchestrator: writing mutation: %w", err)
	}

	var oc outcome.Outcome
	if bf.shouldUseBuildFirst(o.testRunner) {
		oc = o.runBuildFirst(ctx, req, timeout)
	} else {
		oc = o.runWithRetries(ctx, req, timeout)
	}

	if err := mgr.WriteMutated(original); err != nil {
		return oc, fmt.Errorf("orchestrator: restoring between mutations: %w", err)
	}

	bf.record(oc)

	return oc, nil
}

// runWithRetries implements the timeout-retry wrapper: any error from
// the Test Runner becomes BuildError immediately; a Timeout outcome is
// retried up to timeoutRetries times before being accepted as final.
func (o *Orchestrator) runWithRetries(ctx context.Context, req Request, timeout time.Duration) outcome.Outcome {
	for attempt := 0; ; attempt++ {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		oc, err := o.testRunner.Run(runCtx, req.Dir, req.PackagePath)
		cancel()
		if err != nil {
			return outcome.BuildError
		}
		if oc != outcome.Timeout || attempt >= o.timeoutRetries {
			return oc
		}
	}
}

func (o *Orchestrator) runBuildFirst(ctx context.Context, req Request, timeout time.Duration) outcome.Outcome {
	bfr, ok := o.testRunner.(buildFirstRunner)
	if !ok {
		return o.runWithRetries(ctx, req, timeout)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	built, err := bfr.RunBuild(runCtx, req.Dir, req.PackagePath, timeout)
	if err != nil {
		return outcome.BuildError
	}
	if built != outcome.Survived {
		return built
	}

	for attempt := 0; ; attempt++ {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		oc, err := bfr.RunTestsWithoutBuild(runCtx, req.Dir, req.PackagePath, timeout)
		cancel()
		if err != nil {
			return outcome.BuildError
		}
		if oc != outcome.Timeout || attempt >= o.timeoutRetries {
			return oc
		}
	}
}

// buildFirstState tracks the one-way build-first latch: once enough
// mutations have been processed with a high enough build-error ratio,
// the Orchestrator switches to running a separate build for every
// remaining mutant before its tests. The switch never reverts and
// never changes outcomes already recorded.
type buildFirstState struct {
	sampleSize  int
	errorRatio  float64
	processed   int
	buildErrors int
	active      bool
}

func (s *buildFirstState) shouldUseBuildFirst(runner.TestRunner) bool {
	return s.active
}

func (s *buildFirstState) record(oc outcome.Outcome) {
	s.processed++
	if oc == outcome.BuildError {
		s.buildErrors++
	}
	if !s.active && s.sampleSize > 0 && s.processed >= s.sampleSize {
		if float64(s.buildErrors)/float64(s.processed) >= s.errorRatio {
			s.active = true
		}
	}
}

func linesContains(lines map[int]struct{}, line int) bool {
	_, ok := lines[line]

	return ok
}

func coveragePosition(req Request, site mutation.Site) token.Position {
	filename := req.CoverageFile
	if filename == "" {
		filename = req.SourcePath
	}

	return token.Position{Filename: filename, Line: site.Line, Column: site.Column}
}
