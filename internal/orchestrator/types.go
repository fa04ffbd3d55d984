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

package orchestrator

import (
	"time"

	"github.com/mutantia/mutantia/internal/mutation"
	"github.com/mutantia/mutantia/internal/outcome"
)

// MutationResult pairs one discovered mutation.Site with the Outcome
// its test run (or pre-run filtering) produced.
type MutationResult struct {
	Site    mutation.Site
	Outcome outcome.Outcome
}

// MutationReport is everything one Run call over a single source file
// produces: the classified sites, in discovery order, and the baseline
// duration that seeded every per-mutation timeout.
type MutationReport struct {
	File             string
	Results          []MutationResult
	BaselineDuration time.Duration
}

// counts tallies how many Results fall into each Outcome.
func (r MutationReport) counts() (killed, survived, timeout int) {
	for _, res := range r.Results {
		switch res.Outcome {
		case outcome.Killed:
			killed++
		case outcome.Survived:
			survived++
		case outcome.Timeout:
			timeout++
		}
	}

	return killed, survived, timeout
}

// KillPercentage is the report's derived effectiveness counter:
// (killed + timeout) / (killed + survived + timeout) * 100, reporting
// 100.0 when the denominator is zero (no mutant was ever put in a
// position to survive).
func (r MutationReport) KillPercentage() float64 {
	killed, survived, timeout := r.counts()
	denom := killed + survived + timeout
	if denom == 0 {
		return 100.0
	}

	return float64(killed+timeout) / float64(denom) * 100
}

// TotalMutations is every classified site, regardless of Outcome —
// the denominator invariant §8.6 checks against killed+survived+
// timeout+buildError+skipped (NotCovered is folded into skipped here,
// since both mean "never run").
func (r MutationReport) TotalMutations() int {
	return len(r.Results)
}

// Request describes the one file a Run call processes.
type Request struct {
	// SourcePath is the absolute path to the file on disk.
	SourcePath string
	// PackagePath is the Go import path of the file's package.
	PackagePath string
	// Dir is the working directory `go test` is run from — normally
	// the module root.
	Dir string
	// CoverageFile is the path used to look up coverage data for this
	// source file, when it differs from SourcePath (e.g. a coverage
	// Profile keyed by module-relative path). Defaults to SourcePath.
	CoverageFile string
	// Lines, if non-nil, restricts mutation to sites whose Line is a
	// member; typically built from an internal/diff.Diff. A nil map
	// means no restriction.
	Lines map[int]struct{}
	// DiscovererOptions configures the mutation.Discoverer — e.g.
	// mutation.WithDictionary or mutation.WithEnabled.
	DiscovererOptions []mutation.Option
}

// ProgressSink receives the four lifecycle events a Run call emits.
// All methods are optional to implement meaningfully — a Sink that
// drops every event is a valid, silent Sink.
type ProgressSink interface {
	CandidateSitesDiscovered(count int)
	BaselineStarted(filter string)
	BaselineFinished(duration time.Duration, timedOut bool)
	MutationEvaluated(index, total int, site mutation.Site, o outcome.Outcome)
}

// NoopProgress is a ProgressSink that does nothing, used when a caller
// does not supply one.
type NoopProgress struct{}

func (NoopProgress) CandidateSitesDiscovered(int)                      {}
func (NoopProgress) BaselineStarted(string)                            {}
func (NoopProgress) BaselineFinished(time.Duration, bool)              {}
func (NoopProgress) MutationEvaluated(int, int, mutation.Site, outcome.Outcome) {}
