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

// Package outcome holds the closed vocabulary a mutation test run
// classifies a mutation.Site into.
package outcome

// Outcome is the result of running the test suite against one applied
// mutation.
type Outcome int

const (
	// NotCovered means the mutated span has no test coverage, so no
	// test run was ever attempted.
	NotCovered Outcome = iota
	// Skipped means the site was excluded before a test run, either by
	// the equivalence filter, a diff restriction, or configuration.
	Skipped
	// Killed means the test suite failed with the mutation applied —
	// the desired outcome.
	Killed
	// Survived means the test suite passed with the mutation applied.
	Survived
	// Timeout means the test run did not complete within the allotted
	// time and was aborted.
	Timeout
	// BuildError means the mutated source failed to compile.
	BuildError
)

func (o Outcome) String() string {
	switch o {
	case NotCovered:
		return "NOT COVERED"
	case Skipped:
		return "SKIPPED"
	case Killed:
		return "KILLED"
	case Survived:
		return "SURVIVED"
	case Timeout:
		return "TIMED OUT"
	case BuildError:
		return "BUILD ERROR"
	default:
		return "UNKNOWN"
	}
}

// Counted reports whether o comes from an attempted test run:
// NotCovered and Skipped sites are never run. It is not the
// kill-percentage denominator, which also leaves out BuildError.
func (o Outcome) Counted() bool {
	return o != NotCovered && o != Skipped
}
