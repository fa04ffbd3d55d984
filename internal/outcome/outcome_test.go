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

package outcome_test

import (
	"testing"

	"github.com/mutantia/mutantia/internal/outcome"
)

func TestString(t *testing.T) {
	testCases := []struct {
		o    outcome.Outcome
		want string
	}{
		{outcome.NotCovered, "NOT COVERED"},
		{outcome.Skipped, "SKIPPED"},
		{outcome.Killed, "KILLED"},
		{outcome.Survived, "SURVIVED"},
		{outcome.Timeout, "TIMED OUT"},
		{outcome.BuildError, "BUILD ERROR"},
		{outcome.Outcome(99), "UNKNOWN"},
	}
	for _, tc := range testCases {
		if got := tc.o.String(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestCounted(t *testing.T) {
	testCases := []struct {
		o    outcome.Outcome
		want bool
	}{
		{outcome.NotCovered, false},
		{outcome.Skipped, false},
		{outcome.Killed, true},
		{outcome.Survived, true},
		{outcome.Timeout, true},
		{outcome.BuildError, true},
	}
	for _, tc := range testCases {
		if got := tc.o.Counted(); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.o, tc.want, got)
		}
	}
}
