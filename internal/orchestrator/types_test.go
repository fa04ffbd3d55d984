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
	"testing"

	"github.com/mutantia/mutantia/internal/orchestrator"
	"github.com/mutantia/mutantia/internal/outcome"
)

func TestMutationReport_KillPercentage_EmptyDenominatorIsHundred(t *testing.T) {
	r := orchestrator.MutationReport{}
	if got := r.KillPercentage(); got != 100.0 {
		t.Errorf("expected 100.0 for an empty report, got %v", got)
	}

	onlySkipped := orchestrator.MutationReport{Results: []orchestrator.MutationResult{
		{Outcome: outcome.Skipped},
		{Outcome: outcome.NotCovered},
	}}
	if got := onlySkipped.KillPercentage(); got != 100.0 {
		t.Errorf("expected 100.0 when killed+survived+timeout==0, got %v", got)
	}
}

// TestMutationReport_KillPercentage_S1 mirrors spec scenario S1: four
// arithmetic swaps on add(a,b int) int, every one killed.
func TestMutationReport_KillPercentage_S1(t *testing.T) {
	r := orchestrator.MutationReport{Results: []orchestrator.MutationResult{
		{Outcome: outcome.Killed},
		{Outcome: outcome.Killed},
		{Outcome: outcome.Killed},
		{Outcome: outcome.Killed},
	}}
	if got := r.KillPercentage(); got != 100.0 {
		t.Errorf("expected 100.0, got %v", got)
	}
	if r.TotalMutations() != 4 {
		t.Errorf("expected 4 total mutations, got %d", r.TotalMutations())
	}
}

// TestMutationReport_KillPercentage_S2 mirrors spec scenario S2: one
// survivor out of four, 75%.
func TestMutationReport_KillPercentage_S2(t *testing.T) {
	r := orchestrator.MutationReport{Results: []orchestrator.MutationResult{
		{Outcome: outcome.Survived},
		{Outcome: outcome.Killed},
		{Outcome: outcome.Killed},
		{Outcome: outcome.Killed},
	}}
	if got := r.KillPercentage(); got != 75.0 {
		t.Errorf("expected 75.0, got %v", got)
	}
}

func TestMutationReport_KillPercentage_TimeoutCountsAsKilled(t *testing.T) {
	r := orchestrator.MutationReport{Results: []orchestrator.MutationResult{
		{Outcome: outcome.Timeout},
		{Outcome: outcome.Survived},
	}}
	if got := r.KillPercentage(); got != 50.0 {
		t.Errorf("expected 50.0 (timeout counts toward killed), got %v", got)
	}
}
