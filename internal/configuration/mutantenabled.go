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

package configuration

import (
	"github.com/mutantia/mutantia/internal/mutation"
)

// operatorEnabled holds the default enabled/disabled state for every
// Operator. It must be kept up to date when adding new operators. A
// handful of the more destructive operators — whole-statement and
// whole-return deletion — default to off: their mutants are
// disproportionately likely to be equivalent noise rather than a real
// gap in coverage.
var operatorEnabled = map[mutation.Operator]bool{
	mutation.ArithmeticOperatorReplacement: true,
	mutation.ComparisonOperatorReplacement: true,
	mutation.LogicalOperatorSwap:           true,
	mutation.BitwiseOperatorSwap:           true,
	mutation.ShiftDirectionSwap:            true,
	mutation.CompoundAssignmentSwap:        true,
	mutation.BooleanLiteralFlip:            true,
	mutation.UnaryNotRemoval:               true,
	mutation.UnarySignFlip:                 true,
	mutation.NumericLiteralPerturbation:    true,
	mutation.ConstantBoundaryShift:         true,
	mutation.StringLiteralPerturbation:     true,
	mutation.ReturnValueReplacement:        true,
	mutation.ReturnStatementRemoval:        false,
	mutation.ConditionNegation:             true,
	mutation.RangeBoundSwap:                true,
	mutation.TryVariantSwap:                true,
	mutation.TernaryBranchSwap:             true,
	mutation.NilCoalescingRemoval:          true,
	mutation.StatementDeletion:             false,
	mutation.VoidCallRemoval:               false,
	mutation.CastStrengthSwap:              true,
	mutation.OptionalChainingRemoval:       true,
	mutation.ScopedCleanupRemoval:          true,
	mutation.LoopControlSwap:               true,
	mutation.StdlibSemanticSwap:            true,
	mutation.ConcurrencyContextSwap:        false,
	mutation.TailoredIdentifierReplacement: true,
}

// IsDefaultEnabled returns the default enabled/disabled state of an
// Operator, consulted when no explicit configuration value overrides
// it via OperatorEnabledKey.
func IsDefaultEnabled(op mutation.Operator) bool {
	return operatorEnabled[op]
}
