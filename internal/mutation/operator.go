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

package mutation

// Operator identifies the kind of edit a MutationSite represents. The
// enumeration is closed: adding a new kind of mutation means appending
// a constant here and a row to the Discoverer's dispatch table, nothing
// else needs to change shape.
type Operator int

// The full, closed catalog of mutation operators. Ordering here is also
// the tie-break order the Discoverer uses when more than one operator
// matches the same span.
const (
	ArithmeticOperatorReplacement Operator = iota
	ComparisonOperatorReplacement
	LogicalOperatorSwap
	BitwiseOperatorSwap
	ShiftDirectionSwap
	CompoundAssignmentSwap
	BooleanLiteralFlip
	UnaryNotRemoval
	UnarySignFlip
	NumericLiteralPerturbation
	ConstantBoundaryShift
	StringLiteralPerturbation
	ReturnValueReplacement
	ReturnStatementRemoval
	ConditionNegation
	RangeBoundSwap
	TryVariantSwap
	TernaryBranchSwap
	NilCoalescingRemoval
	StatementDeletion
	VoidCallRemoval
	CastStrengthSwap
	OptionalChainingRemoval
	ScopedCleanupRemoval
	LoopControlSwap
	StdlibSemanticSwap
	ConcurrencyContextSwap
	TailoredIdentifierReplacement
)

var operatorNames = map[Operator]string{
	ArithmeticOperatorReplacement: "ARITHMETIC_OPERATOR_REPLACEMENT",
	ComparisonOperatorReplacement: "COMPARISON_OPERATOR_REPLACEMENT",
	LogicalOperatorSwap:           "LOGICAL_OPERATOR_SWAP",
	BitwiseOperatorSwap:           "BITWISE_OPERATOR_SWAP",
	ShiftDirectionSwap:            "SHIFT_DIRECTION_SWAP",
	CompoundAssignmentSwap:        "COMPOUND_ASSIGNMENT_SWAP",
	BooleanLiteralFlip:            "BOOLEAN_LITERAL_FLIP",
	UnaryNotRemoval:               "UNARY_NOT_REMOVAL",
	UnarySignFlip:                 "UNARY_SIGN_FLIP",
	NumericLiteralPerturbation:    "NUMERIC_LITERAL_PERTURBATION",
	ConstantBoundaryShift:         "CONSTANT_BOUNDARY_SHIFT",
	StringLiteralPerturbation:     "STRING_LITERAL_PERTURBATION",
	ReturnValueReplacement:        "RETURN_VALUE_REPLACEMENT",
	ReturnStatementRemoval:        "RETURN_STATEMENT_REMOVAL",
	ConditionNegation:             "CONDITION_NEGATION",
	RangeBoundSwap:                "RANGE_BOUND_SWAP",
	TryVariantSwap:                "TRY_VARIANT_SWAP",
	TernaryBranchSwap:             "TERNARY_BRANCH_SWAP",
	NilCoalescingRemoval:          "NIL_COALESCING_REMOVAL",
	StatementDeletion:             "STATEMENT_DELETION",
	VoidCallRemoval:               "VOID_CALL_REMOVAL",
	CastStrengthSwap:              "CAST_STRENGTH_SWAP",
	OptionalChainingRemoval:       "OPTIONAL_CHAINING_REMOVAL",
	ScopedCleanupRemoval:          "SCOPED_CLEANUP_REMOVAL",
	LoopControlSwap:               "LOOP_CONTROL_SWAP",
	StdlibSemanticSwap:            "STDLIB_SEMANTIC_SWAP",
	ConcurrencyContextSwap:        "CONCURRENCY_CONTEXT_SWAP",
	TailoredIdentifierReplacement: "TAILORED_IDENTIFIER_REPLACEMENT",
}

// Operators lists every Operator in catalog order, for iteration (e.g.
// by the configuration package when building per-operator enabled keys).
var Operators = []Operator{
	ArithmeticOperatorReplacement,
	ComparisonOperatorReplacement,
	LogicalOperatorSwap,
	BitwiseOperatorSwap,
	ShiftDirectionSwap,
	CompoundAssignmentSwap,
	BooleanLiteralFlip,
	UnaryNotRemoval,
	UnarySignFlip,
	NumericLiteralPerturbation,
	ConstantBoundaryShift,
	StringLiteralPerturbation,
	ReturnValueReplacement,
	ReturnStatementRemoval,
	ConditionNegation,
	RangeBoundSwap,
	TryVariantSwap,
	TernaryBranchSwap,
	NilCoalescingRemoval,
	StatementDeletion,
	VoidCallRemoval,
	CastStrengthSwap,
	OptionalChainingRemoval,
	ScopedCleanupRemoval,
	LoopControlSwap,
	StdlibSemanticSwap,
	ConcurrencyContextSwap,
	TailoredIdentifierReplacement,
}

func (o Operator) String() string {
	if n, ok := operatorNames[o]; ok {
		return n
	}
	panic("this should not happen")
}
