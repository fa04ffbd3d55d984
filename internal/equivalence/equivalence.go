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

// Package equivalence filters out mutation.Site values that are
// syntactically guaranteed to be behaviourally equivalent to the
// program they were discovered in, so the orchestrator never wastes a
// test run proving what static analysis already knows.
package equivalence

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/mutantia/mutantia/internal/mutation"
)

// Filter inspects a mutation.Site against the syntax.Tree it was found
// in and reports whether the mutation is known to be equivalent to the
// original program (and so should be dropped before ever reaching a
// test run).
type Filter struct {
	fset *token.FileSet
	file *ast.File
}

// New builds a Filter over a parsed file.
func New(fset *token.FileSet, file *ast.File) *Filter {
	return &Filter{fset: fset, file: file}
}

// IsEquivalent reports whether site is a known no-op mutation.
func (f *Filter) IsEquivalent(site mutation.Site) bool {
	switch site.Operator {
	case mutation.ArithmeticOperatorReplacement:
		return f.arithmeticNoOp(site)
	case mutation.RangeBoundSwap:
		return f.singleElementRange(site)
	case mutation.BooleanLiteralFlip:
		return f.deadControlFlow(site)
	case mutation.UnarySignFlip:
		return f.signFlipOnZero(site)
	case mutation.StatementDeletion, mutation.VoidCallRemoval:
		return f.emptyBlockDeletion(site)
	default:
		return false
	}
}

// arithmeticNoOp catches `x * 1 -> x / 1`-style swaps between two
// operators that happen to agree on the identity element already
// present in the source, e.g. `x + 0` swapped to `x - 0`. The identity
// literal must be the right-hand operand (`0 - x` is not `0 + x`): a bare `+ -> -`
// swap on non-identity operands is a real, observable mutation and must
// not be dropped here (spec.md S1/S2 depend on it surviving to a test
// run).
func (f *Filter) arithmeticNoOp(site mutation.Site) bool {
	original := strings.TrimSpace(string(site.Original))
	mutated := strings.TrimSpace(string(site.Mutated))

	additive := map[string]bool{"+": true, "-": true}
	multiplicative := map[string]bool{"*": true, "/": true}

	var identity string
	switch {
	case additive[original] && additive[mutated]:
		identity = "0"
	case multiplicative[original] && multiplicative[mutated]:
		identity = "1"
	default:
		return false
	}

	be := f.binaryExprAt(site.UTF8Offset)
	if be == nil {
		return false
	}

	return isIntLiteral(be.Y, identity)
}

// binaryExprAt finds the *ast.BinaryExpr in f.file whose operator token
// starts at the given byte offset, so arithmeticNoOp can inspect the
// operands a site's token-only span doesn't carry.
func (f *Filter) binaryExprAt(offset int) *ast.BinaryExpr {
	var found *ast.BinaryExpr
	ast.Inspect(f.file, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if be, ok := n.(*ast.BinaryExpr); ok && f.fset.Position(be.OpPos).Offset == offset {
			found = be

			return false
		}

		return true
	})

	return found
}

func isIntLiteral(e ast.Expr, value string) bool {
	lit, ok := e.(*ast.BasicLit)

	return ok && lit.Kind == token.INT && lit.Value == value
}

// singleElementRange drops a low:high swap when the bounds are
// syntactically identical (`s[i:i]` swapped is still `s[i:i]`).
func (f *Filter) singleElementRange(site mutation.Site) bool {
	original := string(site.Original)
	parts := strings.SplitN(original, ":", 2)
	if len(parts) != 2 {
		return false
	}

	return strings.TrimSpace(parts[0]) == strings.TrimSpace(parts[1])
}

// deadControlFlow is the dead-control-flow rule for boolean-literal
// flips. It never reports a site as equivalent: no dead-branch shape,
// nested or direct, is detected.
func (f *Filter) deadControlFlow(mutation.Site) bool {
	return false
}

// signFlipOnZero drops `-0` produced by removing a unary minus applied
// to the literal zero: `-0 == 0` for every numeric type Go has.
func (f *Filter) signFlipOnZero(site mutation.Site) bool {
	return strings.TrimSpace(string(site.Mutated)) == "0"
}

// emptyBlockDeletion drops a statement deletion/void-call removal when
// the statement was already a no-op (an empty block or a call to a
// function with no observable side effects is outside this filter's
// syntactic reach, but a literal empty statement is not).
func (f *Filter) emptyBlockDeletion(site mutation.Site) bool {
	return strings.TrimSpace(string(site.Original)) == ";"
}
