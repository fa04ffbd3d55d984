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

// Package mutation discovers mutation sites in a single Go source file.
//
// Discover walks a syntax.Tree in pre-order (the same order go/ast.Walk
// visits nodes in) and, for every node shape a catalog Operator
// recognizes, emits a mutation.Site describing the byte span to replace
// and the replacement text. Discovery is a pure function of the tree's
// bytes: the same input always yields the same, byte-identical site list.
package mutation

import (
	"go/ast"
	"go/token"
)

// Discoverer finds mutation.Site values in a syntax.Tree.
type Discoverer struct {
	dict    Dictionary
	enabled func(Operator) bool
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithDictionary supplies the external identifier/literal substitution
// table driving TailoredIdentifierReplacement.
func WithDictionary(d Dictionary) Option {
	return func(dc *Discoverer) { dc.dict = d }
}

// WithEnabled restricts discovery to operators for which enabled
// returns true. A nil function (the default) enables every operator.
func WithEnabled(enabled func(Operator) bool) Option {
	return func(dc *Discoverer) { dc.enabled = enabled }
}

// NewDiscoverer builds a Discoverer.
func NewDiscoverer(opts ...Option) *Discoverer {
	d := &Discoverer{}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Discoverer) isEnabled(op Operator) bool {
	return d.enabled == nil || d.enabled(op)
}

// Discover returns every candidate Site in file, in pre-order traversal
// order with same-span ties broken by Operator catalog order.
func (d *Discoverer) Discover(src []byte, fset *token.FileSet, file *ast.File) []Site {
	w := &walker{d: d, src: src, fset: fset}
	ast.Walk(w, file)

	return w.sites
}

type walker struct {
	d         *Discoverer
	src       []byte
	fset      *token.FileSet
	sites     []Site
	funcStack []*ast.FieldList
}

func (w *walker) offset(pos token.Pos) int {
	return w.fset.Position(pos).Offset
}

func (w *walker) emit(op Operator, reportPos token.Pos, start, end int, mutated string) {
	if !w.d.isEnabled(op) {
		return
	}
	pos := w.fset.Position(reportPos)
	original := make([]byte, end-start)
	copy(original, w.src[start:end])
	if string(original) == mutated {
		return
	}
	w.sites = append(w.sites, Site{
		Operator:   op,
		Line:       pos.Line,
		Column:     pos.Column,
		UTF8Offset: start,
		UTF8Length: end - start,
		Original:   original,
		Mutated:    []byte(mutated),
	})
}

func (w *walker) emitToken(op Operator, tokPos token.Pos, tok token.Token, mutated token.Token) {
	start := w.offset(tokPos)
	end := start + len(tok.String())
	w.emit(op, tokPos, start, end, mutated.String())
}

// Visit implements ast.Visitor. It dispatches to the operator rules in
// catalog order for every node, in pre-order, and maintains a stack of
// enclosing function result lists for the return-related rules using
// go/ast.Walk's nil-on-exit convention.
func (w *walker) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		if len(w.funcStack) > 0 {
			w.funcStack = w.funcStack[:len(w.funcStack)-1]
		}

		return nil
	}

	switch node := n.(type) {
	case *ast.FuncDecl:
		w.funcStack = append(w.funcStack, node.Type.Results)
	case *ast.FuncLit:
		w.funcStack = append(w.funcStack, node.Type.Results)
	default:
		w.funcStack = append(w.funcStack, w.currentResults())
	}

	w.visitTokenOperators(n)
	w.visitLiteralOperators(n)
	w.visitStructuralOperators(n)

	return w
}

func (w *walker) currentResults() *ast.FieldList {
	if len(w.funcStack) == 0 {
		return nil
	}

	return w.funcStack[len(w.funcStack)-1]
}

// visitTokenOperators handles every operator that is a pure token
// swap at a fixed-width span: arithmetic, comparison, logical,
// bitwise, shift direction, compound assignment and loop control.
func (w *walker) visitTokenOperators(n ast.Node) {
	switch node := n.(type) {
	case *ast.BinaryExpr:
		if alts, ok := arithmeticSwaps[node.Op]; ok {
			for _, alt := range alts {
				w.emitToken(ArithmeticOperatorReplacement, node.OpPos, node.Op, alt)
			}
		}
		if alts, ok := comparisonSwaps[node.Op]; ok {
			for _, alt := range alts {
				w.emitToken(ComparisonOperatorReplacement, node.OpPos, node.Op, alt)
			}
		}
		if node.Op == token.LAND {
			w.emitToken(LogicalOperatorSwap, node.OpPos, node.Op, token.LOR)
		}
		if node.Op == token.LOR {
			w.emitToken(LogicalOperatorSwap, node.OpPos, node.Op, token.LAND)
		}
		if alts, ok := bitwiseSwaps[node.Op]; ok {
			for _, alt := range alts {
				w.emitToken(BitwiseOperatorSwap, node.OpPos, node.Op, alt)
			}
		}
		if alt, ok := shiftSwaps[node.Op]; ok {
			w.emitToken(ShiftDirectionSwap, node.OpPos, node.Op, alt)
		}
	case *ast.AssignStmt:
		if alt, ok := compoundAssignSwaps[node.Tok]; ok {
			w.emitToken(CompoundAssignmentSwap, node.TokPos, node.Tok, alt)
		}
	case *ast.BranchStmt:
		if alt, ok := loopControlSwaps[node.Tok]; ok {
			w.emitToken(LoopControlSwap, node.TokPos, node.Tok, alt)
		}
	}
}
