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

import (
	"go/ast"
	"go/token"
)

// visitStructuralOperators handles every operator whose replacement text
// depends on the shape of a whole statement or expression rather than a
// single token, plus the return-related and dictionary-driven operators.
func (w *walker) visitStructuralOperators(n ast.Node) {
	switch node := n.(type) {
	case *ast.IfStmt:
		w.conditionNegation(node)
		w.optionalChainingRemoval(node)
		w.ternaryBranchSwap(node)
	case *ast.SliceExpr:
		w.rangeBoundSwap(node)
	case *ast.AssignStmt:
		w.tryVariantSwap(node)
		w.statementDeletion(node)
	case *ast.CallExpr:
		w.nilCoalescingRemoval(node)
		w.castStrengthSwap(node)
		if id, ok := node.Fun.(*ast.Ident); ok && (id.Name == "min" || id.Name == "max") {
			w.emit(StdlibSemanticSwap, id.Pos(), w.offset(id.Pos()), w.offset(id.End()), stdlibSemanticPairs[id.Name])
		}
	case *ast.ExprStmt:
		w.voidCallRemoval(node)
	case *ast.SelectorExpr:
		w.stdlibSemanticSwap(node)
	case *ast.DeferStmt:
		w.scopedCleanupRemoval(node)
	case *ast.GoStmt:
		w.concurrencyContextSwap(node)
	case *ast.ReturnStmt:
		w.returnValueReplacement(node)
		w.returnStatementRemoval(node)
	case *ast.Ident:
		w.tailoredIdentifierReplacement(node)
	case *ast.BasicLit:
		w.tailoredLiteralReplacement(node)
	}
}

func (w *walker) text(n ast.Node) string {
	return string(w.src[w.offset(n.Pos()):w.offset(n.End())])
}

// conditionNegation negates an if-condition in place, replacing `cond`
// with `!(cond)`.
func (w *walker) conditionNegation(ifs *ast.IfStmt) {
	start := w.offset(ifs.Cond.Pos())
	end := w.offset(ifs.Cond.End())
	w.emit(ConditionNegation, ifs.Cond.Pos(), start, end, "!("+w.text(ifs.Cond)+")")
}

// ternaryBranchSwap is Go's analog of swapping a ternary's two branches:
// swap the then- and else-blocks of an if/else whose else is a plain
// block (not an else-if chain), per SPEC_FULL.md §0's mapping table.
func (w *walker) ternaryBranchSwap(ifs *ast.IfStmt) {
	elseBlock, ok := ifs.Else.(*ast.BlockStmt)
	if !ok {
		return
	}
	start := w.offset(ifs.Body.Pos())
	end := w.offset(elseBlock.End())
	mutated := w.text(elseBlock) + " else " + w.text(ifs.Body)
	w.emit(TernaryBranchSwap, ifs.Body.Pos(), start, end, mutated)
}

// optionalChainingRemoval drops a `if x != nil { ... }` guard with no
// else, splicing the guarded body in unwrapped — Go's analog of removing
// an optional-chaining null check, per SPEC_FULL.md §0.
func (w *walker) optionalChainingRemoval(ifs *ast.IfStmt) {
	if ifs.Else != nil {
		return
	}
	bin, ok := ifs.Cond.(*ast.BinaryExpr)
	if !ok || bin.Op != token.NEQ {
		return
	}
	if !isNilIdent(bin.X) && !isNilIdent(bin.Y) {
		return
	}

	start := w.offset(ifs.Pos())
	end := w.offset(ifs.End())
	mutated := ""
	if len(ifs.Body.List) > 0 {
		first, last := ifs.Body.List[0], ifs.Body.List[len(ifs.Body.List)-1]
		mutated = string(w.src[w.offset(first.Pos()):w.offset(last.End())])
	}
	w.emit(OptionalChainingRemoval, ifs.Pos(), start, end, mutated)
}

func isNilIdent(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)

	return ok && id.Name == "nil"
}

// rangeBoundSwap swaps the low and high bounds of a two-index slice
// expression, Go's analog of a range-bound swap.
func (w *walker) rangeBoundSwap(sl *ast.SliceExpr) {
	if sl.Low == nil || sl.High == nil || sl.Slice3 {
		return
	}
	start := w.offset(sl.Low.Pos())
	end := w.offset(sl.High.End())
	mutated := w.text(sl.High) + ":" + w.text(sl.Low)
	w.emit(RangeBoundSwap, sl.Low.Pos(), start, end, mutated)
}

// tryVariantSwap is the comma-ok analog of a try/try? swap: a bare type
// assertion that panics on failure is rewritten to its comma-ok,
// non-panicking form and vice versa, per SPEC_FULL.md §0.
func (w *walker) tryVariantSwap(as *ast.AssignStmt) {
	if as.Tok != token.DEFINE {
		return
	}
	start := w.offset(as.Pos())
	end := w.offset(as.End())

	switch {
	case len(as.Lhs) == 1 && len(as.Rhs) == 1:
		if _, ok := as.Rhs[0].(*ast.TypeAssertExpr); !ok {
			return
		}
		mutated := w.text(as.Lhs[0]) + ", _ := " + w.text(as.Rhs[0])
		w.emit(TryVariantSwap, as.Pos(), start, end, mutated)
	case len(as.Lhs) == 2 && len(as.Rhs) == 1:
		if _, ok := as.Rhs[0].(*ast.TypeAssertExpr); !ok {
			return
		}
		mutated := w.text(as.Lhs[0]) + " := " + w.text(as.Rhs[0])
		w.emit(TryVariantSwap, as.Pos(), start, end, mutated)
	}
}

// statementDeletion deletes a plain assignment statement outright.
func (w *walker) statementDeletion(as *ast.AssignStmt) {
	if as.Tok != token.ASSIGN {
		return
	}
	start := w.offset(as.Pos())
	end := w.offset(as.End())
	w.emit(StatementDeletion, as.Pos(), start, end, "")
}

// voidCallRemoval deletes a statement that calls a function purely for
// its side effect, discarding the call entirely.
func (w *walker) voidCallRemoval(es *ast.ExprStmt) {
	if _, ok := es.X.(*ast.CallExpr); !ok {
		return
	}
	start := w.offset(es.Pos())
	end := w.offset(es.End())
	w.emit(VoidCallRemoval, es.Pos(), start, end, "")
}

// nilCoalescingRemoval drops the fallback argument of a cmp.Or call,
// Go's analog of removing a nil-coalescing operator.
func (w *walker) nilCoalescingRemoval(call *ast.CallExpr) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != "cmp" || sel.Sel.Name != "Or" || len(call.Args) == 0 {
		return
	}
	start := w.offset(call.Pos())
	end := w.offset(call.End())
	w.emit(NilCoalescingRemoval, call.Pos(), start, end, w.text(call.Args[0]))
}

// castStrengthSwap swaps a numeric conversion for its other-width pair,
// e.g. int32(x) <-> int64(x).
func (w *walker) castStrengthSwap(call *ast.CallExpr) {
	id, ok := call.Fun.(*ast.Ident)
	if !ok || len(call.Args) != 1 {
		return
	}
	alt, ok := castStrengthPairs[id.Name]
	if !ok {
		return
	}
	start := w.offset(id.Pos())
	end := w.offset(id.End())
	w.emit(CastStrengthSwap, id.Pos(), start, end, alt)
}

// stdlibSemanticSwap swaps a selector's final identifier for its paired
// "opposite" stdlib/builtin identifier, e.g. strings.HasPrefix <->
// strings.HasSuffix.
func (w *walker) stdlibSemanticSwap(sel *ast.SelectorExpr) {
	alt, ok := stdlibSemanticPairs[sel.Sel.Name]
	if !ok {
		return
	}
	start := w.offset(sel.Sel.Pos())
	end := w.offset(sel.Sel.End())
	w.emit(StdlibSemanticSwap, sel.Sel.Pos(), start, end, alt)
}

// scopedCleanupRemoval deletes a defer statement outright, Go's analog
// of removing scoped-cleanup code.
func (w *walker) scopedCleanupRemoval(d *ast.DeferStmt) {
	start := w.offset(d.Pos())
	end := w.offset(d.End())
	w.emit(ScopedCleanupRemoval, d.Pos(), start, end, "")
}

// concurrencyContextSwap removes the "go" keyword from a go statement,
// collapsing an asynchronous call into a synchronous one.
func (w *walker) concurrencyContextSwap(g *ast.GoStmt) {
	start := w.offset(g.Pos())
	end := w.offset(g.Call.Pos())
	w.emit(ConcurrencyContextSwap, g.Pos(), start, end, "")
}

// returnValueReplacement replaces each result expression of a return
// statement with the zero value of its declared result type, when the
// enclosing function's result types are syntactically known.
func (w *walker) returnValueReplacement(ret *ast.ReturnStmt) {
	fl := w.currentResults()
	if fl == nil || len(ret.Results) == 0 {
		return
	}
	types := flattenFieldTypes(fl)
	if len(types) != len(ret.Results) {
		return
	}
	for i, expr := range ret.Results {
		zero, ok := zeroValueText(types[i])
		if !ok {
			continue
		}
		start := w.offset(expr.Pos())
		end := w.offset(expr.End())
		w.emit(ReturnValueReplacement, expr.Pos(), start, end, zero)
	}
}

// returnStatementRemoval deletes a return statement outright.
func (w *walker) returnStatementRemoval(ret *ast.ReturnStmt) {
	start := w.offset(ret.Pos())
	end := w.offset(ret.End())
	w.emit(ReturnStatementRemoval, ret.Pos(), start, end, "")
}

func flattenFieldTypes(fl *ast.FieldList) []ast.Expr {
	var out []ast.Expr
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			out = append(out, f.Type)

			continue
		}
		for range f.Names {
			out = append(out, f.Type)
		}
	}

	return out
}

// tailoredIdentifierReplacement substitutes an identifier per the
// externally supplied Dictionary.
func (w *walker) tailoredIdentifierReplacement(id *ast.Ident) {
	alt, ok := w.d.dict.identifierReplacement(id.Name)
	if !ok {
		return
	}
	// The declaring occurrence of a name is not substituted.
	if id.Obj != nil && id.Obj.Pos() == id.Pos() {
		return
	}
	start := w.offset(id.Pos())
	end := w.offset(id.End())
	w.emit(TailoredIdentifierReplacement, id.Pos(), start, end, alt)
}

// tailoredLiteralReplacement substitutes a literal's verbatim source
// text per the externally supplied Dictionary.
func (w *walker) tailoredLiteralReplacement(lit *ast.BasicLit) {
	alt, ok := w.d.dict.literalReplacement(lit.Value)
	if !ok {
		return
	}
	start := w.offset(lit.Pos())
	end := w.offset(lit.End())
	w.emit(TailoredIdentifierReplacement, lit.Pos(), start, end, alt)
}
