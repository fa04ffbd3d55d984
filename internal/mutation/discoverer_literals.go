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
	"math/big"
	"strings"
)

// visitLiteralOperators handles boolean-literal flip, unary !/- removal,
// and numeric/string literal perturbation.
func (w *walker) visitLiteralOperators(n ast.Node) {
	switch node := n.(type) {
	case *ast.Ident:
		w.booleanLiteralFlip(node)
	case *ast.UnaryExpr:
		w.unaryRemoval(node)
	case *ast.BasicLit:
		switch node.Kind {
		case token.INT:
			w.numericLiteralPerturbation(node)
		case token.STRING:
			w.stringLiteralPerturbation(node)
		}
	}
}

func (w *walker) booleanLiteralFlip(id *ast.Ident) {
	switch id.Name {
	case "true":
		w.emit(BooleanLiteralFlip, id.Pos(), w.offset(id.Pos()), w.offset(id.End()), "false")
	case "false":
		w.emit(BooleanLiteralFlip, id.Pos(), w.offset(id.Pos()), w.offset(id.End()), "true")
	}
}

func (w *walker) unaryRemoval(u *ast.UnaryExpr) {
	start := w.offset(u.Pos())
	end := w.offset(u.End())
	inner := string(w.src[w.offset(u.X.Pos()):w.offset(u.X.End())])

	switch u.Op {
	case token.NOT:
		w.emit(UnaryNotRemoval, u.Pos(), start, end, inner)
	case token.SUB:
		w.emit(UnarySignFlip, u.Pos(), start, end, inner)
	}
}

func (w *walker) numericLiteralPerturbation(lit *ast.BasicLit) {
	n, ok := parseIntLiteral(lit.Value)
	if !ok {
		return
	}
	start := w.offset(lit.Pos())
	end := w.offset(lit.End())

	zero := big.NewInt(0)
	one := big.NewInt(1)
	neg := new(big.Int).Neg(n)
	plus1 := new(big.Int).Add(n, one)
	minus1 := new(big.Int).Sub(n, one)

	w.emit(NumericLiteralPerturbation, lit.Pos(), start, end, zero.String())
	w.emit(NumericLiteralPerturbation, lit.Pos(), start, end, one.String())
	w.emit(NumericLiteralPerturbation, lit.Pos(), start, end, neg.String())
	w.emit(ConstantBoundaryShift, lit.Pos(), start, end, plus1.String())
	w.emit(ConstantBoundaryShift, lit.Pos(), start, end, minus1.String())
}

func parseIntLiteral(text string) (*big.Int, bool) {
	cleaned := strings.ReplaceAll(text, "_", "")

	return new(big.Int).SetString(cleaned, 0)
}

const stringPerturbationSentinel = `"MUTANT"`

func (w *walker) stringLiteralPerturbation(lit *ast.BasicLit) {
	start := w.offset(lit.Pos())
	end := w.offset(lit.End())
	if lit.Value == `""` || lit.Value == "``" {
		w.emit(StringLiteralPerturbation, lit.Pos(), start, end, stringPerturbationSentinel)

		return
	}
	w.emit(StringLiteralPerturbation, lit.Pos(), start, end, `""`)
}
