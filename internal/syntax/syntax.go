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

// Package syntax produces a concrete syntax tree for a single Go source
// file, preserving byte-accurate spans so that downstream packages can
// identify mutation sites and patch the original bytes without ever
// re-emitting source text through a printer.
package syntax

import (
	"go/ast"
	"go/parser"
	"go/token"
)

// Tree is the parsed representation of one source file: its AST, the
// FileSet needed to resolve token.Pos values to byte offsets, and the
// original bytes it was parsed from.
type Tree struct {
	Name    string
	Source  []byte
	FileSet *token.FileSet
	File    *ast.File
}

// Parse builds a Tree from src. It tolerates syntactically incomplete
// input: parser.AllErrors is not set, and parser.ParseFile's best-effort
// partial *ast.File is returned together with the parse error, so a
// caller that only needs a subset of a broken file can still proceed.
func Parse(name string, src []byte) (*Tree, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, src, parser.ParseComments)
	if file == nil {
		return nil, err
	}

	return &Tree{
		Name:    name,
		Source:  src,
		FileSet: fset,
		File:    file,
	}, err
}

// Offset resolves a token.Pos to its 0-based byte offset in Source.
func (t *Tree) Offset(pos token.Pos) int {
	return t.FileSet.Position(pos).Offset
}

// Span returns the half-open byte range [start, end) covered by n.
func (t *Tree) Span(n ast.Node) (start, end int) {
	return t.Offset(n.Pos()), t.Offset(n.End())
}

// Text returns the literal source bytes covered by n.
func (t *Tree) Text(n ast.Node) []byte {
	start, end := t.Span(n)

	return t.Source[start:end]
}

// Position resolves a token.Pos to a line/column/filename token.Position.
func (t *Tree) Position(pos token.Pos) token.Position {
	return t.FileSet.Position(pos)
}
