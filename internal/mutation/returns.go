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

import "go/ast"

// zeroValueText picks a type-specific sentinel literal for a function
// result type, purely syntactically (no go/types checking, in keeping
// deliberately: no symbolic proof of equivalence, syntactic heuristics
// only). It recognizes the predeclared basic type names directly,
// returns "nil" for pointer, array, map, channel, interface, function
// and package-qualified types, and `T{}` for any other named type T.
// "nil" is the Go zero value for pointer, slice, map, channel,
// interface and function types; for a fixed-size array or a qualified
// non-pointer type the resulting mutant does not compile.
func zeroValueText(typeExpr ast.Expr) (string, bool) {
	switch t := typeExpr.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string":
			return `""`, true
		case "bool":
			return "false", true
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"byte", "rune",
			"float32", "float64",
			"complex64", "complex128":
			return "0", true
		case "error":
			return "nil", true
		default:
			// An unexported/exported named type declared elsewhere: its
			// zero value is syntactically unknowable without type info.
			// A composite literal of the same name compiles only when
			// the type is a struct, array, slice or map type.
			return t.Name + "{}", true
		}
	case *ast.StarExpr, *ast.ArrayType, *ast.MapType, *ast.ChanType,
		*ast.InterfaceType, *ast.FuncType, *ast.SelectorExpr:
		return "nil", true
	case *ast.Ellipsis:
		return "nil", true
	default:
		return "", false
	}
}
