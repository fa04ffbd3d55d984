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

import "go/token"

// arithmeticTokens and the three tables that follow give, for every
// token this Operator cares about, the full set of "swap to" tokens —
// table-driven per the Design Notes' operator-extensibility requirement.

var arithmeticTokens = []token.Token{token.ADD, token.SUB, token.MUL, token.QUO, token.REM}

// arithmeticSwaps maps each arithmetic token to every *other* arithmetic
// token, in catalog order: for each binary operator token in
// {+,-,*,/,%}, emit swaps to the other four.
var arithmeticSwaps = buildExhaustiveSwaps(arithmeticTokens)

var comparisonTokens = []token.Token{token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ}

// comparisonSwaps maps each comparison token to the other five, one
// site per alternate operator.
var comparisonSwaps = buildExhaustiveSwaps(comparisonTokens)

func buildExhaustiveSwaps(tokens []token.Token) map[token.Token][]token.Token {
	out := make(map[token.Token][]token.Token, len(tokens))
	for _, t := range tokens {
		for _, alt := range tokens {
			if alt == t {
				continue
			}
			out[t] = append(out[t], alt)
		}
	}

	return out
}

// bitwiseSwaps maps {&, |, ^} onto each other (§4.2 "swap among {&,|,^}").
var bitwiseSwaps = map[token.Token][]token.Token{
	token.AND: {token.OR, token.XOR},
	token.OR:  {token.AND, token.XOR},
	token.XOR: {token.AND, token.OR},
}

// shiftSwaps flips shift direction.
var shiftSwaps = map[token.Token]token.Token{
	token.SHL: token.SHR,
	token.SHR: token.SHL,
}

// compoundAssignSwaps pairs each compound-assignment token with its
// opposite.
var compoundAssignSwaps = map[token.Token]token.Token{
	token.ADD_ASSIGN:     token.SUB_ASSIGN,
	token.SUB_ASSIGN:     token.ADD_ASSIGN,
	token.MUL_ASSIGN:     token.QUO_ASSIGN,
	token.QUO_ASSIGN:     token.MUL_ASSIGN,
	token.AND_ASSIGN:     token.OR_ASSIGN,
	token.OR_ASSIGN:      token.AND_ASSIGN,
	token.XOR_ASSIGN:     token.OR_ASSIGN,
	token.AND_NOT_ASSIGN: token.OR_ASSIGN,
	token.SHL_ASSIGN:     token.SHR_ASSIGN,
	token.SHR_ASSIGN:     token.SHL_ASSIGN,
}

// loopControlSwaps implements break <-> continue.
var loopControlSwaps = map[token.Token]token.Token{
	token.BREAK:    token.CONTINUE,
	token.CONTINUE: token.BREAK,
}

// stdlibSemanticPairs implements standard-library-semantic swap: paired
// builtin/stdlib identifiers whose meaning is the "opposite" of each
// other. Matched against the final name of every selector expression
// (e.g. "slices.Min" matches on "Min") and against the called name of
// a builtin min or max call.
var stdlibSemanticPairs = map[string]string{
	"min":         "max",
	"max":         "min",
	"Min":         "Max",
	"Max":         "Min",
	"Index":       "LastIndex",
	"LastIndex":   "Index",
	"HasPrefix":   "HasSuffix",
	"HasSuffix":   "HasPrefix",
	"TrimPrefix":  "TrimSuffix",
	"TrimSuffix":  "TrimPrefix",
}

// castStrengthPairs implements numeric conversion width swaps.
var castStrengthPairs = map[string]string{
	"int8":    "int16",
	"int16":   "int8",
	"int32":   "int64",
	"int64":   "int32",
	"uint8":   "uint16",
	"uint16":  "uint8",
	"uint32":  "uint64",
	"uint64":  "uint32",
	"float32": "float64",
	"float64": "float32",
}
