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

package equivalence_test

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/mutantia/mutantia/internal/equivalence"
	"github.com/mutantia/mutantia/internal/mutation"
)

func discoverSites(t *testing.T, src string) (*equivalence.Filter, []mutation.Site) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	d := mutation.NewDiscoverer()
	sites := d.Discover([]byte(src), fset, file)

	return equivalence.New(fset, file), sites
}

func siteFor(t *testing.T, sites []mutation.Site, op mutation.Operator, mutated string) mutation.Site {
	t.Helper()
	for _, s := range sites {
		if s.Operator == op && string(s.Mutated) == mutated {
			return s
		}
	}
	t.Fatalf("no site found for operator %s with mutated text %q among %+v", op, mutated, sites)

	return mutation.Site{}
}

// TestIsEquivalent_ArithmeticIdentityIsDropped covers spec.md §4.3's
// arithmetic no-op rule: `x + 0` swapped to `x - 0` is a genuine no-op
// because both operators agree on the zero identity already present
// in the source.
func TestIsEquivalent_ArithmeticIdentityIsDropped(t *testing.T) {
	const src = `package sample

func f(x int) int {
	return x + 0
}
`
	f, sites := discoverSites(t, src)
	site := siteFor(t, sites, mutation.ArithmeticOperatorReplacement, "-")

	if !f.IsEquivalent(site) {
		t.Errorf("expected x + 0 -> x - 0 to be filtered as equivalent")
	}
}

func TestIsEquivalent_MultiplicativeIdentityIsDropped(t *testing.T) {
	const src = `package sample

func f(x int) int {
	return x * 1
}
`
	f, sites := discoverSites(t, src)
	site := siteFor(t, sites, mutation.ArithmeticOperatorReplacement, "/")

	if !f.IsEquivalent(site) {
		t.Errorf("expected x * 1 -> x / 1 to be filtered as equivalent")
	}
}

// TestIsEquivalent_ArithmeticSwapOnRealOperandsSurvives is the
// regression this package is built to prevent: a bare +/- swap between
// two non-identity operands (spec.md S1/S2's `add(a, b) = a + b`) is a
// real, observable mutation and must never be dropped just because the
// operator pair happens to be the same {+,-} family the identity rule
// also inspects.
func TestIsEquivalent_ArithmeticSwapOnRealOperandsSurvives(t *testing.T) {
	const src = `package sample

func add(a, b int) int {
	return a + b
}
`
	f, sites := discoverSites(t, src)
	site := siteFor(t, sites, mutation.ArithmeticOperatorReplacement, "-")

	if f.IsEquivalent(site) {
		t.Fatalf("a + b -> a - b must not be filtered as equivalent: neither operand is the identity literal")
	}
}

func TestIsEquivalent_MultiplicativeSwapOnRealOperandsSurvives(t *testing.T) {
	const src = `package sample

func mul(a, b int) int {
	return a * b
}
`
	f, sites := discoverSites(t, src)
	site := siteFor(t, sites, mutation.ArithmeticOperatorReplacement, "/")

	if f.IsEquivalent(site) {
		t.Fatalf("a * b -> a / b must not be filtered as equivalent: neither operand is the literal 1")
	}
}

// TestIsEquivalent_RangeBoundSwapOnSingleElementRange covers spec.md
// §4.3's single-element-range rule. The bounds are spaced so the
// swapped text "i:i" differs from the original "i : i"; the Discoverer
// never emits a site for `s[i:i]`, whose swap is byte-identical.
func TestIsEquivalent_RangeBoundSwapOnSingleElementRange(t *testing.T) {
	const src = `package sample

func f(s []int, i int) []int {
	return s[i : i]
}
`
	f, sites := discoverSites(t, src)
	rb := []mutation.Site{}
	for _, s := range sites {
		if s.Operator == mutation.RangeBoundSwap {
			rb = append(rb, s)
		}
	}
	if len(rb) != 1 {
		t.Fatalf("expected exactly one range-bound swap, got %+v", rb)
	}
	if !f.IsEquivalent(rb[0]) {
		t.Errorf("expected s[i : i] swapped to itself to be filtered as equivalent")
	}
}

func TestIsEquivalent_RangeBoundSwapOnDistinctBoundsSurvives(t *testing.T) {
	const src = `package sample

func f(s []int) []int {
	return s[1:3]
}
`
	f, sites := discoverSites(t, src)
	var rb mutation.Site
	for _, s := range sites {
		if s.Operator == mutation.RangeBoundSwap {
			rb = s
		}
	}
	if f.IsEquivalent(rb) {
		t.Errorf("expected s[1:3] -> s[3:1] to survive the equivalence filter")
	}
}

// TestIsEquivalent_SignFlipOnZeroIsDropped covers spec.md §4.3's
// unary-sign-removal-on-zero rule: -0 == 0 for every numeric type Go has.
func TestIsEquivalent_SignFlipOnZeroIsDropped(t *testing.T) {
	const src = `package sample

func f() int {
	return -0
}
`
	f, sites := discoverSites(t, src)
	var sign mutation.Site
	for _, s := range sites {
		if s.Operator == mutation.UnarySignFlip {
			sign = s
		}
	}
	if !f.IsEquivalent(sign) {
		t.Errorf("expected -0 -> 0 to be filtered as equivalent")
	}
}

func TestIsEquivalent_SignFlipOnNonZeroSurvives(t *testing.T) {
	const src = `package sample

func f() int {
	return -5
}
`
	f, sites := discoverSites(t, src)
	var sign mutation.Site
	for _, s := range sites {
		if s.Operator == mutation.UnarySignFlip {
			sign = s
		}
	}
	if f.IsEquivalent(sign) {
		t.Errorf("expected -5 -> 5 to survive the equivalence filter")
	}
}

// TestIsEquivalent_OtherOperatorsAreNeverFiltered covers the
// conservative default: any operator without a specific rule is always
// kept, per spec.md §4.3 "conservative by design: when in doubt, keep
// the site."
func TestIsEquivalent_OtherOperatorsAreNeverFiltered(t *testing.T) {
	const src = `package sample

func always() bool {
	return true
}
`
	f, sites := discoverSites(t, src)
	site := siteFor(t, sites, mutation.BooleanLiteralFlip, "false")

	if f.IsEquivalent(site) {
		t.Errorf("BooleanLiteralFlip on a non-dead-code literal must never be filtered (deadControlFlow is always false)")
	}
}
