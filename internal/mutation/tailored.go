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

// Dictionary is the external, user-supplied configuration for the
// TailoredIdentifierReplacement operator: plain identifier-to-identifier
// and literal-to-literal substitution pairs. The catalog of substitution
// pairs is deliberately kept outside this package (per Design Notes,
// "the catalog itself is outside the core") — callers build a Dictionary
// from whatever configuration source they like and pass it to NewDiscoverer.
type Dictionary struct {
	// Identifiers maps an identifier name to its replacement.
	Identifiers map[string]string
	// Literals maps the literal source text (as it appears verbatim in
	// source, e.g. `"staging"` including quotes, or `42`) to its
	// replacement text.
	Literals map[string]string
}

func (d Dictionary) identifierReplacement(name string) (string, bool) {
	if d.Identifiers == nil {
		return "", false
	}
	v, ok := d.Identifiers[name]

	return v, ok
}

func (d Dictionary) literalReplacement(text string) (string, bool) {
	if d.Literals == nil {
		return "", false
	}
	v, ok := d.Literals[text]

	return v, ok
}
