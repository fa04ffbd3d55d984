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

// Package apply turns a mutation.Site into mutated source bytes. It is
// a pure byte-splice function — no AST reconstruction and no
// go/printer re-emission, unlike an ExprMutator that rebuilds and
// re-prints the whole file. Splicing raw bytes is simpler, preserves
// everything outside the mutated span (comments, formatting) byte for
// byte, and generalizes to mutations whose replacement text has a
// different length than the original, which an AST-level swap cannot
// express.
package apply

import (
	"fmt"

	"github.com/mutantia/mutantia/internal/mutation"
)

// Apply returns a new byte slice equal to source with site's span
// replaced by its mutated text. source is never modified in place.
func Apply(site mutation.Site, source []byte) ([]byte, error) {
	if err := site.Validate(source); err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	out := make([]byte, 0, len(source)-site.UTF8Length+len(site.Mutated))
	out = append(out, source[:site.UTF8Offset]...)
	out = append(out, site.Mutated...)
	out = append(out, source[site.UTF8Offset+site.UTF8Length:]...)

	return out, nil
}
