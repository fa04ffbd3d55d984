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

import "fmt"

// Site is an immutable description of one candidate edit: the Operator
// it came from, its source location, the byte span it replaces, and the
// original/mutated text for that span.
//
// Site.UTF8Offset and Site.UTF8Length describe a half-open byte range
// in the UTF-8 encoding of the original source:
//
//	source[UTF8Offset : UTF8Offset+UTF8Length] == OriginalText
type Site struct {
	Operator   Operator
	Line       int
	Column     int
	UTF8Offset int
	UTF8Length int
	Original   []byte
	Mutated    []byte
}

// Validate checks that Site's span is in bounds and that Original
// matches the bytes at that span in source. It is used by the
// Discoverer in tests and is cheap enough to call defensively.
func (s Site) Validate(source []byte) error {
	if s.UTF8Offset < 0 || s.UTF8Length < 0 || s.UTF8Offset+s.UTF8Length > len(source) {
		return fmt.Errorf("mutation site at %d:%d has an out-of-bounds span [%d,%d) over %d bytes",
			s.Line, s.Column, s.UTF8Offset, s.UTF8Offset+s.UTF8Length, len(source))
	}
	got := source[s.UTF8Offset : s.UTF8Offset+s.UTF8Length]
	if string(got) != string(s.Original) {
		return fmt.Errorf("mutation site at %d:%d: original text mismatch: got %q, want %q",
			s.Line, s.Column, got, s.Original)
	}
	if string(s.Mutated) == string(s.Original) {
		return fmt.Errorf("mutation site at %d:%d: mutated text is identical to original", s.Line, s.Column)
	}

	return nil
}
