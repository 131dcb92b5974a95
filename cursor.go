// Copyright 2024 The Rotext Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package rotext

// cursorContext is the shared abstraction both line parsers and the
// global-phase scanner use to advance through input and track the
// logical line number (spec.md §4.2).
type cursorContext interface {
	cursor() int
	moveCursorForward(n int)
	currentLine() LineNumber
	increaseCurrentLine()
}

// countContinuousCharacter counts how many times b repeats starting at
// start.
func countContinuousCharacter(input []byte, b byte, start int) int {
	n := 0
	for start+n < len(input) && input[start+n] == b {
		n++
	}
	return n
}

// countContinuousWhitespace counts a run of ASCII spaces/tabs starting
// at start. rotext, per its Non-goals, only recognizes ASCII
// whitespace.
func countContinuousWhitespace(input []byte, start int) int {
	n := 0
	for start+n < len(input) {
		switch input[start+n] {
		case ' ', '\t':
			n++
		default:
			return n
		}
	}
	return n
}

// isBlankLine reports whether the bytes from start to the next line
// break (or EOF) are all ASCII space/tab.
func isBlankLine(input []byte, start int) bool {
	for i := start; i < len(input); i++ {
		switch input[i] {
		case ' ', '\t':
			continue
		case '\r', '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// indentWidth returns the number of leading ASCII spaces at start,
// tabs counting as advancing to the next multiple of 4 as CommonMark
// does; rotext's Non-goals exclude full CommonMark conformance but the
// teacher's column-width convention is kept for code block/item-like
// indent handling since nothing in spec.md overrides it.
func indentWidth(input []byte, start int) (width, consumed int) {
	col := 0
	i := start
	for i < len(input) {
		switch input[i] {
		case ' ':
			col++
			i++
		case '\t':
			col += 4 - (col % 4)
			i++
		default:
			return col, i - start
		}
	}
	return col, i - start
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIIHexDigit(b byte) bool {
	return isASCIIDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isNameByte reports whether b can appear in a call/extension name
// (spec.md §4.5): ASCII letters, digits, and a handful of punctuation
// bytes.
func isNameByte(b byte) bool {
	switch {
	case isASCIILetter(b), isASCIIDigit(b):
		return true
	case b == '_' || b == '-' || b == '.':
		return true
	default:
		return false
	}
}

// countLineBreak reports the byte-length of the line break starting
// at i (0 if none), used by every component that advances past a
// physical newline so that CRLF is counted exactly once everywhere
// (SPEC_FULL.md Supplemented Features #2).
func countLineBreak(input []byte, i int) int {
	if i >= len(input) {
		return 0
	}
	switch input[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(input) && input[i+1] == '\n' {
			return 2
		}
		return 1
	default:
		return 0
	}
}

// trimSingleOuterSpace implements the leading/trailing single-space
// elision rule shared by verbatim-escaping content (spec.md §4.1) and
// code-span content (spec.md §4.7): a single leading space and a
// single trailing space are both dropped, but only if doing so leaves
// at least two bytes of content (SPEC_FULL.md Supplemented Features
// #4).
func trimSingleOuterSpace(input []byte, start, end int) (int, int) {
	if end-start < 2 {
		return start, end
	}
	hasLeading := input[start] == ' '
	hasTrailing := input[end-1] == ' '
	if !hasLeading && !hasTrailing {
		return start, end
	}
	newStart, newEnd := start, end
	if hasLeading {
		newStart++
	}
	if hasTrailing {
		newEnd--
	}
	if newEnd-newStart < 2 {
		return start, end
	}
	return newStart, newEnd
}
