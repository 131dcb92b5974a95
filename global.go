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

// verbatimEscaping is the parsed payload of a `<`...`>` span (spec.md
// §3/§4.1), before it is wrapped into an [Event].
type verbatimEscaping struct {
	content        Span
	closedForcedly bool
	lineAfter      LineNumber
}

// globalOutput is the result of [parseGlobal]: either a verbatim
// escaping span was recognized, or a comment was consumed silently.
type globalOutput struct {
	isVerbatimEscaping bool
	ve                 verbatimEscaping
}

// parseGlobal recognizes the two global-phase constructs (spec.md
// §4.1) starting at ctx.cursor(), which must equal firstChar. It
// returns (output, true) if a construct was recognized and consumed,
// or (zero, false) if firstChar does not open one (the caller should
// treat the byte as ordinary content).
func parseGlobal(input []byte, ctx cursorContext, firstChar byte) (globalOutput, bool) {
	if firstChar != '<' {
		return globalOutput{}, false
	}
	next, ok := byteAt(input, ctx.cursor()+1)
	if !ok {
		return globalOutput{}, false
	}
	switch next {
	case '`':
		ctx.moveCursorForward(2)
		ve := parseVerbatimEscaping(input, ctx)
		return globalOutput{isVerbatimEscaping: true, ve: ve}, true
	case '%':
		ctx.moveCursorForward(2)
		parseComment(input, ctx)
		return globalOutput{}, true
	default:
		return globalOutput{}, false
	}
}

func byteAt(input []byte, i int) (byte, bool) {
	if i < 0 || i >= len(input) {
		return 0, false
	}
	return input[i], true
}

// parseVerbatimEscaping parses the content of a `<`...`>` span whose
// opener (`<` plus at least one backtick) has already been consumed up
// to and including the first backtick. Leading/trailing single-space
// elision follows trimSingleOuterSpace's >= 2 rule.
func parseVerbatimEscaping(input []byte, ctx cursorContext) verbatimEscaping {
	extra := countContinuousCharacter(input, '`', ctx.cursor())
	ctx.moveCursorForward(extra)
	backticks := 1 + extra

	start := ctx.cursor()
	hasLeadingSpace := false
	if b, ok := byteAt(input, start); ok && b == ' ' {
		ctx.moveCursorForward(1)
		hasLeadingSpace = true
	}

	continuousBackticks := 0
	for {
		b, ok := byteAt(input, ctx.cursor())
		if !ok {
			break
		}
		switch {
		case b == '`':
			continuousBackticks++
		case b == '>' && continuousBackticks == backticks:
			end := ctx.cursor() - continuousBackticks
			ctx.moveCursorForward(1)
			start, end = trimSingleOuterSpace(input, start, end)
			return verbatimEscaping{
				content:   Span{Start: start, End: end},
				lineAfter: ctx.currentLine(),
			}
		case b == '\r' || b == '\n':
			n := countLineBreak(input, ctx.cursor())
			ctx.increaseCurrentLine()
			if n == 2 {
				ctx.moveCursorForward(1)
			}
			continuousBackticks = 0
		default:
			continuousBackticks = 0
		}
		ctx.moveCursorForward(1)
	}

	if hasLeadingSpace && start < len(input) {
		start++
	}
	return verbatimEscaping{
		content:        Span{Start: start, End: len(input)},
		closedForcedly: true,
		lineAfter:      ctx.currentLine(),
	}
}

// parseComment consumes a balanced, depth-nested `<%`...`%>` comment
// whose opener has already been consumed. A `<`...`>` encountered
// inside switches temporarily into verbatim-escaping parsing, whose
// content is discarded but whose embedded newlines still advance the
// line counter (SPEC_FULL.md Supplemented Features #1).
func parseComment(input []byte, ctx cursorContext) {
	depth := 1
	for depth > 0 {
		b, ok := byteAt(input, ctx.cursor())
		if !ok {
			return
		}
		switch {
		case b == '<':
			switch next, ok := byteAt(input, ctx.cursor()+1); {
			case ok && next == '%':
				ctx.moveCursorForward(2)
				depth++
			case ok && next == '`':
				ctx.moveCursorForward(2)
				parseVerbatimEscaping(input, ctx)
			default:
				ctx.moveCursorForward(1)
			}
		case b == '%':
			if next, ok := byteAt(input, ctx.cursor()+1); ok && next == '>' {
				ctx.moveCursorForward(2)
				depth--
			} else {
				ctx.moveCursorForward(1)
			}
		case b == '\r' || b == '\n':
			n := countLineBreak(input, ctx.cursor())
			ctx.increaseCurrentLine()
			ctx.moveCursorForward(1)
			if n == 2 {
				ctx.moveCursorForward(1)
			}
		default:
			ctx.moveCursorForward(1)
		}
	}
}
