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

// endKind discriminates the reason parseNormal/parseVerbatim stopped.
type endKind uint8

const (
	endEOF endKind = iota
	endNewLine
	endVerbatimEscaping
	endNone // a comment was consumed; no event.
	endTableRelated
	endDoublePipes
	endDescriptionDefinitionOpening
	endAtxClosing
	endMatchedCallName
	endMatchedCallClosing
	endMatchedCallArgumentIndicator
	endMatchedArgumentName
	endMatched
	endMismatched
	endFence
)

// tableRelatedKind distinguishes which table-structural token was
// matched: `|}` (closing), `|+` (caption), `|-` (row), `!!` (header
// cell). `||` is reported separately as endDoublePipes since it is
// ambiguous between "table data cell" and "call argument" and is
// resolved by the caller's current frame.
type tableRelatedKind uint8

const (
	tableClosing tableRelatedKind = iota
	tableCaptionIndicator
	tableRowIndicator
	tableHeaderCellIndicator
)

// callExtraMatchedKind records what immediately followed a matched
// call name or argument name (spec.md §4.5).
type callExtraMatchedKind uint8

const (
	callExtraNone callExtraMatchedKind = iota
	callExtraClosing           // `}}` immediately follows.
	callExtraArgumentIndicator // `||` immediately follows.
)

// lineEnd is the reason parseNormal/parseVerbatim returned, plus any
// payload the reason carries.
type lineEnd struct {
	kind endKind

	nl LineNumber
	ve verbatimEscaping

	tableRelated tableRelatedKind

	isExtension  bool
	name         Span
	extraMatched callExtraMatchedKind

	argIsVerbatim      bool
	argName            Span
	hasMatchedEqualSign bool
}

// callMatchMode selects which speculative name-matching grammar
// parseNormal runs, used only by the call-name and call-argument-name
// top-leaf branches (spec.md §4.5).
type callMatchMode uint8

const (
	callMatchNone callMatchMode = iota
	callMatchName
	callMatchArgumentName
)

// endCondition bundles the structural terminators parseNormal should
// recognize in addition to EOF/NewLine/VerbatimEscaping/comment,
// which are always active (spec.md §4.2).
type endCondition struct {
	tableRelated                 bool
	doublePipes                  bool
	callClosing                  bool
	descriptionDefinitionOpening bool
	atxClosing                   atxClosingSpec
	matchMode                    callMatchMode
}

type atxClosingSpec struct {
	active  bool
	char    byte
	count   int
}

// fenceSpec describes a verbatim-mode closing fence (spec.md §4.2).
type fenceSpec struct {
	active        bool
	char          byte
	minimumCount  int
}

// verbatimEndCondition bundles parseVerbatim's terminators.
type verbatimEndCondition struct {
	onFence           fenceSpec
	beforeTableRelated bool
	beforeCallRelated  bool
}

// parseNormal reads a logical line of "normal" (non-verbatim) content
// starting at ctx.cursor(), which must be positioned on a non-space
// byte (callers pre-skip leading whitespace per spec.md §4.2). It
// returns the range of consumable text -- with trailing spaces
// dropped unless the terminator is VerbatimEscaping or comment-None --
// and the reason it stopped.
func parseNormal(input []byte, ctx cursorContext, end endCondition) (Span, lineEnd) {
	start := ctx.cursor()
	textEnd := start

	for {
		b, ok := byteAt(input, ctx.cursor())
		if !ok {
			return Span{Start: start, End: trimTrailingSpaces(input, start, textEnd)}, lineEnd{kind: endEOF}
		}

		before := ctx.cursor()
		if out, handled := parseGlobal(input, ctx, b); handled {
			if out.isVerbatimEscaping {
				return Span{Start: start, End: before}, lineEnd{kind: endVerbatimEscaping, ve: out.ve}
			}
			return Span{Start: start, End: before}, lineEnd{kind: endNone}
		}

		if b == '\r' || b == '\n' {
			n := countLineBreak(input, ctx.cursor())
			trimmed := trimTrailingSpaces(input, start, ctx.cursor())
			ctx.increaseCurrentLine()
			nl := ctx.currentLine()
			ctx.moveCursorForward(1)
			if n == 2 {
				ctx.moveCursorForward(1)
			}
			return Span{Start: start, End: trimmed}, lineEnd{kind: endNewLine, nl: nl}
		}

		if end.matchMode != callMatchNone {
			tokenStart := ctx.cursor()
			if le, matched := tryMatchCallToken(input, ctx, end.matchMode); matched {
				return Span{Start: start, End: trimTrailingSpaces(input, start, tokenStart)}, le
			}
		}

		if end.atxClosing.active && (ctx.cursor() == start || input[ctx.cursor()-1] == ' ') {
			if n := countContinuousCharacter(input, end.atxClosing.char, ctx.cursor()); n == end.atxClosing.count {
				after := ctx.cursor() + n
				if isTerminatorAfter(input, after) {
					trimmed := trimTrailingSpaces(input, start, ctx.cursor())
					ctx.moveCursorForward(n)
					return Span{Start: start, End: trimmed}, lineEnd{kind: endAtxClosing}
				}
			}
		}

		if end.descriptionDefinitionOpening && b == ':' {
			if input[ctx.cursor()-1] == ' ' || ctx.cursor() == start {
				if next, ok := byteAt(input, ctx.cursor()+1); ok && next == ':' {
					afterAfter, hasAfterAfter := byteAt(input, ctx.cursor()+2)
					if !hasAfterAfter || afterAfter == ' ' || afterAfter == '\r' || afterAfter == '\n' {
						trimmed := trimTrailingSpaces(input, start, ctx.cursor())
						ctx.moveCursorForward(2)
						return Span{Start: start, End: trimmed}, lineEnd{kind: endDescriptionDefinitionOpening}
					}
				}
			}
		}

		if end.tableRelated && b == '|' {
			if next, ok := byteAt(input, ctx.cursor()+1); ok {
				var kind tableRelatedKind
				matched := true
				switch next {
				case '}':
					kind = tableClosing
				case '+':
					kind = tableCaptionIndicator
				case '-':
					kind = tableRowIndicator
				default:
					matched = false
				}
				if matched {
					trimmed := trimTrailingSpaces(input, start, ctx.cursor())
					ctx.moveCursorForward(2)
					return Span{Start: start, End: trimmed}, lineEnd{kind: endTableRelated, tableRelated: kind}
				}
			}
		}
		if end.tableRelated && b == '!' {
			if next, ok := byteAt(input, ctx.cursor()+1); ok && next == '!' {
				trimmed := trimTrailingSpaces(input, start, ctx.cursor())
				ctx.moveCursorForward(2)
				return Span{Start: start, End: trimmed}, lineEnd{kind: endTableRelated, tableRelated: tableHeaderCellIndicator}
			}
		}

		if end.doublePipes && b == '|' {
			if next, ok := byteAt(input, ctx.cursor()+1); ok && next == '|' {
				trimmed := trimTrailingSpaces(input, start, ctx.cursor())
				ctx.moveCursorForward(2)
				return Span{Start: start, End: trimmed}, lineEnd{kind: endDoublePipes}
			}
		}

		if end.callClosing && b == '}' {
			if next, ok := byteAt(input, ctx.cursor()+1); ok && next == '}' {
				trimmed := trimTrailingSpaces(input, start, ctx.cursor())
				ctx.moveCursorForward(2)
				return Span{Start: start, End: trimmed}, lineEnd{kind: endMatchedCallClosing}
			}
		}

		textEnd = ctx.cursor() + 1
		ctx.moveCursorForward(1)
	}
}

// tryMatchCallToken implements the call-name/argument-name matching
// terminators of spec.md §4.5: `}}`, `||`, and (in argument-name mode)
// `=`. It does not itself extract the name text -- that is the
// responsibility of the caller, which knows where the name run began
// -- it only recognizes the structural tokens that end a name run.
func tryMatchCallToken(input []byte, ctx cursorContext, mode callMatchMode) (lineEnd, bool) {
	b, ok := byteAt(input, ctx.cursor())
	if !ok {
		return lineEnd{}, false
	}
	switch {
	case b == '}' && peekByte(input, ctx.cursor()+1) == '}':
		ctx.moveCursorForward(2)
		return lineEnd{kind: endMatchedCallClosing}, true
	case b == '|' && peekByte(input, ctx.cursor()+1) == '|':
		ctx.moveCursorForward(2)
		return lineEnd{kind: endMatchedCallArgumentIndicator}, true
	case mode == callMatchArgumentName && b == '=':
		ctx.moveCursorForward(1)
		return lineEnd{kind: endMatched, hasMatchedEqualSign: true}, true
	}
	return lineEnd{}, false
}

func peekByte(input []byte, i int) byte {
	b, ok := byteAt(input, i)
	if !ok {
		return 0
	}
	return b
}

func isTerminatorAfter(input []byte, i int) bool {
	b, ok := byteAt(input, i)
	if !ok {
		return true
	}
	return b == '\r' || b == '\n' || b == '|' || b == '}'
}

func trimTrailingSpaces(input []byte, start, end int) int {
	for end > start && input[end-1] == ' ' {
		end--
	}
	return end
}

// parseVerbatim consumes literal content up to a closing fence (when
// configured) or one of the table/call pre-stop conditions (spec.md
// §4.2). Unlike parseNormal it still recognizes verbatim-escaping and
// comments anywhere mid-line, yielding them the same way.
func parseVerbatim(input []byte, ctx cursorContext, end verbatimEndCondition, atLineBeginning bool, indent int) (Span, lineEnd) {
	if atLineBeginning {
		consumed := 0
		for consumed < indent {
			b, ok := byteAt(input, ctx.cursor())
			if !ok || b != ' ' {
				break
			}
			ctx.moveCursorForward(1)
			consumed++
		}
	}

	start := ctx.cursor()

	if end.onFence.active && atLineBeginning {
		n := countContinuousCharacter(input, end.onFence.char, ctx.cursor())
		if n >= end.onFence.minimumCount {
			after := ctx.cursor() + n
			if isBlankLine(input, after) {
				ctx.moveCursorForward(n)
				// consume to end of line
				for {
					b, ok := byteAt(input, ctx.cursor())
					if !ok || b == '\r' || b == '\n' {
						break
					}
					ctx.moveCursorForward(1)
				}
				return Span{Start: start, End: start}, lineEnd{kind: endFence}
			}
		}
	}

	for {
		b, ok := byteAt(input, ctx.cursor())
		if !ok {
			return Span{Start: start, End: ctx.cursor()}, lineEnd{kind: endEOF}
		}

		before := ctx.cursor()
		if out, handled := parseGlobal(input, ctx, b); handled {
			if out.isVerbatimEscaping {
				return Span{Start: start, End: before}, lineEnd{kind: endVerbatimEscaping, ve: out.ve}
			}
			return Span{Start: start, End: before}, lineEnd{kind: endNone}
		}

		if b == '\r' || b == '\n' {
			n := countLineBreak(input, ctx.cursor())
			textEnd := ctx.cursor()
			ctx.increaseCurrentLine()
			nl := ctx.currentLine()
			ctx.moveCursorForward(1)
			if n == 2 {
				ctx.moveCursorForward(1)
			}
			return Span{Start: start, End: textEnd}, lineEnd{kind: endNewLine, nl: nl}
		}

		if end.beforeTableRelated && b == '|' {
			if next := peekByte(input, ctx.cursor()+1); next == '|' {
				return Span{Start: start, End: ctx.cursor()}, lineEnd{kind: endDoublePipes}
			}
		}
		if end.beforeCallRelated && b == '}' {
			if next := peekByte(input, ctx.cursor()+1); next == '}' {
				return Span{Start: start, End: ctx.cursor()}, lineEnd{kind: endMatchedCallClosing}
			}
		}
		if end.beforeCallRelated && b == '|' {
			if next := peekByte(input, ctx.cursor()+1); next == '|' {
				return Span{Start: start, End: ctx.cursor()}, lineEnd{kind: endMatchedCallArgumentIndicator}
			}
		}

		ctx.moveCursorForward(1)
	}
}
