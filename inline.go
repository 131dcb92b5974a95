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

import "io"

// blockEventSource is anything that yields the events the inline
// parser consumes. *Parser satisfies this directly, so a block parser
// can be handed straight to [NewInlineParser].
type blockEventSource interface {
	Next() (Event, error)
}

// inlineParserState is the inline state machine's top-level mode
// (spec.md §4.7).
type inlineParserState uint8

const (
	inlineIdle inlineParserState = iota
	inlineParsing
	inlineExitingUntilStackIsEmptyAndThenEnd
	inlineEnded
)

// inlineEntryKind discriminates an [inlineStackEntry]'s payload, the
// same flat-struct-with-tag idiom as [stackEntry] and [Event].
type inlineEntryKind uint8

const (
	inlineEntryEmphasis inlineEntryKind = iota
	inlineEntryStrong
	inlineEntryStrikethrough
	inlineEntryRuby
	inlineEntryRubyText
	inlineEntryWikiLink
	inlineEntryCall
	inlineEntryCodeSpan
	inlineEntryCallVerbatimArgumentValue
)

type inlineStackEntry struct {
	kind        inlineEntryKind
	backticks   int  // valid when kind == inlineEntryCodeSpan
	isExtension bool // valid when kind == inlineEntryCall
}

// InlineParser consumes the InlineInput-group subsequence of a block
// event stream (Unparsed/VerbatimEscaping/NewLine) and emits the fully
// blended stream: every other block event is passed through unchanged,
// interleaved with the Inline-group events produced by parsing each
// Unparsed range. Merging the "blend driver" spec.md §6 describes as
// external into this one type keeps the public API a single iterator,
// the same restartable-Next shape as [Parser]; see DESIGN.md for the
// rationale.
type InlineParser struct {
	input  []byte
	source blockEventSource

	srcBuf  []Event
	srcDone bool
	srcErr  error

	state    inlineParserState
	sliceEnd int
	cursor   int

	stack []inlineStackEntry

	pending []Event

	fs  featureSet
	err error
}

// NewInlineParser wires source (typically a [*Parser]) into an inline
// parser over the same input buffer (spec.md §6
// "InlineParser::new(full_input, peekable event stream)").
func NewInlineParser(input []byte, source blockEventSource, opts ...InlineOption) *InlineParser {
	fs := defaultFeatureSet()
	for _, opt := range opts {
		opt(&fs)
	}
	return &InlineParser{
		input:  input,
		source: source,
		state:  inlineIdle,
		fs:     fs,
	}
}

// Next returns the next blended event, io.EOF once exhausted, or a
// [StackOverflowError].
func (p *InlineParser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	for {
		if ev, ok := p.popPending(); ok {
			return ev, nil
		}
		if p.state == inlineEnded {
			return Event{}, io.EOF
		}
		if err := p.step(); err != nil {
			p.err = err
			return Event{}, err
		}
	}
}

func (p *InlineParser) yield(ev Event) { p.pending = append(p.pending, ev) }

func (p *InlineParser) popPending() (Event, bool) {
	if len(p.pending) == 0 {
		return Event{}, false
	}
	ev := p.pending[0]
	p.pending = p.pending[1:]
	return ev, true
}

// fillSrc ensures at least n+1 source events are buffered (indices
// 0..n), short of a genuine end-of-source or error.
func (p *InlineParser) fillSrc(n int) {
	for len(p.srcBuf) <= n && !p.srcDone {
		ev, err := p.source.Next()
		if err != nil {
			if err != io.EOF {
				p.srcErr = err
			}
			p.srcDone = true
			return
		}
		p.srcBuf = append(p.srcBuf, ev)
	}
}

// peekSrc looks n events ahead without consuming.
func (p *InlineParser) peekSrc(n int) (Event, bool) {
	p.fillSrc(n)
	if n < len(p.srcBuf) {
		return p.srcBuf[n], true
	}
	return Event{}, false
}

func (p *InlineParser) popSrc() (Event, bool) {
	p.fillSrc(0)
	if len(p.srcBuf) == 0 {
		return Event{}, false
	}
	ev := p.srcBuf[0]
	p.srcBuf = p.srcBuf[1:]
	return ev, true
}

func (p *InlineParser) step() error {
	if p.srcErr != nil {
		return p.srcErr
	}
	switch p.state {
	case inlineParsing:
		return p.doParsing()
	case inlineExitingUntilStackIsEmptyAndThenEnd:
		return p.doExitingUntilEmpty()
	default: // inlineIdle
		return p.doIdle()
	}
}

// doIdle pulls the next source event. InlineInput events start (or
// continue) a Parsing slice; anything else is a structural block event
// that must wait for the inline stack to drain first (spec.md §4.7
// "passes through block Enter*/Exit*/etc. without modification").
func (p *InlineParser) doIdle() error {
	ev, ok := p.peekSrc(0)
	if !ok {
		if len(p.stack) > 0 {
			p.state = inlineExitingUntilStackIsEmptyAndThenEnd
			return nil
		}
		p.state = inlineEnded
		return nil
	}

	if !ev.Kind.IsInlineInput() {
		if len(p.stack) > 0 {
			p.state = inlineExitingUntilStackIsEmptyAndThenEnd
			return nil
		}
		p.popSrc()
		p.yield(ev)
		return nil
	}

	p.popSrc()
	switch ev.Kind {
	case EventUnparsed:
		p.sliceEnd = ev.Range.End
		p.cursor = ev.Range.Start
		p.state = inlineParsing
		return nil
	case EventVerbatimEscaping:
		p.yield(ev)
		return nil
	default: // EventNewLine
		p.yield(ev)
		return nil
	}
}

func (p *InlineParser) doExitingUntilEmpty() error {
	if len(p.stack) == 0 {
		p.state = inlineIdle
		return nil
	}
	p.stack = p.stack[:len(p.stack)-1]
	p.yield(Event{Kind: EventExitInline})
	return nil
}

func (p *InlineParser) byteAt(i int) (byte, bool) {
	if i < 0 || i >= p.sliceEnd {
		return 0, false
	}
	return p.input[i], true
}

// doParsing implements the token-dispatch table of spec.md §4.7,
// stopping after at most one dispatch point per call (text plus at
// most one structural event), the same granularity as parseNormal in
// the block phase.
func (p *InlineParser) doParsing() error {
	start := p.cursor

	for {
		b, ok := p.byteAt(p.cursor)
		if !ok {
			return p.endOfSlice(start)
		}

		switch {
		case b == '\\' && p.cursor+1 == p.sliceEnd:
			if nextIsNewLine, ok := p.nextSourceIsNewLine(); ok && nextIsNewLine {
				return p.finishHardBreakOrLinesJoint(start, true)
			}
		case b == '_' && p.cursor+1 == p.sliceEnd:
			if nextIsNewLine, ok := p.nextSourceIsNewLine(); ok && nextIsNewLine {
				return p.finishHardBreakOrLinesJoint(start, false)
			}

		case b == '&' && p.peek(1) == '#':
			if rng, ok := p.matchNumericCharacterReference(); ok {
				p.flushText(start, rng.Start)
				p.yield(Event{Kind: EventRaw, Range: rng})
				p.cursor = rng.End
				return nil
			}

		case b == '>' && p.peek(1) == '>':
			if rng, ok := p.matchRefLink(); ok {
				p.flushText(start, rng.Start)
				p.yield(Event{Kind: EventRefLink, Range: rng})
				return nil
			}

		case b == '[' && p.peek(1) == '=':
			if rng, ok := p.matchDicexp(); ok {
				p.flushText(start, rng.Start)
				p.yield(Event{Kind: EventDicexp, Range: rng})
				return nil
			}

		case b == '[' && isBacktick(p.peek(1)):
			n := countContinuousCharacter(p.input[:p.sliceEnd], '`', p.cursor+1)
			textEnd := p.cursor
			p.cursor += 1 + n
			p.flushText(start, textEnd)
			if err := p.pushStack(inlineStackEntry{kind: inlineEntryCodeSpan, backticks: n}); err != nil {
				return err
			}
			p.yield(Event{Kind: EventEnterCodeSpan})
			return nil

		case b == '[' && (p.peek(1) == '/' || p.peek(1) == '*' || p.peek(1) == '~'):
			kind, entry := emphasisFor(p.peek(1))
			textEnd := p.cursor
			p.cursor += 2
			p.flushText(start, textEnd)
			if err := p.pushStack(entry); err != nil {
				return err
			}
			p.yield(Event{Kind: kind})
			return nil

		case b == '[' && p.peek(1) == ';':
			if !p.anyInStack(inlineEntryRuby) {
				textEnd := p.cursor
				p.cursor += 2
				p.flushText(start, textEnd)
				if err := p.pushStack(inlineStackEntry{kind: inlineEntryRuby}); err != nil {
					return err
				}
				p.yield(Event{Kind: EventEnterRuby})
				return nil
			}

		case b == '[' && p.peek(1) == '[':
			handled, err := p.matchWikiLinkOpening(start)
			if err != nil {
				return err
			}
			if handled {
				return nil
			}
			continue

		case b == '[' && p.peek(1) == '{':
			handled, err := p.matchInlineCallOpening(start)
			if err != nil {
				return err
			}
			if handled {
				return nil
			}
			continue

		case b == ':' && p.topIs(inlineEntryRuby) && isWhitespaceSurrounded(p.input, p.cursor):
			textEnd := trimTrailingSpaces(p.input, start, p.cursor)
			p.cursor++
			spaces := countContinuousWhitespace(p.input, p.cursor)
			p.cursor += spaces
			p.flushText(start, textEnd)
			if err := p.pushStack(inlineStackEntry{kind: inlineEntryRubyText}); err != nil {
				return err
			}
			p.yield(Event{Kind: EventEnterRubyText})
			return nil

		case b == '|' && p.topIsCallNotWikiLink():
			textEnd := p.cursor
			p.cursor += 1
			p.flushText(start, textEnd)
			return p.handleCallArgumentSeparator()
		}

		if closed, err := p.tryCloseTop(start); err != nil {
			return err
		} else if closed {
			return nil
		}

		p.cursor++
	}
}

// pushStack enforces the configured inline-nesting bound (spec.md §5
// "the inline stack has a similar bound" to the block stack).
func (p *InlineParser) pushStack(entry inlineStackEntry) error {
	if len(p.stack) >= p.fs.maxInlineDepth {
		return &StackOverflowError{Depth: p.fs.maxInlineDepth, Kind: "inline"}
	}
	p.stack = append(p.stack, entry)
	return nil
}

func (p *InlineParser) peek(offset int) byte {
	b, _ := p.byteAt(p.cursor + offset)
	return b
}

func (p *InlineParser) topIs(kind inlineEntryKind) bool {
	if len(p.stack) == 0 {
		return false
	}
	return p.stack[len(p.stack)-1].kind == kind
}

// anyInStack reports whether any frame in the stack has the given
// kind, used for "not already in ruby" (spec.md §4.7's `[;` row),
// which rotext forbids nesting regardless of what else is open above
// it.
func (p *InlineParser) anyInStack(kind inlineEntryKind) bool {
	for _, e := range p.stack {
		if e.kind == kind {
			return true
		}
	}
	return false
}

func (p *InlineParser) topIsCallNotWikiLink() bool {
	if len(p.stack) == 0 {
		return false
	}
	top := p.stack[len(p.stack)-1]
	return top.kind == inlineEntryCall
}

func (p *InlineParser) flushText(start, end int) {
	if end > start {
		p.yield(Event{Kind: EventText, Range: Span{Start: start, End: end}})
	}
}

func (p *InlineParser) endOfSlice(start int) error {
	p.flushText(start, p.cursor)
	p.state = inlineIdle
	return nil
}

func (p *InlineParser) nextSourceIsNewLine() (bool, bool) {
	ev, ok := p.peekSrc(0)
	if !ok {
		return false, false
	}
	return ev.Kind == EventNewLine, true
}

// finishHardBreakOrLinesJoint implements spec.md §4.7's hard-break
// (`\`) and lines-joint (`_`) rows: both require the trailing marker
// byte, which is excluded from the emitted text, and both consume the
// NewLine event that follows without forwarding it a second time.
func (p *InlineParser) finishHardBreakOrLinesJoint(start int, hardBreak bool) error {
	p.flushText(start, p.cursor)
	nlEvent, _ := p.popSrc()
	if hardBreak {
		p.yield(Event{Kind: EventNewLine, Line: nlEvent.Line})
	}
	p.cursor = p.sliceEnd
	p.state = inlineIdle
	return nil
}

func isBacktick(b byte) bool { return b == '`' }

func emphasisFor(b byte) (EventKind, inlineStackEntry) {
	switch b {
	case '/':
		return EventEnterEmphasis, inlineStackEntry{kind: inlineEntryEmphasis}
	case '*':
		return EventEnterStrong, inlineStackEntry{kind: inlineEntryStrong}
	default:
		return EventEnterStrikethrough, inlineStackEntry{kind: inlineEntryStrikethrough}
	}
}

func isWhitespaceSurrounded(input []byte, colonPos int) bool {
	before := colonPos > 0 && (input[colonPos-1] == ' ' || input[colonPos-1] == '\t')
	after := colonPos+1 < len(input) && (input[colonPos+1] == ' ' || input[colonPos+1] == '\t')
	return before && after
}

// matchNumericCharacterReference implements spec.md §4.7's `&#...;`
// row. A failed match leaves the cursor untouched; it never backtracks
// past bytes it has not yet looked at, so there is no quadratic
// rescanning on pathological inputs (spec.md §9 Open Questions).
func (p *InlineParser) matchNumericCharacterReference() (Span, bool) {
	start := p.cursor
	i := p.cursor + 2
	isHex := false
	if b, ok := p.byteAt(i); ok && (b == 'x' || b == 'X') {
		isHex = true
		i++
	}
	digitsStart := i
	for {
		b, ok := p.byteAt(i)
		if !ok {
			break
		}
		if isHex && isASCIIHexDigit(b) {
			i++
			continue
		}
		if !isHex && isASCIIDigit(b) {
			i++
			continue
		}
		break
	}
	if i == digitsStart {
		return Span{}, false
	}
	if b, ok := p.byteAt(i); !ok || b != ';' {
		return Span{}, false
	}
	i++
	return Span{Start: start, End: i}, true
}

// matchRefLink implements spec.md §4.7's `>>` row: a floor address
// (`#` + digits) or an absolute address (letters, a `.`, more letters,
// an optional `#`, then digits).
func (p *InlineParser) matchRefLink() (Span, bool) {
	start := p.cursor
	i := p.cursor + 2

	if b, ok := p.byteAt(i); ok && b == '#' {
		j := i + 1
		digitsStart := j
		for {
			b, ok := p.byteAt(j)
			if !ok || !isASCIIDigit(b) {
				break
			}
			j++
		}
		if j == digitsStart {
			return Span{}, false
		}
		p.cursor = j
		return Span{Start: start, End: j}, true
	}

	j := i
	letters1Start := j
	for {
		b, ok := p.byteAt(j)
		if !ok || !isASCIILetter(b) {
			break
		}
		j++
	}
	if j == letters1Start {
		return Span{}, false
	}
	if b, ok := p.byteAt(j); !ok || b != '.' {
		return Span{}, false
	}
	j++
	for {
		b, ok := p.byteAt(j)
		if !ok || !isASCIILetter(b) {
			break
		}
		j++
	}
	if b, ok := p.byteAt(j); ok && b == '#' {
		j++
	}
	digitsStart := j
	for {
		b, ok := p.byteAt(j)
		if !ok || !isASCIIDigit(b) {
			break
		}
		j++
	}
	if j == digitsStart {
		return Span{}, false
	}
	p.cursor = j
	return Span{Start: start, End: j}, true
}

// matchDicexp implements spec.md §4.7's `[=` row: advance while
// tracking matching `[`/`]` depth until balanced.
func (p *InlineParser) matchDicexp() (Span, bool) {
	start := p.cursor
	depth := 0
	i := p.cursor
	for {
		b, ok := p.byteAt(i)
		if !ok {
			return Span{}, false
		}
		switch b {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				i++
				p.cursor = i
				return Span{Start: start, End: i}, true
			}
		}
		i++
	}
}

// matchWikiLinkOpening implements spec.md §4.7's `[[` row.
func (p *InlineParser) matchWikiLinkOpening(textStart int) (bool, error) {
	openStart := p.cursor
	p.cursor += 2

	var target Span
	var targetIsVE bool
	var ve verbatimEscaping

	if p.cursor < p.sliceEnd {
		targetStart := p.cursor
		for {
			b, ok := p.byteAt(p.cursor)
			if !ok || !(isNameByte(b) || b == '#') {
				break
			}
			p.cursor++
		}
		target = Span{Start: targetStart, End: p.cursor}
	} else {
		if ev, ok := p.peekSrc(0); ok && ev.Kind == EventVerbatimEscaping {
			p.popSrc()
			targetIsVE = true
			ve = verbatimEscaping{content: ev.Range, closedForcedly: ev.ClosedForcedly, lineAfter: ev.Line}
			target = ev.Range
		}
	}

	if b, ok := p.byteAt(p.cursor); ok && b == ']' && p.peek(1) == ']' {
		p.cursor += 2
		p.flushText(textStart, openStart)
		p.yield(Event{Kind: EventEnterWikiLink, Range: target})
		if targetIsVE {
			p.yield(makeInlineVerbatimEscapingEvent(ve))
		} else if !target.IsEmpty() {
			p.yield(Event{Kind: EventText, Range: target})
		}
		p.yield(Event{Kind: EventExitInline})
		return true, nil
	}

	if b, ok := p.byteAt(p.cursor); ok && b == '|' {
		p.cursor++
		p.flushText(textStart, openStart)
		p.yield(Event{Kind: EventEnterWikiLink, Range: target})
		if targetIsVE {
			p.yield(makeInlineVerbatimEscapingEvent(ve))
		}
		if err := p.pushStack(inlineStackEntry{kind: inlineEntryWikiLink}); err != nil {
			return false, err
		}
		return true, nil
	}

	// Mismatch: `[[` was not a wiki link. Treat it as literal text and
	// resume scanning right after it.
	p.cursor = openStart + 2
	return false, nil
}

// matchInlineCallOpening implements spec.md §4.7's `[{` row, mirroring
// the block-phase call name grammar (spec.md §4.5): an optional `#`
// extension prefix, a name that may come from a VerbatimEscaping
// event, terminated by `}]` (empty call) or `|` (arguments follow).
func (p *InlineParser) matchInlineCallOpening(textStart int) (bool, error) {
	openStart := p.cursor
	p.cursor += 2
	p.cursor += countContinuousWhitespace(p.input, p.cursor)

	isExtension := false
	if b, ok := p.byteAt(p.cursor); ok && b == '#' {
		isExtension = true
		p.cursor++
	}

	var name Span
	var nameIsVE bool
	var ve verbatimEscaping
	nameStart := p.cursor
	for {
		b, ok := p.byteAt(p.cursor)
		if !ok || !isNameByte(b) {
			break
		}
		p.cursor++
	}
	name = Span{Start: nameStart, End: p.cursor}

	if name.IsEmpty() && p.cursor >= p.sliceEnd {
		if ev, ok := p.peekSrc(0); ok && ev.Kind == EventVerbatimEscaping {
			p.popSrc()
			nameIsVE = true
			ve = verbatimEscaping{content: ev.Range, closedForcedly: ev.ClosedForcedly, lineAfter: ev.Line}
			name = ev.Range
		}
	}

	kind := EventEnterCallInline

	if b, ok := p.byteAt(p.cursor); ok && b == '}' && p.peek(1) == ']' {
		p.cursor += 2
		p.flushText(textStart, openStart)
		p.yield(Event{Kind: kind, Range: name, IsExtension: isExtension})
		if nameIsVE {
			p.yield(makeInlineVerbatimEscapingEvent(ve))
		}
		p.yield(Event{Kind: EventExitInline})
		return true, nil
	}

	if b, ok := p.byteAt(p.cursor); ok && b == '|' {
		p.cursor++
		p.flushText(textStart, openStart)
		p.yield(Event{Kind: kind, Range: name, IsExtension: isExtension})
		if nameIsVE {
			p.yield(makeInlineVerbatimEscapingEvent(ve))
		}
		if err := p.pushStack(inlineStackEntry{kind: inlineEntryCall, isExtension: isExtension}); err != nil {
			return false, err
		}
		if err := p.handleCallArgumentSeparator(); err != nil {
			return false, err
		}
		return true, nil
	}

	p.cursor = openStart + 2
	return false, nil
}

func makeInlineVerbatimEscapingEvent(ve verbatimEscaping) Event {
	return Event{Kind: EventVerbatimEscaping, Range: ve.content, ClosedForcedly: ve.closedForcedly, Line: ve.lineAfter}
}

// handleCallArgumentSeparator implements spec.md §4.7's `|` row: a
// verbatim argument (backtick-prefixed) becomes a
// CallVerbatimArgumentValue leaf; anything else is a normal argument
// whose content is parsed the same way as any other inline content.
func (p *InlineParser) handleCallArgumentSeparator() error {
	if b, ok := p.byteAt(p.cursor); ok && b == '`' {
		p.cursor++
		return p.pushStack(inlineStackEntry{kind: inlineEntryCallVerbatimArgumentValue})
	}
	return nil
}

// tryCloseTop checks the top of the inline stack's end condition
// against the current byte. WikiLink/Call close on `]]`/`}]`; Ruby
// closes on `;]`; RubyText closes on `]` alone or on the enclosing
// ruby's `;]` (popping both); CodeSpan closes on a matching backtick
// run followed by `]`; CallVerbatimArgumentValue closes on `|` or
// `}]` without consuming its own ExitInline (it has none).
func (p *InlineParser) tryCloseTop(textStart int) (bool, error) {
	if len(p.stack) == 0 {
		return false, nil
	}
	top := p.stack[len(p.stack)-1]
	b, ok := p.byteAt(p.cursor)
	if !ok {
		return false, nil
	}

	switch top.kind {
	case inlineEntryEmphasis:
		if b == '/' && p.peek(1) == ']' {
			return p.popAndClose(textStart, 2), nil
		}
	case inlineEntryStrong:
		if b == '*' && p.peek(1) == ']' {
			return p.popAndClose(textStart, 2), nil
		}
	case inlineEntryStrikethrough:
		if b == '~' && p.peek(1) == ']' {
			return p.popAndClose(textStart, 2), nil
		}
	case inlineEntryRuby:
		if b == ';' && p.peek(1) == ']' {
			return p.popAndClose(textStart, 2), nil
		}
	case inlineEntryRubyText:
		if b == ';' && p.peek(1) == ']' {
			p.flushText(textStart, p.cursor)
			p.cursor += 2
			p.stack = p.stack[:len(p.stack)-1] // RubyText
			p.yield(Event{Kind: EventExitInline})
			if n := len(p.stack); n > 0 && p.stack[n-1].kind == inlineEntryRuby {
				p.stack = p.stack[:n-1]
				p.yield(Event{Kind: EventExitInline})
			}
			return true, nil
		}
		if b == ']' {
			return p.popAndClose(textStart, 1), nil
		}
	case inlineEntryWikiLink:
		if b == ']' && p.peek(1) == ']' {
			return p.popAndClose(textStart, 2), nil
		}
	case inlineEntryCall:
		// `|` is intercepted earlier in doParsing's switch (it needs
		// the pre-token textEnd), so only `}]` reaches here.
		if b == '}' && p.peek(1) == ']' {
			return p.popAndClose(textStart, 2), nil
		}
	case inlineEntryCodeSpan:
		if b == '`' {
			if n := countContinuousCharacter(p.input[:p.sliceEnd], '`', p.cursor); n == top.backticks {
				if nb, ok := p.byteAt(p.cursor + n); ok && nb == ']' {
					contentStart, contentEnd := trimSingleOuterSpace(p.input, textStart, p.cursor)
					p.flushText(contentStart, contentEnd)
					p.cursor += n + 1
					p.stack = p.stack[:len(p.stack)-1]
					p.yield(Event{Kind: EventExitInline})
					return true, nil
				}
			}
		}
	case inlineEntryCallVerbatimArgumentValue:
		if b == '|' {
			p.flushText(textStart, p.cursor)
			p.cursor++
			p.stack = p.stack[:len(p.stack)-1]
			return true, p.handleCallArgumentSeparator()
		}
		if b == '}' && p.peek(1) == ']' {
			p.flushText(textStart, p.cursor)
			p.cursor += 2
			p.stack = p.stack[:len(p.stack)-1]
			if n := len(p.stack); n > 0 && p.stack[n-1].kind == inlineEntryCall {
				p.stack = p.stack[:n-1]
				p.yield(Event{Kind: EventExitInline})
			}
			return true, nil
		}
	}
	return false, nil
}

func (p *InlineParser) popAndClose(textStart, tokenLen int) bool {
	p.flushText(textStart, p.cursor)
	p.cursor += tokenLen
	p.stack = p.stack[:len(p.stack)-1]
	p.yield(Event{Kind: EventExitInline})
	return true
}
