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

import (
	"io"
)

// parserState is the block state machine's top-level mode (spec.md
// §4.4).
type parserState uint8

const (
	stateExpectingItemLikeOpening parserState = iota
	stateExpectingBracedOpening
	stateExpectingLeafContent
	stateExiting
	stateToApplyShallowSnapshot
	stateEnded
)

type exitingUntilKind uint8

const (
	exitingOnlyNItemLikesRemain exitingUntilKind = iota
	exitingTopIsTable
	exitingTopIsCall
	exitingTopIsAwareOfDoublePipes
	exitingStackIsEmpty
)

type exitingUntil struct {
	kind     exitingUntilKind
	n        int
	alsoExit bool
}

type andThenKind uint8

const (
	andThenEnterItemLikeAndExpectItemLike andThenKind = iota
	andThenExpectBracedOpening
	andThenYieldAndExpectBracedOpening
	andThenPushCallArgumentBeginningAndExpectBracedOpening
	andThenEnd
	andThenToBeDetermined
)

type pendingItemLike struct {
	present bool
	kind    itemLikeKind
	meta    frameMeta
}

type pendingContainer struct {
	present bool
	kind    containerKind
	meta    frameMeta
}

type exitingAndThen struct {
	kind       andThenKind
	container  pendingContainer
	itemLike   pendingItemLike
	yieldEvent Event
}

type exitingState struct {
	until   exitingUntil
	andThen exitingAndThen
}

type rollbackAndThenKind uint8

const (
	rollbackTryParseAsParagraph rollbackAndThenKind = iota
	rollbackYieldArgumentNoneAndExpectBracedOpening
)

type rollbackState struct {
	snapshot shallowSnapshot
	andThen  rollbackAndThenKind
}

type itemLikesMode uint8

const (
	itemLikesProcessingNew itemLikesMode = iota
	itemLikesMatchingLastLine
)

type itemLikesState struct {
	mode      itemLikesMode
	nTotal    int
	processed int
}

func (s itemLikesState) hasUnprocessedAtCurrentLine() bool {
	return s.mode == itemLikesMatchingLastLine && s.processed < s.nTotal
}

// Parser is the block-phase push-down automaton of spec.md §4. It
// reads the whole input up front (rotext's Non-goals rule out
// streaming input) and exposes a restartable Next method, the same
// shape as the teacher's NextBlock.
type Parser struct {
	input []byte
	inner *blockInner

	state         parserState
	exiting       exitingState
	rollback      rollbackState
	itemLikes     itemLikesState
	spacesBefore  int

	err error
}

// NewParser reads all of r and returns a block parser over it. Per
// spec.md §1's Non-goals, rotext requires the full input up front;
// buffering here preserves the io.Reader-based construction idiom the
// teacher uses (NewBlockParser) without pretending to support
// incremental streaming.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewParserFromBytes(input, opts...), nil
}

// NewParserFromBytes constructs a block parser directly over an
// in-memory buffer, matching rotext_core's Parser::new(input: &[u8]).
func NewParserFromBytes(input []byte, opts ...ParserOption) *Parser {
	fs := defaultFeatureSet()
	for _, opt := range opts {
		opt(&fs)
	}
	return &Parser{
		input:     input,
		inner:     newBlockInner(fs),
		state:     stateExpectingItemLikeOpening,
		itemLikes: itemLikesState{mode: itemLikesProcessingNew},
	}
}

// Next returns the next event, io.EOF once the stream is exhausted,
// or a [StackOverflowError]. Once an error other than io.EOF is
// returned the parser must not be used again (spec.md §7).
func (p *Parser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	for {
		if ev, ok := p.inner.popPending(); ok {
			return ev, nil
		}
		if p.state == stateEnded {
			return Event{}, io.EOF
		}
		if err := p.step(); err != nil {
			p.err = err
			return Event{}, err
		}
	}
}

func (p *Parser) step() error {
	switch p.state {
	case stateToApplyShallowSnapshot:
		return p.applyShallowSnapshot()
	case stateExiting:
		return p.doExit()
	default:
		return p.doExpecting()
	}
}

// doExpecting handles the three Expecting sub-states (spec.md §4.4
// main loop step 3), consuming leading whitespace once per call.
func (p *Parser) doExpecting() error {
	if p.inner.stack.shouldResetState() {
		p.inner.stack.resetShouldResetState()
		if n := p.inner.stack.itemLikesInStack(); n > 0 {
			p.itemLikes = itemLikesState{mode: itemLikesMatchingLastLine, nTotal: n}
		} else {
			p.itemLikes = itemLikesState{mode: itemLikesProcessingNew}
		}
		p.state = stateExpectingItemLikeOpening
	}

	spaces := countContinuousWhitespace(p.input, p.inner.cursor())
	if spaces > 0 {
		p.inner.moveCursorForward(spaces)
	}
	p.spacesBefore = spaces

	first, ok := byteAt(p.input, p.inner.cursor())
	if !ok {
		if p.inner.stack.isEmpty() && !p.inner.stack.isTopLeafSome() {
			p.state = stateEnded
		} else {
			p.beginExiting(exitingUntil{kind: exitingStackIsEmpty}, exitingAndThen{kind: andThenEnd})
		}
		return nil
	}

	switch p.state {
	case stateExpectingItemLikeOpening:
		if !p.itemLikes.hasUnprocessedAtCurrentLine() && p.inner.stack.isTopLeafSome() {
			p.state = stateExpectingLeafContent
			return p.doExpecting()
		}
		return p.parseItemLikeOpening(first)
	case stateExpectingBracedOpening:
		if p.inner.stack.isTopLeafSome() {
			p.state = stateExpectingLeafContent
			return p.doExpecting()
		}
		return p.parseBracedOpening(first)
	default: // stateExpectingLeafContent
		if leaf := p.inner.stack.popTopLeaf(); leaf != nil {
			return p.parseLeafContent(leaf)
		}
		return p.parseLeafOpening(first)
	}
}

func (p *Parser) beginExiting(until exitingUntil, andThen exitingAndThen) {
	p.exiting = exitingState{until: until, andThen: andThen}
	p.state = stateExiting
}

// marker describes one matched item-like/block-quote line marker.
type marker struct {
	container    containerKind
	isBlockQuote bool
	itemKind     itemLikeKind
}

// parseItemLikeOpening implements spec.md §4.4 "Item-like opening".
// In MatchingLastLine mode it re-matches one ancestor container marker
// per call against the first not-yet-processed ancestor container
// (outermost to innermost), advancing `processed`. A BlockQuote marker
// that matches its ancestor simply continues the same container in
// place -- a BlockQuote frame has no separate item to recreate. Every
// other item-like marker (OL/UL/DL) always closes and reopens its
// LI/DT/DD on a match, since a repeated `#`/`*`/`;`/`:` marker starts a
// new item even when it continues the same enclosing container; it
// additionally replaces the container itself when the kind differs. A
// mismatched marker or a non-marker byte exits down to the containers
// already re-matched on this line (OnlyNItemLikesRemain{n: processed}).
func (p *Parser) parseItemLikeOpening(first byte) error {
	m, matched := matchItemLikeMarker(p.input, p.inner.cursor(), first)
	if !matched {
		if p.itemLikes.mode == itemLikesMatchingLastLine {
			p.beginExiting(
				exitingUntil{kind: exitingOnlyNItemLikesRemain, n: p.itemLikes.processed},
				exitingAndThen{kind: andThenExpectBracedOpening},
			)
			return nil
		}
		p.state = stateExpectingBracedOpening
		return p.doExpecting()
	}

	if p.itemLikes.mode == itemLikesMatchingLastLine {
		ancestorKind, ok := p.inner.stack.nthItemLikeContainerKind(p.itemLikes.processed)
		sameKind := ok && ancestorKind == m.container

		if m.isBlockQuote && sameKind {
			p.inner.moveCursorForward(2)
			p.itemLikes.processed++
			if p.itemLikes.processed == p.itemLikes.nTotal {
				p.itemLikes.mode = itemLikesProcessingNew
			}
			return nil
		}

		if m.isBlockQuote {
			// Ancestor slot isn't a BlockQuote: unwind to it and open
			// a fresh BlockQuote in its place. A BlockQuote frame has
			// no item-like child.
			p.inner.moveCursorForward(2)
			p.beginExiting(
				exitingUntil{kind: exitingOnlyNItemLikesRemain, n: p.itemLikes.processed},
				exitingAndThen{kind: andThenEnterItemLikeAndExpectItemLike,
					container: pendingContainer{present: true, kind: m.container, meta: p.newMeta()}},
			)
			return nil
		}

		p.inner.moveCursorForward(2)
		if sameKind {
			p.itemLikes.processed++
			p.beginExiting(
				exitingUntil{kind: exitingOnlyNItemLikesRemain, n: p.itemLikes.processed, alsoExit: true},
				exitingAndThen{kind: andThenEnterItemLikeAndExpectItemLike,
					itemLike: pendingItemLike{present: true, kind: m.itemKind, meta: p.newMeta()}},
			)
			return nil
		}
		p.beginExiting(
			exitingUntil{kind: exitingOnlyNItemLikesRemain, n: p.itemLikes.processed},
			exitingAndThen{kind: andThenEnterItemLikeAndExpectItemLike,
				container: pendingContainer{present: true, kind: m.container, meta: p.newMeta()},
				itemLike:  pendingItemLike{present: true, kind: m.itemKind, meta: p.newMeta()}},
		)
		return nil
	}

	p.inner.moveCursorForward(2)
	containerMeta := p.newMeta()
	if err := p.inner.stack.pushItemLikeContainer(m.container, containerMeta); err != nil {
		return err
	}
	p.inner.yield(Event{Kind: containerEnterKind(m.container), ID: containerMeta.id, Line: p.inner.lineOrZero(containerMeta.startLine)})

	if m.isBlockQuote {
		return nil
	}

	itemMeta := p.newMeta()
	if err := p.inner.stack.pushItemLike(m.itemKind, itemMeta); err != nil {
		return err
	}
	p.inner.yield(Event{Kind: itemLikeEnterKind(m.itemKind), ID: itemMeta.id, Line: p.inner.lineOrZero(itemMeta.startLine)})
	return nil
}

func (p *Parser) newMeta() frameMeta {
	return frameMeta{id: p.inner.allocateID(), startLine: p.inner.currentLine()}
}

func matchItemLikeMarker(input []byte, cursor int, first byte) (marker, bool) {
	if !isMarkerFollowedBySpaceOrEOL(input, cursor) {
		return marker{}, false
	}
	switch first {
	case '>':
		return marker{container: containerBlockQuote, isBlockQuote: true}, true
	case '#':
		return marker{container: containerOL, itemKind: itemLikeLI}, true
	case '*':
		return marker{container: containerUL, itemKind: itemLikeLI}, true
	case ';':
		return marker{container: containerDL, itemKind: itemLikeDT}, true
	case ':':
		return marker{container: containerDL, itemKind: itemLikeDD}, true
	default:
		return marker{}, false
	}
}

func isMarkerFollowedBySpaceOrEOL(input []byte, cursor int) bool {
	next, ok := byteAt(input, cursor+1)
	if !ok {
		return true
	}
	return next == ' ' || next == '\r' || next == '\n'
}

func containerEnterKind(kind containerKind) EventKind {
	switch kind {
	case containerBlockQuote:
		return EventEnterBlockQuote
	case containerOL:
		return EventEnterOrderedList
	case containerUL:
		return EventEnterUnorderedList
	default:
		return EventEnterDescriptionList
	}
}

func itemLikeEnterKind(kind itemLikeKind) EventKind {
	switch kind {
	case itemLikeDT:
		return EventEnterDescriptionTerm
	case itemLikeDD:
		return EventEnterDescriptionDetails
	default:
		return EventEnterListItem
	}
}

// parseBracedOpening implements spec.md §4.4 "Braced opening".
func (p *Parser) parseBracedOpening(first byte) error {
	if first == '{' {
		next := peekByte(p.input, p.inner.cursor()+1)
		switch next {
		case '|':
			p.inner.moveCursorForward(2)
			meta := p.newMeta()
			if err := p.inner.stack.pushTable(meta); err != nil {
				return err
			}
			p.inner.yield(Event{Kind: EventEnterTable, ID: meta.id, Line: p.inner.lineOrZero(meta.startLine)})
			p.state = stateExpectingBracedOpening
			return nil
		case '{':
			snap := p.inner.takeShallowSnapshot()
			p.inner.moveCursorForward(2)
			p.inner.stack.pushTopLeaf(topLeaf{
				kind:     topLeafPotentialCallBeginning,
				meta:     p.newMeta(),
				snapshot: snap,
			})
			p.state = stateExpectingLeafContent
			return nil
		}
	}
	return p.parseLeafOpening(first)
}

// parseLeafOpening implements spec.md §4.4 "Leaf opening".
func (p *Parser) parseLeafOpening(first byte) error {
	switch first {
	case '\r', '\n':
		// A blank line opens no block.
		n := countLineBreak(p.input, p.inner.cursor())
		p.inner.increaseCurrentLine()
		p.inner.moveCursorForward(n)
		p.state = stateExpectingItemLikeOpening
		return nil
	case '!', '|':
		// A table indicator at the start of a line opens no paragraph.
		next := peekByte(p.input, p.inner.cursor()+1)
		if p.inner.stack.topIsTable() && (next == first || (first == '|' && (next == '}' || next == '+' || next == '-'))) {
			_, end := parseNormal(p.input, p.inner, p.paragraphEndCondition())
			return p.enterTableOrCallStructural(end)
		}
	case '-':
		if n := countContinuousCharacter(p.input, '-', p.inner.cursor()); n >= 3 {
			after := p.inner.cursor() + n
			if b, ok := byteAt(p.input, after); !ok || b == '\r' || b == '\n' {
				meta := p.newMeta()
				p.inner.moveCursorForward(n)
				p.inner.yield(Event{Kind: EventThematicBreak, ID: meta.id, Line: p.inner.lineOrZero(meta.startLine)})
				p.state = stateExpectingItemLikeOpening
				return nil
			}
		}
	case '=':
		if n := countContinuousCharacter(p.input, '=', p.inner.cursor()); n >= 1 && n <= 6 {
			next, ok := byteAt(p.input, p.inner.cursor()+n)
			if ok && (next == ' ' || next == '\t') {
				p.inner.moveCursorForward(n)
				meta := p.newMeta()
				p.inner.stack.pushTopLeaf(topLeaf{kind: topLeafHeading, meta: meta, level: uint8(n)})
				p.inner.yield(Event{Kind: EventEnterHeading, ID: meta.id, Level: uint8(n), Line: p.inner.lineOrZero(meta.startLine)})
				p.state = stateExpectingLeafContent
				return nil
			}
		}
	case '`':
		if n := countContinuousCharacter(p.input, '`', p.inner.cursor()); n >= 3 {
			indent := p.spacesBefore
			p.inner.moveCursorForward(n)
			meta := p.newMeta()
			p.inner.stack.pushTopLeaf(topLeaf{kind: topLeafCodeBlock, meta: meta, backticks: n, indent: indent, codeState: codeBlockInInfoString})
			p.inner.yield(Event{Kind: EventEnterCodeBlock, ID: meta.id, Line: p.inner.lineOrZero(meta.startLine)})
			p.state = stateExpectingLeafContent
			return nil
		}
	}
	return p.enterParagraph()
}

func (p *Parser) enterParagraph() error {
	meta := p.newMeta()
	p.inner.stack.pushTopLeaf(topLeaf{kind: topLeafParagraph, meta: meta})
	p.inner.yield(Event{Kind: EventEnterParagraph, ID: meta.id, Line: p.inner.lineOrZero(meta.startLine)})
	p.state = stateExpectingLeafContent
	return nil
}

// parseLeafContent implements spec.md §4.4 "Leaf content", dispatching
// on the current top-leaf variant.
func (p *Parser) parseLeafContent(leaf *topLeaf) error {
	switch leaf.kind {
	case topLeafParagraph:
		return p.parseParagraphContent(leaf)
	case topLeafHeading:
		return p.parseHeadingContent(leaf)
	case topLeafCodeBlock:
		return p.parseCodeBlockContent(leaf)
	case topLeafPotentialCallBeginning:
		return p.parsePotentialCallBeginning(leaf)
	case topLeafCallArgumentBeginning:
		return p.parseCallArgumentBeginning(leaf)
	default: // topLeafCallVerbatimArgumentValue
		return p.parseCallVerbatimArgumentValue(leaf)
	}
}

func (p *Parser) paragraphEndCondition() endCondition {
	return endCondition{
		tableRelated:                 p.inner.stack.topIsTable(),
		doublePipes:                  p.inner.stack.topIsTable() || p.inner.stack.topIsCall(),
		callClosing:                  p.inner.stack.topIsCall(),
		descriptionDefinitionOpening: p.inner.stack.topIsDescriptionTerm(),
	}
}

func (p *Parser) parseParagraphContent(leaf *topLeaf) error {
	rng, end := parseNormal(p.input, p.inner, p.paragraphEndCondition())

	if rng.IsEmpty() && leaf.hasPendingNewLine && end.kind != endVerbatimEscaping {
		p.exitParagraph(leaf)
		switch end.kind {
		case endTableRelated, endDoublePipes:
			return p.enterTableOrCallStructural(end)
		case endMatchedCallClosing:
			p.beginExiting(exitingUntil{kind: exitingTopIsCall, alsoExit: true}, exitingAndThen{kind: andThenExpectBracedOpening})
			return nil
		case endDescriptionDefinitionOpening:
			return p.enterDescriptionDetails()
		}
		return p.retryAfterExit()
	}

	if leaf.hasPendingNewLine {
		p.inner.yield(Event{Kind: EventNewLine, Line: p.inner.lineOrZero(leaf.pendingNewLine)})
		leaf.hasPendingNewLine = false
	}
	if !rng.IsEmpty() {
		p.inner.yield(Event{Kind: EventUnparsed, Range: rng})
	}

	switch end.kind {
	case endVerbatimEscaping:
		p.inner.yield(makeVerbatimEscapingEvent(p.inner, end.ve))
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	case endTableRelated, endDoublePipes:
		p.exitParagraph(leaf)
		return p.enterTableOrCallStructural(end)
	case endMatchedCallClosing:
		p.exitParagraph(leaf)
		p.beginExiting(exitingUntil{kind: exitingTopIsCall, alsoExit: true}, exitingAndThen{kind: andThenExpectBracedOpening})
		return nil
	case endDescriptionDefinitionOpening:
		p.exitParagraph(leaf)
		return p.enterDescriptionDetails()
	case endNewLine:
		leaf.hasPendingNewLine = true
		leaf.pendingNewLine = end.nl
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	default: // endEOF, endNone
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	}
}

func (p *Parser) exitParagraph(leaf *topLeaf) {
	p.inner.yield(p.inner.makeExitBlock(leaf.meta))
}

func (p *Parser) retryAfterExit() error {
	p.state = stateExpectingItemLikeOpening
	return nil
}

func (p *Parser) enterTableOrCallStructural(end lineEnd) error {
	if p.inner.stack.topIsTable() {
		if end.kind == endDoublePipes {
			p.inner.yield(Event{Kind: EventIndicateTableDataCell})
			p.state = stateExpectingBracedOpening
			return nil
		}
		var kind EventKind
		switch end.tableRelated {
		case tableClosing:
			p.beginExiting(exitingUntil{kind: exitingTopIsTable, alsoExit: true}, exitingAndThen{kind: andThenExpectBracedOpening})
			return nil
		case tableCaptionIndicator:
			kind = EventIndicateTableCaption
		case tableRowIndicator:
			kind = EventIndicateTableRow
		case tableHeaderCellIndicator:
			kind = EventIndicateTableHeaderCell
		default:
			kind = EventIndicateTableDataCell
		}
		p.inner.yield(Event{Kind: kind})
		p.state = stateExpectingBracedOpening
		return nil
	}
	if p.inner.stack.topIsCall() {
		p.inner.stack.pushTopLeaf(topLeaf{
			kind:     topLeafCallArgumentBeginning,
			meta:     p.newMeta(),
			snapshot: p.inner.takeShallowSnapshot(),
		})
		p.state = stateExpectingLeafContent
		return nil
	}
	p.state = stateExpectingItemLikeOpening
	return nil
}

// enterDescriptionDetails implements the "::" transition: the DT
// guaranteed on top (paragraphEndCondition only enables
// descriptionDefinitionOpening when topIsDescriptionTerm) exits
// directly, and a DD enters in its place -- no container unwinding,
// since DT/DD are bare item-likes that don't themselves count toward
// itemLikesInStack (only their enclosing DescriptionList does).
func (p *Parser) enterDescriptionDetails() error {
	dt, _ := p.inner.stack.pop()
	p.inner.yield(p.inner.makeExitBlock(dt.meta))

	meta := p.newMeta()
	if err := p.inner.stack.pushItemLike(itemLikeDD, meta); err != nil {
		return err
	}
	p.inner.yield(Event{Kind: EventEnterDescriptionDetails, ID: meta.id, Line: p.inner.lineOrZero(meta.startLine)})
	p.state = stateExpectingBracedOpening
	return nil
}

func (p *Parser) parseHeadingContent(leaf *topLeaf) error {
	end := endCondition{atxClosing: atxClosingSpec{active: true, char: '=', count: int(leaf.level)}}
	rng, le := parseNormal(p.input, p.inner, end)
	if !rng.IsEmpty() {
		p.inner.yield(Event{Kind: EventUnparsed, Range: rng})
	}
	switch le.kind {
	case endVerbatimEscaping:
		p.inner.yield(makeVerbatimEscapingEvent(p.inner, le.ve))
		leaf.hasContentBefore = true
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	default:
		p.inner.yield(p.inner.makeExitBlock(leaf.meta))
		return p.retryAfterExit()
	}
}

func (p *Parser) parseCodeBlockContent(leaf *topLeaf) error {
	if leaf.codeState == codeBlockInInfoString {
		rng, end := parseVerbatim(p.input, p.inner, verbatimEndCondition{}, false, 0)
		if !rng.IsEmpty() {
			p.inner.yield(Event{Kind: EventText, Range: rng})
		}
		if end.kind == endNewLine {
			p.inner.yield(Event{Kind: EventIndicateCodeBlockCode})
			leaf.codeState = codeBlockAtFirstLineBeginning
			p.inner.stack.pushTopLeaf(*leaf)
			return nil
		}
		p.inner.yield(p.inner.makeExitBlock(leaf.meta))
		return p.retryAfterExit()
	}

	atBeginning := leaf.codeState == codeBlockAtFirstLineBeginning || leaf.codeState == codeBlockAtLineBeginning
	end := verbatimEndCondition{onFence: fenceSpec{active: true, char: '`', minimumCount: leaf.backticks}}
	rng, le := parseVerbatim(p.input, p.inner, end, atBeginning, leaf.indent)
	if !rng.IsEmpty() {
		p.inner.yield(Event{Kind: EventText, Range: rng})
	}
	switch le.kind {
	case endFence:
		p.inner.yield(p.inner.makeExitBlock(leaf.meta))
		return p.retryAfterExit()
	case endNewLine:
		p.inner.yield(Event{Kind: EventNewLine, Line: p.inner.lineOrZero(le.nl)})
		leaf.codeState = codeBlockAtLineBeginning
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	case endVerbatimEscaping:
		p.inner.yield(makeVerbatimEscapingEvent(p.inner, le.ve))
		leaf.codeState = codeBlockNormal
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	default:
		p.inner.yield(p.inner.makeExitBlock(leaf.meta))
		return p.retryAfterExit()
	}
}

func makeVerbatimEscapingEvent(b *blockInner, ve verbatimEscaping) Event {
	return Event{
		Kind:           EventVerbatimEscaping,
		Range:          ve.content,
		ClosedForcedly: ve.closedForcedly,
		Line:           b.lineOrZero(ve.lineAfter),
	}
}

// doExit implements spec.md §4.4 "Exiting": drain a top-leaf first,
// then unwind containers until the predicate holds, then run
// and_then.
func (p *Parser) doExit() error {
	if leaf := p.inner.stack.popTopLeaf(); leaf != nil {
		return p.exitLeafForUnwind(leaf)
	}

	isDone, shouldExitTop := p.evaluateExitingUntil()

	if shouldExitTop {
		entry, ok := p.inner.stack.pop()
		if ok {
			p.inner.yield(p.inner.makeExitBlock(entry.meta))
		}
	}

	if !isDone {
		return nil
	}
	return p.runAndThen()
}

func (p *Parser) evaluateExitingUntil() (isDone, shouldExitTop bool) {
	switch p.exiting.until.kind {
	case exitingOnlyNItemLikesRemain:
		isDone = p.inner.stack.itemLikesInStack() == p.exiting.until.n
		if p.exiting.until.alsoExit {
			isDone = isDone && p.inner.stack.topIsItemLikeContainer()
		}
		return isDone, !isDone
	case exitingTopIsTable:
		isDone = p.inner.stack.topIsTable()
		return isDone, p.exiting.until.alsoExit
	case exitingTopIsCall:
		isDone = p.inner.stack.topIsCall()
		return isDone, p.exiting.until.alsoExit
	case exitingTopIsAwareOfDoublePipes:
		if p.inner.stack.topIsTable() {
			p.exiting.andThen = exitingAndThen{kind: andThenYieldAndExpectBracedOpening, yieldEvent: Event{Kind: EventIndicateTableDataCell}}
			return true, false
		}
		if p.inner.stack.topIsCall() {
			p.exiting.andThen = exitingAndThen{kind: andThenPushCallArgumentBeginningAndExpectBracedOpening}
			return true, false
		}
		return false, true
	default: // exitingStackIsEmpty
		isDone = p.inner.stack.isEmpty()
		return isDone, !isDone
	}
}

func (p *Parser) runAndThen() error {
	switch p.exiting.andThen.kind {
	case andThenEnterItemLikeAndExpectItemLike:
		if p.exiting.andThen.container.present {
			c := p.exiting.andThen.container
			if err := p.inner.stack.pushItemLikeContainer(c.kind, c.meta); err != nil {
				return err
			}
			p.inner.yield(Event{Kind: containerEnterKind(c.kind), ID: c.meta.id, Line: p.inner.lineOrZero(c.meta.startLine)})
		}
		if il := p.exiting.andThen.itemLike; il.present {
			if err := p.inner.stack.pushItemLike(il.kind, il.meta); err != nil {
				return err
			}
			p.inner.yield(Event{Kind: itemLikeEnterKind(il.kind), ID: il.meta.id, Line: p.inner.lineOrZero(il.meta.startLine)})
		}
		p.itemLikes = itemLikesState{mode: itemLikesProcessingNew}
		p.state = stateExpectingItemLikeOpening
	case andThenExpectBracedOpening:
		p.state = stateExpectingBracedOpening
	case andThenYieldAndExpectBracedOpening:
		p.inner.yield(p.exiting.andThen.yieldEvent)
		p.state = stateExpectingBracedOpening
	case andThenPushCallArgumentBeginningAndExpectBracedOpening:
		p.inner.stack.pushTopLeaf(topLeaf{
			kind:     topLeafCallArgumentBeginning,
			meta:     p.newMeta(),
			snapshot: p.inner.takeShallowSnapshot(),
		})
		p.state = stateExpectingBracedOpening
	case andThenEnd:
		p.state = stateEnded
	case andThenToBeDetermined:
		// unreachable in a correctly driven state machine.
		p.state = stateEnded
	}
	return nil
}

// exitLeafForUnwind handles a top-leaf encountered while unwinding
// (spec.md §4.4 Exiting, first bullet list).
func (p *Parser) exitLeafForUnwind(leaf *topLeaf) error {
	switch leaf.kind {
	case topLeafParagraph, topLeafHeading, topLeafCodeBlock:
		if leaf.kind == topLeafCodeBlock && leaf.codeState == codeBlockInInfoString {
			p.inner.yield(Event{Kind: EventIndicateCodeBlockCode})
		}
		p.inner.yield(p.inner.makeExitBlock(leaf.meta))
		return nil
	case topLeafPotentialCallBeginning:
		if leaf.hasNamePart {
			p.materializeEmptyCall(leaf)
			return nil
		}
		p.inner.restoreShallowSnapshot(leaf.snapshot)
		p.rollback = rollbackState{snapshot: leaf.snapshot, andThen: rollbackTryParseAsParagraph}
		p.state = stateToApplyShallowSnapshot
		return nil
	case topLeafCallArgumentBeginning:
		p.inner.restoreShallowSnapshot(leaf.snapshot)
		p.rollback = rollbackState{snapshot: leaf.snapshot, andThen: rollbackYieldArgumentNoneAndExpectBracedOpening}
		p.state = stateToApplyShallowSnapshot
		return nil
	default: // topLeafCallVerbatimArgumentValue
		return nil
	}
}

func (p *Parser) materializeEmptyCall(leaf *topLeaf) {
	meta := leaf.meta
	kind := EventEnterCallOnTemplate
	if leaf.isExtension {
		kind = EventEnterCallOnExtension
	}
	p.inner.yield(Event{Kind: kind, ID: meta.id, Range: leaf.namePart, Line: p.inner.lineOrZero(meta.startLine)})
	p.inner.yield(p.inner.makeExitBlock(meta))
}

// applyShallowSnapshot implements spec.md §4.4
// "ToApplyShallowSnapshot": the cursor/line/pending-queue were already
// restored when the rollback was decided, so this just resumes
// parsing in the designated fallback mode.
func (p *Parser) applyShallowSnapshot() error {
	switch p.rollback.andThen {
	case rollbackTryParseAsParagraph:
		return p.enterParagraph()
	default: // rollbackYieldArgumentNoneAndExpectBracedOpening
		p.inner.yield(Event{Kind: EventIndicateCallNormalArgument})
		p.state = stateExpectingBracedOpening
		return nil
	}
}
