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

// This file implements spec.md §4.5 (call parsing) for the block
// phase: the PotentialCallBeginning and CallArgumentBeginning
// top-leaf branches of parseLeafContent, and the verbatim argument
// value leaf. The inline call form ([{ ... }]) mirrors this logic in
// inline.go.

// parsePotentialCallBeginning matches a call NAME (spec.md §4.5 step
// 2-3). Whitespace around the name is skipped by parseNormal's
// leading-space handling (performed once per doExpecting call); here
// we additionally skip whitespace before re-entering matching mode on
// resumption, since a name may legitimately start after the `{{` on
// the very first visit.
func (p *Parser) parsePotentialCallBeginning(leaf *topLeaf) error {
	spaces := countContinuousWhitespace(p.input, p.inner.cursor())
	p.inner.moveCursorForward(spaces)

	isExtension := leaf.isExtension
	nameStart := p.inner.cursor()
	if !leaf.hasNamePart {
		if b, ok := byteAt(p.input, p.inner.cursor()); ok && b == '#' {
			isExtension = true
			p.inner.moveCursorForward(1)
			nameStart = p.inner.cursor()
		}
	}

	rng, end := parseNormal(p.input, p.inner, endCondition{matchMode: callMatchName})

	switch end.kind {
	case endVerbatimEscaping:
		if !leaf.hasNamePart {
			leaf.hasNamePart = true
			leaf.namePart = end.ve.content
			leaf.isExtension = isExtension
		}
		p.inner.yield(makeVerbatimEscapingEvent(p.inner, end.ve))
		p.inner.stack.pushTopLeaf(*leaf)
		return nil

	case endMatchedCallClosing:
		name := unionName(leaf, rng, nameStart)
		p.yieldEmptyCall(leaf.meta, isExtension, name)
		p.state = stateExpectingItemLikeOpening
		return nil

	case endMatchedCallArgumentIndicator:
		name := unionName(leaf, rng, nameStart)
		if err := p.inner.stack.pushCall(leaf.meta, isExtension); err != nil {
			return err
		}
		kind := EventEnterCallOnTemplate
		if isExtension {
			kind = EventEnterCallOnExtension
		}
		p.inner.yield(Event{Kind: kind, ID: leaf.meta.id, Range: name, Line: p.inner.lineOrZero(leaf.meta.startLine)})
		p.inner.stack.pushTopLeaf(topLeaf{
			kind:     topLeafCallArgumentBeginning,
			meta:     p.newMeta(),
			snapshot: p.inner.takeShallowSnapshot(),
		})
		p.state = stateExpectingLeafContent
		return nil

	case endNone, endNewLine:
		if !rng.IsEmpty() && !leaf.hasNamePart {
			leaf.hasNamePart = true
			leaf.namePart = rng
			leaf.isExtension = isExtension
		}
		p.inner.stack.pushTopLeaf(*leaf)
		return nil

	default:
		// Mismatch: roll back and reparse the whole leaf as a
		// paragraph (spec.md §4.5 step 3, last bullet).
		p.rollback = rollbackState{snapshot: leaf.snapshot, andThen: rollbackTryParseAsParagraph}
		p.inner.restoreShallowSnapshot(leaf.snapshot)
		p.state = stateToApplyShallowSnapshot
		return nil
	}
}

func unionName(leaf *topLeaf, rng Span, nameStart int) Span {
	if leaf.hasNamePart {
		return leaf.namePart
	}
	if rng.IsEmpty() {
		return Span{Start: nameStart, End: nameStart}
	}
	return rng
}

func (p *Parser) yieldEmptyCall(meta frameMeta, isExtension bool, name Span) {
	kind := EventEnterCallOnTemplate
	if isExtension {
		kind = EventEnterCallOnExtension
	}
	p.inner.yield(Event{Kind: kind, ID: meta.id, Range: name, Line: p.inner.lineOrZero(meta.startLine)})
	p.inner.yield(p.inner.makeExitBlock(meta))
}

// parseCallArgumentBeginning matches an ARG name (spec.md §4.5 "ARG
// name"): NAME [= | `] or a bare/verbatim argument with no name.
func (p *Parser) parseCallArgumentBeginning(leaf *topLeaf) error {
	spaces := countContinuousWhitespace(p.input, p.inner.cursor())
	p.inner.moveCursorForward(spaces)

	if b, ok := byteAt(p.input, p.inner.cursor()); ok && b == '`' {
		p.inner.moveCursorForward(1)
		return p.parseCallVerbatimArgumentName(leaf)
	}

	nameStart := p.inner.cursor()
	rng, end := parseNormal(p.input, p.inner, endCondition{matchMode: callMatchArgumentName})

	switch end.kind {
	case endMatched:
		if end.hasMatchedEqualSign {
			name := rng
			if name.IsEmpty() {
				name = Span{Start: nameStart, End: nameStart}
			}
			p.inner.yield(Event{Kind: EventIndicateCallNormalArgument, HasArgName: true, ArgName: name})
			p.state = stateExpectingBracedOpening
			return nil
		}
	case endMatchedCallClosing, endMatchedCallArgumentIndicator:
		// No `=` seen: what was scanned is the argument's own
		// content, not a name. Roll back to the beginning of the
		// argument and parse it as an unnamed normal argument.
	}

	p.inner.restoreShallowSnapshot(leaf.snapshot)
	p.inner.yield(Event{Kind: EventIndicateCallNormalArgument})
	p.state = stateExpectingBracedOpening
	return nil
}

// parseCallVerbatimArgumentName handles the two verbatim ARG forms
// (spec.md §4.5): an unnamed `` `verbatim-content `` and a named
// `` ` name = verbatim-content ``. The cursor is positioned just past
// the leading backtick. We speculatively try to match a NAME followed
// by `=`; on failure we roll back to right after the backtick and
// treat everything from there as unnamed verbatim content.
func (p *Parser) parseCallVerbatimArgumentName(leaf *topLeaf) error {
	afterBacktick := p.inner.takeShallowSnapshot()

	nameStart := p.inner.cursor()
	rng, end := parseNormal(p.input, p.inner, endCondition{matchMode: callMatchArgumentName})

	if end.kind == endMatched && end.hasMatchedEqualSign {
		name := rng
		if name.IsEmpty() {
			name = Span{Start: nameStart, End: nameStart}
		}
		p.inner.yield(Event{Kind: EventIndicateCallVerbatimArgument, HasArgName: true, ArgName: name})
		p.inner.stack.pushTopLeaf(topLeaf{kind: topLeafCallVerbatimArgumentValue, meta: p.newMeta()})
		p.state = stateExpectingLeafContent
		return nil
	}

	p.inner.restoreShallowSnapshot(afterBacktick)
	p.inner.yield(Event{Kind: EventIndicateCallVerbatimArgument})
	p.inner.stack.pushTopLeaf(topLeaf{kind: topLeafCallVerbatimArgumentValue, meta: p.newMeta()})
	p.state = stateExpectingLeafContent
	return nil
}

func (p *Parser) parseCallVerbatimArgumentValue(leaf *topLeaf) error {
	end := verbatimEndCondition{beforeTableRelated: false, beforeCallRelated: true}
	rng, le := parseVerbatim(p.input, p.inner, end, false, 0)
	if !rng.IsEmpty() {
		p.inner.yield(Event{Kind: EventText, Range: rng})
	}
	switch le.kind {
	case endMatchedCallArgumentIndicator:
		p.inner.moveCursorForward(2)
		p.inner.stack.pushTopLeaf(topLeaf{
			kind:     topLeafCallArgumentBeginning,
			meta:     p.newMeta(),
			snapshot: p.inner.takeShallowSnapshot(),
		})
		p.state = stateExpectingLeafContent
		return nil
	case endMatchedCallClosing:
		p.inner.moveCursorForward(2)
		p.beginExiting(exitingUntil{kind: exitingTopIsCall, alsoExit: true}, exitingAndThen{kind: andThenExpectBracedOpening})
		return nil
	case endNewLine:
		p.inner.yield(Event{Kind: EventNewLine, Line: p.inner.lineOrZero(le.nl)})
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	case endVerbatimEscaping:
		p.inner.yield(makeVerbatimEscapingEvent(p.inner, le.ve))
		p.inner.stack.pushTopLeaf(*leaf)
		return nil
	default:
		p.state = stateExpectingItemLikeOpening
		return nil
	}
}
