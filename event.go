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

import "strconv"

// Span is a half-open byte range [Start, End) into the original input.
// No event ever owns a copy of the bytes it describes; callers re-slice
// the input themselves.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers zero bytes.
func (s Span) IsEmpty() bool {
	return s.Start >= s.End
}

// Slice returns the bytes of the span within input.
func (s Span) Slice(input []byte) []byte {
	return input[s.Start:s.End]
}

// NullSpan returns the span used for absent payloads.
func NullSpan() Span {
	return Span{Start: -1, End: -1}
}

// BlockID identifies a single block opener/closer pair. The zero value
// means "no id": either block-id tracking was disabled via
// [WithBlockID], or the event kind does not carry one.
type BlockID uint32

// LineNumber is a 1-based logical line number. It increments once per
// LF, lone CR, or CRLF pair. The zero value means "not tracked".
type LineNumber uint32

// EventKind discriminates the payload carried by an [Event].
type EventKind uint8

const (
	_ EventKind = iota

	// EventUnparsed carries a byte range of text not yet split into
	// inline events; it is fed to the inline phase.
	EventUnparsed
	// EventRaw carries a byte range emitted to the consumer verbatim
	// (e.g. a numeric character reference).
	EventRaw
	// EventText carries a byte range of already-tokenized inline text.
	EventText
	// EventVerbatimEscaping carries the content of a `<`...`>` span.
	EventVerbatimEscaping
	// EventNewLine marks a physical line boundary that the consumer
	// must preserve (e.g. inside a paragraph or code block).
	EventNewLine

	EventEnterParagraph
	EventEnterHeading
	EventEnterBlockQuote
	EventEnterOrderedList
	EventEnterUnorderedList
	EventEnterListItem
	EventEnterDescriptionList
	EventEnterDescriptionTerm
	EventEnterDescriptionDetails
	EventEnterCodeBlock
	EventEnterTable
	EventThematicBreak

	EventEnterCallOnTemplate
	EventEnterCallOnExtension

	EventIndicateCodeBlockCode
	EventIndicateTableCaption
	EventIndicateTableRow
	EventIndicateTableHeaderCell
	EventIndicateTableDataCell
	EventIndicateCallNormalArgument
	EventIndicateCallVerbatimArgument

	EventExitBlock

	EventEnterCodeSpan
	EventEnterEmphasis
	EventEnterStrong
	EventEnterStrikethrough
	EventEnterRuby
	EventEnterRubyText
	EventEnterWikiLink
	EventEnterCallInline

	EventRefLink
	EventDicexp

	EventExitInline

	maxEventKind
)

// eventGroup is a bitset of the event groups an [EventKind] belongs
// to, mirroring the `#[groups(...)]` attribute on the original Rust
// Event enum. Groups exist purely for type-level discipline between
// the block phase, the inline phase, and blended external consumers.
type eventGroup uint8

const (
	groupBlock eventGroup = 1 << iota
	groupInlineInput
	groupInline
)

var eventKindGroups = [maxEventKind]eventGroup{
	EventUnparsed:         groupBlock | groupInlineInput,
	EventVerbatimEscaping: groupBlock | groupInlineInput,
	EventNewLine:          groupBlock | groupInlineInput,

	EventRaw:  groupInline,
	EventText: groupInline,

	EventEnterParagraph:              groupBlock,
	EventEnterHeading:                groupBlock,
	EventEnterBlockQuote:             groupBlock,
	EventEnterOrderedList:            groupBlock,
	EventEnterUnorderedList:          groupBlock,
	EventEnterListItem:               groupBlock,
	EventEnterDescriptionList:        groupBlock,
	EventEnterDescriptionTerm:        groupBlock,
	EventEnterDescriptionDetails:     groupBlock,
	EventEnterCodeBlock:              groupBlock,
	EventEnterTable:                  groupBlock,
	EventThematicBreak:               groupBlock,
	EventEnterCallOnTemplate:         groupBlock,
	EventEnterCallOnExtension:        groupBlock,
	EventIndicateCodeBlockCode:       groupBlock,
	EventIndicateTableCaption:        groupBlock,
	EventIndicateTableRow:            groupBlock,
	EventIndicateTableHeaderCell:     groupBlock,
	EventIndicateTableDataCell:       groupBlock,
	EventIndicateCallNormalArgument:  groupBlock,
	EventIndicateCallVerbatimArgument: groupBlock,
	EventExitBlock:                   groupBlock,

	EventEnterCodeSpan:      groupInline,
	EventEnterEmphasis:      groupInline,
	EventEnterStrong:        groupInline,
	EventEnterStrikethrough: groupInline,
	EventEnterRuby:          groupInline,
	EventEnterRubyText:      groupInline,
	EventEnterWikiLink:      groupInline,
	EventEnterCallInline:    groupInline,
	EventRefLink:            groupInline,
	EventDicexp:             groupInline,
	EventExitInline:         groupInline,
}

// IsBlock reports whether k is a member of the Block group: every
// event the block phase can emit, including EventUnparsed.
func (k EventKind) IsBlock() bool {
	return k < maxEventKind && eventKindGroups[k]&groupBlock != 0
}

// IsInlineInput reports whether k is a member of the InlineInput
// group: the subset of Block events the inline phase consumes
// (EventUnparsed, EventVerbatimEscaping, EventNewLine).
func (k EventKind) IsInlineInput() bool {
	return k < maxEventKind && eventKindGroups[k]&groupInlineInput != 0
}

// IsInline reports whether k is a member of the Inline group: every
// event the inline phase can emit.
func (k EventKind) IsInline() bool {
	return k < maxEventKind && eventKindGroups[k]&groupInline != 0
}

// IsBlend reports whether k is visible to an external consumer of the
// blended stream: Block minus EventUnparsed, plus Inline.
func (k EventKind) IsBlend() bool {
	if k == EventUnparsed {
		return false
	}
	return k.IsBlock() || k.IsInline()
}

// String returns the name of the event kind, following the stringer
// naming convention used elsewhere in this module.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) && eventKindNames[k] != "" {
		return eventKindNames[k]
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

var eventKindNames = [maxEventKind]string{
	EventUnparsed:                     "EventUnparsed",
	EventRaw:                          "EventRaw",
	EventText:                         "EventText",
	EventVerbatimEscaping:             "EventVerbatimEscaping",
	EventNewLine:                      "EventNewLine",
	EventEnterParagraph:               "EventEnterParagraph",
	EventEnterHeading:                 "EventEnterHeading",
	EventEnterBlockQuote:              "EventEnterBlockQuote",
	EventEnterOrderedList:             "EventEnterOrderedList",
	EventEnterUnorderedList:           "EventEnterUnorderedList",
	EventEnterListItem:                "EventEnterListItem",
	EventEnterDescriptionList:         "EventEnterDescriptionList",
	EventEnterDescriptionTerm:         "EventEnterDescriptionTerm",
	EventEnterDescriptionDetails:      "EventEnterDescriptionDetails",
	EventEnterCodeBlock:               "EventEnterCodeBlock",
	EventEnterTable:                   "EventEnterTable",
	EventThematicBreak:                "EventThematicBreak",
	EventEnterCallOnTemplate:          "EventEnterCallOnTemplate",
	EventEnterCallOnExtension:         "EventEnterCallOnExtension",
	EventIndicateCodeBlockCode:        "EventIndicateCodeBlockCode",
	EventIndicateTableCaption:         "EventIndicateTableCaption",
	EventIndicateTableRow:             "EventIndicateTableRow",
	EventIndicateTableHeaderCell:      "EventIndicateTableHeaderCell",
	EventIndicateTableDataCell:        "EventIndicateTableDataCell",
	EventIndicateCallNormalArgument:   "EventIndicateCallNormalArgument",
	EventIndicateCallVerbatimArgument: "EventIndicateCallVerbatimArgument",
	EventExitBlock:                    "EventExitBlock",
	EventEnterCodeSpan:                "EventEnterCodeSpan",
	EventEnterEmphasis:                "EventEnterEmphasis",
	EventEnterStrong:                  "EventEnterStrong",
	EventEnterStrikethrough:           "EventEnterStrikethrough",
	EventEnterRuby:                    "EventEnterRuby",
	EventEnterRubyText:                "EventEnterRubyText",
	EventEnterWikiLink:                "EventEnterWikiLink",
	EventEnterCallInline:              "EventEnterCallInline",
	EventRefLink:                      "EventRefLink",
	EventDicexp:                       "EventDicexp",
	EventExitInline:                   "EventExitInline",
}

// Event is the single value type emitted by both the block and inline
// parsers. It is a tagged union: the meaning of the fields below Kind
// depends on Kind, exactly as documented in spec.md §3. Events never
// own a copy of the input; Range (and ArgName, when HasArgName is set)
// are byte ranges the caller re-slices from the original input.
type Event struct {
	Kind EventKind

	// Range is the generic payload range: EventUnparsed/Raw/Text/
	// EventVerbatimEscaping's content, EventRefLink/EventDicexp,
	// EventEnterWikiLink's target, EventEnterCallOnTemplate/
	// EventEnterCallOnExtension/EventEnterCallInline's name.
	Range Span

	// ID is populated for every block opener, EventThematicBreak, and
	// EventExitBlock when block-id tracking is enabled.
	ID BlockID

	// Line carries line_after for EventVerbatimEscaping/EventNewLine,
	// start_line for block openers and EventThematicBreak, and
	// StartLine for EventExitBlock (paired with EndLine below).
	Line LineNumber
	// EndLine is populated only on EventExitBlock.
	EndLine LineNumber

	// Level is the heading level (1..6) for EventEnterHeading.
	Level uint8

	// HasArgName/ArgName carry the optional argument-name range for
	// EventIndicateCallNormalArgument/EventIndicateCallVerbatimArgument.
	HasArgName bool
	ArgName    Span

	// ClosedForcedly is set on EventVerbatimEscaping when no matching
	// closer was found before EOF (spec.md §4.1/§7).
	ClosedForcedly bool

	// IsExtension distinguishes an extension call (`#name`) from a
	// template call for EventEnterCallInline; EventEnterCallOnTemplate/
	// EventEnterCallOnExtension encode the same distinction via Kind
	// instead, since the block phase has two dedicated kinds.
	IsExtension bool
}
