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

// itemLikeKind is the marker kind of an item-like line (spec.md §3).
type itemLikeKind uint8

const (
	itemLikeLI itemLikeKind = iota
	itemLikeDT
	itemLikeDD
)

// containerKind is the kind of an item-like-container frame.
type containerKind uint8

const (
	containerBlockQuote containerKind = iota
	containerOL
	containerUL
	containerDL
)

// frameMeta is the {id, start_line} pair every stack frame and
// top-leaf carries (spec.md §3).
type frameMeta struct {
	id        BlockID
	startLine LineNumber
}

// stackEntryKind discriminates a [stackEntry]'s payload.
type stackEntryKind uint8

const (
	entryItemLike stackEntryKind = iota
	entryItemLikeContainer
	entryTable
	entryCall
)

// stackEntry is a single container-stack frame. Like [Event] it is
// one struct with a kind tag rather than a Go sum type, following the
// same idiom as the teacher's flat Block/Inline structs.
type stackEntry struct {
	kind stackEntryKind
	meta frameMeta

	itemLikeKind  itemLikeKind  // valid when kind == entryItemLike
	containerKind containerKind // valid when kind == entryItemLikeContainer
	isExtension   bool          // valid when kind == entryCall
}

func (e stackEntry) enterEventKind() EventKind {
	switch e.kind {
	case entryItemLike:
		switch e.itemLikeKind {
		case itemLikeLI:
			return EventEnterListItem
		case itemLikeDT:
			return EventEnterDescriptionTerm
		default:
			return EventEnterDescriptionDetails
		}
	case entryItemLikeContainer:
		switch e.containerKind {
		case containerBlockQuote:
			return EventEnterBlockQuote
		case containerOL:
			return EventEnterOrderedList
		case containerUL:
			return EventEnterUnorderedList
		default:
			return EventEnterDescriptionList
		}
	case entryTable:
		return EventEnterTable
	default:
		if e.isExtension {
			return EventEnterCallOnExtension
		}
		return EventEnterCallOnTemplate
	}
}

// codeBlockState is the sub-state of a CodeBlock top-leaf (spec.md
// §3/§4.4).
type codeBlockState uint8

const (
	codeBlockInInfoString codeBlockState = iota
	codeBlockAtFirstLineBeginning
	codeBlockAtLineBeginning
	codeBlockNormal
)

// topLeafKind discriminates the single slot that may sit "above" the
// container stack (spec.md §3 Top-leaf).
type topLeafKind uint8

const (
	topLeafNone topLeafKind = iota
	topLeafParagraph
	topLeafHeading
	topLeafCodeBlock
	topLeafPotentialCallBeginning
	topLeafCallArgumentBeginning
	topLeafCallVerbatimArgumentValue
)

// topLeaf is the at-most-one "currently being filled" leaf block.
// Represented as one struct with a kind tag, mirroring [stackEntry]
// and [Event].
type topLeaf struct {
	kind topLeafKind
	meta frameMeta

	// Paragraph.
	hasPendingNewLine bool
	pendingNewLine    LineNumber

	// Heading.
	level             uint8
	hasContentBefore  bool

	// CodeBlock.
	backticks int
	indent    int
	codeState codeBlockState

	// PotentialCallBeginning / CallArgumentBeginning.
	snapshot    shallowSnapshot
	hasNamePart bool
	namePart    Span
	isExtension bool
	argIsVerbatim bool
}

// blockStack is the push-down automaton's container stack plus its
// single top-leaf slot and cached counters (spec.md §4.3), grounded on
// rotext_core's StackWrapper.
type blockStack struct {
	entries []stackEntry
	leaf    *topLeaf

	itemLikesCount int
	tablesCount    int
	callsCount     int

	needsReset bool

	maxDepth int
}

func newBlockStack(maxDepth int) *blockStack {
	return &blockStack{maxDepth: maxDepth}
}

func (s *blockStack) isEmpty() bool { return len(s.entries) == 0 }

func (s *blockStack) isTopLeafSome() bool { return s.leaf != nil }

func (s *blockStack) pushTopLeaf(leaf topLeaf) {
	s.leaf = &leaf
}

func (s *blockStack) popTopLeaf() *topLeaf {
	leaf := s.leaf
	s.leaf = nil
	return leaf
}

func (s *blockStack) checkDepth() error {
	if len(s.entries) >= s.maxDepth {
		return &StackOverflowError{Depth: s.maxDepth, Kind: "block"}
	}
	return nil
}

func (s *blockStack) pushItemLike(kind itemLikeKind, meta frameMeta) error {
	if err := s.checkDepth(); err != nil {
		return err
	}
	s.entries = append(s.entries, stackEntry{kind: entryItemLike, itemLikeKind: kind, meta: meta})
	return nil
}

// pushItemLikeContainer pushes an item-like-container frame. Every
// container kind (BlockQuote, OL, UL, DL) contributes to
// itemLikesCount: it is the containers, not the LI/DT/DD items inside
// them, that spec.md §4.4's MatchingLastLine re-matches line by line
// -- a repeated item-like marker of the same kind always closes and
// reopens its item, never just "continues" it the way a repeated `>`
// continues its BlockQuote.
func (s *blockStack) pushItemLikeContainer(kind containerKind, meta frameMeta) error {
	if err := s.checkDepth(); err != nil {
		return err
	}
	s.entries = append(s.entries, stackEntry{kind: entryItemLikeContainer, containerKind: kind, meta: meta})
	s.itemLikesCount++
	return nil
}

func (s *blockStack) pushTable(meta frameMeta) error {
	if err := s.checkDepth(); err != nil {
		return err
	}
	s.entries = append(s.entries, stackEntry{kind: entryTable, meta: meta})
	s.tablesCount++
	return nil
}

func (s *blockStack) pushCall(meta frameMeta, isExtension bool) error {
	if err := s.checkDepth(); err != nil {
		return err
	}
	s.entries = append(s.entries, stackEntry{kind: entryCall, meta: meta, isExtension: isExtension})
	s.callsCount++
	return nil
}

// pop removes and returns the topmost container frame, updating the
// cached counters.
func (s *blockStack) pop() (stackEntry, bool) {
	if len(s.entries) == 0 {
		return stackEntry{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	switch top.kind {
	case entryItemLikeContainer:
		s.itemLikesCount--
	case entryTable:
		s.tablesCount--
	case entryCall:
		s.callsCount--
	}
	return top, true
}

func (s *blockStack) top() (stackEntry, bool) {
	if len(s.entries) == 0 {
		return stackEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *blockStack) topIsItemLikeContainer() bool {
	if s.leaf != nil {
		return false
	}
	top, ok := s.top()
	return ok && top.kind == entryItemLikeContainer
}

func (s *blockStack) topIsDescriptionTerm() bool {
	if s.leaf != nil {
		return false
	}
	top, ok := s.top()
	return ok && top.kind == entryItemLike && top.itemLikeKind == itemLikeDT
}

func (s *blockStack) topIsTable() bool {
	if s.leaf != nil {
		return false
	}
	top, ok := s.top()
	return ok && top.kind == entryTable
}

func (s *blockStack) topIsCall() bool {
	if s.leaf != nil {
		return false
	}
	top, ok := s.top()
	return ok && top.kind == entryCall
}

func (s *blockStack) itemLikesInStack() int { return s.itemLikesCount }
func (s *blockStack) tablesInStack() int    { return s.tablesCount }

// nthItemLikeContainerKind returns the containerKind of the n-th (0
// indexed, counting from the bottom/outermost) entryItemLikeContainer
// frame in the stack. Ancestor item-likes are re-matched outermost
// marker first (spec.md §4.4 "MatchingLastLine"), so `n` is the
// `processed` count of an in-progress line re-match.
func (s *blockStack) nthItemLikeContainerKind(n int) (containerKind, bool) {
	i := 0
	for _, e := range s.entries {
		if e.kind != entryItemLikeContainer {
			continue
		}
		if i == n {
			return e.containerKind, true
		}
		i++
	}
	return 0, false
}
func (s *blockStack) callsInStack() int     { return s.callsCount }

func (s *blockStack) shouldResetState() bool { return s.needsReset }
func (s *blockStack) setShouldResetState()   { s.needsReset = true }
func (s *blockStack) resetShouldResetState() { s.needsReset = false }
