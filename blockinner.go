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

// shallowSnapshot is a value-copy save of the block inner's mutable
// fields that are not part of the container stack: cursor, current
// line, the pending-queue watermark, and the "just entered a table
// row" flag. It is used exclusively to roll back a speculative
// call-name or argument-name match (spec.md §4.6); the container
// stack is never part of it, because pushes made during speculation
// are themselves undone by popping the top-leaf on rollback.
type shallowSnapshot struct {
	cursor           int
	line             LineNumber
	pendingWatermark int
	justEnteredTable bool
}

// blockInner owns the cursor, the current line number, the
// pending-event queue, the monotonic block-id counter, and the
// shallow-snapshot facility shared by every branch of the block state
// machine (spec.md §2 "Block parser inner").
type blockInner struct {
	pos  int
	line LineNumber

	nextID BlockID

	pending []Event

	justEnteredTable bool

	stack *blockStack
	fs    featureSet
}

func newBlockInner(fs featureSet) *blockInner {
	return &blockInner{
		line:   1,
		nextID: 1,
		stack:  newBlockStack(fs.maxStackDepth),
		fs:     fs,
	}
}

func (b *blockInner) cursor() int                { return b.pos }
func (b *blockInner) moveCursorForward(n int)     { b.pos += n }
func (b *blockInner) currentLine() LineNumber     { return b.line }
// increaseCurrentLine advances the line counter and, per spec.md §4.4
// "ShouldResetState", flags that item-like matching must restart from
// MatchingLastLine the next time the block driver is re-entered: every
// physical newline crossing (parse_normal and parse_verbatim both call
// this) is a block-boundary NewLine candidate for the containers
// currently open.
func (b *blockInner) increaseCurrentLine() {
	b.line++
	b.stack.setShouldResetState()
}

// allocateID returns the next block id, or 0 if block-id tracking is
// disabled.
func (b *blockInner) allocateID() BlockID {
	if !b.fs.blockID {
		return 0
	}
	id := b.nextID
	b.nextID++
	return id
}

// lineOrZero returns ln if line-number tracking is enabled, else 0.
func (b *blockInner) lineOrZero(ln LineNumber) LineNumber {
	if !b.fs.lineNumbers {
		return 0
	}
	return ln
}

// yield appends an event to the pending queue, to be drained by the
// driver before the state machine advances again (spec.md §5).
func (b *blockInner) yield(ev Event) {
	b.pending = append(b.pending, ev)
}

func (b *blockInner) popPending() (Event, bool) {
	if len(b.pending) == 0 {
		return Event{}, false
	}
	ev := b.pending[0]
	b.pending = b.pending[1:]
	return ev, true
}

func (b *blockInner) takeShallowSnapshot() shallowSnapshot {
	return shallowSnapshot{
		cursor:           b.pos,
		line:             b.line,
		pendingWatermark: len(b.pending),
		justEnteredTable: b.justEnteredTable,
	}
}

// restoreShallowSnapshot rolls the cursor, line number, pending queue,
// and just-entered-table flag back to a previously captured state.
func (b *blockInner) restoreShallowSnapshot(snap shallowSnapshot) {
	b.pos = snap.cursor
	b.line = snap.line
	if snap.pendingWatermark < len(b.pending) {
		b.pending = b.pending[:snap.pendingWatermark]
	}
	b.justEnteredTable = snap.justEnteredTable
}

func (b *blockInner) makeExitBlock(meta frameMeta) Event {
	id := meta.id
	if !b.fs.blockID {
		id = 0
	}
	return Event{
		Kind:    EventExitBlock,
		ID:      id,
		Line:    b.lineOrZero(meta.startLine),
		EndLine: b.lineOrZero(b.line),
	}
}
