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

import "testing"

func TestBlockStackPushPopCounters(t *testing.T) {
	s := newBlockStack(32)

	if err := s.pushItemLike(itemLikeLI, frameMeta{id: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.pushItemLikeContainer(containerBlockQuote, frameMeta{id: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.pushTable(frameMeta{id: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.pushCall(frameMeta{id: 4}, false); err != nil {
		t.Fatal(err)
	}

	if got, want := s.itemLikesInStack(), 1; got != want {
		t.Errorf("itemLikesInStack() = %d; want %d (BlockQuote container only, bare LI does not count)", got, want)
	}
	if got, want := s.tablesInStack(), 1; got != want {
		t.Errorf("tablesInStack() = %d; want %d", got, want)
	}
	if got, want := s.callsInStack(), 1; got != want {
		t.Errorf("callsInStack() = %d; want %d", got, want)
	}

	top, ok := s.top()
	if !ok || top.kind != entryCall {
		t.Fatalf("top() = %+v, %t; want entryCall", top, ok)
	}

	for _, want := range []stackEntryKind{entryCall, entryTable, entryItemLikeContainer, entryItemLike} {
		popped, ok := s.pop()
		if !ok {
			t.Fatalf("pop() reported empty stack too early")
		}
		if popped.kind != want {
			t.Errorf("pop() kind = %v; want %v", popped.kind, want)
		}
	}
	if _, ok := s.pop(); ok {
		t.Errorf("pop() on empty stack reported a frame")
	}
	if got := s.itemLikesInStack(); got != 0 {
		t.Errorf("itemLikesInStack() after full pop = %d; want 0", got)
	}
}

func TestBlockStackEveryContainerKindCountsAsItemLike(t *testing.T) {
	s := newBlockStack(32)
	if err := s.pushItemLikeContainer(containerUL, frameMeta{id: 1}); err != nil {
		t.Fatal(err)
	}
	if got, want := s.itemLikesInStack(), 1; got != want {
		t.Errorf("itemLikesInStack() = %d; want %d (UL container counts like BlockQuote does)", got, want)
	}
	if err := s.pushItemLike(itemLikeLI, frameMeta{id: 2}); err != nil {
		t.Fatal(err)
	}
	if got, want := s.itemLikesInStack(), 1; got != want {
		t.Errorf("itemLikesInStack() = %d; want %d (the LI itself does not add to the count)", got, want)
	}
}

func TestBlockStackNthItemLikeContainerKind(t *testing.T) {
	s := newBlockStack(32)
	s.pushItemLikeContainer(containerBlockQuote, frameMeta{id: 1})
	s.pushItemLikeContainer(containerOL, frameMeta{id: 2})
	s.pushItemLike(itemLikeLI, frameMeta{id: 3})

	if kind, ok := s.nthItemLikeContainerKind(0); !ok || kind != containerBlockQuote {
		t.Errorf("nthItemLikeContainerKind(0) = %v, %t; want containerBlockQuote, true", kind, ok)
	}
	if kind, ok := s.nthItemLikeContainerKind(1); !ok || kind != containerOL {
		t.Errorf("nthItemLikeContainerKind(1) = %v, %t; want containerOL, true", kind, ok)
	}
	if _, ok := s.nthItemLikeContainerKind(2); ok {
		t.Error("nthItemLikeContainerKind(2) = true; want false (only 2 containers on the stack)")
	}
}

func TestBlockStackDepthLimit(t *testing.T) {
	s := newBlockStack(1)
	if err := s.pushItemLike(itemLikeLI, frameMeta{id: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.pushItemLike(itemLikeLI, frameMeta{id: 2}); err == nil {
		t.Fatal("pushItemLike at maxDepth did not report a StackOverflowError")
	} else if _, ok := err.(*StackOverflowError); !ok {
		t.Errorf("error type = %T; want *StackOverflowError", err)
	}
}

func TestBlockStackTopPredicates(t *testing.T) {
	s := newBlockStack(32)
	s.pushItemLikeContainer(containerBlockQuote, frameMeta{id: 1})
	if !s.topIsItemLikeContainer() {
		t.Error("topIsItemLikeContainer() = false after pushing a BlockQuote container")
	}
	s.pushItemLike(itemLikeDT, frameMeta{id: 2})
	if !s.topIsDescriptionTerm() {
		t.Error("topIsDescriptionTerm() = false after pushing a DT item-like")
	}
	s.pop()
	s.pushTable(frameMeta{id: 3})
	if !s.topIsTable() {
		t.Error("topIsTable() = false after pushing a table frame")
	}
	s.pop()
	s.pushCall(frameMeta{id: 4}, true)
	if !s.topIsCall() {
		t.Error("topIsCall() = false after pushing a call frame")
	}
}

func TestBlockStackTopLeafSuppressesTopPredicates(t *testing.T) {
	s := newBlockStack(32)
	s.pushTable(frameMeta{id: 1})
	s.pushTopLeaf(topLeaf{kind: topLeafParagraph})
	if s.topIsTable() {
		t.Error("topIsTable() = true while a top-leaf is present; the leaf should shadow the container frame")
	}
	leaf := s.popTopLeaf()
	if leaf == nil || leaf.kind != topLeafParagraph {
		t.Fatalf("popTopLeaf() = %+v; want a paragraph leaf", leaf)
	}
	if !s.topIsTable() {
		t.Error("topIsTable() = false after the top-leaf was popped")
	}
}

func TestStackEntryEnterEventKind(t *testing.T) {
	tests := []struct {
		entry stackEntry
		want  EventKind
	}{
		{stackEntry{kind: entryItemLike, itemLikeKind: itemLikeLI}, EventEnterListItem},
		{stackEntry{kind: entryItemLike, itemLikeKind: itemLikeDT}, EventEnterDescriptionTerm},
		{stackEntry{kind: entryItemLike, itemLikeKind: itemLikeDD}, EventEnterDescriptionDetails},
		{stackEntry{kind: entryItemLikeContainer, containerKind: containerBlockQuote}, EventEnterBlockQuote},
		{stackEntry{kind: entryItemLikeContainer, containerKind: containerOL}, EventEnterOrderedList},
		{stackEntry{kind: entryItemLikeContainer, containerKind: containerUL}, EventEnterUnorderedList},
		{stackEntry{kind: entryItemLikeContainer, containerKind: containerDL}, EventEnterDescriptionList},
		{stackEntry{kind: entryTable}, EventEnterTable},
		{stackEntry{kind: entryCall, isExtension: false}, EventEnterCallOnTemplate},
		{stackEntry{kind: entryCall, isExtension: true}, EventEnterCallOnExtension},
	}
	for _, test := range tests {
		if got := test.entry.enterEventKind(); got != test.want {
			t.Errorf("%+v.enterEventKind() = %v; want %v", test.entry, got, test.want)
		}
	}
}

func TestBlockStackResetStateFlag(t *testing.T) {
	s := newBlockStack(32)
	if s.shouldResetState() {
		t.Error("shouldResetState() = true on a fresh stack")
	}
	s.setShouldResetState()
	if !s.shouldResetState() {
		t.Error("shouldResetState() = false after setShouldResetState()")
	}
	s.resetShouldResetState()
	if s.shouldResetState() {
		t.Error("shouldResetState() = true after resetShouldResetState()")
	}
}
