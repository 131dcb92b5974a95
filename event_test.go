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
	"strconv"
	"testing"
)

func TestSpanLenAndIsEmpty(t *testing.T) {
	s := Span{Start: 3, End: 7}
	if got := s.Len(); got != 4 {
		t.Errorf("Len() = %d; want 4", got)
	}
	if s.IsEmpty() {
		t.Error("IsEmpty() = true for a non-empty span")
	}
	if !(Span{Start: 3, End: 3}).IsEmpty() {
		t.Error("IsEmpty() = false for a zero-length span")
	}
	if !NullSpan().IsEmpty() {
		t.Error("IsEmpty() = false for NullSpan()")
	}
}

func TestSpanSlice(t *testing.T) {
	input := []byte("hello world")
	s := Span{Start: 6, End: 11}
	if got := string(s.Slice(input)); got != "world" {
		t.Errorf("Slice() = %q; want %q", got, "world")
	}
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventUnparsed, "EventUnparsed"},
		{EventEnterParagraph, "EventEnterParagraph"},
		{EventExitInline, "EventExitInline"},
		{maxEventKind, "EventKind(" + strconv.Itoa(int(maxEventKind)) + ")"},
	}
	for _, test := range tests {
		if got := test.kind.String(); got != test.want {
			t.Errorf("%d.String() = %q; want %q", test.kind, got, test.want)
		}
	}
}

func TestEventKindGroupMembership(t *testing.T) {
	tests := []struct {
		kind                                    EventKind
		isBlock, isInlineInput, isInline, isBlend bool
	}{
		{EventUnparsed, true, true, false, false},
		{EventVerbatimEscaping, true, true, false, true},
		{EventNewLine, true, true, false, true},
		{EventEnterParagraph, true, false, false, true},
		{EventExitBlock, true, false, false, true},
		{EventText, false, false, true, true},
		{EventRaw, false, false, true, true},
		{EventEnterEmphasis, false, false, true, true},
		{EventExitInline, false, false, true, true},
	}
	for _, test := range tests {
		k := test.kind
		if got := k.IsBlock(); got != test.isBlock {
			t.Errorf("%v.IsBlock() = %t; want %t", k, got, test.isBlock)
		}
		if got := k.IsInlineInput(); got != test.isInlineInput {
			t.Errorf("%v.IsInlineInput() = %t; want %t", k, got, test.isInlineInput)
		}
		if got := k.IsInline(); got != test.isInline {
			t.Errorf("%v.IsInline() = %t; want %t", k, got, test.isInline)
		}
		if got := k.IsBlend(); got != test.isBlend {
			t.Errorf("%v.IsBlend() = %t; want %t", k, got, test.isBlend)
		}
	}
}

func TestEventKindUnparsedNeverBlends(t *testing.T) {
	if EventUnparsed.IsBlend() {
		t.Error("EventUnparsed.IsBlend() = true; EventUnparsed is an internal handoff between phases, never surfaced to external consumers")
	}
}
