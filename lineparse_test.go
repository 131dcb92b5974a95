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

func TestParseNormalToEOF(t *testing.T) {
	input := []byte("hello")
	ctx := &fakeCursor{}
	span, le := parseNormal(input, ctx, endCondition{})
	if le.kind != endEOF {
		t.Fatalf("kind = %v; want endEOF", le.kind)
	}
	if got := string(span.Slice(input)); got != "hello" {
		t.Errorf("text = %q; want %q", got, "hello")
	}
}

func TestParseNormalToNewLine(t *testing.T) {
	input := []byte("hello  \nworld")
	ctx := &fakeCursor{}
	span, le := parseNormal(input, ctx, endCondition{})
	if le.kind != endNewLine {
		t.Fatalf("kind = %v; want endNewLine", le.kind)
	}
	if got := string(span.Slice(input)); got != "hello" {
		t.Errorf("text = %q; want %q (trailing spaces trimmed)", got, "hello")
	}
	if got := string(input[ctx.cursor():]); got != "world" {
		t.Errorf("cursor left at %q; want %q remaining", got, "world")
	}
}

func TestParseNormalVerbatimEscapingInterrupts(t *testing.T) {
	input := []byte("a<`b`>c")
	ctx := &fakeCursor{}
	span, le := parseNormal(input, ctx, endCondition{})
	if le.kind != endVerbatimEscaping {
		t.Fatalf("kind = %v; want endVerbatimEscaping", le.kind)
	}
	if got := string(span.Slice(input)); got != "a" {
		t.Errorf("text = %q; want %q", got, "a")
	}
	if got := string(le.ve.content.Slice(input)); got != "b" {
		t.Errorf("ve content = %q; want %q", got, "b")
	}
	if got := string(input[ctx.cursor():]); got != "c" {
		t.Errorf("cursor left at %q; want %q remaining", got, "c")
	}
}

func TestParseNormalCommentConsumedSilently(t *testing.T) {
	input := []byte("a<%hidden%>c")
	ctx := &fakeCursor{}
	span, le := parseNormal(input, ctx, endCondition{})
	if le.kind != endNone {
		t.Fatalf("kind = %v; want endNone", le.kind)
	}
	if got := string(span.Slice(input)); got != "a" {
		t.Errorf("text = %q; want %q", got, "a")
	}
	if got := string(input[ctx.cursor():]); got != "c" {
		t.Errorf("cursor left at %q; want %q remaining", got, "c")
	}
}

func TestParseNormalAtxClosing(t *testing.T) {
	input := []byte("h ==")
	ctx := &fakeCursor{}
	end := endCondition{atxClosing: atxClosingSpec{active: true, char: '=', count: 2}}
	span, le := parseNormal(input, ctx, end)
	if le.kind != endAtxClosing {
		t.Fatalf("kind = %v; want endAtxClosing", le.kind)
	}
	if got := string(span.Slice(input)); got != "h" {
		t.Errorf("text = %q; want %q", got, "h")
	}
}

func TestParseNormalTableRelated(t *testing.T) {
	tests := []struct {
		input string
		want  tableRelatedKind
	}{
		{"A|}", tableClosing},
		{"A|+", tableCaptionIndicator},
		{"A|-", tableRowIndicator},
		{"A!!", tableHeaderCellIndicator},
	}
	for _, test := range tests {
		input := []byte(test.input)
		ctx := &fakeCursor{}
		span, le := parseNormal(input, ctx, endCondition{tableRelated: true})
		if le.kind != endTableRelated {
			t.Fatalf("%q: kind = %v; want endTableRelated", test.input, le.kind)
		}
		if le.tableRelated != test.want {
			t.Errorf("%q: tableRelated = %v; want %v", test.input, le.tableRelated, test.want)
		}
		if got := string(span.Slice(input)); got != "A" {
			t.Errorf("%q: text = %q; want %q", test.input, got, "A")
		}
	}
}

func TestParseNormalDoublePipes(t *testing.T) {
	input := []byte("A||B")
	ctx := &fakeCursor{}
	span, le := parseNormal(input, ctx, endCondition{doublePipes: true})
	if le.kind != endDoublePipes {
		t.Fatalf("kind = %v; want endDoublePipes", le.kind)
	}
	if got := string(span.Slice(input)); got != "A" {
		t.Errorf("text = %q; want %q", got, "A")
	}
	if got := string(input[ctx.cursor():]); got != "B" {
		t.Errorf("cursor left at %q; want %q remaining", got, "B")
	}
}

func TestParseNormalDescriptionDefinitionOpening(t *testing.T) {
	input := []byte("term :: def")
	ctx := &fakeCursor{}
	span, le := parseNormal(input, ctx, endCondition{descriptionDefinitionOpening: true})
	if le.kind != endDescriptionDefinitionOpening {
		t.Fatalf("kind = %v; want endDescriptionDefinitionOpening", le.kind)
	}
	if got := string(span.Slice(input)); got != "term" {
		t.Errorf("text = %q; want %q", got, "term")
	}
	if got := string(input[ctx.cursor():]); got != " def" {
		t.Errorf("cursor left at %q; want %q remaining", got, " def")
	}
}

func TestTryMatchCallToken(t *testing.T) {
	tests := []struct {
		input string
		mode  callMatchMode
		want  endKind
	}{
		{"}}", callMatchName, endMatchedCallClosing},
		{"||", callMatchName, endMatchedCallArgumentIndicator},
		{"=", callMatchArgumentName, endMatched},
		{"=", callMatchName, endKind(255)}, // '=' is not special outside argument-name mode
	}
	for _, test := range tests {
		input := []byte(test.input)
		ctx := &fakeCursor{}
		le, matched := tryMatchCallToken(input, ctx, test.mode)
		if test.want == endKind(255) {
			if matched {
				t.Errorf("%q/%v: matched = true; want false", test.input, test.mode)
			}
			continue
		}
		if !matched {
			t.Fatalf("%q/%v: matched = false; want true", test.input, test.mode)
		}
		if le.kind != test.want {
			t.Errorf("%q/%v: kind = %v; want %v", test.input, test.mode, le.kind, test.want)
		}
	}
}

func TestParseVerbatimOnFence(t *testing.T) {
	input := []byte("```\ntail")
	ctx := &fakeCursor{}
	end := verbatimEndCondition{onFence: fenceSpec{active: true, char: '`', minimumCount: 3}}
	span, le := parseVerbatim(input, ctx, end, true, 0)
	if le.kind != endFence {
		t.Fatalf("kind = %v; want endFence", le.kind)
	}
	if span.Start != span.End {
		t.Errorf("fence span not empty: %v", span)
	}
}

func TestParseVerbatimSkipsIndent(t *testing.T) {
	input := []byte("    code\n")
	ctx := &fakeCursor{}
	end := verbatimEndCondition{}
	span, le := parseVerbatim(input, ctx, end, true, 4)
	if le.kind != endNewLine {
		t.Fatalf("kind = %v; want endNewLine", le.kind)
	}
	if got := string(span.Slice(input)); got != "code" {
		t.Errorf("text = %q; want %q", got, "code")
	}
}

func TestParseVerbatimBeforeCallRelated(t *testing.T) {
	input := []byte("code}}")
	ctx := &fakeCursor{}
	end := verbatimEndCondition{beforeCallRelated: true}
	span, le := parseVerbatim(input, ctx, end, false, 0)
	if le.kind != endMatchedCallClosing {
		t.Fatalf("kind = %v; want endMatchedCallClosing", le.kind)
	}
	if got := string(span.Slice(input)); got != "code" {
		t.Errorf("text = %q; want %q", got, "code")
	}
}

func TestParseVerbatimBeforeTableRelated(t *testing.T) {
	input := []byte("code||")
	ctx := &fakeCursor{}
	end := verbatimEndCondition{beforeTableRelated: true}
	span, le := parseVerbatim(input, ctx, end, false, 0)
	if le.kind != endDoublePipes {
		t.Fatalf("kind = %v; want endDoublePipes", le.kind)
	}
	if got := string(span.Slice(input)); got != "code" {
		t.Errorf("text = %q; want %q", got, "code")
	}
}

func TestParseVerbatimRecognizesVerbatimEscaping(t *testing.T) {
	input := []byte("code<`hidden`>tail")
	ctx := &fakeCursor{}
	span, le := parseVerbatim(input, ctx, verbatimEndCondition{}, false, 0)
	if le.kind != endVerbatimEscaping {
		t.Fatalf("kind = %v; want endVerbatimEscaping", le.kind)
	}
	if got := string(span.Slice(input)); got != "code" {
		t.Errorf("text = %q; want %q", got, "code")
	}
}

func TestTrimTrailingSpaces(t *testing.T) {
	tests := []struct {
		input string
		start, end int
		want  int
	}{
		{"hello   ", 0, 8, 5},
		{"hello", 0, 5, 5},
		{"   ", 0, 3, 0},
	}
	for _, test := range tests {
		if got := trimTrailingSpaces([]byte(test.input), test.start, test.end); got != test.want {
			t.Errorf("trimTrailingSpaces(%q, %d, %d) = %d; want %d", test.input, test.start, test.end, got, test.want)
		}
	}
}
