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

func TestBlockCallMultipleArguments(t *testing.T) {
	got := traceBlock(t, "{{foo|| a|| b}}")
	assertEvents(t, got, wantEvents(
		"EventEnterCallOnTemplate",
		"EventIndicateCallNormalArgument",
		"EventEnterParagraph", "EventUnparsed", "EventExitBlock",
		"EventIndicateCallNormalArgument",
		"EventEnterParagraph", "EventUnparsed", "EventExitBlock",
		"EventExitBlock",
	))
	if got[3].text != "a" || got[7].text != "b" {
		t.Errorf("argument texts = %q/%q; want %q/%q", got[3].text, got[7].text, "a", "b")
	}
}

func TestBlockCallNamedVerbatimArgument(t *testing.T) {
	// spec.md §4.5's named verbatim ARG form: "` name = raw-content".
	input := "{{foo||`name=raw}}"
	got := traceBlock(t, input)
	assertEvents(t, got, wantEvents(
		"EventEnterCallOnTemplate",
		"EventIndicateCallVerbatimArgument",
		"EventText",
		"EventExitBlock",
	))
	if got[2].text != "raw" {
		t.Errorf("verbatim argument text = %q; want %q", got[2].text, "raw")
	}

	p := NewParserFromBytes([]byte(input))
	var argEv Event
	for {
		ev, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error before finding EventIndicateCallVerbatimArgument: %v", err)
		}
		if ev.Kind == EventIndicateCallVerbatimArgument {
			argEv = ev
			break
		}
	}
	if !argEv.HasArgName {
		t.Fatal("EventIndicateCallVerbatimArgument.HasArgName = false; want true")
	}
	if got, want := string(argEv.ArgName.Slice([]byte(input))), "name"; got != want {
		t.Errorf("ArgName = %q; want %q", got, want)
	}
}

func TestBlockCallUnnamedVerbatimArgumentHasNoArgName(t *testing.T) {
	input := "{{foo||`raw}}"
	p := NewParserFromBytes([]byte(input))
	for {
		ev, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error before finding EventIndicateCallVerbatimArgument: %v", err)
		}
		if ev.Kind == EventIndicateCallVerbatimArgument {
			if ev.HasArgName {
				t.Error("HasArgName = true for an unnamed verbatim argument")
			}
			break
		}
	}
}

func TestBlockCallArgumentNoEqualsFallsBackToUnnamed(t *testing.T) {
	// "no-name}}" never hits '=' before the call's closing brace, so
	// parseCallArgumentBeginning must roll back to the start of the
	// argument and treat the whole thing as unnamed content rather
	// than mistaking part of it for a name.
	got := traceBlock(t, "{{foo|| no-name}}")
	assertEvents(t, got, wantEvents(
		"EventEnterCallOnTemplate",
		"EventIndicateCallNormalArgument",
		"EventEnterParagraph", "EventUnparsed", "EventExitBlock",
		"EventExitBlock",
	))
	if got[3].text != "no-name" {
		t.Errorf("argument text = %q; want %q", got[3].text, "no-name")
	}
}
