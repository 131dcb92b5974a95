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

func TestCountContinuousCharacter(t *testing.T) {
	tests := []struct {
		input string
		b     byte
		start int
		want  int
	}{
		{"```code", '`', 0, 3},
		{"```code", '`', 3, 0},
		{"", '`', 0, 0},
		{"----", '-', 0, 4},
	}
	for _, test := range tests {
		if got := countContinuousCharacter([]byte(test.input), test.b, test.start); got != test.want {
			t.Errorf("countContinuousCharacter(%q, %q, %d) = %d; want %d", test.input, test.b, test.start, got, test.want)
		}
	}
}

func TestCountContinuousWhitespace(t *testing.T) {
	tests := []struct {
		input string
		start int
		want  int
	}{
		{"   x", 0, 3},
		{"\t\tx", 0, 2},
		{"x", 0, 0},
		{"", 0, 0},
	}
	for _, test := range tests {
		if got := countContinuousWhitespace([]byte(test.input), test.start); got != test.want {
			t.Errorf("countContinuousWhitespace(%q, %d) = %d; want %d", test.input, test.start, got, test.want)
		}
	}
}

func TestIsBlankLine(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"  \n", true},
		{"a", false},
		{"  a\n", false},
	}
	for _, test := range tests {
		if got := isBlankLine([]byte(test.input), 0); got != test.want {
			t.Errorf("isBlankLine(%q) = %t; want %t", test.input, got, test.want)
		}
	}
}

func TestIndentWidth(t *testing.T) {
	tests := []struct {
		input        string
		wantWidth    int
		wantConsumed int
	}{
		{"    x", 4, 4},
		{"\tx", 4, 1},
		{"x", 0, 0},
		{"  \tx", 4, 3},
	}
	for _, test := range tests {
		gotWidth, gotConsumed := indentWidth([]byte(test.input), 0)
		if gotWidth != test.wantWidth || gotConsumed != test.wantConsumed {
			t.Errorf("indentWidth(%q) = (%d, %d); want (%d, %d)", test.input, gotWidth, gotConsumed, test.wantWidth, test.wantConsumed)
		}
	}
}

func TestCountLineBreak(t *testing.T) {
	tests := []struct {
		input string
		i     int
		want  int
	}{
		{"\n", 0, 1},
		{"\r\n", 0, 2},
		{"\r", 0, 1},
		{"\rx", 0, 1},
		{"x", 0, 0},
		{"", 0, 0},
	}
	for _, test := range tests {
		if got := countLineBreak([]byte(test.input), test.i); got != test.want {
			t.Errorf("countLineBreak(%q, %d) = %d; want %d", test.input, test.i, got, test.want)
		}
	}
}

func TestTrimSingleOuterSpace(t *testing.T) {
	tests := []struct {
		input            string
		start, end       int
		wantStart, wantEnd int
	}{
		{"code", 0, 4, 0, 4},
		{" code", 0, 5, 1, 5},
		{"code ", 0, 5, 0, 4},
		{" code ", 0, 6, 1, 5},
		{"  ", 0, 2, 0, 2},
		{" a", 0, 2, 0, 2},
	}
	for _, test := range tests {
		gotStart, gotEnd := trimSingleOuterSpace([]byte(test.input), test.start, test.end)
		if gotStart != test.wantStart || gotEnd != test.wantEnd {
			t.Errorf("trimSingleOuterSpace(%q, %d, %d) = (%d, %d); want (%d, %d)",
				test.input, test.start, test.end, gotStart, gotEnd, test.wantStart, test.wantEnd)
		}
	}
}

func TestIsNameByte(t *testing.T) {
	tests := []struct {
		b    byte
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'9', true},
		{'_', true},
		{'-', true},
		{'.', true},
		{' ', false},
		{'#', false},
	}
	for _, test := range tests {
		if got := isNameByte(test.b); got != test.want {
			t.Errorf("isNameByte(%q) = %t; want %t", test.b, got, test.want)
		}
	}
}
