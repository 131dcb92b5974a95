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

package callreg

import "testing"

func TestInternEquality(t *testing.T) {
	tests := []struct {
		a, b []byte
		want bool
	}{
		{[]byte("toc"), []byte("toc"), true},
		{[]byte("toc"), []byte("TOC"), false},
		{[]byte("café"), []byte("café"), true}, // NFC vs. combining accent
		{[]byte("toc"), []byte("note"), false},
	}
	for _, test := range tests {
		got := Intern(test.a) == Intern(test.b)
		if got != test.want {
			t.Errorf("Intern(%q) == Intern(%q) = %t; want %t", test.a, test.b, got, test.want)
		}
	}
}

func TestNameString(t *testing.T) {
	if got := Intern([]byte("café")).String(); got != "café" {
		t.Errorf("String() = %q; want %q", got, "café")
	}
	if got := (Name{}).String(); got != "" {
		t.Errorf("zero Name.String() = %q; want \"\"", got)
	}
	if !(Name{}).IsZero() {
		t.Error("zero Name.IsZero() = false; want true")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.RegisterExtension([]byte("toc"))
	r.RegisterExtension([]byte("note"))

	tests := []struct {
		name string
		want bool
	}{
		{"toc", true},
		{"TOC", false},
		{"note", true},
		{"ref", false},
	}
	for _, test := range tests {
		if got := r.MatchExtension([]byte(test.name)); got != test.want {
			t.Errorf("MatchExtension(%q) = %t; want %t", test.name, got, test.want)
		}
	}
	if got, want := r.Count(), 2; got != want {
		t.Errorf("Count() = %d; want %d", got, want)
	}
}
