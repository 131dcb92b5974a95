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

// Package spec provides access to the literal scenarios named in
// rotext's own specification.
package spec

import (
	_ "embed"
	"encoding/json"
)

// EventFixture is the golden shape of one expected event, stripped of
// everything that isn't asserted on (block/line IDs, since those are
// assigned by counting rather than spelled out in prose).
type EventFixture struct {
	Kind        string `json:"kind"`
	Text        string `json:"text,omitempty"`
	Level       uint8  `json:"level,omitempty"`
	IsExtension bool   `json:"isExtension,omitempty"`
	HasArgName  bool   `json:"hasArgName,omitempty"`
	ArgName     string `json:"argName,omitempty"`
}

// Example is a single named scenario: an input string plus its
// expected event trace. Inline reports whether the trace requires
// running the inline phase over the block phase's output.
type Example struct {
	Number  int            `json:"number"`
	Section string         `json:"section"`
	Input   string         `json:"input"`
	Inline  bool           `json:"inline"`
	Events  []EventFixture `json:"events"`
}

//go:embed testsuite.json
var testsuiteData []byte

// Load returns the scenarios from rotext's own specification.
func Load() ([]Example, error) {
	var testsuite []Example
	if err := json.Unmarshal(testsuiteData, &testsuite); err != nil {
		return nil, err
	}
	return testsuite, nil
}
