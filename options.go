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

// featureSet resolves the block-id/line-number feature flags of
// spec.md §6 into a single runtime policy, applied consistently by
// every event constructor in the block and inline parsers.
type featureSet struct {
	blockID     bool
	lineNumbers bool

	maxStackDepth  int
	maxInlineDepth int
	maxPendingSize int
}

const (
	defaultMaxStackDepth  = 128
	defaultMaxInlineDepth = 64
	defaultMaxPendingSize = 5
)

func defaultFeatureSet() featureSet {
	return featureSet{
		blockID:        true,
		lineNumbers:    true,
		maxStackDepth:  defaultMaxStackDepth,
		maxInlineDepth: defaultMaxInlineDepth,
		maxPendingSize: defaultMaxPendingSize,
	}
}

// ParserOption configures a [Parser] constructed by [NewParser].
type ParserOption func(*featureSet)

// WithBlockID controls whether block openers, EventThematicBreak, and
// EventExitBlock carry a non-zero [BlockID]. Line numbers are
// controlled separately by [WithLineNumbers]. Enabled by default.
func WithBlockID(enabled bool) ParserOption {
	return func(fs *featureSet) { fs.blockID = enabled }
}

// WithLineNumbers controls whether EventVerbatimEscaping/EventNewLine
// carry line_after and EventExitBlock carries StartLine/EndLine.
// Enabled by default.
func WithLineNumbers(enabled bool) ParserOption {
	return func(fs *featureSet) { fs.lineNumbers = enabled }
}

// WithMaxStackDepth overrides the maximum container-stack depth
// (spec.md §5 recommends 64-256). Exceeding it surfaces a
// [StackOverflowError].
func WithMaxStackDepth(depth int) ParserOption {
	return func(fs *featureSet) { fs.maxStackDepth = depth }
}

// InlineOption configures an [InlineParser] constructed by
// [NewInlineParser].
type InlineOption func(*featureSet)

// WithMaxInlineDepth overrides the maximum inline stack depth.
func WithMaxInlineDepth(depth int) InlineOption {
	return func(fs *featureSet) { fs.maxInlineDepth = depth }
}
