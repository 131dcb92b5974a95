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

// Package rotext implements a streaming parser for the rotext
// wiki markup language.
//
// Parsing happens in three stages. The block parser ([Parser]) walks
// the input once and produces a stream of [Event] values describing
// the block structure (paragraphs, headings, lists, tables, calls).
// Text that has not yet been tokenized at the inline level is emitted
// as an [EventUnparsed] event carrying a byte range into the original
// input. The inline parser ([InlineParser]) wraps a [Parser] (or
// anything with an equivalent Next method) and consumes those ranges
// (plus verbatim-escaping and newline events), splicing inline-level
// events (emphasis, code spans, wiki links, and so on) into the rest
// of the block stream, which it passes through unchanged. Its Next
// method is the single blended stream callers iterate.
//
// Every event carries byte ranges into the original input rather than
// owned strings, so the parser never allocates for text content.
package rotext
