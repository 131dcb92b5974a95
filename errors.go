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

import "fmt"

// StackOverflowError is the only recoverable parser error (spec.md
// §7). It is returned when pushing a new container frame, item-like,
// or inline stack entry would exceed the configured depth limit.
// Once returned, the parser that produced it must not be used again.
type StackOverflowError struct {
	// Depth is the configured maximum the parser was about to exceed.
	Depth int
	// Kind names which stack overflowed ("block" or "inline").
	Kind string
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("rotext: %s stack exceeded depth %d", e.Kind, e.Depth)
}
