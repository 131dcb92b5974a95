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

// Package callreg interns and tracks the names of template/extension
// calls encountered in a rotext document.
//
// The core parser never looks names up anywhere: a call's name is just
// a byte range, and whether it refers to a known extension is a
// question for whatever consumes the event stream (extension dispatch
// is explicitly out of core scope). This package gives that consumer a
// small collaborator to build on, the same way the teacher's
// ReferenceMap is populated from a finished parse tree rather than
// consulted by the parser itself.
package callreg

import (
	"go4.org/intern"
	"golang.org/x/text/unicode/norm"
)

// Name is an interned, NFC-normalized call or extension name. Two Names
// obtained from byte-for-byte-different but canonically equivalent
// input compare equal with ==.
type Name struct {
	v *intern.Value
}

// Intern normalizes raw (the bytes of a call's name range) to NFC and
// returns its canonical interned Name. Calling Intern twice on
// equivalent input returns Names that compare equal.
func Intern(raw []byte) Name {
	return Name{v: intern.GetByString(string(norm.NFC.Bytes(raw)))}
}

// IsZero reports whether n is the zero Name (never interned).
func (n Name) IsZero() bool {
	return n.v == nil
}

// String returns the normalized text of the name, or "" for the zero
// Name.
func (n Name) String() string {
	if n.v == nil {
		return ""
	}
	return n.v.Get().(string)
}

// Registry is a set of known extension names, keyed by normalized
// identity rather than raw bytes, mirroring the teacher's
// ReferenceMap/MatchReference shape for link labels.
type Registry struct {
	extensions map[Name]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{extensions: make(map[Name]struct{})}
}

// RegisterExtension adds raw to the set of known extension names.
func (r *Registry) RegisterExtension(raw []byte) {
	r.extensions[Intern(raw)] = struct{}{}
}

// MatchExtension reports whether raw names a registered extension.
func (r *Registry) MatchExtension(raw []byte) bool {
	_, ok := r.extensions[Intern(raw)]
	return ok
}

// Count reports the number of distinct registered extension names.
func (r *Registry) Count() int {
	return len(r.extensions)
}
