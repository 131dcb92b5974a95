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

// Package htmlrender is a reference HTML renderer for the rotext Blend
// event group.
//
// It is an external collaborator in the sense of rotext's core
// specification: rendering, extension dispatch, and tag filtering all
// live outside the parser, consuming only the event stream and the
// original source bytes. This package is never imported by the core
// rotext package; cmd/rotextfmt uses it for its html subcommand, and
// other callers opt in to it explicitly.
package htmlrender

import (
	"fmt"
	"io"

	"golang.org/x/net/html/atom"

	"go.rotext.dev/rotext"
)

// EventSource is satisfied by [rotext.InlineParser] (and by
// [rotext.Parser] for block-only streams, since EventUnparsed never
// reaches IsBlend).
type EventSource interface {
	Next() (rotext.Event, error)
}

// Renderer converts a blended rotext event stream into HTML.
//
// # Security considerations
//
// rotext has no notion of raw HTML passthrough, so unlike an HTML-Markdown
// renderer there is no analogous IgnoreRaw switch; every text payload is
// escaped. FilterTag exists for callers who want to suppress specific
// element names regardless (e.g. because a downstream template already
// owns them).
type Renderer struct {
	// FilterTag reports whether an element with the given lowercased
	// tag name should have its leading angle bracket escaped instead of
	// emitted. If nil, no filtering occurs.
	FilterTag func(tag []byte) bool
}

// Render writes the blended event stream from events to w as HTML,
// re-slicing text payloads out of source.
func Render(w io.Writer, source []byte, events EventSource) error {
	return (&Renderer{}).Render(w, source, events)
}

// Render writes the blended event stream from events to w as HTML,
// re-slicing text payloads out of source.
func (r *Renderer) Render(w io.Writer, source []byte, events EventSource) error {
	var dst []byte
	var err error
	dst, err = r.appendAll(dst, source, events)
	if err != nil {
		return fmt.Errorf("render rotext to html: %w", err)
	}
	if _, err := w.Write(dst); err != nil {
		return fmt.Errorf("render rotext to html: %w", err)
	}
	return nil
}

// frame tracks one open container so its matching close event can
// close the right tags, mirroring the open/close bookkeeping the
// teacher does implicitly via tree recursion; a flat event stream has
// to do it explicitly with a stack.
type frame struct {
	tag       atom.Atom
	isTable   bool
	cellOpen  bool
	cellTag   atom.Atom
	rowOpen   bool
	captionOpen bool
	isCall    bool
	argOpen   bool
}

type state struct {
	dst    []byte
	stack  []frame
	inline []atom.Atom
}

func (r *Renderer) appendAll(dst, source []byte, events EventSource) ([]byte, error) {
	st := &state{dst: dst}
	for {
		ev, err := events.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return st.dst, err
		}
		if err := r.step(st, source, ev); err != nil {
			return st.dst, err
		}
	}
	return st.dst, nil
}

func (r *Renderer) step(st *state, source []byte, ev rotext.Event) error {
	switch ev.Kind {
	case rotext.EventEnterParagraph:
		st.push(frame{tag: atom.P})
		r.openTag(st, atom.P)
	case rotext.EventEnterHeading:
		tag := headingAtom(ev.Level)
		st.push(frame{tag: tag})
		r.openTag(st, tag)
	case rotext.EventEnterBlockQuote:
		st.push(frame{tag: atom.Blockquote})
		r.openTag(st, atom.Blockquote)
	case rotext.EventEnterOrderedList:
		st.push(frame{tag: atom.Ol})
		r.openTag(st, atom.Ol)
	case rotext.EventEnterUnorderedList:
		st.push(frame{tag: atom.Ul})
		r.openTag(st, atom.Ul)
	case rotext.EventEnterListItem:
		st.push(frame{tag: atom.Li})
		r.openTag(st, atom.Li)
	case rotext.EventEnterDescriptionList:
		st.push(frame{tag: atom.Dl})
		r.openTag(st, atom.Dl)
	case rotext.EventEnterDescriptionTerm:
		st.push(frame{tag: atom.Dt})
		r.openTag(st, atom.Dt)
	case rotext.EventEnterDescriptionDetails:
		st.push(frame{tag: atom.Dd})
		r.openTag(st, atom.Dd)
	case rotext.EventEnterCodeBlock:
		st.push(frame{tag: atom.Pre})
		r.openTag(st, atom.Pre)
		r.openTag(st, atom.Code)
	case rotext.EventEnterTable:
		st.push(frame{tag: atom.Table, isTable: true})
		r.openTag(st, atom.Table)
	case rotext.EventThematicBreak:
		r.openTag(st, atom.Hr)
	case rotext.EventEnterCallOnTemplate:
		st.push(frame{tag: atom.Div, isCall: true})
		r.openTagAttr(st, atom.Div)
		st.dst = append(st.dst, ` class="call" data-call="`...)
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
		st.dst = append(st.dst, `">`...)
	case rotext.EventEnterCallOnExtension:
		st.push(frame{tag: atom.Div, isCall: true})
		r.openTagAttr(st, atom.Div)
		st.dst = append(st.dst, ` class="call call-extension" data-call="`...)
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
		st.dst = append(st.dst, `">`...)

	case rotext.EventIndicateCodeBlockCode:
		// Nothing to close; info-string text (if any) has already been
		// flushed as plain text inside <code>. A renderer that wants a
		// language-* class would need to buffer the info string instead
		// of streaming it, which this reference implementation does not.

	case rotext.EventIndicateTableCaption:
		st.closeTableCellAndRow()
		st.topTable().captionOpen = true
		r.openTag(st, atom.Caption)
	case rotext.EventIndicateTableRow:
		st.closeTableCellAndRow()
		st.topTable().rowOpen = true
		r.openTag(st, atom.Tr)
	case rotext.EventIndicateTableHeaderCell:
		st.closeTableCell()
		st.topTable().cellOpen = true
		st.topTable().cellTag = atom.Th
		r.openTag(st, atom.Th)
	case rotext.EventIndicateTableDataCell:
		st.closeTableCell()
		st.topTable().cellOpen = true
		st.topTable().cellTag = atom.Td
		r.openTag(st, atom.Td)

	case rotext.EventIndicateCallNormalArgument, rotext.EventIndicateCallVerbatimArgument:
		st.closeCallArgument()
		top := st.topCall()
		top.argOpen = true
		r.openTagAttr(st, atom.Span)
		st.dst = append(st.dst, ` class="arg"`...)
		if ev.HasArgName {
			st.dst = append(st.dst, ` data-arg="`...)
			st.dst = appendEscaped(st.dst, ev.ArgName.Slice(source))
			st.dst = append(st.dst, `"`...)
		}
		st.dst = append(st.dst, `>`...)

	case rotext.EventExitBlock:
		f := st.pop()
		if f.isTable {
			st.closeTableCellAndRowFrame(&f)
			r.closeTag(st, atom.Table)
			break
		}
		if f.isCall {
			if f.argOpen {
				r.closeTag(st, atom.Span)
			}
			r.closeTag(st, atom.Div)
			break
		}
		if f.tag == atom.Pre {
			r.closeTag(st, atom.Code)
			r.closeTag(st, atom.Pre)
			break
		}
		r.closeTag(st, f.tag)

	case rotext.EventEnterCodeSpan:
		st.inline = append(st.inline, atom.Code)
		r.openTag(st, atom.Code)
	case rotext.EventEnterEmphasis:
		st.inline = append(st.inline, atom.Em)
		r.openTag(st, atom.Em)
	case rotext.EventEnterStrong:
		st.inline = append(st.inline, atom.Strong)
		r.openTag(st, atom.Strong)
	case rotext.EventEnterStrikethrough:
		st.inline = append(st.inline, atom.S)
		r.openTag(st, atom.S)
	case rotext.EventEnterRuby:
		st.inline = append(st.inline, atom.Ruby)
		r.openTag(st, atom.Ruby)
	case rotext.EventEnterRubyText:
		st.inline = append(st.inline, atom.Rt)
		r.openTag(st, atom.Rt)
	case rotext.EventEnterWikiLink:
		st.inline = append(st.inline, atom.A)
		r.openTagAttr(st, atom.A)
		st.dst = append(st.dst, ` class="wiki-link" href="/wiki/`...)
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
		st.dst = append(st.dst, `">`...)
	case rotext.EventEnterCallInline:
		st.inline = append(st.inline, atom.Span)
		r.openTagAttr(st, atom.Span)
		class := "call"
		if ev.IsExtension {
			class = "call call-extension"
		}
		st.dst = append(st.dst, ` class="`...)
		st.dst = append(st.dst, class...)
		st.dst = append(st.dst, `" data-call="`...)
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
		st.dst = append(st.dst, `">`...)
	case rotext.EventRefLink:
		r.openTagAttr(st, atom.A)
		st.dst = append(st.dst, ` class="ref-link" href="#`...)
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
		st.dst = append(st.dst, `">`...)
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
		r.closeTag(st, atom.A)
	case rotext.EventDicexp:
		r.openTagAttr(st, atom.Code)
		st.dst = append(st.dst, ` class="dicexp">`...)
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
		r.closeTag(st, atom.Code)
	case rotext.EventExitInline:
		n := len(st.inline)
		tag := st.inline[n-1]
		st.inline = st.inline[:n-1]
		r.closeTag(st, tag)

	case rotext.EventText:
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
	case rotext.EventRaw:
		st.dst = append(st.dst, ev.Range.Slice(source)...)
	case rotext.EventVerbatimEscaping:
		st.dst = appendEscaped(st.dst, ev.Range.Slice(source))
	case rotext.EventNewLine:
		st.dst = append(st.dst, '\n')
	}
	return nil
}

func (s *state) push(f frame) {
	s.stack = append(s.stack, f)
}

func (s *state) pop() frame {
	n := len(s.stack)
	f := s.stack[n-1]
	s.stack = s.stack[:n-1]
	return f
}

func (s *state) topTable() *frame {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].isTable {
			return &s.stack[i]
		}
	}
	return &frame{}
}

func (s *state) topCall() *frame {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].isCall {
			return &s.stack[i]
		}
	}
	return &frame{}
}

func (s *state) closeTableCell() {
	t := s.topTable()
	if t.cellOpen {
		s.dst = closeTagBytes(s.dst, t.cellTag)
		t.cellOpen = false
	}
}

func (s *state) closeTableCellAndRow() {
	t := s.topTable()
	s.closeTableCell()
	if t.captionOpen {
		s.dst = closeTagBytes(s.dst, atom.Caption)
		t.captionOpen = false
	}
	if t.rowOpen {
		s.dst = closeTagBytes(s.dst, atom.Tr)
		t.rowOpen = false
	}
}

func (s *state) closeTableCellAndRowFrame(f *frame) {
	if f.cellOpen {
		s.dst = closeTagBytes(s.dst, f.cellTag)
	}
	if f.captionOpen {
		s.dst = closeTagBytes(s.dst, atom.Caption)
	}
	if f.rowOpen {
		s.dst = closeTagBytes(s.dst, atom.Tr)
	}
}

func (s *state) closeCallArgument() {
	t := s.topCall()
	if t.argOpen {
		s.dst = closeTagBytes(s.dst, atom.Span)
		t.argOpen = false
	}
}

func closeTagBytes(dst []byte, name atom.Atom) []byte {
	dst = append(dst, "</"...)
	dst = append(dst, name.String()...)
	dst = append(dst, '>')
	return dst
}

func headingAtom(level uint8) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func (r *Renderer) openTagAttr(st *state, name atom.Atom) {
	start := len(st.dst)
	st.dst = append(st.dst, '<')
	st.dst = append(st.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(st.dst[start+1:]) {
		st.dst = st.dst[:start]
		st.dst = append(st.dst, "&lt;"...)
		st.dst = append(st.dst, name.String()...)
	}
}

func (r *Renderer) openTag(st *state, name atom.Atom) {
	r.openTagAttr(st, name)
	st.dst = append(st.dst, '>')
}

func (r *Renderer) closeTag(st *state, name atom.Atom) {
	start := len(st.dst)
	st.dst = append(st.dst, "</"...)
	st.dst = append(st.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(st.dst[start+2:]) {
		st.dst = st.dst[:start]
		st.dst = append(st.dst, "&lt;/"...)
		st.dst = append(st.dst, name.String()...)
	}
	st.dst = append(st.dst, '>')
}

// appendEscaped appends the HTML-escaped form of src to dst.
func appendEscaped(dst []byte, src []byte) []byte {
	verbatimStart := 0
	for i, b := range src {
		var esc string
		switch b {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		case '\'':
			esc = "&#39;"
		default:
			continue
		}
		dst = append(dst, src[verbatimStart:i]...)
		dst = append(dst, esc...)
		verbatimStart = i + 1
	}
	if verbatimStart < len(src) {
		dst = append(dst, src[verbatimStart:]...)
	}
	return dst
}

// FilterTagGFM mirrors the teacher's disallowed-raw-HTML tag set; it
// has no special meaning for rotext (which has no raw-HTML construct)
// beyond letting a caller reuse the same list for element names it
// considers unsafe to emit literally.
func FilterTagGFM(tag []byte) bool {
	switch atom.Lookup(tag) {
	case atom.Title, atom.Textarea, atom.Style, atom.Xmp, atom.Iframe,
		atom.Noembed, atom.Noframes, atom.Script, atom.Plaintext:
		return true
	default:
		return false
	}
}
