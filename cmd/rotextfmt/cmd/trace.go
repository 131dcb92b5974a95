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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.rotext.dev/rotext"
)

var (
	traceBlockOnly bool

	traceCmd = &cobra.Command{
		Use:   "trace [file]",
		Short: "print the blended event stream for a rotext document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(args)
			if err != nil {
				return err
			}
			return runTrace(cmd.OutOrStdout(), source, traceBlockOnly)
		},
	}
)

func init() {
	traceCmd.Flags().BoolVar(&traceBlockOnly, "block-only", false, "stop after the block phase; don't run the inline parser")
	rootCmd.AddCommand(traceCmd)
}

type eventSource interface {
	Next() (rotext.Event, error)
}

func runTrace(w io.Writer, source []byte, blockOnly bool) error {
	block := rotext.NewParserFromBytes(source)
	var events eventSource = block
	if !blockOnly {
		events = rotext.NewInlineParser(source, block)
	}
	for {
		ev, err := events.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			log.WithError(err).Debug("trace stopped early")
			return err
		}
		if _, err := fmt.Fprintln(w, formatEvent(ev, source)); err != nil {
			return err
		}
	}
}

func formatEvent(ev rotext.Event, source []byte) string {
	s := ev.Kind.String()
	if !ev.Range.IsEmpty() {
		s += fmt.Sprintf(" %q", ev.Range.Slice(source))
	}
	if ev.Line != 0 {
		s += fmt.Sprintf(" line=%d", ev.Line)
	}
	if ev.ID != 0 {
		s += fmt.Sprintf(" id=%d", ev.ID)
	}
	if ev.Level != 0 {
		s += fmt.Sprintf(" level=%d", ev.Level)
	}
	if ev.IsExtension {
		s += " extension"
	}
	if ev.HasArgName {
		s += fmt.Sprintf(" arg=%q", ev.ArgName.Slice(source))
	}
	if ev.ClosedForcedly {
		s += " closed-forcedly"
	}
	return s
}
