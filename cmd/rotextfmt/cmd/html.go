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
	"github.com/spf13/cobra"

	"go.rotext.dev/rotext"
	"go.rotext.dev/rotext/render/htmlrender"
)

var (
	htmlFilterGFM bool

	htmlCmd = &cobra.Command{
		Use:   "html [file]",
		Short: "render a rotext document as HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(args)
			if err != nil {
				return err
			}
			block := rotext.NewParserFromBytes(source)
			inline := rotext.NewInlineParser(source, block)
			r := &htmlrender.Renderer{}
			if htmlFilterGFM {
				r.FilterTag = htmlrender.FilterTagGFM
			}
			log.WithField("filter-gfm-tags", htmlFilterGFM).Debug("rendering")
			return r.Render(cmd.OutOrStdout(), source, inline)
		},
	}
)

func init() {
	htmlCmd.Flags().BoolVar(&htmlFilterGFM, "filter-gfm-tags", false, "escape the GFM disallowed-raw-HTML tag set in emitted element names")
	rootCmd.AddCommand(htmlCmd)
}
