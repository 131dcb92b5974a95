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

// Package cmd implements the rotextfmt command-line driver.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "rotextfmt",
		Short:        "rotextfmt",
		SilenceUsage: true,
		Long:         `rotextfmt parses rotext source and prints its event trace or rendered HTML.`,
	}

	verbose bool
	log     = logrus.New()
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	})
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("rotextfmt failed")
		return err
	}
	return nil
}

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
