// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Query() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query uci-move...",
		Short: "Ask the solution reader for the move after a line",
		Args:  cobra.MinimumNArgs(1),
		Long: heredoc.Doc(`query sends a single line of coordinate moves, starting
			from the initial position, to the solution reader and prints
			its answer: the prescribed continuation, or null if the
			position is outside of the solution.`),
		Example: heredoc.Doc(`
			$ e3wins query e2e3 g7g5 f1a6
			b7a6`),

		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			applyOracleFlags(cmd, conf)

			process, err := startOracle(conf)
			if err != nil {
				return err
			}

			defer func() {
				if err := process.Close(); err != nil {
					logrus.Warn(err)
				}
			}()

			response, err := process.Query(cmd.Context(), args)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), response)
			return err
		},
	}

	oracleFlags(cmd)
	return cmd
}
