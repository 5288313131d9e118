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
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/e3wins/pkg/antichess"
)

func Convert() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert san-move...",
		Short: "Convert antichess moves from SAN to coordinate notation",
		Args:  cobra.MinimumNArgs(1),
		Long: heredoc.Doc(`convert plays the given moves, in standard algebraic
			notation, on an antichess board and prints them in the
			coordinate notation understood by the solution reader.
			Captures are compulsory, and pawns may promote to a king.`),
		Example: heredoc.Doc(`
			$ e3wins convert e3 g5 Ba6 bxa6
			e2e3 g7g5 f1a6 b7a6`),

		RunE: func(cmd *cobra.Command, args []string) error {
			fen, _ := cmd.Flags().GetString("fen")

			board, err := antichess.ParseFEN(fen)
			if err != nil {
				return err
			}

			moves := make([]string, 0, len(args))
			for i, text := range args {
				move, err := board.ParseSAN(text)
				if err != nil {
					return fmt.Errorf("move %d: %w", i+1, err)
				}

				board.Apply(move)
				moves = append(moves, move.String())
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(moves, " "))
			return err
		},
	}

	cmd.Flags().String("fen", antichess.StartFEN, "Position to play the moves from")
	return cmd
}
