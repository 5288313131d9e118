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

// Package match measures how far a single game followed the solution
// line.
package match

import (
	"fmt"

	"laptudirm.com/x/e3wins/pkg/antichess"
	"laptudirm.com/x/e3wins/pkg/lichess"
)

// DefaultStartMove is the first move of the solved opening.
const DefaultStartMove = "e3"

// NotationError is a recorded move which could not be resolved on the
// board.
type NotationError struct {
	GameID string
	Ply    int // 1-based
	SAN    string
	Err    error
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("game %s: ply %d: %q: %v", e.GameID, e.Ply, e.SAN, e.Err)
}

func (e *NotationError) Unwrap() error {
	return e.Err
}

// Converter turns recorded games into coordinate move sequences.
type Converter struct {
	// StartMove is the SAN move a game must open with to be converted.
	StartMove string
}

func NewConverter(startMove string) *Converter {
	if startMove == "" {
		startMove = DefaultStartMove
	}

	return &Converter{StartMove: startMove}
}

// Convert resolves every move of the game on an antichess board. Games
// which do not open with the start move convert to an empty sequence.
func (converter *Converter) Convert(game *lichess.Game) ([]antichess.Move, error) {
	sans := game.SANMoves()
	if len(sans) == 0 || sans[0] != converter.StartMove {
		return nil, nil
	}

	board := antichess.New()
	moves := make([]antichess.Move, 0, len(sans))

	for i, text := range sans {
		move, err := board.ParseSAN(text)
		if err != nil {
			return nil, &NotationError{
				GameID: game.ID,
				Ply:    i + 1,
				SAN:    text,
				Err:    err,
			}
		}

		board.Apply(move)
		moves = append(moves, move)
	}

	return moves, nil
}

// UCI returns the coordinate form of each move.
func UCI(moves []antichess.Move) []string {
	uci := make([]string, len(moves))
	for i, move := range moves {
		uci[i] = move.String()
	}

	return uci
}
