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

// Package lichess reads the games of a lichess tournament, as exported by
// the tournament game export endpoints in ndjson form.
package lichess

import (
	"fmt"
	"strings"
	"time"
)

// Game is a single exported tournament game.
type Game struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
	Variant   string `json:"variant"`

	Players struct {
		White Player `json:"white"`
		Black Player `json:"black"`
	} `json:"players"`

	// Winner is "white", "black", or empty for a draw.
	Winner string `json:"winner"`

	// Moves is the space separated SAN move list.
	Moves string `json:"moves"`
}

type Player struct {
	// User is nil for anonymous players and computer opponents.
	User *User `json:"user"`

	AILevel int `json:"aiLevel"`
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Name returns the player's display name.
func (player Player) Name() string {
	switch {
	case player.User != nil && player.User.Name != "":
		return player.User.Name
	case player.AILevel > 0:
		return fmt.Sprintf("Stockfish level %d", player.AILevel)
	default:
		return "Anonymous"
	}
}

// White returns the name of the player with the white pieces.
func (game *Game) White() string {
	return game.Players.White.Name()
}

// Black returns the name of the player with the black pieces.
func (game *Game) Black() string {
	return game.Players.Black.Name()
}

// SANMoves splits the recorded move list.
func (game *Game) SANMoves() []string {
	return strings.Fields(game.Moves)
}

// Created returns the game's creation time, or the zero time if it was
// not exported.
func (game *Game) Created() time.Time {
	if game.CreatedAt == 0 {
		return time.Time{}
	}

	return time.UnixMilli(game.CreatedAt).UTC()
}

// IsAntichess reports whether the game was played in the antichess
// variant. Exports which omit the variant are assumed to be antichess.
func (game *Game) IsAntichess() bool {
	return game.Variant == "" || strings.EqualFold(game.Variant, "antichess")
}

// Outcome is the result of a game from white's perspective.
type Outcome int

const (
	WhiteWins Outcome = +1
	Draw      Outcome = 0
	BlackWins Outcome = -1
)

func (outcome Outcome) String() string {
	switch outcome {
	case WhiteWins:
		return "1-0"
	case Draw:
		return "1/2-1/2"
	case BlackWins:
		return "0-1"
	default:
		return "?-?"
	}
}

func (game *Game) Outcome() Outcome {
	switch game.Winner {
	case "white":
		return WhiteWins
	case "black":
		return BlackWins
	default:
		return Draw
	}
}

// Identity is the leaderboard identity credited with the game: the winner's
// name, or "White = Black" for a draw.
func (game *Game) Identity() string {
	switch game.Outcome() {
	case WhiteWins:
		return game.White()
	case BlackWins:
		return game.Black()
	default:
		return game.White() + " = " + game.Black()
	}
}
