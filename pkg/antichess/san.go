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

package antichess

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSAN    = errors.New("antichess: invalid san")
	ErrIllegalMove   = errors.New("antichess: illegal move")
	ErrAmbiguousMove = errors.New("antichess: ambiguous move")
)

// san is a decomposed standard algebraic notation move.
type san struct {
	piece     Type
	to        Square
	promotion Type

	// disambiguation, -1 when not given
	fromFile, fromRank int
}

func parseSAN(text string) (san, error) {
	s := strings.TrimRight(text, "+#!?")

	if strings.HasPrefix(s, "O-O") || strings.HasPrefix(s, "0-0") {
		return san{}, fmt.Errorf("%w: castling %q", ErrIllegalMove, text)
	}

	move := san{piece: Pawn, fromFile: -1, fromRank: -1}

	if i := strings.IndexByte(s, '='); i >= 0 {
		if i != len(s)-2 {
			return san{}, fmt.Errorf("%w: %q", ErrInvalidSAN, text)
		}

		t, ok := typeLetters[s[i+1]]
		if !ok {
			return san{}, fmt.Errorf("%w: promotion piece in %q", ErrInvalidSAN, text)
		}

		move.promotion, s = t, s[:i]
	} else if n := len(s); n > 2 && s[0] >= 'a' && s[0] <= 'h' {
		// promotions written without '=', e.g. "e8Q"
		if t, ok := typeLetters[s[n-1]]; ok {
			move.promotion, s = t, s[:n-1]
		}
	}

	if len(s) > 0 {
		if t, ok := typeLetters[s[0]]; ok {
			move.piece, s = t, s[1:]
		}
	}

	s = strings.ReplaceAll(s, "x", "")
	if len(s) < 2 || len(s) > 4 {
		return san{}, fmt.Errorf("%w: %q", ErrInvalidSAN, text)
	}

	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return san{}, fmt.Errorf("%w: %q", ErrInvalidSAN, text)
	}
	move.to = to

	for _, c := range []byte(s[:len(s)-2]) {
		switch {
		case c >= 'a' && c <= 'h' && move.fromFile < 0:
			move.fromFile = int(c - 'a')
		case c >= '1' && c <= '8' && move.fromRank < 0:
			move.fromRank = int(c - '1')
		default:
			return san{}, fmt.Errorf("%w: %q", ErrInvalidSAN, text)
		}
	}

	if move.promotion != NoType && move.piece != Pawn {
		return san{}, fmt.Errorf("%w: only pawns promote in %q", ErrInvalidSAN, text)
	}

	return move, nil
}

// ParseSAN resolves a move in standard algebraic notation against the
// legal moves of the current position. The capture marker is not
// required to be present, but the move must resolve to exactly one legal
// move, otherwise ErrIllegalMove or ErrAmbiguousMove is returned.
func (b *Board) ParseSAN(text string) (Move, error) {
	move, err := parseSAN(text)
	if err != nil {
		return Move{}, err
	}

	var found []Move
	for _, legal := range b.LegalMoves() {
		switch {
		case legal.To != move.to,
			legal.Promotion != move.promotion,
			b.squares[legal.From].Type != move.piece,
			move.fromFile >= 0 && legal.From.File() != move.fromFile,
			move.fromRank >= 0 && legal.From.Rank() != move.fromRank:
			continue
		}

		found = append(found, legal)
	}

	switch len(found) {
	case 0:
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, text)
	case 1:
		return found[0], nil
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrAmbiguousMove, text)
	}
}
