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

var (
	knightSteps = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingSteps   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	diagonals = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straights = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// pawns may promote to a king in antichess
var promotions = []Type{Knight, Bishop, Rook, Queen, King}

// LegalMoves generates the legal moves of the side to move. There is no
// check in antichess and the king is an ordinary piece, so every pseudo
// legal move is legal, except that captures are compulsory: if any capture
// is available only captures are returned. Castling is never legal.
func (b *Board) LegalMoves() []Move {
	var quiets, captures []Move

	add := func(m Move, capture bool) {
		if capture {
			captures = append(captures, m)
		} else {
			quiets = append(quiets, m)
		}
	}

	for sq := Square(0); sq < 64; sq++ {
		piece := b.squares[sq]
		if piece.Empty() || piece.Color != b.turn {
			continue
		}

		switch piece.Type {
		case Pawn:
			b.pawnMoves(sq, add)
		case Knight:
			b.stepMoves(sq, knightSteps, add)
		case King:
			b.stepMoves(sq, kingSteps, add)
		case Bishop:
			b.slideMoves(sq, diagonals, add)
		case Rook:
			b.slideMoves(sq, straights, add)
		case Queen:
			b.slideMoves(sq, diagonals, add)
			b.slideMoves(sq, straights, add)
		}
	}

	if len(captures) > 0 {
		return captures
	}

	return quiets
}

func (b *Board) pawnMoves(from Square, add func(Move, bool)) {
	dir, start, last := 1, 1, 7
	if b.turn == Black {
		dir, start, last = -1, 6, 0
	}

	push := func(to Square, capture bool) {
		if to.Rank() != last {
			add(Move{From: from, To: to}, capture)
			return
		}

		for _, promotion := range promotions {
			add(Move{From: from, To: to, Promotion: promotion}, capture)
		}
	}

	if to, ok := from.offset(0, dir); ok && b.squares[to].Empty() {
		push(to, false)

		if from.Rank() == start {
			if to2, ok := from.offset(0, 2*dir); ok && b.squares[to2].Empty() {
				push(to2, false)
			}
		}
	}

	for _, df := range []int{-1, 1} {
		to, ok := from.offset(df, dir)
		if !ok {
			continue
		}

		target := b.squares[to]
		switch {
		case !target.Empty() && target.Color != b.turn:
			push(to, true)
		case target.Empty() && to == b.ep:
			push(to, true)
		}
	}
}

func (b *Board) stepMoves(from Square, steps [][2]int, add func(Move, bool)) {
	for _, step := range steps {
		to, ok := from.offset(step[0], step[1])
		if !ok {
			continue
		}

		target := b.squares[to]
		if target.Empty() {
			add(Move{From: from, To: to}, false)
		} else if target.Color != b.turn {
			add(Move{From: from, To: to}, true)
		}
	}
}

func (b *Board) slideMoves(from Square, dirs [][2]int, add func(Move, bool)) {
	for _, dir := range dirs {
		to, ok := from.offset(dir[0], dir[1])
		for ok {
			target := b.squares[to]
			if !target.Empty() {
				if target.Color != b.turn {
					add(Move{From: from, To: to}, true)
				}
				break // blocked
			}

			add(Move{From: from, To: to}, false)
			to, ok = to.offset(dir[0], dir[1])
		}
	}
}
