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

// Package antichess implements just enough of the antichess rules to
// resolve recorded algebraic moves into coordinate moves: a mailbox board,
// move generation with compulsory captures, and a SAN resolver.
package antichess

import (
	"errors"
	"fmt"
	"strings"
)

// Color is the color of a piece or of the side to move.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Type is a piece type. The zero value marks an empty square.
type Type uint8

const (
	NoType Type = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// typeLetters maps SAN piece letters to piece types.
var typeLetters = map[byte]Type{
	'N': Knight,
	'B': Bishop,
	'R': Rook,
	'Q': Queen,
	'K': King,
}

// Letter returns the lowercase letter used for promotions in coordinate
// notation.
func (t Type) Letter() byte {
	return " pnbrqk"[t]
}

// Piece is a colored piece. The zero value is an empty square.
type Piece struct {
	Type  Type
	Color Color
}

// Empty reports whether the piece represents an empty square.
func (p Piece) Empty() bool {
	return p.Type == NoType
}

// Square is a board square index, a1 = 0, h8 = 63.
type Square int8

// NoSquare is used where a square is optional, e.g. no en passant target.
const NoSquare Square = -1

// NewSquare returns the square on the given file and rank (both 0-7).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses a square in algebraic form, e.g. "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("antichess: invalid square %q", s)
	}

	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// offset returns the square df files and dr ranks away from sq, and false
// if that square is off the board.
func (sq Square) offset(df, dr int) (Square, bool) {
	file, rank := sq.File()+df, sq.Rank()+dr
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, false
	}

	return NewSquare(file, rank), true
}

// Move is a single ply in coordinate form.
type Move struct {
	From, To  Square
	Promotion Type
}

// String returns the move in coordinate notation, e.g. "e2e3" or "a7a8k".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoType {
		s += string(m.Promotion.Letter())
	}
	return s
}

// ErrInvalidFEN is returned by ParseFEN for malformed input.
var ErrInvalidFEN = errors.New("antichess: invalid FEN")

// StartFEN is the antichess starting position, which is the same as in
// standard chess. Castling is not allowed in antichess, so the castling
// field is always ignored.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// Board is an antichess position.
type Board struct {
	squares [64]Piece
	turn    Color

	// en passant target square, or NoSquare
	ep Square
}

// New returns a board set up in the starting position.
func New() *Board {
	board, _ := ParseFEN(StartFEN)
	return board
}

// ParseFEN parses the placement, side to move and en passant fields of a
// FEN string. Missing trailing fields take their default values.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, ErrInvalidFEN
	}

	board := &Board{ep: NoSquare}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: %d ranks", ErrInvalidFEN, len(ranks))
	}

	for i, row := range ranks {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			default:
				piece, ok := pieceFromFEN(c)
				if !ok || file > 7 {
					return nil, fmt.Errorf("%w: bad placement %q", ErrInvalidFEN, row)
				}
				board.squares[NewSquare(file, rank)] = piece
				file++
			}
		}

		if file != 8 {
			return nil, fmt.Errorf("%w: bad placement %q", ErrInvalidFEN, row)
		}
	}

	if len(fields) > 1 {
		switch fields[1] {
		case "w":
			board.turn = White
		case "b":
			board.turn = Black
		default:
			return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		ep, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
		board.ep = ep
	}

	return board, nil
}

func pieceFromFEN(c byte) (Piece, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}

	if c == 'P' {
		return Piece{Pawn, color}, true
	}

	t, ok := typeLetters[c]
	return Piece{t, color}, ok
}

// Turn returns the side to move.
func (b *Board) Turn() Color {
	return b.turn
}

// At returns the piece on the given square.
func (b *Board) At(sq Square) Piece {
	return b.squares[sq]
}

// EnPassant returns the current en passant target square, if any.
func (b *Board) EnPassant() Square {
	return b.ep
}

// Apply plays the move on the board. The move is assumed to be legal.
func (b *Board) Apply(m Move) {
	piece := b.squares[m.From]

	// en passant capture: the captured pawn is behind the target square
	if piece.Type == Pawn && m.To == b.ep && b.squares[m.To].Empty() {
		behind := NewSquare(m.To.File(), m.From.Rank())
		b.squares[behind] = Piece{}
	}

	b.ep = NoSquare
	if piece.Type == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		b.ep = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
	}

	if m.Promotion != NoType {
		piece.Type = m.Promotion
	}

	b.squares[m.From] = Piece{}
	b.squares[m.To] = piece
	b.turn = b.turn.Other()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
