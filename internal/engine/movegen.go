// Package engine provides pseudo-legal move generation, move validation
// and move application over a chess.Board.
//
// Every function is a pure function of its arguments; the engine keeps no
// state between calls and never retains a reference to the board.
package engine

import (
	"github.com/lgbarn/chessboard-go/internal/chess"
)

// direction is a (row, col) step.
type direction struct {
	dRow, dCol int
}

// Direction and offset tables. Their order fixes the order of generated
// moves, so it must not change.
var (
	orthogonal = []direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	allAround  = append(append([]direction(nil), orthogonal...), diagonal...)

	knightJumps = []direction{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
)

// Moves holds the candidate destinations of one piece.
type Moves struct {
	Quiet    []chess.Square // Destinations on empty squares
	Captures []chess.Square // Destinations holding an opposing piece
}

// All returns quiet moves followed by captures.
func (m Moves) All() []chess.Square {
	all := make([]chess.Square, 0, len(m.Quiet)+len(m.Captures))
	all = append(all, m.Quiet...)
	return append(all, m.Captures...)
}

// Contains reports whether sq is a quiet move or a capture.
func (m Moves) Contains(sq chess.Square) bool {
	return m.IsQuiet(sq) || m.IsCapture(sq)
}

// IsQuiet reports whether sq is a quiet move.
func (m Moves) IsQuiet(sq chess.Square) bool {
	return containsSquare(m.Quiet, sq)
}

// IsCapture reports whether sq is a capture.
func (m Moves) IsCapture(sq chess.Square) bool {
	return containsSquare(m.Captures, sq)
}

// Len returns the total number of destinations.
func (m Moves) Len() int {
	return len(m.Quiet) + len(m.Captures)
}

// GenerateMoves returns the quiet moves and captures of piece standing on
// pos. The engine trusts the caller's claim about which piece is moving and
// does not read the occupant at pos.
//
// pos is expected to be on the board; an off-board pos yields only the
// on-board squares its movement rules reach. Use CheckedMoves to reject it.
func GenerateMoves(board *chess.Board, pos chess.Square, piece chess.Occupant) (quiet, captures []chess.Square) {
	m := generate(board, pos, piece)
	return m.Quiet, m.Captures
}

// MovesFor is GenerateMoves returning a Moves value.
func MovesFor(board *chess.Board, pos chess.Square, piece chess.Occupant) Moves {
	return generate(board, pos, piece)
}

func generate(board *chess.Board, pos chess.Square, piece chess.Occupant) Moves {
	var m Moves
	if piece.IsEmpty() {
		return m
	}

	switch piece.Kind() {
	case chess.Pawn:
		pawnMoves(board, pos, piece, &m)
	case chess.Knight:
		stepMoves(board, pos, piece, knightJumps, &m)
	case chess.Bishop:
		slideMoves(board, pos, piece, diagonal, &m)
	case chess.Rook:
		slideMoves(board, pos, piece, orthogonal, &m)
	case chess.Queen:
		slideMoves(board, pos, piece, allAround, &m)
	case chess.King:
		stepMoves(board, pos, piece, allAround, &m)
	}
	return m
}

// stepMoves adds the single-step destinations used by kings and knights.
func stepMoves(board *chess.Board, pos chess.Square, piece chess.Occupant, steps []direction, m *Moves) {
	for _, d := range steps {
		to := pos.Offset(d.dRow, d.dCol)
		if !to.Valid() {
			continue
		}
		target := board.GetByIndex(to.Row, to.Col)
		switch {
		case target.IsEmpty():
			m.Quiet = append(m.Quiet, to)
		case target.Side() != piece.Side():
			m.Captures = append(m.Captures, to)
		}
	}
}

// slideMoves casts a ray along each direction until the board edge or the
// first occupied square. An opposing piece ends the ray as a capture.
func slideMoves(board *chess.Board, pos chess.Square, piece chess.Occupant, dirs []direction, m *Moves) {
	for _, d := range dirs {
		for to := pos.Offset(d.dRow, d.dCol); to.Valid(); to = to.Offset(d.dRow, d.dCol) {
			target := board.GetByIndex(to.Row, to.Col)
			if target.IsEmpty() {
				m.Quiet = append(m.Quiet, to)
				continue
			}
			if target.Side() != piece.Side() {
				m.Captures = append(m.Captures, to)
			}
			break
		}
	}
}

// pawnMoves adds pawn pushes and diagonal captures.
//
// The double push from the home rank only requires the single-step square
// to be empty. The double-step square itself is not checked, so a pawn
// whose path is clear for one step is offered the double step even when
// the destination is occupied.
func pawnMoves(board *chess.Board, pos chess.Square, piece chess.Occupant, m *Moves) {
	side := piece.Side()
	forward := side.Forward()

	one := pos.Offset(forward, 0)
	if one.Valid() && board.GetByIndex(one.Row, one.Col).IsEmpty() {
		m.Quiet = append(m.Quiet, one)
		if pos.Row == side.HomeRank() {
			two := pos.Offset(2*forward, 0)
			if two.Valid() {
				m.Quiet = append(m.Quiet, two)
			}
		}
	}

	for _, dCol := range []int{-1, 1} {
		to := pos.Offset(forward, dCol)
		if !to.Valid() {
			continue
		}
		if target := board.GetByIndex(to.Row, to.Col); piece.Opposes(target) {
			m.Captures = append(m.Captures, to)
		}
	}
}

func containsSquare(squares []chess.Square, sq chess.Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
