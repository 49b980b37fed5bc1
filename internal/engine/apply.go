package engine

import (
	"fmt"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/errors"
)

// ValidateMove reports whether end is among the quiet moves or captures
// GenerateMoves produces for piece on start. It has no side effects.
func ValidateMove(board *chess.Board, start, end chess.Square, piece chess.Occupant) bool {
	return generate(board, start, piece).Contains(end)
}

// ApplyMove writes piece to end and Empty to start. It never validates the
// move; callers check with ValidateMove first. Off-board squares are
// skipped rather than written. Use CheckedApply to reject them.
func ApplyMove(board *chess.Board, start, end chess.Square, piece chess.Occupant) {
	if end.Valid() {
		board.SetByIndex(end.Row, end.Col, piece)
	}
	if start.Valid() {
		board.SetByIndex(start.Row, start.Col, chess.Empty)
	}
}

// CheckedMoves is MovesFor with an explicit bounds check on pos.
func CheckedMoves(board *chess.Board, pos chess.Square, piece chess.Occupant) (Moves, error) {
	if !pos.Valid() {
		return Moves{}, &errors.SquareError{Op: "moves", Row: pos.Row, Col: pos.Col}
	}
	return generate(board, pos, piece), nil
}

// CheckedValidate is ValidateMove with explicit bounds checks on start
// and end.
func CheckedValidate(board *chess.Board, start, end chess.Square, piece chess.Occupant) (bool, error) {
	if err := checkSquares("validate", start, end); err != nil {
		return false, err
	}
	return ValidateMove(board, start, end, piece), nil
}

// CheckedApply is ApplyMove with explicit bounds checks on start and end.
// Nothing is written when either square is off the board.
func CheckedApply(board *chess.Board, start, end chess.Square, piece chess.Occupant) error {
	if err := checkSquares("apply", start, end); err != nil {
		return err
	}
	ApplyMove(board, start, end, piece)
	return nil
}

// TryMove validates and, if legal, applies a move in one call. An illegal
// move leaves the board untouched and returns ErrIllegalMove.
func TryMove(board *chess.Board, start, end chess.Square, piece chess.Occupant) error {
	ok, err := CheckedValidate(board, start, end, piece)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%v %v to %v: %w", piece.Name(), start, end, errors.ErrIllegalMove)
	}
	ApplyMove(board, start, end, piece)
	return nil
}

func checkSquares(op string, squares ...chess.Square) error {
	for _, sq := range squares {
		if !sq.Valid() {
			return &errors.SquareError{Op: op, Row: sq.Row, Col: sq.Col}
		}
	}
	return nil
}
