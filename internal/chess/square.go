package chess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chessboard-go/internal/errors"
)

// Square is a (row, col) board coordinate. Row 0 is Black's back rank,
// row 7 is White's; col 0 is the left-hand file in the rendered orientation.
type Square struct {
	Row int
	Col int
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// Valid reports whether both coordinates lie in [0,7].
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// Offset returns the square shifted by the given row and column deltas.
// The result may be off the board.
func (s Square) Offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// String returns the square as "(row,col)".
func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// Algebraic returns the square in file/rank notation, e.g. (6,4) is "e2".
// Off-board squares fall back to String().
func (s Square) Algebraic() string {
	if !s.Valid() {
		return s.String()
	}
	return string([]byte{byte('a' + s.Col), byte('0' + BoardSize - s.Row)})
}

// ParseSquare parses either "row,col" (optionally parenthesised) or
// algebraic notation such as "e2". Coordinates outside the board are
// reported as ErrOutOfRange; anything unparseable as ErrInvalidSquare.
func ParseSquare(text string) (Square, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")

	if row, col, ok := strings.Cut(s, ","); ok {
		r, err := strconv.Atoi(strings.TrimSpace(row))
		if err != nil {
			return Square{}, fmt.Errorf("%q: %w", text, errors.ErrInvalidSquare)
		}
		c, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil {
			return Square{}, fmt.Errorf("%q: %w", text, errors.ErrInvalidSquare)
		}
		sq := Square{Row: r, Col: c}
		if !sq.Valid() {
			return Square{}, &errors.SquareError{Op: "parse", Row: r, Col: c}
		}
		return sq, nil
	}

	if len(s) == 2 {
		file := s[0] | 0x20 // lowercase
		rank := s[1]
		if file >= 'a' && file <= 'h' && rank >= '1' && rank <= '8' {
			return Square{Row: BoardSize - int(rank-'0'), Col: int(file - 'a')}, nil
		}
	}
	return Square{}, fmt.Errorf("%q: %w", text, errors.ErrInvalidSquare)
}

// checkSquare returns a SquareError for off-board squares.
func checkSquare(op string, s Square) error {
	if !s.Valid() {
		return &errors.SquareError{Op: op, Row: s.Row, Col: s.Col}
	}
	return nil
}
