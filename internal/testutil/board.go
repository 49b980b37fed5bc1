package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/chessboard-go/internal/chess"
)

// MustParseBoard parses save-file text and returns the board.
// It calls t.Fatal if the text is malformed.
func MustParseBoard(t *testing.T, text string) *chess.Board {
	t.Helper()
	b, err := chess.ParseBoard(strings.TrimLeft(text, "\n"))
	if err != nil {
		t.Fatalf("failed to parse test board: %v\n%s", err, text)
	}
	return b
}

// BoardWith returns an otherwise empty board holding the given pieces.
func BoardWith(t *testing.T, pieces map[chess.Square]chess.Occupant) *chess.Board {
	t.Helper()
	b := chess.NewEmptyBoard()
	for sq, o := range pieces {
		if err := b.Set(sq, o); err != nil {
			t.Fatalf("BoardWith: %v", err)
		}
	}
	return b
}

// Squares builds a square slice from row/col pairs, e.g. Squares(5, 0, 5, 2).
func Squares(coords ...int) []chess.Square {
	if len(coords)%2 != 0 {
		panic("testutil.Squares: odd number of coordinates")
	}
	out := make([]chess.Square, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		out = append(out, chess.Sq(coords[i], coords[i+1]))
	}
	return out
}
