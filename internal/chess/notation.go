package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessboard-go/internal/errors"
)

// ParseOccupant converts a two-character save-file token into an occupant.
// Valid tokens are "--" and a side letter (w, b) followed by a kind
// letter (p, n, b, r, q, k).
func ParseOccupant(token string) (Occupant, error) {
	if len(token) != 2 {
		return Empty, fmt.Errorf("token %q: length %d: %w", token, len(token), errors.ErrMalformedSave)
	}
	if token == EmptyToken {
		return Empty, nil
	}

	var side Side
	switch token[0] {
	case 'w':
		side = White
	case 'b':
		side = Black
	default:
		return Empty, fmt.Errorf("token %q: unknown side %q: %w", token, token[0], errors.ErrMalformedSave)
	}

	kind := KindFromLetter(token[1])
	if kind == NoKind {
		return Empty, fmt.Errorf("token %q: unknown piece %q: %w", token, token[1], errors.ErrMalformedSave)
	}
	return MakePiece(side, kind), nil
}

// Serialize renders the board as 8 newline-terminated lines of 8
// space-separated tokens, row 0 first.
func (b *Board) Serialize() string {
	return b.squares.String()
}

// String renders the grid in save-file format.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize * BoardSize * 3)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(g[row][col].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseGrid parses save-file text into a grid. The text must contain
// exactly 8 lines of exactly 8 tokens; a single trailing newline and CRLF
// line endings are accepted. Failures are *errors.ParseError values
// wrapping ErrMalformedSave.
func ParseGrid(text string) (Grid, error) {
	var g Grid

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	if len(lines) != BoardSize {
		return g, &errors.ParseError{
			Err:      errors.ErrMalformedSave,
			Expected: fmt.Sprintf("%d lines", BoardSize),
			Got:      fmt.Sprintf("%d", len(lines)),
		}
	}

	for row, line := range lines {
		tokens := strings.Split(strings.TrimSpace(line), " ")
		if len(tokens) != BoardSize {
			return g, &errors.ParseError{
				Err:      errors.ErrMalformedSave,
				Line:     row + 1,
				Expected: fmt.Sprintf("%d tokens", BoardSize),
				Got:      fmt.Sprintf("%d", len(tokens)),
			}
		}
		for col, token := range tokens {
			o, err := ParseOccupant(token)
			if err != nil {
				return g, &errors.ParseError{
					Err:      errors.ErrMalformedSave,
					Line:     row + 1,
					Column:   col + 1,
					Expected: "token",
					Got:      fmt.Sprintf("%q", token),
				}
			}
			g[row][col] = o
		}
	}
	return g, nil
}

// ParseBoard creates a board from save-file text.
func ParseBoard(text string) (*Board, error) {
	g, err := ParseGrid(text)
	if err != nil {
		return nil, err
	}
	return NewBoardFromGrid(g), nil
}

// Deserialize replaces the whole grid from save-file text. The text is
// fully parsed before anything is written, so on error the board is left
// exactly as it was.
func (b *Board) Deserialize(text string) error {
	g, err := ParseGrid(text)
	if err != nil {
		return err
	}
	b.Restore(g)
	return nil
}
