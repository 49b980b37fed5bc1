// Package output renders boards and move hints for the presentation layers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/engine"
)

// BoardWriter is the interface for writing boards to output.
// Different implementations handle different output formats (text, JSON).
type BoardWriter interface {
	// WriteBoard writes a board.
	WriteBoard(g chess.Grid) error

	// WriteMoves writes a board with the candidate moves of the piece on
	// from marked on it.
	WriteMoves(g chess.Grid, from chess.Square, m engine.Moves) error
}

// Hint markers drawn by TextWriter.
const (
	quietMark   = "**"
	captureMark = "x"
)

// TextWriter draws an 8x8 diagram with rank and file labels.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteBoard writes the diagram.
func (tw *TextWriter) WriteBoard(g chess.Grid) error {
	_, err := io.WriteString(tw.w, diagram(g, nil, nil))
	return err
}

// WriteMoves writes the diagram with quiet moves shown as "**" and
// captured pieces prefixed with "x", followed by a move summary.
func (tw *TextWriter) WriteMoves(g chess.Grid, from chess.Square, m engine.Moves) error {
	var sb strings.Builder
	sb.WriteString(diagram(g, m.Quiet, m.Captures))
	fmt.Fprintf(&sb, "%s on %s: %d quiet, %d captures\n",
		g[from.Row][from.Col].Name(), from.Algebraic(), len(m.Quiet), len(m.Captures))
	if len(m.Quiet) > 0 {
		fmt.Fprintf(&sb, "  quiet:    %s\n", squareList(m.Quiet))
	}
	if len(m.Captures) > 0 {
		fmt.Fprintf(&sb, "  captures: %s\n", squareList(m.Captures))
	}
	_, err := io.WriteString(tw.w, sb.String())
	return err
}

func diagram(g chess.Grid, quiet, captures []chess.Square) string {
	marks := make(map[chess.Square]string, len(quiet)+len(captures))
	for _, sq := range quiet {
		marks[sq] = quietMark
	}
	for _, sq := range captures {
		marks[sq] = captureMark
	}

	var sb strings.Builder
	for row := 0; row < chess.BoardSize; row++ {
		fmt.Fprintf(&sb, "%d ", chess.BoardSize-row)
		for col := 0; col < chess.BoardSize; col++ {
			sq := chess.Sq(row, col)
			cell := g[row][col].String()
			switch marks[sq] {
			case quietMark:
				cell = quietMark
			case captureMark:
				cell = captureMark + cell[1:]
			}
			sb.WriteString(" ")
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(" ")
	for col := 0; col < chess.BoardSize; col++ {
		fmt.Fprintf(&sb, "  %c", 'a'+col)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func squareList(squares []chess.Square) string {
	names := make([]string, len(squares))
	for i, sq := range squares {
		names[i] = sq.Algebraic()
	}
	return strings.Join(names, " ")
}

// JSONWriter writes boards as indented JSON objects, one per call.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// WriteBoard writes a JSONBoard.
func (jw *JSONWriter) WriteBoard(g chess.Grid) error {
	return jw.encode(BoardToJSON(g))
}

// WriteMoves writes a JSONMoves for the piece on from.
func (jw *JSONWriter) WriteMoves(g chess.Grid, from chess.Square, m engine.Moves) error {
	return jw.encode(MovesToJSON(from, g[from.Row][from.Col], m))
}

func (jw *JSONWriter) encode(v interface{}) error {
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
