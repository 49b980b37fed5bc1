package output

import (
	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/engine"
	"github.com/lgbarn/chessboard-go/internal/hashing"
)

// JSONBoard represents a board in JSON format.
type JSONBoard struct {
	Rows   [][]string `json:"rows"`   // 8 rows of 8 save-file tokens, row 0 first
	Text   string     `json:"text"`   // The save-file rendering
	Pieces int        `json:"pieces"` // Number of occupied squares
	Hash   string     `json:"hash"`   // Position hash, equal for identical boards
}

// JSONSquare represents a square in JSON format.
type JSONSquare struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Name string `json:"name"` // Algebraic name, e.g. "e2"
}

// JSONMoves represents the candidate moves of one piece.
type JSONMoves struct {
	From     JSONSquare   `json:"from"`
	Piece    string       `json:"piece"`
	Quiet    []JSONSquare `json:"quiet"`
	Captures []JSONSquare `json:"captures"`
}

// BoardToJSON converts a grid to its JSON representation.
func BoardToJSON(g chess.Grid) *JSONBoard {
	out := &JSONBoard{
		Rows: make([][]string, chess.BoardSize),
		Text: g.String(),
		Hash: hashing.HashString(g),
	}
	for row := 0; row < chess.BoardSize; row++ {
		out.Rows[row] = make([]string, chess.BoardSize)
		for col := 0; col < chess.BoardSize; col++ {
			o := g[row][col]
			out.Rows[row][col] = o.String()
			if !o.IsEmpty() {
				out.Pieces++
			}
		}
	}
	return out
}

// SquareToJSON converts a square to its JSON representation.
func SquareToJSON(sq chess.Square) JSONSquare {
	return JSONSquare{Row: sq.Row, Col: sq.Col, Name: sq.Algebraic()}
}

// MovesToJSON converts the moves of piece on from to JSON. Empty sets are
// rendered as empty arrays, never null.
func MovesToJSON(from chess.Square, piece chess.Occupant, m engine.Moves) *JSONMoves {
	return &JSONMoves{
		From:     SquareToJSON(from),
		Piece:    piece.String(),
		Quiet:    squaresToJSON(m.Quiet),
		Captures: squaresToJSON(m.Captures),
	}
}

func squaresToJSON(squares []chess.Square) []JSONSquare {
	out := make([]JSONSquare, 0, len(squares))
	for _, sq := range squares {
		out = append(out, SquareToJSON(sq))
	}
	return out
}
