package session

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/errors"
	"github.com/lgbarn/chessboard-go/internal/store"
	"github.com/lgbarn/chessboard-go/internal/testutil"
)

func TestNewSession(t *testing.T) {
	s := NewSession()
	testutil.AssertGrid(t, s.Board(), chess.NewBoard().Snapshot())
	testutil.AssertNil(t, s.LastMove())
}

func TestSessionMoves(t *testing.T) {
	s := NewSession()

	m, err := s.Moves(chess.Sq(7, 1))
	testutil.AssertNoError(t, err)
	testutil.AssertSquares(t, m.Quiet, testutil.Squares(5, 0, 5, 2))
	testutil.AssertSquares(t, m.Captures, nil)

	m, err = s.Moves(chess.Sq(4, 4))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.Len(), 0, "empty square has no moves")

	_, err = s.Moves(chess.Sq(8, 0))
	testutil.AssertErrorIs(t, err, errors.ErrOutOfRange)
}

func TestSessionPieceMoves(t *testing.T) {
	s := NewSession()

	piece, m, err := s.PieceMoves(chess.Sq(0, 6))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, piece, chess.B(chess.Knight))
	testutil.AssertSquares(t, m.Quiet, testutil.Squares(2, 5, 2, 7))

	piece, _, err = s.PieceMoves(chess.Sq(0, 8))
	testutil.AssertErrorIs(t, err, errors.ErrOutOfRange)
	testutil.AssertEqual(t, piece, chess.Empty)
}

func TestSessionState(t *testing.T) {
	s := NewSession()

	st := s.State()
	testutil.AssertGrid(t, st.Board, chess.NewBoard().Snapshot())
	testutil.AssertNil(t, st.Last)
	testutil.AssertEqual(t, st.Seq, uint64(0))

	testutil.AssertNoError(t, s.Move(chess.Sq(7, 6), chess.Sq(5, 5)))
	testutil.AssertError(t, s.Move(chess.Sq(7, 0), chess.Sq(0, 0)))
	st = s.State()
	testutil.AssertEqual(t, st.Seq, uint64(1), "rejected moves do not count")
	testutil.AssertEqual(t, st.Board[5][5], chess.W(chess.Knight))
	testutil.AssertEqual(t, *st.Last, LastMove{From: chess.Sq(7, 6), To: chess.Sq(5, 5), Piece: chess.W(chess.Knight)})

	// The returned move is a copy.
	st.Last.To = chess.Sq(0, 0)
	testutil.AssertEqual(t, s.LastMove().To, chess.Sq(5, 5))
}

func TestSessionMove(t *testing.T) {
	s := NewSession()

	testutil.AssertNoError(t, s.Move(chess.Sq(6, 4), chess.Sq(4, 4)))

	grid := s.Board()
	testutil.AssertEqual(t, grid[4][4], chess.W(chess.Pawn))
	testutil.AssertEqual(t, grid[6][4], chess.Empty)

	last := s.LastMove()
	testutil.AssertEqual(t, last, &LastMove{From: chess.Sq(6, 4), To: chess.Sq(4, 4), Piece: chess.W(chess.Pawn)})
}

func TestSessionIllegalMoveLeavesBoard(t *testing.T) {
	s := NewSession()
	before := s.Board()

	tests := []struct {
		name     string
		from, to chess.Square
		target   error
	}{
		{"rook through pawn", chess.Sq(7, 0), chess.Sq(4, 0), errors.ErrIllegalMove},
		{"empty square", chess.Sq(4, 4), chess.Sq(3, 4), errors.ErrIllegalMove},
		{"off board target", chess.Sq(6, 0), chess.Sq(-1, 0), errors.ErrOutOfRange},
		{"off board origin", chess.Sq(9, 9), chess.Sq(4, 4), errors.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertErrorIs(t, s.Move(tt.from, tt.to), tt.target)
			testutil.AssertGrid(t, s.Board(), before)
			testutil.AssertNil(t, s.LastMove())
		})
	}
}

func TestSessionEditing(t *testing.T) {
	s := NewSession()
	testutil.AssertNoError(t, s.Move(chess.Sq(6, 4), chess.Sq(5, 4)))

	testutil.AssertNoError(t, s.Place(chess.Sq(4, 4), chess.B(chess.Queen)))
	testutil.AssertNil(t, s.LastMove(), "editing clears the last move")
	p, err := s.Piece(chess.Sq(4, 4))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, p, chess.B(chess.Queen))

	testutil.AssertErrorIs(t, s.Place(chess.Sq(0, 8), chess.Empty), errors.ErrOutOfRange)

	s.Clear()
	testutil.AssertGrid(t, s.Board(), chess.Grid{})

	s.Reset()
	testutil.AssertGrid(t, s.Board(), chess.NewBoard().Snapshot())
}

func TestSessionSaveLoad(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "save"), zerolog.Nop())

	s := NewSession()
	testutil.AssertNoError(t, s.Move(chess.Sq(7, 6), chess.Sq(5, 5)))
	testutil.AssertNoError(t, s.Save(st, "knight"))
	saved := s.Board()

	other := NewSessionFromBoard(chess.NewEmptyBoard())
	testutil.AssertNoError(t, other.Load(st, "knight"))
	testutil.AssertGrid(t, other.Board(), saved)

	before := other.Board()
	testutil.AssertErrorIs(t, other.Load(st, "missing"), errors.ErrSaveNotFound)
	testutil.AssertGrid(t, other.Board(), before)
}
