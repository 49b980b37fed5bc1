// Package session serializes access to boards shared between callers.
//
// A Session owns one board and guards it with a mutex. A Manager keeps
// sessions keyed by id and tells subscribers when a board changes.
package session

import (
	"sync"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/engine"
	"github.com/lgbarn/chessboard-go/internal/store"
)

// LastMove is the most recently applied move, kept for highlighting.
type LastMove struct {
	From  chess.Square
	To    chess.Square
	Piece chess.Occupant
}

// State is a consistent view of a session: the grid, the move that
// produced it and the change count it was read at.
type State struct {
	Board chess.Grid
	Last  *LastMove
	Seq   uint64
}

// Session wraps one board. All methods are safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	board *chess.Board
	last  *LastMove
	// seq counts changes. Hooks may run out of order, so each snapshot
	// carries the seq it was taken at.
	seq      uint64
	onChange func(g chess.Grid, seq uint64)
}

// NewSession creates a session holding the standard starting position.
func NewSession() *Session {
	return &Session{board: chess.NewBoard()}
}

// NewSessionFromBoard creates a session holding a copy of board.
func NewSessionFromBoard(board *chess.Board) *Session {
	return &Session{board: board.Copy()}
}

// Board returns a snapshot of the grid.
func (s *Session) Board() chess.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Snapshot()
}

// State returns the grid and last move taken under one lock.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{Board: s.board.Snapshot(), Seq: s.seq}
	if s.last != nil {
		m := *s.last
		st.Last = &m
	}
	return st
}

// Piece returns the occupant at sq.
func (s *Session) Piece(sq chess.Square) (chess.Occupant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Get(sq)
}

// Moves returns the candidate moves of whatever occupies sq. An empty
// square has no moves.
func (s *Session) Moves(sq chess.Square) (engine.Moves, error) {
	_, m, err := s.PieceMoves(sq)
	return m, err
}

// PieceMoves returns the occupant at sq together with its candidate
// moves, both read under one lock.
func (s *Session) PieceMoves(sq chess.Square) (chess.Occupant, engine.Moves, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	piece, err := s.board.Get(sq)
	if err != nil {
		return chess.Empty, engine.Moves{}, err
	}
	return piece, engine.MovesFor(s.board, sq, piece), nil
}

// Move moves the piece on from to to. A move outside the piece's
// candidate set fails with ErrIllegalMove and the board is unchanged.
func (s *Session) Move(from, to chess.Square) error {
	s.mu.Lock()
	piece, err := s.board.Get(from)
	if err == nil {
		err = engine.TryMove(s.board, from, to, piece)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.last = &LastMove{From: from, To: to, Piece: piece}
	s.unlockAndNotify()
	return nil
}

// Place puts o on sq, replacing whatever was there.
func (s *Session) Place(sq chess.Square, o chess.Occupant) error {
	s.mu.Lock()
	if err := s.board.Set(sq, o); err != nil {
		s.mu.Unlock()
		return err
	}
	s.last = nil
	s.unlockAndNotify()
	return nil
}

// Reset restores the starting position.
func (s *Session) Reset() {
	s.mu.Lock()
	s.board.SetupInitialPosition()
	s.last = nil
	s.unlockAndNotify()
}

// Clear empties every square.
func (s *Session) Clear() {
	s.mu.Lock()
	s.board.Clear()
	s.last = nil
	s.unlockAndNotify()
}

// LastMove returns the last applied move, or nil if the board has been
// edited, reset or loaded since.
func (s *Session) LastMove() *LastMove {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	m := *s.last
	return &m
}

// Save writes the board to st under name.
func (s *Session) Save(st *store.Store, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return st.Save(name, s.board)
}

// Load replaces the board with the save named name. A missing or
// malformed save leaves the board unchanged.
func (s *Session) Load(st *store.Store, name string) error {
	s.mu.Lock()
	if err := st.LoadInto(name, s.board); err != nil {
		s.mu.Unlock()
		return err
	}
	s.last = nil
	s.unlockAndNotify()
	return nil
}

// unlockAndNotify stamps the change, releases the lock and hands a
// snapshot to the change hook. The hook runs outside the lock so it may
// call back into s.
func (s *Session) unlockAndNotify() {
	s.seq++
	grid, seq := s.board.Snapshot(), s.seq
	hook := s.onChange
	s.mu.Unlock()
	if hook != nil {
		hook(grid, seq)
	}
}
