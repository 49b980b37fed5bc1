package chess

// Grid is the 8x8 row-major cell array. It is a value type: assigning or
// returning a Grid copies all 64 cells.
type Grid [BoardSize][BoardSize]Occupant

// Board holds the 64-cell grid. Any configuration of occupants is a legal
// board; no invariant is imposed on piece counts, kings or turn order.
//
// A Board is not safe for concurrent mutation. Callers sharing a board
// across goroutines must serialise Set, ApplyMove and Deserialize calls.
type Board struct {
	squares Grid
}

// NewBoard creates a board with the standard starting position.
func NewBoard() *Board {
	b := &Board{}
	b.SetupInitialPosition()
	return b
}

// NewEmptyBoard creates a board with every square Empty.
func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoardFromGrid creates a board holding a copy of g.
func NewBoardFromGrid(g Grid) *Board {
	return &Board{squares: g}
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	b.Clear()
	for col := 0; col < BoardSize; col++ {
		b.squares[Black.BackRank()][col] = B(backRank[col])
		b.squares[Black.HomeRank()][col] = B(Pawn)
		b.squares[White.HomeRank()][col] = W(Pawn)
		b.squares[White.BackRank()][col] = W(backRank[col])
	}
}

// Clear sets every square to Empty.
func (b *Board) Clear() {
	b.squares = Grid{}
}

// Get returns the occupant at s, or an ErrOutOfRange error when s is off
// the board. It never mutates the board.
func (b *Board) Get(s Square) (Occupant, error) {
	if err := checkSquare("get", s); err != nil {
		return Empty, err
	}
	return b.squares[s.Row][s.Col], nil
}

// Set overwrites the occupant at s without any legality check.
func (b *Board) Set(s Square, o Occupant) error {
	if err := checkSquare("set", s); err != nil {
		return err
	}
	b.squares[s.Row][s.Col] = o
	return nil
}

// GetByIndex returns the occupant at the given row and column.
// The indices must be on the board.
func (b *Board) GetByIndex(row, col int) Occupant {
	return b.squares[row][col]
}

// SetByIndex places an occupant at the given row and column.
// The indices must be on the board.
func (b *Board) SetByIndex(row, col int, o Occupant) {
	b.squares[row][col] = o
}

// Snapshot returns an independent copy of the grid.
func (b *Board) Snapshot() Grid {
	return b.squares
}

// Restore replaces the whole grid in one step.
func (b *Board) Restore(g Grid) {
	b.squares = g
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// Equal reports whether both boards hold identical grids.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.squares == other.squares
}

// Count returns the number of non-empty squares.
func (b *Board) Count() int {
	n := 0
	for row := range b.squares {
		for _, o := range b.squares[row] {
			if o != Empty {
				n++
			}
		}
	}
	return n
}
