// Package chess provides core chess types and operations.
package chess

// Side represents the colour of a piece or player.
type Side int

const (
	Black Side = iota
	White
)

// String returns the string representation of a side.
func (s Side) String() string {
	if s == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

// Letter returns the save-file letter for a side ('w' or 'b').
func (s Side) Letter() byte {
	if s == White {
		return 'w'
	}
	return 'b'
}

// Forward returns the row delta a pawn of this side advances by.
// White moves toward row 0, Black toward row 7.
func (s Side) Forward() int {
	if s == White {
		return -1
	}
	return 1
}

// HomeRank returns the row on which this side's pawns start.
func (s Side) HomeRank() int {
	if s == White {
		return 6
	}
	return 1
}

// BackRank returns the row on which this side's pieces start.
func (s Side) BackRank() int {
	if s == White {
		return 7
	}
	return 0
}

// Kind represents a chess piece type.
type Kind int

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumKinds
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	names := []string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Letter returns the lowercase save-file letter for a kind.
func (k Kind) Letter() byte {
	letters := []byte{'-', 'p', 'n', 'b', 'r', 'q', 'k'}
	if k >= 0 && int(k) < len(letters) {
		return letters[k]
	}
	return '?'
}

// KindFromLetter converts a lowercase save-file letter to a kind.
// It returns NoKind for unrecognised letters.
func KindFromLetter(c byte) Kind {
	switch c {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoKind
	}
}

// Occupant is the content of one board cell: Empty or a piece of a side.
// The zero value is Empty.
type Occupant uint8

// Empty is an unoccupied square.
const Empty Occupant = 0

// PieceShift is used for encoding the side into an occupant.
const PieceShift = 1

// MakePiece creates an occupant holding a piece of the given side and kind.
func MakePiece(side Side, kind Kind) Occupant {
	return Occupant((int(kind) << PieceShift) | int(side))
}

// W creates a white piece.
func W(kind Kind) Occupant {
	return MakePiece(White, kind)
}

// B creates a black piece.
func B(kind Kind) Occupant {
	return MakePiece(Black, kind)
}

// IsEmpty reports whether the occupant is Empty.
func (o Occupant) IsEmpty() bool {
	return o == Empty
}

// Side extracts the side from a piece. The result is meaningless for Empty.
func (o Occupant) Side() Side {
	return Side(o & 0x01)
}

// Kind extracts the piece kind. Empty yields NoKind.
func (o Occupant) Kind() Kind {
	return Kind(o >> PieceShift)
}

// Valid reports whether the occupant is Empty or a well-formed piece.
func (o Occupant) Valid() bool {
	if o == Empty {
		return true
	}
	k := o.Kind()
	return k > NoKind && k < NumKinds
}

// Opposes reports whether both occupants are pieces of different sides.
func (o Occupant) Opposes(other Occupant) bool {
	return o != Empty && other != Empty && o.Side() != other.Side()
}

// EmptyToken is the save-file token for an empty square.
const EmptyToken = "--"

// String returns the two-character save-file token, e.g. "wp" or "--".
func (o Occupant) String() string {
	if o == Empty {
		return EmptyToken
	}
	if !o.Valid() {
		return "??"
	}
	return string([]byte{o.Side().Letter(), o.Kind().Letter()})
}

// Name returns a human readable name such as "White Knight".
func (o Occupant) Name() string {
	if o == Empty {
		return "Empty"
	}
	return o.Side().String() + " " + o.Kind().String()
}

// Constants for board dimensions.
const (
	BoardSize = 8
	NumCells  = BoardSize * BoardSize
)

// backRank is the piece order on both back ranks, column 0 first.
var backRank = [BoardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
