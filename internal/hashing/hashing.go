// Package hashing provides position hashing and duplicate detection for
// boards.
package hashing

import (
	"fmt"

	"github.com/lgbarn/chessboard-go/internal/chess"
)

// occupantSlots covers every encodable occupant value, valid or not.
const occupantSlots = 1 << 4

// zobristKeys holds one random key per (square, occupant) pair. Empty
// squares contribute nothing.
var zobristKeys [chess.NumCells][occupantSlots]uint64

func init() {
	// splitmix64 with a fixed seed keeps hashes stable across runs so
	// they can be compared between processes.
	state := uint64(0x9E3779B97F4A7C15)
	next := func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	for cell := range zobristKeys {
		for o := 1; o < occupantSlots; o++ {
			zobristKeys[cell][o] = next()
		}
	}
}

// Hash returns the Zobrist hash of g. Identical grids always hash the
// same; distinct grids collide with negligible probability.
func Hash(g chess.Grid) uint64 {
	var h uint64
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			o := g[row][col]
			if o.IsEmpty() {
				continue
			}
			h ^= zobristKeys[row*chess.BoardSize+col][o&(occupantSlots-1)]
		}
	}
	return h
}

// HashString renders Hash(g) as 16 hex digits.
func HashString(g chess.Grid) string {
	return fmt.Sprintf("%016x", Hash(g))
}

// entry records a named position in the detector.
type entry struct {
	name string
	grid chess.Grid
}

// DuplicateDetector groups named positions that are identical.
type DuplicateDetector struct {
	// hashTable maps a position hash to every distinct position seen with
	// that hash and the first name it was seen under.
	hashTable map[uint64][]entry
	// groups maps the first name of a position to the later duplicates.
	groups map[string][]string
	// duplicateCount tracks number of duplicates found
	duplicateCount int
	// maxCapacity limits distinct positions stored (0 = unlimited)
	maxCapacity int
	uniqueCount int
}

// NewDuplicateDetector creates a new duplicate detector. maxCapacity of 0
// means unlimited.
func NewDuplicateDetector(maxCapacity int) *DuplicateDetector {
	return &DuplicateDetector{
		hashTable:   make(map[uint64][]entry),
		groups:      make(map[string][]string),
		maxCapacity: maxCapacity,
	}
}

// CheckAndAdd records g under name. If an identical position was seen
// before, it returns the name that position was first recorded under.
// Once the detector is full, new positions are checked but not stored.
func (d *DuplicateDetector) CheckAndAdd(name string, g chess.Grid) (original string, duplicate bool) {
	hash := Hash(g)

	for _, e := range d.hashTable[hash] {
		// Compare full grids so a hash collision is never reported as a
		// duplicate.
		if e.grid == g {
			d.duplicateCount++
			d.groups[e.name] = append(d.groups[e.name], name)
			return e.name, true
		}
	}

	if d.IsFull() {
		return "", false
	}
	d.hashTable[hash] = append(d.hashTable[hash], entry{name: name, grid: g})
	d.uniqueCount++
	return "", false
}

// Duplicates returns, for every position seen more than once, the first
// name followed by the names of its duplicates in the order they were
// added.
func (d *DuplicateDetector) Duplicates() map[string][]string {
	out := make(map[string][]string, len(d.groups))
	for first, dups := range d.groups {
		out[first] = append([]string{first}, dups...)
	}
	return out
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of distinct positions stored.
func (d *DuplicateDetector) UniqueCount() int {
	return d.uniqueCount
}

// IsFull reports whether the detector has reached its capacity limit.
func (d *DuplicateDetector) IsFull() bool {
	return d.maxCapacity > 0 && d.uniqueCount >= d.maxCapacity
}

// Reset clears the detector.
func (d *DuplicateDetector) Reset() {
	d.hashTable = make(map[uint64][]entry)
	d.groups = make(map[string][]string)
	d.duplicateCount = 0
	d.uniqueCount = 0
}
