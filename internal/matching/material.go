// Package matching selects boards by the pieces on them.
package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessboard-go/internal/chess"
)

// Material counts pieces per side and kind, indexed [side][kind].
type Material [2][chess.NumKinds]int

// CountMaterial tallies the pieces on g.
func CountMaterial(g chess.Grid) Material {
	var m Material
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			o := g[row][col]
			if o.IsEmpty() || !o.Valid() {
				continue
			}
			m[o.Side()][o.Kind()]++
		}
	}
	return m
}

// materialOrder is the order pieces are written in a pattern.
var materialOrder = []chess.Kind{chess.King, chess.Queen, chess.Rook, chess.Bishop, chess.Knight, chess.Pawn}

// String renders m as a pattern, White in upper case before the colon and
// Black in lower case after it, e.g. "KQ:kr".
func (m Material) String() string {
	var sb strings.Builder
	for _, side := range []chess.Side{chess.White, chess.Black} {
		if side == chess.Black {
			sb.WriteByte(':')
		}
		for _, kind := range materialOrder {
			letter := kind.Letter()
			if side == chess.White {
				letter -= 'a' - 'A'
			}
			for i := 0; i < m[side][kind]; i++ {
				sb.WriteByte(letter)
			}
		}
	}
	return sb.String()
}

// MaterialMatcher matches boards by material balance.
type MaterialMatcher struct {
	// Pattern like "QR:qrr" means white has Q+R, black has Q+2R
	pattern    string
	exactMatch bool
	want       Material
}

// NewMaterialMatcher parses a pattern of the form "QRN:qrn": upper-case
// letters before the colon for White, lower-case after it for Black.
// K=King, Q=Queen, R=Rook, B=Bishop, N=Knight, P=Pawn. With exact set,
// a board matches only if it holds exactly those pieces; otherwise it
// needs at least them.
func NewMaterialMatcher(pattern string, exact bool) (*MaterialMatcher, error) {
	white, black, _ := strings.Cut(pattern, ":")
	mm := &MaterialMatcher{pattern: pattern, exactMatch: exact}

	if err := mm.parseSide(chess.White, white); err != nil {
		return nil, err
	}
	if err := mm.parseSide(chess.Black, black); err != nil {
		return nil, err
	}
	return mm, nil
}

func (mm *MaterialMatcher) parseSide(side chess.Side, s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		isUpper := c >= 'A' && c <= 'Z'
		if isUpper != (side == chess.White) {
			return fmt.Errorf("material %q: %q is not a %s piece", mm.pattern, c, side)
		}
		kind := chess.KindFromLetter(c | 0x20)
		if kind == chess.NoKind {
			return fmt.Errorf("material %q: unknown piece %q", mm.pattern, c)
		}
		mm.want[side][kind]++
	}
	return nil
}

// Match reports whether g satisfies the pattern.
func (mm *MaterialMatcher) Match(g chess.Grid) bool {
	have := CountMaterial(g)
	for side := range have {
		for kind := range have[side] {
			want, got := mm.want[side][kind], have[side][kind]
			if got < want || (mm.exactMatch && got != want) {
				return false
			}
		}
	}
	return true
}

// HasCriteria returns true if a material pattern is set.
func (mm *MaterialMatcher) HasCriteria() bool {
	return mm.pattern != ""
}
