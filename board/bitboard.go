package board

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// MaxBitboardSize is the largest board area the solver supports: 19x19 grids
// for 7x7 Killall-Go (the game is played on a 7x7 board encoded over a
// 19x19-addressed coordinate space, per spec.md's 361 bound).
const MaxBitboardSize = 361

// Bitboard is a fixed-width bit set over board grids, sized at construction
// to the game in play (361 for Killall-Go, 64 for Hex). It is a thin wrapper
// around a *bitset.BitSet: copies of a Bitboard share the same bits, Set and
// Reset modify them in place, and Clone returns an independent copy.
type Bitboard struct {
	bits *bitset.BitSet
	size uint
}

// New allocates a zeroed Bitboard of the given size (in bits).
func New(size int) Bitboard {
	return Bitboard{bits: bitset.New(uint(size)), size: uint(size)}
}

// Size returns the number of addressable positions.
func (b Bitboard) Size() int { return int(b.size) }

// Set sets the bit at position.
func (b Bitboard) Set(position int) Bitboard {
	b.bits.Set(uint(position))
	return b
}

// Reset clears the bit at position.
func (b Bitboard) Reset(position int) Bitboard {
	b.bits.Clear(uint(position))
	return b
}

// Test reports whether the bit at position is set.
func (b Bitboard) Test(position int) bool {
	return b.bits.Test(uint(position))
}

// Any reports whether any bit is set.
func (b Bitboard) Any() bool { return b.bits.Any() }

// Count returns the population count.
func (b Bitboard) Count() int { return int(b.bits.Count()) }

// FindFirst returns the index of the lowest set bit, or -1 if none.
func (b Bitboard) FindFirst() int {
	if i, ok := b.bits.NextSet(0); ok {
		return int(i)
	}
	return -1
}

// Clone returns an independent copy.
func (b Bitboard) Clone() Bitboard {
	return Bitboard{bits: b.bits.Clone(), size: b.size}
}

// And returns the bitwise AND with other, sized like the receiver.
func (b Bitboard) And(other Bitboard) Bitboard {
	return Bitboard{bits: b.bits.Intersection(other.bits), size: b.size}
}

// Or returns the bitwise OR with other, sized like the receiver.
func (b Bitboard) Or(other Bitboard) Bitboard {
	return Bitboard{bits: b.bits.Union(other.bits), size: b.size}
}

// AndNot returns the receiver with other's bits cleared ("NOT" in spec.md's
// "bulk AND/OR/NOT" vocabulary, expressed as the more common AndNot form).
func (b Bitboard) AndNot(other Bitboard) Bitboard {
	return Bitboard{bits: b.bits.Difference(other.bits), size: b.size}
}

// Intersects reports whether the receiver and other share any set bit,
// without allocating a new Bitboard.
func (b Bitboard) Intersects(other Bitboard) bool {
	return b.bits.IntersectionCardinality(other.bits) > 0
}

// Equal reports bitwise equality, part of ZonePattern equality (spec.md §3).
func (b Bitboard) Equal(other Bitboard) bool {
	return b.bits.Equal(other.bits)
}

// Hex renders the bitboard as a hex string, the wire form used by the job
// response payload (spec.md §6: "rzone is a hex bitboard").
func (b Bitboard) Hex() string {
	if b.bits == nil {
		return "0"
	}
	v := new(big.Int)
	for i, ok := b.bits.NextSet(0); ok; i, ok = b.bits.NextSet(i + 1) {
		v.SetBit(v, int(i), 1)
	}
	if v.Sign() == 0 {
		return "0"
	}
	return v.Text(16)
}

// FromHex parses a hex bitboard of the given size, as produced by Hex.
func FromHex(size int, s string) (Bitboard, error) {
	b := New(size)
	if s == "" || s == "0" {
		return b, nil
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return Bitboard{}, fmt.Errorf("invalid hex bitboard %q", s)
	}
	for i := 0; i < size; i++ {
		if v.Bit(i) == 1 {
			b.bits.Set(uint(i))
		}
	}
	return b, nil
}
