package goosemg

import "math/bits"

// Bitboard is a set of squares, bit i set when square i is a member.
type Bitboard uint64

const (
	EmptyBB Bitboard = 0
	FullBB  Bitboard = ^Bitboard(0)

	FileABB Bitboard = 0x0101010101010101
	FileHBB Bitboard = FileABB << 7
	Rank1BB Bitboard = 0xFF
	Rank2BB Bitboard = Rank1BB << 8
	Rank4BB Bitboard = Rank1BB << 24
	Rank5BB Bitboard = Rank1BB << 32
	Rank7BB Bitboard = Rank1BB << 48
	Rank8BB Bitboard = Rank1BB << 56
)

// SquareBB returns the singleton set for sq.
func SquareBB(sq Square) Bitboard { return Bitboard(1) << uint(sq) }

func (b Bitboard) Has(sq Square) bool { return b&SquareBB(sq) != 0 }
func (b Bitboard) With(sq Square) Bitboard { return b | SquareBB(sq) }
func (b Bitboard) Without(sq Square) Bitboard { return b &^ SquareBB(sq) }

func (b Bitboard) Union(o Bitboard) Bitboard { return b | o }
func (b Bitboard) Intersect(o Bitboard) Bitboard { return b & o }
func (b Bitboard) Diff(o Bitboard) Bitboard { return b &^ o }

func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }
func (b Bitboard) IsEmpty() bool { return b == 0 }
func (b Bitboard) Many() bool { return b&(b-1) != 0 }

// LSB returns the lowest square in the set. The result is undefined for an empty set.
func (b Bitboard) LSB() Square { return Square(bits.TrailingZeros64(uint64(b))) }

// PopLSB removes and returns the lowest square. Loop with `for bb != 0 { sq := bb.PopLSB() }`.
func (b *Bitboard) PopLSB() Square {
	sq := Square(bits.TrailingZeros64(uint64(*b)))
	*b &= *b - 1
	return sq
}

// Squares lists the members in ascending order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for b != 0 {
		out = append(out, b.PopLSB())
	}
	return out
}
