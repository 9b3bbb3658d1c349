package goosemg

import "math/bits"

// Leaper attack tables.
var knightAttacks [64]Bitboard
var kingAttacks [64]Bitboard
var pawnAttacks [2][64]Bitboard // [color][square] squares a pawn of that color attacks

// Slider tables: relevant-occupancy masks (edges excluded) and dense attack tables
// indexed by pext(occupancy, mask).
var rookMask [64]Bitboard
var bishopMask [64]Bitboard
var rookTable [64][]Bitboard
var bishopTable [64][]Bitboard

// Empty-board slider rays, used to find aligned enemy sliders.
var rookRays [64]Bitboard
var bishopRays [64]Bitboard

// between[a][b] holds the squares strictly between two aligned squares, else 0.
var between [64][64]Bitboard

// checkRay[k][s] = between[k][s] | s for aligned squares: the block-or-capture set that
// resolves a slider check from s against a king on k.
var checkRay [64][64]Bitboard

// pinTable[k][s] is indexed by pext(occ, between[k][s]) and yields between|s when
// exactly one piece stands between k and s, 0 otherwise. Empty for unaligned pairs.
var pinTable [64][64][]Bitboard

var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func init() {
	initZobrist()
	initLeaperTables()
	initSliderTables()
	initLineTables()
}

func onBoard(rank, file int) bool { return rank >= 0 && rank < 8 && file >= 0 && file < 8 }

// initLeaperTables precomputes attack bitboards for knights, kings, and pawn captures.
func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := Square(0); sq < 64; sq++ {
		rank, file := sq.Rank(), sq.File()
		for _, off := range knightOffsets {
			if r, f := rank+off[0], file+off[1]; onBoard(r, f) {
				knightAttacks[sq] |= SquareBB(Square(r*8 + f))
			}
		}
		for _, off := range kingOffsets {
			if r, f := rank+off[0], file+off[1]; onBoard(r, f) {
				kingAttacks[sq] |= SquareBB(Square(r*8 + f))
			}
		}
		for _, df := range [2]int{-1, 1} {
			if onBoard(rank+1, file+df) {
				pawnAttacks[White][sq] |= SquareBB(Square((rank+1)*8 + file + df))
			}
			if onBoard(rank-1, file+df) {
				pawnAttacks[Black][sq] |= SquareBB(Square((rank-1)*8 + file + df))
			}
		}
	}
}

// slowAttacks walks rays from sq until the first blocker (inclusive).
func slowAttacks(sq Square, occ Bitboard, dirs [4][2]int) Bitboard {
	var att Bitboard
	for _, d := range dirs {
		for r, f := sq.Rank()+d[0], sq.File()+d[1]; onBoard(r, f); r, f = r+d[0], f+d[1] {
			t := Square(r*8 + f)
			att |= SquareBB(t)
			if occ.Has(t) {
				break
			}
		}
	}
	return att
}

// relevantMask is the ray set from sq with the last square of each ray dropped, since
// a blocker on the edge never changes the attack set.
func relevantMask(sq Square, dirs [4][2]int) Bitboard {
	var m Bitboard
	for _, d := range dirs {
		r, f := sq.Rank()+d[0], sq.File()+d[1]
		for onBoard(r+d[0], f+d[1]) {
			m |= SquareBB(Square(r*8 + f))
			r, f = r+d[0], f+d[1]
		}
	}
	return m
}

// initSliderTables builds per-square occupancy masks and attack tables by enumerating
// every subset of each mask with a software pdep.
func initSliderTables() {
	for sq := Square(0); sq < 64; sq++ {
		rookRays[sq] = slowAttacks(sq, EmptyBB, rookDirs)
		bishopRays[sq] = slowAttacks(sq, EmptyBB, bishopDirs)

		rookMask[sq] = relevantMask(sq, rookDirs)
		bishopMask[sq] = relevantMask(sq, bishopDirs)

		rookTable[sq] = make([]Bitboard, 1<<rookMask[sq].Count())
		for idx := range rookTable[sq] {
			rookTable[sq][idx] = slowAttacks(sq, pdep(uint64(idx), rookMask[sq]), rookDirs)
		}
		bishopTable[sq] = make([]Bitboard, 1<<bishopMask[sq].Count())
		for idx := range bishopTable[sq] {
			bishopTable[sq][idx] = slowAttacks(sq, pdep(uint64(idx), bishopMask[sq]), bishopDirs)
		}
	}
}

func initLineTables() {
	for a := Square(0); a < 64; a++ {
		for _, dirs := range [2][4][2]int{rookDirs, bishopDirs} {
			for _, d := range dirs {
				var path Bitboard
				for r, f := a.Rank()+d[0], a.File()+d[1]; onBoard(r, f); r, f = r+d[0], f+d[1] {
					b := Square(r*8 + f)
					between[a][b] = path
					checkRay[a][b] = path | SquareBB(b)
					pinTable[a][b] = buildPinEntries(path, b)
					path |= SquareBB(b)
				}
			}
		}
	}
}

func buildPinEntries(path Bitboard, slider Square) []Bitboard {
	n := path.Count()
	entries := make([]Bitboard, 1<<n)
	for idx := range entries {
		if bits.OnesCount(uint(idx)) == 1 {
			entries[idx] = path | SquareBB(slider)
		}
	}
	return entries
}

// software pext: extract bits of x at positions where mask has 1s, packed into low bits
func pext(x uint64, mask Bitboard) uint64 {
	var res uint64
	var idx uint
	for m := uint64(mask); m != 0; m &= m - 1 {
		if x&(m&-m) != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// software pdep: deposit low bits of x into positions of mask
func pdep(x uint64, mask Bitboard) Bitboard {
	var res uint64
	var idx uint
	for m := uint64(mask); m != 0; m &= m - 1 {
		if (x>>idx)&1 != 0 {
			res |= m & -m
		}
		idx++
	}
	return Bitboard(res)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

// RookAttacks returns rook attacks from sq given the board occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return rookTable[sq][pext(uint64(occ), rookMask[sq])]
}

// BishopAttacks returns bishop attacks from sq given the board occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return bishopTable[sq][pext(uint64(occ), bishopMask[sq])]
}

func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// Between returns the squares strictly between a and b when they share a line.
func Between(a, b Square) Bitboard { return between[a][b] }

// CheckMask returns the squares that block or capture a slider on attacker checking a
// king on king. It is 0 when the squares are not aligned.
func CheckMask(king, attacker Square) Bitboard { return checkRay[king][attacker] }

// PinMask returns the pin ray (between plus the slider) when exactly one piece of occ
// stands between king and slider, otherwise 0.
func PinMask(king, slider Square, occ Bitboard) Bitboard {
	entries := pinTable[king][slider]
	if entries == nil {
		return 0
	}
	return entries[pext(uint64(occ), between[king][slider])]
}
