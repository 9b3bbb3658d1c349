package engine

import (
	gm "chesscore/goosemg"
)

// Scores of positions that cannot be won are divided by this.
const DrawDivider int32 = 8

var (
	fileMask     [8]gm.Bitboard
	adjacentMask [8]gm.Bitboard // neighbouring files, own file excluded
)

func init() {
	for f := 0; f < 8; f++ {
		fileMask[f] = gm.FileABB << uint(f)
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentMask[f] |= fileMask[f-1]
		}
		if f < 7 {
			adjacentMask[f] |= fileMask[f+1]
		}
	}
}

func northFill(bb gm.Bitboard) gm.Bitboard {
	bb |= bb << 8
	bb |= bb << 16
	bb |= bb << 32
	return bb
}

func southFill(bb gm.Bitboard) gm.Bitboard {
	bb |= bb >> 8
	bb |= bb >> 16
	bb |= bb >> 32
	return bb
}

// frontSpan returns the squares strictly ahead of the pawns of color c.
func frontSpan(pawns gm.Bitboard, c gm.Color) gm.Bitboard {
	if c == gm.White {
		return northFill(pawns) << 8
	}
	return southFill(pawns) >> 8
}

// pawnAttacksOf returns every square attacked by the pawns of color c.
func pawnAttacksOf(pawns gm.Bitboard, c gm.Color) gm.Bitboard {
	if c == gm.White {
		return (pawns&^gm.FileABB)<<7 | (pawns&^gm.FileHBB)<<9
	}
	return (pawns&^gm.FileABB)>>9 | (pawns&^gm.FileHBB)>>7
}

// isolatedPawns returns the pawns with no friendly pawn on an adjacent file.
func isolatedPawns(pawns gm.Bitboard) (isolated gm.Bitboard) {
	for bb := pawns; bb != 0; {
		sq := bb.PopLSB()
		if adjacentMask[sq.File()]&pawns == 0 {
			isolated = isolated.With(sq)
		}
	}
	return isolated
}

// passedPawns returns the pawns of color c that no enemy pawn can stop or capture on the
// way to promotion.
func passedPawns(own, enemy gm.Bitboard, c gm.Color) (passed gm.Bitboard) {
	enemyAttacks := pawnAttacksOf(enemy, c.Other())
	for bb := own; bb != 0; {
		sq := bb.PopLSB()
		span := frontSpan(gm.SquareBB(sq), c)
		if span&(enemy|enemyAttacks) == 0 {
			passed = passed.With(sq)
		}
	}
	return passed
}

// doubledPawns counts the pawns standing behind a friendly pawn on the same file.
func doubledPawns(pawns gm.Bitboard, c gm.Color) int {
	return (pawns & frontSpan(pawns, c.Other())).Count()
}

// pawnStructure scores pawn weaknesses, passed pawns and rooks on open files for color c.
func (e *PSQTEvaluator) pawnStructure(pos *gm.Position, c gm.Color) (mg, eg int32) {
	own := pos.Pieces(c, gm.PieceTypePawn)
	enemy := pos.Pieces(c.Other(), gm.PieceTypePawn)

	isolated := int32(isolatedPawns(own).Count())
	mg -= isolated * e.W.IsolatedPawnMG
	eg -= isolated * e.W.IsolatedPawnEG

	doubled := int32(doubledPawns(own, c))
	mg -= doubled * e.W.DoubledPawnMG
	eg -= doubled * e.W.DoubledPawnEG

	for bb := passedPawns(own, enemy, c); bb != 0; {
		sq := bb.PopLSB()
		if c == gm.Black {
			sq = FlipView[sq]
		}
		mg += e.W.PassedPawnMG[sq]
		eg += e.W.PassedPawnEG[sq]
	}

	for bb := pos.Pieces(c, gm.PieceTypeRook); bb != 0; {
		file := fileMask[bb.PopLSB().File()]
		switch {
		case file&(own|enemy) == 0:
			mg += e.W.RookOpenFileMG
		case file&own == 0:
			mg += e.W.RookSemiOpenFileMG
		}
	}
	return mg, eg
}

// isTheoreticalDraw recognises pawnless endings where neither side can force mate.
func isTheoreticalDraw(pos *gm.Position) bool {
	if pos.Pieces(gm.White, gm.PieceTypePawn)|pos.Pieces(gm.Black, gm.PieceTypePawn) != 0 {
		return false
	}
	var n, b, r, q [2]int
	for c := gm.White; c <= gm.Black; c++ {
		n[c] = pos.Pieces(c, gm.PieceTypeKnight).Count()
		b[c] = pos.Pieces(c, gm.PieceTypeBishop).Count()
		r[c] = pos.Pieces(c, gm.PieceTypeRook).Count()
		q[c] = pos.Pieces(c, gm.PieceTypeQueen).Count()
	}
	kings := pos.Pieces(gm.White, gm.PieceTypeKing) | pos.Pieces(gm.Black, gm.PieceTypeKing)
	pieces := pos.Occupied().Diff(kings).Count()
	minors := [2]int{n[0] + b[0], n[1] + b[1]}

	switch pieces {
	case 0, 1:
		// bare kings or a single minor
		return r[0]+r[1]+q[0]+q[1] == 0
	case 2:
		switch {
		case n[0] == 2 || n[1] == 2:
			return true
		case minors[0] == 1 && minors[1] == 1:
			return true
		case r[0] == 1 && (minors[1] == 1 || r[1] == 1):
			return true
		case r[1] == 1 && minors[0] == 1:
			return true
		case q[0] == 1 && q[1] == 1:
			return true
		}
	}
	return false
}
