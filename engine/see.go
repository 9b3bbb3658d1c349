package engine

import gm "chesscore/goosemg"

var SeePieceValue = [7]int32{
	gm.PieceTypePawn:   100,
	gm.PieceTypeKnight: 300,
	gm.PieceTypeBishop: 300,
	gm.PieceTypeRook:   500,
	gm.PieceTypeQueen:  900,
	gm.PieceTypeKing:   5000,
}

// see returns the static exchange evaluation of capture m from the mover's point of view:
// the material balance after both sides keep recapturing on the target square with their
// least valuable attacker, each side free to stop when continuing loses material.
func see(pos *gm.Position, m gm.Move) int32 {
	var gain [32]int32
	from, to := m.From(), m.To()
	side := pos.SideToMove()

	occ := pos.Occupied()
	victim := pos.PieceAt(to).Type()
	if m.Kind() == gm.EnPassant {
		victim = gm.PieceTypePawn
		occ = occ.Without(to ^ 8)
	}
	attacker := pos.PieceAt(from).Type()

	rq := pos.Pieces(gm.White, gm.PieceTypeRook) | pos.Pieces(gm.Black, gm.PieceTypeRook) |
		pos.Pieces(gm.White, gm.PieceTypeQueen) | pos.Pieces(gm.Black, gm.PieceTypeQueen)
	bq := pos.Pieces(gm.White, gm.PieceTypeBishop) | pos.Pieces(gm.Black, gm.PieceTypeBishop) |
		pos.Pieces(gm.White, gm.PieceTypeQueen) | pos.Pieces(gm.Black, gm.PieceTypeQueen)

	attadef := pos.AttackersTo(to, occ)
	fromBB := gm.SquareBB(from)
	gain[0] = SeePieceValue[victim]

	d := 0
	for fromBB != 0 {
		d++
		gain[d] = SeePieceValue[attacker] - gain[d-1]
		// Neither side wants to go on: prune the swap list here.
		if Max(-gain[d-1], gain[d]) < 0 {
			break
		}
		occ &^= fromBB
		attadef &^= fromBB
		// Re-scan sliders through the square just vacated.
		attadef |= gm.RookAttacks(to, occ)&rq&occ | gm.BishopAttacks(to, occ)&bq&occ

		side = side.Other()
		fromBB, attacker = leastValuableAttacker(pos, attadef, side)
		if d == len(gain)-1 {
			break
		}
	}

	for d--; d > 0; d-- {
		gain[d-1] = -Max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// leastValuableAttacker picks the cheapest piece of side in attadef.
func leastValuableAttacker(pos *gm.Position, attadef gm.Bitboard, side gm.Color) (gm.Bitboard, gm.PieceType) {
	for pt := gm.PieceTypePawn; pt <= gm.PieceTypeKing; pt++ {
		if subset := attadef & pos.Pieces(side, pt); subset != 0 {
			return gm.SquareBB(subset.LSB()), pt
		}
	}
	return 0, gm.PieceTypeNone
}
