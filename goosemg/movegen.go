package goosemg

// MoveFilter selects which legal moves the generator emits.
type MoveFilter uint8

const (
	// AllMoves emits every legal move.
	AllMoves MoveFilter = iota
	// Tactical emits captures (en passant included) and all promotions.
	Tactical
)

// promotion order tried by the generator, strongest first
var promoOrder = [4]PieceType{PieceTypeQueen, PieceTypeRook, PieceTypeBishop, PieceTypeKnight}

// AttackersTo returns the pieces of both colors attacking sq under occupancy occ.
func (p *Position) AttackersTo(sq Square, occ Bitboard) Bitboard {
	rq := p.pieces[White][PieceTypeRook] | p.pieces[Black][PieceTypeRook] |
		p.pieces[White][PieceTypeQueen] | p.pieces[Black][PieceTypeQueen]
	bq := p.pieces[White][PieceTypeBishop] | p.pieces[Black][PieceTypeBishop] |
		p.pieces[White][PieceTypeQueen] | p.pieces[Black][PieceTypeQueen]
	return pawnAttacks[Black][sq]&p.pieces[White][PieceTypePawn] |
		pawnAttacks[White][sq]&p.pieces[Black][PieceTypePawn] |
		knightAttacks[sq]&(p.pieces[White][PieceTypeKnight]|p.pieces[Black][PieceTypeKnight]) |
		kingAttacks[sq]&(p.pieces[White][PieceTypeKing]|p.pieces[Black][PieceTypeKing]) |
		RookAttacks(sq, occ)&rq |
		BishopAttacks(sq, occ)&bq
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttackersTo(sq, p.occupied)&p.colors[by] != 0
}

// IsInCheck reports whether c's king is attacked.
func (p *Position) IsInCheck(c Color) bool {
	return p.IsSquareAttacked(p.KingSquare(c), c.Other())
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.IsInCheck(p.side) }

// attackedBy returns every square attacked by color c under occupancy occ.
func (p *Position) attackedBy(c Color, occ Bitboard) Bitboard {
	var att Bitboard
	for bb := p.pieces[c][PieceTypePawn]; bb != 0; {
		att |= pawnAttacks[c][bb.PopLSB()]
	}
	for bb := p.pieces[c][PieceTypeKnight]; bb != 0; {
		att |= knightAttacks[bb.PopLSB()]
	}
	for bb := p.pieces[c][PieceTypeBishop] | p.pieces[c][PieceTypeQueen]; bb != 0; {
		att |= BishopAttacks(bb.PopLSB(), occ)
	}
	for bb := p.pieces[c][PieceTypeRook] | p.pieces[c][PieceTypeQueen]; bb != 0; {
		att |= RookAttacks(bb.PopLSB(), occ)
	}
	return att | kingAttacks[p.KingSquare(c)]
}

// checkAndPins computes, for the side to move, the number of checkers, the check mask
// (FullBB when not in check) and the orthogonal and diagonal pin masks.
func (p *Position) checkAndPins() (checkers int, checkMask, pinHV, pinD Bitboard) {
	us, them := p.side, p.side.Other()
	ksq := p.KingSquare(us)
	occ := p.occupied

	leapers := pawnAttacks[us][ksq]&p.pieces[them][PieceTypePawn] |
		knightAttacks[ksq]&p.pieces[them][PieceTypeKnight]
	checkers = leapers.Count()
	checkMask = leapers

	theirQueens := p.pieces[them][PieceTypeQueen]
	orth := rookRays[ksq] & (p.pieces[them][PieceTypeRook] | theirQueens)
	diag := bishopRays[ksq] & (p.pieces[them][PieceTypeBishop] | theirQueens)

	for bb := orth; bb != 0; {
		s := bb.PopLSB()
		if between[ksq][s]&occ == 0 {
			checkers++
			checkMask |= checkRay[ksq][s]
		} else if pin := PinMask(ksq, s, occ); pin&p.colors[us] != 0 {
			pinHV |= pin
		}
	}
	for bb := diag; bb != 0; {
		s := bb.PopLSB()
		if between[ksq][s]&occ == 0 {
			checkers++
			checkMask |= checkRay[ksq][s]
		} else if pin := PinMask(ksq, s, occ); pin&p.colors[us] != 0 {
			pinD |= pin
		}
	}
	if checkers == 0 {
		checkMask = FullBB
	}
	return checkers, checkMask, pinHV, pinD
}

// GenerateMoves returns every legal move for the side to move.
func GenerateMoves(p *Position) []Move {
	return GenerateMovesInto(p, make([]Move, 0, 64), AllMoves)
}

// GenerateMovesInto appends the legal moves selected by filter to dst and returns it.
// Order is deterministic: pawns, knights, bishops, rooks, queens, king, each by square.
func GenerateMovesInto(p *Position, dst []Move, filter MoveFilter) []Move {
	us, them := p.side, p.side.Other()
	ours, theirs := p.colors[us], p.colors[them]
	ksq := p.KingSquare(us)

	checkers, checkMask, pinHV, pinD := p.checkAndPins()

	targets := ^ours
	if filter == Tactical {
		targets = theirs
	}

	if checkers < 2 {
		dst = p.genPawnMoves(dst, filter, checkMask, pinHV, pinD)

		for bb := p.pieces[us][PieceTypeKnight] &^ (pinHV | pinD); bb != 0; {
			from := bb.PopLSB()
			dst = p.appendTargets(dst, from, knightAttacks[from]&targets&checkMask)
		}
		for bb := p.pieces[us][PieceTypeBishop] &^ pinHV; bb != 0; {
			from := bb.PopLSB()
			att := BishopAttacks(from, p.occupied) & targets & checkMask
			if pinD.Has(from) {
				att &= pinD
			}
			dst = p.appendTargets(dst, from, att)
		}
		for bb := p.pieces[us][PieceTypeRook] &^ pinD; bb != 0; {
			from := bb.PopLSB()
			att := RookAttacks(from, p.occupied) & targets & checkMask
			if pinHV.Has(from) {
				att &= pinHV
			}
			dst = p.appendTargets(dst, from, att)
		}
		for bb := p.pieces[us][PieceTypeQueen]; bb != 0; {
			from := bb.PopLSB()
			var att Bitboard
			switch {
			case pinHV.Has(from):
				att = RookAttacks(from, p.occupied) & pinHV
			case pinD.Has(from):
				att = BishopAttacks(from, p.occupied) & pinD
			default:
				att = QueenAttacks(from, p.occupied)
			}
			dst = p.appendTargets(dst, from, att&targets&checkMask)
		}
	}

	// King steps: the danger map is computed with our king lifted off the board so
	// that stepping back along a checking ray is seen as attacked.
	danger := p.attackedBy(them, p.occupied&^SquareBB(ksq))
	dst = p.appendTargets(dst, ksq, kingAttacks[ksq]&targets&^danger)

	if filter == AllMoves && checkers == 0 {
		dst = p.genCastles(dst, ksq, danger)
	}
	return dst
}

func (p *Position) appendTargets(dst []Move, from Square, targets Bitboard) []Move {
	for targets != 0 {
		to := targets.PopLSB()
		kind := Quiet
		if p.board[to] != NoPiece {
			kind = Capture
		}
		dst = append(dst, NewMove(from, to, kind))
	}
	return dst
}

func appendPromotions(dst []Move, from, to Square, capture bool) []Move {
	for _, pt := range promoOrder {
		dst = append(dst, NewMove(from, to, promoKind(pt, capture)))
	}
	return dst
}

func (p *Position) genPawnMoves(dst []Move, filter MoveFilter, checkMask, pinHV, pinD Bitboard) []Move {
	us, them := p.side, p.side.Other()
	theirs := p.colors[them]
	empty := ^p.occupied

	forward, startRank, promoRank := Square(8), Rank2BB, Rank8BB
	if us == Black {
		forward, startRank, promoRank = -8, Rank7BB, Rank1BB
	}

	for bb := p.pieces[us][PieceTypePawn]; bb != 0; {
		from := bb.PopLSB()

		pushMask, capMask := checkMask, checkMask
		if pinHV.Has(from) {
			pushMask &= pinHV
			capMask = 0
		} else if pinD.Has(from) {
			pushMask = 0
			capMask &= pinD
		}

		// pushes
		if one := from + forward; empty.Has(one) {
			switch {
			case promoRank.Has(one):
				if pushMask.Has(one) {
					dst = appendPromotions(dst, from, one, false)
				}
			case filter == AllMoves:
				if pushMask.Has(one) {
					dst = append(dst, NewMove(from, one, Quiet))
				}
				if two := one + forward; startRank.Has(from) && empty.Has(two) && pushMask.Has(two) {
					dst = append(dst, NewMove(from, two, DoublePawnPush))
				}
			}
		}

		// captures
		for caps := pawnAttacks[us][from] & theirs & capMask; caps != 0; {
			to := caps.PopLSB()
			if promoRank.Has(to) {
				dst = appendPromotions(dst, from, to, true)
			} else {
				dst = append(dst, NewMove(from, to, Capture))
			}
		}

		if p.epSquare != NoSquare && pawnAttacks[us][from].Has(p.epSquare) && p.enPassantIsLegal(from) {
			dst = append(dst, NewMove(from, p.epSquare, EnPassant))
		}
	}
	return dst
}

// enPassantIsLegal replays the capture on a scratch occupancy and checks the king.
// The captured pawn leaves a square other than the destination, which can uncover
// a rank pin that the pin masks do not see.
func (p *Position) enPassantIsLegal(from Square) bool {
	us := p.side
	ep := p.epSquare
	victim := ep - 8
	if us == Black {
		victim = ep + 8
	}
	occ := p.occupied&^SquareBB(from)&^SquareBB(victim) | SquareBB(ep)
	attackers := p.AttackersTo(p.KingSquare(us), occ) & p.colors[us.Other()] &^ SquareBB(victim)
	return attackers == 0
}

type castleSpec struct {
	right      CastlingRights
	kind       MoveKind
	king, to   Square
	rook       Square
	mustBeFree Bitboard // squares between king and rook
	mustBeSafe Bitboard // squares the king crosses or lands on
}

var castleSpecs = [2][2]castleSpec{
	White: {
		{CastlingWhiteK, KingCastle, E1, G1, H1, SquareBB(F1) | SquareBB(G1), SquareBB(F1) | SquareBB(G1)},
		{CastlingWhiteQ, QueenCastle, E1, C1, A1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(C1) | SquareBB(D1)},
	},
	Black: {
		{CastlingBlackK, KingCastle, E8, G8, H8, SquareBB(F8) | SquareBB(G8), SquareBB(F8) | SquareBB(G8)},
		{CastlingBlackQ, QueenCastle, E8, C8, A8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(C8) | SquareBB(D8)},
	},
}

// genCastles assumes the side to move is not in check.
func (p *Position) genCastles(dst []Move, ksq Square, danger Bitboard) []Move {
	us := p.side
	rook := PieceFromType(us, PieceTypeRook)
	for _, cs := range castleSpecs[us] {
		if p.castling&cs.right == 0 || ksq != cs.king || p.board[cs.rook] != rook {
			continue
		}
		if p.occupied&cs.mustBeFree != 0 || danger&cs.mustBeSafe != 0 {
			continue
		}
		dst = append(dst, NewMove(cs.king, cs.to, cs.kind))
	}
	return dst
}

// HasLegalMove reports whether the side to move has at least one legal move.
func HasLegalMove(p *Position) bool {
	var buf [256]Move
	return len(GenerateMovesInto(p, buf[:0], AllMoves)) > 0
}
