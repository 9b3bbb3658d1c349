package goosemg

import "fmt"

// castleRightsMask[sq] is ANDed into the rights whenever a move starts or ends on sq,
// so moving the king or a rook, or capturing a rook at home, revokes the matching right.
var castleRightsMask = func() (m [64]CastlingRights) {
	for i := range m {
		m[i] = CastlingAll
	}
	m[E1] &^= CastlingWhiteK | CastlingWhiteQ
	m[H1] &^= CastlingWhiteK
	m[A1] &^= CastlingWhiteQ
	m[E8] &^= CastlingBlackK | CastlingBlackQ
	m[H8] &^= CastlingBlackK
	m[A8] &^= CastlingBlackQ
	return m
}()

// Apply returns the position after m. The receiver is not modified. m must come from
// GenerateMoves for this position; a move from an empty square panics.
func (p *Position) Apply(m Move) Position {
	next := *p
	next.apply(m)
	if DebugChecks {
		if err := next.Validate(); err != nil {
			panic(fmt.Sprintf("goosemg: %s after %s in %s: %v", next.FEN(), m, p.FEN(), err))
		}
	}
	return next
}

func (p *Position) apply(m Move) {
	from, to, kind := m.From(), m.To(), m.Kind()
	us := p.side
	mover := p.board[from]
	if mover == NoPiece {
		panic(fmt.Sprintf("goosemg: move %s from empty square in %s", m, p.FEN()))
	}

	p.hash ^= zobristCastle[p.castling]
	if p.epSquare != NoSquare {
		p.hash ^= zobristEnPassant[p.epSquare.File()]
		p.epSquare = NoSquare
	}
	p.halfmove++

	switch {
	case kind == EnPassant:
		p.removePiece(to ^ 8)
		p.halfmove = 0
	case m.IsCapture():
		p.removePiece(to)
		p.halfmove = 0
	}

	p.removePiece(from)
	if promo := m.Promotion(); promo != PieceTypeNone {
		p.putPiece(to, PieceFromType(us, promo))
	} else {
		p.putPiece(to, mover)
	}
	if mover.Type() == PieceTypePawn {
		p.halfmove = 0
	}

	switch kind {
	case KingCastle:
		p.putPiece(from+1, p.removePiece(from+3))
	case QueenCastle:
		p.putPiece(from-1, p.removePiece(from-4))
	case DoublePawnPush:
		ep := (from + to) / 2
		// Only record a target someone can actually capture onto.
		if pawnAttacks[us][ep]&p.pieces[us.Other()][PieceTypePawn] != 0 {
			p.epSquare = ep
			p.hash ^= zobristEnPassant[ep.File()]
		}
	}

	p.castling &= castleRightsMask[from] & castleRightsMask[to]
	p.hash ^= zobristCastle[p.castling]

	if us == Black {
		p.fullmove++
	}
	p.side = us.Other()
	p.hash ^= zobristSide
}

// ApplyNull returns the position with the turn passed to the opponent. Used by
// null-move pruning; never call it while in check.
func (p *Position) ApplyNull() Position {
	next := *p
	if next.epSquare != NoSquare {
		next.hash ^= zobristEnPassant[next.epSquare.File()]
		next.epSquare = NoSquare
	}
	next.halfmove++
	next.side = next.side.Other()
	next.hash ^= zobristSide
	return next
}
