package goosemg

import "fmt"

// Move packs a move into 16 bits: from (bits 0-5), to (bits 6-11), kind (bits 12-15).
type Move uint16

// MoveKind is the 4-bit tag of a Move. Bit 2 marks captures and bit 3 promotions;
// the low two bits of a promotion select the piece.
type MoveKind uint8

const (
	Quiet              MoveKind = 0
	DoublePawnPush     MoveKind = 1
	KingCastle         MoveKind = 2
	QueenCastle        MoveKind = 3
	Capture            MoveKind = 4
	EnPassant          MoveKind = 5
	PromoKnight        MoveKind = 8
	PromoBishop        MoveKind = 9
	PromoRook          MoveKind = 10
	PromoQueen         MoveKind = 11
	PromoCaptureKnight MoveKind = 12
	PromoCaptureBishop MoveKind = 13
	PromoCaptureRook   MoveKind = 14
	PromoCaptureQueen  MoveKind = 15
)

const (
	kindCaptureBit = 4
	kindPromoBit   = 8
)

// NoMove is the zero move; it never encodes a real move since from == to.
const NoMove Move = 0

// NewMove constructs a Move value from components.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(uint16(from&0x3F) | uint16(to&0x3F)<<6 | uint16(kind&0xF)<<12)
}

// promoKind returns the promotion kind for pt, with the capture bit when capture is set.
func promoKind(pt PieceType, capture bool) MoveKind {
	k := PromoKnight + MoveKind(pt-PieceTypeKnight)
	if capture {
		k |= kindCaptureBit
	}
	return k
}

// From returns the source square of the move.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((m >> 6) & 0x3F) }

// Kind returns the 4-bit move tag.
func (m Move) Kind() MoveKind { return MoveKind(m >> 12) }

// IsCapture is true for captures, en passant and capturing promotions.
func (m Move) IsCapture() bool { return m.Kind()&kindCaptureBit != 0 }

func (m Move) IsPromotion() bool { return m.Kind()&kindPromoBit != 0 }

func (m Move) IsCastle() bool {
	k := m.Kind()
	return k == KingCastle || k == QueenCastle
}

// IsTactical reports captures and promotions, the moves searched by quiescence.
func (m Move) IsTactical() bool { return m.Kind()&(kindCaptureBit|kindPromoBit) != 0 }

// Promotion returns the promoted piece type, or PieceTypeNone.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return PieceTypeNone
	}
	return PieceTypeKnight + PieceType(m.Kind()&3)
}

// String renders the move in UCI long algebraic notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.Promotion(); pt != PieceTypeNone {
		s += string(" pnbrqk"[pt])
	}
	return s
}

// ParseMove resolves UCI move text against the legal moves of pos.
func ParseMove(pos *Position, text string) (Move, error) {
	if len(text) != 4 && len(text) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	promo := PieceTypeNone
	if len(text) == 5 {
		switch text[4] {
		case 'n':
			promo = PieceTypeKnight
		case 'b':
			promo = PieceTypeBishop
		case 'r':
			promo = PieceTypeRook
		case 'q':
			promo = PieceTypeQueen
		default:
			return NoMove, fmt.Errorf("%w: %q: bad promotion piece", ErrInvalidMove, text)
		}
	}
	for _, m := range GenerateMoves(pos) {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, text, pos.FEN())
}
