package goosemg

import (
	"fmt"
	"strings"
)

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return Color(p >> 3) }

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	return Piece(pt) | Piece(color)<<3
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Castling rights bit flags
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ

	CastlingNone CastlingRights = 0
	CastlingAll                 = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ
)

// Square represents a board position (0-63), a1 = 0, h8 = 63.
type Square int

const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = iota + 56
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// File returns 0 for the a-file through 7 for the h-file.
func (s Square) File() int { return int(s) & 7 }

// Rank returns 0 for the first rank through 7 for the eighth.
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare converts algebraic notation ("e4") into a Square.
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 || name[0] < 'a' || name[0] > 'h' || name[1] < '1' || name[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return Square(int(name[1]-'1')*8 + int(name[0]-'a')), nil
}

// Position is a complete game state. It is a plain value: copying it yields an
// independent position, and Apply returns a new one rather than mutating.
type Position struct {
	pieces   [2][7]Bitboard // indexed by color and PieceType; slot 0 unused
	colors   [2]Bitboard
	occupied Bitboard
	board    [64]Piece

	side     Color
	castling CastlingRights
	epSquare Square
	halfmove int
	fullmove int

	hash uint64
}

// DebugChecks makes Apply validate every resulting position and panic on the first
// inconsistency. Tests turn it on; search leaves it off.
var DebugChecks = false

// StartPosition returns the standard initial position.
func StartPosition() *Position {
	p, err := ParseFEN(FENStartPos)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Position) SideToMove() Color              { return p.side }
func (p *Position) CastlingRights() CastlingRights { return p.castling }
func (p *Position) EnPassantSquare() Square        { return p.epSquare }
func (p *Position) HalfmoveClock() int             { return p.halfmove }
func (p *Position) FullmoveNumber() int            { return p.fullmove }
func (p *Position) Hash() uint64                   { return p.hash }

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece { return p.board[sq] }

// Pieces returns the bitboard of one color's pieces of the given type.
func (p *Position) Pieces(c Color, pt PieceType) Bitboard { return p.pieces[c][pt] }

// Occupancy returns every square held by color c.
func (p *Position) Occupancy(c Color) Bitboard { return p.colors[c] }

// Occupied returns every occupied square.
func (p *Position) Occupied() Bitboard { return p.occupied }

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square { return p.pieces[c][PieceTypeKing].LSB() }

// HasNonPawnMaterial reports whether c owns anything besides king and pawns.
func (p *Position) HasNonPawnMaterial(c Color) bool {
	return p.colors[c]&^(p.pieces[c][PieceTypePawn]|p.pieces[c][PieceTypeKing]) != 0
}

func (p *Position) putPiece(sq Square, pc Piece) {
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.pieces[c][pt] |= bb
	p.colors[c] |= bb
	p.occupied |= bb
	p.board[sq] = pc
	p.hash ^= zobristPiece[pc][sq]
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.board[sq]
	if pc == NoPiece {
		return NoPiece
	}
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.pieces[c][pt] &^= bb
	p.colors[c] &^= bb
	p.occupied &^= bb
	p.board[sq] = NoPiece
	p.hash ^= zobristPiece[pc][sq]
	return pc
}

// Validate checks that the aggregate bitboards, the mailbox and the hash agree with the
// per-piece bitboards. It is meant for tests and DebugChecks, not the hot path.
func (p *Position) Validate() error {
	var colors [2]Bitboard
	for c := White; c <= Black; c++ {
		for pt := PieceTypePawn; pt <= PieceTypeKing; pt++ {
			bb := p.pieces[c][pt]
			if colors[c]&bb != 0 {
				return fmt.Errorf("overlapping %s piece bitboards", c)
			}
			colors[c] |= bb
			for b := bb; b != 0; {
				sq := b.PopLSB()
				if p.board[sq] != PieceFromType(c, pt) {
					return fmt.Errorf("mailbox mismatch on %s", sq)
				}
			}
		}
		if colors[c] != p.colors[c] {
			return fmt.Errorf("%s occupancy out of sync", c)
		}
		if p.pieces[c][PieceTypeKing].Count() != 1 {
			return fmt.Errorf("%s has %d kings", c, p.pieces[c][PieceTypeKing].Count())
		}
	}
	if colors[White]&colors[Black] != 0 || colors[White]|colors[Black] != p.occupied {
		return fmt.Errorf("total occupancy out of sync")
	}
	for sq := Square(0); sq < 64; sq++ {
		if p.board[sq] != NoPiece && !p.occupied.Has(sq) {
			return fmt.Errorf("stray mailbox piece on %s", sq)
		}
	}
	if h := p.ComputeHash(); h != p.hash {
		return fmt.Errorf("hash %016x, recomputed %016x", p.hash, h)
	}
	return nil
}

// String renders the board rank 8 first, for the "d" debug command.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(" +---+---+---+---+---+---+---+---+\n")
		for file := 0; file < 8; file++ {
			ch := ' '
			if pc := p.board[rank*8+file]; pc != NoPiece {
				ch = charFromPiece(pc)
			}
			fmt.Fprintf(&sb, " | %c", ch)
		}
		fmt.Fprintf(&sb, " | %d\n", rank+1)
	}
	sb.WriteString(" +---+---+---+---+---+---+---+---+\n")
	sb.WriteString("   a   b   c   d   e   f   g   h\n")
	return sb.String()
}
