package goosemg

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const pieceChars = " PNBRQK  pnbrqk"

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	if ch == ' ' {
		return NoPiece
	}
	if i := strings.IndexRune(pieceChars, ch); i > 0 {
		return Piece(i)
	}
	return NoPiece
}

// charFromPiece converts a Piece constant to its FEN character representation.
func charFromPiece(p Piece) rune {
	if p == NoPiece || int(p) >= len(pieceChars) || pieceChars[p] == ' ' {
		return '?'
	}
	return rune(pieceChars[p])
}

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN parses a FEN string and returns a new Position set up to that position.
// The halfmove and fullmove fields may be omitted and default to 0 and 1.
//
// The en passant field is kept only when a pawn of the side to move could capture onto
// it; otherwise it is dropped, so FEN() prints "-" for it.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fenError("expected 4 to 6 fields, got %d", len(fields))
	}

	p := &Position{epSquare: NoSquare, fullmove: 1}

	// 1. Piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc := pieceFromChar(ch)
			if pc == NoPiece {
				return nil, fenError("unrecognized piece character %q", ch)
			}
			if file >= 8 {
				return nil, fenError("rank %d has more than 8 squares", rank+1)
			}
			p.putPiece(Square(rank*8+file), pc)
			file++
		}
		if file != 8 {
			return nil, fenError("rank %d does not have 8 squares", rank+1)
		}
	}
	for c := White; c <= Black; c++ {
		if n := p.pieces[c][PieceTypeKing].Count(); n != 1 {
			return nil, fenError("%s has %d kings", c, n)
		}
	}
	if (p.pieces[White][PieceTypePawn]|p.pieces[Black][PieceTypePawn])&(Rank1BB|Rank8BB) != 0 {
		return nil, fenError("pawn on first or last rank")
	}

	// 2. Side to move
	switch fields[1] {
	case "w":
		p.side = White
	case "b":
		p.side = Black
	default:
		return nil, fenError("side to move must be 'w' or 'b', got %q", fields[1])
	}

	// 3. Castling rights
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castling |= CastlingWhiteK
			case 'Q':
				p.castling |= CastlingWhiteQ
			case 'k':
				p.castling |= CastlingBlackK
			case 'q':
				p.castling |= CastlingBlackQ
			default:
				return nil, fenError("invalid castling character %q", ch)
			}
		}
	}

	// 4. En passant target square
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fenError("en passant square %q", fields[3])
		}
		wantRank := 5
		if p.side == Black {
			wantRank = 2
		}
		if sq.Rank() != wantRank {
			return nil, fenError("en passant square %s on wrong rank", sq)
		}
		if p.canCaptureEnPassant(sq) {
			p.epSquare = sq
		}
	}

	// 5-6. Move counters
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fenError("halfmove clock %q", fields[4])
		}
		p.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fenError("fullmove number %q", fields[5])
		}
		p.fullmove = n
	}

	if p.IsInCheck(p.side.Other()) {
		return nil, fenError("side not to move is in check")
	}

	p.hash = p.ComputeHash()
	return p, nil
}

// canCaptureEnPassant reports whether the side to move has a pawn attacking ep and the
// enemy pawn that just double-pushed stands in front of it.
func (p *Position) canCaptureEnPassant(ep Square) bool {
	them := p.side.Other()
	victim := ep - 8
	if p.side == Black {
		victim = ep + 8
	}
	if p.board[ep] != NoPiece || p.board[victim] != PieceFromType(them, PieceTypePawn) {
		return false
	}
	return pawnAttacks[them][ep]&p.pieces[p.side][PieceTypePawn] != 0
}

// FEN produces the FEN string representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.board[rank*8+file]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteRune(charFromPiece(pc))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.side.String())
	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmove))
	return sb.String()
}

func (cr CastlingRights) String() string {
	if cr == CastlingNone {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
