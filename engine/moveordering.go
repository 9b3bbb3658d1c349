package engine

import (
	gm "chesscore/goosemg"
)

type scoredMove struct {
	move  gm.Move
	score int32
}

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

/*
	Move ordering offsets
	- The TT move is the best guess from a previous search of this node and goes first.
	- Queen promotions and captures follow, captures by MVV-LVA.
	- Killers sit above every history score, which historyMaxVal keeps below them.
	- Underpromotions go last; they are almost never best.
*/
const (
	ttMoveOffset     int32 = 1 << 30
	promotionOffset  int32 = 2_000_000
	captureOffset    int32 = 1_000_000
	killerOffset     int32 = 500_000
	underPromoOffset int32 = -1_000_000
)

// victimOf returns the type of the piece m captures, pawn for en passant.
func victimOf(pos *gm.Position, m gm.Move) gm.PieceType {
	if m.Kind() == gm.EnPassant {
		return gm.PieceTypePawn
	}
	return pos.PieceAt(m.To()).Type()
}

// scoreMoves fills dst with moves and their ordering scores for the worker's tables.
func (w *worker) scoreMoves(pos *gm.Position, moves []gm.Move, dst []scoredMove, ttMove gm.Move, ply int) []scoredMove {
	us := pos.SideToMove()
	for _, m := range moves {
		var score int32
		attacker := pos.PieceAt(m.From()).Type()
		switch {
		case m == ttMove:
			score = ttMoveOffset
		case m.IsPromotion():
			if m.Promotion() == gm.PieceTypeQueen {
				score = promotionOffset + mvvLva[victimOf(pos, m)][gm.PieceTypePawn]
			} else {
				score = underPromoOffset + int32(m.Promotion())
			}
		case m.IsCapture():
			score = captureOffset + mvvLva[victimOf(pos, m)][attacker]
		default:
			if slot := w.killers.Slot(m, ply); slot >= 0 {
				score = killerOffset - int32(slot)
			} else {
				score = w.history.Score(us, attacker, m.To())
			}
		}
		dst = append(dst, scoredMove{move: m, score: score})
	}
	return dst
}

// pickNext moves the best-scored remaining move into index i (selection sort step).
func pickNext(moves []scoredMove, i int) gm.Move {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if moves[j].score > moves[best].score {
			best = j
		}
	}
	moves[i], moves[best] = moves[best], moves[i]
	return moves[i].move
}
