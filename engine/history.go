package engine

import gm "chesscore/goosemg"

/*
	HISTORY HEURISTIC
	Quiet moves that cause a beta cutoff earn depth^2 for their (side, piece, destination).
	Quiet moves tried before the cutoff move lose the same amount. When any entry grows
	past historyMaxVal the whole side is halved so scores stay below killers.
*/

const historyMaxVal = 1 << 14

type HistoryTable struct {
	scores [2][7][64]int32
}

func (h *HistoryTable) Score(c gm.Color, pt gm.PieceType, to gm.Square) int32 {
	return h.scores[c][pt][to]
}

// Reward raises the score of a quiet move that caused a cutoff.
func (h *HistoryTable) Reward(c gm.Color, pt gm.PieceType, to gm.Square, depth int) {
	s := &h.scores[c][pt][to]
	*s += int32(depth * depth)
	if *s >= historyMaxVal {
		h.age(c)
	}
}

// Penalize lowers the score of a quiet move that was searched without a cutoff.
func (h *HistoryTable) Penalize(c gm.Color, pt gm.PieceType, to gm.Square, depth int) {
	s := &h.scores[c][pt][to]
	*s = Max(*s-int32(depth*depth), -historyMaxVal)
}

// age halves every entry for one side.
func (h *HistoryTable) age(c gm.Color) {
	for pt := range h.scores[c] {
		for sq := range h.scores[c][pt] {
			h.scores[c][pt][sq] /= 2
		}
	}
}

// Clear the values in the history table.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}
