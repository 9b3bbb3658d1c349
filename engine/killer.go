package engine

import gm "chesscore/goosemg"

// KillerTable remembers quiet moves that caused beta cutoffs, KillerSlots per ply.
type KillerTable struct {
	moves [MaxPly + 1][KillerSlots]gm.Move
}

// Insert records m at ply, shifting older killers down. Duplicates are ignored.
func (k *KillerTable) Insert(m gm.Move, ply int) {
	slots := &k.moves[ply]
	if slots[0] == m {
		return
	}
	copy(slots[1:], slots[:KillerSlots-1])
	slots[0] = m
}

// Slot returns the index of m among the killers at ply, or -1.
func (k *KillerTable) Slot(m gm.Move, ply int) int {
	for i, km := range k.moves[ply] {
		if km == m && m != gm.NoMove {
			return i
		}
	}
	return -1
}

// Clear the killer moves table.
func (k *KillerTable) Clear() {
	*k = KillerTable{}
}
