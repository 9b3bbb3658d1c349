package engine

import (
	"strings"

	"github.com/samber/lo"

	gm "chesscore/goosemg"
)

// PVLine is a principal variation held in a fixed array so search nodes can keep one
// on the stack.
type PVLine struct {
	moves [MaxPly]gm.Move
	n     int
}

func (pv *PVLine) Clear() { pv.n = 0 }

// Update sets the line to m followed by the child's line.
func (pv *PVLine) Update(m gm.Move, child *PVLine) {
	pv.moves[0] = m
	n := Min(child.n, MaxPly-1)
	copy(pv.moves[1:], child.moves[:n])
	pv.n = n + 1
}

// Moves returns a copy of the line.
func (pv *PVLine) Moves() []gm.Move {
	return append([]gm.Move(nil), pv.moves[:pv.n]...)
}

// First returns the first move of the line, or NoMove.
func (pv *PVLine) First() gm.Move {
	if pv.n == 0 {
		return gm.NoMove
	}
	return pv.moves[0]
}

func (pv *PVLine) Len() int { return pv.n }

func (pv *PVLine) String() string {
	return FormatMoves(pv.moves[:pv.n])
}

// FormatMoves joins moves in UCI notation separated by spaces.
func FormatMoves(moves []gm.Move) string {
	return strings.Join(lo.Map(moves, func(m gm.Move, _ int) string { return m.String() }), " ")
}
