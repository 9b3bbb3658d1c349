package engine

import (
	"sync/atomic"

	gm "chesscore/goosemg"
)

// Bound tells how a stored score relates to the true value of the position.
type Bound uint8

const (
	BoundNone  Bound = iota
	BoundUpper       // fail low: true score <= stored score
	BoundLower       // fail high: true score >= stored score
	BoundExact
)

// TTEntry is the decoded form of a table slot.
type TTEntry struct {
	Key   uint64 // full position hash
	Move  gm.Move
	Score int16
	Depth int8
	Bound Bound
}

// packed data word layout: move (16) | score (16) | depth (8) | bound (2)
func packEntry(m gm.Move, score int16, depth int8, bound Bound) uint64 {
	return uint64(m) | uint64(uint16(score))<<16 | uint64(uint8(depth))<<32 | uint64(bound)<<40
}

func unpackEntry(key, data uint64) TTEntry {
	return TTEntry{
		Key:   key,
		Move:  gm.Move(data),
		Score: int16(uint16(data >> 16)),
		Depth: int8(uint8(data >> 32)),
		Bound: Bound(data>>40) & 3,
	}
}

// ttSlot stores hash^data next to data. A reader that sees halves of two different
// writes recomputes a key that does not match its probe and treats the slot as empty.
type ttSlot struct {
	check atomic.Uint64
	data  atomic.Uint64
}

const ttSlotBytes = 16

// TransTable is a fixed-size always-replace hash table shared by all search workers
// without locks.
type TransTable struct {
	slots []ttSlot
	mask  uint64
}

// NewTransTable allocates the largest power-of-two table that fits in mb megabytes.
func NewTransTable(mb int) *TransTable {
	n := roundDownToPowerOf2(uint64(Max(mb, 1)) * 1024 * 1024 / ttSlotBytes)
	return &TransTable{slots: make([]ttSlot, n), mask: n - 1}
}

// Len returns the number of slots.
func (tt *TransTable) Len() int { return len(tt.slots) }

// Probe returns the entry stored for hash, or false on a miss or collision.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	slot := &tt.slots[hash&tt.mask]
	data := slot.data.Load()
	check := slot.check.Load()
	if check^data != hash || Bound(data>>40)&3 == BoundNone {
		return TTEntry{}, false
	}
	return unpackEntry(hash, data), true
}

// Record overwrites the slot for hash. score must already be ply-adjusted (ScoreToTT).
func (tt *TransTable) Record(hash uint64, m gm.Move, score int32, depth int, bound Bound) {
	data := packEntry(m, int16(score), int8(Clamp(depth, -128, 127)), bound)
	slot := &tt.slots[hash&tt.mask]
	slot.data.Store(data)
	slot.check.Store(hash ^ data)
}

// Clear empties every slot. Not safe to call while a search is running.
func (tt *TransTable) Clear() {
	for i := range tt.slots {
		tt.slots[i].data.Store(0)
		tt.slots[i].check.Store(0)
	}
}

// HashFull estimates table occupancy in permille from the first thousand slots.
func (tt *TransTable) HashFull() int {
	n := Min(len(tt.slots), 1000)
	used := 0
	for i := 0; i < n; i++ {
		if Bound(tt.slots[i].data.Load()>>40)&3 != BoundNone {
			used++
		}
	}
	return used * 1000 / n
}

// ScoreToTT converts a root-relative mate score into a node-relative one before storing.
func ScoreToTT(score int32, ply int) int32 {
	if score >= MateThreshold {
		return score + int32(ply)
	}
	if score <= -MateThreshold {
		return score - int32(ply)
	}
	return score
}

// ScoreFromTT undoes ScoreToTT for the probing node's ply.
func ScoreFromTT(score int32, ply int) int32 {
	if score >= MateThreshold {
		return score - int32(ply)
	}
	if score <= -MateThreshold {
		return score + int32(ply)
	}
	return score
}
