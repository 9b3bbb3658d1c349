package engine

import gm "chesscore/goosemg"

const fiftyMoveLimit = 100

// State captures the information we need to reason about repetitions and draws.
type State struct {
	Hash   uint64
	Rule50 int
}

// stateStack holds the game history followed by the current search path.
type stateStack struct {
	states    []State
	rootIndex int // index of the root position
}

// reset loads the game history (hashes of earlier positions, oldest first) and the root.
func (s *stateStack) reset(history []uint64, root *gm.Position) {
	s.states = s.states[:0]
	for _, h := range history {
		s.states = append(s.states, State{Hash: h})
	}
	s.rootIndex = len(s.states)
	s.push(root)
}

func (s *stateStack) push(pos *gm.Position) {
	s.states = append(s.states, State{Hash: pos.Hash(), Rule50: pos.HalfmoveClock()})
}

func (s *stateStack) pop() {
	s.states = s.states[:len(s.states)-1]
}

// isDraw reports a fifty-move draw, a repetition inside the search path, or a third
// occurrence counting game history.
func (s *stateStack) isDraw() bool {
	curr := s.states[len(s.states)-1]
	if curr.Rule50 >= fiftyMoveLimit {
		return true
	}
	count, first := s.repetitionInfo(curr)
	if count >= 2 {
		return true
	}
	return count >= 1 && first >= s.rootIndex
}

func (s *stateStack) repetitionInfo(curr State) (count int, firstIdx int) {
	firstIdx = -1
	top := len(s.states) - 1
	start := Max(top-curr.Rule50, 0)
	// Only positions with the same side to move can repeat.
	for i := top - 2; i >= start; i -= 2 {
		if s.states[i].Hash == curr.Hash {
			count++
			firstIdx = i
		}
	}
	return count, firstIdx
}
