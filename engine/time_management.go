package engine

import (
	"time"

	gm "chesscore/goosemg"
)

// Limits bounds a search. Zero fields are unset; with nothing set the search runs to
// MaxPly or until stopped.
type Limits struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Infinite  bool
}

// Engine-side safety knobs
const (
	moveOverhead  = 30 * time.Millisecond // reserve for protocol and IO jitter
	minMoveTime   = 5 * time.Millisecond
	maxTimeFrac   = 0.7 // never spend more than this share of the clock
	panicThresh   = time.Second
	panicIncFrac  = 0.9
	noIncDivision = 40
)

// TimeManager holds the budget derived once at search start.
type TimeManager struct {
	start     time.Time
	deadline  time.Time
	timed     bool
	nodeLimit uint64
	maxDepth  int
}

// NewTimeManager converts limits into a deadline, node limit and depth ceiling.
func NewTimeManager(l Limits, pos *gm.Position, start time.Time) TimeManager {
	tm := TimeManager{start: start, nodeLimit: l.Nodes, maxDepth: MaxPly}
	if l.Depth > 0 {
		tm.maxDepth = Min(l.Depth, MaxPly)
	}
	if l.Infinite {
		return tm
	}

	if l.MoveTime > 0 {
		tm.timed = true
		tm.deadline = start.Add(Max(l.MoveTime-moveOverhead, minMoveTime))
		return tm
	}

	rem, inc := l.WTime, l.WInc
	if pos.SideToMove() == gm.Black {
		rem, inc = l.BTime, l.BInc
	}
	if rem <= 0 {
		return tm
	}

	movesLeft := l.MovesToGo
	if movesLeft <= 0 {
		movesLeft = estimateMovesRemaining(GamePhase(pos))
	}

	var moveTime time.Duration
	switch {
	case inc > 0 && rem < panicThresh:
		moveTime = time.Duration(float64(inc) * panicIncFrac)
	case inc > 0:
		moveTime = rem/time.Duration(movesLeft) + inc
	case l.MovesToGo > 0:
		moveTime = rem / time.Duration(movesLeft)
	default:
		moveTime = rem / noIncDivision
	}

	moveTime = Min(moveTime, time.Duration(float64(rem)*maxTimeFrac))
	moveTime = Min(moveTime, rem-moveOverhead)
	moveTime = Max(moveTime, minMoveTime)

	tm.timed = true
	tm.deadline = start.Add(moveTime)
	return tm
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/TotalPhase + 20
}

// Expired reports whether the clock budget is used up.
func (tm *TimeManager) Expired(now time.Time) bool {
	return tm.timed && !now.Before(tm.deadline)
}

// NodesExceeded reports whether nodes has reached the node limit.
func (tm *TimeManager) NodesExceeded(nodes uint64) bool {
	return tm.nodeLimit > 0 && nodes >= tm.nodeLimit
}

func (tm *TimeManager) MaxDepth() int { return tm.maxDepth }

// Bounded reports whether the search ends on its own through a clock, node or depth limit.
func (tm *TimeManager) Bounded() bool {
	return tm.timed || tm.nodeLimit > 0 || tm.maxDepth < MaxPly
}

func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

// Budget returns the time allotted to this move, or 0 when untimed.
func (tm *TimeManager) Budget() time.Duration {
	if !tm.timed {
		return 0
	}
	return tm.deadline.Sub(tm.start)
}
