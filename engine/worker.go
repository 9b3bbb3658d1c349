package engine

import (
	"sync/atomic"
	"time"

	"lukechampine.com/frand"

	gm "chesscore/goosemg"
)

// workerResult is the outcome of the last fully completed iteration of one worker.
type workerResult struct {
	move    gm.Move
	score   int32
	depth   int
	pv      []gm.Move
	elapsed time.Duration
}

// worker runs an independent iterative deepening search. Everything but the TT, the stop
// flag and the published node counters is private to it.
type worker struct {
	id   int
	tt   *TransTable
	eval Evaluator
	stop *atomic.Bool
	tm   *TimeManager

	root      gm.Position
	rootMoves []gm.Move
	states    stateStack

	killers KillerTable
	history HistoryTable

	moveBufs  [MaxPly + 1][]gm.Move
	scoreBufs [MaxPly + 1][]scoredMove
	quietBufs [MaxPly + 1][]gm.Move

	nodes    uint64
	ttHits   uint64
	stats    CutStatistics
	counters []atomic.Uint64 // published node counts, one per worker
	report   func(Info)

	result workerResult
}

func newWorker(id int, e *Engine, tm *TimeManager, root *gm.Position, history []uint64,
	rootMoves []gm.Move, counters []atomic.Uint64, report func(Info)) *worker {
	w := &worker{
		id:        id,
		tt:        e.tt,
		eval:      e.eval,
		stop:      &e.stop,
		tm:        tm,
		root:      *root,
		rootMoves: append([]gm.Move(nil), rootMoves...),
		counters:  counters,
		report:    report,
	}
	w.states.reset(history, root)
	// Helpers visit root moves in a different order so they fill different parts of the
	// shared table before the TT move takes over.
	if id > 0 {
		frand.Shuffle(len(w.rootMoves), func(i, j int) {
			w.rootMoves[i], w.rootMoves[j] = w.rootMoves[j], w.rootMoves[i]
		})
	}
	return w
}

// checkLimits publishes the node count and lets the reporting worker enforce the clock
// and node budgets for everyone.
func (w *worker) checkLimits() {
	w.counters[w.id].Store(w.nodes)
	if w.id != 0 {
		return
	}
	if w.tm.Expired(time.Now()) || w.tm.NodesExceeded(w.totalNodes()) {
		w.stop.Store(true)
	}
}

func (w *worker) totalNodes() uint64 {
	var total uint64
	for i := range w.counters {
		total += w.counters[i].Load()
	}
	return total
}

// iterate runs iterative deepening until the depth limit, a proven mate or the stop flag.
func (w *worker) iterate() {
	defer func() {
		w.counters[w.id].Store(w.nodes)
		w.result.elapsed = w.tm.Elapsed()
	}()

	var pv PVLine
	var prevScore int32
	// Half the helpers skip depth 1 so the workers do not move in lockstep.
	startDepth := 1 + w.id%2

	for depth := startDepth; depth <= w.tm.MaxDepth(); depth++ {
		if w.stop.Load() {
			return
		}

		alpha, beta := -Infinity, Infinity
		lowWindow, highWindow := aspirationWindowSize, aspirationWindowSize
		if depth > startDepth {
			alpha = Max(prevScore-lowWindow, -Infinity)
			beta = Min(prevScore+highWindow, Infinity)
		}

		var score int32
		for {
			score = w.negamax(&w.root, depth, 0, alpha, beta, &pv, false)
			if w.stop.Load() {
				return
			}
			// Aspiration window re-search
			if score <= alpha {
				lowWindow *= 2
				alpha = Max(prevScore-lowWindow, -Infinity)
				continue
			}
			if score >= beta {
				highWindow *= 2
				beta = Min(prevScore+highWindow, Infinity)
				continue
			}
			break
		}

		prevScore = score
		w.result.move = pv.First()
		w.result.score = score
		w.result.depth = depth
		w.result.pv = pv.Moves()

		if w.id == 0 && w.report != nil {
			w.report(w.info())
		}

		// A mate found within the searched horizon cannot be improved on.
		if IsMateScore(score) && int(MateValue-Abs(score)) <= depth {
			return
		}
		// Not enough time left to finish another iteration.
		if w.id == 0 && w.tm.Budget() > 0 && w.tm.Elapsed() > w.tm.Budget()/2 {
			return
		}
	}
}

func (w *worker) info() Info {
	elapsed := w.tm.Elapsed()
	w.counters[w.id].Store(w.nodes)
	nodes := w.totalNodes()
	return Info{
		Depth:    w.result.depth,
		Score:    w.result.score,
		Nodes:    nodes,
		NPS:      nodesPerSecond(nodes, elapsed),
		Elapsed:  elapsed,
		PV:       w.result.pv,
		HashFull: w.tt.HashFull(),
	}
}

func nodesPerSecond(nodes uint64, elapsed time.Duration) uint64 {
	ms := Max(elapsed.Milliseconds(), 1)
	return nodes * 1000 / uint64(ms)
}

// bestMove returns the move of the last completed iteration, falling back to the stored
// TT move or the first legal move when not even depth one finished.
func (w *worker) bestMove() gm.Move {
	if w.result.move != gm.NoMove {
		return w.result.move
	}
	if entry, ok := w.tt.Probe(w.root.Hash()); ok {
		for _, m := range w.rootMoves {
			if m == entry.Move {
				return m
			}
		}
	}
	return w.rootMoves[0]
}
