package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	gm "chesscore/goosemg"
)

// Result is the outcome of a search. A position without legal moves yields NoMove with a
// mate or draw score.
type Result struct {
	BestMove gm.Move
	Score    int32
	Depth    int
	PV       []gm.Move
	Nodes    uint64 // summed over all workers
	TTHits   uint64 // summed over all workers
	Elapsed  time.Duration
}

// Info is the progress report sent after each completed depth of the reporting worker.
type Info struct {
	Depth    int
	Score    int32
	Nodes    uint64
	NPS      uint64
	Elapsed  time.Duration
	PV       []gm.Move
	HashFull int
}

// String renders the report as a UCI info line.
func (i Info) String() string {
	return fmt.Sprintf("info depth %d score %s nodes %d nps %d hashfull %d time %d pv %s",
		i.Depth, getMateOrCPScore(i.Score), i.Nodes, i.NPS, i.HashFull, i.Elapsed.Milliseconds(), FormatMoves(i.PV))
}

func getMateOrCPScore(score int32) string {
	if score >= MateThreshold {
		pliesToMate := Max(MateValue-score, 0)
		return fmt.Sprintf("mate %d", (pliesToMate+1)/2)
	} else if score <= -MateThreshold {
		pliesToMate := Max(MateValue+score, 0)
		return fmt.Sprintf("mate %d", -(pliesToMate+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// Engine owns the shared transposition table and runs lazy SMP searches. Only one search
// may run at a time; Stop may be called from any goroutine.
type Engine struct {
	opts    Options
	eval    Evaluator
	tt      *TransTable
	stop    atomic.Bool
	running atomic.Bool
}

// New validates opts and allocates the transposition table.
func New(opts Options, eval Evaluator) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if eval == nil {
		eval = NewPSQTEvaluator(DefaultWeights())
	}
	return &Engine{opts: opts, eval: eval, tt: NewTransTable(opts.HashMB)}, nil
}

func (e *Engine) Options() Options { return e.opts }

// Stop asks a running search to unwind. The search still returns a valid result.
func (e *Engine) Stop() { e.stop.Store(true) }

// Searching reports whether a search is in progress.
func (e *Engine) Searching() bool { return e.running.Load() }

// ClearHash empties the transposition table.
func (e *Engine) ClearHash() error {
	if e.running.Load() {
		return ErrSearchRunning
	}
	e.tt.Clear()
	return nil
}

// SetHashSize replaces the transposition table with a fresh one of mb megabytes.
func (e *Engine) SetHashSize(mb int) error {
	opts := e.opts
	opts.HashMB = mb
	if err := opts.Validate(); err != nil {
		return err
	}
	if e.running.Load() {
		return ErrSearchRunning
	}
	e.opts = opts
	e.tt = NewTransTable(mb)
	return nil
}

func (e *Engine) SetThreads(n int) error {
	opts := e.opts
	opts.Threads = n
	if err := opts.Validate(); err != nil {
		return err
	}
	if e.running.Load() {
		return ErrSearchRunning
	}
	e.opts = opts
	return nil
}

// Search runs Threads workers on pos until limits, Stop or ctx end it, and returns the
// reporting worker's result with statistics summed over all workers. history holds the
// hashes of the positions played before pos, oldest first, for repetition detection.
// report, if set, is called from the search goroutine after every completed depth.
func (e *Engine) Search(ctx context.Context, pos *gm.Position, history []uint64, limits Limits, report func(Info)) (Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Result{}, ErrSearchRunning
	}
	defer e.running.Store(false)
	e.stop.Store(false)

	start := time.Now()
	rootMoves := gm.GenerateMoves(pos)
	if len(rootMoves) == 0 {
		score := DrawScore
		if pos.InCheck() {
			score = -MateValue
		}
		return Result{BestMove: gm.NoMove, Score: score, Elapsed: time.Since(start)}, nil
	}

	tm := NewTimeManager(limits, pos, start)

	// The watcher must be gone before Search returns, or a late cancel would stop the
	// next search.
	done := make(chan struct{})
	watcherExited := make(chan struct{})
	go func() {
		defer close(watcherExited)
		select {
		case <-ctx.Done():
			e.stop.Store(true)
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-watcherExited
	}()

	counters := make([]atomic.Uint64, e.opts.Threads)
	workers := make([]*worker, e.opts.Threads)
	for i := range workers {
		var r func(Info)
		if i == 0 {
			r = report
		}
		workers[i] = newWorker(i, e, &tm, pos, history, rootMoves, counters, r)
	}

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.iterate()
			// The reporting worker decides when the search is over.
			if w.id == 0 {
				e.stop.Store(true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	main := workers[0]
	res := Result{
		BestMove: main.bestMove(),
		Score:    main.result.score,
		Depth:    main.result.depth,
		PV:       main.result.pv,
		Nodes:    lo.SumBy(workers, func(w *worker) uint64 { return w.nodes }),
		TTHits:   lo.SumBy(workers, func(w *worker) uint64 { return w.ttHits }),
		Elapsed:  lo.MaxBy(workers, func(a, b *worker) bool { return a.result.elapsed > b.result.elapsed }).result.elapsed,
	}
	if len(res.PV) == 0 {
		res.PV = []gm.Move{res.BestMove}
	}

	var stats CutStatistics
	for _, w := range workers {
		stats.add(w.stats)
	}
	log.Debug().
		Str("fen", pos.FEN()).
		Int("threads", len(workers)).
		Int("depth", res.Depth).
		Int32("score", res.Score).
		Uint64("nodes", res.Nodes).
		Uint64("tthits", res.TTHits).
		Dur("elapsed", res.Elapsed).
		Object("cuts", stats).
		Str("bestmove", res.BestMove.String()).
		Msg("search finished")

	return res, nil
}
