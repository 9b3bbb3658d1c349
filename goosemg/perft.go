package goosemg

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Perft counts leaf nodes (move sequences) from the position for a given depth.
// Depth-1 nodes are bulk counted from the move list length.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	pc := perftCtx{bufs: make([][]Move, depth+1)}
	return pc.perft(p, depth)
}

// perftCtx reuses one move buffer per depth to avoid allocations.
type perftCtx struct {
	bufs [][]Move
}

func (pc *perftCtx) bufFor(depth int) []Move {
	if pc.bufs[depth] == nil {
		pc.bufs[depth] = make([]Move, 0, 256)
	}
	return pc.bufs[depth][:0]
}

func (pc *perftCtx) perft(p *Position, depth int) uint64 {
	moves := GenerateMovesInto(p, pc.bufFor(depth), AllMoves)
	pc.bufs[depth] = moves
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		child := p.Apply(m)
		nodes += pc.perft(&child, depth-1)
	}
	return nodes
}

// PerftDivide returns a map from each legal root move to the number of leaf nodes
// reachable from that move at the given depth. Useful for debugging.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range GenerateMoves(p) {
		child := p.Apply(m)
		result[m] = Perft(&child, depth-1)
	}
	return result
}

// ParallelPerft splits the root moves across at most workers goroutines. It returns
// early with ctx.Err() if ctx is cancelled between root moves.
func ParallelPerft(ctx context.Context, p *Position, depth, workers int) (uint64, error) {
	if depth <= 1 {
		return Perft(p, depth), nil
	}
	var total atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, m := range GenerateMoves(p) {
		child := p.Apply(m)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			total.Add(Perft(&child, depth-1))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total.Load(), nil
}
