package engine

import (
	gm "chesscore/goosemg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxPly      = 128
	KillerSlots = 2

	Infinity      int32 = 32700
	MateValue     int32 = 32500
	MateThreshold int32 = MateValue - MaxPly
	DrawScore     int32 = 0
)

// =============================================================================
// PRUNING PARAMETERS
// =============================================================================
const (
	aspirationWindowSize int32 = 35
	DeltaMargin          int32 = 200
	NullMoveMinDepth           = 3

	// limits are polled when the node counter crosses a multiple of this
	checkInterval = 2048
)

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int32) bool {
	return score >= MateThreshold || score <= -MateThreshold
}

// tick counts a node and polls the limits. It reports whether the search must unwind.
func (w *worker) tick() bool {
	w.nodes++
	if w.nodes%checkInterval == 0 {
		w.checkLimits()
	}
	return w.stop.Load()
}

func (w *worker) negamax(pos *gm.Position, depth, ply int, alpha, beta int32, pv *PVLine, didNull bool) int32 {
	pv.Clear()
	if w.tick() {
		return 0
	}

	isRoot := ply == 0
	isPV := beta-alpha > 1

	if !isRoot && w.states.isDraw() {
		return DrawScore
	}
	if ply >= MaxPly {
		return w.eval.Evaluate(pos)
	}

	inCheck := pos.InCheck()
	// Check extension
	if inCheck {
		depth++
	}

	if depth <= 0 {
		return w.quiescence(pos, ply, alpha, beta, pv)
	}

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	hash := pos.Hash()
	ttMove := gm.NoMove
	if entry, ok := w.tt.Probe(hash); ok {
		w.ttHits++
		ttMove = entry.Move
		if !isRoot && !isPV && int(entry.Depth) >= depth {
			score := ScoreFromTT(int32(entry.Score), ply)
			if entry.Bound == BoundExact ||
				(entry.Bound == BoundLower && score >= beta) ||
				(entry.Bound == BoundUpper && score <= alpha) {
				w.stats.TTCutoffs++
				return score
			}
		}
	}

	var childPV PVLine
	us := pos.SideToMove()

	/*
		NULL MOVE PRUNING
		Pass the turn; if a reduced search still fails high the position is good enough to
		cut. Skipped without non-pawn material because of zugzwang.
	*/
	if !isRoot && !isPV && !inCheck && !didNull && depth >= NullMoveMinDepth &&
		beta > -MateThreshold && pos.HasNonPawnMaterial(us) && w.eval.Evaluate(pos) >= beta {
		R := Min(3+depth/3, depth-1)
		child := pos.ApplyNull()
		w.states.push(&child)
		score := -w.negamax(&child, depth-1-R, ply+1, -beta, -beta+1, &childPV, true)
		w.states.pop()
		if w.stop.Load() {
			return 0
		}
		if score >= beta {
			w.stats.NullMoveCutoffs++
			// Unproven mates from a null search are not trusted.
			if score >= MateThreshold {
				score = beta
			}
			return score
		}
	}

	var moves []gm.Move
	if isRoot {
		moves = w.rootMoves
	} else {
		moves = gm.GenerateMovesInto(pos, w.moveBufs[ply][:0], gm.AllMoves)
		w.moveBufs[ply] = moves
	}

	// Checkmate/stalemate
	if len(moves) == 0 {
		if inCheck {
			return -MateValue + int32(ply)
		}
		return DrawScore
	}

	ordered := w.scoreMoves(pos, moves, w.scoreBufs[ply][:0], ttMove, ply)
	w.scoreBufs[ply] = ordered

	bestScore := -Infinity
	bestMove := gm.NoMove
	bound := BoundUpper
	quietsTried := w.quietBufs[ply][:0]

	for i := range ordered {
		move := pickNext(ordered, i)
		child := pos.Apply(move)
		w.states.push(&child)

		var score int32
		if i == 0 {
			score = -w.negamax(&child, depth-1, ply+1, -beta, -alpha, &childPV, false)
		} else {
			// Principal variation search: prove the move is no better than alpha with a
			// null window, re-search with the full window when that fails.
			score = -w.negamax(&child, depth-1, ply+1, -alpha-1, -alpha, &childPV, false)
			if score > alpha && score < beta {
				score = -w.negamax(&child, depth-1, ply+1, -beta, -alpha, &childPV, false)
			}
		}
		w.states.pop()

		// An unwound child returns garbage; leave TT and PV untouched.
		if w.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		if score > alpha {
			alpha = score
			bound = BoundExact
			pv.Update(move, &childPV)
		}

		if score >= beta {
			w.stats.BetaCutoffs++
			bound = BoundLower
			if !move.IsTactical() {
				piece := pos.PieceAt(move.From()).Type()
				w.killers.Insert(move, ply)
				w.history.Reward(us, piece, move.To(), depth)
				for _, failed := range quietsTried {
					w.history.Penalize(us, pos.PieceAt(failed.From()).Type(), failed.To(), depth)
				}
			}
			break
		}

		if !move.IsTactical() {
			quietsTried = append(quietsTried, move)
		}
	}
	w.quietBufs[ply] = quietsTried

	w.tt.Record(hash, bestMove, ScoreToTT(bestScore, ply), depth, bound)
	return bestScore
}

// quiescence searches captures and promotions (every evasion when in check) until the
// position is quiet, using the static evaluation as a floor.
func (w *worker) quiescence(pos *gm.Position, ply int, alpha, beta int32, pv *PVLine) int32 {
	pv.Clear()
	if w.tick() {
		return 0
	}
	if ply >= MaxPly {
		return w.eval.Evaluate(pos)
	}

	inCheck := pos.InCheck()
	bestScore := -Infinity
	standPat := int32(0)
	filter := gm.AllMoves

	// Stand-pat pruning (not when in check)
	if !inCheck {
		standPat = w.eval.Evaluate(pos)
		if standPat >= beta {
			w.stats.QStandPatCutoffs++
			return standPat
		}
		alpha = Max(alpha, standPat)
		bestScore = standPat
		filter = gm.Tactical
	}

	moves := gm.GenerateMovesInto(pos, w.moveBufs[ply][:0], filter)
	w.moveBufs[ply] = moves
	if inCheck && len(moves) == 0 {
		return -MateValue + int32(ply)
	}

	ordered := w.scoreMoves(pos, moves, w.scoreBufs[ply][:0], gm.NoMove, ply)
	w.scoreBufs[ply] = ordered

	var childPV PVLine
	for i := range ordered {
		move := pickNext(ordered, i)

		if !inCheck {
			// Delta pruning: even winning the piece outright cannot lift us to alpha.
			gain := w.eval.PieceValue(victimOf(pos, move))
			if move.IsPromotion() {
				gain += w.eval.PieceValue(move.Promotion()) - w.eval.PieceValue(gm.PieceTypePawn)
			}
			if standPat+gain+DeltaMargin < alpha {
				w.stats.DeltaPrunes++
				continue
			}
			if move.IsCapture() && !move.IsPromotion() && see(pos, move) < 0 {
				w.stats.SEEPrunes++
				continue
			}
		}

		child := pos.Apply(move)
		score := -w.quiescence(&child, ply+1, -beta, -alpha, &childPV)
		if w.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			w.stats.QBetaCutoffs++
			return score
		}
		if score > alpha {
			alpha = score
			pv.Update(move, &childPV)
		}
	}
	return bestScore
}
