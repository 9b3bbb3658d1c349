package engine

import (
	"testing"

	gm "chesscore/goosemg"
)

func TestKillerTable(t *testing.T) {
	var k KillerTable
	a := gm.NewMove(gm.Square(12), gm.Square(28), gm.DoublePawnPush)
	b := gm.NewMove(gm.Square(6), gm.Square(21), gm.Quiet)
	c := gm.NewMove(gm.Square(1), gm.Square(18), gm.Quiet)

	k.Insert(a, 3)
	k.Insert(a, 3)
	if k.Slot(a, 3) != 0 || k.Slot(b, 3) != -1 {
		t.Fatalf("after inserting a twice: slot(a)=%d slot(b)=%d", k.Slot(a, 3), k.Slot(b, 3))
	}
	k.Insert(b, 3)
	if k.Slot(b, 3) != 0 || k.Slot(a, 3) != 1 {
		t.Fatalf("killers not shifted: slot(b)=%d slot(a)=%d", k.Slot(b, 3), k.Slot(a, 3))
	}
	k.Insert(c, 3)
	if k.Slot(a, 3) != -1 {
		t.Fatal("oldest killer not evicted")
	}
	if k.Slot(c, 4) != -1 {
		t.Fatal("killer leaked to another ply")
	}
	if k.Slot(gm.NoMove, 0) != -1 {
		t.Fatal("empty slot matched NoMove")
	}
	k.Clear()
	if k.Slot(c, 3) != -1 {
		t.Fatal("Clear kept killers")
	}
}

func TestHistoryTable(t *testing.T) {
	var h HistoryTable
	h.Reward(gm.White, gm.PieceTypeKnight, gm.Square(21), 4)
	if got := h.Score(gm.White, gm.PieceTypeKnight, gm.Square(21)); got != 16 {
		t.Fatalf("score after reward = %d, want 16", got)
	}
	if got := h.Score(gm.Black, gm.PieceTypeKnight, gm.Square(21)); got != 0 {
		t.Fatalf("reward leaked to black: %d", got)
	}
	h.Penalize(gm.White, gm.PieceTypeKnight, gm.Square(21), 2)
	if got := h.Score(gm.White, gm.PieceTypeKnight, gm.Square(21)); got != 12 {
		t.Fatalf("score after penalty = %d, want 12", got)
	}

	// Growing past the cap halves the side.
	h.Reward(gm.White, gm.PieceTypeQueen, gm.Square(0), 128)
	if got := h.Score(gm.White, gm.PieceTypeQueen, gm.Square(0)); got >= historyMaxVal {
		t.Fatalf("history not aged: %d", got)
	}
	if got := h.Score(gm.White, gm.PieceTypeKnight, gm.Square(21)); got != 6 {
		t.Fatalf("other entries not halved: %d", got)
	}
	if h.Score(gm.White, gm.PieceTypeQueen, gm.Square(0)) >= killerOffset {
		t.Fatal("history can outrank killers")
	}
}

func TestPickNext(t *testing.T) {
	moves := []scoredMove{{1, 5}, {2, 50}, {3, -4}, {4, 20}}
	var order []gm.Move
	for i := range moves {
		order = append(order, pickNext(moves, i))
	}
	want := []gm.Move{2, 4, 1, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestScoreMovesOrdering(t *testing.T) {
	// White can take the rook with the pawn or the knight, or play quiet moves.
	pos := mustParse(t, "3qk3/8/2r5/3P4/1N6/8/8/4K3 w - - 0 1")
	var w worker
	killer := mustMove(t, pos, "e1f1")
	ttMove := mustMove(t, pos, "e1d2")
	w.killers.Insert(killer, 2)

	moves := gm.GenerateMoves(pos)
	scored := w.scoreMoves(pos, moves, nil, ttMove, 2)
	var order []string
	for i := range scored {
		order = append(order, pickNext(scored, i).String())
	}
	want := []string{"e1d2", "d5c6", "b4c6"}
	for i, m := range want {
		if order[i] != m {
			t.Fatalf("order[%d] = %s, want %s (full order %v)", i, order[i], m, order)
		}
	}
	if order[3] != "e1f1" {
		t.Fatalf("killer not first quiet move: %v", order)
	}
}

func TestPVLineUpdate(t *testing.T) {
	var child, pv PVLine
	a := gm.NewMove(gm.Square(12), gm.Square(28), gm.DoublePawnPush)
	b := gm.NewMove(gm.Square(52), gm.Square(36), gm.DoublePawnPush)
	c := gm.NewMove(gm.Square(6), gm.Square(21), gm.Quiet)

	child.Update(b, &PVLine{})
	pv.Update(a, &child)
	if pv.Len() != 2 || pv.First() != a || pv.String() != "e2e4 e7e5" {
		t.Fatalf("pv = %q", pv.String())
	}
	child.Clear()
	child.Update(c, &pv)
	if got := child.String(); got != "g1f3 e2e4 e7e5" {
		t.Fatalf("pv = %q", got)
	}
	if len(child.Moves()) != 3 {
		t.Fatalf("Moves() length = %d", len(child.Moves()))
	}
	child.Clear()
	if child.First() != gm.NoMove {
		t.Fatal("cleared line has a first move")
	}
}

func TestStateStackDraws(t *testing.T) {
	pos := gm.StartPosition()
	seq := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	// Repetition inside the search path counts once.
	var s stateStack
	s.reset(nil, pos)
	cur := *pos
	for _, text := range seq {
		cur = cur.Apply(mustMove(t, &cur, text))
		s.push(&cur)
	}
	if !s.isDraw() {
		t.Fatal("repetition inside the search path not detected")
	}

	// A single earlier occurrence in game history is not yet a draw.
	root := mustParse(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 8 5")
	var hist stateStack
	hist.reset([]uint64{pos.Hash(), 1, 2, 3}, root)
	if hist.isDraw() {
		t.Fatal("second occurrence before the root reported as draw")
	}
	// A third occurrence is.
	hist.reset([]uint64{pos.Hash(), 1, 2, 3, pos.Hash(), 4, 5, 6}, root)
	if !hist.isDraw() {
		t.Fatal("threefold repetition across history not detected")
	}

	fifty := mustParse(t, "4k3/8/8/8/8/8/8/4K2R w - - 100 80")
	var f stateStack
	f.reset(nil, fifty)
	if !f.isDraw() {
		t.Fatal("fifty-move rule not detected")
	}
}
