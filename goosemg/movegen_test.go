package goosemg_test

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/samber/lo"

	gm "chesscore/goosemg"
)

func moveStrings(moves []gm.Move) []string {
	out := lo.Map(moves, func(m gm.Move, _ int) string { return m.String() })
	sort.Strings(out)
	return out
}

func dragontoothMoves(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	var out []string
	for _, m := range b.GenerateLegalMoves() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func notnilMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("notnil FEN(%q): %v", fen, err)
	}
	g := chess.NewGame(opt)
	out := lo.Map(g.ValidMoves(), func(m *chess.Move, _ int) string { return m.String() })
	sort.Strings(out)
	return out
}

func sameMoves(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLegalMovesMatchDragontooth(t *testing.T) {
	for _, fen := range walkRoots {
		root, err := gm.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		for seed := int64(1); seed <= 15; seed++ {
			randomWalk(root, seed, 100, func(p *gm.Position, played gm.Move) {
				s := p.FEN()
				got, want := moveStrings(gm.GenerateMoves(p)), dragontoothMoves(s)
				if !sameMoves(got, want) {
					t.Fatalf("%s (after %s):\n got  %v\n want %v", s, played, got, want)
				}
			})
		}
	}
}

func TestLegalMovesMatchNotnil(t *testing.T) {
	for _, fen := range walkRoots {
		root, err := gm.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		randomWalk(root, 99, 60, func(p *gm.Position, played gm.Move) {
			s := p.FEN()
			got, want := moveStrings(gm.GenerateMoves(p)), notnilMoves(t, s)
			if !sameMoves(got, want) {
				t.Fatalf("%s (after %s):\n got  %v\n want %v", s, played, got, want)
			}
		})
	}
}

func TestMovesNeverLeaveKingInCheck(t *testing.T) {
	for _, fen := range walkRoots {
		root, err := gm.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		for seed := int64(100); seed < 110; seed++ {
			randomWalk(root, seed, 100, func(p *gm.Position, _ gm.Move) {
				us := p.SideToMove()
				for _, m := range gm.GenerateMoves(p) {
					child := p.Apply(m)
					if child.IsInCheck(us) {
						t.Fatalf("%s leaves king in check in %s", m, p.FEN())
					}
				}
			})
		}
	}
}

func TestTacticalIsSubsetOfAll(t *testing.T) {
	root, err := gm.ParseFEN(kiwipeteFEN)
	if err != nil {
		t.Fatal(err)
	}
	randomWalk(root, 3, 60, func(p *gm.Position, _ gm.Move) {
		all := map[gm.Move]bool{}
		var wantTactical int
		for _, m := range gm.GenerateMoves(p) {
			all[m] = true
			if m.IsTactical() {
				wantTactical++
			}
		}
		tactical := gm.GenerateMovesInto(p, nil, gm.Tactical)
		for _, m := range tactical {
			if !all[m] || !m.IsTactical() {
				t.Fatalf("tactical move %s not a legal capture/promotion in %s", m, p.FEN())
			}
		}
		if len(tactical) != wantTactical {
			t.Fatalf("tactical count %d want %d in %s", len(tactical), wantTactical, p.FEN())
		}
	})
}

func TestGenerationIsDeterministic(t *testing.T) {
	p, err := gm.ParseFEN(kiwipeteFEN)
	if err != nil {
		t.Fatal(err)
	}
	a := gm.GenerateMoves(p)
	b := gm.GenerateMoves(p)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestSpecialPositions(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want []string
	}{
		// Knight and rook both give check: only king moves.
		{"double-check", "4k3/8/3N4/8/8/8/8/K3R3 b - - 0 1", []string{"e8d7", "e8d8", "e8f8"}},
		// King may not retreat along the checking rook's ray.
		{"retreat-on-ray", "8/8/8/8/8/8/r3K3/7k w - - 0 1", []string{"e2d1", "e2d3", "e2e1", "e2e3", "e2f1", "e2f3"}},
		// Castling through an attacked square is illegal; queen-side b1 may be attacked.
		{"castle-through-check", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", nil},
		// Pinned bishop can slide along the pin only.
		{"diag-pin", "7k/8/8/8/3q4/8/1B6/K7 w - - 0 1", []string{"a1a2", "a1b1", "b2c3", "b2d4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := gm.ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			got := moveStrings(gm.GenerateMoves(p))
			want := tc.want
			if want == nil {
				want = dragontoothMoves(tc.fen)
			}
			sort.Strings(want)
			if !sameMoves(got, want) {
				t.Fatalf("got %v want %v", got, want)
			}
		})
	}
}

func TestCastleGating(t *testing.T) {
	p, err := gm.ParseFEN("1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves := moveStrings(gm.GenerateMoves(p))
	if !lo.Contains(moves, "e1c1") || !lo.Contains(moves, "e1g1") {
		t.Fatalf("both castles should be legal when only b1 is attacked: %v", moves)
	}

	p, err = gm.ParseFEN("4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves = moveStrings(gm.GenerateMoves(p))
	if lo.Contains(moves, "e1g1") || !lo.Contains(moves, "e1c1") {
		t.Fatalf("f1 attacked: king-side castle must be excluded: %v", moves)
	}
}

func TestHasLegalMove(t *testing.T) {
	mate, err := gm.ParseFEN("7k/6Q1/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if gm.HasLegalMove(mate) || !mate.InCheck() {
		t.Fatal("expected checkmate")
	}
	stale, err := gm.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if gm.HasLegalMove(stale) || stale.InCheck() {
		t.Fatal("expected stalemate")
	}
	if !gm.HasLegalMove(gm.StartPosition()) {
		t.Fatal("start position has moves")
	}
}

func BenchmarkGenerateMoves(b *testing.B) {
	p, err := gm.ParseFEN(kiwipeteFEN)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]gm.Move, 0, 256)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf = gm.GenerateMovesInto(p, buf[:0], gm.AllMoves)
	}
}
