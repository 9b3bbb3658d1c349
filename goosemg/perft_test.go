package goosemg_test

import (
	"context"
	"os"
	"testing"

	gm "chesscore/goosemg"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

type perftCase struct {
	name   string
	fen    string
	counts []uint64 // counts[i] is perft(i+1)
}

var perftCases = []perftCase{
	{"initial", gm.FENStartPos, []uint64{20, 400, 8902, 197281}},
	{"kiwipete", kiwipeteFEN, []uint64{48, 2039, 97862}},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238}},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
	{"position4-mirrored", "r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1", []uint64{6, 264, 9467}},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
	{"position6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", []uint64{46, 2079, 89890}},
	{"en-passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", []uint64{5, 19}},
	{"promotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", []uint64{11}},
	{"ep-discovers-rank-pin", "8/8/8/KPp4r/8/8/8/7k w - c6 0 1", []uint64{4}},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftCases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := gm.ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
			}
			for i, want := range tc.counts {
				if got := gm.Perft(pos, i+1); got != want {
					t.Fatalf("perft(%d): got %d want %d", i+1, got, want)
				}
			}
		})
	}
}

func TestPerftInitialDepth5(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	if got := gm.Perft(gm.StartPosition(), 5); got != 4865609 {
		t.Fatalf("initial depth5: got %d want %d", got, 4865609)
	}
}

func TestPerftKiwipeteDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep kiwipete perft in short mode")
	}
	pos, err := gm.ParseFEN(kiwipeteFEN)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := gm.ParallelPerft(context.Background(), pos, 4, 0); err != nil || got != 4085603 {
		t.Fatalf("kiwipete depth4: got %d, %v want %d", got, err, 4085603)
	}
	if os.Getenv("CHESSCORE_LONG_PERFT") == "" {
		t.Skip("set CHESSCORE_LONG_PERFT=1 for kiwipete depth 5")
	}
	if got, err := gm.ParallelPerft(context.Background(), pos, 5, 0); err != nil || got != 193690690 {
		t.Fatalf("kiwipete depth5: got %d, %v want %d", got, err, 193690690)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	pos, err := gm.ParseFEN(kiwipeteFEN)
	if err != nil {
		t.Fatal(err)
	}
	div := gm.PerftDivide(pos, 3)
	if len(div) != 48 {
		t.Fatalf("divide root moves: got %d want 48", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 97862 {
		t.Fatalf("divide sum: got %d want 97862", sum)
	}
}

func TestParallelPerftMatchesSerial(t *testing.T) {
	pos := gm.StartPosition()
	got, err := gm.ParallelPerft(context.Background(), pos, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := gm.Perft(pos, 4); got != want {
		t.Fatalf("parallel perft: got %d want %d", got, want)
	}
}

func TestParallelPerftCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gm.ParallelPerft(ctx, gm.StartPosition(), 4, 1); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func BenchmarkPerftStartpos4(b *testing.B) {
	pos := gm.StartPosition()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gm.Perft(pos, 4)
	}
}

func BenchmarkPerftKiwipete3(b *testing.B) {
	pos, err := gm.ParseFEN(kiwipeteFEN)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gm.Perft(pos, 3)
	}
}
