package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"chesscore/engine"
	gm "chesscore/goosemg"
)

func runUCI(t *testing.T, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	u, err := newUCI(&out, engine.Options{HashMB: 4, Threads: 1})
	if err != nil {
		t.Fatal(err)
	}
	lines := make(chan string, len(input))
	for _, l := range input {
		lines <- l
	}
	close(lines)

	done := make(chan struct{})
	go func() {
		u.loop(lines)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("command loop did not finish")
	}
	return out.String()
}

func TestParseGo(t *testing.T) {
	l, err := parseGo(strings.Fields("wtime 60000 btime 55000 winc 1000 binc 900 movestogo 20"))
	if err != nil {
		t.Fatal(err)
	}
	want := engine.Limits{WTime: time.Minute, BTime: 55 * time.Second, WInc: time.Second, BInc: 900 * time.Millisecond, MovesToGo: 20}
	if l != want {
		t.Fatalf("got %+v, want %+v", l, want)
	}

	l, err = parseGo(strings.Fields("depth 7 nodes 1000 movetime 250"))
	if err != nil || l.Depth != 7 || l.Nodes != 1000 || l.MoveTime != 250*time.Millisecond {
		t.Fatalf("got %+v, %v", l, err)
	}
	if l, err = parseGo([]string{"infinite"}); err != nil || !l.Infinite {
		t.Fatalf("got %+v, %v", l, err)
	}

	for _, bad := range []string{"depth", "depth x", "wtime -5", "ponderhit 3"} {
		if _, err := parseGo(strings.Fields(bad)); !errors.Is(err, errMalformed) {
			t.Errorf("parseGo(%q) = %v", bad, err)
		}
	}
}

func TestParsePosition(t *testing.T) {
	pos, history, err := parsePosition(strings.Fields("startpos moves e2e4 e7e5 g1f3"))
	if err != nil {
		t.Fatal(err)
	}
	if got := pos.FEN(); got != "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2" {
		t.Fatalf("FEN = %s", got)
	}
	if len(history) != 3 || history[0] != gm.StartPosition().Hash() {
		t.Fatalf("history = %x", history)
	}

	kiwipete := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, history, err = parsePosition(strings.Fields("fen " + kiwipete + " moves e1g1"))
	if err != nil {
		t.Fatal(err)
	}
	if pos.PieceAt(gm.G1) != gm.WhiteKing || pos.PieceAt(gm.F1) != gm.WhiteRook || len(history) != 1 {
		t.Fatalf("castle not applied: %s", pos.FEN())
	}

	pos, _, err = parsePosition(strings.Fields("fen " + kiwipete))
	if err != nil || pos.FEN() != kiwipete {
		t.Fatalf("got %v, %v", pos, err)
	}

	cases := []struct {
		cmd  string
		want error
	}{
		{"", errMalformed},
		{"somewhere", errMalformed},
		{"startpos e2e4", errMalformed},
		{"fen 8/8/8 w - - 0 1", gm.ErrInvalidFEN},
		{"startpos moves e2e5", gm.ErrIllegalMove},
		{"startpos moves e2", gm.ErrInvalidMove},
	}
	for _, tc := range cases {
		if _, _, err := parsePosition(strings.Fields(tc.cmd)); !errors.Is(err, tc.want) {
			t.Errorf("parsePosition(%q) = %v, want %v", tc.cmd, err, tc.want)
		}
	}
}

func TestUCIHandshake(t *testing.T) {
	out := runUCI(t, "uci", "isready")
	for _, want := range []string{"id name " + engineName, "option name Hash", "option name Threads", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUCISearch(t *testing.T) {
	out := runUCI(t, "position startpos moves e2e4 e7e5", "go depth 3")
	if !strings.Contains(out, "info depth 3 ") {
		t.Fatalf("no depth 3 report:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.Fields(lines[len(lines)-1])
	if len(last) != 2 || last[0] != "bestmove" {
		t.Fatalf("last line %q", lines[len(lines)-1])
	}
	pos, _, _ := parsePosition(strings.Fields("startpos moves e2e4 e7e5"))
	if _, err := gm.ParseMove(pos, last[1]); err != nil {
		t.Fatalf("bestmove %s: %v", last[1], err)
	}
}

func TestUCIStopInfinite(t *testing.T) {
	out := runUCI(t, "position startpos", "go infinite", "stop")
	if strings.Count(out, "bestmove") != 1 {
		t.Fatalf("expected one bestmove:\n%s", out)
	}
}

func TestUCIEndOfInputStopsSearchWithoutLimit(t *testing.T) {
	for _, goCmd := range []string{"go wtime 1000 winc 0", "go movestogo 30", "go depth 0"} {
		out := runUCI(t, "position startpos moves e2e4", goCmd)
		if strings.Count(out, "bestmove") != 1 {
			t.Fatalf("%s: expected one bestmove:\n%s", goCmd, out)
		}
	}
}

func TestUCIMatedPosition(t *testing.T) {
	out := runUCI(t, "position fen rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", "go depth 2")
	if !strings.Contains(out, "bestmove 0000") {
		t.Fatalf("expected null bestmove:\n%s", out)
	}
}

func TestUCIDebugCommands(t *testing.T) {
	out := runUCI(t, "position startpos", "d", "legal", "perft 2", "eval")
	for _, want := range []string{"Fen: " + gm.FENStartPos, "20 moves:", "Nodes searched: 400", "eval 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUCIErrorsLeaveStateUnchanged(t *testing.T) {
	out := runUCI(t,
		"position startpos moves e2e4",
		"position startpos moves e2e5",
		"setoption name Hash value 0",
		"setoption name Colour value 3",
		"frobnicate",
		"d",
	)
	if got := strings.Count(out, "info string error:"); got != 4 {
		t.Fatalf("expected 4 errors, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "Fen: rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1") {
		t.Fatalf("position changed by rejected command:\n%s", out)
	}
}

func TestUCISetOption(t *testing.T) {
	var out bytes.Buffer
	u, err := newUCI(&out, engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	u.handle("setoption name Threads value 3")
	u.handle("setoption name Hash value 2")
	if got := u.eng.Options(); got.Threads != 3 || got.HashMB != 2 {
		t.Fatalf("options = %+v\n%s", got, out.String())
	}
}
