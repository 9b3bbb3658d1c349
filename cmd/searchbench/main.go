package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chesscore/engine"
	gm "chesscore/goosemg"
)

// benchPositions is searched when no -fen is given.
var benchPositions = []string{
	gm.FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1",
}

func main() {
	depth := flag.Int("depth", 8, "search depth in plies")
	repeat := flag.Int("repeat", 1, "number of passes over the positions")
	fen := flag.String("fen", "", "search only this position")
	threads := flag.Int("threads", 1, "lazy SMP workers")
	hashMB := flag.Int("hash", 64, "transposition table size in MB")
	prof := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	verbose := flag.Bool("v", false, "print every completed depth")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *depth <= 0 {
		log.Fatal().Int("depth", *depth).Msg("depth must be positive")
	}
	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		log.Fatal().Str("profile", *prof).Msg("unknown profile kind")
	}

	eng, err := engine.New(engine.Options{HashMB: *hashMB, Threads: *threads}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}

	fens := benchPositions
	if *fen != "" {
		fens = []string{*fen}
	}
	var report func(engine.Info)
	if *verbose {
		report = func(info engine.Info) { fmt.Println(info) }
	}

	var nodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		for _, f := range fens {
			pos, err := gm.ParseFEN(f)
			if err != nil {
				log.Fatal().Err(err).Str("fen", f).Msg("bad position")
			}
			if err := eng.ClearHash(); err != nil {
				log.Fatal().Err(err).Send()
			}
			res, err := eng.Search(context.Background(), pos, nil, engine.Limits{Depth: *depth}, report)
			if err != nil {
				log.Fatal().Err(err).Msg("search")
			}
			nodes += res.Nodes
			fmt.Printf("%-72s bestmove %-6s score %6d nodes %10d time %v\n",
				f, res.BestMove, res.Score, res.Nodes, res.Elapsed.Round(time.Millisecond))
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("total nodes %d time %v nps %d\n", nodes, elapsed.Round(time.Millisecond),
		uint64(float64(nodes)/max(elapsed.Seconds(), 1e-9)))
}
