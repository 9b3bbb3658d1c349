package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	gm "chesscore/goosemg"
)

func main() {
	fen := flag.String("fen", gm.FENStartPos, "position to count from")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	workers := flag.Int("parallel", 0, "split root moves over this many goroutines (0 = sequential)")
	repeat := flag.Int("repeat", 1, "repeat the count for steadier timings")
	label := flag.String("label", "", "optional label prefix for the one-line summary")
	verify := flag.Bool("verify", false, "cross-check the count against dragontoothmg")
	prof := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *depth <= 0 {
		log.Fatal().Int("depth", *depth).Msg("-depth must be > 0")
	}
	if *repeat < 1 {
		log.Fatal().Int("repeat", *repeat).Msg("-repeat must be > 0")
	}
	pos, err := gm.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Msg("bad position")
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

	if *divide {
		printDivide(pos, *depth)
		return
	}

	var nodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		if *workers > 0 {
			n, err := gm.ParallelPerft(context.Background(), pos, *depth, *workers)
			if err != nil {
				log.Fatal().Err(err).Msg("parallel perft")
			}
			nodes = n
		} else {
			nodes = gm.Perft(pos, *depth)
		}
	}
	elapsed := time.Since(start) / time.Duration(*repeat)
	nps := uint64(float64(nodes) / max(elapsed.Seconds(), 1e-9))

	if *label != "" {
		fmt.Printf("%s\t\t%d\t\t%d\t\t%v\t%d\n", *label, *depth, nodes, elapsed.Round(time.Millisecond), nps)
	} else {
		fmt.Printf("depth %d nodes %d time %v nps %d\n", *depth, nodes, elapsed.Round(time.Millisecond), nps)
	}

	if *verify {
		b := dragontoothmg.ParseFen(*fen)
		want := dragontoothPerft(&b, *depth)
		if want != nodes {
			log.Error().Uint64("got", nodes).Uint64("dragontoothmg", want).Msg("perft mismatch")
			os.Exit(1)
		}
		log.Info().Uint64("nodes", want).Msg("dragontoothmg agrees")
	}
}

func printDivide(pos *gm.Position, depth int) {
	div := gm.PerftDivide(pos, depth)
	moves := make([]gm.Move, 0, len(div))
	var total uint64
	for m, n := range div {
		moves = append(moves, m)
		total += n
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
	for _, m := range moves {
		fmt.Printf("%s: %d\n", m, div[m])
	}
	fmt.Printf("Total: %d\n", total)
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		undo()
	}
	return nodes
}
