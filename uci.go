package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chesscore/engine"
	gm "chesscore/goosemg"
)

const (
	engineName   = "chesscore"
	engineAuthor = "Goose"
)

var errMalformed = errors.New("malformed command")

func main() {
	logLevel := flag.String("loglevel", "info", "log level (trace, debug, info, warn, error)")
	hashMB := flag.Int("hash", engine.DefaultOptions().HashMB, "transposition table size in MB")
	threads := flag.Int("threads", engine.DefaultOptions().Threads, "search threads")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)

	u, err := newUCI(os.Stdout, engine.Options{HashMB: *hashMB, Threads: *threads})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start engine")
	}
	u.loop(readLines(os.Stdin))
}

// readLines delivers input lines on a channel so a running search never waits on stdin.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			log.Error().Err(err).Msg("reading input")
		}
	}()
	return lines
}

type uci struct {
	mu  sync.Mutex // guards out
	out io.Writer

	eng     *engine.Engine
	eval    engine.Evaluator
	pos     *gm.Position
	history []uint64 // hashes of the positions before pos

	cancel    context.CancelFunc // ends the running search, if any
	unbounded bool               // the running search only ends on stop
	searching sync.WaitGroup
}

func newUCI(out io.Writer, opts engine.Options) (*uci, error) {
	eval := engine.NewPSQTEvaluator(engine.DefaultWeights())
	eng, err := engine.New(opts, eval)
	if err != nil {
		return nil, err
	}
	return &uci{out: out, eng: eng, eval: eval, pos: gm.StartPosition()}, nil
}

func (u *uci) println(a ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, a...)
}

func (u *uci) printf(format string, a ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, a...)
}

func (u *uci) reportError(err error) {
	log.Warn().Err(err).Msg("command rejected")
	u.println("info string error:", err)
}

// loop handles lines until quit or end of input. At end of input a search with a limit
// is allowed to finish; an unbounded one is stopped.
func (u *uci) loop(lines <-chan string) {
	for line := range lines {
		if !u.handle(line) {
			u.stopSearch()
			return
		}
	}
	if u.unbounded {
		u.stopSearch()
	}
	u.searching.Wait()
}

// stopSearch halts a running search and waits until its bestmove is printed.
func (u *uci) stopSearch() {
	if u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
	u.searching.Wait()
}

// handle executes one command line and reports whether the loop should continue.
func (u *uci) handle(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 { // ignore blank lines
		return true
	}
	log.Debug().Str("cmd", line).Msg("received")

	switch strings.ToLower(tokens[0]) {
	case "uci":
		u.println("id name", engineName)
		u.println("id author", engineAuthor)
		u.printf("option name Hash type spin default %d min %d max %d\n", engine.DefaultOptions().HashMB, engine.MinHashMB, engine.MaxHashMB)
		u.printf("option name Threads type spin default %d min %d max %d\n", engine.DefaultOptions().Threads, engine.MinThreads, engine.MaxThreads)
		u.println("uciok")
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.stopSearch()
		if err := u.eng.ClearHash(); err != nil {
			u.reportError(err)
		}
		u.pos, u.history = gm.StartPosition(), nil
	case "setoption":
		u.stopSearch()
		if err := u.setOption(tokens[1:]); err != nil {
			u.reportError(err)
		}
	case "position":
		u.stopSearch()
		pos, history, err := parsePosition(tokens[1:])
		if err != nil {
			u.reportError(err)
			return true
		}
		u.pos, u.history = pos, history
	case "go":
		limits, err := parseGo(tokens[1:])
		if err != nil {
			u.reportError(err)
			return true
		}
		u.stopSearch()
		u.startSearch(limits)
	case "stop":
		u.stopSearch()
	case "quit":
		return false
	case "d":
		u.println(u.pos.String())
		u.println("Fen:", u.pos.FEN())
		u.printf("Key: %016x\n", u.pos.Hash())
	case "legal":
		moves := gm.GenerateMoves(u.pos)
		u.printf("%d moves: %s\n", len(moves), engine.FormatMoves(moves))
	case "eval":
		u.printf("eval %d (side to move), phase %d/%d\n", u.eval.Evaluate(u.pos), engine.GamePhase(u.pos), engine.TotalPhase)
	case "perft":
		if err := u.perft(tokens[1:]); err != nil {
			u.reportError(err)
		}
	default:
		u.reportError(fmt.Errorf("%w: unknown command %q", errMalformed, tokens[0]))
	}
	return true
}

func (u *uci) startSearch(limits engine.Limits) {
	pos := *u.pos
	history := append([]uint64(nil), u.history...)
	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	tm := engine.NewTimeManager(limits, &pos, time.Now())
	u.unbounded = !tm.Bounded()
	u.searching.Add(1)
	go func() {
		defer u.searching.Done()
		defer cancel()
		res, err := u.eng.Search(ctx, &pos, history, limits, func(info engine.Info) {
			u.println(info.String())
		})
		if err != nil {
			u.reportError(err)
			return
		}
		u.println("bestmove", res.BestMove)
	}()
}

// setOption handles "name <id> value <x>"; only Hash and Threads exist.
func (u *uci) setOption(tokens []string) error {
	var name, value []string
	var cur *[]string
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "name":
			cur = &name
		case "value":
			cur = &value
		default:
			if cur == nil {
				return fmt.Errorf("%w: setoption %s", errMalformed, strings.Join(tokens, " "))
			}
			*cur = append(*cur, tok)
		}
	}
	n, err := strconv.Atoi(strings.Join(value, ""))
	if err != nil {
		return fmt.Errorf("%w: option value %q", errMalformed, strings.Join(value, " "))
	}
	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		return u.eng.SetHashSize(n)
	case "threads":
		return u.eng.SetThreads(n)
	}
	return fmt.Errorf("%w: unknown option %q", errMalformed, strings.Join(name, " "))
}

// parsePosition handles "startpos | fen <fields> [moves <m1> ...]". It returns the final
// position and the hashes of every position before it.
func parsePosition(tokens []string) (*gm.Position, []uint64, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("%w: position needs startpos or fen", errMalformed)
	}
	var pos *gm.Position
	rest := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		pos = gm.StartPosition()
	case "fen":
		end := len(rest)
		for i, tok := range rest {
			if strings.ToLower(tok) == "moves" {
				end = i
				break
			}
		}
		var err error
		if pos, err = gm.ParseFEN(strings.Join(rest[:end], " ")); err != nil {
			return nil, nil, err
		}
		rest = rest[end:]
	default:
		return nil, nil, fmt.Errorf("%w: invalid position subcommand %q", errMalformed, tokens[0])
	}

	if len(rest) == 0 {
		return pos, nil, nil
	}
	if strings.ToLower(rest[0]) != "moves" {
		return nil, nil, fmt.Errorf("%w: expected moves, got %q", errMalformed, rest[0])
	}
	var history []uint64
	for _, text := range rest[1:] {
		m, err := gm.ParseMove(pos, strings.ToLower(text))
		if err != nil {
			return nil, nil, fmt.Errorf("move %s in %s: %w", text, pos.FEN(), err)
		}
		history = append(history, pos.Hash())
		next := pos.Apply(m)
		pos = &next
	}
	return pos, history, nil
}

// parseGo converts go arguments into search limits. Times are in milliseconds.
func parseGo(tokens []string) (engine.Limits, error) {
	var l engine.Limits
	for i := 0; i < len(tokens); i++ {
		key := strings.ToLower(tokens[i])
		if key == "infinite" {
			l.Infinite = true
			continue
		}
		if i+1 >= len(tokens) {
			return l, fmt.Errorf("%w: go option %s needs a value", errMalformed, key)
		}
		i++
		n, err := strconv.ParseInt(tokens[i], 10, 64)
		if err != nil || n < 0 {
			return l, fmt.Errorf("%w: go option %s value %q", errMalformed, key, tokens[i])
		}
		ms := time.Duration(n) * time.Millisecond
		switch key {
		case "depth":
			l.Depth = int(n)
		case "nodes":
			l.Nodes = uint64(n)
		case "movetime":
			l.MoveTime = ms
		case "wtime":
			l.WTime = ms
		case "btime":
			l.BTime = ms
		case "winc":
			l.WInc = ms
		case "binc":
			l.BInc = ms
		case "movestogo":
			l.MovesToGo = int(n)
		default:
			return l, fmt.Errorf("%w: unknown go option %s", errMalformed, key)
		}
	}
	return l, nil
}

// perft handles "perft <depth>": a divide listing followed by the total.
func (u *uci) perft(tokens []string) error {
	if len(tokens) != 1 {
		return fmt.Errorf("%w: perft needs a depth", errMalformed)
	}
	depth, err := strconv.Atoi(tokens[0])
	if err != nil || depth < 1 {
		return fmt.Errorf("%w: perft depth %q", errMalformed, tokens[0])
	}
	start := time.Now()
	divide := gm.PerftDivide(u.pos, depth)
	lines := make([]string, 0, len(divide))
	var total uint64
	for m, n := range divide {
		lines = append(lines, fmt.Sprintf("%s: %d", m, n))
		total += n
	}
	sort.Strings(lines)
	for _, l := range lines {
		u.println(l)
	}
	u.printf("\nNodes searched: %d\nTime: %v\n", total, time.Since(start).Round(time.Millisecond))
	return nil
}
