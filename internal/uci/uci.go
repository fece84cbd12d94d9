// Package uci implements the subset of the Universal Chess Interface the
// engine understands.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine *engine.Engine
	game   *game.Game
	in     io.Reader
	out    io.Writer
	log    logr.Logger

	// CPU profiling
	profileFile *os.File
}

// Option configures a UCI handler.
type Option func(*UCI)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(u *UCI) {
		u.in = in
		u.out = out
	}
}

// WithLogger sets the logger for diagnostics and for engines rebuilt by
// setoption.
func WithLogger(log logr.Logger) Option {
	return func(u *UCI) { u.log = log }
}

// New creates a new UCI protocol handler.
func New(eng *engine.Engine, opts ...Option) *UCI {
	u := &UCI{
		engine: eng,
		game:   game.NewGame(),
		in:     os.Stdin,
		out:    os.Stdout,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Engine returns the engine in use; setoption may replace it.
func (u *UCI) Engine() *engine.Engine {
	return u.engine
}

// Game returns the current game.
func (u *UCI) Game() *game.Game {
	return u.game
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches are synchronous; the best move has already been sent.
		case "quit":
			u.handleQuit()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.game.String())
			u.println("Fen: " + u.game.FEN())
		case "perft":
			u.handlePerft(args)
		default:
			u.info("Unknown command: %s", cmd)
		}
	}

	u.handleQuit()
	return scanner.Err()
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) info(format string, args ...any) {
	fmt.Fprintf(u.out, "info string "+format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	cfg := u.engine.Config()
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println("")
	fmt.Fprintf(u.out, "option name Depth type spin default %d min 0 max 8\n", cfg.Depth)
	fmt.Fprintf(u.out, "option name TableCapacity type spin default %d min 0 max 67108864\n", cfg.TableCapacity)
	fmt.Fprintf(u.out, "option name VerifyHits type check default %t\n", cfg.VerifyHits)
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.game = game.NewGame()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// The current game is only replaced once the whole command is valid.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	fenEnd := len(args)
	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			fenEnd = i
			moveStart = i + 1
			break
		}
	}

	var g *game.Game
	switch args[0] {
	case "startpos":
		g = game.NewGame()
	case "fen":
		var err error
		g, err = game.FromFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			u.info("Invalid FEN: %v", err)
			return
		}
	default:
		return
	}

	for _, moveStr := range args[moveStart:] {
		if _, err := g.PlayString(moveStr); err != nil {
			u.info("Invalid move: %v", err)
			return
		}
	}
	u.game = g
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
}

// handleGo searches the current position and reports the best move.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	u.engine.OnInfo = u.sendInfo
	defer func() { u.engine.OnInfo = nil }()

	move, ok := u.engine.BestMove(u.game, opts.Depth)
	if !ok {
		// Only send 0000 for checkmate/stalemate (no legal moves)
		u.println("bestmove 0000")
		return
	}
	u.println("bestmove " + move.String())
}

// parseGoOptions parses "go" command arguments. Clock options are accepted
// and ignored: the search is bounded by depth only.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{Depth: u.engine.Config().Depth}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				if d, err := strconv.Atoi(args[i+1]); err == nil && d > 0 {
					// "go depth N" counts the root move as a ply.
					opts.Depth = d - 1
				}
				i++
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes", "mate":
			i++
		}
	}
	return opts
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth+1))
	parts = append(parts, "score "+engine.ScoreToString(info.Score, u.game.SideToMove()))
	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.println("info " + strings.Join(parts, " "))
}

// handleQuit releases resources before exit.
func (u *UCI) handleQuit() {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
		u.log.Info("CPU profile saved")
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	cfg := u.engine.Config()
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 0 {
			u.info("Invalid depth: %s", value)
			return
		}
		u.engine.SetDepth(depth)
	case "tablecapacity":
		capacity, err := strconv.ParseInt(value, 10, 64)
		if err != nil || capacity < 0 {
			u.info("Invalid table capacity: %s", value)
			return
		}
		cfg.TableCapacity = capacity
		u.rebuildEngine(cfg)
	case "verifyhits":
		cfg.VerifyHits = strings.ToLower(value) == "true"
		u.rebuildEngine(cfg)
	case "cpuprofile":
		// Stop existing profile if any
		if u.profileFile != nil {
			pprof.StopCPUProfile()
			u.profileFile.Close()
			u.profileFile = nil
			u.info("CPU profile stopped")
		}
		// Start new profile if path provided
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				u.info("Failed to create profile: %v", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.info("Failed to start profile: %v", err)
				return
			}
			u.profileFile = f
			u.info("CPU profiling to %s", value)
		}
	default:
		u.info("Unknown option: %s", name)
	}
}

// rebuildEngine swaps in an engine with a fresh table for cfg.
func (u *UCI) rebuildEngine(cfg engine.Config) {
	eng, err := engine.New(cfg, engine.WithLogger(u.log))
	if err != nil {
		u.info("Failed to configure engine: %v", err)
		return
	}
	u.engine.Close()
	u.engine = eng
}

// handlePerft runs a perft test, with a per-move breakdown for "perft divide N".
func (u *UCI) handlePerft(args []string) {
	depth := 3
	divide := false
	for _, arg := range args {
		if arg == "divide" {
			divide = true
			continue
		}
		if d, err := strconv.Atoi(arg); err == nil && d >= 0 {
			depth = d
		}
	}

	start := time.Now()
	var nodes int64
	if divide && depth > 0 {
		for _, e := range u.game.Divide(depth) {
			fmt.Fprintf(u.out, "%s: %d\n", e.Move, e.Nodes)
			nodes += e.Nodes
		}
	} else {
		nodes = u.game.Perft(depth)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(u.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := int64(float64(nodes) / elapsed.Seconds())
		fmt.Fprintf(u.out, "NPS: %s\n", humanize.Comma(nps))
	}
}
