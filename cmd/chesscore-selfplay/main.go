package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/diagram"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/selfplay"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	games      = flag.Int("games", 1, "number of games to play")
	difficulty = flag.String("difficulty", "", "easy, medium or hard (default: saved preference)")
	depth      = flag.Int("depth", -1, "white engine depth (overrides difficulty)")
	blackDepth = flag.Int("black-depth", -1, "black engine depth (default: same as white)")
	opponent   = flag.String("opponent", "", "black player: engine or random (default: saved preference)")
	maxPlies   = flag.Int("max-plies", 0, "abandon a game after this many plies (0 = no limit)")
	seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random mover seed")
	diagramExt = flag.String("diagram", "", "write the final position of each game as svg or png")
	dataDir    = flag.String("data", "", "database directory (default: platform data dir)")
	noRecord   = flag.Bool("no-record", false, "do not archive games")
	verbosity  = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("selfplay")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger logr.Logger) error {
	opts := []storage.Option{storage.WithLogger(logger.WithName("storage"))}
	var (
		store *storage.Storage
		err   error
	)
	if *dataDir != "" {
		store, err = storage.Open(*dataDir, opts...)
	} else {
		store, err = storage.NewStorage(opts...)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		return err
	}
	if err := applyFlags(prefs); err != nil {
		return err
	}
	if err := store.SavePreferences(prefs); err != nil {
		return err
	}

	white, err := newEnginePlayer(prefs.EngineConfig(), logger)
	if err != nil {
		return err
	}
	defer white.Engine.Close()

	var black selfplay.Player
	switch prefs.Opponent {
	case "random":
		black = selfplay.NewRandomPlayer(*seed)
	case "engine":
		cfg := prefs.EngineConfig()
		if *blackDepth >= 0 {
			cfg.Depth = *blackDepth
		}
		p, err := newEnginePlayer(cfg, logger)
		if err != nil {
			return err
		}
		defer p.Engine.Close()
		black = p
	default:
		return fmt.Errorf("unknown opponent %q", prefs.Opponent)
	}

	var plies int
	start := time.Now()
	for i := 1; i <= *games; i++ {
		match := &selfplay.Match{
			White:    white,
			Black:    black,
			MaxPlies: *maxPlies,
			Log:      logger.WithValues("game", i),
		}
		res, err := match.Play(ctx)
		if err != nil {
			return err
		}
		rec := res.Record
		plies += rec.Plies()

		if !*noRecord {
			if err := store.RecordGame(rec); err != nil {
				return err
			}
		}
		fmt.Printf("Game %d: %s %s (%s) in %d plies, %s\n",
			i, rec.White+" vs "+rec.Black, rec.Result, rec.Termination, rec.Plies(),
			rec.Duration.Round(time.Millisecond))
		fmt.Printf("  Final score: %.2f\n", engine.Evaluate(res.Game.Position()))
		fmt.Printf("  Final fen: %s\n", rec.FinalFEN)

		if *diagramExt != "" {
			path, err := writeDiagram(res, rec, i)
			if err != nil {
				return err
			}
			fmt.Printf("  Diagram: %s\n", path)
		}
	}

	fmt.Println("=========================")
	fmt.Printf("Played %s plies in %s\n", humanize.Comma(int64(plies)), time.Since(start).Round(time.Millisecond))
	if *noRecord {
		return nil
	}

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("Archive: %s games, %d-%d-%d (white-black-draw), %.1f%% draws, longest %d plies\n",
		humanize.Comma(int64(stats.GamesPlayed)), stats.WhiteWins, stats.BlackWins, stats.Draws,
		stats.DrawRate(), stats.LongestGame)
	for _, line := range stats.Summary() {
		fmt.Println("  " + line)
	}
	return nil
}

// applyFlags overrides the saved preferences with explicit flags.
func applyFlags(prefs *storage.Preferences) error {
	if *difficulty != "" {
		d, err := engine.ParseDifficulty(*difficulty)
		if err != nil {
			return err
		}
		cfg := engine.DifficultySettings[d]
		prefs.Difficulty = d.String()
		prefs.Depth = cfg.Depth
		prefs.TableCapacity = cfg.TableCapacity
		prefs.VerifyHits = cfg.VerifyHits
	}
	if *depth >= 0 {
		prefs.Depth = *depth
	}
	if *opponent != "" {
		prefs.Opponent = *opponent
	}
	return prefs.EngineConfig().Validate()
}

func newEnginePlayer(cfg engine.Config, logger logr.Logger) (*selfplay.EnginePlayer, error) {
	eng, err := engine.New(cfg, engine.WithLogger(logger.WithName("engine")))
	if err != nil {
		return nil, err
	}
	return &selfplay.EnginePlayer{Engine: eng}, nil
}

func writeDiagram(res *selfplay.Result, rec *storage.GameRecord, n int) (string, error) {
	dir, err := storage.GetDiagramDir()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("game-%d.%s", rec.ID, *diagramExt)
	if rec.ID == 0 {
		name = fmt.Sprintf("unrecorded-%d-%d.%s", time.Now().Unix(), n, *diagramExt)
	}
	path := filepath.Join(dir, name)
	opts := diagram.ForGame(res.Game, diagram.Options{Coordinates: true})
	return path, diagram.WriteFile(path, res.Game.Position(), opts)
}
