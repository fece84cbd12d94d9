package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	difficulty = flag.String("difficulty", "", "easy, medium or hard")
	depth      = flag.Int("depth", -1, "plies searched below each root move (overrides difficulty)")
	usePrefs   = flag.Bool("prefs", false, "start from the saved preferences")
	verbosity  = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()

	// Logs go to stderr; stdout belongs to the protocol.
	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("chesscore")

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		log.Fatal(err)
	}

	eng, err := engine.New(cfg, engine.WithLogger(logger.WithName("engine")))
	if err != nil {
		log.Fatal(err)
	}

	protocol := uci.New(eng, uci.WithLogger(logger.WithName("uci")))
	if err := protocol.Run(); err != nil {
		logger.Error(err, "reading commands")
	}
	protocol.Engine().Close()
}

// loadConfig resolves the engine configuration: saved preferences, then
// difficulty, then depth from the flag or CHESSCORE_DEPTH.
func loadConfig(logger logr.Logger) (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if *usePrefs {
		store, err := storage.NewStorage(storage.WithLogger(logger.WithName("storage")))
		if err != nil {
			return cfg, err
		}
		prefs, err := store.LoadPreferences()
		store.Close()
		if err != nil {
			return cfg, err
		}
		cfg = prefs.EngineConfig()
	}

	if *difficulty != "" {
		d, err := engine.ParseDifficulty(*difficulty)
		if err != nil {
			return cfg, err
		}
		cfg = engine.DifficultySettings[d]
	}

	switch env := os.Getenv("CHESSCORE_DEPTH"); {
	case *depth >= 0:
		cfg.Depth = *depth
	case env != "":
		d, err := strconv.Atoi(env)
		if err != nil {
			return cfg, fmt.Errorf("CHESSCORE_DEPTH: %w", err)
		}
		cfg.Depth = d
	}
	return cfg, cfg.Validate()
}
