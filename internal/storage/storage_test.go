package storage

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir(), WithLogger(testr.New(t)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func playGame(t *testing.T, fen string, moves ...string) *game.Game {
	t.Helper()
	g, err := game.FromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range moves {
		if _, err := g.PlayString(s); err != nil {
			t.Fatalf("play %s: %v", s, err)
		}
	}
	g.GenerateLegalMoves()
	return g
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Difficulty != "medium" {
			t.Errorf("Expected medium difficulty, got %q", prefs.Difficulty)
		}
		if prefs.EngineConfig() != engine.DefaultConfig() {
			t.Errorf("EngineConfig() = %+v, want %+v", prefs.EngineConfig(), engine.DefaultConfig())
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.DrawRate() != 0 {
			t.Errorf("Expected 0 draw rate")
		}
	})

	t.Run("DrawRate", func(t *testing.T) {
		stats := &GameStats{GamesPlayed: 10, WhiteWins: 5, BlackWins: 3, Draws: 2}
		if rate := stats.DrawRate(); rate != 20 {
			t.Errorf("Expected 20%% draw rate, got %.2f%%", rate)
		}
	})
}

func TestResult(t *testing.T) {
	tests := []struct {
		state  board.State
		toMove board.Color
		want   string
	}{
		{board.Checkmate, board.White, ResultBlackWins},
		{board.Checkmate, board.Black, ResultWhiteWins},
		{board.Stalemate, board.White, ResultDraw},
		{board.Repetition, board.Black, ResultDraw},
		{board.Timeout, board.White, ResultDraw},
		{board.InProgress, board.White, ResultOngoing},
	}
	for _, tc := range tests {
		if got := Result(tc.state, tc.toMove); got != tc.want {
			t.Errorf("Result(%s, %s) = %s, want %s", tc.state, tc.toMove, got, tc.want)
		}
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTemp(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ = s.IsFirstLaunch(); first {
		t.Error("still first launch after marking it complete")
	}

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if *prefs != *DefaultPreferences() {
		t.Errorf("empty database gave %+v", prefs)
	}

	prefs.Difficulty = "hard"
	prefs.Depth = 4
	prefs.TableCapacity = 1 << 16
	prefs.Opponent = "random"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Depth != 4 || loaded.Opponent != "random" || loaded.TableCapacity != 1<<16 {
		t.Errorf("loaded %+v", loaded)
	}
	if loaded.LastPlayed.IsZero() {
		t.Error("LastPlayed was not set")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTemp(t)

	// Fool's mate.
	mate := playGame(t, board.StartFEN, "f2f3", "e7e5", "g2g4", "d8h4")
	rec := NewGameRecord(mate, board.StartFEN, "random", "engine", time.Now())
	if rec.Result != ResultBlackWins || rec.Termination != "checkmate" {
		t.Fatalf("record = %s by %s", rec.Result, rec.Termination)
	}
	if rec.SAN[3] != "Qh4#" {
		t.Errorf("SAN = %v", rec.SAN)
	}
	if err := s.RecordGame(rec); err != nil {
		t.Fatal(err)
	}

	const stalemateFEN = "4k3/4P3/5K2/8/8/8/8/8 w - - 0 1"
	stale := playGame(t, stalemateFEN, "f6e6")
	draw := NewGameRecord(stale, stalemateFEN, "engine", "engine", time.Now())
	if draw.Result != ResultDraw {
		t.Fatalf("stalemate recorded as %s", draw.Result)
	}
	if err := s.RecordGame(draw); err != nil {
		t.Fatal(err)
	}

	if rec.ID == 0 || draw.ID <= rec.ID {
		t.Errorf("ids %d then %d", rec.ID, draw.ID)
	}

	loaded, err := s.LoadGame(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.FinalFEN != mate.FEN() || len(loaded.Moves) != 4 || loaded.Moves[3] != "d8h4" {
		t.Errorf("loaded %+v", loaded)
	}

	games, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 || games[0].ID != rec.ID || games[1].ID != draw.ID {
		t.Fatalf("ListGames returned %d games", len(games))
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 2 || stats.BlackWins != 1 || stats.Draws != 1 || stats.WinsByPlayer["engine"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LongestGame != 4 || stats.TotalPlies != 5 {
		t.Errorf("plies: longest %d total %d", stats.LongestGame, stats.TotalPlies)
	}
	for _, line := range stats.Summary() {
		t.Log(line)
	}
}

func TestSummaryIsSorted(t *testing.T) {
	stats := NewGameStats()
	stats.ByTermination["stalemate"] = 2
	stats.ByTermination["checkmate"] = 3
	stats.WinsByPlayer["random"] = 1
	stats.WinsByPlayer["engine"] = 2

	want := []string{"checkmate: 3", "stalemate: 2", "wins by engine: 2", "wins by random: 1"}
	got := stats.Summary()
	if len(got) != len(want) {
		t.Fatalf("Summary() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDeleteGame(t *testing.T) {
	s, err := Open("", InMemory())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	rec := NewGameRecord(game.NewGame(), board.StartFEN, "a", "b", time.Now())
	if err := s.RecordGame(rec); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteGame(rec.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame(rec.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LoadGame after delete: %v", err)
	}
	if err := s.DeleteGame(rec.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestGameIDsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	first := NewGameRecord(game.NewGame(), board.StartFEN, "a", "b", time.Now())
	if err := s.RecordGame(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	second := NewGameRecord(game.NewGame(), board.StartFEN, "a", "b", time.Now())
	if err := s.RecordGame(second); err != nil {
		t.Fatal(err)
	}
	if second.ID <= first.ID {
		t.Errorf("id %d reused after reopen (first was %d)", second.ID, first.ID)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(DataDirEnv, t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != os.Getenv(DataDirEnv) {
		t.Errorf("GetDataDir = %s, want %s", dataDir, os.Getenv(DataDirEnv))
	}

	for _, get := range []func() (string, error){GetDatabaseDir, GetDiagramDir} {
		dir, err := get()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("Directory was not created: %s", dir)
		}
		t.Logf("Directory: %s", dir)
	}
}
