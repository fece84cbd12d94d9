package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

func run(t *testing.T, script string) (*UCI, string) {
	t.Helper()
	eng, err := engine.New(engine.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	u := New(eng, WithIO(strings.NewReader(script), &out))
	t.Cleanup(func() { u.Engine().Close() })
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return u, out.String()
}

func TestHandshake(t *testing.T) {
	_, out := run(t, "uci\nisready\nquit\n")
	for _, want := range []string{"id name ChessCore", "option name Depth", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name   string
		script string
		fen    string
	}{
		{
			name:   "startpos",
			script: "position startpos\n",
			fen:    board.StartFEN,
		},
		{
			name:   "startpos with moves",
			script: "position startpos moves e2e4 e7e5 g1f3\n",
			fen:    "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
		},
		{
			name:   "fen",
			script: "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1\n",
			fen:    "4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		},
		{
			name:   "fen with moves",
			script: "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1 moves e1g1\n",
			fen:    "4k3/8/8/8/8/8/8/5RK1 b - - 1 1",
		},
		{
			name:   "illegal move keeps the old game",
			script: "position startpos moves e2e4\nposition startpos moves e2e5\n",
			fen:    "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			name:   "bad fen keeps the old game",
			script: "position fen 8/8/8 w - - 0 1\n",
			fen:    board.StartFEN,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, out := run(t, tc.script)
			if got := u.Game().FEN(); got != tc.fen {
				t.Errorf("FEN = %s, want %s\n%s", got, tc.fen, out)
			}
		})
	}
}

func TestGo(t *testing.T) {
	_, out := run(t, "position fen rnb1kbnr/pppp1ppp/8/4p1q1/3PP3/8/PPP2PPP/RNBQKBNR w KQkq - 1 3\ngo depth 3\n")
	t.Log(out)
	if !strings.Contains(out, "info depth 3 score cp ") {
		t.Errorf("missing info line:\n%s", out)
	}
	if !strings.Contains(out, "bestmove c1g5") {
		t.Errorf("expected bestmove c1g5:\n%s", out)
	}
}

func TestGoWithoutMoves(t *testing.T) {
	_, out := run(t, "position fen R6k/6pp/8/8/8/8/8/K7 b - - 0 1\ngo wtime 1000 btime 1000\n")
	if !strings.Contains(out, "bestmove 0000") {
		t.Errorf("expected bestmove 0000:\n%s", out)
	}
}

func TestSetOption(t *testing.T) {
	u, out := run(t, strings.Join([]string{
		"setoption name Depth value 1",
		"setoption name TableCapacity value 2048",
		"setoption name VerifyHits value false",
		"setoption name Depth value -3",
		"setoption name Nonsense value 1",
	}, "\n"))

	cfg := u.Engine().Config()
	if cfg.Depth != 1 || cfg.TableCapacity != 2048 || cfg.VerifyHits {
		t.Errorf("config = %+v", cfg)
	}
	if !strings.Contains(out, "Invalid depth: -3") || !strings.Contains(out, "Unknown option: Nonsense") {
		t.Errorf("missing diagnostics:\n%s", out)
	}
}

func TestPerft(t *testing.T) {
	_, out := run(t, "position startpos\nperft 3\nperft divide 2\n")
	if !strings.Contains(out, "Nodes: 8902") {
		t.Errorf("perft 3:\n%s", out)
	}
	if !strings.Contains(out, "e2e4: 20") || !strings.Contains(out, "Nodes: 400") {
		t.Errorf("perft divide 2:\n%s", out)
	}
}

func TestPerftDivideZero(t *testing.T) {
	_, out := run(t, "position startpos\nperft divide 0\n")
	if !strings.Contains(out, "Nodes: 1\n") || strings.Contains(out, "e2e4:") {
		t.Errorf("perft divide 0:\n%s", out)
	}
}

func TestDisplay(t *testing.T) {
	_, out := run(t, "position startpos moves e2e4\nd\n")
	if !strings.Contains(out, "Fen: rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1") {
		t.Errorf("d output:\n%s", out)
	}
}
