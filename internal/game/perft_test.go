package game

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func mustFEN(t testing.TB, fen string) *Game {
	t.Helper()
	g, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}
	return g
}

// None of these positions reach a promotion within the tested depths, so the
// published counts apply even though only queen promotions are generated.
func TestPerft(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected []int64 // indexed by depth-1
	}{
		{
			name:     "starting position",
			fen:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			expected: []int64{20, 400, 8902, 197281},
		},
		{
			// Kiwipete: castling, pins and en passant all in one position.
			name:     "kiwipete",
			fen:      "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
			expected: []int64{48, 2039, 97862},
		},
		{
			name:     "position 3",
			fen:      "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
			expected: []int64{14, 191, 2812, 43238},
		},
		{
			// Black's e4xd3 en passant would expose the king on a4 to the rook on h4.
			name:     "en passant horizontal pin",
			fen:      "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
			expected: []int64{6, 94},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			before := g.FEN()
			for i, want := range tc.expected {
				depth := i + 1
				if got := g.Perft(depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
			if g.FEN() != before {
				t.Errorf("perft left the position changed: %s", g.FEN())
			}
		})
	}
}

func TestEnPassantPinnedCaptureIsIllegal(t *testing.T) {
	g := mustFEN(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	for _, m := range g.GenerateLegalMoves() {
		if m.Kind == board.EnPassant {
			t.Errorf("En passant move %v should be illegal (horizontal pin)", m)
		}
	}
}

func TestDivideMatchesPerft(t *testing.T) {
	g := NewGame()
	var total int64
	for _, e := range g.Divide(3) {
		total += e.Nodes
	}
	if total != 8902 {
		t.Errorf("divide total = %d, want 8902", total)
	}
}

func TestDivideAtDepthZero(t *testing.T) {
	g := NewGame()
	if entries := g.Divide(0); entries != nil {
		t.Errorf("Divide(0) = %v, want nil", entries)
	}
	if n := g.Perft(0); n != 1 {
		t.Errorf("Perft(0) = %d, want 1", n)
	}
	entries := g.Divide(1)
	if len(entries) != 20 {
		t.Fatalf("Divide(1) returned %d moves, want 20", len(entries))
	}
	for _, e := range entries {
		if e.Nodes != 1 {
			t.Errorf("%s: %d nodes, want 1", e.Move, e.Nodes)
		}
	}
}

func BenchmarkPerftStart(b *testing.B) {
	g := NewGame()
	for i := 0; i < b.N; i++ {
		g.Perft(3)
	}
}

func BenchmarkGenerateLegalMovesKiwipete(b *testing.B) {
	g := mustFEN(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	for i := 0; i < b.N; i++ {
		g.GenerateLegalMoves()
	}
}
