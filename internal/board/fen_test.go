package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		"2r5/8/8/8/8/8/5k2/7K w - - 0 1",
		"4k3/8/8/8/8/8/1NNN1KN1/8 w - - 49 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.FEN(); got != fen {
				t.Errorf("FEN() = %q, want %q", got, fen)
			}
			if pos.Seen[pos.Hash] != 1 {
				t.Errorf("initial position should be seen once, got %d", pos.Seen[pos.Hash])
			}
		})
	}
}

func TestParseFENDefaults(t *testing.T) {
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")
	if err != nil {
		t.Fatal(err)
	}
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("clocks = %d/%d, want 0/1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppzppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1",
		"Pnbqkbnr/pppppppp/8/8/8/8/1PPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		// En passant targets without a pawn that just double-pushed.
		"4k3/8/8/8/3p4/8/8/4K3 b - e3 0 1",
		"4k3/8/8/8/3pp3/8/8/4K3 b - e3 0 1",
		"4k3/8/8/8/3pP3/4N3/8/4K3 b - e3 0 1",
		"4k3/8/8/8/3pP3/8/4P3/4K3 b - e3 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - e6 0 1",
	}

	for _, fen := range bad {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if !errors.Is(err, ErrInvalidFEN) {
				t.Fatalf("ParseFEN error = %v, want ErrInvalidFEN", err)
			}
			if pos != nil {
				t.Error("expected nil position on error")
			}
		})
	}
}

func TestHashIsPureFunctionOfPosition(t *testing.T) {
	a, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	b, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 5 9")
	c, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	d, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1")

	if a.Hash != b.Hash {
		t.Error("move clocks must not affect the hash")
	}
	if a.Hash == c.Hash {
		t.Error("en passant target must affect the hash")
	}
	if c.Hash == d.Hash {
		t.Error("side to move must affect the hash")
	}
}

func TestCloneCopiesSeen(t *testing.T) {
	pos := NewPosition()
	clone := pos.Clone()
	clone.Seen[42] = 7

	if _, ok := pos.Seen[42]; ok {
		t.Error("Clone shares the repetition map with the original")
	}
}

func TestPutOnOccupiedSquarePanics(t *testing.T) {
	pos := NewPosition()
	defer func() {
		if recover() == nil {
			t.Error("Put on e2 did not panic")
		}
		if pos.PieceAt(E2) != WhitePawn {
			t.Errorf("e2 holds %s", pos.PieceAt(E2))
		}
	}()
	pos.Put(WhiteKnight, E2)
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KN2 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/3BKN2 w - - 0 1", false},
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
	}
	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := pos.InsufficientMaterial(); got != tc.want {
			t.Errorf("%s: InsufficientMaterial() = %v, want %v", tc.fen, got, tc.want)
		}
	}
}
