package board

import (
	"errors"
	"testing"
)

func TestParseMoveInfersKind(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		move     string
		kind     MoveKind
		captured PieceType
	}{
		{"quiet", StartFEN, "g1f3", Normal, NoPieceType},
		{"double push", StartFEN, "e2e4", DoublePush, NoPieceType},
		{"capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", Capture, Pawn},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", EnPassant, Pawn},
		{"promotion", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", Promotion, NoPieceType},
		{"promotion capture", "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7b8q", Promotion, Rook},
		{"castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", Castle, NoPieceType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			m, err := ParseMove(tc.move, pos)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tc.move, err)
			}
			if m.Kind != tc.kind || m.Captured != tc.captured {
				t.Errorf("got kind %s captured %s, want %s %s", m.Kind, m.Captured, tc.kind, tc.captured)
			}
			if m.String() != tc.move {
				t.Errorf("String() = %q, want %q", m.String(), tc.move)
			}
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	promo, _ := ParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	start := NewPosition()

	tests := []struct {
		name string
		pos  *Position
		move string
	}{
		{"too short", start, "e2e"},
		{"bad square", start, "e2e9"},
		{"empty origin", start, "e3e4"},
		{"wrong side", start, "e7e5"},
		{"own piece", start, "d1d2"},
		{"under-promotion", promo, "a7a8n"},
		{"suffix on non-promotion", start, "e2e4q"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.pos.FEN()
			if _, err := ParseMove(tc.move, tc.pos); !errors.Is(err, ErrInvalidMove) {
				t.Errorf("ParseMove(%q) error = %v, want ErrInvalidMove", tc.move, err)
			}
			if tc.pos.FEN() != before {
				t.Error("ParseMove modified the position")
			}
		})
	}
}

func TestMoveEquality(t *testing.T) {
	a := NewCapture(E4, D5, Pawn)
	b := NewCapture(E4, D5, Pawn)
	c := NewCapture(E4, D5, Knight)

	if a != b {
		t.Error("identical moves should compare equal")
	}
	if a == c {
		t.Error("moves with different payloads should differ")
	}
	if NoMove.String() != "0000" {
		t.Errorf("NoMove.String() = %q", NoMove.String())
	}
}
