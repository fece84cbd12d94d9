package diagram

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

func near(a, b color.Color, tolerance uint32) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	diff := func(x, y uint32) uint32 {
		x, y = x>>8, y>>8
		if x > y {
			return x - y
		}
		return y - x
	}
	return diff(ar, br) <= tolerance && diff(ag, bg) <= tolerance && diff(ab, bb) <= tolerance
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, game.NewGame().Position(), Options{Coordinates: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if n := strings.Count(out, "<circle"); n != 32 {
		t.Errorf("%d pieces drawn, want 32", n)
	}
	if n := strings.Count(out, ">K</text>"); n != 2 {
		t.Errorf("%d kings labelled, want 2", n)
	}
	if n := strings.Count(out, "<rect"); n != 64 {
		t.Errorf("%d rects, want 64 squares and no highlights", n)
	}
	if !strings.Contains(out, "<title>"+board.StartFEN+"</title>") {
		t.Error("missing FEN title")
	}
	for _, label := range []string{">a</text>", ">h</text>", ">1</text>", ">8</text>"} {
		if !strings.Contains(out, label) {
			t.Errorf("missing coordinate %s", label)
		}
	}
}

func TestForGameHighlights(t *testing.T) {
	g := game.NewGame()
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if _, err := g.PlayString(m); err != nil {
			t.Fatal(err)
		}
	}
	opts := ForGame(g, Options{})
	if opts.LastMove.String() != "d8h4" || !opts.Check {
		t.Fatalf("ForGame = last %s, check %v", opts.LastMove, opts.Check)
	}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, g.Position(), opts); err != nil {
		t.Fatal(err)
	}
	// Two last-move squares and the checked king.
	if n := strings.Count(buf.String(), "<rect"); n != 64+3 {
		t.Errorf("%d rects, want 67", n)
	}

	if opts = ForGame(game.NewGame(), Options{}); opts.LastMove != board.NoMove || opts.Check {
		t.Errorf("new game: last %s, check %v", opts.LastMove, opts.Check)
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		sq   string
		flip bool
		x, y int
	}{
		{"a1", false, 0, 7 * DefaultSquareSize},
		{"h8", false, 7 * DefaultSquareSize, 0},
		{"e4", false, 4 * DefaultSquareSize, 4 * DefaultSquareSize},
		{"a1", true, 7 * DefaultSquareSize, 0},
		{"h8", true, 0, 7 * DefaultSquareSize},
	}
	for _, tc := range tests {
		sq, err := board.ParseSquare(tc.sq)
		if err != nil {
			t.Fatal(err)
		}
		o := Options{Flip: tc.flip}.withDefaults()
		if x, y := o.origin(sq); x != tc.x || y != tc.y {
			t.Errorf("origin(%s, flip=%v) = %d,%d want %d,%d", tc.sq, tc.flip, x, y, tc.x, tc.y)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	const size = 40
	var buf bytes.Buffer
	if err := RenderPNG(&buf, game.NewGame().Position(), Options{SquareSize: size, Coordinates: true}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8*size || b.Dy() != 8*size {
		t.Fatalf("bounds = %v", b)
	}

	theme := DefaultTheme()
	// e4 is an empty light square, d4 an empty dark one.
	if c := img.At(4*size+size/2, 4*size+size/2); !near(c, theme.LightSquare, 2) {
		t.Errorf("e4 = %v, want %v", c, theme.LightSquare)
	}
	if c := img.At(3*size+size/2, 4*size+size/2); !near(c, theme.DarkSquare, 2) {
		t.Errorf("d4 = %v, want %v", c, theme.DarkSquare)
	}
	// Inside the white king's disc, above its letter.
	if c := img.At(4*size+size/2, 7*size+size/2-size*28/100); !near(c, theme.WhitePiece, 25) {
		t.Errorf("white king disc = %v", c)
	}
	if c := img.At(4*size+size/2, size/2-size*28/100); !near(c, theme.BlackPiece, 25) {
		t.Errorf("black king disc = %v", c)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	pos := game.NewGame().Position()

	for _, name := range []string{"start.svg", "start.png"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, pos, Options{}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		t.Logf("%s: %d bytes", name, info.Size())
	}
	if err := WriteFile(filepath.Join(dir, "start.gif"), pos, Options{}); err == nil {
		t.Error("expected an error for .gif")
	}
}

func BenchmarkRender(b *testing.B) {
	pos := game.NewGame().Position()
	for b.Loop() {
		if _, err := Render(pos, Options{Coordinates: true}); err != nil {
			b.Fatal(err)
		}
	}
}
