// Package diagram draws board positions as SVG documents and PNG images.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// DefaultSquareSize is the edge of one square in pixels.
const DefaultSquareSize = 45

// Theme defines the diagram color scheme.
type Theme struct {
	LightSquare color.RGBA
	DarkSquare  color.RGBA
	LastMove    color.RGBA
	Check       color.RGBA
	WhitePiece  color.RGBA
	BlackPiece  color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() Theme {
	return Theme{
		LightSquare: color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:  color.RGBA{181, 136, 99, 255},  // Brown
		LastMove:    color.RGBA{205, 210, 106, 160},
		Check:       color.RGBA{255, 100, 100, 180},
		WhitePiece:  color.RGBA{255, 255, 255, 255},
		BlackPiece:  color.RGBA{32, 32, 32, 255},
	}
}

// Options controls how a position is drawn.
type Options struct {
	SquareSize  int  // defaults to DefaultSquareSize
	Flip        bool // draw from Black's side
	Coordinates bool
	LastMove    board.Move // highlighted when not NoMove
	Check       bool       // highlight the king of the side to move
	Theme       *Theme     // nil uses DefaultTheme
}

// ForGame returns opts with the last move and check highlights taken from g.
func ForGame(g *game.Game, opts Options) Options {
	opts.LastMove = board.NoMove
	if history := g.History(); len(history) > 0 {
		opts.LastMove = history[len(history)-1]
	}
	opts.Check = g.InCheck()
	return opts
}

func (o Options) withDefaults() Options {
	if o.SquareSize <= 0 {
		o.SquareSize = DefaultSquareSize
	}
	if o.Theme == nil {
		theme := DefaultTheme()
		o.Theme = &theme
	}
	if o.LastMove == (board.Move{}) {
		o.LastMove = board.NoMove
	}
	return o
}

// origin returns the top-left pixel of sq.
func (o Options) origin(sq board.Square) (x, y int) {
	col, row := sq.File(), 7-sq.Rank()
	if o.Flip {
		col, row = 7-col, 7-row
	}
	return col * o.SquareSize, row * o.SquareSize
}

func (o Options) center(sq board.Square) (x, y int) {
	x, y = o.origin(sq)
	return x + o.SquareSize/2, y + o.SquareSize/2
}

func (o Options) squareColor(sq board.Square) color.RGBA {
	if (sq.File()+sq.Rank())%2 == 0 {
		return o.Theme.DarkSquare
	}
	return o.Theme.LightSquare
}

// pieceColors returns fill and outline for pieces of color c.
func (o Options) pieceColors(c board.Color) (fill, outline color.RGBA) {
	if c == board.White {
		return o.Theme.WhitePiece, o.Theme.BlackPiece
	}
	return o.Theme.BlackPiece, o.Theme.WhitePiece
}

func (o Options) highlights(pos *board.Position) map[board.Square]color.RGBA {
	marks := make(map[board.Square]color.RGBA, 3)
	if o.LastMove != board.NoMove {
		marks[o.LastMove.From] = o.Theme.LastMove
		marks[o.LastMove.To] = o.Theme.LastMove
	}
	if o.Check {
		if king := pos.KingSquare(pos.SideToMove); king != board.NoSquare {
			marks[king] = o.Theme.Check
		}
	}
	return marks
}

// edges reports whether sq carries the file letter and rank digit.
func (o Options) edges(sq board.Square) (fileLabel, rankLabel bool) {
	if o.Flip {
		return sq.Rank() == 7, sq.File() == 7
	}
	return sq.Rank() == 0, sq.File() == 0
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func fillStyle(c color.RGBA) string {
	if c.A == 255 {
		return "fill:" + hex(c)
	}
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f", hex(c), float64(c.A)/255)
}

func pieceLabel(p board.Piece) string {
	return strings.ToUpper(string(p.Type().Char()))
}

// WriteSVG writes pos to w as an SVG document.
func WriteSVG(w io.Writer, pos *board.Position, opts Options) error {
	var buf bytes.Buffer
	drawSVG(&buf, pos, opts.withDefaults(), true)
	_, err := w.Write(buf.Bytes())
	return err
}

// drawSVG renders the board. Text is only emitted when labels is set; the
// rasterizer draws its own labels.
func drawSVG(w io.Writer, pos *board.Position, o Options, labels bool) {
	size := 8 * o.SquareSize
	canvas := svg.New(w)
	canvas.Start(size, size)
	canvas.Title(pos.FEN())

	canvas.Gid("squares")
	for sq := board.Square(0); sq < 64; sq++ {
		x, y := o.origin(sq)
		canvas.Rect(x, y, o.SquareSize, o.SquareSize, fillStyle(o.squareColor(sq)))
	}
	canvas.Gend()

	if marks := o.highlights(pos); len(marks) > 0 {
		canvas.Gid("highlights")
		for sq := board.Square(0); sq < 64; sq++ {
			if c, ok := marks[sq]; ok {
				x, y := o.origin(sq)
				canvas.Rect(x, y, o.SquareSize, o.SquareSize, fillStyle(c))
			}
		}
		canvas.Gend()
	}

	if labels && o.Coordinates {
		canvas.Gid("coordinates")
		fontSize := o.SquareSize * 2 / 9
		for sq := board.Square(0); sq < 64; sq++ {
			fileLabel, rankLabel := o.edges(sq)
			x, y := o.origin(sq)
			ink := fillStyle(o.squareColor(sq ^ 1))
			if fileLabel {
				canvas.Text(x+o.SquareSize-2, y+o.SquareSize-3, sq.String()[:1],
					fmt.Sprintf("text-anchor:end;font-family:sans-serif;font-size:%dpx;%s", fontSize, ink))
			}
			if rankLabel {
				canvas.Text(x+2, y+fontSize+1, sq.String()[1:],
					fmt.Sprintf("font-family:sans-serif;font-size:%dpx;%s", fontSize, ink))
			}
		}
		canvas.Gend()
	}

	radius := o.SquareSize * 38 / 100
	stroke := max(1, o.SquareSize/22)
	fontSize := o.SquareSize * 45 / 100
	canvas.Gid("pieces")
	for sq := board.Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		cx, cy := o.center(sq)
		fill, outline := o.pieceColors(p.Color())
		canvas.Circle(cx, cy, radius,
			fmt.Sprintf("%s;stroke:%s;stroke-width:%d", fillStyle(fill), hex(outline), stroke))
		if labels {
			canvas.Text(cx, cy+fontSize*35/100, pieceLabel(p),
				fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-weight:bold;font-size:%dpx;%s",
					fontSize, fillStyle(outline)))
		}
	}
	canvas.Gend()
	canvas.End()
}

var (
	regularFont, boldFont *opentype.Font
	fontErr               error
)

func init() {
	regularFont, fontErr = opentype.Parse(goregular.TTF)
	if fontErr == nil {
		boldFont, fontErr = opentype.Parse(gobold.TTF)
	}
}

// Render rasterizes pos into an RGBA image of 8*SquareSize pixels a side.
func Render(pos *board.Position, opts Options) (*image.RGBA, error) {
	o := opts.withDefaults()
	if fontErr != nil {
		return nil, fmt.Errorf("diagram: load fonts: %w", fontErr)
	}

	var buf bytes.Buffer
	drawSVG(&buf, pos, o, false)
	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("diagram: parse svg: %w", err)
	}

	size := 8 * o.SquareSize
	icon.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	if err := drawLabels(rgba, pos, o); err != nil {
		return nil, err
	}
	return rgba, nil
}

func drawLabels(dst *image.RGBA, pos *board.Position, o Options) error {
	pieceFace, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    float64(o.SquareSize) * 0.45,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("diagram: piece face: %w", err)
	}
	defer pieceFace.Close()

	for sq := board.Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		_, outline := o.pieceColors(p.Color())
		cx, cy := o.center(sq)
		drawCentered(dst, pieceFace, outline, pieceLabel(p), cx, cy)
	}

	if !o.Coordinates {
		return nil
	}
	coordFace, err := opentype.NewFace(regularFont, &opentype.FaceOptions{
		Size:    float64(o.SquareSize) * 2 / 9,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("diagram: coordinate face: %w", err)
	}
	defer coordFace.Close()

	capHeight := coordFace.Metrics().CapHeight
	for sq := board.Square(0); sq < 64; sq++ {
		fileLabel, rankLabel := o.edges(sq)
		x, y := o.origin(sq)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(o.squareColor(sq ^ 1)), Face: coordFace}
		if fileLabel {
			label := sq.String()[:1]
			d.Dot = fixed.Point26_6{
				X: fixed.I(x+o.SquareSize-2) - d.MeasureString(label),
				Y: fixed.I(y + o.SquareSize - 3),
			}
			d.DrawString(label)
		}
		if rankLabel {
			d.Dot = fixed.Point26_6{X: fixed.I(x + 2), Y: fixed.I(y+2) + capHeight}
			d.DrawString(sq.String()[1:])
		}
	}
	return nil
}

// drawCentered draws s so that its cap height is centered on (cx, cy).
func drawCentered(dst *image.RGBA, face font.Face, c color.RGBA, s string, cx, cy int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	d.Dot = fixed.Point26_6{
		X: fixed.I(cx) - d.MeasureString(s)/2,
		Y: fixed.I(cy) + face.Metrics().CapHeight/2,
	}
	d.DrawString(s)
}

// RenderPNG writes pos to w as a PNG image.
func RenderPNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Render(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteFile writes pos to path, choosing SVG or PNG from the extension.
func WriteFile(path string, pos *board.Position, opts Options) error {
	var render func(io.Writer, *board.Position, Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		render = WriteSVG
	case ".png":
		render = RenderPNG
	default:
		return fmt.Errorf("diagram: unsupported format %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f, pos, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
