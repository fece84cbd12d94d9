// Package game wraps a board.Position with the attack cache that drives legal
// move generation, and implements Make/Unmake on top of it.
package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// FiftyMoveLimit is the half-move clock value at which the game is drawn.
// The clock counts plies, so 100 plies is fifty moves by each side.
const FiftyMoveLimit = 100

// cache holds everything derived from the piece masks. It is rebuilt by
// refresh after every Make and restored wholesale by Unmake.
type cache struct {
	occupied [2]board.Bitboard
	all      board.Bitboard

	// Indexed by the attacking color.
	attacks   [2]board.Bitboard
	checkRays [2]board.Bitboard // checker squares plus blocking squares
	pins      [2]board.Bitboard // pinning slider, the pinned piece and the squares between
	checks    [2]int            // number of pieces giving check to the other king
}

// Game is a position plus its attack cache and undo stack. It is not safe
// for concurrent use; Make and Unmake must be paired in LIFO order.
type Game struct {
	pos     *board.Position
	cache   cache
	history []undo
}

// New takes ownership of pos and builds its attack cache.
func New(pos *board.Position) *Game {
	if pos.Seen == nil {
		pos.Seen = make(map[uint64]int)
	}
	g := &Game{pos: pos}
	g.refresh()
	if pos.Seen[pos.Hash] == 0 {
		pos.Seen[pos.Hash] = 1
	}
	return g
}

// NewGame returns a game at the standard starting position.
func NewGame() *Game {
	return New(board.NewPosition())
}

// FromFEN parses fen and wraps the resulting position.
func FromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return New(pos), nil
}

// Clone returns an independent deep copy, undo stack included.
func (g *Game) Clone() *Game {
	return &Game{
		pos:     g.pos.Clone(),
		cache:   g.cache,
		history: append([]undo(nil), g.history...),
	}
}

// Position returns the underlying position. Callers must not mutate it.
func (g *Game) Position() *board.Position { return g.pos }

// SideToMove returns the color to move.
func (g *Game) SideToMove() board.Color { return g.pos.SideToMove }

// State returns the terminal state of the current position.
func (g *Game) State() board.State { return g.pos.State }

// Hash returns the Zobrist hash of the current position.
func (g *Game) Hash() uint64 { return g.pos.Hash }

// FEN returns the current position in FEN notation.
func (g *Game) FEN() string { return g.pos.FEN() }

func (g *Game) Occupied(c board.Color) board.Bitboard  { return g.cache.occupied[c] }
func (g *Game) Attacks(c board.Color) board.Bitboard   { return g.cache.attacks[c] }
func (g *Game) CheckRays(c board.Color) board.Bitboard { return g.cache.checkRays[c] }
func (g *Game) Pins(c board.Color) board.Bitboard      { return g.cache.pins[c] }

// Checks returns how many of c's pieces attack the enemy king.
func (g *Game) Checks(c board.Color) int { return g.cache.checks[c] }

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.cache.checks[g.pos.SideToMove.Other()] > 0
}

// History returns the moves made so far, oldest first.
func (g *Game) History() []board.Move {
	moves := make([]board.Move, len(g.history))
	for i, rec := range g.history {
		moves[i] = rec.move
	}
	return moves
}

// refresh recomputes occupancy, the hash and all attack data.
func (g *Game) refresh() {
	c := &g.cache
	c.occupied[board.White] = g.pos.Occupancy(board.White)
	c.occupied[board.Black] = g.pos.Occupancy(board.Black)
	c.all = c.occupied[board.White] | c.occupied[board.Black]
	g.pos.Hash = g.pos.ComputeHash()
	g.updateAttacks()
}

func (g *Game) updateAttacks() {
	c := &g.cache
	for color := board.White; color <= board.Black; color++ {
		c.attacks[color] = board.Empty
		c.checkRays[color] = board.Empty
		c.pins[color] = board.Empty
		c.checks[color] = 0

		enemyKing := g.pos.Pieces[color.Other()][board.King]
		for pt := board.Pawn; pt <= board.King; pt++ {
			for sq := range g.pos.Pieces[color][pt].All() {
				info := g.moveInfo(sq, pt, color)
				c.attacks[color] |= info.Attacks
				c.checkRays[color] |= info.CheckRay
				c.pins[color] |= info.Pin
				if info.Attacks&enemyKing != 0 {
					c.checks[color]++
				}
			}
		}
	}
}

// NumAttackers returns how many pieces of color by attack sq.
func (g *Game) NumAttackers(sq board.Square, by board.Color) int {
	n := 0
	for pt := board.Pawn; pt <= board.King; pt++ {
		for from := range g.pos.Pieces[by][pt].All() {
			if g.moveInfo(from, pt, by).Attacks.IsSet(sq) {
				n++
			}
		}
	}
	return n
}

// String returns the board diagram followed by the attack summary.
func (g *Game) String() string {
	us := g.pos.SideToMove
	return g.pos.String() + fmt.Sprintf("Checks against %s: %d\n", us, g.cache.checks[us.Other()])
}
