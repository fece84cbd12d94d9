package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// PseudoLegalMoves returns every move the side to move could make ignoring
// king safety. Castling paths must still be empty.
func (g *Game) PseudoLegalMoves() []board.Move {
	us := g.pos.SideToMove
	moves := make([]board.Move, 0, 64)
	for pt := board.Pawn; pt <= board.King; pt++ {
		for sq := range g.pos.Pieces[us][pt].All() {
			moves = g.pseudoLegal(moves, sq, pt, us)
		}
	}
	return moves
}

// GenerateLegalMoves returns the legal moves for the side to move. An empty
// result sets the state to Checkmate or Stalemate. A position that is
// already decided has no legal moves.
func (g *Game) GenerateLegalMoves() []board.Move {
	if g.pos.State != board.InProgress {
		return nil
	}

	pseudo := g.PseudoLegalMoves()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if g.isLegal(m) {
			legal = append(legal, m)
		}
	}

	if len(legal) == 0 {
		if g.InCheck() {
			g.pos.State = board.Checkmate
		} else {
			g.pos.State = board.Stalemate
		}
	}
	return legal
}

// isLegal filters a pseudo-legal move of the side to move.
func (g *Game) isLegal(m board.Move) bool {
	us := g.pos.SideToMove
	them := us.Other()
	checks := g.cache.checks[them]
	ksq := g.pos.KingSquare(us)

	switch {
	case m.Kind == board.Castle:
		path := board.CastlePath(us, m.Castle)
		return checks == 0 && path.Transit&g.cache.attacks[them] == 0
	case m.From == ksq:
		return !g.cache.attacks[them].IsSet(m.To)
	case checks >= 2:
		return false
	case m.Kind == board.EnPassant:
		// A capture that empties two squares of one rank can expose the
		// king sideways, so try it.
		g.Make(m)
		safe := g.cache.checks[them] == 0
		g.Unmake(m)
		return safe
	}

	if g.cache.pins[them].IsSet(m.From) && !board.Aligned(m.From, m.To, ksq) {
		return false
	}
	if checks == 1 {
		return g.cache.checkRays[them].IsSet(m.To)
	}
	return true
}

// IsLegal reports whether m is among the legal moves of the position.
func (g *Game) IsLegal(m board.Move) bool {
	for _, legal := range g.GenerateLegalMoves() {
		if legal == m {
			return true
		}
	}
	return false
}

// Play makes m after checking it is legal. It is the entry point for moves
// coming from outside the engine.
func (g *Game) Play(m board.Move) error {
	if g.pos.State != board.InProgress {
		return fmt.Errorf("%w: game is over (%s)", board.ErrInvalidMove, g.pos.State)
	}
	if !g.IsLegal(m) {
		return fmt.Errorf("%w: %s is not legal here", board.ErrInvalidMove, m)
	}
	g.Make(m)
	return nil
}

// PlayString parses coordinate notation and plays the move.
func (g *Game) PlayString(s string) (board.Move, error) {
	m, err := board.ParseMove(s, g.pos)
	if err != nil {
		return board.NoMove, err
	}
	if err := g.Play(m); err != nil {
		return board.NoMove, err
	}
	return m, nil
}
