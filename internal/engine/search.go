package engine

import (
	"math"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// Search constants
const (
	MateScore = 10000.0
	Infinity  = math.MaxFloat64
)

// orderMoves returns promotions first, then captures, then castles, then
// everything else. Order within each group is kept.
func orderMoves(moves []board.Move) []board.Move {
	sorted := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if m.Kind == board.Promotion {
			sorted = append(sorted, m)
		}
	}
	for _, m := range moves {
		if m.Kind == board.Capture || m.Kind == board.EnPassant {
			sorted = append(sorted, m)
		}
	}
	for _, m := range moves {
		if m.Kind == board.Castle {
			sorted = append(sorted, m)
		}
	}
	for _, m := range moves {
		switch m.Kind {
		case board.Promotion, board.Capture, board.EnPassant, board.Castle:
		default:
			sorted = append(sorted, m)
		}
	}
	return sorted
}

// Grade scores the current position of g from White's point of view.
// Finished games score directly: checkmate is -MateScore when White is mated
// and +MateScore when Black is, every draw is 0. Those scores depend on the
// game's history and are never stored. Other positions are evaluated once
// per hash and memoized.
func (e *Engine) Grade(g *game.Game) float64 {
	switch g.State() {
	case board.Checkmate:
		if g.SideToMove() == board.White {
			return -MateScore
		}
		return MateScore
	case board.Stalemate, board.Repetition, board.Timeout:
		return 0
	}

	pos := g.Position()
	var sig uint64
	if e.tt.Verifies() {
		sig = Signature(pos)
	}
	if score, ok := e.tt.Probe(pos.Hash, sig); ok {
		return score
	}

	score := Evaluate(pos)
	e.tt.Store(pos.Hash, sig, score)
	return score
}

// maxi searches a node where White is to move.
func (e *Engine) maxi(g *game.Game, alpha, beta float64, depth int) float64 {
	if depth == 0 {
		return e.Grade(g)
	}

	moves := g.GenerateLegalMoves()
	if len(moves) == 0 {
		return e.Grade(g)
	}

	best := -Infinity
	for _, m := range orderMoves(moves) {
		g.Make(m)
		e.nodes++
		score := e.mini(g, alpha, beta, depth-1)
		g.Unmake(m)

		if score > best {
			best = score
			if score > alpha {
				alpha = score
			}
		}
		if score >= beta {
			break
		}
	}
	return best
}

// mini searches a node where Black is to move.
func (e *Engine) mini(g *game.Game, alpha, beta float64, depth int) float64 {
	if depth == 0 {
		return e.Grade(g)
	}

	moves := g.GenerateLegalMoves()
	if len(moves) == 0 {
		return e.Grade(g)
	}

	best := Infinity
	for _, m := range orderMoves(moves) {
		g.Make(m)
		e.nodes++
		score := e.maxi(g, alpha, beta, depth-1)
		g.Unmake(m)

		if score < best {
			best = score
			if score < beta {
				beta = score
			}
		}
		if score <= alpha {
			break
		}
	}
	return best
}

// searchRoot tries every legal move of g and keeps the strictly best one for
// the side to move; the first of equal moves wins.
func (e *Engine) searchRoot(g *game.Game, depth int) (board.Move, float64, bool) {
	moves := g.GenerateLegalMoves()
	if len(moves) == 0 {
		return board.NoMove, e.Grade(g), false
	}

	white := g.SideToMove() == board.White
	best := board.NoMove
	bestScore := Infinity
	if white {
		bestScore = -Infinity
	}

	for _, m := range orderMoves(moves) {
		g.Make(m)
		e.nodes++
		var score float64
		if white {
			score = e.mini(g, -Infinity, Infinity, depth)
		} else {
			score = e.maxi(g, -Infinity, Infinity, depth)
		}
		g.Unmake(m)

		if best == board.NoMove || (white && score > bestScore) || (!white && score < bestScore) {
			best = m
			bestScore = score
		}
	}
	return best, bestScore, true
}
