package game

import (
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// Perft counts the leaf nodes of the legal move tree at the given depth.
func (g *Game) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := g.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		g.Make(m)
		nodes += g.Perft(depth - 1)
		g.Unmake(m)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes int64
}

// Divide runs perft below each root move, sorted by move text. Depth 0 has
// no root moves to divide and returns nil.
func (g *Game) Divide(depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}
	moves := g.GenerateLegalMoves()
	entries := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		g.Make(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: g.Perft(depth - 1)})
		g.Unmake(m)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries
}
