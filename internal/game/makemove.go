package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// undo is everything Make cannot derive back from the move itself.
type undo struct {
	move      board.Move
	castling  board.CastlingRights
	enPassant board.Square
	halfMove  int
	fullMove  int
	state     board.State
	hash      uint64
	cache     cache
}

// Make applies m, which must be pseudo-legal for the side to move, and
// advances the turn. Every Make must be undone by Unmake with the same move
// before any earlier move is undone.
func (g *Game) Make(m board.Move) {
	pos := g.pos
	us := pos.SideToMove
	them := us.Other()

	piece := pos.PieceAt(m.From)
	if piece == board.NoPiece || piece.Color() != us {
		panic(fmt.Sprintf("game: make %s: no %s piece on %s", m, us, m.From))
	}

	g.history = append(g.history, undo{
		move:      m,
		castling:  pos.CastlingRights,
		enPassant: pos.EnPassant,
		halfMove:  pos.HalfMoveClock,
		fullMove:  pos.FullMoveNumber,
		state:     pos.State,
		hash:      pos.Hash,
		cache:     g.cache,
	})

	switch m.Kind {
	case board.Normal, board.DoublePush:
		relocate(pos, m.From, m.To)
	case board.Capture:
		pos.Remove(m.To)
		relocate(pos, m.From, m.To)
	case board.EnPassant:
		victim := m.To.Step(board.Forward(them))
		if pos.Remove(victim) != board.NewPiece(board.Pawn, them) {
			panic(fmt.Sprintf("game: make %s: no %s pawn on %s", m, them, victim))
		}
		relocate(pos, m.From, m.To)
	case board.Promotion:
		pos.Remove(m.To)
		pos.Remove(m.From)
		pos.Put(board.NewPiece(m.Promotion, us), m.To)
	case board.Castle:
		path := board.CastlePath(us, m.Castle)
		relocate(pos, path.KingFrom, path.KingTo)
		relocate(pos, path.RookFrom, path.RookTo)
	}

	pos.CastlingRights &^= board.RightsLost(m.From) | board.RightsLost(m.To)
	g.nextTurn(m, piece.Type())
}

// nextTurn finishes a Make: en passant target, clocks, side to move, cache
// refresh, then the repetition and fifty-move checks.
func (g *Game) nextTurn(m board.Move, moved board.PieceType) {
	pos := g.pos
	us := pos.SideToMove

	pos.EnPassant = board.NoSquare
	if m.Kind == board.DoublePush {
		pos.EnPassant = m.From.Step(board.Forward(us))
	}

	if moved == board.Pawn || m.IsCapture() {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}

	pos.SideToMove = us.Other()
	if pos.SideToMove == board.White {
		pos.FullMoveNumber++
	}
	g.refresh()

	pos.Seen[pos.Hash]++
	if pos.Seen[pos.Hash] >= 3 {
		pos.State = board.Repetition
	}
	if pos.HalfMoveClock >= FiftyMoveLimit {
		pos.State = board.Timeout
	}
}

// Unmake reverts the most recent Make, which must have been made with m.
func (g *Game) Unmake(m board.Move) {
	if len(g.history) == 0 {
		panic(fmt.Sprintf("game: unmake %s with empty history", m))
	}
	rec := g.history[len(g.history)-1]
	if rec.move != m {
		panic(fmt.Sprintf("game: unmake %s but last move was %s", m, rec.move))
	}
	g.history = g.history[:len(g.history)-1]

	pos := g.pos
	if n := pos.Seen[pos.Hash]; n <= 1 {
		delete(pos.Seen, pos.Hash)
	} else {
		pos.Seen[pos.Hash] = n - 1
	}

	us := pos.SideToMove.Other()
	them := pos.SideToMove

	switch m.Kind {
	case board.Normal, board.DoublePush:
		relocate(pos, m.To, m.From)
	case board.Capture:
		relocate(pos, m.To, m.From)
		pos.Put(board.NewPiece(m.Captured, them), m.To)
	case board.EnPassant:
		relocate(pos, m.To, m.From)
		pos.Put(board.NewPiece(board.Pawn, them), m.To.Step(board.Forward(them)))
	case board.Promotion:
		pos.Remove(m.To)
		pos.Put(board.NewPiece(board.Pawn, us), m.From)
		if m.IsCapture() {
			pos.Put(board.NewPiece(m.Captured, them), m.To)
		}
	case board.Castle:
		path := board.CastlePath(us, m.Castle)
		relocate(pos, path.RookTo, path.RookFrom)
		relocate(pos, path.KingTo, path.KingFrom)
	}

	pos.SideToMove = us
	pos.CastlingRights = rec.castling
	pos.EnPassant = rec.enPassant
	pos.HalfMoveClock = rec.halfMove
	pos.FullMoveNumber = rec.fullMove
	pos.State = rec.state
	pos.Hash = rec.hash
	g.cache = rec.cache
}

func relocate(pos *board.Position, from, to board.Square) {
	piece := pos.Remove(from)
	if piece == board.NoPiece {
		panic(fmt.Sprintf("game: no piece on %s", from))
	}
	pos.Put(piece, to)
}
