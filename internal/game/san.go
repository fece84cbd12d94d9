package game

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// SAN returns m in Standard Algebraic Notation. m must be legal.
func (g *Game) SAN(m board.Move) string {
	if m == board.NoMove {
		return "-"
	}
	if m.Kind == board.Castle {
		return m.Castle.String() + g.checkSuffix(m)
	}

	piece := g.pos.PieceAt(m.From)
	if piece == board.NoPiece {
		return m.String()
	}
	pt := piece.Type()

	var sb strings.Builder
	if pt != board.Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(g.disambiguation(m, pt))
	}
	if m.IsCapture() {
		if pt == board.Pawn {
			sb.WriteByte(byte('a' + m.From.File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Kind == board.Promotion {
		sb.WriteString("=Q")
	}
	sb.WriteString(g.checkSuffix(m))
	return sb.String()
}

func (g *Game) checkSuffix(m board.Move) string {
	g.Make(m)
	defer g.Unmake(m)

	if !g.InCheck() {
		return ""
	}
	if len(g.GenerateLegalMoves()) == 0 && g.pos.State == board.Checkmate {
		return "#"
	}
	return "+"
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other legal moves of the same piece type to the same square.
func (g *Game) disambiguation(m board.Move, pt board.PieceType) string {
	pieces := g.pos.Pieces[g.pos.SideToMove][pt]
	moves := g.GenerateLegalMoves()

	sameFile, sameRank, ambiguous := false, false, false
	for _, other := range moves {
		if other.To != m.To || other.From == m.From || !pieces.IsSet(other.From) {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// ParseSAN finds the legal move written as s in Standard Algebraic Notation.
func (g *Game) ParseSAN(s string) (board.Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")

	moves := g.GenerateLegalMoves()
	switch s {
	case "O-O", "0-0":
		return findMove(moves, orig, func(m board.Move) bool { return m.Castle == board.KingSide })
	case "O-O-O", "0-0-0":
		return findMove(moves, orig, func(m board.Move) bool { return m.Castle == board.QueenSide })
	}

	promotion := false
	if i := strings.IndexByte(s, '='); i >= 0 {
		if s[i+1:] != "Q" {
			return board.NoMove, fmt.Errorf("%w: unsupported promotion in %q", board.ErrInvalidMove, orig)
		}
		promotion = true
		s = s[:i]
	}

	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := board.Pawn
	if len(s) > 0 {
		if i := strings.IndexByte("NBRQK", s[0]); i >= 0 {
			pt = board.PieceType(i + 1)
			s = s[1:]
		}
	}

	if len(s) < 2 {
		return board.NoMove, fmt.Errorf("%w: %q", board.ErrInvalidMove, orig)
	}
	dest, err := board.ParseSquare(s[len(s)-2:])
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %w", board.ErrInvalidMove, err)
	}

	file, rank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		}
	}

	return findMove(moves, orig, func(m board.Move) bool {
		switch {
		case m.To != dest || m.Kind == board.Castle:
			return false
		case g.pos.PieceAt(m.From).Type() != pt:
			return false
		case file >= 0 && m.From.File() != file:
			return false
		case rank >= 0 && m.From.Rank() != rank:
			return false
		case capture && !m.IsCapture():
			return false
		}
		return promotion == (m.Kind == board.Promotion)
	})
}

func findMove(moves []board.Move, text string, match func(board.Move) bool) (board.Move, error) {
	for _, m := range moves {
		if match(m) {
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("%w: no legal move matches %q", board.ErrInvalidMove, text)
}

// SANHistory returns the moves played so far in Standard Algebraic Notation.
func (g *Game) SANHistory() []string {
	moves := g.History()
	replay := g.Clone()
	for range moves {
		last := replay.history[len(replay.history)-1].move
		replay.Unmake(last)
	}

	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = replay.SAN(m)
		replay.Make(m)
	}
	return result
}
