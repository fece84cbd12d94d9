package game

import "github.com/hailam/chesscore/internal/board"

// MoveInfo is what a single piece contributes to move generation and to the
// attack cache.
type MoveInfo struct {
	Targets  board.Bitboard // pseudo-legal destinations, castling excluded
	Attacks  board.Bitboard // squares the piece attacks or defends
	CheckRay board.Bitboard // checker square and blocking squares, if it gives check
	Pin      board.Bitboard // pin ray if it pins an enemy piece to the enemy king
}

var (
	knightAttacks [64]board.Bitboard
	kingAttacks   [64]board.Bitboard
)

func init() {
	knightOffsets := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	for sq := board.A1; sq <= board.H8; sq++ {
		for _, o := range knightOffsets {
			knightAttacks[sq] = knightAttacks[sq].Set(sq.Offset(o[0], o[1]))
		}
		for _, o := range kingOffsets {
			kingAttacks[sq] = kingAttacks[sq].Set(sq.Offset(o[0], o[1]))
		}
	}
}

// MoveInfo computes the contribution of the piece on sq. The square must
// hold a piece.
func (g *Game) MoveInfo(sq board.Square) MoveInfo {
	piece := g.pos.PieceAt(sq)
	if piece == board.NoPiece {
		return MoveInfo{}
	}
	return g.moveInfo(sq, piece.Type(), piece.Color())
}

func (g *Game) moveInfo(sq board.Square, pt board.PieceType, c board.Color) MoveInfo {
	switch pt {
	case board.Pawn:
		return g.pawnInfo(sq, c)
	case board.Knight:
		return g.leaperInfo(sq, c, knightAttacks[sq])
	case board.Bishop:
		return g.sliderInfo(sq, c, board.Diagonals[:])
	case board.Rook:
		return g.sliderInfo(sq, c, board.Orthogonals[:])
	case board.Queen:
		info := g.sliderInfo(sq, c, board.Diagonals[:])
		orth := g.sliderInfo(sq, c, board.Orthogonals[:])
		info.Targets |= orth.Targets
		info.Attacks |= orth.Attacks
		info.CheckRay |= orth.CheckRay
		info.Pin |= orth.Pin
		return info
	case board.King:
		info := g.leaperInfo(sq, c, kingAttacks[sq])
		info.CheckRay = board.Empty
		return info
	default:
		panic("game: unknown piece type " + pt.String())
	}
}

func (g *Game) pawnInfo(sq board.Square, c board.Color) MoveInfo {
	var info MoveInfo
	fwd := board.Forward(c)
	enemy := g.cache.occupied[c.Other()]

	if one := sq.Step(fwd); one != board.NoSquare && !g.cache.all.IsSet(one) {
		info.Targets = info.Targets.Set(one)
		if sq.RelativeRank(c) == 1 {
			if two := one.Step(fwd); !g.cache.all.IsSet(two) {
				info.Targets = info.Targets.Set(two)
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to := sq.Offset(df, fwd.Rank)
		if to == board.NoSquare {
			continue
		}
		info.Attacks = info.Attacks.Set(to)
		if enemy.IsSet(to) || to == g.pos.EnPassant {
			info.Targets = info.Targets.Set(to)
		}
	}

	if info.Attacks&g.pos.Pieces[c.Other()][board.King] != 0 {
		info.CheckRay = board.SquareBB(sq)
	}
	return info
}

func (g *Game) leaperInfo(sq board.Square, c board.Color, attacks board.Bitboard) MoveInfo {
	info := MoveInfo{
		Targets: attacks &^ g.cache.occupied[c],
		Attacks: attacks,
	}
	if attacks&g.pos.Pieces[c.Other()][board.King] != 0 {
		info.CheckRay = board.SquareBB(sq)
	}
	return info
}

// sliderInfo walks each ray until the edge or a blocker. A friendly blocker
// is defended but not a target. When the ray reaches the enemy king it
// becomes a check ray and the square behind the king is marked attacked, so
// the king cannot step back along the line. Any other enemy blocker is a
// target; if the enemy king is the next piece behind it, the segment is a pin.
func (g *Game) sliderInfo(sq board.Square, c board.Color, dirs []board.Direction) MoveInfo {
	var info MoveInfo
	own := g.cache.occupied[c]
	enemy := g.cache.occupied[c.Other()]
	enemyKing := g.pos.Pieces[c.Other()][board.King]

	for _, d := range dirs {
		path := board.SquareBB(sq)
		for to := sq.Step(d); to != board.NoSquare; to = to.Step(d) {
			info.Attacks = info.Attacks.Set(to)
			if own.IsSet(to) {
				break
			}
			info.Targets = info.Targets.Set(to)
			if !enemy.IsSet(to) {
				path = path.Set(to)
				continue
			}

			if enemyKing.IsSet(to) {
				info.CheckRay |= path
				info.Attacks = info.Attacks.Set(to.Step(d))
				break
			}

			pinned := path.Set(to)
			for beyond := to.Step(d); beyond != board.NoSquare; beyond = beyond.Step(d) {
				if !g.cache.all.IsSet(beyond) {
					pinned = pinned.Set(beyond)
					continue
				}
				if enemyKing.IsSet(beyond) {
					info.Pin |= pinned
				}
				break
			}
			break
		}
	}
	return info
}

// pseudoLegal appends the pseudo-legal moves of the piece on sq.
func (g *Game) pseudoLegal(moves []board.Move, sq board.Square, pt board.PieceType, c board.Color) []board.Move {
	info := g.moveInfo(sq, pt, c)
	targets := info.Targets &^ g.pos.Pieces[c.Other()][board.King]

	for to := range targets.All() {
		captured := g.pos.PieceAt(to).Type()
		switch {
		case pt == board.Pawn && to.RelativeRank(c) == 7:
			moves = append(moves, board.NewPromotion(sq, to, captured))
		case pt == board.Pawn && to == g.pos.EnPassant && sq.File() != to.File():
			moves = append(moves, board.NewEnPassant(sq, to))
		case pt == board.Pawn && (to.Rank()-sq.Rank() == 2 || sq.Rank()-to.Rank() == 2):
			moves = append(moves, board.NewQuiet(sq, to, board.DoublePush))
		case captured != board.NoPieceType:
			moves = append(moves, board.NewCapture(sq, to, captured))
		default:
			moves = append(moves, board.NewQuiet(sq, to, board.Normal))
		}
	}

	if pt == board.King {
		moves = g.castles(moves, c)
	}
	return moves
}

// castles appends castling moves whose right is held, whose rook is home and
// whose path is empty. Attack checks happen in the legality filter.
func (g *Game) castles(moves []board.Move, c board.Color) []board.Move {
	rook := board.NewPiece(board.Rook, c)
	for _, side := range [2]board.CastleSide{board.KingSide, board.QueenSide} {
		if !g.pos.CastlingRights.CanCastle(c, side) {
			continue
		}
		path := board.CastlePath(c, side)
		if g.pos.KingSquare(c) != path.KingFrom || g.pos.PieceAt(path.RookFrom) != rook {
			continue
		}
		if path.Empty&g.cache.all != 0 {
			continue
		}
		moves = append(moves, board.NewCastle(c, side))
	}
	return moves
}
