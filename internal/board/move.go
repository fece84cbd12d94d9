package board

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is returned for move text that does not describe a move in
// the given position.
var ErrInvalidMove = errors.New("invalid move")

// MoveKind tags what a move does besides relocating a piece.
type MoveKind uint8

const (
	Normal MoveKind = iota
	Capture
	DoublePush // pawn advances two squares and creates an en passant target
	EnPassant
	Promotion // always to a queen; may also capture
	Castle
)

func (k MoveKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Capture:
		return "capture"
	case DoublePush:
		return "double-push"
	case EnPassant:
		return "en-passant"
	case Promotion:
		return "promotion"
	case Castle:
		return "castle"
	default:
		return "unknown"
	}
}

// Move is an immutable, comparable move. It is only meaningful for the
// position it was generated in.
type Move struct {
	From, To  Square
	Kind      MoveKind
	Captured  PieceType // NoPieceType unless the move removes an enemy piece
	Promotion PieceType // NoPieceType unless Kind == Promotion
	Castle    CastleSide
}

// NoMove represents the absence of a move.
var NoMove = Move{From: NoSquare, To: NoSquare, Captured: NoPieceType, Promotion: NoPieceType}

// NewQuiet creates a non-capturing move of the given kind (Normal or DoublePush).
func NewQuiet(from, to Square, kind MoveKind) Move {
	return Move{From: from, To: to, Kind: kind, Captured: NoPieceType, Promotion: NoPieceType}
}

// NewCapture creates a capture of a piece of type captured.
func NewCapture(from, to Square, captured PieceType) Move {
	return Move{From: from, To: to, Kind: Capture, Captured: captured, Promotion: NoPieceType}
}

// NewEnPassant creates an en passant capture landing on to.
func NewEnPassant(from, to Square) Move {
	return Move{From: from, To: to, Kind: EnPassant, Captured: Pawn, Promotion: NoPieceType}
}

// NewPromotion creates a queen promotion, capturing when captured != NoPieceType.
func NewPromotion(from, to Square, captured PieceType) Move {
	return Move{From: from, To: to, Kind: Promotion, Captured: captured, Promotion: Queen}
}

// NewCastle creates the king move for castling.
func NewCastle(c Color, side CastleSide) Move {
	path := CastlePath(c, side)
	return Move{From: path.KingFrom, To: path.KingTo, Kind: Castle, Captured: NoPieceType, Promotion: NoPieceType, Castle: side}
}

// IsCapture returns true if this move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPieceType
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Kind == Promotion {
		s += "q"
	}
	return s
}

// NewMove infers the kind of the move from->to in pos. It does not check
// that the move is legal.
func NewMove(pos *Position, from, to Square) (Move, error) {
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("%w: no piece at %s", ErrInvalidMove, from)
	}
	if piece.Color() != pos.SideToMove {
		return NoMove, fmt.Errorf("%w: %s does not move %s", ErrInvalidMove, pos.SideToMove, piece)
	}

	target := pos.PieceAt(to)
	if target != NoPiece && target.Color() == piece.Color() {
		return NoMove, fmt.Errorf("%w: %s is occupied by own piece", ErrInvalidMove, to)
	}
	captured := target.Type()

	switch piece.Type() {
	case King:
		for _, side := range []CastleSide{KingSide, QueenSide} {
			path := CastlePath(piece.Color(), side)
			if from == path.KingFrom && to == path.KingTo {
				return NewCastle(piece.Color(), side), nil
			}
		}
	case Pawn:
		switch {
		case to.RelativeRank(piece.Color()) == 7:
			return NewPromotion(from, to, captured), nil
		case to == pos.EnPassant && target == NoPiece && from.File() != to.File():
			return NewEnPassant(from, to), nil
		case target == NoPiece && (to.Rank()-from.Rank() == 2 || from.Rank()-to.Rank() == 2):
			return NewQuiet(from, to, DoublePush), nil
		}
	}

	if target != NoPiece {
		return NewCapture(from, to, captured), nil
	}
	return NewQuiet(from, to, Normal), nil
}

// ParseMove parses coordinate notation: four characters, plus an optional
// trailing 'q' for promotions. Under-promotion is not supported.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %w", ErrInvalidMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %w", ErrInvalidMove, err)
	}

	m, err := NewMove(pos, from, to)
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		if s[4] != 'q' {
			return NoMove, fmt.Errorf("%w: unsupported promotion piece %q", ErrInvalidMove, s[4])
		}
		if m.Kind != Promotion {
			return NoMove, fmt.Errorf("%w: %s is not a promotion", ErrInvalidMove, s)
		}
	}
	return m, nil
}
