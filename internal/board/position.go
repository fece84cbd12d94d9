package board

import (
	"fmt"
	"maps"
	"strings"
)

// State is the outcome status of a position.
type State uint8

const (
	InProgress State = iota
	Checkmate
	Stalemate
	Repetition
	Timeout
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Repetition:
		return "threefold repetition"
	case Timeout:
		return "fifty-move rule"
	default:
		return "unknown"
	}
}

// IsDraw reports whether the state ends the game without a winner.
func (s State) IsDraw() bool {
	return s == Stalemate || s == Repetition || s == Timeout
}

// Position represents a complete chess position.
type Position struct {
	// Piece bitboards: [Color][PieceType]. Masks never overlap.
	Pieces [2][6]Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // target square behind a double-pushed pawn, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int
	State          State

	// Zobrist hash of placement, side, castling and en passant.
	Hash uint64

	// Seen counts how many times each hash occurred in this game.
	Seen map[uint64]int
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	c := *p
	c.Seen = maps.Clone(p.Seen)
	if c.Seen == nil {
		c.Seen = make(map[uint64]int)
	}
	return &c
}

// Occupancy returns all squares holding a piece of color c.
func (p *Position) Occupancy(c Color) Bitboard {
	var bb Bitboard
	for _, pieces := range p.Pieces[c] {
		bb |= pieces
	}
	return bb
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if p.Pieces[c][pt]&bb != 0 {
				return NewPiece(pt, c)
			}
		}
	}
	return NoPiece
}

// KingSquare returns the square of c's king, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// Put places piece on sq. The square must be empty.
func (p *Position) Put(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	if p.PieceAt(sq) != NoPiece {
		panic(fmt.Sprintf("board: put %s on occupied %s", piece, sq))
	}
	p.Pieces[piece.Color()][piece.Type()] |= SquareBB(sq)
}

// Remove clears sq and returns the piece that was there.
func (p *Position) Remove(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece != NoPiece {
		p.Pieces[piece.Color()][piece.Type()] &^= SquareBB(sq)
	}
	return piece
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "State: %s\n", p.State)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}

// Validate checks the structural rules a position must satisfy.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("%w: white must have exactly one king", ErrInvalidPosition)
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("%w: black must have exactly one king", ErrInvalidPosition)
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawns cannot be on rank 1 or 8", ErrInvalidPosition)
	}

	var seen Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if seen&p.Pieces[c][pt] != 0 {
				return fmt.Errorf("%w: overlapping piece masks", ErrInvalidPosition)
			}
			seen |= p.Pieces[c][pt]
		}
	}

	if p.EnPassant != NoSquare {
		want := 5
		if p.SideToMove == Black {
			want = 2
		}
		if p.EnPassant.Rank() != want {
			return fmt.Errorf("%w: en passant square %s", ErrInvalidPosition, p.EnPassant)
		}
		// The target is the square a double push just skipped.
		them := p.SideToMove.Other()
		pushed := p.EnPassant.Step(Forward(them))
		start := p.EnPassant.Step(Forward(p.SideToMove))
		if p.PieceAt(p.EnPassant) != NoPiece || p.PieceAt(start) != NoPiece ||
			p.PieceAt(pushed) != NewPiece(Pawn, them) {
			return fmt.Errorf("%w: no double-pushed pawn behind en passant square %s", ErrInvalidPosition, p.EnPassant)
		}
	}
	return nil
}

// InsufficientMaterial reports whether neither side can possibly mate:
// bare kings, or a single minor piece against a bare king.
func (p *Position) InsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.Pieces[c][Pawn]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0 {
			return false
		}
	}
	minors := (p.Pieces[White][Knight] | p.Pieces[White][Bishop] |
		p.Pieces[Black][Knight] | p.Pieces[Black][Bishop]).PopCount()
	return minors <= 1
}
