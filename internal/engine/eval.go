package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Material values in hundredths of a pawn, indexed by piece type.
var materialValue = [6]int{
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   1000,
}

// Piece-square bonuses in hundredths of a pawn. Index 0 is a1; Black looks
// up the mirrored square.
var pieceSquare = [6][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		30, 30, 30, 40, 40, 30, 30, 30,
		20, 20, 20, 30, 30, 30, 20, 20,
		10, 10, 15, 25, 25, 15, 10, 10,
		5, 5, 5, 20, 20, 5, 5, 5,
		5, 0, 0, 5, 5, 0, 0, 5,
		5, 5, 5, -10, -10, 5, 5, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-5, -5, -5, -5, -5, -5, -5, -5,
		-5, 0, 0, 10, 10, 0, 0, -5,
		-5, 5, 10, 10, 10, 10, 5, -5,
		-5, 5, 10, 15, 15, 10, 5, -5,
		-5, 5, 10, 15, 15, 10, 5, -5,
		-5, 5, 10, 10, 10, 10, 5, -5,
		-5, 0, 0, 5, 5, 0, 0, -5,
		-5, -10, -5, -5, -5, -5, -10, -5,
	},
	board.Bishop: {
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 10, 0, 0, 0, 0, 10, 0,
		5, 0, 10, 0, 0, 10, 0, 5,
		0, 10, 0, 10, 10, 0, 10, 0,
		0, 10, 0, 10, 10, 0, 10, 0,
		0, 0, -10, 0, 0, -10, 0, 0,
	},
	board.Rook: {
		10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 10, 10, 0, 0, 0,
		0, 0, 0, 10, 10, 5, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, 0, 0, -10, -10, -20,
	},
	board.King: {
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, -5, -5, -5, 0, 0,
		0, 0, 10, -5, -5, -5, 10, 0,
	},
}

// SquareValue returns the positional bonus, in hundredths of a pawn, of a
// piece of type pt and colour c standing on sq.
func SquareValue(pt board.PieceType, c board.Color, sq board.Square) int {
	if c == board.Black {
		sq = sq.Mirror()
	}
	return pieceSquare[pt][sq]
}

// Evaluate returns the static score of pos from White's point of view, in
// pawns. Positive favours White. The sum is kept in integers so mirrored
// positions score exactly zero.
func Evaluate(pos *board.Position) float64 {
	var score int
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			for sq := range pos.Pieces[c][pt].All() {
				score += sign * (materialValue[pt] + SquareValue(pt, c, sq))
			}
		}
	}
	return float64(score) / 100
}
