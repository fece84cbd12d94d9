package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			s += string(ch)
		}
	}
	return s
}

// CanCastle returns true if color c still holds the right for side.
func (cr CastlingRights) CanCastle(c Color, side CastleSide) bool {
	return side != NoCastle && cr&CastlePath(c, side).Right != 0
}

// CastleSide selects king-side or queen-side castling.
type CastleSide uint8

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

func (cs CastleSide) String() string {
	switch cs {
	case KingSide:
		return "O-O"
	case QueenSide:
		return "O-O-O"
	default:
		return "-"
	}
}

// Castling describes the fixed squares involved in one castle.
type Castling struct {
	Right    CastlingRights
	KingFrom Square
	KingTo   Square
	RookFrom Square
	RookTo   Square

	// Empty must be unoccupied. Transit must not be attacked; it includes
	// the king's destination but not its origin.
	Empty   Bitboard
	Transit Bitboard
}

var castlings = [2][3]Castling{
	White: {
		KingSide: {
			Right: WhiteKingSideCastle, KingFrom: E1, KingTo: G1, RookFrom: H1, RookTo: F1,
			Empty:   SquareBB(F1) | SquareBB(G1),
			Transit: SquareBB(F1) | SquareBB(G1),
		},
		QueenSide: {
			Right: WhiteQueenSideCastle, KingFrom: E1, KingTo: C1, RookFrom: A1, RookTo: D1,
			Empty:   SquareBB(B1) | SquareBB(C1) | SquareBB(D1),
			Transit: SquareBB(C1) | SquareBB(D1),
		},
	},
	Black: {
		KingSide: {
			Right: BlackKingSideCastle, KingFrom: E8, KingTo: G8, RookFrom: H8, RookTo: F8,
			Empty:   SquareBB(F8) | SquareBB(G8),
			Transit: SquareBB(F8) | SquareBB(G8),
		},
		QueenSide: {
			Right: BlackQueenSideCastle, KingFrom: E8, KingTo: C8, RookFrom: A8, RookTo: D8,
			Empty:   SquareBB(B8) | SquareBB(C8) | SquareBB(D8),
			Transit: SquareBB(C8) | SquareBB(D8),
		},
	},
}

// CastlePath returns the squares for color c castling on side.
func CastlePath(c Color, side CastleSide) Castling {
	return castlings[c][side]
}

// rightsLost maps a square to the rights revoked when a piece leaves or is
// captured on it.
var rightsLost = func() [64]CastlingRights {
	var lost [64]CastlingRights
	lost[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	lost[H1] = WhiteKingSideCastle
	lost[A1] = WhiteQueenSideCastle
	lost[E8] = BlackKingSideCastle | BlackQueenSideCastle
	lost[H8] = BlackKingSideCastle
	lost[A8] = BlackQueenSideCastle
	return lost
}()

// RightsLost returns the castling rights revoked by touching sq.
func RightsLost(sq Square) CastlingRights {
	if sq >= NoSquare {
		return NoCastling
	}
	return rightsLost[sq]
}
