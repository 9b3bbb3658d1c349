package engine

import (
	gm "chesscore/goosemg"
)

// Evaluator scores a position for the search. Implementations must be safe for
// concurrent use by several workers.
type Evaluator interface {
	// Evaluate returns a score in centipawns from the side to move's point of view.
	Evaluate(pos *gm.Position) int32
	// PieceValue returns the nominal value of a piece type, used by pruning margins.
	PieceValue(pt gm.PieceType) int32
}

// Game phase weights for interpolation
const (
	PawnPhase   = 0
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = PawnPhase*16 + KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

// Board indexing for black pieces: tables are written from white's side.
var FlipView = [64]gm.Square{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

// Weights holds every tunable number of PSQTEvaluator. Tables are indexed by piece type
// and square from white's side, a1 = 0.
type Weights struct {
	PieceValueMG [7]int32
	PieceValueEG [7]int32
	MobilityMG   [7]int32
	MobilityEG   [7]int32
	PSQT_MG      [7][64]int32
	PSQT_EG      [7][64]int32

	BishopPairMG int32
	BishopPairEG int32
	Tempo        int32

	// Pawn structure, passed pawn tables are from white's side like PSQT.
	PassedPawnMG       [64]int32
	PassedPawnEG       [64]int32
	DoubledPawnMG      int32
	DoubledPawnEG      int32
	IsolatedPawnMG     int32
	IsolatedPawnEG     int32
	RookOpenFileMG     int32
	RookSemiOpenFileMG int32
}

// DefaultWeights returns a copy of the built-in weight set.
func DefaultWeights() Weights {
	return Weights{
		PieceValueMG: [7]int32{
			gm.PieceTypeKing: 0, gm.PieceTypePawn: 88, gm.PieceTypeKnight: 316, gm.PieceTypeBishop: 331, gm.PieceTypeRook: 494, gm.PieceTypeQueen: 993,
		},
		PieceValueEG: [7]int32{
			gm.PieceTypeKing: 0, gm.PieceTypePawn: 111, gm.PieceTypeKnight: 305, gm.PieceTypeBishop: 333, gm.PieceTypeRook: 535, gm.PieceTypeQueen: 963,
		},
		MobilityMG: [7]int32{
			gm.PieceTypeKing: 0, gm.PieceTypePawn: 0, gm.PieceTypeKnight: 2, gm.PieceTypeBishop: 3, gm.PieceTypeRook: 2, gm.PieceTypeQueen: 1,
		},
		MobilityEG: [7]int32{
			gm.PieceTypeKing: 0, gm.PieceTypePawn: 0, gm.PieceTypeKnight: 3, gm.PieceTypeBishop: 2, gm.PieceTypeRook: 4, gm.PieceTypeQueen: 4,
		},
		PSQT_MG:      defaultPSQT_MG,
		PSQT_EG:      defaultPSQT_EG,
		BishopPairMG: 10,
		BishopPairEG: 50,
		Tempo:        10,

		PassedPawnMG:       defaultPassedPawnMG,
		PassedPawnEG:       defaultPassedPawnEG,
		DoubledPawnMG:      13,
		DoubledPawnEG:      20,
		IsolatedPawnMG:     5,
		IsolatedPawnEG:     12,
		RookOpenFileMG:     25,
		RookSemiOpenFileMG: 15,
	}
}

// PSQTEvaluator is a tapered material, piece-square, mobility and bishop pair evaluation.
type PSQTEvaluator struct {
	W Weights
}

func NewPSQTEvaluator(w Weights) *PSQTEvaluator {
	return &PSQTEvaluator{W: w}
}

// GamePhase returns 0 (bare kings and pawns) up to TotalPhase (all pieces on board).
func GamePhase(pos *gm.Position) int {
	phase := 0
	for c := gm.White; c <= gm.Black; c++ {
		phase += pos.Pieces(c, gm.PieceTypeKnight).Count() * KnightPhase
		phase += pos.Pieces(c, gm.PieceTypeBishop).Count() * BishopPhase
		phase += pos.Pieces(c, gm.PieceTypeRook).Count() * RookPhase
		phase += pos.Pieces(c, gm.PieceTypeQueen).Count() * QueenPhase
	}
	return Min(phase, TotalPhase)
}

func (e *PSQTEvaluator) PieceValue(pt gm.PieceType) int32 { return e.W.PieceValueMG[pt] }

func (e *PSQTEvaluator) Evaluate(pos *gm.Position) int32 {
	var mg, eg [2]int32
	occ := pos.Occupied()

	for c := gm.White; c <= gm.Black; c++ {
		own := pos.Occupancy(c)
		for pt := gm.PieceTypePawn; pt <= gm.PieceTypeKing; pt++ {
			for bb := pos.Pieces(c, pt); bb != 0; {
				sq := bb.PopLSB()
				idx := sq
				if c == gm.Black {
					idx = FlipView[sq]
				}
				mg[c] += e.W.PieceValueMG[pt] + e.W.PSQT_MG[pt][idx]
				eg[c] += e.W.PieceValueEG[pt] + e.W.PSQT_EG[pt][idx]

				var attacks gm.Bitboard
				switch pt {
				case gm.PieceTypeKnight:
					attacks = gm.KnightAttacks(sq)
				case gm.PieceTypeBishop:
					attacks = gm.BishopAttacks(sq, occ)
				case gm.PieceTypeRook:
					attacks = gm.RookAttacks(sq, occ)
				case gm.PieceTypeQueen:
					attacks = gm.QueenAttacks(sq, occ)
				default:
					continue
				}
				mobility := int32(attacks.Diff(own).Count())
				mg[c] += mobility * e.W.MobilityMG[pt]
				eg[c] += mobility * e.W.MobilityEG[pt]
			}
		}
		if pos.Pieces(c, gm.PieceTypeBishop).Many() {
			mg[c] += e.W.BishopPairMG
			eg[c] += e.W.BishopPairEG
		}
		pmg, peg := e.pawnStructure(pos, c)
		mg[c] += pmg
		eg[c] += peg
	}

	phase := int32(GamePhase(pos))
	mgScore := mg[gm.White] - mg[gm.Black]
	egScore := eg[gm.White] - eg[gm.Black]
	score := (mgScore*phase + egScore*(TotalPhase-phase)) / TotalPhase
	if isTheoreticalDraw(pos) {
		score /= DrawDivider
	}

	if pos.SideToMove() == gm.Black {
		score = -score
	}
	return score + e.W.Tempo
}

var defaultPassedPawnMG = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	-11, -10, -11, -11, -7, -21, -4, 10,
	-2, -5, -17, -17, -12, -11, -11, 8,
	19, 7, -11, -7, -12, -18, -1, 7,
	41, 34, 26, 21, 11, 9, 13, 21,
	75, 62, 52, 43, 29, 28, 20, 23,
	60, 52, 62, 57, 44, 24, 11, 17,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var defaultPassedPawnEG = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	10, 9, 5, 5, 2, -4, 8, 15,
	10, 17, 10, 9, 7, 6, 21, 11,
	33, 38, 33, 29, 29, 32, 45, 34,
	64, 61, 47, 46, 40, 39, 55, 50,
	100, 77, 60, 41, 35, 54, 57, 77,
	61, 61, 57, 48, 47, 46, 53, 56,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var defaultPSQT_MG = [7][64]int32{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-46, -41, -42, -39, -40, -12, 1, -21,
		-51, -52, -45, -45, -37, -37, -20, -30,
		-46, -40, -33, -33, -23, -26, -15, -30,
		-36, -27, -27, -11, 1, 2, -4, -21,
		-33, -6, 7, 13, 27, 57, 19, -11,
		57, 54, 55, 54, 46, 32, 4, 9,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-24, -28, -46, -30, -25, -21, -27, -40,
		-35, -32, -18, -10, -14, -12, -20, -18,
		-25, -8, -4, 6, 7, -1, -1, -17,
		-14, -1, 8, 5, 13, 10, 26, -1,
		-5, 8, 30, 35, 24, 43, 19, 22,
		-21, 12, 40, 49, 67, 64, 37, 14,
		-17, -12, 20, 33, 33, 37, -8, 3,
		-61, -6, -12, -2, 1, -6, -1, -16,
	},
	gm.PieceTypeBishop: {
		4, -2, -15, -21, -18, -8, -8, 2,
		4, 8, 11, -2, 1, 5, 20, 11,
		-2, 11, 8, 13, 10, 8, 10, 13,
		-7, 10, 15, 21, 26, 11, 10, 7,
		-4, 22, 24, 49, 34, 37, 20, 6,
		4, 18, 36, 36, 47, 55, 37, 24,
		-22, 6, 3, -7, 4, 14, -3, 8,
		-27, -8, -13, -12, -8, -21, 1, -10,
	},
	gm.PieceTypeRook: {
		-46, -41, -37, -34, -36, -40, -19, -42,
		-71, -45, -44, -43, -47, -37, -25, -51,
		-60, -46, -50, -44, -47, -48, -21, -38,
		-49, -45, -43, -35, -37, -34, -13, -29,
		-33, -21, -11, 6, 0, 7, 8, 2,
		-22, 10, 4, 25, 41, 38, 44, 20,
		-3, -5, 16, 28, 31, 37, 9, 30,
		23, 22, 19, 24, 23, 20, 21, 34,
	},
	gm.PieceTypeQueen: {
		-6, -17, -12, -3, -6, -28, -27, -12,
		-11, -4, 2, -2, -1, 7, 8, -7,
		-8, -1, -2, -4, -4, -1, 8, 7,
		-5, -3, -2, -6, -6, 10, 7, 16,
		-11, -6, -2, -1, 12, 22, 26, 26,
		-13, -6, -1, 14, 36, 58, 71, 42,
		-11, -40, 5, 5, 20, 44, -2, 27,
		0, 16, 21, 29, 36, 38, 25, 36,
	},
	gm.PieceTypeKing: {
		-4, 36, -1, -69, -23, -74, 19, 26,
		12, 0, -18, -53, -33, -39, 7, 25,
		-6, -4, -3, -11, -6, -8, 4, -15,
		-1, 8, 16, 10, 15, 12, 23, -9,
		0, 9, 16, 10, 13, 15, 15, -8,
		1, 11, 12, 9, 8, 14, 12, 0,
		-2, 6, 6, 2, 3, 4, 3, -2,
		-1, 0, 0, 2, 0, 0, 0, -2,
	},
}
var defaultPSQT_EG = [7][64]int32{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-9, -8, -4, -2, 7, 2, -14, -29,
		-16, -17, -13, -12, -9, -12, -26, -29,
		-8, -10, -19, -18, -19, -17, -22, -21,
		3, -2, -5, -23, -16, -14, -10, -12,
		21, 22, 21, 22, 22, 11, 25, 17,
		75, 69, 58, 48, 43, 43, 55, 63,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-29, -60, -26, -18, -20, -28, -48, -30,
		-28, -13, -13, -6, -4, -16, -18, -31,
		-38, -3, 6, 19, 18, 5, -2, -33,
		-15, 11, 32, 36, 34, 35, 16, -9,
		-11, 14, 28, 43, 48, 36, 28, -1,
		-20, 6, 24, 26, 20, 31, 12, -11,
		-25, -12, 1, 21, 19, -3, -9, -16,
		-41, -11, 2, 0, 1, 4, -4, -17,
	},
	gm.PieceTypeBishop: {
		-28, -16, -38, -14, -19, -24, -21, -20,
		-10, -20, -12, -4, -5, -18, -18, -33,
		-12, -1, 7, 10, 8, 3, -11, -11,
		-5, 6, 17, 18, 15, 14, 4, -10,
		0, 11, 12, 17, 24, 15, 19, 3,
		-5, 8, 11, 11, 13, 19, 12, 3,
		-7, 7, 10, 11, 12, 10, 12, -6,
		1, 5, 5, 8, 4, 0, 2, 2,
	},
	gm.PieceTypeRook: {
		-10, 0, 5, 5, 3, 3, -1, -18,
		-8, -10, -3, -6, -5, -11, -14, -10,
		-2, 7, 8, 5, 4, 3, -1, -8,
		13, 25, 26, 22, 20, 18, 12, 6,
		25, 27, 30, 26, 23, 20, 16, 16,
		34, 24, 32, 25, 17, 24, 14, 18,
		36, 42, 40, 41, 40, 23, 28, 22,
		32, 37, 40, 37, 38, 42, 39, 37,
	},
	gm.PieceTypeQueen: {
		-25, -35, -41, -48, -50, -39, -27, -9,
		-26, -24, -44, -27, -36, -62, -57, -17,
		-22, -17, 5, -10, -11, 1, -19, -14,
		-19, 5, 6, 38, 32, 30, 17, 20,
		-11, 14, 13, 42, 52, 57, 49, 33,
		-1, 3, 20, 29, 45, 56, 40, 38,
		7, 31, 25, 36, 57, 44, 28, 25,
		14, 26, 29, 38, 44, 43, 31, 33,
	},
	gm.PieceTypeKing: {
		-37, -29, -20, -26, -54, -14, -35, -78,
		-15, -9, -3, 4, -2, 1, -15, -35,
		-16, -3, 7, 16, 13, 6, -8, -18,
		-16, 8, 21, 28, 25, 19, 5, -18,
		-2, 22, 29, 30, 29, 26, 20, -5,
		1, 26, 25, 19, 16, 32, 31, -1,
		-12, 14, 11, 3, 5, 10, 20, -9,
		-17, -12, -6, -1, -6, -6, -6, -14,
	},
}

