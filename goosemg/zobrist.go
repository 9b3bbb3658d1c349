package goosemg

import "math/rand"

// ComputeHash derives the Zobrist hash from scratch. It must always equal Hash().
func (p *Position) ComputeHash() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.board[sq]; pc != NoPiece {
			key ^= zobristPiece[pc][sq]
		}
	}
	if p.side == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[p.castling]
	if p.epSquare != NoSquare {
		key ^= zobristEnPassant[p.epSquare.File()]
	}
	return key
}

// The piece table is indexed by Piece code, so black pieces (type|8) need 15 rows.
var (
	zobristPiece     [15][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64 // by file
	zobristSide      uint64    // black to move
)

const zobristSeed = 0x5eedc4e55

func initZobrist() {
	rng := rand.New(rand.NewSource(zobristSeed))
	fill := func(keys []uint64) {
		for i := range keys {
			keys[i] = rng.Uint64()
		}
	}
	for pc := range zobristPiece {
		fill(zobristPiece[pc][:])
	}
	fill(zobristCastle[:])
	fill(zobristEnPassant[:])
	zobristSide = rng.Uint64()
}
