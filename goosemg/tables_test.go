package goosemg

import (
	"math/rand"
	"testing"
)

func TestPextPdepInverse(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		mask := Bitboard(rnd.Uint64() & rnd.Uint64())
		occ := rnd.Uint64()
		idx := pext(occ, mask)
		if got, want := pdep(idx, mask), Bitboard(occ)&mask; got != want {
			t.Fatalf("pdep(pext(%x, %x)) = %x want %x", occ, mask, got, want)
		}
	}
}

func TestSliderTablesMatchRayWalk(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 5000; i++ {
		sq := Square(rnd.Intn(64))
		occ := Bitboard(rnd.Uint64() & rnd.Uint64())
		if got, want := RookAttacks(sq, occ), slowAttacks(sq, occ, rookDirs); got != want {
			t.Fatalf("rook %s occ %x: got %x want %x", sq, occ, got, want)
		}
		if got, want := BishopAttacks(sq, occ), slowAttacks(sq, occ, bishopDirs); got != want {
			t.Fatalf("bishop %s occ %x: got %x want %x", sq, occ, got, want)
		}
	}
}

func TestRelevantMaskSizes(t *testing.T) {
	if n := rookMask[A1].Count(); n != 12 {
		t.Fatalf("rook mask a1 has %d bits, want 12", n)
	}
	if n := rookMask[Square(27)].Count(); n != 10 {
		t.Fatalf("rook mask d4 has %d bits, want 10", n)
	}
	if n := bishopMask[Square(27)].Count(); n != 9 {
		t.Fatalf("bishop mask d4 has %d bits, want 9", n)
	}
}

func TestLeaperTables(t *testing.T) {
	if n := KnightAttacks(A1).Count(); n != 2 {
		t.Fatalf("knight a1: %d", n)
	}
	if n := KingAttacks(Square(27)).Count(); n != 8 {
		t.Fatalf("king d4: %d", n)
	}
	if got := PawnAttacks(White, E1+8); got != SquareBB(D1+16)|SquareBB(F1+16) {
		t.Fatalf("white pawn e2 attacks %x", got)
	}
	if got := PawnAttacks(Black, A8-8); got != SquareBB(B8-16) {
		t.Fatalf("black pawn a7 attacks %x", got)
	}
}

func TestBetweenAndCheckMask(t *testing.T) {
	if got, want := Between(A1, H8).Count(), 6; got != want {
		t.Fatalf("between a1-h8: %d squares", got)
	}
	if Between(A1, Square(17)) != 0 || CheckMask(A1, Square(17)) != 0 {
		t.Fatal("knight-distance squares are not aligned")
	}
	if got := CheckMask(E1, E8); got != Between(E1, E8)|SquareBB(E8) {
		t.Fatalf("check mask e1-e8: %x", got)
	}
	if Between(E1, E8) != Between(E8, E1) {
		t.Fatal("between must be symmetric")
	}
}

func TestPinMask(t *testing.T) {
	king, rook := E1, E8
	e4 := Square(28)
	e6 := Square(44)

	if got := PinMask(king, rook, SquareBB(king)|SquareBB(rook)); got != 0 {
		t.Fatalf("no blocker: got %x", got)
	}
	one := SquareBB(king) | SquareBB(rook) | SquareBB(e4)
	if got, want := PinMask(king, rook, one), CheckMask(king, rook); got != want {
		t.Fatalf("one blocker: got %x want %x", got, want)
	}
	two := one | SquareBB(e6)
	if got := PinMask(king, rook, two); got != 0 {
		t.Fatalf("two blockers: got %x", got)
	}
	if got := PinMask(king, Square(17), FullBB); got != 0 {
		t.Fatalf("unaligned: got %x", got)
	}
}

func TestBitboardPopLSB(t *testing.T) {
	bb := SquareBB(A1) | SquareBB(Square(27)) | SquareBB(H8)
	var got []Square
	for bb != 0 {
		got = append(got, bb.PopLSB())
	}
	if len(got) != 3 || got[0] != A1 || got[1] != 27 || got[2] != H8 {
		t.Fatalf("PopLSB order: %v", got)
	}
	b := EmptyBB.With(E1).With(E8).Without(E1)
	if b.Has(E1) || !b.Has(E8) || b.Count() != 1 {
		t.Fatalf("With/Without: %x", b)
	}
	if SquareBB(A1).Union(SquareBB(B1)).Intersect(SquareBB(B1)).Diff(SquareBB(B1)) != 0 {
		t.Fatal("set algebra")
	}
}
