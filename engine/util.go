package engine

import "golang.org/x/exp/constraints"

type number interface {
	constraints.Integer | constraints.Float
}

// Min returns the smaller of x or y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x or y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts f to the inclusive range [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

func Abs[T number](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// roundDownToPowerOf2 returns the largest power of two <= n, or 1 for n < 1.
func roundDownToPowerOf2[T constraints.Unsigned](n T) T {
	if n < 1 {
		return 1
	}
	p := T(1)
	for p<<1 != 0 && p<<1 <= n {
		p <<= 1
	}
	return p
}
