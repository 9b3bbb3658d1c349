package goosemg

import "errors"

var (
	// ErrInvalidFEN is returned when a board string cannot be parsed.
	ErrInvalidFEN = errors.New("invalid FEN")
	// ErrInvalidSquare is returned for square names outside a1..h8.
	ErrInvalidSquare = errors.New("invalid square")
	// ErrInvalidMove is returned for move text that is not 4-5 chars of UCI notation.
	ErrInvalidMove = errors.New("invalid move")
	// ErrIllegalMove is returned for well-formed move text that is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")
)
