package domain

import (
	"errors"
	"fmt"
)

// Cell represents a board cell state. X and O double as the two players.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// The labels are fixed: the human always plays X and the computer always plays O.
const (
	Human    = X
	Computer = O
)

// Opponent returns the other player; Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// lines lists the rows, columns and diagonals, in scan order.
var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// WinPatterns returns a copy of the eight winning lines in scan order.
func WinPatterns() [8][3]int { return lines }

// Errors returned by board operations. ErrOutOfBounds and ErrOccupied both
// match ErrIllegalMove under errors.Is.
var (
	ErrIllegalMove = errors.New("illegal move")
	ErrOutOfBounds = fmt.Errorf("%w: out of bounds", ErrIllegalMove)
	ErrOccupied    = fmt.Errorf("%w: cell occupied", ErrIllegalMove)
)

// Status is the coarse state of a board.
type Status uint8

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome is the verdict on a board. Winner is only set when Status is Win.
type Outcome struct {
	Status Status
	Winner Cell
}

// Won returns the outcome of p completing a line.
func Won(p Cell) Outcome { return Outcome{Status: Win, Winner: p} }

// Terminal reports whether no further moves may be played.
func (o Outcome) Terminal() bool { return o.Status != InProgress }

// OutcomeOf scans the win patterns in order, then checks for a full board.
func OutcomeOf(b Board) Outcome {
	if p := b.Winner(); p != Empty {
		return Won(p)
	}
	if b.Full() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// Outcome is shorthand for OutcomeOf(b).
func (b Board) Outcome() Outcome { return OutcomeOf(b) }

// Winner returns the owner of the first fully-owned pattern, or Empty.
func (b Board) Winner() Cell {
	for _, ln := range lines {
		if c := b[ln[0]]; c != Empty && b[ln[1]] == c && b[ln[2]] == c {
			return c
		}
	}
	return Empty
}

// Full reports whether no Empty cell remains.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// LegalMoves returns every empty index in ascending order.
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, len(b))
	for i, c := range b {
		if c == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

// Apply returns a copy of b with p placed at idx. b itself is never modified.
func (b Board) Apply(idx int, p Cell) (Board, error) {
	if p != X && p != O {
		return b, fmt.Errorf("%w: no player %d", ErrIllegalMove, p)
	}
	if idx < 0 || idx >= len(b) {
		return b, ErrOutOfBounds
	}
	if b[idx] != Empty {
		return b, ErrOccupied
	}
	b[idx] = p
	return b, nil
}

// Counts returns how many cells each player holds.
func (b Board) Counts() (x, o int) {
	for _, c := range b {
		switch c {
		case X:
			x++
		case O:
			o++
		}
	}
	return x, o
}

// ToMove infers the side to move assuming X started.
func (b Board) ToMove() Cell {
	if x, o := b.Counts(); x > o {
		return O
	}
	return X
}
