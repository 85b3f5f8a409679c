// Package engine picks the computer's move by exhaustive minimax search.
package engine

import (
	"errors"
	"math"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

// ErrNoMovesAvailable is returned when the engine is asked to move on a full
// board. Callers check the outcome first, so seeing it is a programming error.
var ErrNoMovesAvailable = errors.New("no moves available")

// Scores returned by Evaluate.
const (
	WinScore  = 10
	LossScore = -10
)

// Strategy chooses a move for the computer.
type Strategy func(domain.Board) (int, error)

// Minimax is the default Strategy.
var Minimax Strategy = BestMove

// BestMove returns the computer's (O's) move.
func BestMove(b domain.Board) (int, error) {
	return BestMoveFor(b, domain.O)
}

// BestMoveFor searches from me's point of view: lines owned by me score +10,
// lines owned by the opponent -10. Ties go to the lowest index.
func BestMoveFor(b domain.Board, me domain.Cell) (int, error) {
	if me != domain.X && me != domain.O {
		return -1, domain.ErrIllegalMove
	}
	s := search{board: b, me: me}
	best, bestVal := -1, math.MinInt
	for i := range s.board {
		if s.board[i] != domain.Empty {
			continue
		}
		s.board[i] = me
		val := s.minimax(0, false)
		s.board[i] = domain.Empty

		if val > bestVal {
			best, bestVal = i, val
		}
	}
	if best < 0 {
		return -1, ErrNoMovesAvailable
	}
	return best, nil
}

// Evaluate scores a decisive line: +10 when O owns one, -10 for X, else 0.
func Evaluate(b domain.Board) int {
	return evaluate(b, domain.O)
}

func evaluate(b domain.Board, me domain.Cell) int {
	switch b.Winner() {
	case domain.Empty:
		return 0
	case me:
		return WinScore
	default:
		return LossScore
	}
}

// search owns a private copy of the board; minimax places and removes marks
// on it, leaving every cell as it found it on return.
type search struct {
	board domain.Board
	me    domain.Cell
}

// minimax scores the position. Depth is subtracted at maximizing nodes and
// added at minimizing ones so faster wins and slower losses score better.
func (s *search) minimax(depth int, maximizing bool) int {
	score := evaluate(s.board, s.me)
	if score == WinScore || score == LossScore {
		return score
	}
	if s.board.Full() {
		return 0
	}

	mover, best := s.me.Opponent(), math.MaxInt
	if maximizing {
		mover, best = s.me, math.MinInt
	}
	for i := range s.board {
		if s.board[i] != domain.Empty {
			continue
		}
		s.board[i] = mover
		val := s.minimax(depth+1, !maximizing)
		s.board[i] = domain.Empty

		if maximizing {
			best = max(best, val)
		} else {
			best = min(best, val)
		}
	}

	if maximizing {
		return best - depth
	}
	return best + depth
}
